package leave

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

// LedgerDefaults are the company-wide quotas a new ledger starts with.
type LedgerDefaults struct {
	PLQuota decimal.Decimal
	SLQuota decimal.Decimal
}

// NewLedger returns an empty ledger for (employeeID, year) with these quotas.
func (d LedgerDefaults) NewLedger(employeeID string, year int) leave.Ledger {
	return leave.Ledger{
		EmployeeID: employeeID,
		Year:       year,
		PLQuota:    d.PLQuota,
		SLQuota:    d.SLQuota,
		LOPQuota:   decimal.Zero,
		UsedPL:     decimal.Zero,
		UsedSL:     decimal.Zero,
		UsedLOP:    decimal.Zero,
	}
}

type LedgerServiceImpl struct {
	tx database.Transactor
	leave.LedgerRepository
	employee.EmployeeRepository
	defaults LedgerDefaults
}

func NewLedgerService(
	tx database.Transactor,
	ledgerRepository leave.LedgerRepository,
	employeeRepository employee.EmployeeRepository,
	defaults LedgerDefaults,
) *LedgerServiceImpl {
	return &LedgerServiceImpl{
		tx:                 tx,
		LedgerRepository:   ledgerRepository,
		EmployeeRepository: employeeRepository,
		defaults:           defaults,
	}
}

// EnsureLedger implements leave.LedgerService.
func (s *LedgerServiceImpl) EnsureLedger(ctx context.Context, employeeID string, year int) (leave.Ledger, error) {
	l, err := s.LedgerRepository.GetByEmployeeYear(ctx, employeeID, year)
	if err == nil {
		return l, nil
	}
	if !errors.Is(err, leave.ErrLedgerNotFound) {
		return leave.Ledger{}, fmt.Errorf("failed to get leave ledger: %w", err)
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, employeeID); err != nil {
		return leave.Ledger{}, err
	}

	l, err = s.LedgerRepository.Create(ctx, s.defaults.NewLedger(employeeID, year))
	if err != nil {
		if errors.Is(err, leave.ErrLedgerExists) {
			return s.LedgerRepository.GetByEmployeeYear(ctx, employeeID, year)
		}
		return leave.Ledger{}, fmt.Errorf("failed to create leave ledger: %w", err)
	}
	slog.Info("leave ledger provisioned", "employee_id", employeeID, "year", year)
	return l, nil
}

// ProvisionYear implements leave.LedgerService.
func (s *LedgerServiceImpl) ProvisionYear(ctx context.Context, year int) (leave.ProvisionResult, error) {
	result := leave.ProvisionResult{Year: year}

	employees, err := s.EmployeeRepository.ListActive(ctx)
	if err != nil {
		return result, fmt.Errorf("failed to list active employees: %w", err)
	}

	for _, emp := range employees {
		_, err := s.LedgerRepository.Create(ctx, s.defaults.NewLedger(emp.ID, year))
		switch {
		case err == nil:
			result.Created++
		case errors.Is(err, leave.ErrLedgerExists):
			result.Existing++
		default:
			return result, fmt.Errorf("failed to provision ledger for employee %s: %w", emp.ID, err)
		}
	}
	return result, nil
}

// Consume implements leave.LedgerService.
func (s *LedgerServiceImpl) Consume(ctx context.Context, req leave.ConsumeRequest) (leave.ConsumeResult, error) {
	if !req.LeaveType.Valid() {
		return leave.ConsumeResult{}, leave.ErrInvalidLeaveType
	}
	year, month := req.At.Year(), int(req.At.Month())

	var result leave.ConsumeResult
	err := s.tx.WithinTransaction(ctx, func(txCtx context.Context) error {
		l, err := s.LedgerRepository.GetByEmployeeYearForUpdate(txCtx, req.EmployeeID, year)
		if err != nil {
			if errors.Is(err, leave.ErrLedgerNotFound) {
				slog.Warn("no leave ledger, skipping consumption",
					"employee_id", req.EmployeeID, "year", year, "leave_request_id", req.LeaveRequestID)
				return nil
			}
			return fmt.Errorf("failed to lock leave ledger: %w", err)
		}

		c := req.LeaveType.Split(req.Count, l, month)

		if err := s.LedgerRepository.CreateEntry(txCtx, leave.LedgerEntry{
			LedgerID:       l.ID,
			LeaveRequestID: req.LeaveRequestID,
			LeaveType:      req.LeaveType,
			Requested:      req.Count,
			PL:             c.PL,
			SL:             c.SL,
			LOP:            c.LOP,
			CreatedAt:      req.At,
		}); err != nil {
			return err
		}
		if err := s.LedgerRepository.AddUsage(txCtx, l.ID, c); err != nil {
			return err
		}

		l.Apply(c)
		result = leave.ConsumeResult{Applied: true, Consumption: c, Ledger: l}
		return nil
	})
	if err != nil {
		return leave.ConsumeResult{}, err
	}
	return result, nil
}

func validatePeriod(year, month int) error {
	var errs validator.ValidationErrors
	if year < 1 {
		errs = append(errs, validator.ValidationError{Field: "year", Message: "year must be positive"})
	}
	if month < 1 || month > 12 {
		errs = append(errs, validator.ValidationError{Field: "month", Message: "month must be between 1 and 12"})
	}
	if len(errs) > 0 {
		return errs
	}
	return nil
}

// GetBalance implements leave.LedgerService.
func (s *LedgerServiceImpl) GetBalance(ctx context.Context, employeeID string, year, month int) (leave.BalanceResponse, error) {
	if err := validatePeriod(year, month); err != nil {
		return leave.BalanceResponse{}, err
	}
	l, err := s.EnsureLedger(ctx, employeeID, year)
	if err != nil {
		return leave.BalanceResponse{}, err
	}
	return leave.NewBalanceResponse(l, month), nil
}

// ListEntries implements leave.LedgerService.
func (s *LedgerServiceImpl) ListEntries(ctx context.Context, employeeID string, year int) ([]leave.LedgerEntry, error) {
	l, err := s.LedgerRepository.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		return nil, err
	}
	entries, err := s.LedgerRepository.ListEntries(ctx, l.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	return entries, nil
}

// AvailableBalance is the remaining monthly-prorated PL plus remaining SL for
// (employee, year) in month, without writing anything. A missing ledger is
// read as a fresh one with company defaults.
func (s *LedgerServiceImpl) AvailableBalance(ctx context.Context, employeeID string, year, month int) (decimal.Decimal, error) {
	l, err := s.LedgerRepository.GetByEmployeeYear(ctx, employeeID, year)
	if err != nil {
		if !errors.Is(err, leave.ErrLedgerNotFound) {
			return decimal.Zero, fmt.Errorf("failed to get leave ledger: %w", err)
		}
		l = s.defaults.NewLedger(employeeID, year)
	}
	return l.AvailablePL(month).Add(l.AvailableSL()), nil
}
