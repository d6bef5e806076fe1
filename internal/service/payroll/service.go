package payroll

import (
	"context"
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/pdf"
	"github.com/shopspring/decimal"
)

// BalanceReader reports the leave balance still available to an employee
// without mutating the ledger.
type BalanceReader interface {
	AvailableBalance(ctx context.Context, employeeID string, year, month int) (decimal.Decimal, error)
}

type DeductionServiceImpl struct {
	leave.LeaveRequestRepository
	employee.EmployeeRepository
	balances BalanceReader
}

func NewDeductionService(
	leaveRequestRepository leave.LeaveRequestRepository,
	employeeRepository employee.EmployeeRepository,
	balances BalanceReader,
) payroll.DeductionService {
	return &DeductionServiceImpl{
		LeaveRequestRepository: leaveRequestRepository,
		EmployeeRepository:     employeeRepository,
		balances:               balances,
	}
}

func (s *DeductionServiceImpl) compute(ctx context.Context, req payroll.DeductionRequest) (payroll.Deduction, error) {
	if err := req.Validate(); err != nil {
		return payroll.Deduction{}, err
	}
	period, err := req.ToPeriod()
	if err != nil {
		return payroll.Deduction{}, err
	}

	if _, err := s.EmployeeRepository.GetByID(ctx, req.EmployeeID); err != nil {
		return payroll.Deduction{}, err
	}

	requests, err := s.LeaveRequestRepository.ListApprovedOverlapping(ctx, req.EmployeeID, period.StartDate, period.EndDate)
	if err != nil {
		return payroll.Deduction{}, fmt.Errorf("failed to list approved leaves: %w", err)
	}

	available, err := s.balances.AvailableBalance(ctx, req.EmployeeID, period.EndDate.Year(), int(period.EndDate.Month()))
	if err != nil {
		return payroll.Deduction{}, fmt.Errorf("failed to read leave balance: %w", err)
	}

	return ComputeDeduction(payroll.DeductionInput{
		EmployeeID:       req.EmployeeID,
		Period:           period,
		Leaves:           CollectLeaveDays(requests, period),
		AvailableBalance: available,
	}), nil
}

// Preview implements payroll.DeductionService.
func (s *DeductionServiceImpl) Preview(ctx context.Context, req payroll.DeductionRequest) (payroll.DeductionResponse, error) {
	d, err := s.compute(ctx, req)
	if err != nil {
		return payroll.DeductionResponse{}, err
	}
	return payroll.NewDeductionResponse(d), nil
}

// WriteStatement implements payroll.DeductionService.
func (s *DeductionServiceImpl) WriteStatement(ctx context.Context, req payroll.DeductionRequest, w io.Writer) error {
	d, err := s.compute(ctx, req)
	if err != nil {
		return err
	}
	if err := pdf.WriteDeductionStatement(w, d); err != nil {
		return fmt.Errorf("%w: %v", payroll.ErrStatementRender, err)
	}
	return nil
}
