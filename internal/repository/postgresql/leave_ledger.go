package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

type ledgerRepository struct {
	db *database.DB
}

func NewLedgerRepository(db *database.DB) leave.LedgerRepository {
	return &ledgerRepository{db: db}
}

// Create implements leave.LedgerRepository.
func (r *ledgerRepository) Create(ctx context.Context, ledger leave.Ledger) (leave.Ledger, error) {
	q := GetQuerier(ctx, r.db)

	if ledger.ID == "" {
		ledger.ID = utils.NewID()
	}

	query := `
		INSERT INTO leave_ledgers (
			id, employee_id, year, pl_quota, sl_quota, lop_quota, used_pl, used_sl, used_lop
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, year) DO NOTHING
		RETURNING created_at, updated_at
	`
	// A conflicting row yields no RETURNING row instead of a unique violation,
	// which would abort the surrounding transaction.
	err := q.QueryRow(ctx, query,
		ledger.ID, ledger.EmployeeID, ledger.Year,
		ledger.PLQuota, ledger.SLQuota, ledger.LOPQuota,
		ledger.UsedPL, ledger.UsedSL, ledger.UsedLOP,
	).Scan(&ledger.CreatedAt, &ledger.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Ledger{}, leave.ErrLedgerExists
		}
		return leave.Ledger{}, fmt.Errorf("failed to create leave ledger: %w", err)
	}
	return ledger, nil
}

// GetByEmployeeYear implements leave.LedgerRepository.
func (r *ledgerRepository) GetByEmployeeYear(ctx context.Context, employeeID string, year int) (leave.Ledger, error) {
	return r.get(ctx, employeeID, year, "")
}

// GetByEmployeeYearForUpdate implements leave.LedgerRepository.
func (r *ledgerRepository) GetByEmployeeYearForUpdate(ctx context.Context, employeeID string, year int) (leave.Ledger, error) {
	return r.get(ctx, employeeID, year, "FOR UPDATE")
}

func (r *ledgerRepository) get(ctx context.Context, employeeID string, year int, lock string) (leave.Ledger, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, year, pl_quota, sl_quota, lop_quota,
			   used_pl, used_sl, used_lop, created_at, updated_at
		FROM leave_ledgers
		WHERE employee_id = $1 AND year = $2 ` + lock

	var l leave.Ledger
	err := q.QueryRow(ctx, query, employeeID, year).Scan(
		&l.ID, &l.EmployeeID, &l.Year, &l.PLQuota, &l.SLQuota, &l.LOPQuota,
		&l.UsedPL, &l.UsedSL, &l.UsedLOP, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.Ledger{}, leave.ErrLedgerNotFound
		}
		return leave.Ledger{}, fmt.Errorf("failed to get leave ledger: %w", err)
	}
	return l, nil
}

// AddUsage implements leave.LedgerRepository.
// The CHECK constraints on the table reject any increment that would push
// used_pl or used_sl past its quota.
func (r *ledgerRepository) AddUsage(ctx context.Context, ledgerID string, c leave.Consumption) error {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE leave_ledgers
		SET used_pl = used_pl + $2,
			used_sl = used_sl + $3,
			used_lop = used_lop + $4,
			updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query, ledgerID, c.PL, c.SL, c.LOP)
	if err != nil {
		return fmt.Errorf("failed to update leave ledger usage: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLedgerNotFound
	}
	return nil
}

// CreateEntry implements leave.LedgerRepository.
func (r *ledgerRepository) CreateEntry(ctx context.Context, entry leave.LedgerEntry) error {
	q := GetQuerier(ctx, r.db)

	if entry.ID == "" {
		entry.ID = utils.NewID()
	}

	query := `
		INSERT INTO leave_ledger_entries (
			id, ledger_id, leave_request_id, leave_type, requested, pl, sl, lop, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := q.Exec(ctx, query,
		entry.ID, entry.LedgerID, entry.LeaveRequestID, entry.LeaveType,
		entry.Requested, entry.PL, entry.SL, entry.LOP, entry.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "") {
			return leave.ErrLeaveAlreadyConsumed
		}
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

// ListEntries implements leave.LedgerRepository.
func (r *ledgerRepository) ListEntries(ctx context.Context, ledgerID string) ([]leave.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.Query(ctx, `
		SELECT id, ledger_id, leave_request_id, leave_type, requested, pl, sl, lop, created_at
		FROM leave_ledger_entries
		WHERE ledger_id = $1
		ORDER BY created_at, id
	`, ledgerID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger entries: %w", err)
	}
	defer rows.Close()

	var entries []leave.LedgerEntry
	for rows.Next() {
		var e leave.LedgerEntry
		if err := rows.Scan(
			&e.ID, &e.LedgerID, &e.LeaveRequestID, &e.LeaveType, &e.Requested, &e.PL, &e.SL, &e.LOP, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
