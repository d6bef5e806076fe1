package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
)

type ledgerRepository struct {
	db *database.SQLiteDB
	tx database.Transactor
}

func NewLedgerRepository(db *database.SQLiteDB) leave.LedgerRepository {
	return &ledgerRepository{db: db, tx: NewTransactor(db)}
}

// Create implements leave.LedgerRepository.
func (r *ledgerRepository) Create(ctx context.Context, ledger leave.Ledger) (leave.Ledger, error) {
	q := GetQuerier(ctx, r.db)

	if ledger.ID == "" {
		ledger.ID = utils.NewID()
	}
	ledger.CreatedAt = time.Now().UTC()
	ledger.UpdatedAt = ledger.CreatedAt

	query := `
		INSERT INTO leave_ledgers (
			id, employee_id, year, pl_quota, sl_quota, lop_quota,
			used_pl, used_sl, used_lop, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		ledger.ID, ledger.EmployeeID, ledger.Year,
		ledger.PLQuota, ledger.SLQuota, ledger.LOPQuota,
		ledger.UsedPL, ledger.UsedSL, ledger.UsedLOP,
		ledger.CreatedAt, ledger.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err, "leave_ledgers") {
			return leave.Ledger{}, leave.ErrLedgerExists
		}
		return leave.Ledger{}, fmt.Errorf("failed to create leave ledger: %w", err)
	}
	return ledger, nil
}

// GetByEmployeeYear implements leave.LedgerRepository.
func (r *ledgerRepository) GetByEmployeeYear(ctx context.Context, employeeID string, year int) (leave.Ledger, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		SELECT id, employee_id, year, pl_quota, sl_quota, lop_quota,
			   used_pl, used_sl, used_lop, created_at, updated_at
		FROM leave_ledgers
		WHERE employee_id = ? AND year = ?`

	var l leave.Ledger
	err := q.QueryRowContext(ctx, query, employeeID, year).Scan(
		&l.ID, &l.EmployeeID, &l.Year, &l.PLQuota, &l.SLQuota, &l.LOPQuota,
		&l.UsedPL, &l.UsedSL, &l.UsedLOP, &l.CreatedAt, &l.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.Ledger{}, leave.ErrLedgerNotFound
		}
		return leave.Ledger{}, fmt.Errorf("failed to get leave ledger: %w", err)
	}
	return l, nil
}

// GetByEmployeeYearForUpdate implements leave.LedgerRepository.
// Transactions begin IMMEDIATE, so the write lock is already held.
func (r *ledgerRepository) GetByEmployeeYearForUpdate(ctx context.Context, employeeID string, year int) (leave.Ledger, error) {
	return r.GetByEmployeeYear(ctx, employeeID, year)
}

// AddUsage implements leave.LedgerRepository.
// Counters are stored as text, so the sum is computed here under the
// transaction's write lock and the CHECK constraints guard the quota.
func (r *ledgerRepository) AddUsage(ctx context.Context, ledgerID string, c leave.Consumption) error {
	return r.tx.WithinTransaction(ctx, func(ctx context.Context) error {
		q := GetQuerier(ctx, r.db)

		var l leave.Ledger
		err := q.QueryRowContext(ctx,
			`SELECT used_pl, used_sl, used_lop FROM leave_ledgers WHERE id = ?`, ledgerID,
		).Scan(&l.UsedPL, &l.UsedSL, &l.UsedLOP)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return leave.ErrLedgerNotFound
			}
			return fmt.Errorf("failed to read leave ledger usage: %w", err)
		}
		l.Apply(c)

		_, err = q.ExecContext(ctx, `
			UPDATE leave_ledgers
			SET used_pl = ?, used_sl = ?, used_lop = ?, updated_at = ?
			WHERE id = ?
		`, l.UsedPL, l.UsedSL, l.UsedLOP, time.Now().UTC(), ledgerID)
		if err != nil {
			return fmt.Errorf("failed to update leave ledger usage: %w", err)
		}
		return nil
	})
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
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		entry.ID, entry.LedgerID, entry.LeaveRequestID, entry.LeaveType,
		entry.Requested, entry.PL, entry.SL, entry.LOP, entry.CreatedAt.UTC(),
	)
	if err != nil {
		if isUniqueViolation(err, "leave_ledger_entries") {
			return leave.ErrLeaveAlreadyConsumed
		}
		return fmt.Errorf("failed to create ledger entry: %w", err)
	}
	return nil
}

// ListEntries implements leave.LedgerRepository.
func (r *ledgerRepository) ListEntries(ctx context.Context, ledgerID string) ([]leave.LedgerEntry, error) {
	q := GetQuerier(ctx, r.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, ledger_id, leave_request_id, leave_type, requested, pl, sl, lop, created_at
		FROM leave_ledger_entries
		WHERE ledger_id = ?
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
