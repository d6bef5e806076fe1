package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
)

const leaveRequestColumns = `
	id, employee_id, leave_type, from_date, to_date, total_days, sandwich,
	charge_from, charge_to, reason, status, decided_by, decided_at,
	rejection_reason, created_at, updated_at`

type leaveRequestRepository struct {
	db *database.SQLiteDB
}

func NewLeaveRequestRepository(db *database.SQLiteDB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func scanLeaveRequest(row rowScanner) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.LeaveType, &r.FromDate, &r.ToDate, &r.TotalDays, &r.Sandwich,
		&r.ChargeFrom, &r.ChargeTo, &r.Reason, &r.Status, &r.DecidedBy, &r.DecidedAt,
		&r.RejectionReason, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

func formatDatePtr(d *time.Time) *string {
	if d == nil {
		return nil
	}
	s := utils.FormatDate(*d)
	return &s
}

// Create implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	if request.ID == "" {
		request.ID = utils.NewID()
	}
	request.CreatedAt = time.Now().UTC()
	request.UpdatedAt = request.CreatedAt

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, from_date, to_date, total_days, sandwich,
			charge_from, charge_to, reason, status, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := q.ExecContext(ctx, query,
		request.ID, request.EmployeeID, request.LeaveType,
		utils.FormatDate(request.FromDate), formatDatePtr(request.ToDate),
		request.TotalDays, request.Sandwich,
		utils.FormatDate(request.ChargeFrom), utils.FormatDate(request.ChargeTo),
		request.Reason, request.Status, request.CreatedAt, request.UpdatedAt,
	)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = ?`
	r, err := scanLeaveRequest(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return r, nil
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
// Transactions begin IMMEDIATE, so the write lock is already held.
func (l *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return l.GetByID(ctx, id)
}

// Update implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) Update(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_requests
		SET leave_type = ?, from_date = ?, to_date = ?, total_days = ?, sandwich = ?,
			charge_from = ?, charge_to = ?, reason = ?, status = ?,
			decided_by = ?, decided_at = ?, rejection_reason = ?, updated_at = ?
		WHERE id = ?
	`
	res, err := q.ExecContext(ctx, query,
		request.LeaveType, utils.FormatDate(request.FromDate), formatDatePtr(request.ToDate),
		request.TotalDays, request.Sandwich,
		utils.FormatDate(request.ChargeFrom), utils.FormatDate(request.ChargeTo),
		request.Reason, request.Status, request.DecidedBy, utcPtr(request.DecidedAt),
		request.RejectionReason, time.Now().UTC(), request.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	where := []string{"employee_id = ?"}
	args := []any{employeeID}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}
	if filter.Year != nil {
		where = append(where, "substr(from_date, 1, 4) = ?")
		args = append(args, fmt.Sprintf("%04d", *filter.Year))
	}

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY from_date DESC`

	return l.list(ctx, query, args...)
}

// ListApprovedOverlapping implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = ?
		  AND status = 'approved'
		  AND from_date <= ?
		  AND COALESCE(to_date, from_date) >= ?
		ORDER BY from_date`

	return l.list(ctx, query, employeeID, utils.FormatDate(end), utils.FormatDate(start))
}

func (l *leaveRequestRepository) list(ctx context.Context, query string, args ...any) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list leave requests: %w", err)
	}
	defer rows.Close()

	var requests []leave.LeaveRequest
	for rows.Next() {
		r, err := scanLeaveRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leave request: %w", err)
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}
