package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

const leaveRequestColumns = `
	id, employee_id, leave_type, from_date, to_date, total_days, sandwich,
	charge_from, charge_to, reason, status, decided_by, decided_at,
	rejection_reason, created_at, updated_at`

type leaveRequestRepository struct {
	db *database.DB
}

func NewLeaveRequestRepository(db *database.DB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{db: db}
}

func scanLeaveRequest(row pgx.Row) (leave.LeaveRequest, error) {
	var r leave.LeaveRequest
	err := row.Scan(
		&r.ID, &r.EmployeeID, &r.LeaveType, &r.FromDate, &r.ToDate, &r.TotalDays, &r.Sandwich,
		&r.ChargeFrom, &r.ChargeTo, &r.Reason, &r.Status, &r.DecidedBy, &r.DecidedAt,
		&r.RejectionReason, &r.CreatedAt, &r.UpdatedAt,
	)
	return r, err
}

// Create implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) Create(ctx context.Context, request leave.LeaveRequest) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	if request.ID == "" {
		request.ID = utils.NewID()
	}

	query := `
		INSERT INTO leave_requests (
			id, employee_id, leave_type, from_date, to_date, total_days, sandwich,
			charge_from, charge_to, reason, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := q.QueryRow(ctx, query,
		request.ID, request.EmployeeID, request.LeaveType, request.FromDate, request.ToDate,
		request.TotalDays, request.Sandwich, request.ChargeFrom, request.ChargeTo,
		request.Reason, request.Status,
	).Scan(&request.CreatedAt, &request.UpdatedAt)
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("failed to create leave request: %w", err)
	}
	return request, nil
}

// GetByID implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return l.getByID(ctx, id, "")
}

// GetByIDForUpdate implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) GetByIDForUpdate(ctx context.Context, id string) (leave.LeaveRequest, error) {
	return l.getByID(ctx, id, "FOR UPDATE")
}

func (l *leaveRequestRepository) getByID(ctx context.Context, id string, lock string) (leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + leaveRequestColumns + ` FROM leave_requests WHERE id = $1 ` + lock
	r, err := scanLeaveRequest(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
		}
		return leave.LeaveRequest{}, fmt.Errorf("failed to get leave request: %w", err)
	}
	return r, nil
}

// Update implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) Update(ctx context.Context, request leave.LeaveRequest) error {
	q := GetQuerier(ctx, l.db)

	query := `
		UPDATE leave_requests
		SET leave_type = $2, from_date = $3, to_date = $4, total_days = $5, sandwich = $6,
			charge_from = $7, charge_to = $8, reason = $9, status = $10,
			decided_by = $11, decided_at = $12, rejection_reason = $13, updated_at = NOW()
		WHERE id = $1
	`
	tag, err := q.Exec(ctx, query,
		request.ID, request.LeaveType, request.FromDate, request.ToDate, request.TotalDays, request.Sandwich,
		request.ChargeFrom, request.ChargeTo, request.Reason, request.Status,
		request.DecidedBy, request.DecidedAt, request.RejectionReason,
	)
	if err != nil {
		return fmt.Errorf("failed to update leave request: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return leave.ErrLeaveRequestNotFound
	}
	return nil
}

// ListByEmployee implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) ListByEmployee(ctx context.Context, employeeID string, filter leave.LeaveRequestFilter) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	where := []string{"employee_id = $1"}
	args := []interface{}{employeeID}
	if filter.Status != nil {
		args = append(args, *filter.Status)
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if filter.Year != nil {
		args = append(args, *filter.Year)
		where = append(where, fmt.Sprintf("EXTRACT(YEAR FROM from_date) = $%d", len(args)))
	}

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY from_date DESC`

	return l.list(ctx, q, query, args...)
}

// ListApprovedOverlapping implements leave.LeaveRequestRepository.
func (l *leaveRequestRepository) ListApprovedOverlapping(ctx context.Context, employeeID string, start, end time.Time) ([]leave.LeaveRequest, error) {
	q := GetQuerier(ctx, l.db)

	query := `SELECT ` + leaveRequestColumns + `
		FROM leave_requests
		WHERE employee_id = $1
		  AND status = 'approved'
		  AND from_date <= $3
		  AND COALESCE(to_date, from_date) >= $2
		ORDER BY from_date`

	return l.list(ctx, q, query, employeeID, utils.DateOf(start), utils.DateOf(end))
}

func (l *leaveRequestRepository) list(ctx context.Context, q database.Querier, query string, args ...interface{}) ([]leave.LeaveRequest, error) {
	rows, err := q.Query(ctx, query, args...)
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
