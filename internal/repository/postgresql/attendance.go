package postgresql

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/jackc/pgx/v5"
)

const attendanceColumns = `
	id, employee_id, day, check_in, check_out, work_hours, break_hours,
	status, leave_request_id, created_at, updated_at, deleted_at`

type attendanceRepository struct {
	db *database.DB
}

func NewAttendanceRepository(db *database.DB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row pgx.Row) (attendance.AttendanceDay, error) {
	var day attendance.AttendanceDay
	err := row.Scan(
		&day.ID, &day.EmployeeID, &day.Day, &day.CheckIn, &day.CheckOut, &day.WorkHours, &day.BreakHours,
		&day.Status, &day.LeaveRequestID, &day.CreatedAt, &day.UpdatedAt, &day.DeletedAt,
	)
	return day, err
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	if day.ID == "" {
		day.ID = utils.NewID()
	}

	query := `
		INSERT INTO attendance_days (
			id, employee_id, day, check_in, check_out, work_hours, break_hours, status, leave_request_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		day.ID, day.EmployeeID, day.Day, day.CheckIn, day.CheckOut,
		day.WorkHours, day.BreakHours, day.Status, day.LeaveRequestID,
	).Scan(&day.CreatedAt, &day.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "uq_attendance_days_employee_day") {
			return attendance.AttendanceDay{}, attendance.ErrAttendanceExists
		}
		return attendance.AttendanceDay{}, fmt.Errorf("failed to create attendance: %w", err)
	}

	return day, nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, day attendance.AttendanceDay) (bool, error) {
	q := GetQuerier(ctx, a.db)

	if day.ID == "" {
		day.ID = utils.NewID()
	}

	query := `
		INSERT INTO attendance_days (
			id, employee_id, day, check_in, check_out, work_hours, break_hours, status, leave_request_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (employee_id, day) WHERE deleted_at IS NULL DO NOTHING
	`

	tag, err := q.Exec(ctx, query,
		day.ID, day.EmployeeID, day.Day, day.CheckIn, day.CheckOut,
		day.WorkHours, day.BreakHours, day.Status, day.LeaveRequestID,
	)
	if err != nil {
		return false, fmt.Errorf("failed to backfill attendance: %w", err)
	}
	return tag.RowsAffected() == 1, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceDay, error) {
	return a.getByID(ctx, id, "")
}

// GetByIDForUpdate implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByIDForUpdate(ctx context.Context, id string) (attendance.AttendanceDay, error) {
	return a.getByID(ctx, id, "FOR UPDATE")
}

func (a *attendanceRepository) getByID(ctx context.Context, id string, lock string) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE id = $1 AND deleted_at IS NULL ` + lock

	day, err := scanAttendance(q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return attendance.AttendanceDay{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceDay{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}
	return day, nil
}

// GetByEmployeeAndDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE employee_id = $1 AND day = $2 AND deleted_at IS NULL
		FOR UPDATE`

	att, err := scanAttendance(q.QueryRow(ctx, query, employeeID, utils.DateOf(day)))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get attendance by employee and day: %w", err)
	}
	return &att, nil
}

// Update implements attendance.AttendanceRepository.
func (a *attendanceRepository) Update(ctx context.Context, day attendance.AttendanceDay) error {
	q := GetQuerier(ctx, a.db)

	query := `
		UPDATE attendance_days
		SET check_in = $2, check_out = $3, work_hours = $4, break_hours = $5,
			status = $6, leave_request_id = $7, updated_at = NOW()
		WHERE id = $1 AND deleted_at IS NULL
	`

	tag, err := q.Exec(ctx, query,
		day.ID, day.CheckIn, day.CheckOut, day.WorkHours, day.BreakHours, day.Status, day.LeaveRequestID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	where := []string{"deleted_at IS NULL"}
	args := []interface{}{}
	argIdx := 1

	if filter.EmployeeID != "" {
		where = append(where, fmt.Sprintf("employee_id = $%d", argIdx))
		args = append(args, filter.EmployeeID)
		argIdx++
	}
	if filter.StartDate != nil {
		where = append(where, fmt.Sprintf("day >= $%d", argIdx))
		args = append(args, *filter.StartDate)
		argIdx++
	}
	if filter.EndDate != nil {
		where = append(where, fmt.Sprintf("day <= $%d", argIdx))
		args = append(args, *filter.EndDate)
		argIdx++
	}
	if filter.Status != nil {
		where = append(where, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
	}

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY day DESC, employee_id`

	rows, err := q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list attendance: %w", err)
	}
	defer rows.Close()

	var days []attendance.AttendanceDay
	for rows.Next() {
		day, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		days = append(days, day)
	}
	return days, rows.Err()
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenBefore(ctx context.Context, day time.Time) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE deleted_at IS NULL
		  AND check_in IS NOT NULL
		  AND check_out IS NULL
		  AND day < $1
		ORDER BY day`

	rows, err := q.Query(ctx, query, utils.DateOf(day))
	if err != nil {
		return nil, fmt.Errorf("failed to list open attendance: %w", err)
	}
	defer rows.Close()

	var days []attendance.AttendanceDay
	for rows.Next() {
		d, err := scanAttendance(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan attendance: %w", err)
		}
		days = append(days, d)
	}
	return days, rows.Err()
}

// SoftDelete implements attendance.AttendanceRepository.
func (a *attendanceRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, a.db)

	tag, err := q.Exec(ctx, `UPDATE attendance_days SET deleted_at = $2, updated_at = $2 WHERE id = $1 AND deleted_at IS NULL`, id, at)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

type breakRepository struct {
	db *database.DB
}

func NewBreakRepository(db *database.DB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

// Create implements attendance.BreakRepository.
func (b *breakRepository) Create(ctx context.Context, br attendance.BreakInterval) (attendance.BreakInterval, error) {
	q := GetQuerier(ctx, b.db)

	if br.ID == "" {
		br.ID = utils.NewID()
	}

	_, err := q.Exec(ctx,
		`INSERT INTO attendance_breaks (id, attendance_id, pause_time, restart_time) VALUES ($1, $2, $3, $4)`,
		br.ID, br.AttendanceID, br.PauseTime, br.RestartTime,
	)
	if err != nil {
		if isUniqueViolation(err, "uq_attendance_breaks_open") {
			return attendance.BreakInterval{}, attendance.ErrBreakAlreadyOpen
		}
		return attendance.BreakInterval{}, fmt.Errorf("failed to create break: %w", err)
	}
	return br, nil
}

// GetOpen implements attendance.BreakRepository.
func (b *breakRepository) GetOpen(ctx context.Context, attendanceID string) (*attendance.BreakInterval, error) {
	q := GetQuerier(ctx, b.db)

	query := `
		SELECT id, attendance_id, pause_time, restart_time
		FROM attendance_breaks
		WHERE attendance_id = $1 AND restart_time IS NULL
		ORDER BY pause_time DESC
		LIMIT 1
	`

	var br attendance.BreakInterval
	err := q.QueryRow(ctx, query, attendanceID).Scan(&br.ID, &br.AttendanceID, &br.PauseTime, &br.RestartTime)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open break: %w", err)
	}
	return &br, nil
}

// Close implements attendance.BreakRepository.
func (b *breakRepository) Close(ctx context.Context, id string, restartTime time.Time) error {
	q := GetQuerier(ctx, b.db)

	tag, err := q.Exec(ctx,
		`UPDATE attendance_breaks SET restart_time = $2 WHERE id = $1 AND restart_time IS NULL`,
		id, restartTime,
	)
	if err != nil {
		return fmt.Errorf("failed to close break: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return attendance.ErrNoActiveBreak
	}
	return nil
}

// ListByAttendance implements attendance.BreakRepository.
func (b *breakRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.BreakInterval, error) {
	q := GetQuerier(ctx, b.db)

	rows, err := q.Query(ctx, `
		SELECT id, attendance_id, pause_time, restart_time
		FROM attendance_breaks
		WHERE attendance_id = $1
		ORDER BY pause_time
	`, attendanceID)
	if err != nil {
		return nil, fmt.Errorf("failed to list breaks: %w", err)
	}
	defer rows.Close()

	var breaks []attendance.BreakInterval
	for rows.Next() {
		var br attendance.BreakInterval
		if err := rows.Scan(&br.ID, &br.AttendanceID, &br.PauseTime, &br.RestartTime); err != nil {
			return nil, fmt.Errorf("failed to scan break: %w", err)
		}
		breaks = append(breaks, br)
	}
	return breaks, rows.Err()
}
