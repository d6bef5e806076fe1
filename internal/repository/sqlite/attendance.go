package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
)

const attendanceColumns = `
	id, employee_id, day, check_in, check_out, work_hours, break_hours,
	status, leave_request_id, created_at, updated_at, deleted_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

type attendanceRepository struct {
	db *database.SQLiteDB
}

func NewAttendanceRepository(db *database.SQLiteDB) attendance.AttendanceRepository {
	return &attendanceRepository{db: db}
}

func scanAttendance(row rowScanner) (attendance.AttendanceDay, error) {
	var day attendance.AttendanceDay
	err := row.Scan(
		&day.ID, &day.EmployeeID, &day.Day, &day.CheckIn, &day.CheckOut, &day.WorkHours, &day.BreakHours,
		&day.Status, &day.LeaveRequestID, &day.CreatedAt, &day.UpdatedAt, &day.DeletedAt,
	)
	return day, err
}

func (a *attendanceRepository) insert(ctx context.Context, day attendance.AttendanceDay, conflict string) (sql.Result, error) {
	q := GetQuerier(ctx, a.db)

	query := `
		INSERT INTO attendance_days (
			id, employee_id, day, check_in, check_out, work_hours, break_hours,
			status, leave_request_id, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?) ` + conflict

	return q.ExecContext(ctx, query,
		day.ID, day.EmployeeID, utils.FormatDate(day.Day), utcPtr(day.CheckIn), utcPtr(day.CheckOut),
		day.WorkHours, day.BreakHours, day.Status, day.LeaveRequestID, day.CreatedAt, day.UpdatedAt,
	)
}

// Create implements attendance.AttendanceRepository.
func (a *attendanceRepository) Create(ctx context.Context, day attendance.AttendanceDay) (attendance.AttendanceDay, error) {
	if day.ID == "" {
		day.ID = utils.NewID()
	}
	day.Day = utils.DateOf(day.Day)
	day.CreatedAt = time.Now().UTC()
	day.UpdatedAt = day.CreatedAt

	if _, err := a.insert(ctx, day, ""); err != nil {
		if isUniqueViolation(err, "attendance_days") {
			return attendance.AttendanceDay{}, attendance.ErrAttendanceExists
		}
		return attendance.AttendanceDay{}, fmt.Errorf("failed to create attendance: %w", err)
	}
	return day, nil
}

// CreateIfAbsent implements attendance.AttendanceRepository.
func (a *attendanceRepository) CreateIfAbsent(ctx context.Context, day attendance.AttendanceDay) (bool, error) {
	if day.ID == "" {
		day.ID = utils.NewID()
	}
	day.CreatedAt = time.Now().UTC()
	day.UpdatedAt = day.CreatedAt

	res, err := a.insert(ctx, day, "ON CONFLICT DO NOTHING")
	if err != nil {
		return false, fmt.Errorf("failed to backfill attendance: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to backfill attendance: %w", err)
	}
	return n == 1, nil
}

// GetByID implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByID(ctx context.Context, id string) (attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + ` FROM attendance_days WHERE id = ? AND deleted_at IS NULL`
	day, err := scanAttendance(q.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return attendance.AttendanceDay{}, attendance.ErrAttendanceNotFound
		}
		return attendance.AttendanceDay{}, fmt.Errorf("failed to get attendance by ID: %w", err)
	}
	return day, nil
}

// GetByIDForUpdate implements attendance.AttendanceRepository.
// Transactions begin IMMEDIATE, so the write lock is already held.
func (a *attendanceRepository) GetByIDForUpdate(ctx context.Context, id string) (attendance.AttendanceDay, error) {
	return a.GetByID(ctx, id)
}

// GetByEmployeeAndDay implements attendance.AttendanceRepository.
func (a *attendanceRepository) GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (*attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE employee_id = ? AND day = ? AND deleted_at IS NULL`

	att, err := scanAttendance(q.QueryRowContext(ctx, query, employeeID, utils.FormatDate(day)))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
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
		SET check_in = ?, check_out = ?, work_hours = ?, break_hours = ?,
			status = ?, leave_request_id = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`
	res, err := q.ExecContext(ctx, query,
		utcPtr(day.CheckIn), utcPtr(day.CheckOut), day.WorkHours, day.BreakHours,
		day.Status, day.LeaveRequestID, time.Now().UTC(), day.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update attendance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

// List implements attendance.AttendanceRepository.
func (a *attendanceRepository) List(ctx context.Context, filter attendance.AttendanceFilter) ([]attendance.AttendanceDay, error) {
	where := []string{"deleted_at IS NULL"}
	var args []any

	if filter.EmployeeID != "" {
		where = append(where, "employee_id = ?")
		args = append(args, filter.EmployeeID)
	}
	if filter.StartDate != nil {
		where = append(where, "day >= ?")
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		where = append(where, "day <= ?")
		args = append(args, *filter.EndDate)
	}
	if filter.Status != nil {
		where = append(where, "status = ?")
		args = append(args, *filter.Status)
	}

	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY day DESC, employee_id`

	return a.list(ctx, query, args...)
}

// ListOpenBefore implements attendance.AttendanceRepository.
func (a *attendanceRepository) ListOpenBefore(ctx context.Context, day time.Time) ([]attendance.AttendanceDay, error) {
	query := `SELECT ` + attendanceColumns + `
		FROM attendance_days
		WHERE deleted_at IS NULL AND check_in IS NOT NULL AND check_out IS NULL AND day < ?
		ORDER BY day`

	return a.list(ctx, query, utils.FormatDate(day))
}

func (a *attendanceRepository) list(ctx context.Context, query string, args ...any) ([]attendance.AttendanceDay, error) {
	q := GetQuerier(ctx, a.db)

	rows, err := q.QueryContext(ctx, query, args...)
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

// SoftDelete implements attendance.AttendanceRepository.
func (a *attendanceRepository) SoftDelete(ctx context.Context, id string, at time.Time) error {
	q := GetQuerier(ctx, a.db)

	res, err := q.ExecContext(ctx,
		`UPDATE attendance_days SET deleted_at = ?, updated_at = ? WHERE id = ? AND deleted_at IS NULL`,
		at.UTC(), at.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete attendance: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.ErrAttendanceNotFound
	}
	return nil
}

type breakRepository struct {
	db *database.SQLiteDB
}

func NewBreakRepository(db *database.SQLiteDB) attendance.BreakRepository {
	return &breakRepository{db: db}
}

// Create implements attendance.BreakRepository.
func (b *breakRepository) Create(ctx context.Context, br attendance.BreakInterval) (attendance.BreakInterval, error) {
	q := GetQuerier(ctx, b.db)

	if br.ID == "" {
		br.ID = utils.NewID()
	}

	_, err := q.ExecContext(ctx,
		`INSERT INTO attendance_breaks (id, attendance_id, pause_time, restart_time) VALUES (?, ?, ?, ?)`,
		br.ID, br.AttendanceID, br.PauseTime.UTC(), utcPtr(br.RestartTime),
	)
	if err != nil {
		if isUniqueViolation(err, "attendance_breaks") {
			return attendance.BreakInterval{}, attendance.ErrBreakAlreadyOpen
		}
		return attendance.BreakInterval{}, fmt.Errorf("failed to create break: %w", err)
	}
	return br, nil
}

// GetOpen implements attendance.BreakRepository.
func (b *breakRepository) GetOpen(ctx context.Context, attendanceID string) (*attendance.BreakInterval, error) {
	q := GetQuerier(ctx, b.db)

	var br attendance.BreakInterval
	err := q.QueryRowContext(ctx, `
		SELECT id, attendance_id, pause_time, restart_time
		FROM attendance_breaks
		WHERE attendance_id = ? AND restart_time IS NULL
		ORDER BY pause_time DESC
		LIMIT 1
	`, attendanceID).Scan(&br.ID, &br.AttendanceID, &br.PauseTime, &br.RestartTime)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open break: %w", err)
	}
	return &br, nil
}

// Close implements attendance.BreakRepository.
func (b *breakRepository) Close(ctx context.Context, id string, restartTime time.Time) error {
	q := GetQuerier(ctx, b.db)

	res, err := q.ExecContext(ctx,
		`UPDATE attendance_breaks SET restart_time = ? WHERE id = ? AND restart_time IS NULL`,
		restartTime.UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("failed to close break: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return attendance.ErrNoActiveBreak
	}
	return nil
}

// ListByAttendance implements attendance.BreakRepository.
func (b *breakRepository) ListByAttendance(ctx context.Context, attendanceID string) ([]attendance.BreakInterval, error) {
	q := GetQuerier(ctx, b.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, attendance_id, pause_time, restart_time
		FROM attendance_breaks
		WHERE attendance_id = ?
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
