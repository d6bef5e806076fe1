package attendance

import (
	"context"
	"time"
)

// AttendanceRepository defines data access methods for attendance days.
// Soft-deleted rows are invisible to every method.
type AttendanceRepository interface {
	// Create inserts a new day. Returns ErrAttendanceExists when the
	// (employee, day) slot is already taken.
	Create(ctx context.Context, day AttendanceDay) (AttendanceDay, error)

	// CreateIfAbsent inserts day unless a row for (employee, day) exists.
	// Reports whether a row was inserted.
	CreateIfAbsent(ctx context.Context, day AttendanceDay) (bool, error)

	GetByID(ctx context.Context, id string) (AttendanceDay, error)

	// GetByIDForUpdate locks the row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id string) (AttendanceDay, error)

	// GetByEmployeeAndDay returns nil, nil when no row exists.
	GetByEmployeeAndDay(ctx context.Context, employeeID string, day time.Time) (*AttendanceDay, error)

	Update(ctx context.Context, day AttendanceDay) error
	List(ctx context.Context, filter AttendanceFilter) ([]AttendanceDay, error)

	// ListOpenBefore returns checked-in days before day that were never checked out.
	ListOpenBefore(ctx context.Context, day time.Time) ([]AttendanceDay, error)

	SoftDelete(ctx context.Context, id string, at time.Time) error
}

// BreakRepository stores break intervals. At most one open interval may exist per day.
type BreakRepository interface {
	// Create returns ErrBreakAlreadyOpen when an open interval already exists.
	Create(ctx context.Context, b BreakInterval) (BreakInterval, error)

	// GetOpen returns the most recent open interval, or nil, nil.
	GetOpen(ctx context.Context, attendanceID string) (*BreakInterval, error)

	Close(ctx context.Context, id string, restartTime time.Time) error
	ListByAttendance(ctx context.Context, attendanceID string) ([]BreakInterval, error)
}
