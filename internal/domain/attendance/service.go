package attendance

import (
	"context"
)

// AttendanceService drives the per-day check-in / break / check-out state machine.
type AttendanceService interface {
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)
	PauseBreak(ctx context.Context, req AttendanceActionRequest) (AttendanceResponse, error)
	ResumeBreak(ctx context.Context, req AttendanceActionRequest) (AttendanceResponse, error)
	CheckOut(ctx context.Context, req AttendanceActionRequest) (AttendanceResponse, error)

	// GetToday returns today's record, or a NOT_STARTED placeholder.
	GetToday(ctx context.Context, employeeID string) (AttendanceResponse, error)
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
	ListAttendance(ctx context.Context, filter AttendanceFilter) ([]AttendanceResponse, error)

	// DeleteAttendance soft deletes a record (administrators only).
	DeleteAttendance(ctx context.Context, id string) error

	// CloseStaleSessions checks out sessions left open on earlier days and
	// returns how many were closed.
	CloseStaleSessions(ctx context.Context) (int, error)
}
