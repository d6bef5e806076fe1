package attendance

import "errors"

// ErrInvalidStateTransition is matched by every state machine error below.
var ErrInvalidStateTransition = errors.New("invalid attendance state transition")

type transitionError struct {
	msg string
}

func (e *transitionError) Error() string { return e.msg }

func (e *transitionError) Unwrap() error { return ErrInvalidStateTransition }

// Attendance domain errors
var (
	// State machine errors
	ErrAlreadyCheckedIn  error = &transitionError{"you have already checked in today"}
	ErrBreakAlreadyOpen  error = &transitionError{"a break is already in progress"}
	ErrNoActiveBreak     error = &transitionError{"there is no break in progress"}
	ErrCheckInMissing    error = &transitionError{"you have not checked in yet"}
	ErrAlreadyCheckedOut error = &transitionError{"you have already checked out"}
	ErrNoActiveSession   error = &transitionError{"there is no active attendance session"}

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
	ErrAttendanceExists   = errors.New("attendance record already exists for this day")
	ErrUnauthorized       = errors.New("unauthorized to access this attendance record")
)
