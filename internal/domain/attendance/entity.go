package attendance

import (
	"time"

	"github.com/shopspring/decimal"
)

// Status is the per-day outcome recorded on an AttendanceDay.
type Status string

const (
	StatusPending         Status = "pending"
	StatusPresent         Status = "present"
	StatusHalfDay         Status = "half_day"
	StatusIncompleteHours Status = "incomplete_hours"
	StatusUnpaidLeave     Status = "unpaid_leave"
	StatusPaidLeave       Status = "paid_leave"
)

// State is the derived position of a day in the check-in/break/check-out flow.
type State string

const (
	StateNotStarted State = "NOT_STARTED"
	StateOngoing    State = "ONGOING"
	StatePaused     State = "PAUSED"
	StateCompleted  State = "COMPLETED"
)

// WorkHoursPolicy selects how break time is removed from elapsed time at check-out.
type WorkHoursPolicy string

const (
	// PolicyLegacy subtracts break time twice: max(0, elapsed-break) - break.
	PolicyLegacy WorkHoursPolicy = "legacy"
	// PolicySingle subtracts break time once: max(0, elapsed-break).
	PolicySingle WorkHoursPolicy = "single"
)

var (
	fullDayHours = decimal.NewFromInt(8)
	halfDayHours = decimal.NewFromInt(4)
)

// AttendanceDay is one employee's record for one calendar day.
type AttendanceDay struct {
	ID             string
	EmployeeID     string
	Day            time.Time
	CheckIn        *time.Time
	CheckOut       *time.Time
	WorkHours      decimal.Decimal
	BreakHours     decimal.Decimal
	Status         Status
	LeaveRequestID *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
	DeletedAt      *time.Time
}

// BreakInterval is a pause inside an AttendanceDay. RestartTime is nil while the break is open.
type BreakInterval struct {
	ID           string
	AttendanceID string
	PauseTime    time.Time
	RestartTime  *time.Time
}

func (b BreakInterval) IsOpen() bool {
	return b.RestartTime == nil
}

// Duration is zero for an open break.
func (b BreakInterval) Duration() time.Duration {
	if b.RestartTime == nil {
		return 0
	}
	d := b.RestartTime.Sub(b.PauseTime)
	if d < 0 {
		return 0
	}
	return d
}

// StateOf derives the state machine position from the stored record and its breaks.
func StateOf(day *AttendanceDay, breaks []BreakInterval) State {
	switch {
	case day == nil || day.CheckIn == nil:
		return StateNotStarted
	case day.CheckOut != nil:
		return StateCompleted
	}
	for _, b := range breaks {
		if b.IsOpen() {
			return StatePaused
		}
	}
	return StateOngoing
}

// StatusForHours classifies worked hours: >=8 present, >=4 half day, >0 incomplete, else unpaid.
func StatusForHours(workHours decimal.Decimal) Status {
	switch {
	case workHours.GreaterThanOrEqual(fullDayHours):
		return StatusPresent
	case workHours.GreaterThanOrEqual(halfDayHours):
		return StatusHalfDay
	case workHours.IsPositive():
		return StatusIncompleteHours
	default:
		return StatusUnpaidLeave
	}
}
