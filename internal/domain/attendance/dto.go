package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/validator"
)

type CheckInRequest struct {
	EmployeeID string `json:"employee_id"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// AttendanceActionRequest targets a specific day, or today's record when AttendanceID is empty.
type AttendanceActionRequest struct {
	EmployeeID   string `json:"employee_id"`
	AttendanceID string `json:"attendance_id,omitempty"`
}

func (r *AttendanceActionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type AttendanceFilter struct {
	EmployeeID string
	StartDate  *string
	EndDate    *string
	Status     *string
}

func (f *AttendanceFilter) Validate() error {
	var errs validator.ValidationErrors

	var start, end time.Time
	var startOK, endOK bool
	if f.StartDate != nil {
		if start, startOK = validator.IsValidDate(*f.StartDate); !startOK {
			errs = append(errs, validator.ValidationError{
				Field:   "start_date",
				Message: "start_date must be in YYYY-MM-DD format",
			})
		}
	}
	if f.EndDate != nil {
		if end, endOK = validator.IsValidDate(*f.EndDate); !endOK {
			errs = append(errs, validator.ValidationError{
				Field:   "end_date",
				Message: "end_date must be in YYYY-MM-DD format",
			})
		}
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	if f.Status != nil && !validator.IsInSlice(*f.Status, []string{
		string(StatusPending), string(StatusPresent), string(StatusHalfDay),
		string(StatusIncompleteHours), string(StatusUnpaidLeave), string(StatusPaidLeave),
	}) {
		errs = append(errs, validator.ValidationError{
			Field:   "status",
			Message: "status is not a known attendance status",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type BreakResponse struct {
	ID          string  `json:"id"`
	PauseTime   string  `json:"pause_time"`
	RestartTime *string `json:"restart_time,omitempty"`
}

type AttendanceResponse struct {
	ID             string          `json:"id,omitempty"`
	EmployeeID     string          `json:"employee_id"`
	Date           string          `json:"date"`
	CheckIn        *string         `json:"check_in,omitempty"`
	CheckOut       *string         `json:"check_out,omitempty"`
	WorkHours      string          `json:"work_hours"`
	BreakHours     string          `json:"break_hours"`
	Status         Status          `json:"status"`
	State          State           `json:"state"`
	LeaveRequestID *string         `json:"leave_request_id,omitempty"`
	Breaks         []BreakResponse `json:"breaks"`
}

func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.Format(time.RFC3339)
	return &s
}

// NewAttendanceResponse builds the read model for a day and its breaks.
func NewAttendanceResponse(day AttendanceDay, breaks []BreakInterval) AttendanceResponse {
	resp := AttendanceResponse{
		ID:             day.ID,
		EmployeeID:     day.EmployeeID,
		Date:           utils.FormatDate(day.Day),
		CheckIn:        timePtrToString(day.CheckIn),
		CheckOut:       timePtrToString(day.CheckOut),
		WorkHours:      day.WorkHours.StringFixed(2),
		BreakHours:     day.BreakHours.StringFixed(2),
		Status:         day.Status,
		State:          StateOf(&day, breaks),
		LeaveRequestID: day.LeaveRequestID,
		Breaks:         make([]BreakResponse, 0, len(breaks)),
	}
	for _, b := range breaks {
		resp.Breaks = append(resp.Breaks, BreakResponse{
			ID:          b.ID,
			PauseTime:   b.PauseTime.Format(time.RFC3339),
			RestartTime: timePtrToString(b.RestartTime),
		})
	}
	return resp
}
