package response

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Identity
	case errors.Is(err, jwt.ErrInvalidToken), errors.Is(err, jwt.ErrMissingClaims):
		Unauthorized(w, err.Error())

	// Attendance state machine: the message tells the user what to do next
	case errors.Is(err, attendance.ErrInvalidStateTransition):
		Conflict(w, err.Error())
	case errors.Is(err, attendance.ErrAttendanceNotFound):
		NotFound(w, "Attendance record not found")
	case errors.Is(err, attendance.ErrAttendanceExists):
		Conflict(w, "Attendance record already exists for this day")
	case errors.Is(err, attendance.ErrUnauthorized):
		Forbidden(w, err.Error())

	// Employee domain errors
	case errors.Is(err, employee.ErrEmployeeNotFound):
		NotFound(w, "Employee not found")
	case errors.Is(err, employee.ErrEmployeeInactive):
		Forbidden(w, "Employee is not active")
	case errors.Is(err, employee.ErrEmployeeCodeExists):
		Conflict(w, "Employee code already exists")

	// Leave domain errors
	case errors.Is(err, leave.ErrLeaveRequestNotFound):
		NotFound(w, "Leave request not found")
	case errors.Is(err, leave.ErrLeaveRequestAlreadyProcessed):
		Conflict(w, "Leave request already processed")
	case errors.Is(err, leave.ErrLeaveRequestNotPending):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrOverlappingLeave):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrLeaveAlreadyConsumed):
		Conflict(w, err.Error())
	case errors.Is(err, leave.ErrInvalidLeaveType),
		errors.Is(err, leave.ErrInvalidDateRange),
		errors.Is(err, leave.ErrHalfDaySpansMultipleDays):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, leave.ErrUnauthorized):
		Forbidden(w, err.Error())
	case errors.Is(err, leave.ErrLedgerNotFound):
		NotFound(w, "Leave balance ledger not found")
	case errors.Is(err, leave.ErrLedgerExists):
		Conflict(w, err.Error())

	// Payroll
	case errors.Is(err, payroll.ErrInvalidPeriod), errors.Is(err, payroll.ErrNegativeSalary):
		BadRequest(w, err.Error(), nil)

	case errors.Is(err, notification.ErrNotificationNotFound):
		NotFound(w, "Notification not found")
	case errors.Is(err, calendar.ErrHolidayNotFound):
		NotFound(w, "Holiday not found")
	case errors.Is(err, calendar.ErrHolidayExists):
		Conflict(w, err.Error())

	// Default
	default:
		slog.Error("unhandled error", "error", err)
		InternalServerError(w, "An unexpected error occurred")
	}
}
