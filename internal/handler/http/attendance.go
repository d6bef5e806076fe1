package http

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type AttendanceHandler interface {
	CheckIn(w http.ResponseWriter, r *http.Request)
	PauseBreak(w http.ResponseWriter, r *http.Request)
	ResumeBreak(w http.ResponseWriter, r *http.Request)
	CheckOut(w http.ResponseWriter, r *http.Request)
	GetToday(w http.ResponseWriter, r *http.Request)
	GetMyAttendance(w http.ResponseWriter, r *http.Request)
	List(w http.ResponseWriter, r *http.Request)
	Get(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
}

type attendanceHandlerImpl struct {
	attendanceService attendance.AttendanceService
}

func NewAttendanceHandler(attendanceService attendance.AttendanceService) AttendanceHandler {
	return &attendanceHandlerImpl{
		attendanceService: attendanceService,
	}
}

// CheckIn implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckIn(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}

	req := attendance.CheckInRequest{EmployeeID: claims.EmployeeID}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.CheckIn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Check in successful", result)
}

// PauseBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) PauseBreak(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "Break started", h.attendanceService.PauseBreak)
}

// ResumeBreak implements AttendanceHandler.
func (h *attendanceHandlerImpl) ResumeBreak(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "Break ended", h.attendanceService.ResumeBreak)
}

// CheckOut implements AttendanceHandler.
func (h *attendanceHandlerImpl) CheckOut(w http.ResponseWriter, r *http.Request) {
	h.action(w, r, "Check out successful", h.attendanceService.CheckOut)
}

// action runs a state machine transition for the caller. The body may name an
// attendance_id; without one today's record is used.
func (h *attendanceHandlerImpl) action(
	w http.ResponseWriter,
	r *http.Request,
	message string,
	fn func(ctx context.Context, req attendance.AttendanceActionRequest) (attendance.AttendanceResponse, error),
) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}

	var req attendance.AttendanceActionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("Failed to decode attendance request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = claims.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := fn(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, message, result)
}

// GetToday implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetToday(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetToday(r.Context(), claims.EmployeeID)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyAttendance implements AttendanceHandler.
func (h *attendanceHandlerImpl) GetMyAttendance(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}
	h.list(w, r, claims.EmployeeID)
}

// List implements AttendanceHandler. Approvers only; employee_id is required.
func (h *attendanceHandlerImpl) List(w http.ResponseWriter, r *http.Request) {
	employeeID := r.URL.Query().Get("employee_id")
	if employeeID == "" {
		response.BadRequest(w, "employee_id is required", nil)
		return
	}
	h.list(w, r, employeeID)
}

func (h *attendanceHandlerImpl) list(w http.ResponseWriter, r *http.Request, employeeID string) {
	filter := attendance.AttendanceFilter{
		EmployeeID: employeeID,
		StartDate:  optionalQuery(r, "start_date"),
		EndDate:    optionalQuery(r, "end_date"),
		Status:     optionalQuery(r, "status"),
	}
	if err := filter.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := h.attendanceService.ListAttendance(r.Context(), filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// Get implements AttendanceHandler. Employees may only read their own records.
func (h *attendanceHandlerImpl) Get(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}

	result, err := h.attendanceService.GetAttendance(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result.EmployeeID != claims.EmployeeID && !claims.Role.CanApprove() {
		response.HandleError(w, attendance.ErrUnauthorized)
		return
	}

	response.Success(w, result)
}

// Delete implements AttendanceHandler.
func (h *attendanceHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.attendanceService.DeleteAttendance(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Attendance deleted", nil)
}
