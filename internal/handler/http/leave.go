package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/handler/http/response"
	"github.com/go-chi/chi/v5"
)

type LeaveHandler interface {
	CreateRequest(w http.ResponseWriter, r *http.Request)
	UpdateRequest(w http.ResponseWriter, r *http.Request)
	GetMyRequests(w http.ResponseWriter, r *http.Request)
	ListEmployeeRequests(w http.ResponseWriter, r *http.Request)
	GetRequest(w http.ResponseWriter, r *http.Request)
	ApproveRequest(w http.ResponseWriter, r *http.Request)
	RejectRequest(w http.ResponseWriter, r *http.Request)

	GetMyBalance(w http.ResponseWriter, r *http.Request)
	GetEmployeeBalance(w http.ResponseWriter, r *http.Request)
	GetMyEntries(w http.ResponseWriter, r *http.Request)
	ProvisionLedgers(w http.ResponseWriter, r *http.Request)

	CountDays(w http.ResponseWriter, r *http.Request)
}

type LeaveHandlerImpl struct {
	leaveService  leave.LeaveService
	ledgerService leave.LedgerService
	loc           *time.Location
	now           func() time.Time
}

func NewLeaveHandler(leaveService leave.LeaveService, ledgerService leave.LedgerService, loc *time.Location) LeaveHandler {
	if loc == nil {
		loc = time.UTC
	}
	return &LeaveHandlerImpl{
		leaveService:  leaveService,
		ledgerService: ledgerService,
		loc:           loc,
		now:           time.Now,
	}
}

// CreateRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) CreateRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}

	var req leave.CreateLeaveRequestRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("Failed to decode leave request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.EmployeeID = claims.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.Submit(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Created(w, "Leave request submitted", result)
}

// UpdateRequest implements LeaveHandler. Only the owner may change a pending request.
func (l *LeaveHandlerImpl) UpdateRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}

	var req leave.UpdateLeaveRequestRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.EmployeeID = claims.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request updated", result)
}

// GetMyRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyRequests(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}
	l.listRequests(w, r, claims.EmployeeID)
}

// ListEmployeeRequests implements LeaveHandler.
func (l *LeaveHandlerImpl) ListEmployeeRequests(w http.ResponseWriter, r *http.Request) {
	l.listRequests(w, r, chi.URLParam(r, "employeeID"))
}

func (l *LeaveHandlerImpl) listRequests(w http.ResponseWriter, r *http.Request, employeeID string) {
	var filter leave.LeaveRequestFilter
	filter.Status = optionalQuery(r, "status")
	if r.URL.Query().Get("year") != "" {
		year, err := getIntQueryParam(r, "year", 0)
		if err != nil {
			response.BadRequest(w, "year must be a number", nil)
			return
		}
		filter.Year = &year
	}

	result, err := l.leaveService.ListByEmployee(r.Context(), employeeID, filter)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) GetRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}

	result, err := l.leaveService.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	if result.EmployeeID != claims.EmployeeID && !claims.Role.CanApprove() {
		response.HandleError(w, leave.ErrUnauthorized)
		return
	}

	response.Success(w, result)
}

// ApproveRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) ApproveRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}

	req := leave.ApproveLeaveRequest{
		ID:         chi.URLParam(r, "id"),
		ApproverID: claims.EmployeeID,
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.Approve(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request approved", result)
}

// RejectRequest implements LeaveHandler.
func (l *LeaveHandlerImpl) RejectRequest(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}

	var req leave.RejectLeaveRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")
	req.ApproverID = claims.EmployeeID

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.Reject(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave request rejected", result)
}

// GetMyBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyBalance(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}
	l.balance(w, r, claims.EmployeeID)
}

// GetEmployeeBalance implements LeaveHandler.
func (l *LeaveHandlerImpl) GetEmployeeBalance(w http.ResponseWriter, r *http.Request) {
	l.balance(w, r, chi.URLParam(r, "employeeID"))
}

// balance reads ?year=&month=, defaulting to the current month in the company timezone.
func (l *LeaveHandlerImpl) balance(w http.ResponseWriter, r *http.Request, employeeID string) {
	today := l.now().In(l.loc)

	year, err := getIntQueryParam(r, "year", today.Year())
	if err != nil {
		response.BadRequest(w, "year must be a number", nil)
		return
	}
	month, err := getIntQueryParam(r, "month", int(today.Month()))
	if err != nil {
		response.BadRequest(w, "month must be a number", nil)
		return
	}

	result, err := l.ledgerService.GetBalance(r.Context(), employeeID, year, month)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// GetMyEntries implements LeaveHandler.
func (l *LeaveHandlerImpl) GetMyEntries(w http.ResponseWriter, r *http.Request) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return
	}

	year, err := getIntQueryParam(r, "year", l.now().In(l.loc).Year())
	if err != nil {
		response.BadRequest(w, "year must be a number", nil)
		return
	}

	entries, err := l.ledgerService.ListEntries(r.Context(), claims.EmployeeID, year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	result := make([]leave.LedgerEntryResponse, 0, len(entries))
	for _, e := range entries {
		result = append(result, leave.NewLedgerEntryResponse(e))
	}
	response.Success(w, result)
}

// ProvisionLedgers implements LeaveHandler.
func (l *LeaveHandlerImpl) ProvisionLedgers(w http.ResponseWriter, r *http.Request) {
	year, err := getIntQueryParam(r, "year", l.now().In(l.loc).Year())
	if err != nil {
		response.BadRequest(w, "year must be a number", nil)
		return
	}

	result, err := l.ledgerService.ProvisionYear(r.Context(), year)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.SuccessWithMessage(w, "Leave ledgers provisioned", result)
}

// CountDays implements LeaveHandler.
func (l *LeaveHandlerImpl) CountDays(w http.ResponseWriter, r *http.Request) {
	req := leave.DayCountRequest{
		FromDate:  r.URL.Query().Get("from_date"),
		ToDate:    optionalQuery(r, "to_date"),
		LeaveType: r.URL.Query().Get("leave_type"),
	}
	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	result, err := l.leaveService.CountDays(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}
