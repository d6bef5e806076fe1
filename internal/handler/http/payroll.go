package http

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger/internal/handler/http/response"
)

type PayrollHandler interface {
	PreviewDeduction(w http.ResponseWriter, r *http.Request)
	DownloadStatement(w http.ResponseWriter, r *http.Request)
}

type payrollHandlerImpl struct {
	deductionService payroll.DeductionService
}

func NewPayrollHandler(deductionService payroll.DeductionService) PayrollHandler {
	return &payrollHandlerImpl{
		deductionService: deductionService,
	}
}

// decodeDeduction reads the request body. Employees may only query their own
// deduction; an empty employee_id means the caller.
func (h *payrollHandlerImpl) decodeDeduction(w http.ResponseWriter, r *http.Request) (payroll.DeductionRequest, bool) {
	claims, ok := claimsOrError(w, r)
	if !ok {
		return payroll.DeductionRequest{}, false
	}

	var req payroll.DeductionRequest
	if err := decodeOptionalJSON(r, &req); err != nil {
		slog.Error("Failed to decode deduction request", "error", err)
		response.BadRequest(w, "Invalid request format", nil)
		return payroll.DeductionRequest{}, false
	}
	if req.EmployeeID == "" {
		req.EmployeeID = claims.EmployeeID
	}
	if req.EmployeeID != claims.EmployeeID && !claims.Role.CanApprove() {
		response.Forbidden(w, "Manager or owner role required")
		return payroll.DeductionRequest{}, false
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return payroll.DeductionRequest{}, false
	}
	return req, true
}

// PreviewDeduction implements PayrollHandler.
func (h *payrollHandlerImpl) PreviewDeduction(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeDeduction(w, r)
	if !ok {
		return
	}

	result, err := h.deductionService.Preview(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, result)
}

// DownloadStatement implements PayrollHandler. The PDF is rendered in memory
// so a failure can still be reported as JSON.
func (h *payrollHandlerImpl) DownloadStatement(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodeDeduction(w, r)
	if !ok {
		return
	}

	var buf bytes.Buffer
	if err := h.deductionService.WriteStatement(r.Context(), req, &buf); err != nil {
		response.HandleError(w, err)
		return
	}

	filename := fmt.Sprintf("deduction-%s-%s.pdf", req.EmployeeID, req.StartDate)
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	if _, err := buf.WriteTo(w); err != nil {
		slog.Error("Failed to write deduction statement", "error", err)
	}
}
