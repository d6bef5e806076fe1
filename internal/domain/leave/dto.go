package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type CreateLeaveRequestRequest struct {
	EmployeeID string  `json:"employee_id"`
	LeaveType  string  `json:"leave_type"`
	FromDate   string  `json:"from_date"`
	ToDate     *string `json:"to_date,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *CreateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if !LeaveType(r.LeaveType).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of privilege, sick, half_day, other",
		})
	}
	errs = append(errs, validateDates(r.FromDate, r.ToDate, LeaveType(r.LeaveType))...)
	if r.Reason != nil && len(*r.Reason) > 1000 {
		errs = append(errs, validator.ValidationError{
			Field:   "reason",
			Message: "reason must not exceed 1000 characters",
		})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// UpdateLeaveRequestRequest changes the dates or type of a pending request.
type UpdateLeaveRequestRequest struct {
	ID         string  `json:"id"`
	EmployeeID string  `json:"employee_id"`
	LeaveType  *string `json:"leave_type,omitempty"`
	FromDate   *string `json:"from_date,omitempty"`
	ToDate     *string `json:"to_date,omitempty"`
	Reason     *string `json:"reason,omitempty"`
}

func (r *UpdateLeaveRequestRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}
	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	if r.LeaveType != nil && !LeaveType(*r.LeaveType).Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of privilege, sick, half_day, other",
		})
	}
	if r.FromDate != nil {
		if _, ok := validator.IsValidDate(*r.FromDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "from_date",
				Message: "from_date must be in YYYY-MM-DD format",
			})
		}
	}
	if r.ToDate != nil && *r.ToDate != "" {
		if _, ok := validator.IsValidDate(*r.ToDate); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "to_date",
				Message: "to_date must be in YYYY-MM-DD format",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ApproveLeaveRequest struct {
	ID         string `json:"id"`
	ApproverID string `json:"approver_id"`
}

func (r *ApproveLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "approver_id is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type RejectLeaveRequest struct {
	ID         string `json:"id"`
	ApproverID string `json:"approver_id"`
	Reason     string `json:"rejection_reason"`
}

func (r *RejectLeaveRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{Field: "id", Message: "id is required"})
	}
	if validator.IsEmpty(r.ApproverID) {
		errs = append(errs, validator.ValidationError{Field: "approver_id", Message: "approver_id is required"})
	}
	if validator.IsEmpty(r.Reason) {
		errs = append(errs, validator.ValidationError{Field: "rejection_reason", Message: "rejection_reason is required"})
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type LeaveRequestFilter struct {
	Status *string
	Year   *int
}

type DayCountRequest struct {
	FromDate  string  `json:"from_date"`
	ToDate    *string `json:"to_date,omitempty"`
	LeaveType string  `json:"leave_type,omitempty"`
}

func (r *DayCountRequest) Validate() error {
	var errs validator.ValidationErrors

	leaveType := LeaveType(r.LeaveType)
	if r.LeaveType != "" && !leaveType.Valid() {
		errs = append(errs, validator.ValidationError{
			Field:   "leave_type",
			Message: "leave_type must be one of privilege, sick, half_day, other",
		})
	}
	errs = append(errs, validateDates(r.FromDate, r.ToDate, leaveType)...)

	if len(errs) > 0 {
		return errs
	}
	return nil
}

func validateDates(from string, to *string, leaveType LeaveType) validator.ValidationErrors {
	var errs validator.ValidationErrors

	fromDate, fromOK := validator.IsValidDate(from)
	if !fromOK {
		errs = append(errs, validator.ValidationError{
			Field:   "from_date",
			Message: "from_date must be in YYYY-MM-DD format",
		})
	}
	if to == nil || *to == "" {
		return errs
	}
	toDate, toOK := validator.IsValidDate(*to)
	if !toOK {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date must be in YYYY-MM-DD format",
		})
		return errs
	}
	if fromOK && toDate.Before(fromDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "to_date must not be before from_date",
		})
	}
	if fromOK && leaveType == LeaveTypeHalfDay && !toDate.Equal(fromDate) {
		errs = append(errs, validator.ValidationError{
			Field:   "to_date",
			Message: "half_day leave must cover a single day",
		})
	}
	return errs
}

type DayCountResponse struct {
	Days           int    `json:"days"`
	ChargeableDays string `json:"chargeable_days"`
	Sandwich       bool   `json:"sandwich"`
	ChargeFrom     string `json:"charge_from"`
	ChargeTo       string `json:"charge_to"`
}

type LeaveRequestResponse struct {
	ID              string             `json:"id"`
	EmployeeID      string             `json:"employee_id"`
	LeaveType       LeaveType          `json:"leave_type"`
	FromDate        string             `json:"from_date"`
	ToDate          *string            `json:"to_date,omitempty"`
	TotalDays       string             `json:"total_days"`
	Sandwich        bool               `json:"sandwich"`
	ChargeFrom      string             `json:"charge_from"`
	ChargeTo        string             `json:"charge_to"`
	Reason          *string            `json:"reason,omitempty"`
	Status          LeaveRequestStatus `json:"status"`
	DecidedBy       *string            `json:"decided_by,omitempty"`
	DecidedAt       *string            `json:"decided_at,omitempty"`
	RejectionReason *string            `json:"rejection_reason,omitempty"`
	Consumption     *ConsumptionDTO    `json:"consumption,omitempty"`
}

type ConsumptionDTO struct {
	PL  string `json:"pl"`
	SL  string `json:"sl"`
	LOP string `json:"lop"`
}

func NewConsumptionDTO(c Consumption) *ConsumptionDTO {
	return &ConsumptionDTO{
		PL:  c.PL.StringFixed(1),
		SL:  c.SL.StringFixed(1),
		LOP: c.LOP.StringFixed(1),
	}
}

func NewLeaveRequestResponse(r LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:              r.ID,
		EmployeeID:      r.EmployeeID,
		LeaveType:       r.LeaveType,
		FromDate:        utils.FormatDate(r.FromDate),
		TotalDays:       r.TotalDays.StringFixed(1),
		Sandwich:        r.Sandwich,
		ChargeFrom:      utils.FormatDate(r.ChargeFrom),
		ChargeTo:        utils.FormatDate(r.ChargeTo),
		Reason:          r.Reason,
		Status:          r.Status,
		DecidedBy:       r.DecidedBy,
		RejectionReason: r.RejectionReason,
	}
	if r.ToDate != nil {
		to := utils.FormatDate(*r.ToDate)
		resp.ToDate = &to
	}
	if r.DecidedAt != nil {
		at := r.DecidedAt.Format(time.RFC3339)
		resp.DecidedAt = &at
	}
	return resp
}

type BalanceResponse struct {
	EmployeeID   string `json:"employee_id"`
	Year         int    `json:"year"`
	Month        int    `json:"month"`
	PLQuota      string `json:"pl_quota"`
	SLQuota      string `json:"sl_quota"`
	UsedPL       string `json:"used_pl"`
	UsedSL       string `json:"used_sl"`
	UsedLOP      string `json:"used_lop"`
	AvailablePL  string `json:"available_pl"`
	AvailableSL  string `json:"available_sl"`
	MonthlyPLCap string `json:"monthly_pl_allowance"`
}

func NewBalanceResponse(l Ledger, month int) BalanceResponse {
	return BalanceResponse{
		EmployeeID:   l.EmployeeID,
		Year:         l.Year,
		Month:        month,
		PLQuota:      l.PLQuota.StringFixed(1),
		SLQuota:      l.SLQuota.StringFixed(1),
		UsedPL:       l.UsedPL.StringFixed(1),
		UsedSL:       l.UsedSL.StringFixed(1),
		UsedLOP:      l.UsedLOP.StringFixed(1),
		AvailablePL:  l.AvailablePL(month).StringFixed(1),
		AvailableSL:  l.AvailableSL().StringFixed(1),
		MonthlyPLCap: l.MonthlyPLAllowance(month).StringFixed(1),
	}
}

// ConsumeRequest drives one waterfall application.
type ConsumeRequest struct {
	EmployeeID     string
	LeaveRequestID string
	LeaveType      LeaveType
	Count          decimal.Decimal
	At             time.Time
}

// ConsumeResult reports what the waterfall did. Applied is false when no
// ledger existed for the employee and year.
type ConsumeResult struct {
	Applied     bool
	Consumption Consumption
	Ledger      Ledger
}

type ProvisionResult struct {
	Year     int `json:"year"`
	Created  int `json:"created"`
	Existing int `json:"existing"`
}

type LedgerEntryResponse struct {
	ID             string    `json:"id"`
	LeaveRequestID string    `json:"leave_request_id"`
	LeaveType      LeaveType `json:"leave_type"`
	Requested      string    `json:"requested"`
	PL             string    `json:"pl"`
	SL             string    `json:"sl"`
	LOP            string    `json:"lop"`
	CreatedAt      string    `json:"created_at"`
}

func NewLedgerEntryResponse(e LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:             e.ID,
		LeaveRequestID: e.LeaveRequestID,
		LeaveType:      e.LeaveType,
		Requested:      e.Requested.StringFixed(1),
		PL:             e.PL.StringFixed(1),
		SL:             e.SL.StringFixed(1),
		LOP:            e.LOP.StringFixed(1),
		CreatedAt:      e.CreatedAt.Format(time.RFC3339),
	}
}
