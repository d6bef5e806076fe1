package payroll

import (
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/validator"
	"github.com/shopspring/decimal"
)

type DeductionRequest struct {
	EmployeeID  string   `json:"employee_id"`
	StartDate   string   `json:"start_date"`
	EndDate     string   `json:"end_date"`
	BasicSalary string   `json:"basic_salary"`
	Allowances  []string `json:"allowances,omitempty"`
}

func (r *DeductionRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{
			Field:   "employee_id",
			Message: "employee_id is required",
		})
	}
	start, startOK := validator.IsValidDate(r.StartDate)
	if !startOK {
		errs = append(errs, validator.ValidationError{
			Field:   "start_date",
			Message: "start_date must be in YYYY-MM-DD format",
		})
	}
	end, endOK := validator.IsValidDate(r.EndDate)
	if !endOK {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must be in YYYY-MM-DD format",
		})
	}
	if startOK && endOK && end.Before(start) {
		errs = append(errs, validator.ValidationError{
			Field:   "end_date",
			Message: "end_date must not be before start_date",
		})
	}
	if amount, err := decimal.NewFromString(r.BasicSalary); err != nil || amount.IsNegative() {
		errs = append(errs, validator.ValidationError{
			Field:   "basic_salary",
			Message: "basic_salary must be a non-negative number",
		})
	}
	for _, a := range r.Allowances {
		if amount, err := decimal.NewFromString(a); err != nil || amount.IsNegative() {
			errs = append(errs, validator.ValidationError{
				Field:   "allowances",
				Message: "allowances must be non-negative numbers",
			})
			break
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ToPeriod converts a validated request into a Period.
func (r *DeductionRequest) ToPeriod() (Period, error) {
	start, err := utils.ParseDate(r.StartDate)
	if err != nil {
		return Period{}, ErrInvalidPeriod
	}
	end, err := utils.ParseDate(r.EndDate)
	if err != nil || end.Before(start) {
		return Period{}, ErrInvalidPeriod
	}
	basic, err := decimal.NewFromString(r.BasicSalary)
	if err != nil || basic.IsNegative() {
		return Period{}, ErrNegativeSalary
	}
	period := Period{StartDate: start, EndDate: end, BasicSalary: basic}
	for _, a := range r.Allowances {
		amount, err := decimal.NewFromString(a)
		if err != nil || amount.IsNegative() {
			return Period{}, ErrNegativeSalary
		}
		period.Allowances = append(period.Allowances, amount)
	}
	return period, nil
}

type LeaveDaysResponse struct {
	LeaveRequestID string `json:"leave_request_id"`
	From           string `json:"from"`
	To             string `json:"to"`
	Days           string `json:"days"`
}

type DeductionResponse struct {
	EmployeeID       string              `json:"employee_id"`
	PeriodStart      string              `json:"period_start"`
	PeriodEnd        string              `json:"period_end"`
	BasicSalary      string              `json:"basic_salary"`
	Allowances       string              `json:"allowances"`
	Leaves           []LeaveDaysResponse `json:"leaves"`
	TotalLeaveDays   string              `json:"total_leave_days"`
	AvailableBalance string              `json:"available_balance"`
	ExtraLeaveDays   string              `json:"extra_leave_days"`
	WorkingDays      int                 `json:"working_days"`
	PerDaySalary     string              `json:"per_day_salary"`
	Deduction        string              `json:"deduction"`
}

func NewDeductionResponse(d Deduction) DeductionResponse {
	resp := DeductionResponse{
		EmployeeID:       d.EmployeeID,
		PeriodStart:      utils.FormatDate(d.PeriodStart),
		PeriodEnd:        utils.FormatDate(d.PeriodEnd),
		BasicSalary:      d.BasicSalary.StringFixed(2),
		Allowances:       d.Allowances.StringFixed(2),
		Leaves:           make([]LeaveDaysResponse, 0, len(d.Leaves)),
		TotalLeaveDays:   d.TotalLeaveDays.StringFixed(1),
		AvailableBalance: d.AvailableBalance.StringFixed(1),
		ExtraLeaveDays:   d.ExtraLeaveDays.StringFixed(1),
		WorkingDays:      d.WorkingDays,
		PerDaySalary:     d.PerDaySalary.StringFixed(2),
		Deduction:        d.Amount.StringFixed(2),
	}
	for _, l := range d.Leaves {
		resp.Leaves = append(resp.Leaves, LeaveDaysResponse{
			LeaveRequestID: l.LeaveRequestID,
			From:           utils.FormatDate(l.From),
			To:             utils.FormatDate(l.To),
			Days:           l.Days.StringFixed(1),
		})
	}
	return resp
}
