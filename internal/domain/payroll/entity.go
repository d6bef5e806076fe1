package payroll

import (
	"time"

	"github.com/shopspring/decimal"
)

// Period is the pay-slip window supplied by the payroll system.
type Period struct {
	StartDate   time.Time
	EndDate     time.Time
	BasicSalary decimal.Decimal
	Allowances  []decimal.Decimal
}

// AllowanceTotal sums the period allowances.
func (p Period) AllowanceTotal() decimal.Decimal {
	total := decimal.Zero
	for _, a := range p.Allowances {
		total = total.Add(a)
	}
	return total
}

// LeaveDays is one approved leave's contribution to the period.
type LeaveDays struct {
	LeaveRequestID string
	From           time.Time
	To             time.Time
	Days           decimal.Decimal
}

// DeductionInput is everything the deduction arithmetic needs.
type DeductionInput struct {
	EmployeeID       string
	Period           Period
	Leaves           []LeaveDays
	AvailableBalance decimal.Decimal
}

// Deduction is the computed unpaid-leave salary deduction for a period.
type Deduction struct {
	EmployeeID       string
	PeriodStart      time.Time
	PeriodEnd        time.Time
	BasicSalary      decimal.Decimal
	Allowances       decimal.Decimal
	Leaves           []LeaveDays
	TotalLeaveDays   decimal.Decimal
	AvailableBalance decimal.Decimal
	ExtraLeaveDays   decimal.Decimal
	WorkingDays      int
	PerDaySalary     decimal.Decimal
	Amount           decimal.Decimal
}
