package leave

import (
	"time"

	"github.com/shopspring/decimal"
)

// LeaveType is the closed set of leave categories. Each variant carries its
// own waterfall through Split.
type LeaveType string

const (
	LeaveTypePrivilege LeaveType = "privilege"
	LeaveTypeSick      LeaveType = "sick"
	LeaveTypeHalfDay   LeaveType = "half_day"
	LeaveTypeOther     LeaveType = "other"
)

// HalfDayCount is the fixed charge of a half-day leave.
var HalfDayCount = decimal.NewFromFloat(0.5)

// ParseLeaveType maps a leave-type code onto the enum.
func ParseLeaveType(code string) (LeaveType, error) {
	t := LeaveType(code)
	if !t.Valid() {
		return "", ErrInvalidLeaveType
	}
	return t, nil
}

func (t LeaveType) Valid() bool {
	switch t {
	case LeaveTypePrivilege, LeaveTypeSick, LeaveTypeHalfDay, LeaveTypeOther:
		return true
	}
	return false
}

// ChargeableCount converts a chargeable day span into the amount the ledger consumes.
func (t LeaveType) ChargeableCount(days int) decimal.Decimal {
	if t == LeaveTypeHalfDay {
		return HalfDayCount
	}
	return decimal.NewFromInt(int64(days))
}

// Split runs the waterfall for this leave type against l in the given month (1-12).
// Privilege and half-day draw from the monthly prorated PL allowance, sick from
// the annual SL quota, and whatever is left falls through to LOP.
func (t LeaveType) Split(count decimal.Decimal, l Ledger, month int) Consumption {
	if count.IsNegative() {
		count = decimal.Zero
	}
	switch t {
	case LeaveTypePrivilege:
		pl, lop := drawDown(count, l.AvailablePL(month))
		return Consumption{PL: pl, SL: decimal.Zero, LOP: lop}
	case LeaveTypeHalfDay:
		pl, lop := drawDown(HalfDayCount, l.AvailablePL(month))
		return Consumption{PL: pl, SL: decimal.Zero, LOP: lop}
	case LeaveTypeSick:
		sl, lop := drawDown(count, l.AvailableSL())
		return Consumption{PL: decimal.Zero, SL: sl, LOP: lop}
	default:
		return Consumption{PL: decimal.Zero, SL: decimal.Zero, LOP: count}
	}
}

func drawDown(count, available decimal.Decimal) (taken, overflow decimal.Decimal) {
	taken = decimal.Min(available, count)
	overflow = count.Sub(taken)
	if overflow.IsNegative() {
		overflow = decimal.Zero
	}
	return taken, overflow
}

// Consumption is how one approval was spread over the ledger buckets.
type Consumption struct {
	PL  decimal.Decimal
	SL  decimal.Decimal
	LOP decimal.Decimal
}

// Paid is the part of the consumption covered by PL or SL.
func (c Consumption) Paid() decimal.Decimal {
	return c.PL.Add(c.SL)
}

func (c Consumption) Total() decimal.Decimal {
	return c.PL.Add(c.SL).Add(c.LOP)
}

// Ledger is the per-employee, per-year leave balance. Used counters only grow.
type Ledger struct {
	ID         string
	EmployeeID string
	Year       int
	PLQuota    decimal.Decimal
	SLQuota    decimal.Decimal
	LOPQuota   decimal.Decimal
	UsedPL     decimal.Decimal
	UsedSL     decimal.Decimal
	UsedLOP    decimal.Decimal
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// MonthlyPLAllowance is the PL accrued by the given month: min(month, pl_quota).
func (l Ledger) MonthlyPLAllowance(month int) decimal.Decimal {
	return decimal.Min(decimal.NewFromInt(int64(month)), l.PLQuota)
}

// AvailablePL is the PL still drawable in month, floored at zero.
func (l Ledger) AvailablePL(month int) decimal.Decimal {
	return decimal.Max(l.MonthlyPLAllowance(month).Sub(l.UsedPL), decimal.Zero)
}

// AvailableSL is the SL left for the year, floored at zero.
func (l Ledger) AvailableSL() decimal.Decimal {
	return decimal.Max(l.SLQuota.Sub(l.UsedSL), decimal.Zero)
}

// Apply adds c onto the used counters.
func (l *Ledger) Apply(c Consumption) {
	l.UsedPL = l.UsedPL.Add(c.PL)
	l.UsedSL = l.UsedSL.Add(c.SL)
	l.UsedLOP = l.UsedLOP.Add(c.LOP)
}

// LedgerEntry is the append-only audit row written for every applied waterfall.
type LedgerEntry struct {
	ID             string
	LedgerID       string
	LeaveRequestID string
	LeaveType      LeaveType
	Requested      decimal.Decimal
	PL             decimal.Decimal
	SL             decimal.Decimal
	LOP            decimal.Decimal
	CreatedAt      time.Time
}

type LeaveRequestStatus string

const (
	LeaveRequestStatusPending  LeaveRequestStatus = "pending"
	LeaveRequestStatusApproved LeaveRequestStatus = "approved"
	LeaveRequestStatusRejected LeaveRequestStatus = "rejected"
)

// LeaveRequest is an employee's request for time off. TotalDays, Sandwich and
// the charge span are derived from the dates on every save.
type LeaveRequest struct {
	ID              string
	EmployeeID      string
	LeaveType       LeaveType
	FromDate        time.Time
	ToDate          *time.Time
	TotalDays       decimal.Decimal
	Sandwich        bool
	ChargeFrom      time.Time
	ChargeTo        time.Time
	Reason          *string
	Status          LeaveRequestStatus
	DecidedBy       *string
	DecidedAt       *time.Time
	RejectionReason *string
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// EndDate is ToDate, or FromDate for a single-day request.
func (r LeaveRequest) EndDate() time.Time {
	if r.ToDate == nil {
		return r.FromDate
	}
	return *r.ToDate
}

// DayCount is the result of the sandwich-rule day counter.
type DayCount struct {
	Days     int
	Sandwich bool
	Start    time.Time
	End      time.Time
}
