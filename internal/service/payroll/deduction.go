package payroll

import (
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/shopspring/decimal"
)

// CollectLeaveDays counts each approved leave's days inside the period. A
// leave with an end date is clipped to the period and only weekdays count;
// a single-day leave counts one day when it falls in the period.
func CollectLeaveDays(requests []leave.LeaveRequest, period payroll.Period) []payroll.LeaveDays {
	var days []payroll.LeaveDays
	for _, r := range requests {
		if r.Status != leave.LeaveRequestStatusApproved {
			continue
		}

		if r.ToDate == nil {
			from := utils.DateOf(r.FromDate)
			if from.Before(period.StartDate) || from.After(period.EndDate) {
				continue
			}
			days = append(days, payroll.LeaveDays{
				LeaveRequestID: r.ID,
				From:           from,
				To:             from,
				Days:           decimal.NewFromInt(1),
			})
			continue
		}

		from, to, ok := utils.ClipRange(utils.DateOf(r.FromDate), utils.DateOf(*r.ToDate), period.StartDate, period.EndDate)
		if !ok {
			continue
		}
		days = append(days, payroll.LeaveDays{
			LeaveRequestID: r.ID,
			From:           from,
			To:             to,
			Days:           decimal.NewFromInt(int64(utils.CountWeekdays(from, to))),
		})
	}
	return days
}

// ComputeDeduction charges the leave days not covered by the available
// balance at the period's per-day salary. Division by a zero working-day
// count yields a zero deduction. Only the final amount is rounded.
func ComputeDeduction(in payroll.DeductionInput) payroll.Deduction {
	d := payroll.Deduction{
		EmployeeID:       in.EmployeeID,
		PeriodStart:      in.Period.StartDate,
		PeriodEnd:        in.Period.EndDate,
		BasicSalary:      in.Period.BasicSalary,
		Allowances:       in.Period.AllowanceTotal(),
		Leaves:           in.Leaves,
		TotalLeaveDays:   decimal.Zero,
		AvailableBalance: in.AvailableBalance,
		ExtraLeaveDays:   decimal.Zero,
		WorkingDays:      utils.CountWeekdays(in.Period.StartDate, in.Period.EndDate),
		PerDaySalary:     decimal.Zero,
		Amount:           decimal.Zero,
	}

	for _, l := range in.Leaves {
		d.TotalLeaveDays = d.TotalLeaveDays.Add(l.Days)
	}
	d.ExtraLeaveDays = decimal.Max(d.TotalLeaveDays.Sub(in.AvailableBalance), decimal.Zero)

	if d.WorkingDays == 0 {
		return d
	}
	d.PerDaySalary = d.BasicSalary.Add(d.Allowances).Div(decimal.NewFromInt(int64(d.WorkingDays)))

	if d.ExtraLeaveDays.IsZero() {
		return d
	}
	d.Amount = decimal.Max(d.PerDaySalary.Mul(d.ExtraLeaveDays), decimal.Zero).Round(2)
	return d
}
