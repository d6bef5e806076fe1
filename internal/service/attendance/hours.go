package attendance

import (
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/shopspring/decimal"
)

var secondsPerHour = decimal.NewFromInt(3600)

func hoursOf(d time.Duration) decimal.Decimal {
	if d <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(d / time.Second)).Div(secondsPerHour)
}

// BreakTotal sums closed break intervals. An open break contributes nothing.
func BreakTotal(breaks []attendance.BreakInterval) time.Duration {
	var total time.Duration
	for _, b := range breaks {
		total += b.Duration()
	}
	return total
}

func rawHours(checkIn, checkOut time.Time, breaks []attendance.BreakInterval, policy attendance.WorkHoursPolicy) (work, brk decimal.Decimal) {
	elapsed := hoursOf(checkOut.Sub(checkIn))
	brk = hoursOf(BreakTotal(breaks))

	work = decimal.Max(elapsed.Sub(brk), decimal.Zero)
	if policy != attendance.PolicySingle {
		work = decimal.Max(work.Sub(brk), decimal.Zero)
	}
	return work, brk
}

// ComputeHours returns worked and break hours for a session, both rounded to
// two decimals. Under PolicyLegacy the break total is subtracted a second
// time after the first clamp; the result is never negative.
func ComputeHours(checkIn, checkOut time.Time, breaks []attendance.BreakInterval, policy attendance.WorkHoursPolicy) (work, brk decimal.Decimal) {
	work, brk = rawHours(checkIn, checkOut, breaks, policy)
	return work.Round(2), brk.Round(2)
}

// ClassifySession derives the day status from the unrounded work hours, so a
// session a few seconds short of a threshold stays below it.
func ClassifySession(checkIn, checkOut time.Time, breaks []attendance.BreakInterval, policy attendance.WorkHoursPolicy) attendance.Status {
	work, _ := rawHours(checkIn, checkOut, breaks, policy)
	return attendance.StatusForHours(work)
}
