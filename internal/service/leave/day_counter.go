package leave

import (
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
)

// maxAbsorbDays bounds the chain walk in each direction.
const maxAbsorbDays = 366

// CountChargeableDays applies the sandwich rule to [from, to]. A nil or equal
// to is a single day. Non-working days strictly inside the range are charged
// as-is; otherwise, when the days on both sides of the range are non-working,
// the contiguous non-working runs on each side are absorbed into the charge.
func CountChargeableDays(from time.Time, to *time.Time, cal calendar.Calendar) (leave.DayCount, error) {
	start := utils.DateOf(from)
	if to == nil || utils.DateOf(*to).Equal(start) {
		return leave.DayCount{Days: 1, Start: start, End: start}, nil
	}
	end := utils.DateOf(*to)
	if end.Before(start) {
		return leave.DayCount{}, leave.ErrInvalidDateRange
	}

	base := leave.DayCount{Days: utils.DaysInclusive(start, end), Start: start, End: end}

	for d := utils.AddDays(start, 1); d.Before(end); d = utils.AddDays(d, 1) {
		if !cal.IsWorkingDay(d) {
			base.Sandwich = true
			return base, nil
		}
	}

	before, after := utils.AddDays(start, -1), utils.AddDays(end, 1)
	if cal.IsWorkingDay(before) || cal.IsWorkingDay(after) {
		return base, nil
	}

	chargeFrom := before
	for i := 0; i < maxAbsorbDays; i++ {
		prev := utils.AddDays(chargeFrom, -1)
		if cal.IsWorkingDay(prev) {
			break
		}
		chargeFrom = prev
	}
	chargeTo := after
	for i := 0; i < maxAbsorbDays; i++ {
		next := utils.AddDays(chargeTo, 1)
		if cal.IsWorkingDay(next) {
			break
		}
		chargeTo = next
	}

	return leave.DayCount{
		Days:     utils.DaysInclusive(chargeFrom, chargeTo),
		Sandwich: true,
		Start:    chargeFrom,
		End:      chargeTo,
	}, nil
}
