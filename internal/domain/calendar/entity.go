package calendar

import (
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
)

// Holiday is a company-wide non-working day.
type Holiday struct {
	ID   string
	Date time.Time
	Name string
}

// Calendar classifies calendar days as working or not.
type Calendar interface {
	IsWorkingDay(day time.Time) bool
}

// WorkWeek is a Monday-Friday calendar with a fixed set of holidays.
type WorkWeek struct {
	holidays map[string]string
}

// NewWorkWeek builds a calendar from the given holidays.
func NewWorkWeek(holidays []Holiday) *WorkWeek {
	w := &WorkWeek{holidays: make(map[string]string, len(holidays))}
	for _, h := range holidays {
		w.holidays[utils.FormatDate(utils.DateOf(h.Date))] = h.Name
	}
	return w
}

func (w *WorkWeek) IsWorkingDay(day time.Time) bool {
	if utils.IsWeekend(day) {
		return false
	}
	return !w.IsHoliday(day)
}

func (w *WorkWeek) IsHoliday(day time.Time) bool {
	_, ok := w.holidays[utils.FormatDate(utils.DateOf(day))]
	return ok
}

// HolidayName returns the holiday's name, or "" for ordinary days.
func (w *WorkWeek) HolidayName(day time.Time) string {
	return w.holidays[utils.FormatDate(utils.DateOf(day))]
}
