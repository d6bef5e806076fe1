package calendar

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestWorkWeek(t *testing.T) {
	nyepi := time.Date(2024, 3, 11, 0, 0, 0, 0, time.UTC)
	cal := NewWorkWeek([]Holiday{{Date: nyepi, Name: "Nyepi"}})

	assert.False(t, cal.IsWorkingDay(nyepi))
	assert.True(t, cal.IsHoliday(nyepi))
	assert.Equal(t, "Nyepi", cal.HolidayName(nyepi))

	assert.False(t, cal.IsWorkingDay(time.Date(2024, 3, 9, 0, 0, 0, 0, time.UTC)), "saturday")
	assert.False(t, cal.IsWorkingDay(time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)), "sunday")
	assert.True(t, cal.IsWorkingDay(time.Date(2024, 3, 12, 15, 0, 0, 0, time.UTC)))
	assert.Equal(t, "", cal.HolidayName(time.Date(2024, 3, 12, 0, 0, 0, 0, time.UTC)))
}
