package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	require.NoError(t, err)
	return d
}

func TestDateOfKeepsLocalCalendarDay(t *testing.T) {
	jakarta := time.FixedZone("WIB", 7*3600)
	// 2024-03-01 01:30 in Jakarta is still 2024-02-29 in UTC.
	local := time.Date(2024, 3, 1, 1, 30, 0, 0, jakarta)

	assert.Equal(t, "2024-03-01", FormatDate(DateOf(local)))
	assert.Equal(t, "2024-02-29", FormatDate(DateOf(local.UTC())))
}

func TestCountWeekdays(t *testing.T) {
	cases := []struct {
		from, to string
		want     int
	}{
		{"2024-03-04", "2024-03-08", 5}, // Mon-Fri
		{"2024-03-08", "2024-03-11", 2}, // Fri-Mon
		{"2024-03-09", "2024-03-10", 0}, // Sat-Sun
		{"2024-03-01", "2024-03-31", 21},
		{"2024-03-10", "2024-03-09", 0},
	}
	for _, c := range cases {
		got := CountWeekdays(mustDate(t, c.from), mustDate(t, c.to))
		assert.Equal(t, c.want, got, "%s..%s", c.from, c.to)
	}
}

func TestDaysInclusive(t *testing.T) {
	assert.Equal(t, 1, DaysInclusive(mustDate(t, "2024-03-04"), mustDate(t, "2024-03-04")))
	assert.Equal(t, 4, DaysInclusive(mustDate(t, "2024-03-08"), mustDate(t, "2024-03-11")))
	assert.Equal(t, 0, DaysInclusive(mustDate(t, "2024-03-11"), mustDate(t, "2024-03-08")))
}

func TestClipRange(t *testing.T) {
	lo, hi := mustDate(t, "2024-03-01"), mustDate(t, "2024-03-31")

	start, end, ok := ClipRange(mustDate(t, "2024-02-27"), mustDate(t, "2024-03-04"), lo, hi)
	require.True(t, ok)
	assert.Equal(t, lo, start)
	assert.Equal(t, "2024-03-04", FormatDate(end))

	_, _, ok = ClipRange(mustDate(t, "2024-04-01"), mustDate(t, "2024-04-02"), lo, hi)
	assert.False(t, ok)
}
