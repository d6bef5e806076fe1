package leave

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

func dayPtr(t *testing.T, s string) *time.Time {
	d := day(t, s)
	return &d
}

func workWeek(t *testing.T, holidays ...string) calendar.Calendar {
	t.Helper()
	hs := make([]calendar.Holiday, 0, len(holidays))
	for _, h := range holidays {
		hs = append(hs, calendar.Holiday{Date: day(t, h), Name: "holiday " + h})
	}
	return calendar.NewWorkWeek(hs)
}

func TestCountChargeableDays(t *testing.T) {
	tests := []struct {
		name      string
		from, to  string
		holidays  []string
		wantDays  int
		sandwich  bool
		wantStart string
		wantEnd   string
	}{
		{
			name:      "weekend inside the range",
			from:      "2024-03-08",
			to:        "2024-03-11",
			wantDays:  4,
			sandwich:  true,
			wantStart: "2024-03-08",
			wantEnd:   "2024-03-11",
		},
		{
			name:      "holiday inside the range",
			from:      "2024-03-04",
			to:        "2024-03-06",
			holidays:  []string{"2024-03-05"},
			wantDays:  3,
			sandwich:  true,
			wantStart: "2024-03-04",
			wantEnd:   "2024-03-06",
		},
		{
			name:      "plain working days",
			from:      "2024-03-05",
			to:        "2024-03-07",
			wantDays:  3,
			wantStart: "2024-03-05",
			wantEnd:   "2024-03-07",
		},
		{
			name:      "only one neighbour is off",
			from:      "2024-03-04",
			to:        "2024-03-07",
			wantDays:  4,
			wantStart: "2024-03-04",
			wantEnd:   "2024-03-07",
		},
		{
			name:      "full week absorbs both weekends",
			from:      "2024-03-04",
			to:        "2024-03-08",
			wantDays:  9,
			sandwich:  true,
			wantStart: "2024-03-02",
			wantEnd:   "2024-03-10",
		},
		{
			name:      "holidays next to the range chain into weekends",
			from:      "2024-03-05",
			to:        "2024-03-07",
			holidays:  []string{"2024-03-04", "2024-03-08"},
			wantDays:  9,
			sandwich:  true,
			wantStart: "2024-03-02",
			wantEnd:   "2024-03-10",
		},
		{
			name:      "same day",
			from:      "2024-03-08",
			to:        "2024-03-08",
			wantDays:  1,
			wantStart: "2024-03-08",
			wantEnd:   "2024-03-08",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CountChargeableDays(day(t, tt.from), dayPtr(t, tt.to), workWeek(t, tt.holidays...))
			require.NoError(t, err)

			assert.Equal(t, tt.wantDays, got.Days)
			assert.Equal(t, tt.sandwich, got.Sandwich)
			assert.Equal(t, tt.wantStart, utils.FormatDate(got.Start))
			assert.Equal(t, tt.wantEnd, utils.FormatDate(got.End))
		})
	}
}

func TestCountChargeableDaysSingleDay(t *testing.T) {
	got, err := CountChargeableDays(day(t, "2024-03-09"), nil, workWeek(t))
	require.NoError(t, err)

	assert.Equal(t, 1, got.Days)
	assert.False(t, got.Sandwich)
	assert.Equal(t, got.Start, got.End)
}

func TestCountChargeableDaysInvalidRange(t *testing.T) {
	_, err := CountChargeableDays(day(t, "2024-03-08"), dayPtr(t, "2024-03-07"), workWeek(t))
	assert.ErrorIs(t, err, leave.ErrInvalidDateRange)
}

func TestCountChargeableDaysIsStable(t *testing.T) {
	cal := workWeek(t, "2024-03-11")
	from, to := day(t, "2024-03-04"), dayPtr(t, "2024-03-08")

	first, err := CountChargeableDays(from, to, cal)
	require.NoError(t, err)
	second, err := CountChargeableDays(from, to, cal)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	// The Monday holiday extends the trailing run to 2024-03-11.
	assert.Equal(t, "2024-03-11", utils.FormatDate(first.End))
	assert.Equal(t, 10, first.Days)
}
