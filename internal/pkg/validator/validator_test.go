package validator

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	cases := []struct {
		input string
		want  bool
	}{
		{"", true},
		{"   ", true},
		{"\t\n", true},
		{"abc", false},
		{" abc ", false},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, IsEmpty(c.input), "IsEmpty(%q)", c.input)
	}
}

func TestIsValidDate(t *testing.T) {
	d, ok := IsValidDate("2024-02-29")
	assert.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)

	for _, s := range []string{"2023-02-29", "2024-13-01", "01-03-2024", "2024-03-01T00:00:00Z", ""} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, "IsValidDate(%q)", s)
	}
}

func TestIsInSlice(t *testing.T) {
	types := []string{"sick", "personal", "half_day"}
	assert.True(t, IsInSlice("sick", types))
	assert.False(t, IsInSlice("Sick", types))
	assert.False(t, IsInSlice("sick", nil))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "start_date", Message: "start_date is required"},
		{Field: "leave_type", Message: "leave_type must be one of sick, personal, half_day"},
	}

	assert.Equal(t, "start_date: start_date is required; leave_type: leave_type must be one of sick, personal, half_day", errs.Error())
	assert.Equal(t, map[string]string{
		"start_date": "start_date is required",
		"leave_type": "leave_type must be one of sick, personal, half_day",
	}, errs.ToMap())
}
