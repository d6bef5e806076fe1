package calendar

import "errors"

var (
	ErrHolidayExists   = errors.New("a holiday is already registered for this date")
	ErrHolidayNotFound = errors.New("holiday not found")
)
