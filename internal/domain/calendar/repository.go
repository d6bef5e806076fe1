package calendar

import (
	"context"
	"time"
)

// HolidayRepository reads and maintains the holiday calendar.
type HolidayRepository interface {
	// Create returns ErrHolidayExists for a duplicate date.
	Create(ctx context.Context, holiday Holiday) (Holiday, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Holiday, error)
	Delete(ctx context.Context, id string) error
}
