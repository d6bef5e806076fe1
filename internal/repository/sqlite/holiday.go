package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
)

type holidayRepository struct {
	db *database.SQLiteDB
}

func NewHolidayRepository(db *database.SQLiteDB) calendar.HolidayRepository {
	return &holidayRepository{db: db}
}

// Create implements calendar.HolidayRepository.
func (h *holidayRepository) Create(ctx context.Context, holiday calendar.Holiday) (calendar.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	if holiday.ID == "" {
		holiday.ID = utils.NewID()
	}
	holiday.Date = utils.DateOf(holiday.Date)

	_, err := q.ExecContext(ctx,
		`INSERT INTO holidays (id, holiday_date, name, created_at) VALUES (?, ?, ?, ?)`,
		holiday.ID, utils.FormatDate(holiday.Date), holiday.Name, time.Now().UTC(),
	)
	if err != nil {
		if isUniqueViolation(err, "holidays") {
			return calendar.Holiday{}, calendar.ErrHolidayExists
		}
		return calendar.Holiday{}, fmt.Errorf("failed to create holiday: %w", err)
	}
	return holiday, nil
}

// ListBetween implements calendar.HolidayRepository.
func (h *holidayRepository) ListBetween(ctx context.Context, from, to time.Time) ([]calendar.Holiday, error) {
	q := GetQuerier(ctx, h.db)

	rows, err := q.QueryContext(ctx, `
		SELECT id, holiday_date, name
		FROM holidays
		WHERE holiday_date BETWEEN ? AND ?
		ORDER BY holiday_date
	`, utils.FormatDate(from), utils.FormatDate(to))
	if err != nil {
		return nil, fmt.Errorf("failed to list holidays: %w", err)
	}
	defer rows.Close()

	var holidays []calendar.Holiday
	for rows.Next() {
		var hol calendar.Holiday
		if err := rows.Scan(&hol.ID, &hol.Date, &hol.Name); err != nil {
			return nil, fmt.Errorf("failed to scan holiday: %w", err)
		}
		holidays = append(holidays, hol)
	}
	return holidays, rows.Err()
}

// Delete implements calendar.HolidayRepository.
func (h *holidayRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, h.db)

	res, err := q.ExecContext(ctx, `DELETE FROM holidays WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holiday: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return calendar.ErrHolidayNotFound
	}
	return nil
}
