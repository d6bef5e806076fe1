package fixtures

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
)

// ==========================================
// DEFAULT HOLIDAYS
// ==========================================

// GetDefaultHolidays returns the fixed-date national holidays of year.
// Lunar and religious holidays move every year and are added by hand.
func GetDefaultHolidays(year int) []calendar.Holiday {
	day := func(month time.Month, d int) time.Time {
		return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
	}
	return []calendar.Holiday{
		{Date: day(time.January, 1), Name: "New Year's Day"},
		{Date: day(time.May, 1), Name: "International Labour Day"},
		{Date: day(time.June, 1), Name: "Pancasila Day"},
		{Date: day(time.August, 17), Name: "Independence Day"},
		{Date: day(time.December, 25), Name: "Christmas Day"},
	}
}

// ==========================================
// DEMO EMPLOYEES
// ==========================================

// GetDemoEmployees returns the employees seeded into a local database.
func GetDemoEmployees() []employee.Employee {
	hired := time.Date(2023, time.January, 2, 0, 0, 0, 0, time.UTC)
	return []employee.Employee{
		{EmployeeCode: "0001-0001", FullName: "Demo Owner", EmploymentStatus: employee.EmploymentStatusActive, HireDate: hired},
		{EmployeeCode: "0001-0002", FullName: "Demo Manager", EmploymentStatus: employee.EmploymentStatusActive, HireDate: hired},
		{EmployeeCode: "0001-0003", FullName: "Demo Employee", EmploymentStatus: employee.EmploymentStatusActive, HireDate: hired},
	}
}

// ==========================================
// SEEDING
// ==========================================

type SeedResult struct {
	EmployeesCreated int `json:"employees_created"`
	HolidaysCreated  int `json:"holidays_created"`
}

// Seed inserts the demo employees and the default holidays of year. Rows that
// already exist are skipped, so seeding twice is harmless.
func Seed(ctx context.Context, employees employee.EmployeeRepository, holidays calendar.HolidayRepository, year int) (SeedResult, error) {
	var result SeedResult

	for _, emp := range GetDemoEmployees() {
		if _, err := employees.Create(ctx, emp); err != nil {
			if errors.Is(err, employee.ErrEmployeeCodeExists) {
				continue
			}
			return result, fmt.Errorf("failed to seed employee %s: %w", emp.EmployeeCode, err)
		}
		result.EmployeesCreated++
	}

	for _, h := range GetDefaultHolidays(year) {
		if _, err := holidays.Create(ctx, h); err != nil {
			if errors.Is(err, calendar.ErrHolidayExists) {
				continue
			}
			return result, fmt.Errorf("failed to seed holiday %s: %w", h.Name, err)
		}
		result.HolidaysCreated++
	}

	return result, nil
}
