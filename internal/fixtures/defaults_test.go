package fixtures_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/fixtures"
	"github.com/cmlabs-hris/hris-timeledger/internal/repository/sqlite/sqlitetest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeedIsIdempotent(t *testing.T) {
	fx := sqlitetest.New(t)
	ctx := context.Background()

	first, err := fixtures.Seed(ctx, fx.Employees, fx.Holidays, 2024)
	require.NoError(t, err)
	assert.Equal(t, len(fixtures.GetDemoEmployees()), first.EmployeesCreated)
	assert.Equal(t, 5, first.HolidaysCreated)

	second, err := fixtures.Seed(ctx, fx.Employees, fx.Holidays, 2024)
	require.NoError(t, err)
	assert.Zero(t, second.EmployeesCreated)
	assert.Zero(t, second.HolidaysCreated)

	active, err := fx.Employees.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 3)

	holidays, err := fx.Holidays.ListBetween(ctx, time.Date(2024, 8, 1, 0, 0, 0, 0, time.UTC), time.Date(2024, 8, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, holidays, 1)
	assert.Equal(t, "Independence Day", holidays[0].Name)
}
