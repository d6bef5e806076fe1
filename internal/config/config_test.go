package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSQLiteDefaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", ":memory:")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_TIMEZONE", "UTC")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, "12", cfg.Leave.DefaultPLQuota.String())
	assert.Equal(t, "4", cfg.Leave.DefaultSLQuota.String())
	assert.True(t, cfg.Leave.AutoProvisionLedger)
	assert.Equal(t, "legacy", cfg.Attendance.WorkHoursPolicy)
	assert.Equal(t, 24*time.Hour, cfg.Cron.LedgerProvisionInterval)
	assert.Equal(t, time.UTC.String(), cfg.Location().String())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "sqlite")
	t.Setenv("JWT_SECRET_KEY", "secret")
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("LEAVE_DEFAULT_PL_QUOTA", "18")
	t.Setenv("ATTENDANCE_WORK_HOURS_POLICY", "single")
	t.Setenv("LEDGER_PROVISION_INTERVAL", "6h")
	t.Setenv("LEAVE_AUTO_PROVISION_LEDGER", "false")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "18", cfg.Leave.DefaultPLQuota.String())
	assert.Equal(t, "single", cfg.Attendance.WorkHoursPolicy)
	assert.False(t, cfg.Leave.AutoProvisionLedger)
	assert.Equal(t, 6*time.Hour, cfg.Cron.LedgerProvisionInterval)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.App.CORSAllowedOrigins)
}

func TestValidate(t *testing.T) {
	t.Setenv("APP_TIMEZONE", "UTC")
	t.Setenv("JWT_SECRET_KEY", "secret")

	t.Run("postgres requires password", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		t.Setenv("DB_PASSWORD", "")
		_, err := Load()
		assert.ErrorContains(t, err, "DB_PASSWORD")
	})

	t.Run("unknown driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "mysql")
		_, err := Load()
		assert.ErrorContains(t, err, "DB_DRIVER")
	})

	t.Run("unknown work hours policy", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("ATTENDANCE_WORK_HOURS_POLICY", "triple")
		_, err := Load()
		assert.ErrorContains(t, err, "ATTENDANCE_WORK_HOURS_POLICY")
	})

	t.Run("secret required", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "sqlite")
		t.Setenv("JWT_SECRET_KEY", "")
		_, err := Load()
		assert.ErrorContains(t, err, "JWT_SECRET_KEY")
	})
}
