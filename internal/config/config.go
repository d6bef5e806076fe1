package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	Database   DatabaseConfig
	JWT        JWTConfig
	App        AppConfig
	Leave      LeaveConfig
	Attendance AttendanceConfig
	Cron       CronConfig
}

type DatabaseConfig struct {
	Driver     string
	Host       string
	Port       int
	User       string
	Password   string
	Name       string
	SSLMode    string
	MaxConns   int
	MinConns   int
	SQLitePath string
}

// JWTConfig holds the key used to verify access tokens issued by the identity service.
type JWTConfig struct {
	Secret string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port               int
	Env                string
	LogLevel           string
	Timezone           string
	CORSAllowedOrigins []string
}

// LeaveConfig holds the company-wide defaults used when a ledger is provisioned.
type LeaveConfig struct {
	DefaultPLQuota decimal.Decimal
	DefaultSLQuota decimal.Decimal
	// AutoProvisionLedger creates a missing ledger when a leave is approved.
	AutoProvisionLedger bool
}

type AttendanceConfig struct {
	// WorkHoursPolicy is "legacy" (break subtracted twice) or "single".
	WorkHoursPolicy string
}

type CronConfig struct {
	Enabled                 bool
	LedgerProvisionInterval time.Duration
	StaleSessionInterval    time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	config := &Config{}

	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	config.Database = DatabaseConfig{
		Driver:     strings.ToLower(getEnv("DB_DRIVER", DriverPostgres)),
		Host:       getEnv("DB_HOST", "localhost"),
		Port:       dbPort,
		User:       getEnv("DB_USER", "postgres"),
		Password:   getEnv("DB_PASSWORD", ""),
		Name:       getEnv("DB_NAME", "hris_timeledger"),
		SSLMode:    getEnv("DB_SSL_MODE", "disable"),
		MaxConns:   getEnvInt("DB_MAX_CONNS", 25),
		MinConns:   getEnvInt("DB_MIN_CONNS", 5),
		SQLitePath: getEnv("SQLITE_PATH", "./data/timeledger.db"),
	}

	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:               appPort,
		Env:                getEnv("APP_ENV", "development"),
		LogLevel:           getEnv("LOG_LEVEL", "info"),
		Timezone:           getEnv("APP_TIMEZONE", "Asia/Jakarta"),
		CORSAllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
	}

	config.JWT = JWTConfig{
		Secret: getEnv("JWT_SECRET_KEY", ""),
	}

	plQuota, err := decimal.NewFromString(getEnv("LEAVE_DEFAULT_PL_QUOTA", "12"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_DEFAULT_PL_QUOTA: %w", err)
	}
	slQuota, err := decimal.NewFromString(getEnv("LEAVE_DEFAULT_SL_QUOTA", "4"))
	if err != nil {
		return nil, fmt.Errorf("invalid LEAVE_DEFAULT_SL_QUOTA: %w", err)
	}
	config.Leave = LeaveConfig{
		DefaultPLQuota:      plQuota,
		DefaultSLQuota:      slQuota,
		AutoProvisionLedger: getEnvBool("LEAVE_AUTO_PROVISION_LEDGER", true),
	}

	config.Attendance = AttendanceConfig{
		WorkHoursPolicy: strings.ToLower(getEnv("ATTENDANCE_WORK_HOURS_POLICY", "legacy")),
	}

	config.Cron = CronConfig{
		Enabled:                 getEnvBool("CRON_ENABLED", true),
		LedgerProvisionInterval: getEnvDuration("LEDGER_PROVISION_INTERVAL", 24*time.Hour),
		StaleSessionInterval:    getEnvDuration("STALE_SESSION_INTERVAL", time.Hour),
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case DriverPostgres:
		if c.Database.Password == "" {
			return fmt.Errorf("DB_PASSWORD is required")
		}
	case DriverSQLite:
		if c.Database.SQLitePath == "" {
			return fmt.Errorf("SQLITE_PATH is required")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be %q or %q", DriverPostgres, DriverSQLite)
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.App.Timezone); err != nil {
		return fmt.Errorf("invalid APP_TIMEZONE: %w", err)
	}
	if c.Leave.DefaultPLQuota.IsNegative() || c.Leave.DefaultSLQuota.IsNegative() {
		return fmt.Errorf("leave quotas must not be negative")
	}
	if c.Attendance.WorkHoursPolicy != "legacy" && c.Attendance.WorkHoursPolicy != "single" {
		return fmt.Errorf("ATTENDANCE_WORK_HOURS_POLICY must be legacy or single")
	}
	return nil
}

// Location returns the company timezone used to decide "today".
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.App.Timezone)
	if err != nil {
		slog.Warn("falling back to UTC", "timezone", c.App.Timezone, "error", err)
		return time.UTC
	}
	return loc
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// LogLevel maps LOG_LEVEL onto a slog level.
func (c *Config) LogLevel() slog.Level {
	switch strings.ToLower(c.App.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvSlice(key string, fallback []string) []string {
	value := getEnv(key, "")
	if value == "" {
		return fallback
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
