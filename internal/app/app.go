// Package app opens the configured database and wires repositories and
// services for the API server and the ops CLI.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/cmlabs-hris/hris-timeledger/internal/config"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/repository/postgresql"
	"github.com/cmlabs-hris/hris-timeledger/internal/repository/sqlite"
	attendanceService "github.com/cmlabs-hris/hris-timeledger/internal/service/attendance"
	leaveService "github.com/cmlabs-hris/hris-timeledger/internal/service/leave"
	payrollService "github.com/cmlabs-hris/hris-timeledger/internal/service/payroll"
)

type Repositories struct {
	Tx            database.Transactor
	Attendance    attendance.AttendanceRepository
	Breaks        attendance.BreakRepository
	Ledgers       leave.LedgerRepository
	LeaveRequests leave.LeaveRequestRepository
	Holidays      calendar.HolidayRepository
	Employees     employee.EmployeeRepository
	Notifications notification.Repository

	close func()
}

// Close releases the database handle.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// OpenRepositories connects to the configured driver. With migrate set the
// schema is applied first.
func OpenRepositories(ctx context.Context, cfg *config.Config, migrate bool) (*Repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL(), database.PoolOptions{
			MaxConns: int32(cfg.Database.MaxConns),
			MinConns: int32(cfg.Database.MinConns),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to postgres: %w", err)
		}
		if migrate {
			if err := postgresql.Migrate(ctx, db); err != nil {
				db.Close()
				return nil, err
			}
		}
		slog.Info("database connected", "driver", config.DriverPostgres, "host", cfg.Database.Host, "name", cfg.Database.Name)
		return &Repositories{
			Tx:            postgresql.NewTransactor(db),
			Attendance:    postgresql.NewAttendanceRepository(db),
			Breaks:        postgresql.NewBreakRepository(db),
			Ledgers:       postgresql.NewLedgerRepository(db),
			LeaveRequests: postgresql.NewLeaveRequestRepository(db),
			Holidays:      postgresql.NewHolidayRepository(db),
			Employees:     postgresql.NewEmployeeRepository(db),
			Notifications: postgresql.NewNotificationRepository(db),
			close:         db.Close,
		}, nil

	case config.DriverSQLite:
		if err := ensureDir(cfg.Database.SQLitePath); err != nil {
			return nil, err
		}
		var (
			db  *database.SQLiteDB
			err error
		)
		if migrate {
			db, err = sqlite.Open(ctx, cfg.Database.SQLitePath)
		} else {
			db, err = database.NewSQLiteDB(cfg.Database.SQLitePath)
		}
		if err != nil {
			return nil, fmt.Errorf("failed to open sqlite: %w", err)
		}
		slog.Info("database connected", "driver", config.DriverSQLite, "path", cfg.Database.SQLitePath)
		return &Repositories{
			Tx:            sqlite.NewTransactor(db),
			Attendance:    sqlite.NewAttendanceRepository(db),
			Breaks:        sqlite.NewBreakRepository(db),
			Ledgers:       sqlite.NewLedgerRepository(db),
			LeaveRequests: sqlite.NewLeaveRequestRepository(db),
			Holidays:      sqlite.NewHolidayRepository(db),
			Employees:     sqlite.NewEmployeeRepository(db),
			Notifications: sqlite.NewNotificationRepository(db),
			close:         func() { db.Close() },
		}, nil

	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}
}

// ensureDir creates the parent directory of a file-backed sqlite database.
func ensureDir(path string) error {
	if path == ":memory:" || strings.HasPrefix(path, "file:") {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create sqlite directory: %w", err)
	}
	return nil
}

type Services struct {
	Attendance attendance.AttendanceService
	Ledger     *leaveService.LedgerServiceImpl
	Leave      leave.LeaveService
	Deduction  payroll.DeductionService
}

// NewServices builds the domain services. publisher receives every event the
// core emits.
func NewServices(cfg *config.Config, repos *Repositories, publisher notification.Publisher) *Services {
	loc := cfg.Location()

	ledger := leaveService.NewLedgerService(repos.Tx, repos.Ledgers, repos.Employees, leaveService.LedgerDefaults{
		PLQuota: cfg.Leave.DefaultPLQuota,
		SLQuota: cfg.Leave.DefaultSLQuota,
	})

	return &Services{
		Attendance: attendanceService.NewAttendanceService(repos.Tx, repos.Attendance, repos.Breaks, repos.Employees, publisher, attendanceService.Options{
			Location: loc,
			Policy:   attendance.WorkHoursPolicy(cfg.Attendance.WorkHoursPolicy),
		}),
		Ledger: ledger,
		Leave: leaveService.NewLeaveService(repos.Tx, repos.LeaveRequests, repos.Attendance, repos.Holidays, repos.Employees, ledger, publisher, leaveService.Options{
			Location:            loc,
			AutoProvisionLedger: cfg.Leave.AutoProvisionLedger,
		}),
		Deduction: payrollService.NewDeductionService(repos.LeaveRequests, repos.Employees, ledger),
	}
}
