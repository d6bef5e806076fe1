// Package sqlitetest wires an in-memory database with every repository for
// service and handler tests.
package sqlitetest

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/notification"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/database"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-timeledger/internal/repository/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

type Fixture struct {
	DB            *database.SQLiteDB
	Tx            database.Transactor
	Attendance    attendance.AttendanceRepository
	Breaks        attendance.BreakRepository
	Ledgers       leave.LedgerRepository
	LeaveRequests leave.LeaveRequestRepository
	Holidays      calendar.HolidayRepository
	Employees     employee.EmployeeRepository
	Notifications notification.Repository
}

// New opens a fresh in-memory database that is closed when the test ends.
func New(t testing.TB) *Fixture {
	t.Helper()

	db, err := sqlite.Open(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return &Fixture{
		DB:            db,
		Tx:            sqlite.NewTransactor(db),
		Attendance:    sqlite.NewAttendanceRepository(db),
		Breaks:        sqlite.NewBreakRepository(db),
		Ledgers:       sqlite.NewLedgerRepository(db),
		LeaveRequests: sqlite.NewLeaveRequestRepository(db),
		Holidays:      sqlite.NewHolidayRepository(db),
		Employees:     sqlite.NewEmployeeRepository(db),
		Notifications: sqlite.NewNotificationRepository(db),
	}
}

// Employee creates an active employee with the given code.
func (f *Fixture) Employee(t testing.TB, code string) employee.Employee {
	t.Helper()
	emp, err := f.Employees.Create(context.Background(), employee.Employee{
		EmployeeCode: code,
		FullName:     "Employee " + code,
		HireDate:     time.Date(2020, 1, 6, 0, 0, 0, 0, time.UTC),
	})
	require.NoError(t, err)
	return emp
}

// Holiday adds a holiday on day ("YYYY-MM-DD").
func (f *Fixture) Holiday(t testing.TB, day, name string) calendar.Holiday {
	t.Helper()
	h, err := f.Holidays.Create(context.Background(), calendar.Holiday{Date: Date(t, day), Name: name})
	require.NoError(t, err)
	return h
}

// Ledger creates a ledger with the given quotas and usage.
func (f *Fixture) Ledger(t testing.TB, employeeID string, year int, plQuota, slQuota, usedPL, usedSL int64) leave.Ledger {
	t.Helper()
	l, err := f.Ledgers.Create(context.Background(), leave.Ledger{
		EmployeeID: employeeID,
		Year:       year,
		PLQuota:    decimal.NewFromInt(plQuota),
		SLQuota:    decimal.NewFromInt(slQuota),
		LOPQuota:   decimal.Zero,
		UsedPL:     decimal.NewFromInt(usedPL),
		UsedSL:     decimal.NewFromInt(usedSL),
		UsedLOP:    decimal.Zero,
	})
	require.NoError(t, err)
	return l
}

// LeaveRequest stores a request as-is; day counts are taken from the dates.
func (f *Fixture) LeaveRequest(t testing.TB, employeeID string, leaveType leave.LeaveType, from, to string, status leave.LeaveRequestStatus) leave.LeaveRequest {
	t.Helper()
	fromDate := Date(t, from)
	r := leave.LeaveRequest{
		EmployeeID: employeeID,
		LeaveType:  leaveType,
		FromDate:   fromDate,
		ChargeFrom: fromDate,
		ChargeTo:   fromDate,
		TotalDays:  decimal.NewFromInt(1),
		Status:     status,
	}
	if to != "" {
		toDate := Date(t, to)
		r.ToDate = &toDate
		r.ChargeTo = toDate
		r.TotalDays = decimal.NewFromInt(int64(utils.DaysInclusive(fromDate, toDate)))
	}
	created, err := f.LeaveRequests.Create(context.Background(), r)
	require.NoError(t, err)
	return created
}

// Date parses "YYYY-MM-DD" or fails the test.
func Date(t testing.TB, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

// Clock is a settable time source.
type Clock struct {
	mu  sync.Mutex
	now time.Time
}

func NewClock(now time.Time) *Clock {
	return &Clock{now: now}
}

func (c *Clock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *Clock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func (c *Clock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Publisher records published notifications.
type Publisher struct {
	mu            sync.Mutex
	notifications []notification.Notification
}

func (p *Publisher) Publish(_ context.Context, n notification.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.notifications = append(p.notifications, n)
}

// Types returns the published notification types in order.
func (p *Publisher) Types() []notification.Type {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]notification.Type, len(p.notifications))
	for i, n := range p.notifications {
		types[i] = n.Type
	}
	return types
}

func (p *Publisher) Last() notification.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	if len(p.notifications) == 0 {
		return notification.Notification{}
	}
	return p.notifications[len(p.notifications)-1]
}
