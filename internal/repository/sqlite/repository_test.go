package sqlite_test

import (
	"context"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/attendance"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/cmlabs-hris/hris-timeledger/internal/repository/sqlite/sqlitetest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendanceDayUniquePerEmployee(t *testing.T) {
	fx := sqlitetest.New(t)
	emp := fx.Employee(t, "EMP-001")
	ctx := context.Background()
	day := sqlitetest.Date(t, "2024-03-04")
	checkIn := time.Date(2024, 3, 4, 2, 0, 0, 0, time.UTC)

	created, err := fx.Attendance.Create(ctx, attendance.AttendanceDay{
		EmployeeID: emp.ID,
		Day:        day,
		CheckIn:    &checkIn,
		WorkHours:  decimal.Zero,
		BreakHours: decimal.Zero,
		Status:     attendance.StatusPending,
	})
	require.NoError(t, err)

	_, err = fx.Attendance.Create(ctx, attendance.AttendanceDay{EmployeeID: emp.ID, Day: day, Status: attendance.StatusPending})
	assert.ErrorIs(t, err, attendance.ErrAttendanceExists)

	inserted, err := fx.Attendance.CreateIfAbsent(ctx, attendance.AttendanceDay{EmployeeID: emp.ID, Day: day, Status: attendance.StatusPaidLeave})
	require.NoError(t, err)
	assert.False(t, inserted)

	got, err := fx.Attendance.GetByEmployeeAndDay(ctx, emp.ID, day)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, attendance.StatusPending, got.Status)
	require.NotNil(t, got.CheckIn)
	assert.True(t, checkIn.Equal(*got.CheckIn))
	assert.Nil(t, got.CheckOut)

	// A soft-deleted day frees the slot.
	require.NoError(t, fx.Attendance.SoftDelete(ctx, created.ID, time.Now()))
	inserted, err = fx.Attendance.CreateIfAbsent(ctx, attendance.AttendanceDay{EmployeeID: emp.ID, Day: day, Status: attendance.StatusPaidLeave})
	require.NoError(t, err)
	assert.True(t, inserted)

	assert.ErrorIs(t, fx.Attendance.SoftDelete(ctx, created.ID, time.Now()), attendance.ErrAttendanceNotFound)
}

func TestAttendanceListAndOpenSessions(t *testing.T) {
	fx := sqlitetest.New(t)
	emp := fx.Employee(t, "EMP-001")
	ctx := context.Background()

	for _, d := range []string{"2024-03-04", "2024-03-05", "2024-03-06"} {
		in := sqlitetest.Date(t, d).Add(9 * time.Hour)
		_, err := fx.Attendance.Create(ctx, attendance.AttendanceDay{
			EmployeeID: emp.ID,
			Day:        sqlitetest.Date(t, d),
			CheckIn:    &in,
			WorkHours:  decimal.Zero,
			BreakHours: decimal.Zero,
			Status:     attendance.StatusPending,
		})
		require.NoError(t, err)
	}

	open, err := fx.Attendance.ListOpenBefore(ctx, sqlitetest.Date(t, "2024-03-06"))
	require.NoError(t, err)
	require.Len(t, open, 2)
	assert.Equal(t, "2024-03-04", utils.FormatDate(open[0].Day))

	start, end := "2024-03-05", "2024-03-06"
	days, err := fx.Attendance.List(ctx, attendance.AttendanceFilter{EmployeeID: emp.ID, StartDate: &start, EndDate: &end})
	require.NoError(t, err)
	require.Len(t, days, 2)
	assert.Equal(t, "2024-03-06", utils.FormatDate(days[0].Day))
}

func TestBreakAtMostOneOpen(t *testing.T) {
	fx := sqlitetest.New(t)
	emp := fx.Employee(t, "EMP-001")
	ctx := context.Background()

	day, err := fx.Attendance.Create(ctx, attendance.AttendanceDay{
		EmployeeID: emp.ID,
		Day:        sqlitetest.Date(t, "2024-03-04"),
		WorkHours:  decimal.Zero,
		BreakHours: decimal.Zero,
		Status:     attendance.StatusPending,
	})
	require.NoError(t, err)

	pause := time.Date(2024, 3, 4, 12, 0, 0, 0, time.UTC)
	first, err := fx.Breaks.Create(ctx, attendance.BreakInterval{AttendanceID: day.ID, PauseTime: pause})
	require.NoError(t, err)

	_, err = fx.Breaks.Create(ctx, attendance.BreakInterval{AttendanceID: day.ID, PauseTime: pause.Add(time.Minute)})
	assert.ErrorIs(t, err, attendance.ErrBreakAlreadyOpen)

	open, err := fx.Breaks.GetOpen(ctx, day.ID)
	require.NoError(t, err)
	require.NotNil(t, open)
	assert.Equal(t, first.ID, open.ID)

	require.NoError(t, fx.Breaks.Close(ctx, first.ID, pause.Add(30*time.Minute)))
	assert.ErrorIs(t, fx.Breaks.Close(ctx, first.ID, pause.Add(time.Hour)), attendance.ErrNoActiveBreak)

	open, err = fx.Breaks.GetOpen(ctx, day.ID)
	require.NoError(t, err)
	assert.Nil(t, open)

	_, err = fx.Breaks.Create(ctx, attendance.BreakInterval{AttendanceID: day.ID, PauseTime: pause.Add(2 * time.Hour)})
	require.NoError(t, err)

	breaks, err := fx.Breaks.ListByAttendance(ctx, day.ID)
	require.NoError(t, err)
	require.Len(t, breaks, 2)
	assert.Equal(t, 30*time.Minute, breaks[0].Duration())
	assert.True(t, breaks[1].IsOpen())
}

func TestLedgerUsageAndEntries(t *testing.T) {
	fx := sqlitetest.New(t)
	emp := fx.Employee(t, "EMP-001")
	ctx := context.Background()

	l := fx.Ledger(t, emp.ID, 2024, 12, 4, 0, 0)
	_, err := fx.Ledgers.Create(ctx, leave.Ledger{
		EmployeeID: emp.ID, Year: 2024,
		PLQuota: decimal.NewFromInt(1), SLQuota: decimal.NewFromInt(1),
		LOPQuota: decimal.Zero, UsedPL: decimal.Zero, UsedSL: decimal.Zero, UsedLOP: decimal.Zero,
	})
	assert.ErrorIs(t, err, leave.ErrLedgerExists)

	require.NoError(t, fx.Ledgers.AddUsage(ctx, l.ID, leave.Consumption{
		PL: decimal.RequireFromString("1.5"), SL: decimal.NewFromInt(1), LOP: decimal.NewFromInt(2),
	}))

	got, err := fx.Ledgers.GetByEmployeeYear(ctx, emp.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, "1.5", got.UsedPL.String())
	assert.Equal(t, "1", got.UsedSL.String())
	assert.Equal(t, "2", got.UsedLOP.String())

	// Usage above the quota is refused by the schema.
	err = fx.Ledgers.AddUsage(ctx, l.ID, leave.Consumption{PL: decimal.Zero, SL: decimal.NewFromInt(10), LOP: decimal.Zero})
	assert.Error(t, err)

	req := fx.LeaveRequest(t, emp.ID, leave.LeaveTypeSick, "2024-03-04", "", leave.LeaveRequestStatusApproved)
	entry := leave.LedgerEntry{
		LedgerID:       l.ID,
		LeaveRequestID: req.ID,
		LeaveType:      leave.LeaveTypeSick,
		Requested:      decimal.NewFromInt(1),
		PL:             decimal.Zero,
		SL:             decimal.NewFromInt(1),
		LOP:            decimal.Zero,
		CreatedAt:      time.Now(),
	}
	require.NoError(t, fx.Ledgers.CreateEntry(ctx, entry))
	assert.ErrorIs(t, fx.Ledgers.CreateEntry(ctx, entry), leave.ErrLeaveAlreadyConsumed)

	entries, err := fx.Ledgers.ListEntries(ctx, l.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, leave.LeaveTypeSick, entries[0].LeaveType)

	_, err = fx.Ledgers.GetByEmployeeYear(ctx, emp.ID, 2025)
	assert.ErrorIs(t, err, leave.ErrLedgerNotFound)
}

func TestLeaveRequestOverlap(t *testing.T) {
	fx := sqlitetest.New(t)
	emp := fx.Employee(t, "EMP-001")
	ctx := context.Background()

	ranged := fx.LeaveRequest(t, emp.ID, leave.LeaveTypePrivilege, "2024-03-28", "2024-04-02", leave.LeaveRequestStatusApproved)
	single := fx.LeaveRequest(t, emp.ID, leave.LeaveTypeSick, "2024-04-10", "", leave.LeaveRequestStatusApproved)
	fx.LeaveRequest(t, emp.ID, leave.LeaveTypePrivilege, "2024-04-15", "2024-04-16", leave.LeaveRequestStatusPending)
	fx.LeaveRequest(t, emp.ID, leave.LeaveTypePrivilege, "2024-05-01", "", leave.LeaveRequestStatusApproved)

	got, err := fx.LeaveRequests.ListApprovedOverlapping(ctx, emp.ID, sqlitetest.Date(t, "2024-04-01"), sqlitetest.Date(t, "2024-04-30"))
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, ranged.ID, got[0].ID)
	assert.Equal(t, single.ID, got[1].ID)
	assert.Nil(t, got[1].ToDate)

	got, err = fx.LeaveRequests.ListApprovedOverlapping(ctx, emp.ID, sqlitetest.Date(t, "2024-04-10"), sqlitetest.Date(t, "2024-04-10"))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, single.ID, got[0].ID)
}

func TestLeaveRequestUpdateRoundTrip(t *testing.T) {
	fx := sqlitetest.New(t)
	emp := fx.Employee(t, "EMP-001")
	ctx := context.Background()

	req := fx.LeaveRequest(t, emp.ID, leave.LeaveTypePrivilege, "2024-03-08", "2024-03-11", leave.LeaveRequestStatusPending)
	decidedAt := time.Date(2024, 3, 4, 10, 0, 0, 0, time.UTC)
	approver := "manager-1"
	req.Status = leave.LeaveRequestStatusApproved
	req.DecidedBy = &approver
	req.DecidedAt = &decidedAt
	req.Sandwich = true
	require.NoError(t, fx.LeaveRequests.Update(ctx, req))

	got, err := fx.LeaveRequests.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, leave.LeaveRequestStatusApproved, got.Status)
	assert.True(t, got.Sandwich)
	assert.Equal(t, "4", got.TotalDays.String())
	require.NotNil(t, got.DecidedAt)
	assert.True(t, decidedAt.Equal(*got.DecidedAt))

	_, err = fx.LeaveRequests.GetByID(ctx, "missing")
	assert.ErrorIs(t, err, leave.ErrLeaveRequestNotFound)
}

func TestHolidaysAndEmployees(t *testing.T) {
	fx := sqlitetest.New(t)
	ctx := context.Background()

	fx.Holiday(t, "2024-03-11", "Nyepi")
	fx.Holiday(t, "2024-04-10", "Idul Fitri")
	_, err := fx.Holidays.Create(ctx, calendar.Holiday{Date: sqlitetest.Date(t, "2024-03-11"), Name: "duplicate"})
	assert.ErrorIs(t, err, calendar.ErrHolidayExists)

	hs, err := fx.Holidays.ListBetween(ctx, sqlitetest.Date(t, "2024-03-01"), sqlitetest.Date(t, "2024-03-31"))
	require.NoError(t, err)
	require.Len(t, hs, 1)
	assert.Equal(t, "Nyepi", hs[0].Name)

	fx.Employee(t, "EMP-001")
	_, err = fx.Employees.Create(ctx, employee.Employee{EmployeeCode: "EMP-001", FullName: "dup"})
	assert.ErrorIs(t, err, employee.ErrEmployeeCodeExists)

	active, err := fx.Employees.ListActive(ctx)
	require.NoError(t, err)
	assert.Len(t, active, 1)
}
