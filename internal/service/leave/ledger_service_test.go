package leave_test

import (
	"context"
	"testing"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/employee"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/validator"
	"github.com/cmlabs-hris/hris-timeledger/internal/repository/sqlite/sqlitetest"
	leavesvc "github.com/cmlabs-hris/hris-timeledger/internal/service/leave"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var defaults = leavesvc.LedgerDefaults{
	PLQuota: decimal.NewFromInt(12),
	SLQuota: decimal.NewFromInt(4),
}

func assertDecimal(t *testing.T, want string, got decimal.Decimal) {
	t.Helper()
	assert.True(t, decimal.RequireFromString(want).Equal(got), "want %s, got %s", want, got)
}

func TestEnsureLedger(t *testing.T) {
	fx := sqlitetest.New(t)
	svc := leavesvc.NewLedgerService(fx.Tx, fx.Ledgers, fx.Employees, defaults)
	emp := fx.Employee(t, "EMP-001")
	ctx := context.Background()

	first, err := svc.EnsureLedger(ctx, emp.ID, 2024)
	require.NoError(t, err)
	assertDecimal(t, "12", first.PLQuota)
	assertDecimal(t, "4", first.SLQuota)
	assertDecimal(t, "0", first.UsedPL)

	second, err := svc.EnsureLedger(ctx, emp.ID, 2024)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)

	_, err = svc.EnsureLedger(ctx, "missing", 2024)
	assert.ErrorIs(t, err, employee.ErrEmployeeNotFound)
}

func TestProvisionYear(t *testing.T) {
	fx := sqlitetest.New(t)
	svc := leavesvc.NewLedgerService(fx.Tx, fx.Ledgers, fx.Employees, defaults)
	ctx := context.Background()

	a := fx.Employee(t, "EMP-001")
	fx.Employee(t, "EMP-002")
	_, err := fx.Employees.Create(ctx, employee.Employee{
		EmployeeCode:     "EMP-003",
		FullName:         "Former employee",
		EmploymentStatus: employee.EmploymentStatusInactive,
	})
	require.NoError(t, err)
	fx.Ledger(t, a.ID, 2025, 18, 6, 0, 0)

	result, err := svc.ProvisionYear(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, leave.ProvisionResult{Year: 2025, Created: 1, Existing: 1}, result)

	// Existing quotas are left untouched.
	l, err := fx.Ledgers.GetByEmployeeYear(ctx, a.ID, 2025)
	require.NoError(t, err)
	assertDecimal(t, "18", l.PLQuota)

	result, err = svc.ProvisionYear(ctx, 2025)
	require.NoError(t, err)
	assert.Equal(t, leave.ProvisionResult{Year: 2025, Created: 0, Existing: 2}, result)
}

func TestConsume(t *testing.T) {
	fx := sqlitetest.New(t)
	svc := leavesvc.NewLedgerService(fx.Tx, fx.Ledgers, fx.Employees, defaults)
	emp := fx.Employee(t, "EMP-001")
	ctx := context.Background()
	fx.Ledger(t, emp.ID, 2024, 12, 4, 2, 0)

	req := fx.LeaveRequest(t, emp.ID, leave.LeaveTypePrivilege, "2024-03-12", "2024-03-14", leave.LeaveRequestStatusApproved)
	at := sqlitetest.Date(t, "2024-03-11")

	result, err := svc.Consume(ctx, leave.ConsumeRequest{
		EmployeeID:     emp.ID,
		LeaveRequestID: req.ID,
		LeaveType:      leave.LeaveTypePrivilege,
		Count:          decimal.NewFromInt(3),
		At:             at,
	})
	require.NoError(t, err)
	require.True(t, result.Applied)
	assertDecimal(t, "1", result.Consumption.PL)
	assertDecimal(t, "2", result.Consumption.LOP)
	assertDecimal(t, "3", result.Ledger.UsedPL)
	assertDecimal(t, "2", result.Ledger.UsedLOP)

	entries, err := svc.ListEntries(ctx, emp.ID, 2024)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, req.ID, entries[0].LeaveRequestID)
	assertDecimal(t, "3", entries[0].Requested)

	_, err = svc.Consume(ctx, leave.ConsumeRequest{
		EmployeeID:     emp.ID,
		LeaveRequestID: req.ID,
		LeaveType:      leave.LeaveTypePrivilege,
		Count:          decimal.NewFromInt(3),
		At:             at,
	})
	assert.ErrorIs(t, err, leave.ErrLeaveAlreadyConsumed)

	l, err := fx.Ledgers.GetByEmployeeYear(ctx, emp.ID, 2024)
	require.NoError(t, err)
	assertDecimal(t, "3", l.UsedPL)
	assertDecimal(t, "2", l.UsedLOP)
}

func TestConsumeWithoutLedgerIsNoop(t *testing.T) {
	fx := sqlitetest.New(t)
	svc := leavesvc.NewLedgerService(fx.Tx, fx.Ledgers, fx.Employees, defaults)
	emp := fx.Employee(t, "EMP-001")
	req := fx.LeaveRequest(t, emp.ID, leave.LeaveTypeSick, "2024-03-12", "", leave.LeaveRequestStatusApproved)

	result, err := svc.Consume(context.Background(), leave.ConsumeRequest{
		EmployeeID:     emp.ID,
		LeaveRequestID: req.ID,
		LeaveType:      leave.LeaveTypeSick,
		Count:          decimal.NewFromInt(1),
		At:             sqlitetest.Date(t, "2024-03-12"),
	})
	require.NoError(t, err)
	assert.False(t, result.Applied)

	_, err = fx.Ledgers.GetByEmployeeYear(context.Background(), emp.ID, 2024)
	assert.ErrorIs(t, err, leave.ErrLedgerNotFound)
}

func TestGetBalance(t *testing.T) {
	fx := sqlitetest.New(t)
	svc := leavesvc.NewLedgerService(fx.Tx, fx.Ledgers, fx.Employees, defaults)
	emp := fx.Employee(t, "EMP-001")
	ctx := context.Background()
	fx.Ledger(t, emp.ID, 2024, 12, 4, 1, 1)

	balance, err := svc.GetBalance(ctx, emp.ID, 2024, 3)
	require.NoError(t, err)
	assert.Equal(t, "3.0", balance.MonthlyPLCap)
	assert.Equal(t, "2.0", balance.AvailablePL)
	assert.Equal(t, "3.0", balance.AvailableSL)

	_, err = svc.GetBalance(ctx, emp.ID, 2024, 13)
	var verrs validator.ValidationErrors
	assert.ErrorAs(t, err, &verrs)
}

func TestAvailableBalance(t *testing.T) {
	fx := sqlitetest.New(t)
	svc := leavesvc.NewLedgerService(fx.Tx, fx.Ledgers, fx.Employees, defaults)
	emp := fx.Employee(t, "EMP-001")
	ctx := context.Background()

	// No ledger yet: read as a fresh one.
	available, err := svc.AvailableBalance(ctx, emp.ID, 2024, 3)
	require.NoError(t, err)
	assertDecimal(t, "7", available)

	_, err = fx.Ledgers.GetByEmployeeYear(ctx, emp.ID, 2024)
	assert.ErrorIs(t, err, leave.ErrLedgerNotFound)

	fx.Ledger(t, emp.ID, 2024, 12, 4, 3, 4)
	available, err = svc.AvailableBalance(ctx, emp.ID, 2024, 4)
	require.NoError(t, err)
	assertDecimal(t, "1", available)
}
