package leave

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func assertConsumption(t *testing.T, pl, sl, lop string, got Consumption) {
	t.Helper()
	assert.True(t, dec(pl).Equal(got.PL), "pl: want %s, got %s", pl, got.PL)
	assert.True(t, dec(sl).Equal(got.SL), "sl: want %s, got %s", sl, got.SL)
	assert.True(t, dec(lop).Equal(got.LOP), "lop: want %s, got %s", lop, got.LOP)
}

func ledger(plQuota, slQuota, usedPL, usedSL string) Ledger {
	return Ledger{
		PLQuota: dec(plQuota),
		SLQuota: dec(slQuota),
		UsedPL:  dec(usedPL),
		UsedSL:  dec(usedSL),
		UsedLOP: decimal.Zero,
	}
}

func TestSplit(t *testing.T) {
	tests := []struct {
		name        string
		leaveType   LeaveType
		count       string
		ledger      Ledger
		month       int
		pl, sl, lop string
	}{
		{"privilege within allowance", LeaveTypePrivilege, "2", ledger("12", "4", "0", "0"), 3, "2", "0", "0"},
		{"privilege overflows to lop", LeaveTypePrivilege, "3", ledger("12", "4", "2", "0"), 3, "1", "0", "2"},
		{"privilege allowance capped by quota", LeaveTypePrivilege, "3", ledger("10", "4", "9", "0"), 12, "1", "0", "2"},
		{"privilege with nothing accrued", LeaveTypePrivilege, "2", ledger("12", "4", "3", "0"), 2, "0", "0", "2"},
		{"sick draws annual quota", LeaveTypeSick, "2", ledger("12", "4", "0", "3"), 1, "0", "1", "1"},
		{"sick ignores pl", LeaveTypeSick, "1", ledger("12", "4", "0", "0"), 1, "0", "1", "0"},
		{"half day from pl", LeaveTypeHalfDay, "0.5", ledger("12", "4", "0", "0"), 1, "0.5", "0", "0"},
		{"half day charged half even with larger count", LeaveTypeHalfDay, "3", ledger("12", "4", "0", "0"), 1, "0.5", "0", "0"},
		{"half day without pl", LeaveTypeHalfDay, "0.5", ledger("12", "4", "1", "0"), 1, "0", "0", "0.5"},
		{"half day partially covered", LeaveTypeHalfDay, "0.5", ledger("12", "4", "0.75", "0"), 1, "0.25", "0", "0.25"},
		{"other is all lop", LeaveTypeOther, "2", ledger("12", "4", "0", "0"), 6, "0", "0", "2"},
		{"negative count is zero", LeaveTypePrivilege, "-1", ledger("12", "4", "0", "0"), 6, "0", "0", "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.leaveType.Split(dec(tt.count), tt.ledger, tt.month)
			assertConsumption(t, tt.pl, tt.sl, tt.lop, got)
		})
	}
}

func TestSplitConservesCount(t *testing.T) {
	l := ledger("12", "4", "1", "2")
	for _, lt := range []LeaveType{LeaveTypePrivilege, LeaveTypeSick, LeaveTypeOther} {
		c := lt.Split(dec("5"), l, 4)
		assert.True(t, dec("5").Equal(c.Total()), "%s total %s", lt, c.Total())
	}
}

func TestLedgerAvailability(t *testing.T) {
	l := ledger("12", "4", "5", "6")

	assert.True(t, dec("3").Equal(l.MonthlyPLAllowance(3)))
	assert.True(t, dec("12").Equal(l.MonthlyPLAllowance(12)))
	assert.True(t, decimal.Zero.Equal(l.AvailablePL(3)), "used above the monthly allowance floors at zero")
	assert.True(t, dec("2").Equal(l.AvailablePL(7)))
	assert.True(t, decimal.Zero.Equal(l.AvailableSL()))
}

func TestApply(t *testing.T) {
	l := ledger("12", "4", "1", "0")
	l.Apply(Consumption{PL: dec("1"), SL: dec("0.5"), LOP: dec("2")})

	assert.True(t, dec("2").Equal(l.UsedPL))
	assert.True(t, dec("0.5").Equal(l.UsedSL))
	assert.True(t, dec("2").Equal(l.UsedLOP))
}

func TestParseLeaveType(t *testing.T) {
	lt, err := ParseLeaveType("sick")
	assert.NoError(t, err)
	assert.Equal(t, LeaveTypeSick, lt)

	_, err = ParseLeaveType("sabbatical")
	assert.ErrorIs(t, err, ErrInvalidLeaveType)
}

func TestChargeableCount(t *testing.T) {
	assert.True(t, dec("4").Equal(LeaveTypePrivilege.ChargeableCount(4)))
	assert.True(t, dec("0.5").Equal(LeaveTypeHalfDay.ChargeableCount(1)))
}
