package payroll

import (
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/payroll"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := utils.ParseDate(s)
	require.NoError(t, err)
	return d
}

func april(t *testing.T, basic string, allowances ...string) payroll.Period {
	p := payroll.Period{
		StartDate:   date(t, "2024-04-01"),
		EndDate:     date(t, "2024-04-30"),
		BasicSalary: decimal.RequireFromString(basic),
	}
	for _, a := range allowances {
		p.Allowances = append(p.Allowances, decimal.RequireFromString(a))
	}
	return p
}

func approved(t *testing.T, id, from, to string) leave.LeaveRequest {
	r := leave.LeaveRequest{ID: id, FromDate: date(t, from), Status: leave.LeaveRequestStatusApproved}
	if to != "" {
		d := date(t, to)
		r.ToDate = &d
	}
	return r
}

func TestComputeDeduction(t *testing.T) {
	d := ComputeDeduction(payroll.DeductionInput{
		EmployeeID: "emp-1",
		Period:     april(t, "30000"),
		Leaves: []payroll.LeaveDays{
			{LeaveRequestID: "a", Days: decimal.NewFromInt(3)},
			{LeaveRequestID: "b", Days: decimal.NewFromInt(2)},
		},
		AvailableBalance: decimal.NewFromInt(3),
	})

	assert.Equal(t, 22, d.WorkingDays)
	assert.Equal(t, "5", d.TotalLeaveDays.String())
	assert.Equal(t, "2", d.ExtraLeaveDays.String())
	assert.Equal(t, "2727.27", d.Amount.StringFixed(2))
}

func TestComputeDeductionIncludesAllowances(t *testing.T) {
	d := ComputeDeduction(payroll.DeductionInput{
		Period:           april(t, "20000", "1500", "500"),
		Leaves:           []payroll.LeaveDays{{Days: decimal.NewFromInt(1)}},
		AvailableBalance: decimal.Zero,
	})

	assert.Equal(t, "2000", d.Allowances.String())
	assert.Equal(t, "1000.00", d.Amount.StringFixed(2))
}

func TestComputeDeductionCoveredByBalance(t *testing.T) {
	d := ComputeDeduction(payroll.DeductionInput{
		Period:           april(t, "30000"),
		Leaves:           []payroll.LeaveDays{{Days: decimal.NewFromInt(2)}},
		AvailableBalance: decimal.NewFromInt(5),
	})

	assert.True(t, d.ExtraLeaveDays.IsZero())
	assert.True(t, d.Amount.IsZero())
}

func TestComputeDeductionWithoutWorkingDays(t *testing.T) {
	d := ComputeDeduction(payroll.DeductionInput{
		Period: payroll.Period{
			StartDate:   date(t, "2024-04-06"),
			EndDate:     date(t, "2024-04-07"),
			BasicSalary: decimal.NewFromInt(30000),
		},
		Leaves:           []payroll.LeaveDays{{Days: decimal.NewFromInt(1)}},
		AvailableBalance: decimal.Zero,
	})

	assert.Zero(t, d.WorkingDays)
	assert.Equal(t, "1", d.ExtraLeaveDays.String())
	assert.True(t, d.Amount.IsZero())
}

func TestCollectLeaveDays(t *testing.T) {
	requests := []leave.LeaveRequest{
		approved(t, "spans-start", "2024-03-28", "2024-04-02"),
		approved(t, "inside", "2024-04-12", "2024-04-15"),
		approved(t, "single", "2024-04-20", ""),
		approved(t, "single-outside", "2024-05-01", ""),
		approved(t, "outside", "2024-05-02", "2024-05-03"),
		{ID: "pending", FromDate: date(t, "2024-04-10"), Status: leave.LeaveRequestStatusPending},
	}

	got := CollectLeaveDays(requests, april(t, "0"))
	require.Len(t, got, 3)

	assert.Equal(t, "spans-start", got[0].LeaveRequestID)
	assert.Equal(t, "2024-04-01", utils.FormatDate(got[0].From))
	assert.Equal(t, "2024-04-02", utils.FormatDate(got[0].To))
	assert.Equal(t, "2", got[0].Days.String())

	// Fri-Mon: the weekend in between is not counted.
	assert.Equal(t, "inside", got[1].LeaveRequestID)
	assert.Equal(t, "2", got[1].Days.String())

	// A single-day leave counts even on a Saturday.
	assert.Equal(t, "single", got[2].LeaveRequestID)
	assert.Equal(t, "1", got[2].Days.String())
}
