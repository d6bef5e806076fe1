package pdf

import (
	"bytes"
	"testing"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/payroll"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteDeductionStatement(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	d := payroll.Deduction{
		EmployeeID:  "emp-1",
		PeriodStart: start,
		PeriodEnd:   start.AddDate(0, 1, -1),
		BasicSalary: decimal.NewFromInt(30000),
		Leaves: []payroll.LeaveDays{
			{LeaveRequestID: "lr-1", From: start, To: start.AddDate(0, 0, 4), Days: decimal.NewFromInt(5)},
		},
		WorkingDays: 21,
		Amount:      decimal.RequireFromString("2727.27"),
	}

	var buf bytes.Buffer
	require.NoError(t, WriteDeductionStatement(&buf, d))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}
