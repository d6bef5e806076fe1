package pdf

import (
	"fmt"
	"io"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/payroll"
	"github.com/jung-kurt/gofpdf"
)

const dateLayout = "2006-01-02"

// WriteDeductionStatement renders d as a one-page A4 statement.
func WriteDeductionStatement(w io.Writer, d payroll.Deduction) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("Leave deduction statement", false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Leave Deduction Statement")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", d.EmployeeID))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Period: %s to %s", d.PeriodStart.Format(dateLayout), d.PeriodEnd.Format(dateLayout)))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(60, 7, "Leave", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "From", "1", 0, "L", false, 0, "")
	pdf.CellFormat(40, 7, "To", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 7, "Days", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, l := range d.Leaves {
		pdf.CellFormat(60, 7, l.LeaveRequestID, "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, l.From.Format(dateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(40, 7, l.To.Format(dateLayout), "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 7, l.Days.StringFixed(1), "1", 1, "R", false, 0, "")
	}
	pdf.Ln(6)

	rows := [][2]string{
		{"Basic salary", d.BasicSalary.StringFixed(2)},
		{"Allowances", d.Allowances.StringFixed(2)},
		{"Working days", fmt.Sprintf("%d", d.WorkingDays)},
		{"Per-day salary", d.PerDaySalary.StringFixed(2)},
		{"Total leave days", d.TotalLeaveDays.StringFixed(1)},
		{"Available balance", d.AvailableBalance.StringFixed(1)},
		{"Extra leave days", d.ExtraLeaveDays.StringFixed(1)},
	}
	for _, row := range rows {
		pdf.CellFormat(80, 7, row[0], "", 0, "L", false, 0, "")
		pdf.CellFormat(50, 7, row[1], "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 9, "Deduction", "T", 0, "L", false, 0, "")
	pdf.CellFormat(50, 9, d.Amount.StringFixed(2), "T", 1, "R", false, 0, "")

	return pdf.Output(w)
}
