package payroll

import (
	"context"
	"io"
)

// DeductionService computes unpaid-leave deductions from approved leaves and the ledger.
type DeductionService interface {
	Preview(ctx context.Context, req DeductionRequest) (DeductionResponse, error)

	// WriteStatement renders the deduction as a PDF statement.
	WriteStatement(ctx context.Context, req DeductionRequest, w io.Writer) error
}
