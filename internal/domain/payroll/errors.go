package payroll

import "errors"

var (
	ErrInvalidPeriod   = errors.New("invalid payroll period")
	ErrNegativeSalary  = errors.New("salary components must not be negative")
	ErrStatementRender = errors.New("failed to render deduction statement")
)
