package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/payroll"
	"github.com/spf13/cobra"
)

func newPayrollCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "payroll",
		Short: "Payroll deductions derived from the leave ledger",
	}
	cmd.AddCommand(newPayrollDeductionCommand())
	return cmd
}

func newPayrollDeductionCommand() *cobra.Command {
	var (
		req     payroll.DeductionRequest
		pdfPath string
	)

	cmd := &cobra.Command{
		Use:   "deduction",
		Short: "Compute the unpaid-leave deduction for a pay period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			return withRuntime(cmd, func(ctx context.Context, rt *cmdEnv) error {
				if pdfPath == "" {
					result, err := rt.services.Deduction.Preview(ctx, req)
					if err != nil {
						return err
					}
					return printJSON(rt.out, result)
				}

				f, err := os.Create(pdfPath)
				if err != nil {
					return fmt.Errorf("failed to create %s: %w", pdfPath, err)
				}
				if err := rt.services.Deduction.WriteStatement(ctx, req, f); err != nil {
					f.Close()
					os.Remove(pdfPath)
					return err
				}
				if err := f.Close(); err != nil {
					return err
				}
				fmt.Fprintf(rt.out, "statement written to %s\n", pdfPath)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.EmployeeID, "employee", "", "Employee ID")
	cmd.Flags().StringVar(&req.StartDate, "start", "", "Period start (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.EndDate, "end", "", "Period end (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.BasicSalary, "salary", "", "Basic salary for the period")
	cmd.Flags().StringSliceVar(&req.Allowances, "allowance", nil, "Allowance amount (repeatable)")
	cmd.Flags().StringVar(&pdfPath, "pdf", "", "Write a PDF statement to this file instead of printing JSON")
	for _, name := range []string{"employee", "start", "end", "salary"} {
		_ = cmd.MarkFlagRequired(name)
	}
	return cmd
}
