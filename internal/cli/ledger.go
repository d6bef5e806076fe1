package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newLedgerCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Manage yearly leave balance ledgers",
	}
	cmd.AddCommand(newLedgerProvisionCommand(), newLedgerBalanceCommand())
	return cmd
}

func newLedgerProvisionCommand() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "provision",
		Short: "Create missing ledgers for every active employee",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *cmdEnv) error {
				if year == 0 {
					year = time.Now().In(rt.cfg.Location()).Year()
				}
				result, err := rt.services.Ledger.ProvisionYear(ctx, year)
				if err != nil {
					return err
				}
				fmt.Fprintf(rt.out, "year %d: %d created, %d already present\n", result.Year, result.Created, result.Existing)
				return nil
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Ledger year (default: current year)")
	return cmd
}

func newLedgerBalanceCommand() *cobra.Command {
	var (
		employeeID string
		year       int
		month      int
	)

	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Show an employee's leave balance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *cmdEnv) error {
				now := time.Now().In(rt.cfg.Location())
				if year == 0 {
					year = now.Year()
				}
				if month == 0 {
					month = int(now.Month())
				}
				balance, err := rt.services.Ledger.GetBalance(ctx, employeeID, year, month)
				if err != nil {
					return err
				}
				return printJSON(rt.out, balance)
			})
		},
	}
	cmd.Flags().StringVar(&employeeID, "employee", "", "Employee ID")
	cmd.Flags().IntVar(&year, "year", 0, "Ledger year (default: current year)")
	cmd.Flags().IntVar(&month, "month", 0, "Month for the prorated PL allowance (default: current month)")
	_ = cmd.MarkFlagRequired("employee")
	return cmd
}
