package cli

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
	"github.com/spf13/cobra"
)

func newLeaveCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "leave",
		Short: "Leave day calculations",
	}
	cmd.AddCommand(newLeaveDaysCommand())
	return cmd
}

func newLeaveDaysCommand() *cobra.Command {
	var (
		from      string
		to        string
		leaveType string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "days",
		Short: "Count chargeable leave days, applying the sandwich rule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *cmdEnv) error {
				req := leave.DayCountRequest{FromDate: from, LeaveType: leaveType}
				if to != "" {
					req.ToDate = &to
				}
				if err := req.Validate(); err != nil {
					return err
				}

				count, err := rt.services.Leave.CountDays(ctx, req)
				if err != nil {
					return err
				}
				if asJSON {
					return printJSON(rt.out, count)
				}

				fmt.Fprintf(rt.out, "%d day(s), %s chargeable, %s to %s", count.Days, count.ChargeableDays, count.ChargeFrom, count.ChargeTo)
				if count.Sandwich {
					fmt.Fprint(rt.out, " (sandwich rule applied)")
				}
				fmt.Fprintln(rt.out)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&from, "from", "", "First leave day (YYYY-MM-DD)")
	cmd.Flags().StringVar(&to, "to", "", "Last leave day (YYYY-MM-DD, default: --from)")
	cmd.Flags().StringVar(&leaveType, "type", "", "Leave type (half_day counts 0.5)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON")
	_ = cmd.MarkFlagRequired("from")
	return cmd
}
