package cli

import (
	"context"
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/calendar"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/utils"
	"github.com/spf13/cobra"
)

func newHolidayCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holiday",
		Short: "Maintain the holiday calendar",
	}
	cmd.AddCommand(newHolidayAddCommand(), newHolidayListCommand())
	return cmd
}

func newHolidayAddCommand() *cobra.Command {
	var req calendar.CreateHolidayRequest

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Register a holiday",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := req.Validate(); err != nil {
				return err
			}
			date, err := utils.ParseDate(req.Date)
			if err != nil {
				return err
			}
			return withRuntime(cmd, func(ctx context.Context, rt *cmdEnv) error {
				h, err := rt.repos.Holidays.Create(ctx, calendar.Holiday{Date: date, Name: req.Name})
				if err != nil {
					return err
				}
				fmt.Fprintf(rt.out, "%s %s (%s)\n", utils.FormatDate(h.Date), h.Name, h.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&req.Date, "date", "", "Holiday date (YYYY-MM-DD)")
	cmd.Flags().StringVar(&req.Name, "name", "", "Holiday name")
	_ = cmd.MarkFlagRequired("date")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func newHolidayListCommand() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the holidays of a year",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *cmdEnv) error {
				if year == 0 {
					year = time.Now().In(rt.cfg.Location()).Year()
				}
				from := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
				holidays, err := rt.repos.Holidays.ListBetween(ctx, from, from.AddDate(1, 0, -1))
				if err != nil {
					return err
				}

				tw := tabwriter.NewWriter(rt.out, 0, 4, 2, ' ', 0)
				for _, h := range holidays {
					fmt.Fprintf(tw, "%s\t%s\t%s\n", utils.FormatDate(h.Date), h.Date.Weekday(), h.Name)
				}
				return tw.Flush()
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Year (default: current year)")
	return cmd
}
