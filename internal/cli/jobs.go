package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/cron"
	"github.com/spf13/cobra"
)

func newJobsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jobs",
		Short: "Run the scheduled maintenance jobs once",
		Long:  "Runs ledger provisioning and stale session closing once, for use from an external scheduler.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *cmdEnv) error {
				scheduler := cron.NewScheduler(slog.Default())
				jobs := cron.NewTimeLedgerJobs(rt.services.Ledger, rt.services.Attendance, rt.cfg.Location(), slog.Default())
				if err := jobs.RegisterJobs(scheduler, rt.cfg.Cron.LedgerProvisionInterval, rt.cfg.Cron.StaleSessionInterval); err != nil {
					return err
				}
				if err := scheduler.RunOnce(ctx); err != nil {
					return err
				}
				fmt.Fprintf(rt.out, "%d job(s) completed\n", len(scheduler.Jobs()))
				return nil
			})
		},
	}
	return cmd
}
