package cli

import (
	"context"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/fixtures"
	"github.com/spf13/cobra"
)

func newSeedCommand() *cobra.Command {
	var year int

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Insert demo employees and the fixed national holidays",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withRuntime(cmd, func(ctx context.Context, rt *cmdEnv) error {
				if year == 0 {
					year = time.Now().In(rt.cfg.Location()).Year()
				}
				result, err := fixtures.Seed(ctx, rt.repos.Employees, rt.repos.Holidays, year)
				if err != nil {
					return err
				}
				return printJSON(rt.out, result)
			})
		},
	}
	cmd.Flags().IntVar(&year, "year", 0, "Holiday year (default: current year)")
	return cmd
}
