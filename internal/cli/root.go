// Package cli implements hrctl, the operations command line for the time ledger.
package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/cmlabs-hris/hris-timeledger/internal/app"
	"github.com/cmlabs-hris/hris-timeledger/internal/config"
	"github.com/cmlabs-hris/hris-timeledger/internal/domain/notification"
	"github.com/spf13/cobra"
)

// cmdEnv is what a command needs once the database is open.
type cmdEnv struct {
	cfg      *config.Config
	repos    *app.Repositories
	services *app.Services
	out      io.Writer
}

// logPublisher stands in for the notification pipeline: the CLI has no
// subscribers, so events are only logged.
type logPublisher struct {
	logger *slog.Logger
}

func (p logPublisher) Publish(_ context.Context, n notification.Notification) {
	p.logger.Debug("notification", "type", n.Type, "recipient_id", n.RecipientID, "title", n.Title)
}

// NewRootCommand builds the hrctl command tree.
func NewRootCommand() *cobra.Command {
	var verbose bool

	root := &cobra.Command{
		Use:   "hrctl",
		Short: "Operate the HRIS time ledger",
		Long: `hrctl runs maintenance tasks against the time ledger database:
schema migration, leave ledger provisioning, day counting, payroll
deductions and the holiday calendar. Configuration is read from the
environment (and .env) exactly like the API server.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := slog.LevelWarn
			if verbose {
				level = slog.LevelDebug
			}
			slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level})))
		},
	}
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug output to stderr")

	root.AddCommand(
		newMigrateCommand(),
		newSeedCommand(),
		newLedgerCommand(),
		newLeaveCommand(),
		newPayrollCommand(),
		newHolidayCommand(),
		newTokenCommand(),
		newJobsCommand(),
	)
	return root
}

// Execute is the entry point called from main.
func Execute() {
	if err := NewRootCommand().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// withRuntime loads config, opens the database (applying the schema) and
// runs fn. The database is closed afterwards.
func withRuntime(cmd *cobra.Command, fn func(ctx context.Context, rt *cmdEnv) error) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	repos, err := app.OpenRepositories(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer repos.Close()

	return fn(ctx, &cmdEnv{
		cfg:      cfg,
		repos:    repos,
		services: app.NewServices(cfg, repos, logPublisher{logger: slog.Default()}),
		out:      cmd.OutOrStdout(),
	})
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
