package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/domain/leave"
)

// LedgerProvisioner creates the yearly leave ledgers.
type LedgerProvisioner interface {
	ProvisionYear(ctx context.Context, year int) (leave.ProvisionResult, error)
}

// SessionCloser checks out attendance sessions left open on earlier days.
type SessionCloser interface {
	CloseStaleSessions(ctx context.Context) (int, error)
}

// TimeLedgerJobs are the maintenance jobs of the time ledger.
type TimeLedgerJobs struct {
	ledgers  LedgerProvisioner
	sessions SessionCloser
	loc      *time.Location
	now      func() time.Time
	logger   *slog.Logger
}

func NewTimeLedgerJobs(ledgers LedgerProvisioner, sessions SessionCloser, loc *time.Location, logger *slog.Logger) *TimeLedgerJobs {
	if loc == nil {
		loc = time.UTC
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TimeLedgerJobs{
		ledgers:  ledgers,
		sessions: sessions,
		loc:      loc,
		now:      time.Now,
		logger:   logger,
	}
}

// RegisterJobs adds the ledger provisioning and stale session jobs.
func (j *TimeLedgerJobs) RegisterJobs(s *Scheduler, provisionEvery, staleEvery time.Duration) error {
	if err := s.AddJob("provision_leave_ledgers", provisionEvery, j.ProvisionLedgers); err != nil {
		return err
	}
	return s.AddJob("close_stale_sessions", staleEvery, j.CloseStaleSessions)
}

// ProvisionLedgers makes sure every active employee has a ledger for the
// current year. During December next year's ledgers are created as well.
func (j *TimeLedgerJobs) ProvisionLedgers(ctx context.Context) error {
	now := j.now().In(j.loc)
	years := []int{now.Year()}
	if now.Month() == time.December {
		years = append(years, now.Year()+1)
	}

	for _, year := range years {
		result, err := j.ledgers.ProvisionYear(ctx, year)
		if err != nil {
			return fmt.Errorf("failed to provision %d ledgers: %w", year, err)
		}
		if result.Created > 0 {
			j.logger.Info("leave ledgers provisioned", "year", year, "created", result.Created, "existing", result.Existing)
		}
	}
	return nil
}

// CloseStaleSessions checks out forgotten sessions.
func (j *TimeLedgerJobs) CloseStaleSessions(ctx context.Context) error {
	closed, err := j.sessions.CloseStaleSessions(ctx)
	if err != nil {
		return err
	}
	if closed > 0 {
		j.logger.Info("stale attendance sessions closed", "count", closed)
	}
	return nil
}
