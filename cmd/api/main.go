package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/hris-timeledger/internal/app"
	"github.com/cmlabs-hris/hris-timeledger/internal/config"
	appHTTP "github.com/cmlabs-hris/hris-timeledger/internal/handler/http"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/cron"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/jwt"
	"github.com/cmlabs-hris/hris-timeledger/internal/pkg/sse"
	notificationService "github.com/cmlabs-hris/hris-timeledger/internal/service/notification"
)

const version = "v1.0.0"

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel()})))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := app.OpenRepositories(ctx, cfg, true)
	if err != nil {
		return err
	}
	defer repos.Close()

	// Notifications: persisted by batch workers, fanned out on the hub, audited in the log.
	hub := sse.NewHub(0)
	notifService := notificationService.NewNotificationService(repos.Notifications, hub, notificationService.Config{})
	defer notifService.Stop()
	go notificationService.RunAuditLog(ctx, hub, slog.Default())

	services := app.NewServices(cfg, repos, notifService)

	var scheduler *cron.Scheduler
	if cfg.Cron.Enabled {
		scheduler = cron.NewScheduler(slog.Default())
		jobs := cron.NewTimeLedgerJobs(services.Ledger, services.Attendance, cfg.Location(), slog.Default())
		if err := jobs.RegisterJobs(scheduler, cfg.Cron.LedgerProvisionInterval, cfg.Cron.StaleSessionInterval); err != nil {
			return fmt.Errorf("failed to register cron jobs: %w", err)
		}
		scheduler.Start()
		defer scheduler.Stop()
	}

	jwtService := jwt.NewJWTService(cfg.JWT.Secret)
	router := appHTTP.NewRouter(jwtService, appHTTP.Handlers{
		Attendance:   appHTTP.NewAttendanceHandler(services.Attendance),
		Leave:        appHTTP.NewLeaveHandler(services.Leave, services.Ledger, cfg.Location()),
		Payroll:      appHTTP.NewPayrollHandler(services.Deduction),
		Notification: appHTTP.NewNotificationHandler(notifService),
		Holiday:      appHTTP.NewHolidayHandler(repos.Holidays, cfg.Location()),
	}, appHTTP.RouterOptions{
		Env:            cfg.App.Env,
		Version:        version,
		AllowedOrigins: cfg.App.CORSAllowedOrigins,
		LogLevel:       cfg.LogLevel(),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "port", cfg.App.Port, "env", cfg.App.Env, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	slog.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
