package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/value-staker/internal/api"
	"github.com/yourusername/value-staker/internal/health"
	"github.com/yourusername/value-staker/internal/metrics"
	"github.com/yourusername/value-staker/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API and the plan scheduler",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		appLog.WithFields(logrus.Fields{
			"environment": cfg.App.Environment,
			"feed":        cfg.Feed.Type,
			"version":     Version,
		}).Info("value-staker starting")

		deps, err := setupDependencies(ctx)
		if err != nil {
			return err
		}
		defer deps.Close()

		if cfg.Metrics.Enabled {
			metrics.InitRegistry()
		}

		checkerCfg := health.Config{
			ServiceName: cfg.App.Name,
			Version:     Version,
			Commit:      GitCommit,
			Logger:      appLog,
		}
		if deps.db != nil {
			checkerCfg.DB = deps.db
		}
		checker := health.NewChecker(checkerCfg)

		var sched *scheduler.Scheduler
		if cfg.Scheduler.Enabled {
			if !deps.service.HasRepository() {
				appLog.Warn("Scheduler enabled without a database; plans will not be persisted")
			}
			sched = scheduler.NewScheduler(deps.service, appLog)
			if err := sched.SchedulePlans(cfg.Scheduler.Schedule, cfg.Scheduler.Countries); err != nil {
				return fmt.Errorf("failed to schedule plans: %w", err)
			}
			if err := sched.Start(); err != nil {
				return fmt.Errorf("failed to start scheduler: %w", err)
			}
			appLog.WithField("next_run", sched.NextRun()).Info("Scheduler running")
		}

		server := api.NewServer(api.ServerConfig{
			Port:           cfg.API.Port,
			AllowedOrigins: cfg.API.AllowedOrigins,
			RequestTimeout: cfg.RequestTimeout(),
			MetricsEnabled: cfg.Metrics.Enabled,
			MetricsPath:    cfg.Metrics.Path,
		}, deps.service, checker, appLog)

		if err := server.Start(ctx); err != nil {
			return fmt.Errorf("failed to start server: %w", err)
		}
		checker.SetReady(true)

		<-ctx.Done()
		appLog.Info("Shutdown signal received")
		checker.SetReady(false)

		if sched != nil {
			sched.Stop()
		}
		if err := server.Shutdown(); err != nil {
			appLog.WithError(err).Error("Server shutdown failed")
		}

		appLog.Info("value-staker stopped")
		return nil
	},
}
