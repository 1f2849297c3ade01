// Package main provides the value-staker command line tool.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/value-staker/internal/config"
	"github.com/yourusername/value-staker/internal/database"
	"github.com/yourusername/value-staker/internal/datasource"
	"github.com/yourusername/value-staker/internal/logger"
	"github.com/yourusername/value-staker/internal/repository"
	"github.com/yourusername/value-staker/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	cfg        *config.Config
	appLog     *logrus.Logger
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")

	rootCmd.AddCommand(allocateCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(ingestCmd)
	rootCmd.AddCommand(versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "value-staker",
	Short: "Size value bets with fractional Kelly staking",
	Long: `Finds value bets in football fixtures (bookmaker odds times predicted
probability above one), ranks them and sizes stakes sequentially with a
fractional Kelly criterion against a running bankroll.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd.Name() == versionCmd.Name() {
			return nil
		}
		return loadConfig(cmd.Context(), cmd.ErrOrStderr())
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "value-staker %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

// loadConfig reads and validates the configuration and sets up logging.
// Logs go to logOut so command output on stdout stays clean.
func loadConfig(ctx context.Context, logOut io.Writer) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if err := config.Validate(cfg); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	appLog = logger.NewLogger(cfg.App.LogLevel, logger.FormatFor(cfg.App.Environment))
	appLog.SetOutput(logOut)
	return nil
}

// dependencies are the pieces shared by allocate and serve
type dependencies struct {
	db      *database.DB
	repos   *repository.Repositories
	service *service.PlanService
}

func (d *dependencies) Close() {
	if d.db != nil {
		d.db.Close()
	}
}

// setupDependencies connects the database when enabled, builds the feed and the plan service
func setupDependencies(ctx context.Context) (*dependencies, error) {
	deps := &dependencies{}

	var (
		matchRepo repository.MatchRepository
		planRepo  repository.AllocationRepository
	)

	if cfg.Database.Enabled {
		db, err := database.Initialize(ctx, cfg, appLog)
		if err != nil {
			return nil, fmt.Errorf("failed to initialize database: %w", err)
		}
		deps.db = db

		repos, err := repository.NewRepositories(db)
		if err != nil {
			deps.Close()
			return nil, fmt.Errorf("failed to initialize repositories: %w", err)
		}
		deps.repos = repos
		matchRepo = repos.Match
		planRepo = repos.Allocation
	}

	feed, err := datasource.NewFeed(cfg, matchRepo, appLog)
	if err != nil {
		deps.Close()
		return nil, fmt.Errorf("failed to create feed: %w", err)
	}

	var cache *service.PlanCache
	if cfg.Cache.Enabled {
		cache = service.NewPlanCache(cfg.CacheTTL())
	}

	deps.service = service.NewPlanService(feed, planRepo, cache, service.ParamsFromConfig(cfg.Staking), appLog)
	return deps, nil
}
