package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yourusername/value-staker/internal/database"
	"github.com/yourusername/value-staker/internal/datasource"
	"github.com/yourusername/value-staker/internal/repository"
)

var ingestCountry string

var ingestCmd = &cobra.Command{
	Use:   "ingest",
	Short: "Load prediction and odds files into the database",
	Long: `Reads the prediction and bookmaker odds files of the file feed, merges them and
stores the fixtures in Postgres so the database feed can serve them.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cfg.Database.Enabled {
			return fmt.Errorf("ingest requires database.enabled")
		}
		ctx := cmd.Context()

		db, err := database.Initialize(ctx, cfg, appLog)
		if err != nil {
			return fmt.Errorf("failed to initialize database: %w", err)
		}
		defer db.Close()

		repos, err := repository.NewRepositories(db)
		if err != nil {
			return err
		}

		feed := datasource.NewFileFeed(cfg.Feed.PredictionsDir, cfg.Feed.OddsDir, appLog)
		matches, err := feed.Matches(ctx, ingestCountry)
		if err != nil {
			return fmt.Errorf("failed to read files: %w", err)
		}

		if err := repos.Match.SaveMatches(ctx, matches); err != nil {
			return fmt.Errorf("failed to save matches: %w", err)
		}

		appLog.WithField("matches", len(matches)).Info("Ingestion complete")
		fmt.Fprintf(cmd.OutOrStdout(), "ingested %d matches\n", len(matches))
		return nil
	},
}

func init() {
	ingestCmd.Flags().StringVar(&ingestCountry, "country", "all", "Only ingest fixtures of this country")
}
