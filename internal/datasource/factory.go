package datasource

import (
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-staker/internal/config"
	"github.com/yourusername/value-staker/internal/models"
	"github.com/yourusername/value-staker/internal/repository"
)

// NewFeed creates the configured feed, instrumented with metrics.
// matchRepo is only needed for the database feed.
func NewFeed(cfg *config.Config, matchRepo repository.MatchRepository, logger *logrus.Logger) (Feed, error) {
	var feed Feed

	switch cfg.Feed.Type {
	case FileFeedType, "":
		feed = NewFileFeed(cfg.Feed.PredictionsDir, cfg.Feed.OddsDir, logger)

	case HTTPFeedType:
		if len(cfg.Feed.PredictionsURLs) == 0 {
			return nil, fmt.Errorf("http feed requires at least one predictions url")
		}
		clientCfg := DefaultHTTPClientConfig()
		clientCfg.Timeout = cfg.FeedTimeout()
		clientCfg.MaxRetries = cfg.Feed.MaxRetries
		clientCfg.RateLimit = cfg.Feed.RateLimit
		client := NewRateLimitedHTTPClient(HTTPFeedType, clientCfg, logger)
		feed = NewHTTPFeed(client, cfg.Feed.PredictionsURLs, cfg.Feed.OddsURLs, cfg.Feed.APIKey, logger)

	case DBFeedType:
		if matchRepo == nil {
			return nil, fmt.Errorf("database feed requires a match repository: %w", models.ErrNoFeed)
		}
		feed = NewDBFeed(matchRepo, cfg.Feed.Limit)

	default:
		return nil, fmt.Errorf("unknown feed type: %s", cfg.Feed.Type)
	}

	if logger != nil {
		logger.WithField("feed", feed.Name()).Info("Created match feed")
	}
	return Instrument(feed, logger), nil
}
