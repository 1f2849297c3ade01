package datasource

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-staker/internal/metrics"
	"github.com/yourusername/value-staker/internal/models"
)

// instrumentedFeed records metrics and logs around every load
type instrumentedFeed struct {
	Feed
	logger *logrus.Logger
}

// Instrument wraps a feed with request metrics and logging
func Instrument(feed Feed, logger *logrus.Logger) Feed {
	if logger == nil {
		logger = logrus.New()
	}
	return &instrumentedFeed{Feed: feed, logger: logger}
}

func (f *instrumentedFeed) Matches(ctx context.Context, country string) ([]models.MatchOdds, error) {
	start := time.Now()
	matches, err := f.Feed.Matches(ctx, country)
	elapsed := time.Since(start)

	status := metrics.FeedStatusSuccess
	if err != nil {
		status = metrics.FeedStatusError
	}
	metrics.RecordFeedRequest(f.Name(), status, elapsed.Seconds(), len(matches))

	entry := f.logger.WithFields(logrus.Fields{
		"feed":        f.Name(),
		"country":     country,
		"matches":     len(matches),
		"duration_ms": elapsed.Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("Feed load failed")
		return nil, err
	}
	entry.Debug("Feed loaded")
	return matches, nil
}
