package datasource

import (
	"context"

	"github.com/yourusername/value-staker/internal/models"
	"github.com/yourusername/value-staker/internal/repository"
)

// DBFeedType is the name of the database-backed feed
const DBFeedType = "database"

// DBFeed serves upcoming fixtures stored in PostgreSQL
type DBFeed struct {
	repo  repository.MatchRepository
	limit int
}

// NewDBFeed creates a feed over a match repository; limit <= 0 means unlimited
func NewDBFeed(repo repository.MatchRepository, limit int) *DBFeed {
	return &DBFeed{repo: repo, limit: limit}
}

// Name returns the feed name
func (f *DBFeed) Name() string {
	return DBFeedType
}

// Matches returns upcoming fixtures with their latest stored odds
func (f *DBFeed) Matches(ctx context.Context, country string) ([]models.MatchOdds, error) {
	matches, err := f.repo.GetUpcoming(ctx, country, f.limit)
	if err != nil {
		return nil, NewFeedError(DBFeedType, ErrCodeNetworkError, "failed to load upcoming matches", err)
	}
	return matches, nil
}
