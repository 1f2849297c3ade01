package datasource

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-staker/internal/models"
)

// FileFeedType is the name of the file-backed feed
const FileFeedType = "file"

// FileFeed reads prediction and bookmaker odds JSON files from two directories
type FileFeed struct {
	predictionsDir string
	oddsDir        string
	logger         *logrus.Logger
}

// NewFileFeed creates a feed reading <predictionsDir>/*.json and <oddsDir>/*.json
func NewFileFeed(predictionsDir, oddsDir string, logger *logrus.Logger) *FileFeed {
	if logger == nil {
		logger = logrus.New()
	}
	return &FileFeed{
		predictionsDir: predictionsDir,
		oddsDir:        oddsDir,
		logger:         logger,
	}
}

// Name returns the feed name
func (f *FileFeed) Name() string {
	return FileFeedType
}

// Matches loads predictions for the country and merges bookmaker odds into them
func (f *FileFeed) Matches(ctx context.Context, country string) ([]models.MatchOdds, error) {
	predictions, err := f.LoadPredictions(ctx)
	if err != nil {
		return nil, err
	}
	predictions = FilterCountry(predictions, country)

	odds, err := f.LoadOdds(ctx)
	if err != nil {
		return nil, err
	}

	return MergeOdds(predictions, odds), nil
}

// LoadPredictions reads every prediction file. Unreadable files are logged and skipped.
func (f *FileFeed) LoadPredictions(ctx context.Context) ([]models.MatchOdds, error) {
	var all []models.MatchOdds
	err := f.eachFile(ctx, f.predictionsDir, func(path string, data []byte) {
		matches, err := decodePredictions(data)
		if err != nil {
			f.logger.WithError(err).WithField("file", path).Warn("Skipping prediction file")
			return
		}
		all = append(all, matches...)
	})
	return all, err
}

// LoadOdds reads every bookmaker odds file. Unreadable files are logged and skipped.
func (f *FileFeed) LoadOdds(ctx context.Context) ([]models.BookmakerOdds, error) {
	var all []models.BookmakerOdds
	err := f.eachFile(ctx, f.oddsDir, func(path string, data []byte) {
		odds, err := decodeOdds(data)
		if err != nil {
			f.logger.WithError(err).WithField("file", path).Warn("Skipping odds file")
			return
		}
		all = append(all, odds...)
	})
	return all, err
}

func (f *FileFeed) eachFile(ctx context.Context, dir string, fn func(path string, data []byte)) error {
	if dir == "" {
		return nil
	}

	paths, err := filepath.Glob(filepath.Join(dir, "*.json"))
	if err != nil {
		return NewFeedError(FileFeedType, ErrCodeInvalidData, fmt.Sprintf("bad directory %q", dir), err)
	}

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}

		data, err := os.ReadFile(path)
		if err != nil {
			f.logger.WithError(err).WithField("file", path).Warn("Failed to read feed file")
			continue
		}
		fn(path, data)
	}

	f.logger.WithFields(logrus.Fields{
		"dir":   dir,
		"files": len(paths),
	}).Debug("Feed directory loaded")
	return nil
}
