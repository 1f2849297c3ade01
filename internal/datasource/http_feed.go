package datasource

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/value-staker/internal/models"
)

// HTTPFeedType is the name of the remote feed
const HTTPFeedType = "http"

const maxFeedBodyBytes = 16 << 20

// HTTPFeed fetches prediction and odds documents from remote URLs
type HTTPFeed struct {
	client          *RateLimitedHTTPClient
	predictionsURLs []string
	oddsURLs        []string
	apiKey          string
	logger          *logrus.Logger
}

// NewHTTPFeed creates a remote feed
func NewHTTPFeed(client *RateLimitedHTTPClient, predictionsURLs, oddsURLs []string, apiKey string, logger *logrus.Logger) *HTTPFeed {
	if logger == nil {
		logger = logrus.New()
	}
	return &HTTPFeed{
		client:          client,
		predictionsURLs: predictionsURLs,
		oddsURLs:        oddsURLs,
		apiKey:          apiKey,
		logger:          logger,
	}
}

// Name returns the feed name
func (f *HTTPFeed) Name() string {
	return HTTPFeedType
}

// Matches fetches all prediction documents, filters by country and merges odds.
// A failing prediction URL fails the load; a failing odds URL is logged and skipped.
func (f *HTTPFeed) Matches(ctx context.Context, country string) ([]models.MatchOdds, error) {
	var predictions []models.MatchOdds
	for _, url := range f.predictionsURLs {
		body, err := f.fetch(ctx, url)
		if err != nil {
			return nil, err
		}
		matches, err := decodePredictions(body)
		if err != nil {
			return nil, NewFeedError(HTTPFeedType, ErrCodeInvalidData, "bad prediction document from "+url, err)
		}
		predictions = append(predictions, matches...)
	}
	predictions = FilterCountry(predictions, country)

	var odds []models.BookmakerOdds
	for _, url := range f.oddsURLs {
		body, err := f.fetch(ctx, url)
		if err == nil {
			var lines []models.BookmakerOdds
			if lines, err = decodeOdds(body); err == nil {
				odds = append(odds, lines...)
				continue
			}
		}
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		f.logger.WithError(err).WithField("url", url).Warn("Skipping odds source")
	}

	return MergeOdds(predictions, odds), nil
}

func (f *HTTPFeed) fetch(ctx context.Context, url string) ([]byte, error) {
	header := http.Header{}
	header.Set("Accept", "application/json")
	if f.apiKey != "" {
		header.Set("X-API-Key", f.apiKey)
	}

	resp, err := f.client.Get(ctx, url, header)
	if err != nil {
		var feedErr *FeedError
		if errors.As(err, &feedErr) {
			return nil, err
		}
		return nil, NewFeedError(HTTPFeedType, ErrCodeNetworkError, "request to "+url+" failed", err)
	}
	defer resp.Body.Close()

	if err := statusError(url, resp.StatusCode); err != nil {
		return nil, err
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBodyBytes))
	if err != nil {
		return nil, NewFeedError(HTTPFeedType, ErrCodeNetworkError, "failed to read "+url, err)
	}
	return body, nil
}

func statusError(url string, status int) error {
	switch {
	case status >= 200 && status < 300:
		return nil
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewFeedError(HTTPFeedType, ErrCodeAuthenticationFailed, url, ErrAuthenticationFailed)
	case status == http.StatusNotFound:
		return NewFeedError(HTTPFeedType, ErrCodeNotFound, url, ErrNotFound)
	case status == http.StatusTooManyRequests:
		return NewFeedError(HTTPFeedType, ErrCodeRateLimitExceeded, url, ErrRateLimitExceeded)
	case status >= 500:
		return NewFeedError(HTTPFeedType, ErrCodeServerError, url, ErrServerError)
	default:
		return NewFeedError(HTTPFeedType, ErrCodeInvalidData, fmt.Sprintf("%s returned %d", url, status), ErrInvalidData)
	}
}
