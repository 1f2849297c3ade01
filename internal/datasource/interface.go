// Package datasource loads fixtures, prediction percentages and bookmaker odds.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/value-staker/internal/models"
)

// Feed supplies merged match rows for allocation
type Feed interface {
	// Matches returns fixtures for a country ("all" or empty for every country)
	// with bookmaker odds merged in where available
	Matches(ctx context.Context, country string) ([]models.MatchOdds, error)

	// Name returns the name of the feed
	Name() string
}

// FeedError represents errors from feed operations
type FeedError struct {
	Source  string // Feed name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e *FeedError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

func (e *FeedError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded    = "rate_limit_exceeded"
	ErrCodeAuthenticationFailed = "authentication_failed"
	ErrCodeNotFound             = "not_found"
	ErrCodeInvalidData          = "invalid_data"
	ErrCodeNetworkError         = "network_error"
	ErrCodeServerError          = "server_error"
	ErrCodeCircuitOpen          = "circuit_open"
)

var (
	ErrRateLimitExceeded    = errors.New("rate limit exceeded")
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrNotFound             = errors.New("data not found")
	ErrInvalidData          = errors.New("invalid data format")
	ErrServerError          = errors.New("server error")
	ErrCircuitOpen          = errors.New("circuit breaker open")
)

// NewFeedError creates a new feed error
func NewFeedError(source, code, message string, err error) *FeedError {
	return &FeedError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
