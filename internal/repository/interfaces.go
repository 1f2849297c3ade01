package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/yourusername/value-staker/internal/models"
)

// MatchRepository defines the interface for fixture data access
type MatchRepository interface {
	// SaveMatches stores fixtures together with their current odds
	SaveMatches(ctx context.Context, matches []models.MatchOdds) error
	// GetUpcoming returns fixtures with their latest odds; an empty country matches all
	GetUpcoming(ctx context.Context, country string, limit int) ([]models.MatchOdds, error)
}

// AllocationRepository defines the interface for allocation plan data access
type AllocationRepository interface {
	Save(ctx context.Context, plan *models.AllocationPlan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.AllocationPlan, error)
	GetLatest(ctx context.Context, limit int) ([]*models.AllocationPlan, error)
}
