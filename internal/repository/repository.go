// Package repository provides PostgreSQL-backed storage for fixtures and allocation plans.
package repository

import (
	"fmt"

	"github.com/yourusername/value-staker/internal/database"
)

// Repositories holds all repository implementations
type Repositories struct {
	Match      MatchRepository
	Allocation AllocationRepository
}

// NewRepositories creates and returns all repository implementations
func NewRepositories(db *database.DB) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	return &Repositories{
		Match:      NewPostgresMatchRepository(db),
		Allocation: NewPostgresAllocationRepository(db),
	}, nil
}
