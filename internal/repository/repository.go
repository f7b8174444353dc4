package repository

import (
	"context"
	"fmt"

	"github.com/yourusername/dcf-simulator/internal/database"
	"github.com/yourusername/dcf-simulator/internal/models"
)

// Repositories holds all repository implementations
type Repositories struct {
	Scenario ScenarioRepository
}

// NewRepositories creates PostgreSQL-backed repositories and seeds any preset
// that is not stored yet.
func NewRepositories(ctx context.Context, db *database.DB, seed []models.Scenario) (*Repositories, error) {
	if db == nil {
		return nil, fmt.Errorf("database connection is required")
	}

	scenarios := NewPostgresScenarioRepository(db)
	if _, err := scenarios.SeedMissing(ctx, seed); err != nil {
		return nil, fmt.Errorf("failed to seed scenarios: %w", err)
	}

	return &Repositories{Scenario: scenarios}, nil
}

// NewMemoryRepositories creates in-memory repositories seeded with scenarios
func NewMemoryRepositories(seed []models.Scenario) *Repositories {
	return &Repositories{Scenario: NewMemoryScenarioRepository(seed)}
}
