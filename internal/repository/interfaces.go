// Package repository provides scenario storage backed by memory or PostgreSQL.
package repository

import (
	"context"

	"github.com/yourusername/dcf-simulator/internal/models"
)

// Store kinds reported by ScenarioRepository.Kind
const (
	KindMemory   = "memory"
	KindPostgres = "postgres"
)

// ScenarioRepository defines the interface for scenario data access
type ScenarioRepository interface {
	// List returns every scenario. The memory store keeps insertion order and
	// PostgreSQL orders by id.
	List(ctx context.Context) ([]models.Scenario, error)
	// Get returns models.ErrScenarioNotFound for an unknown id.
	Get(ctx context.Context, id string) (models.Scenario, error)
	// Save creates or replaces a scenario and reports whether it was new.
	Save(ctx context.Context, s models.Scenario) (bool, error)
	Kind() string
}
