package database

import (
	"context"
	"fmt"

	"github.com/yourusername/dcf-simulator/internal/config"
)

// schema is applied on startup; every statement is idempotent.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS scenarios (
		id UUID PRIMARY KEY,
		slug TEXT NOT NULL UNIQUE,
		name TEXT NOT NULL,
		short_label TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		assumptions_notes JSONB NOT NULL DEFAULT '[]',
		reference_links JSONB NOT NULL DEFAULT '[]',
		params JSONB NOT NULL,
		updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE TABLE IF NOT EXISTS scenario_revisions (
		id UUID PRIMARY KEY,
		scenario_id UUID NOT NULL REFERENCES scenarios(id) ON DELETE CASCADE,
		params JSONB NOT NULL,
		saved_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
	)`,
	`CREATE INDEX IF NOT EXISTS idx_scenario_revisions_scenario
		ON scenario_revisions (scenario_id, saved_at DESC)`,
}

// Initialize creates a database connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := EnsureSchema(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}

// EnsureSchema creates the scenario tables when they are missing
func EnsureSchema(ctx context.Context, db *DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema: %w", err)
		}
	}
	return nil
}
