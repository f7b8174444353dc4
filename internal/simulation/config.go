// Package simulation runs Monte Carlo sampling over the valuation engine.
package simulation

import (
	"fmt"

	"github.com/yourusername/dcf-simulator/internal/config"
	"github.com/yourusername/dcf-simulator/internal/models"
)

// DefaultIterations is used when no iteration count is configured.
const DefaultIterations = 2000

// MaxIterations bounds a single run.
const MaxIterations = 1_000_000

// Config configures a Monte Carlo run
type Config struct {
	Iterations int
	// Seed 0 picks a time-derived seed; the seed used is reported in the result.
	Seed uint64
	// Workers <= 0 uses one worker per CPU.
	Workers int
}

// DefaultConfig returns a config with the default iteration count.
func DefaultConfig() Config {
	return Config{Iterations: DefaultIterations}
}

// FromConfig converts app config to a sampler config
func FromConfig(cfg *config.ValuationConfig) (Config, error) {
	if cfg == nil {
		return Config{}, fmt.Errorf("valuation config is required")
	}

	c := Config{
		Iterations: cfg.MonteCarloIterations,
		Seed:       cfg.Seed,
		Workers:    cfg.Workers,
	}
	if c.Iterations == 0 {
		c.Iterations = DefaultIterations
	}

	return c, c.Validate()
}

// Validate validates sampler parameters
func (c Config) Validate() error {
	if c.Iterations <= 0 {
		return fmt.Errorf("%w: got %d", models.ErrInvalidIterations, c.Iterations)
	}
	if c.Iterations > MaxIterations {
		return fmt.Errorf("iterations %d exceeds maximum %d", c.Iterations, MaxIterations)
	}
	return nil
}
