package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/yourusername/dcf-simulator/internal/models"
)

// MemoryScenarioRepository keeps scenarios in process memory
type MemoryScenarioRepository struct {
	mu        sync.RWMutex
	scenarios map[string]models.Scenario
	order     []string
	now       func() time.Time
}

// NewMemoryScenarioRepository creates a store seeded with scenarios. Seed order
// is kept for List; later saves of new ids are appended.
func NewMemoryScenarioRepository(seed []models.Scenario) *MemoryScenarioRepository {
	r := &MemoryScenarioRepository{
		scenarios: make(map[string]models.Scenario, len(seed)),
		now:       time.Now,
	}
	for _, s := range seed {
		if _, ok := r.scenarios[s.ID]; !ok {
			r.order = append(r.order, s.ID)
		}
		r.scenarios[s.ID] = cloneScenario(s)
	}
	return r
}

// List returns all scenarios in insertion order
func (r *MemoryScenarioRepository) List(ctx context.Context) ([]models.Scenario, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.Scenario, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, cloneScenario(r.scenarios[id]))
	}
	return out, nil
}

// Get returns the scenario with id
func (r *MemoryScenarioRepository) Get(ctx context.Context, id string) (models.Scenario, error) {
	if id == "" {
		return models.Scenario{}, models.ErrScenarioIDRequired
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.scenarios[id]
	if !ok {
		return models.Scenario{}, fmt.Errorf("%w: %s", models.ErrScenarioNotFound, id)
	}
	return cloneScenario(s), nil
}

// Save creates or replaces a scenario
func (r *MemoryScenarioRepository) Save(ctx context.Context, s models.Scenario) (bool, error) {
	if s.ID == "" {
		return false, models.ErrScenarioIDRequired
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	_, exists := r.scenarios[s.ID]
	if !exists {
		r.order = append(r.order, s.ID)
	}
	s.UpdatedAt = r.now().UTC()
	r.scenarios[s.ID] = cloneScenario(s)
	return !exists, nil
}

// Kind reports the store type
func (r *MemoryScenarioRepository) Kind() string {
	return KindMemory
}

// cloneScenario copies the slices so callers cannot alias stored state.
func cloneScenario(s models.Scenario) models.Scenario {
	s.AssumptionsNotes = append([]string(nil), s.AssumptionsNotes...)
	s.References = append([]models.Reference(nil), s.References...)
	return s
}
