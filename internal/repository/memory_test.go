package repository

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/dcf-simulator/internal/models"
	"github.com/yourusername/dcf-simulator/internal/scenario"
)

func TestMemoryScenarioRepositoryList(t *testing.T) {
	repo := NewMemoryScenarioRepository(scenario.Presets())

	list, err := repo.List(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, scenario.BaseID, list[0].ID)
	assert.Equal(t, scenario.AnalystID, list[1].ID)
	assert.Equal(t, scenario.ElonID, list[2].ID)
	assert.Equal(t, KindMemory, repo.Kind())
}

func TestMemoryScenarioRepositoryGet(t *testing.T) {
	repo := NewMemoryScenarioRepository(scenario.Presets())

	tests := []struct {
		name    string
		id      string
		wantErr error
	}{
		{name: "existing", id: scenario.ElonID},
		{name: "unknown", id: "bear", wantErr: models.ErrScenarioNotFound},
		{name: "empty", id: "", wantErr: models.ErrScenarioIDRequired},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := repo.Get(context.Background(), tt.id)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(err, tt.wantErr))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.id, s.ID)
		})
	}
}

func TestMemoryScenarioRepositorySave(t *testing.T) {
	repo := NewMemoryScenarioRepository(scenario.Presets())
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return fixed }
	ctx := context.Background()

	custom := scenario.BaseParams()
	custom.Macro.DiscountRate = 12
	created, err := repo.Save(ctx, models.Scenario{ID: "custom", Name: "Custom", Params: custom})
	require.NoError(t, err)
	assert.True(t, created)

	got, err := repo.Get(ctx, "custom")
	require.NoError(t, err)
	assert.Equal(t, 12.0, got.Params.Macro.DiscountRate)
	assert.Equal(t, fixed, got.UpdatedAt)

	list, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 4)
	assert.Equal(t, "custom", list[3].ID)

	custom.Macro.DiscountRate = 9
	created, err = repo.Save(ctx, models.Scenario{ID: "custom", Name: "Custom v2", Params: custom})
	require.NoError(t, err)
	assert.False(t, created)

	got, err = repo.Get(ctx, "custom")
	require.NoError(t, err)
	assert.Equal(t, "Custom v2", got.Name)
	assert.Equal(t, 9.0, got.Params.Macro.DiscountRate)

	list, err = repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestMemoryScenarioRepositorySaveRequiresID(t *testing.T) {
	repo := NewMemoryScenarioRepository(nil)
	_, err := repo.Save(context.Background(), models.Scenario{Name: "nameless"})
	assert.ErrorIs(t, err, models.ErrScenarioIDRequired)
}

func TestMemoryScenarioRepositoryIsolation(t *testing.T) {
	repo := NewMemoryScenarioRepository(scenario.Presets())
	ctx := context.Background()

	s, err := repo.Get(ctx, scenario.BaseID)
	require.NoError(t, err)
	require.NotEmpty(t, s.AssumptionsNotes)
	s.AssumptionsNotes[0] = "mutated"

	again, err := repo.Get(ctx, scenario.BaseID)
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", again.AssumptionsNotes[0])
}

func TestMemoryScenarioRepositoryConcurrentSave(t *testing.T) {
	repo := NewMemoryScenarioRepository(nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = repo.Save(ctx, models.Scenario{ID: "shared", Name: "Shared", Params: scenario.BaseParams()})
			_, _ = repo.List(ctx)
		}()
	}
	wg.Wait()

	list, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNewMemoryRepositories(t *testing.T) {
	repos := NewMemoryRepositories(scenario.Presets())
	require.NotNil(t, repos.Scenario)
	assert.Equal(t, KindMemory, repos.Scenario.Kind())
}

func TestNewRepositoriesRequiresDB(t *testing.T) {
	_, err := NewRepositories(context.Background(), nil, nil)
	assert.Error(t, err)
}
