package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/dcf-simulator/internal/database"
	"github.com/yourusername/dcf-simulator/internal/models"
)

const errScanScenario = "failed to scan scenario: %w"

// scenarioNamespace derives stable row ids from scenario slugs.
var scenarioNamespace = uuid.MustParse("6f1c2b7e-4d0a-5c8e-9b3f-2a1d7e6c5b40")

// ScenarioRowID returns the primary key stored for a scenario slug.
func ScenarioRowID(slug string) uuid.UUID {
	return uuid.NewSHA1(scenarioNamespace, []byte(slug))
}

// PostgresScenarioRepository implements ScenarioRepository for PostgreSQL.
// Parameters are stored as JSONB and every save appends a revision row.
type PostgresScenarioRepository struct {
	db  *database.DB
	now func() time.Time
}

// NewPostgresScenarioRepository creates a new scenario repository
func NewPostgresScenarioRepository(db *database.DB) *PostgresScenarioRepository {
	return &PostgresScenarioRepository{db: db, now: time.Now}
}

const selectScenario = `
	SELECT slug, name, short_label, description, assumptions_notes, reference_links, params, updated_at
	FROM scenarios`

// List returns all scenarios ordered by slug
func (r *PostgresScenarioRepository) List(ctx context.Context) ([]models.Scenario, error) {
	rows, err := r.db.Query(ctx, selectScenario+` ORDER BY slug`)
	if err != nil {
		return nil, fmt.Errorf("failed to query scenarios: %w", err)
	}
	defer rows.Close()

	var scenarios []models.Scenario
	for rows.Next() {
		s, err := scanScenario(rows)
		if err != nil {
			return nil, err
		}
		scenarios = append(scenarios, s)
	}
	return scenarios, rows.Err()
}

// Get retrieves a scenario by slug
func (r *PostgresScenarioRepository) Get(ctx context.Context, id string) (models.Scenario, error) {
	if id == "" {
		return models.Scenario{}, models.ErrScenarioIDRequired
	}

	s, err := scanScenario(r.db.QueryRow(ctx, selectScenario+` WHERE id = $1`, ScenarioRowID(id)))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Scenario{}, fmt.Errorf("%w: %s", models.ErrScenarioNotFound, id)
	}
	return s, err
}

// Save upserts the scenario and records a revision in one transaction
func (r *PostgresScenarioRepository) Save(ctx context.Context, s models.Scenario) (bool, error) {
	if s.ID == "" {
		return false, models.ErrScenarioIDRequired
	}

	notes := s.AssumptionsNotes
	if notes == nil {
		notes = []string{}
	}
	refs := s.References
	if refs == nil {
		refs = []models.Reference{}
	}
	rowID := ScenarioRowID(s.ID)
	now := r.now().UTC()

	upsert := `
		INSERT INTO scenarios (
			id, slug, name, short_label, description, assumptions_notes, reference_links, params, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (id) DO UPDATE SET
			name = EXCLUDED.name,
			short_label = EXCLUDED.short_label,
			description = EXCLUDED.description,
			assumptions_notes = EXCLUDED.assumptions_notes,
			reference_links = EXCLUDED.reference_links,
			params = EXCLUDED.params,
			updated_at = EXCLUDED.updated_at
		RETURNING (xmax = 0)
	`
	revision := `INSERT INTO scenario_revisions (id, scenario_id, params, saved_at) VALUES ($1, $2, $3, $4)`

	var created bool
	err := r.db.WithTransaction(ctx, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx, upsert,
			rowID, s.ID, s.Name, s.ShortLabel, s.Description, notes, refs, s.Params, now,
		).Scan(&created); err != nil {
			return fmt.Errorf("failed to save scenario: %w", err)
		}
		if _, err := tx.Exec(ctx, revision, uuid.New(), rowID, s.Params, now); err != nil {
			return fmt.Errorf("failed to record scenario revision: %w", err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

// Revisions returns how many times a scenario has been saved
func (r *PostgresScenarioRepository) Revisions(ctx context.Context, id string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM scenario_revisions WHERE scenario_id = $1`, ScenarioRowID(id),
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count scenario revisions: %w", err)
	}
	return count, nil
}

// Kind reports the store type
func (r *PostgresScenarioRepository) Kind() string {
	return KindPostgres
}

// SeedMissing stores each scenario whose id is not yet present
func (r *PostgresScenarioRepository) SeedMissing(ctx context.Context, scenarios []models.Scenario) (int, error) {
	seeded := 0
	for _, s := range scenarios {
		_, err := r.Get(ctx, s.ID)
		if err == nil {
			continue
		}
		if !errors.Is(err, models.ErrScenarioNotFound) {
			return seeded, err
		}
		if _, err := r.Save(ctx, s); err != nil {
			return seeded, err
		}
		seeded++
	}
	return seeded, nil
}

func scanScenario(row pgx.Row) (models.Scenario, error) {
	var s models.Scenario
	if err := row.Scan(
		&s.ID, &s.Name, &s.ShortLabel, &s.Description,
		&s.AssumptionsNotes, &s.References, &s.Params, &s.UpdatedAt,
	); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Scenario{}, err
		}
		return models.Scenario{}, fmt.Errorf(errScanScenario, err)
	}
	return s, nil
}
