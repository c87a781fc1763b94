package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

// athleteStateKey is the single row holding the local athlete's snapshot.
const athleteStateKey = "local"

// StateRepository stores the engine snapshot as one JSONB document.
type StateRepository struct {
	db *sqlx.DB
}

// NewStateRepository constructs the repository.
func NewStateRepository(db *sqlx.DB) *StateRepository {
	return &StateRepository{db: db}
}

// Load returns the saved snapshot, or nil when nothing has been saved yet.
func (r *StateRepository) Load(ctx context.Context) (*models.EngineSnapshot, error) {
	const query = `SELECT snapshot FROM athlete_state WHERE id = $1`
	var snapshot models.EngineSnapshot
	if err := r.db.GetContext(ctx, &snapshot, query, athleteStateKey); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("load athlete state: %w", err)
	}
	return &snapshot, nil
}

// Save upserts the snapshot.
func (r *StateRepository) Save(ctx context.Context, snapshot models.EngineSnapshot) error {
	const query = `INSERT INTO athlete_state (id, snapshot, updated_at) VALUES ($1, $2, $3)
ON CONFLICT (id) DO UPDATE SET snapshot = EXCLUDED.snapshot, updated_at = EXCLUDED.updated_at`
	if _, err := r.db.ExecContext(ctx, query, athleteStateKey, snapshot, snapshot.SavedAt); err != nil {
		return fmt.Errorf("save athlete state: %w", err)
	}
	return nil
}
