package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

// AssessmentRepository keeps the fatigue assessment history.
type AssessmentRepository struct {
	db *sqlx.DB
}

// NewAssessmentRepository constructs the repository.
func NewAssessmentRepository(db *sqlx.DB) *AssessmentRepository {
	return &AssessmentRepository{db: db}
}

// Create inserts a new assessment.
func (r *AssessmentRepository) Create(ctx context.Context, a *models.CognitiveFatigueAssessment) error {
	const query = `INSERT INTO fatigue_assessments (id, assessed_at, subjective_score, objective_score, reaction_increase_pct, recommendations, recovery_minutes)
VALUES (:id, :assessed_at, :subjective_score, :objective_score, :reaction_increase_pct, :recommendations, :recovery_minutes)`
	if _, err := r.db.NamedExecContext(ctx, query, a); err != nil {
		return fmt.Errorf("create fatigue assessment: %w", err)
	}
	return nil
}

// ListAll returns every assessment oldest first.
func (r *AssessmentRepository) ListAll(ctx context.Context) ([]models.CognitiveFatigueAssessment, error) {
	const query = `SELECT id, assessed_at, subjective_score, objective_score, reaction_increase_pct, recommendations, recovery_minutes
FROM fatigue_assessments ORDER BY assessed_at ASC`
	var out []models.CognitiveFatigueAssessment
	if err := r.db.SelectContext(ctx, &out, query); err != nil {
		return nil, fmt.Errorf("list fatigue assessments: %w", err)
	}
	for i := range out {
		out[i].RecoveryLabel = models.RecoveryTimeLabel(out[i].RecoveryMinutes)
	}
	return out, nil
}
