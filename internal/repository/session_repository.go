package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

const sessionColumns = "id, test_id, difficulty, start_time, end_time, results, conditions, notes, recorded_at"

// SessionRepository persists the append-only session log.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository constructs the repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Append inserts one finalized session. Rows are never updated afterwards.
func (r *SessionRepository) Append(ctx context.Context, session *models.TestSession) error {
	const query = `INSERT INTO test_sessions (` + sessionColumns + `)
VALUES (:id, :test_id, :difficulty, :start_time, :end_time, :results, :conditions, :notes, :recorded_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("append test session: %w", err)
	}
	return nil
}

// ListAll returns the whole log ordered oldest first.
func (r *SessionRepository) ListAll(ctx context.Context) ([]models.TestSession, error) {
	const query = `SELECT ` + sessionColumns + ` FROM test_sessions ORDER BY start_time ASC, recorded_at ASC`
	var sessions []models.TestSession
	if err := r.db.SelectContext(ctx, &sessions, query); err != nil {
		return nil, fmt.Errorf("list test sessions: %w", err)
	}
	return sessions, nil
}

// List pages through the log newest first, optionally filtered by test id.
func (r *SessionRepository) List(ctx context.Context, filter models.SessionFilter) ([]models.TestSession, int, error) {
	page, size := normalizePage(filter.Page, filter.PageSize)

	var (
		conditions []string
		args       []interface{}
	)
	if filter.TestID != "" {
		args = append(args, filter.TestID)
		conditions = append(conditions, fmt.Sprintf("test_id = $%d", len(args)))
	}
	where := ""
	if len(conditions) > 0 {
		where = " WHERE " + strings.Join(conditions, " AND ")
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM test_sessions"+where, args...); err != nil {
		return nil, 0, fmt.Errorf("count test sessions: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM test_sessions%s ORDER BY start_time DESC, recorded_at DESC LIMIT $%d OFFSET $%d",
		sessionColumns, where, len(args)+1, len(args)+2)
	args = append(args, size, (page-1)*size)

	var sessions []models.TestSession
	if err := r.db.SelectContext(ctx, &sessions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list test sessions: %w", err)
	}
	return sessions, total, nil
}

func normalizePage(page, size int) (int, int) {
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}
	if size > 100 {
		size = 100
	}
	return page, size
}
