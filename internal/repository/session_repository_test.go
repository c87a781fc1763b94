package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

var sessionRowColumns = []string{"id", "test_id", "difficulty", "start_time", "end_time", "results", "conditions", "notes", "recorded_at"}

func TestSessionRepositoryAppend(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewSessionRepository(db)

	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	session := &models.TestSession{
		ID:         "s-1",
		TestID:     "reaction-time",
		Difficulty: models.DifficultyBeginner,
		StartTime:  start,
		EndTime:    start.Add(time.Minute),
		Results:    models.TestResults{CorrectResponses: 10},
		RecordedAt: start.Add(time.Minute),
	}

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO test_sessions (" + sessionColumns + ")")).
		WithArgs("s-1", "reaction-time", "beginner", start, start.Add(time.Minute), sqlmock.AnyArg(), sqlmock.AnyArg(), nil, start.Add(time.Minute)).
		WillReturnResult(sqlmock.NewResult(1, 1))

	require.NoError(t, repo.Append(context.Background(), session))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryAppendError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectExec("INSERT INTO test_sessions").WillReturnError(errors.New("boom"))

	err := NewSessionRepository(db).Append(context.Background(), &models.TestSession{ID: "s-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "append test session")
}

func TestSessionRepositoryListAllDecodesJSON(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	rows := sqlmock.NewRows(sessionRowColumns).
		AddRow("s-1", "reaction-time", "beginner", start, start.Add(time.Minute),
			[]byte(`{"reaction_time_ms":250,"correct_responses":9,"incorrect_responses":1,"missed_responses":0}`),
			[]byte(`{"time_of_day":"morning","fatigue_level":3,"pre_workout":false,"post_workout":true}`),
			nil, start.Add(time.Minute))
	mock.ExpectQuery(regexp.QuoteMeta("FROM test_sessions ORDER BY start_time ASC, recorded_at ASC")).WillReturnRows(rows)

	sessions, err := NewSessionRepository(db).ListAll(context.Background())
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	got := sessions[0]
	require.NotNil(t, got.Results.ReactionTimeMs)
	assert.Equal(t, 250.0, *got.Results.ReactionTimeMs)
	assert.Equal(t, 9, got.Results.CorrectResponses)
	assert.Equal(t, models.TimeMorning, got.Conditions.TimeOfDay)
	assert.True(t, got.Conditions.PostWorkout)
	assert.Nil(t, got.Notes)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListFiltersAndPages(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM test_sessions WHERE test_id = $1")).
		WithArgs("stroop").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	start := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	mock.ExpectQuery(regexp.QuoteMeta("FROM test_sessions WHERE test_id = $1 ORDER BY start_time DESC, recorded_at DESC LIMIT $2 OFFSET $3")).
		WithArgs("stroop", 5, 5).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns).
			AddRow("s-7", "stroop", "advanced", start, start.Add(time.Minute), []byte(`{}`), []byte(`{}`), "felt sharp", start))

	sessions, total, err := NewSessionRepository(db).List(context.Background(), models.SessionFilter{TestID: "stroop", Page: 2, PageSize: 5})
	require.NoError(t, err)
	assert.Equal(t, 12, total)
	require.Len(t, sessions, 1)
	require.NotNil(t, sessions[0].Notes)
	assert.Equal(t, "felt sharp", *sessions[0].Notes)
	assert.Equal(t, models.DifficultyAdvanced, sessions[0].Difficulty)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestSessionRepositoryListDefaultsPage(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM test_sessions")).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(regexp.QuoteMeta("LIMIT $1 OFFSET $2")).
		WithArgs(100, 0).
		WillReturnRows(sqlmock.NewRows(sessionRowColumns))

	sessions, total, err := NewSessionRepository(db).List(context.Background(), models.SessionFilter{PageSize: 500})
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, sessions)
	require.NoError(t, mock.ExpectationsWereMet())
}
