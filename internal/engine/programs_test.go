package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

func program(start *time.Time, active bool) models.TrainingProgram {
	return models.TrainingProgram{
		ID:            "reaction-master-program",
		FocusArea:     models.CategoryReaction,
		DurationDays:  7,
		DailySessions: 3,
		TestIDs:       []string{"lightning-reaction"},
		Active:        active,
		StartDate:     start,
	}
}

func TestExpectedSessions(t *testing.T) {
	start := day(0)
	p := program(&start, true)

	assert.Equal(t, 3, ExpectedSessions(p, start))
	assert.Equal(t, 3, ExpectedSessions(p, start.Add(23*time.Hour)))
	assert.Equal(t, 6, ExpectedSessions(p, start.Add(24*time.Hour)))
	assert.Equal(t, 21, ExpectedSessions(p, start.AddDate(0, 0, 30)))
	assert.Equal(t, 0, ExpectedSessions(p, start.AddDate(0, 0, -2)))
}

func TestCompletionRate(t *testing.T) {
	start := day(0)
	p := program(&start, true)
	sessions := []models.TestSession{
		sessionAt("lightning-reaction", start.Add(-time.Hour), models.TestResults{}),
		sessionAt("lightning-reaction", start.Add(time.Hour), models.TestResults{}),
		sessionAt("laser-focus", start.Add(time.Hour), models.TestResults{}),
		sessionAt("lightning-reaction", start.Add(25*time.Hour), models.TestResults{}),
	}

	assert.InDelta(t, 200.0/6, CompletionRate(p, sessions, start.Add(26*time.Hour)), 1e-9)

	var many []models.TestSession
	for i := 0; i < 10; i++ {
		many = append(many, sessionAt("lightning-reaction", start.Add(time.Minute), models.TestResults{}))
	}
	assert.Equal(t, 100.0, CompletionRate(p, many, start.Add(time.Hour)))

	zero := program(&start, true)
	zero.DailySessions = 0
	assert.Equal(t, 0.0, CompletionRate(zero, many, start.Add(time.Hour)))
}

func TestCompletionRateAlwaysClamped(t *testing.T) {
	start := day(0)
	for daily := 0; daily <= 4; daily++ {
		for n := 0; n <= 30; n += 5 {
			p := program(&start, true)
			p.DailySessions = daily
			var sessions []models.TestSession
			for i := 0; i < n; i++ {
				sessions = append(sessions, sessionAt("lightning-reaction", start, models.TestResults{}))
			}
			rate := CompletionRate(p, sessions, start.Add(time.Hour))
			assert.GreaterOrEqual(t, rate, 0.0)
			assert.LessOrEqual(t, rate, 100.0)
		}
	}
}

func TestUpdateProgramsSkipsInactiveAndUnstarted(t *testing.T) {
	start := day(0)
	inactive := program(&start, false)
	inactive.CompletionRate = 12
	unstarted := program(nil, true)
	unstarted.ID = "focus-builder"
	unstarted.CompletionRate = 7

	sessions := []models.TestSession{sessionAt("lightning-reaction", start, models.TestResults{})}
	out := UpdatePrograms([]models.TrainingProgram{inactive, unstarted}, sessions, start.Add(time.Hour))

	assert.Equal(t, 12.0, out[0].CompletionRate)
	assert.Equal(t, 7.0, out[1].CompletionRate)

	active := program(&start, true)
	out = UpdatePrograms([]models.TrainingProgram{active}, sessions, start.Add(time.Hour))
	assert.InDelta(t, 100.0/3, out[0].CompletionRate, 1e-9)
	assert.Equal(t, 0.0, active.CompletionRate)
}
