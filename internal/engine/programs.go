package engine

import (
	"math"
	"time"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

// UpdatePrograms recomputes completion for every active, started program.
// Other programs are returned unchanged.
func UpdatePrograms(programs []models.TrainingProgram, sessions []models.TestSession, now time.Time) []models.TrainingProgram {
	out := make([]models.TrainingProgram, len(programs))
	copy(out, programs)
	for i := range out {
		p := &out[i]
		if !p.Active || p.StartDate == nil {
			continue
		}
		p.CompletionRate = CompletionRate(*p, sessions, now)
	}
	return out
}

// CompletionRate compares eligible sessions since the start date with the
// sessions expected so far. The result is clamped to [0,100].
func CompletionRate(p models.TrainingProgram, sessions []models.TestSession, now time.Time) float64 {
	if p.StartDate == nil {
		return 0
	}
	expected := ExpectedSessions(p, now)
	if expected <= 0 {
		return 0
	}
	actual := 0
	for _, s := range sessions {
		if p.Eligible(s.TestID) && !s.StartTime.Before(*p.StartDate) {
			actual++
		}
	}
	return clamp(float64(actual)/float64(expected)*100, 0, 100)
}

// ExpectedSessions is min(daysSinceStart+1, durationDays) * dailySessions.
func ExpectedSessions(p models.TrainingProgram, now time.Time) int {
	if p.StartDate == nil {
		return 0
	}
	days := int(math.Floor(now.Sub(*p.StartDate).Hours() / 24))
	if days < 0 {
		days = -1
	}
	elapsed := days + 1
	if elapsed > p.DurationDays {
		elapsed = p.DurationDays
	}
	if elapsed < 0 {
		elapsed = 0
	}
	return elapsed * p.DailySessions
}
