package engine

import (
	"time"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

const (
	fatigueTrendWindow = 7
	maxStreakScanDays  = 365
)

// CategoryLookup resolves the category a test id belongs to.
type CategoryLookup func(testID string) (models.TestCategory, bool)

// UpdateProfile recomputes every derived profile field from the full session log.
// Fields without supporting data keep their previous values.
func UpdateProfile(prev models.NeuroProfile, sessions []models.TestSession, categoryOf CategoryLookup, now time.Time, loc *time.Location) models.NeuroProfile {
	p := prev.Clone()
	p.BaselineScores = BaselineScores(p.BaselineScores, sessions, categoryOf)

	streak := CurrentStreak(sessions, now, loc)
	p.CurrentStreak = streak
	if streak > p.BestStreak {
		p.BestStreak = streak
	}

	p.CognitiveFatigueTrend = FatigueTrend(sessions)
	if peak := PeakPerformanceTime(sessions); peak != nil {
		p.PeakPerformanceTime = peak
	}
	return p
}

// BaselineScores averages each category's headline metric over the entire log:
// reaction time for reaction-style categories, accuracy for the rest.
func BaselineScores(prev map[models.TestCategory]float64, sessions []models.TestSession, categoryOf CategoryLookup) map[models.TestCategory]float64 {
	out := make(map[models.TestCategory]float64, len(models.TestCategories))
	for k, v := range prev {
		out[k] = v
	}

	values := make(map[models.TestCategory][]float64)
	for _, s := range sessions {
		category, ok := categoryOf(s.TestID)
		if !ok {
			continue
		}
		metric := s.Results.Accuracy
		if category.UsesReactionTime() {
			metric = s.Results.ReactionTimeMs
		}
		if metric == nil {
			continue
		}
		values[category] = append(values[category], *metric)
	}

	for category, v := range values {
		out[category] = mean(v)
	}
	return out
}

// CurrentStreak counts consecutive local calendar days with at least one session,
// walking back from today inclusive and stopping at the first empty day.
func CurrentStreak(sessions []models.TestSession, now time.Time, loc *time.Location) int {
	if len(sessions) == 0 {
		return 0
	}
	if loc == nil {
		loc = time.Local
	}

	days := make(map[time.Time]struct{}, len(sessions))
	for _, s := range sessions {
		days[startOfDay(s.StartTime, loc)] = struct{}{}
	}

	cursor := startOfDay(now, loc)
	streak := 0
	for i := 0; i < maxStreakScanDays; i++ {
		if _, ok := days[cursor]; !ok {
			break
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// FatigueTrend returns cognitive loads of the most recent sessions, oldest first.
func FatigueTrend(sessions []models.TestSession) []float64 {
	start := len(sessions) - fatigueTrendWindow
	if start < 0 {
		start = 0
	}
	trend := make([]float64, 0, len(sessions)-start)
	for _, s := range sessions[start:] {
		trend = append(trend, CognitiveLoad(s.Results))
	}
	return trend
}

// PeakPerformanceTime returns the time-of-day bucket with the strictly highest
// average success rate above zero. Ties keep the bucket seen first in the log.
func PeakPerformanceTime(sessions []models.TestSession) *models.TimeOfDay {
	rates := make(map[models.TimeOfDay][]float64)
	var order []models.TimeOfDay
	for _, s := range sessions {
		bucket := s.Conditions.TimeOfDay
		if _, seen := rates[bucket]; !seen {
			order = append(order, bucket)
		}
		rates[bucket] = append(rates[bucket], s.Results.SuccessRate())
	}

	var best *models.TimeOfDay
	var bestAvg float64
	for _, bucket := range order {
		avg := mean(rates[bucket])
		if avg > bestAvg {
			b := bucket
			best = &b
			bestAvg = avg
		}
	}
	return best
}

// SessionsOn counts sessions whose start falls on the same local day as day.
func SessionsOn(sessions []models.TestSession, day time.Time, loc *time.Location) int {
	if loc == nil {
		loc = time.Local
	}
	target := startOfDay(day, loc)
	count := 0
	for _, s := range sessions {
		if startOfDay(s.StartTime, loc).Equal(target) {
			count++
		}
	}
	return count
}

func startOfDay(t time.Time, loc *time.Location) time.Time {
	local := t.In(loc)
	return time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, loc)
}
