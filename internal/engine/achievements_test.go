package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

func findAchievement(t *testing.T, list []models.Achievement, id string) models.Achievement {
	t.Helper()
	for _, a := range list {
		if a.ID == id {
			return a
		}
	}
	require.Failf(t, "achievement not found", "id %s", id)
	return models.Achievement{}
}

func TestLightningFastUnlocksOnBestReaction(t *testing.T) {
	catalog := DefaultCatalog()
	sessions := []models.TestSession{
		sessionAt("lightning-reaction", day(0), models.TestResults{ReactionTimeMs: ptr(210)}),
		sessionAt("lightning-reaction", day(0), models.TestResults{ReactionTimeMs: ptr(190)}),
	}
	stats := CollectAchievementStats(sessions, models.NeuroProfile{})
	require.NotNil(t, stats.BestReactionMs)
	assert.Equal(t, 190.0, *stats.BestReactionMs)

	out, count, unlocked := EvaluateAchievements(catalog.Achievements, stats, day(0))

	fast := findAchievement(t, out, "lightning-fast")
	assert.True(t, fast.Unlocked)
	assert.Equal(t, 100.0, fast.Progress)
	assert.Contains(t, unlocked, "lightning-fast")
	assert.Contains(t, unlocked, "first-steps")
	assert.Equal(t, 2, count)
}

func TestEvaluateAchievementsIsIdempotentAndMonotonic(t *testing.T) {
	catalog := DefaultCatalog()
	first := day(0)
	stats := AchievementStats{Streak: 7, TotalSessions: 7, BestAccuracy: ptr(100), LatestConsistency: ptr(85)}

	once, count1, unlocked1 := EvaluateAchievements(catalog.Achievements, stats, first)
	twice, count2, unlocked2 := EvaluateAchievements(once, stats, first.Add(time.Hour))

	assert.Equal(t, once, twice)
	assert.Equal(t, count1, count2)
	assert.ElementsMatch(t, []string{"first-steps", "week-warrior", "perfect-accuracy", "steady-hand"}, unlocked1)
	assert.Empty(t, unlocked2)

	regressed := AchievementStats{Streak: 0, TotalSessions: 7, BestAccuracy: ptr(40), LatestConsistency: ptr(10)}
	after, count3, _ := EvaluateAchievements(twice, regressed, first.Add(48*time.Hour))

	week := findAchievement(t, after, "week-warrior")
	assert.True(t, week.Unlocked)
	require.NotNil(t, week.UnlockedDate)
	assert.True(t, week.UnlockedDate.Equal(first))
	assert.Equal(t, 0.0, week.Progress)
	assert.Equal(t, count1, count3)
}

func TestEvaluateAchievementsProgress(t *testing.T) {
	catalog := DefaultCatalog()
	stats := AchievementStats{Streak: 3, TotalSessions: 25, OverallScore: 45}

	out, count, _ := EvaluateAchievements(catalog.Achievements, stats, day(0))

	assert.InDelta(t, 300.0/7, findAchievement(t, out, "week-warrior").Progress, 1e-9)
	assert.InDelta(t, 10, findAchievement(t, out, "month-master").Progress, 1e-9)
	assert.InDelta(t, 25, findAchievement(t, out, "unstoppable").Progress, 1e-9)
	assert.InDelta(t, 45, findAchievement(t, out, "elite-performer").Progress, 1e-9)
	assert.Equal(t, 100.0, findAchievement(t, out, "first-steps").Progress)
	assert.Equal(t, 0.0, findAchievement(t, out, "lightning-fast").Progress)
	assert.Equal(t, 1, count)

	for _, a := range out {
		assert.GreaterOrEqual(t, a.Progress, 0.0, a.ID)
		assert.LessOrEqual(t, a.Progress, 100.0, a.ID)
		if a.Category == models.AchievementMastery {
			assert.False(t, a.Unlocked)
			assert.Zero(t, a.Progress)
		}
	}
}

func TestSteadyHandUnlocksOnLatestConsistency(t *testing.T) {
	catalog := DefaultCatalog()

	out, _, unlocked := EvaluateAchievements(catalog.Achievements, AchievementStats{TotalSessions: 1, LatestConsistency: ptr(50)}, day(0))
	steady := findAchievement(t, out, "steady-hand")
	assert.True(t, steady.Unlocked)
	assert.Equal(t, 50.0, steady.Progress)
	assert.Contains(t, unlocked, "steady-hand")

	out, _, _ = EvaluateAchievements(catalog.Achievements, AchievementStats{TotalSessions: 1, LatestConsistency: ptr(8)}, day(0))
	steady = findAchievement(t, out, "steady-hand")
	assert.False(t, steady.Unlocked)
	assert.Equal(t, 8.0, steady.Progress)
}

func TestEvaluateAchievementsDoesNotMutateInput(t *testing.T) {
	catalog := DefaultCatalog()
	_, _, _ = EvaluateAchievements(catalog.Achievements, AchievementStats{TotalSessions: 1}, day(0))
	for _, a := range catalog.Achievements {
		assert.False(t, a.Unlocked)
	}
}

func TestCollectAchievementStatsLatestConsistency(t *testing.T) {
	sessions := []models.TestSession{
		sessionAt("lightning-reaction", day(-1), models.TestResults{ConsistencyScore: ptr(95), Accuracy: ptr(70)}),
		sessionAt("lightning-reaction", day(0), models.TestResults{ConsistencyScore: ptr(60), Accuracy: ptr(99)}),
		sessionAt("laser-focus", day(0), models.TestResults{}),
	}
	profile := models.NeuroProfile{CurrentStreak: 2, BaselineScores: map[models.TestCategory]float64{models.CategoryAttention: 80}}

	stats := CollectAchievementStats(sessions, profile)

	require.NotNil(t, stats.LatestConsistency)
	assert.Equal(t, 60.0, *stats.LatestConsistency)
	assert.Equal(t, 99.0, *stats.BestAccuracy)
	assert.Nil(t, stats.BestReactionMs)
	assert.Equal(t, 3, stats.TotalSessions)
	assert.Equal(t, 2, stats.Streak)
	assert.Equal(t, 80.0, stats.OverallScore)
}
