package engine

import (
	"math"
	"time"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

// AchievementStats are the aggregate inputs every achievement rule reads.
type AchievementStats struct {
	Streak            int
	TotalSessions     int
	BestReactionMs    *float64
	BestAccuracy      *float64
	OverallScore      float64
	LatestConsistency *float64
}

// achievementRule pairs a progress function with an unlock predicate.
// A rule that reports ok=false leaves the achievement untouched.
type achievementRule struct {
	progress func(stats AchievementStats, requirement float64) (float64, bool)
	met      func(stats AchievementStats, requirement float64) bool
}

var achievementRules = map[models.AchievementRule]achievementRule{
	models.RuleStreakDays: {
		progress: func(s AchievementStats, req float64) (float64, bool) {
			return ratio(float64(s.Streak), req), true
		},
		met: func(s AchievementStats, req float64) bool { return float64(s.Streak) >= req },
	},
	models.RuleFastestReaction: {
		progress: func(s AchievementStats, req float64) (float64, bool) {
			if s.BestReactionMs == nil || *s.BestReactionMs <= 0 {
				return 0, false
			}
			return req / *s.BestReactionMs * 100, true
		},
		met: func(s AchievementStats, req float64) bool {
			return s.BestReactionMs != nil && *s.BestReactionMs <= req
		},
	},
	models.RuleBestAccuracy: {
		progress: func(s AchievementStats, _ float64) (float64, bool) {
			if s.BestAccuracy == nil {
				return 0, false
			}
			return *s.BestAccuracy, true
		},
		met: func(s AchievementStats, req float64) bool {
			return s.BestAccuracy != nil && *s.BestAccuracy >= req
		},
	},
	models.RuleOverallScore: {
		progress: func(s AchievementStats, _ float64) (float64, bool) { return s.OverallScore, true },
		met:      func(s AchievementStats, req float64) bool { return s.OverallScore >= req },
	},
	models.RuleConsistency: {
		progress: func(s AchievementStats, _ float64) (float64, bool) {
			if s.LatestConsistency == nil {
				return 0, false
			}
			return *s.LatestConsistency, true
		},
		met: func(s AchievementStats, req float64) bool {
			return s.LatestConsistency != nil && *s.LatestConsistency >= req
		},
	},
	models.RuleFirstSession: {
		progress: func(s AchievementStats, _ float64) (float64, bool) {
			if s.TotalSessions >= 1 {
				return 100, true
			}
			return 0, true
		},
		met: func(s AchievementStats, _ float64) bool { return s.TotalSessions >= 1 },
	},
	models.RuleSessionVolume: {
		progress: func(s AchievementStats, req float64) (float64, bool) {
			return ratio(float64(s.TotalSessions), req), true
		},
		met: func(s AchievementStats, req float64) bool { return float64(s.TotalSessions) >= req },
	},
	// Mastery has no defined semantics yet and never progresses.
	models.RuleMastery: {
		progress: func(AchievementStats, float64) (float64, bool) { return 0, true },
		met:      func(AchievementStats, float64) bool { return false },
	},
}

// CollectAchievementStats derives rule inputs from the session log and the freshly updated profile.
func CollectAchievementStats(sessions []models.TestSession, profile models.NeuroProfile) AchievementStats {
	stats := AchievementStats{
		Streak:        profile.CurrentStreak,
		TotalSessions: len(sessions),
		OverallScore:  profile.OverallScore(),
	}
	for _, s := range sessions {
		if rt := s.Results.ReactionTimeMs; rt != nil && (stats.BestReactionMs == nil || *rt < *stats.BestReactionMs) {
			v := *rt
			stats.BestReactionMs = &v
		}
		if acc := s.Results.Accuracy; acc != nil && (stats.BestAccuracy == nil || *acc > *stats.BestAccuracy) {
			v := *acc
			stats.BestAccuracy = &v
		}
	}
	for i := len(sessions) - 1; i >= 0; i-- {
		if c := sessions[i].Results.ConsistencyScore; c != nil {
			v := *c
			stats.LatestConsistency = &v
			break
		}
	}
	return stats
}

// EvaluateAchievements re-runs every rule and returns the updated catalog, the
// number of unlocked entries and the ids unlocked by this pass. Progress is
// clamped to [0,100]. Unlocked entries keep their flag and unlock date forever.
func EvaluateAchievements(current []models.Achievement, stats AchievementStats, now time.Time) ([]models.Achievement, int, []string) {
	out := make([]models.Achievement, len(current))
	copy(out, current)

	var newlyUnlocked []string
	unlocked := 0
	for i := range out {
		a := &out[i]
		rule, ok := achievementRules[a.Rule]
		if ok {
			if progress, ok := rule.progress(stats, a.Requirement); ok {
				a.Progress = clamp(progress, 0, 100)
			}
			if !a.Unlocked && rule.met(stats, a.Requirement) {
				at := now
				a.Unlocked = true
				a.UnlockedDate = &at
				newlyUnlocked = append(newlyUnlocked, a.ID)
			}
		}
		if a.Unlocked {
			unlocked++
		}
	}
	return out, unlocked, newlyUnlocked
}

func ratio(value, requirement float64) float64 {
	if requirement <= 0 {
		return 100
	}
	return math.Min(100, value/requirement*100)
}
