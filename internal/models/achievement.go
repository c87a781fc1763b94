package models

import "time"

// AchievementCategory groups achievements for display.
type AchievementCategory string

const (
	AchievementStreak      AchievementCategory = "streak"
	AchievementPerformance AchievementCategory = "performance"
	AchievementConsistency AchievementCategory = "consistency"
	AchievementMastery     AchievementCategory = "mastery"
	AchievementDedication  AchievementCategory = "dedication"
)

// AchievementRule identifies which predicate/progress pair evaluates an achievement.
type AchievementRule string

const (
	RuleStreakDays      AchievementRule = "streak_days"
	RuleFastestReaction AchievementRule = "fastest_reaction"
	RuleBestAccuracy    AchievementRule = "best_accuracy"
	RuleOverallScore    AchievementRule = "overall_score"
	RuleConsistency     AchievementRule = "consistency"
	RuleFirstSession    AchievementRule = "first_session"
	RuleSessionVolume   AchievementRule = "session_volume"
	RuleMastery         AchievementRule = "mastery"
)

// Achievement is one catalog entry with live progress. Unlocks are monotonic.
type Achievement struct {
	ID           string              `json:"id" yaml:"id"`
	Title        string              `json:"title" yaml:"title"`
	Description  string              `json:"description" yaml:"description"`
	IconName     string              `json:"icon_name" yaml:"icon"`
	Category     AchievementCategory `json:"category" yaml:"category"`
	Rule         AchievementRule     `json:"rule" yaml:"rule"`
	Requirement  float64             `json:"requirement" yaml:"requirement"`
	Unlocked     bool                `json:"unlocked" yaml:"-"`
	UnlockedDate *time.Time          `json:"unlocked_date,omitempty" yaml:"-"`
	Progress     float64             `json:"progress" yaml:"-"`
}

// AchievementBoard is the read model for the achievement catalog.
type AchievementBoard struct {
	Achievements  []Achievement `json:"achievements"`
	UnlockedCount int           `json:"unlocked_count"`
	Total         int           `json:"total"`
}
