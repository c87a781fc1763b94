package models

import (
	"fmt"
	"time"
)

// CognitiveFatigueAssessment is one point-in-time fatigue evaluation. Assessments are never overwritten.
type CognitiveFatigueAssessment struct {
	ID                  string     `db:"id" json:"id"`
	AssessedAt          time.Time  `db:"assessed_at" json:"assessed_at"`
	SubjectiveScore     int        `db:"subjective_score" json:"subjective_score"`
	ObjectiveScore      float64    `db:"objective_score" json:"objective_score"`
	ReactionIncreasePct float64    `db:"reaction_increase_pct" json:"reaction_increase_pct"`
	Recommendations     StringList `db:"recommendations" json:"recommendations"`
	RecoveryMinutes     int        `db:"recovery_minutes" json:"recovery_time_minutes"`
	RecoveryLabel       string     `db:"-" json:"recovery_time_label"`
}

// RecoveryTimeLabel renders a recovery estimate for humans.
func RecoveryTimeLabel(minutes int) string {
	if minutes <= 0 {
		return "No recovery needed"
	}
	if minutes < 60 {
		return fmt.Sprintf("%d minutes", minutes)
	}
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}
