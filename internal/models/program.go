package models

import "time"

// TrainingProgram is a multi-day plan whose completion is tracked against the session log.
type TrainingProgram struct {
	ID                string       `json:"id" yaml:"id"`
	Name              string       `json:"name" yaml:"name"`
	Description       string       `json:"description" yaml:"description"`
	FocusArea         TestCategory `json:"focus_area" yaml:"focus_area"`
	DurationDays      int          `json:"duration_days" yaml:"duration_days"`
	DailySessions     int          `json:"daily_sessions" yaml:"daily_sessions"`
	TestIDs           []string     `json:"test_ids" yaml:"test_ids"`
	TargetImprovement float64      `json:"target_improvement" yaml:"target_improvement"`
	Active            bool         `json:"active" yaml:"-"`
	StartDate         *time.Time   `json:"start_date,omitempty" yaml:"-"`
	CompletionRate    float64      `json:"completion_rate" yaml:"-"`
}

// Eligible reports whether sessions of the given test count toward the program.
func (p TrainingProgram) Eligible(testID string) bool {
	for _, id := range p.TestIDs {
		if id == testID {
			return true
		}
	}
	return false
}
