package models

import "time"

// TestCategory groups cognitive tests by the ability they train.
type TestCategory string

const (
	// CategoryReaction covers simple reaction-speed drills.
	CategoryReaction TestCategory = "reaction"
	// CategoryAttention covers sustained/selective attention drills.
	CategoryAttention TestCategory = "attention"
	// CategoryDecision covers time-boxed decision drills.
	CategoryDecision TestCategory = "decision"
	// CategoryVision covers peripheral-vision drills.
	CategoryVision TestCategory = "vision"
)

// TestCategories lists every category in display order.
var TestCategories = []TestCategory{CategoryReaction, CategoryAttention, CategoryDecision, CategoryVision}

// Valid reports whether the category is known.
func (c TestCategory) Valid() bool {
	switch c {
	case CategoryReaction, CategoryAttention, CategoryDecision, CategoryVision:
		return true
	}
	return false
}

// UsesReactionTime reports whether the category's baseline is measured in milliseconds.
func (c TestCategory) UsesReactionTime() bool {
	return c == CategoryReaction || c == CategoryVision
}

// TimeOfDay is the coarse bucket a session was played in.
type TimeOfDay string

const (
	TimeMorning   TimeOfDay = "morning"
	TimeAfternoon TimeOfDay = "afternoon"
	TimeEvening   TimeOfDay = "evening"
	TimeNight     TimeOfDay = "night"
)

// TimeOfDayAt maps a wall-clock time to its bucket.
func TimeOfDayAt(t time.Time) TimeOfDay {
	switch h := t.Hour(); {
	case h >= 5 && h < 12:
		return TimeMorning
	case h >= 12 && h < 17:
		return TimeAfternoon
	case h >= 17 && h < 22:
		return TimeEvening
	default:
		return TimeNight
	}
}

// TestResults captures raw response counts and derived metrics of one session.
type TestResults struct {
	ReactionTimeMs          *float64 `json:"reaction_time_ms,omitempty"`
	Accuracy                *float64 `json:"accuracy,omitempty"`
	CorrectResponses        int      `json:"correct_responses"`
	IncorrectResponses      int      `json:"incorrect_responses"`
	MissedResponses         int      `json:"missed_responses"`
	AverageProcessingTimeMs *float64 `json:"average_processing_time_ms,omitempty"`
	ConsistencyScore        *float64 `json:"consistency_score,omitempty"`
}

// TotalResponses sums all response counters.
func (r TestResults) TotalResponses() int {
	return r.CorrectResponses + r.IncorrectResponses + r.MissedResponses
}

// SuccessRate returns correct/total as a 0-100 percentage, 0 when nothing was answered.
func (r TestResults) SuccessRate() float64 {
	total := r.TotalResponses()
	if total <= 0 {
		return 0
	}
	return float64(r.CorrectResponses) / float64(total) * 100
}

// SessionConditions records the context a session was played in.
type SessionConditions struct {
	TimeOfDay       TimeOfDay `json:"time_of_day"`
	FatigueLevel    int       `json:"fatigue_level"`
	PreWorkout      bool      `json:"pre_workout"`
	PostWorkout     bool      `json:"post_workout"`
	HoursSinceSleep *int      `json:"hours_since_sleep,omitempty"`
}

// IdealForTraining is true for rested athletes who slept recently.
func (c SessionConditions) IdealForTraining() bool {
	hours := 24
	if c.HoursSinceSleep != nil {
		hours = *c.HoursSinceSleep
	}
	return c.FatigueLevel <= 5 && hours <= 16
}

// TestSession is one finalized attempt at a mini-game. Sessions are append-only.
type TestSession struct {
	ID         string            `db:"id" json:"id"`
	TestID     string            `db:"test_id" json:"test_id"`
	StartTime  time.Time         `db:"start_time" json:"start_time"`
	EndTime    time.Time         `db:"end_time" json:"end_time"`
	Difficulty Difficulty        `db:"difficulty" json:"difficulty,omitempty"`
	Results    TestResults       `db:"results" json:"results"`
	Conditions SessionConditions `db:"conditions" json:"conditions"`
	Notes      *string           `db:"notes" json:"notes,omitempty"`
	RecordedAt time.Time         `db:"recorded_at" json:"recorded_at"`
}

// Duration is the wall-clock length of the session.
func (s TestSession) Duration() time.Duration {
	return s.EndTime.Sub(s.StartTime)
}

// SessionFilter pages through the session log.
type SessionFilter struct {
	TestID   string
	Page     int
	PageSize int
}
