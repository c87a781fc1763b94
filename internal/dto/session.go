package dto

import (
	"time"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

// SessionResultsRequest carries the raw counters of a finished mini-game.
type SessionResultsRequest struct {
	ReactionTimeMs          *float64 `json:"reaction_time_ms,omitempty" validate:"omitempty,gte=0"`
	Accuracy                *float64 `json:"accuracy,omitempty" validate:"omitempty,gte=0,lte=100"`
	CorrectResponses        int      `json:"correct_responses" validate:"gte=0"`
	IncorrectResponses      int      `json:"incorrect_responses" validate:"gte=0"`
	MissedResponses         int      `json:"missed_responses" validate:"gte=0"`
	AverageProcessingTimeMs *float64 `json:"average_processing_time_ms,omitempty" validate:"omitempty,gte=0"`
}

// TestResults converts the counters into engine results.
func (r SessionResultsRequest) TestResults() models.TestResults {
	return models.TestResults{
		ReactionTimeMs:          r.ReactionTimeMs,
		Accuracy:                r.Accuracy,
		CorrectResponses:        r.CorrectResponses,
		IncorrectResponses:      r.IncorrectResponses,
		MissedResponses:         r.MissedResponses,
		AverageProcessingTimeMs: r.AverageProcessingTimeMs,
	}
}

// SessionConditionsRequest describes the context the session was played in.
type SessionConditionsRequest struct {
	TimeOfDay       models.TimeOfDay `json:"time_of_day,omitempty" validate:"omitempty,oneof=morning afternoon evening night"`
	FatigueLevel    int              `json:"fatigue_level" validate:"omitempty,min=1,max=10"`
	PreWorkout      bool             `json:"pre_workout"`
	PostWorkout     bool             `json:"post_workout"`
	HoursSinceSleep *int             `json:"hours_since_sleep,omitempty" validate:"omitempty,gte=0,lte=72"`
}

// RecordSessionRequest is the POST /sessions payload.
type RecordSessionRequest struct {
	TestID          string                   `json:"test_id" validate:"required"`
	Difficulty      models.Difficulty        `json:"difficulty,omitempty" validate:"omitempty,oneof=beginner intermediate advanced elite"`
	StartTime       time.Time                `json:"start_time" validate:"required"`
	EndTime         time.Time                `json:"end_time" validate:"required,gtefield=StartTime"`
	Results         SessionResultsRequest    `json:"results"`
	ReactionSamples []float64                `json:"reaction_samples,omitempty" validate:"omitempty,max=1000,dive,gte=0"`
	Conditions      SessionConditionsRequest `json:"conditions"`
	Notes           *string                  `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// Session converts the request into an unfinalized session.
func (r RecordSessionRequest) Session() models.TestSession {
	return models.TestSession{
		TestID:     r.TestID,
		Difficulty: r.Difficulty,
		StartTime:  r.StartTime,
		EndTime:    r.EndTime,
		Results:    r.Results.TestResults(),
		Conditions: models.SessionConditions{
			TimeOfDay:       r.Conditions.TimeOfDay,
			FatigueLevel:    r.Conditions.FatigueLevel,
			PreWorkout:      r.Conditions.PreWorkout,
			PostWorkout:     r.Conditions.PostWorkout,
			HoursSinceSleep: r.Conditions.HoursSinceSleep,
		},
		Notes: r.Notes,
	}
}

// RecordSessionResponse returns the settled pipeline output.
type RecordSessionResponse struct {
	Session        models.TestSession    `json:"session"`
	NextDifficulty models.Difficulty     `json:"next_difficulty"`
	NewlyUnlocked  []string              `json:"newly_unlocked"`
	Profile        models.ProfileSummary `json:"profile"`
}

// SessionListQuery binds GET /sessions query parameters.
type SessionListQuery struct {
	TestID   string `form:"test_id"`
	Page     int    `form:"page" validate:"omitempty,min=1"`
	PageSize int    `form:"page_size" validate:"omitempty,min=1,max=100"`
}

// NextDifficultyRequest is the POST /difficulty/next payload.
type NextDifficultyRequest struct {
	Current models.Difficulty     `json:"current" validate:"required,oneof=beginner intermediate advanced elite"`
	Results SessionResultsRequest `json:"results"`
}

// NextDifficultyResponse answers the stateless progression rule.
type NextDifficultyResponse struct {
	Current     models.Difficulty `json:"current"`
	Next        models.Difficulty `json:"next"`
	SuccessRate float64           `json:"success_rate"`
}

// TestParametersResponse pairs a test with its tuning constants at one difficulty.
type TestParametersResponse struct {
	TestID     string                `json:"test_id"`
	Category   models.TestCategory   `json:"category"`
	Difficulty models.Difficulty     `json:"difficulty"`
	Parameters models.GameParameters `json:"parameters"`
}
