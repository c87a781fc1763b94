package dto

// FatigueAssessmentRequest is the POST /fatigue/assessments payload.
// Out-of-range subjective scores are clamped rather than rejected.
type FatigueAssessmentRequest struct {
	SubjectiveScore int `json:"subjective_score"`
}
