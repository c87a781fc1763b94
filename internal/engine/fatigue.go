package engine

import (
	"fmt"
	"math"
	"time"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

const (
	fatigueRecentSessions    = 5
	defaultReactionBaseline  = 300.0
	slowdownWarningPct       = 20.0
	highLoadScore            = 70.0
	optimalScore             = 30.0
	minSubjectiveScore       = 1
	maxSubjectiveScore       = 10
	consistencyContribWeight = 0.2
)

// Recommendation texts emitted by the fatigue analyzer.
const (
	RecommendReduceIntensity = "High cognitive load. Recommend light training instead of intense."
	RecommendTrainHard       = "Optimal state! Perfect time for complex training."
)

type scoreBand struct {
	bound  float64
	points float64
}

// Reaction slowdown bands, checked in order against the increase percentage.
var reactionBands = []scoreBand{{10, 50}, {25, 30}, {50, 10}}

// Accuracy bands, checked in order against the average accuracy.
var accuracyBands = []scoreBand{{90, 30}, {80, 20}, {70, 10}}

// Recovery bands keyed by the lower score bound.
var recoveryBands = []struct {
	from    float64
	minutes int
}{{85, 90}, {70, 60}, {50, 30}, {30, 15}, {0, 0}}

// AssessFatigue builds a fresh assessment from the last sessions of the log and
// the profile's reaction baseline. The subjective score is clamped to 1-10.
func AssessFatigue(sessions []models.TestSession, profile models.NeuroProfile, subjective int, at time.Time) models.CognitiveFatigueAssessment {
	start := len(sessions) - fatigueRecentSessions
	if start < 0 {
		start = 0
	}
	recent := sessions[start:]

	var reactions, accuracies, consistencies []float64
	for _, s := range recent {
		if s.Results.ReactionTimeMs != nil {
			reactions = append(reactions, *s.Results.ReactionTimeMs)
		}
		if s.Results.Accuracy != nil {
			accuracies = append(accuracies, *s.Results.Accuracy)
		}
		if s.Results.ConsistencyScore != nil {
			consistencies = append(consistencies, *s.Results.ConsistencyScore)
		}
	}

	baseline, ok := profile.BaselineScores[models.CategoryReaction]
	if !ok {
		baseline = defaultReactionBaseline
	}
	var increase float64
	if baseline != 0 {
		increase = (mean(reactions) - baseline) / baseline * 100
	}

	score := ObjectiveFatigueScore(increase, accuracies, consistencies)

	recommendations := make([]string, 0, 2)
	if increase > slowdownWarningPct {
		recommendations = append(recommendations,
			fmt.Sprintf("Reaction time slowed by %d%%. Rest before important game.", int(math.Round(increase))))
	}
	if score > highLoadScore {
		recommendations = append(recommendations, RecommendReduceIntensity)
	}
	if score < optimalScore {
		recommendations = append(recommendations, RecommendTrainHard)
	}

	minutes := RecoveryMinutes(score)
	return models.CognitiveFatigueAssessment{
		AssessedAt:          at,
		SubjectiveScore:     clampSubjective(subjective),
		ObjectiveScore:      score,
		ReactionIncreasePct: increase,
		Recommendations:     recommendations,
		RecoveryMinutes:     minutes,
		RecoveryLabel:       models.RecoveryTimeLabel(minutes),
	}
}

// ObjectiveFatigueScore sums the reaction, accuracy and consistency bands, capped to [0,100].
func ObjectiveFatigueScore(reactionIncreasePct float64, accuracies, consistencies []float64) float64 {
	var score float64
	for _, b := range reactionBands {
		if reactionIncreasePct <= b.bound {
			score += b.points
			break
		}
	}
	if len(accuracies) > 0 {
		avg := mean(accuracies)
		for _, b := range accuracyBands {
			if avg >= b.bound {
				score += b.points
				break
			}
		}
	}
	if len(consistencies) > 0 {
		score += mean(consistencies) * consistencyContribWeight
	}
	return clamp(score, 0, 100)
}

// RecoveryMinutes maps an objective score to one of the fixed recovery bands.
func RecoveryMinutes(score float64) int {
	for _, b := range recoveryBands {
		if score >= b.from {
			return b.minutes
		}
	}
	return 0
}

func clampSubjective(v int) int {
	if v < minSubjectiveScore {
		return minSubjectiveScore
	}
	if v > maxSubjectiveScore {
		return maxSubjectiveScore
	}
	return v
}
