package engine

import (
	"math"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

// loadVolumeSessions is the response count at which a session's load is no longer discounted.
const loadVolumeSessions = 50.0

// CognitiveLoad blends reaction speed and accuracy into a 0-100 score,
// discounted for sessions with fewer than 50 responses.
func CognitiveLoad(r models.TestResults) float64 {
	var load float64
	if r.ReactionTimeMs != nil {
		load += math.Max(0, 500-*r.ReactionTimeMs) / 5
	}
	if r.Accuracy != nil {
		load += *r.Accuracy
	}
	load *= math.Min(float64(r.TotalResponses())/loadVolumeSessions, 1)
	return clamp(load, 0, 100)
}

// ConsistencyScore derives 100 - coefficient of variation (in percent) from reaction samples.
// It reports false when fewer than two samples exist.
func ConsistencyScore(samples []float64) (float64, bool) {
	if len(samples) < 2 {
		return 0, false
	}
	avg := mean(samples)
	if avg == 0 {
		return 0, false
	}
	var sumSquaredDiff float64
	for _, s := range samples {
		diff := s - avg
		sumSquaredDiff += diff * diff
	}
	stdDev := math.Sqrt(sumSquaredDiff / float64(len(samples)))
	return math.Max(0, 100-stdDev/avg*100), true
}

// FinalizeResults fills derived metrics on a just-finished session. Values the
// caller already supplied are kept; missing inputs leave fields unset.
func FinalizeResults(r models.TestResults, reactionSamples []float64) models.TestResults {
	out := r
	if out.Accuracy == nil && out.TotalResponses() > 0 {
		acc := out.SuccessRate()
		out.Accuracy = &acc
	}
	if out.ReactionTimeMs == nil && len(reactionSamples) > 0 {
		avg := mean(reactionSamples)
		out.ReactionTimeMs = &avg
	}
	if out.ConsistencyScore == nil {
		if c, ok := ConsistencyScore(reactionSamples); ok {
			out.ConsistencyScore = &c
		}
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
