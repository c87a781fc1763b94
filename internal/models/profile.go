package models

// OptimalLoadThreshold is the highest latest cognitive load still considered optimal.
const OptimalLoadThreshold = 60.0

// NeuroProfile is the athlete's derived, rolling ability profile.
type NeuroProfile struct {
	BaselineScores        map[TestCategory]float64 `json:"baseline_scores"`
	CurrentStreak         int                      `json:"current_streak"`
	BestStreak            int                      `json:"best_streak"`
	CognitiveFatigueTrend []float64                `json:"cognitive_fatigue_trend"`
	PeakPerformanceTime   *TimeOfDay               `json:"peak_performance_time,omitempty"`
}

// OverallScore is the mean of all baseline values, 0 without baselines.
func (p NeuroProfile) OverallScore() float64 {
	if len(p.BaselineScores) == 0 {
		return 0
	}
	var sum float64
	for _, v := range p.BaselineScores {
		sum += v
	}
	return sum / float64(len(p.BaselineScores))
}

// InOptimalState is true when the latest load is at most OptimalLoadThreshold.
func (p NeuroProfile) InOptimalState() bool {
	if len(p.CognitiveFatigueTrend) == 0 {
		return true
	}
	return p.CognitiveFatigueTrend[len(p.CognitiveFatigueTrend)-1] <= OptimalLoadThreshold
}

// Clone returns a deep copy safe to hand to readers.
func (p NeuroProfile) Clone() NeuroProfile {
	out := p
	out.BaselineScores = make(map[TestCategory]float64, len(p.BaselineScores))
	for k, v := range p.BaselineScores {
		out.BaselineScores[k] = v
	}
	out.CognitiveFatigueTrend = append([]float64(nil), p.CognitiveFatigueTrend...)
	if p.PeakPerformanceTime != nil {
		peak := *p.PeakPerformanceTime
		out.PeakPerformanceTime = &peak
	}
	return out
}

// ProfileSummary is the read model served to clients.
type ProfileSummary struct {
	NeuroProfile
	OverallScore  float64 `json:"overall_score"`
	OptimalState  bool    `json:"optimal_state"`
	TotalSessions int     `json:"total_sessions"`
	SessionsToday int     `json:"sessions_today"`
}
