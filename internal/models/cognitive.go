package models

// CognitiveMetric names the measurement a test primarily targets.
type CognitiveMetric string

const (
	MetricReactionTime    CognitiveMetric = "reaction_time"
	MetricAccuracy        CognitiveMetric = "accuracy"
	MetricConsistency     CognitiveMetric = "consistency"
	MetricProcessingSpeed CognitiveMetric = "processing_speed"
	MetricErrorRate       CognitiveMetric = "error_rate"
)

// CognitiveTest describes one mini-game in the static catalog.
type CognitiveTest struct {
	ID              string          `json:"id" yaml:"id"`
	Name            string          `json:"name" yaml:"name"`
	Category        TestCategory    `json:"category" yaml:"category"`
	Description     string          `json:"description" yaml:"description"`
	DurationSeconds int             `json:"duration_seconds" yaml:"duration_seconds"`
	Difficulty      Difficulty      `json:"difficulty" yaml:"difficulty"`
	TargetMetric    CognitiveMetric `json:"target_metric" yaml:"target_metric"`
	Instructions    []string        `json:"instructions" yaml:"instructions"`
}
