package models

import "time"

// EngineSnapshot is the engine-owned state that cannot be recomputed from the session log alone.
type EngineSnapshot struct {
	Profile      NeuroProfile          `json:"profile"`
	Achievements []Achievement         `json:"achievements"`
	Programs     []TrainingProgram     `json:"programs"`
	Difficulties map[string]Difficulty `json:"difficulties"`
	SavedAt      time.Time             `json:"saved_at"`
}
