package models

// Difficulty is an ordered mini-game tuning level.
type Difficulty string

const (
	DifficultyBeginner     Difficulty = "beginner"
	DifficultyIntermediate Difficulty = "intermediate"
	DifficultyAdvanced     Difficulty = "advanced"
	DifficultyElite        Difficulty = "elite"
)

// Difficulties lists levels from easiest to hardest.
var Difficulties = []Difficulty{DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyElite}

// Valid reports whether the level is known.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyBeginner, DifficultyIntermediate, DifficultyAdvanced, DifficultyElite:
		return true
	}
	return false
}

// GameParameters are the mini-game tuning constants for a difficulty/category pair.
type GameParameters struct {
	TimeLimitSeconds float64 `json:"time_limit_seconds"`
	TargetCount      int     `json:"target_count"`
	DistractionCount int     `json:"distraction_count"`
}
