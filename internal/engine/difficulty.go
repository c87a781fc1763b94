package engine

import "github.com/noah-isme/neuroathlete-api/internal/models"

type difficultyStep struct {
	promoteAt float64
	promoteTo models.Difficulty
	demoteAt  float64
	demoteTo  models.Difficulty
}

// A zero-value target disables that direction.
var difficultyLadder = map[models.Difficulty]difficultyStep{
	models.DifficultyBeginner:     {promoteAt: 85, promoteTo: models.DifficultyIntermediate},
	models.DifficultyIntermediate: {promoteAt: 80, promoteTo: models.DifficultyAdvanced, demoteAt: 65, demoteTo: models.DifficultyBeginner},
	models.DifficultyAdvanced:     {promoteAt: 75, promoteTo: models.DifficultyElite, demoteAt: 60, demoteTo: models.DifficultyIntermediate},
	models.DifficultyElite:        {demoteAt: 55, demoteTo: models.DifficultyAdvanced},
}

// NextDifficulty picks the level for the next session from the just-finished success rate (0-100).
func NextDifficulty(successRate float64, current models.Difficulty) models.Difficulty {
	step, ok := difficultyLadder[current]
	if !ok {
		return current
	}
	if step.promoteTo != "" && successRate >= step.promoteAt {
		return step.promoteTo
	}
	if step.demoteTo != "" && successRate <= step.demoteAt {
		return step.demoteTo
	}
	return current
}

type paramsKey struct {
	difficulty models.Difficulty
	category   models.TestCategory
}

var gameParameters = map[paramsKey]models.GameParameters{
	{models.DifficultyBeginner, models.CategoryReaction}:      {TimeLimitSeconds: 2.0, TargetCount: 1, DistractionCount: 0},
	{models.DifficultyIntermediate, models.CategoryReaction}:  {TimeLimitSeconds: 1.5, TargetCount: 1, DistractionCount: 1},
	{models.DifficultyAdvanced, models.CategoryReaction}:      {TimeLimitSeconds: 1.0, TargetCount: 2, DistractionCount: 2},
	{models.DifficultyElite, models.CategoryReaction}:         {TimeLimitSeconds: 0.7, TargetCount: 3, DistractionCount: 3},
	{models.DifficultyBeginner, models.CategoryAttention}:     {TimeLimitSeconds: 3.0, TargetCount: 1, DistractionCount: 2},
	{models.DifficultyIntermediate, models.CategoryAttention}: {TimeLimitSeconds: 2.0, TargetCount: 2, DistractionCount: 3},
	{models.DifficultyAdvanced, models.CategoryAttention}:     {TimeLimitSeconds: 1.5, TargetCount: 3, DistractionCount: 4},
	{models.DifficultyElite, models.CategoryAttention}:        {TimeLimitSeconds: 1.0, TargetCount: 4, DistractionCount: 5},
}

// DefaultGameParameters apply to every pair missing from the table.
var DefaultGameParameters = models.GameParameters{TimeLimitSeconds: 2.0, TargetCount: 1, DistractionCount: 1}

// ParamsFor returns mini-game tuning constants for a difficulty and category.
func ParamsFor(difficulty models.Difficulty, category models.TestCategory) models.GameParameters {
	if p, ok := gameParameters[paramsKey{difficulty, category}]; ok {
		return p
	}
	return DefaultGameParameters
}
