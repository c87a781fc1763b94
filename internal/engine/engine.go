// Package engine turns the append-only session log into derived athlete state:
// profile, fatigue assessments, achievements, adaptive difficulty and program progress.
package engine

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/noah-isme/neuroathlete-api/internal/models"
)

// ErrProgramNotFound is returned when a program id is not part of the catalog.
var ErrProgramNotFound = errors.New("training program not found")

// Options tune the engine's environment. Zero values fall back to the system clock,
// time.Local and random UUIDs.
type Options struct {
	Now      func() time.Time
	Location *time.Location
	NewID    func() string
}

// PipelineResult describes the state settled after one session was recorded.
type PipelineResult struct {
	Session        models.TestSession
	Profile        models.NeuroProfile
	NewlyUnlocked  []string
	NextDifficulty models.Difficulty
}

// Engine owns the session log and every piece of state derived from it.
// All methods are safe for concurrent use; each pipeline run is one critical section.
type Engine struct {
	mu       sync.Mutex
	catalog  Catalog
	now      func() time.Time
	location *time.Location
	newID    func() string

	sessions      []models.TestSession
	profile       models.NeuroProfile
	achievements  []models.Achievement
	unlockedCount int
	programs      []models.TrainingProgram
	assessments   []models.CognitiveFatigueAssessment
	difficulties  map[string]models.Difficulty
}

// New seeds an engine from the catalog.
func New(catalog Catalog, opts Options) *Engine {
	e := &Engine{
		catalog:  catalog,
		now:      opts.Now,
		location: opts.Location,
		newID:    opts.NewID,
	}
	if e.now == nil {
		e.now = time.Now
	}
	if e.location == nil {
		e.location = time.Local
	}
	if e.newID == nil {
		e.newID = uuid.NewString
	}
	e.reset()
	return e
}

func (e *Engine) reset() {
	e.sessions = nil
	e.assessments = nil
	e.profile = models.NeuroProfile{BaselineScores: map[models.TestCategory]float64{}}
	e.achievements = append([]models.Achievement(nil), e.catalog.Achievements...)
	e.unlockedCount = 0
	e.programs = make([]models.TrainingProgram, len(e.catalog.Programs))
	for i, p := range e.catalog.Programs {
		p.TestIDs = append([]string(nil), p.TestIDs...)
		e.programs[i] = p
	}
	e.difficulties = make(map[string]models.Difficulty, len(e.catalog.Tests))
	for _, t := range e.catalog.Tests {
		e.difficulties[t.ID] = t.Difficulty
	}
}

// Catalog returns the static catalog the engine was seeded with.
func (e *Engine) Catalog() Catalog {
	return e.catalog
}

// FinalizeSession fills in everything a session needs before it is appended:
// id, recording time, time-of-day bucket, difficulty and derived result metrics.
func (e *Engine) FinalizeSession(s models.TestSession, reactionSamples []float64) models.TestSession {
	e.mu.Lock()
	defer e.mu.Unlock()

	if s.ID == "" {
		s.ID = e.newID()
	}
	if s.RecordedAt.IsZero() {
		s.RecordedAt = e.now()
	}
	if s.Conditions.TimeOfDay == "" {
		s.Conditions.TimeOfDay = models.TimeOfDayAt(s.StartTime.In(e.location))
	}
	if s.Difficulty == "" {
		s.Difficulty = e.currentDifficultyLocked(s.TestID)
	}
	s.Results = FinalizeResults(s.Results, reactionSamples)
	return s
}

// RecordSession appends a finalized session and runs the derivation pipeline in
// fixed order: profile, achievements, programs. The test's adaptive difficulty is
// advanced independently from the session's success rate.
func (e *Engine) RecordSession(s models.TestSession) PipelineResult {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.sessions = append(e.sessions, s)
	unlocked := e.recomputeLocked()

	current := s.Difficulty
	if current == "" {
		current = e.currentDifficultyLocked(s.TestID)
	}
	next := NextDifficulty(s.Results.SuccessRate(), current)
	if s.TestID != "" {
		e.difficulties[s.TestID] = next
	}

	return PipelineResult{
		Session:        s,
		Profile:        e.profile.Clone(),
		NewlyUnlocked:  unlocked,
		NextDifficulty: next,
	}
}

func (e *Engine) recomputeLocked() []string {
	now := e.now()
	e.profile = UpdateProfile(e.profile, e.sessions, e.categoryOf, now, e.location)

	stats := CollectAchievementStats(e.sessions, e.profile)
	var unlocked []string
	e.achievements, e.unlockedCount, unlocked = EvaluateAchievements(e.achievements, stats, now)

	e.programs = UpdatePrograms(e.programs, e.sessions, now)
	return unlocked
}

func (e *Engine) categoryOf(testID string) (models.TestCategory, bool) {
	t, ok := e.catalog.Test(testID)
	if !ok {
		return "", false
	}
	return t.Category, true
}

// AssessFatigue evaluates the recent sessions against the profile and keeps the
// resulting assessment in history.
func (e *Engine) AssessFatigue(subjectiveScore int) models.CognitiveFatigueAssessment {
	e.mu.Lock()
	defer e.mu.Unlock()

	a := AssessFatigue(e.sessions, e.profile, subjectiveScore, e.now())
	a.ID = e.newID()
	e.assessments = append(e.assessments, a)
	return cloneAssessment(a)
}

// NextDifficulty is the stateless progression rule applied to a session's results.
func (e *Engine) NextDifficulty(results models.TestResults, current models.Difficulty) models.Difficulty {
	return NextDifficulty(results.SuccessRate(), current)
}

// CurrentDifficulty returns the level the next session of a test should be played at.
func (e *Engine) CurrentDifficulty(testID string) models.Difficulty {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.currentDifficultyLocked(testID)
}

func (e *Engine) currentDifficultyLocked(testID string) models.Difficulty {
	if d, ok := e.difficulties[testID]; ok {
		return d
	}
	return models.DifficultyBeginner
}

// ActivateProgram starts a program today. Any other active program is deactivated.
func (e *Engine) ActivateProgram(id string) (models.TrainingProgram, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.programIndexLocked(id)
	if idx < 0 {
		return models.TrainingProgram{}, ErrProgramNotFound
	}
	now := e.now()
	for i := range e.programs {
		e.programs[i].Active = false
	}
	start := now
	e.programs[idx].Active = true
	e.programs[idx].StartDate = &start
	e.programs[idx].CompletionRate = 0
	e.programs = UpdatePrograms(e.programs, e.sessions, now)
	return cloneProgram(e.programs[idx]), nil
}

// DeactivateProgram stops tracking a program. Its start date and last completion rate are kept.
func (e *Engine) DeactivateProgram(id string) (models.TrainingProgram, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	idx := e.programIndexLocked(id)
	if idx < 0 {
		return models.TrainingProgram{}, ErrProgramNotFound
	}
	e.programs[idx].Active = false
	return cloneProgram(e.programs[idx]), nil
}

func (e *Engine) programIndexLocked(id string) int {
	for i, p := range e.programs {
		if p.ID == id {
			return i
		}
	}
	return -1
}

// Restore rebuilds engine state from persisted data and settles the pipeline once.
// Snapshot entries that are no longer in the catalog are dropped; new catalog
// entries start fresh.
func (e *Engine) Restore(snapshot *models.EngineSnapshot, sessions []models.TestSession, assessments []models.CognitiveFatigueAssessment) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.reset()
	e.sessions = append(e.sessions, sessions...)
	e.assessments = append(e.assessments, assessments...)

	if snapshot != nil {
		e.profile = snapshot.Profile.Clone()
		if e.profile.BaselineScores == nil {
			e.profile.BaselineScores = map[models.TestCategory]float64{}
		}

		saved := make(map[string]models.Achievement, len(snapshot.Achievements))
		for _, a := range snapshot.Achievements {
			saved[a.ID] = a
		}
		for i, a := range e.achievements {
			if s, ok := saved[a.ID]; ok {
				e.achievements[i].Unlocked = s.Unlocked
				e.achievements[i].UnlockedDate = s.UnlockedDate
				e.achievements[i].Progress = s.Progress
			}
		}

		savedPrograms := make(map[string]models.TrainingProgram, len(snapshot.Programs))
		for _, p := range snapshot.Programs {
			savedPrograms[p.ID] = p
		}
		for i, p := range e.programs {
			if s, ok := savedPrograms[p.ID]; ok {
				e.programs[i].Active = s.Active
				e.programs[i].StartDate = s.StartDate
				e.programs[i].CompletionRate = s.CompletionRate
			}
		}

		for testID, d := range snapshot.Difficulties {
			if _, ok := e.difficulties[testID]; ok && d.Valid() {
				e.difficulties[testID] = d
			}
		}
	}

	e.recomputeLocked()
}

// Snapshot captures state that cannot be recomputed from the session log alone.
func (e *Engine) Snapshot() models.EngineSnapshot {
	e.mu.Lock()
	defer e.mu.Unlock()

	difficulties := make(map[string]models.Difficulty, len(e.difficulties))
	for k, v := range e.difficulties {
		difficulties[k] = v
	}
	return models.EngineSnapshot{
		Profile:      e.profile.Clone(),
		Achievements: cloneAchievements(e.achievements),
		Programs:     clonePrograms(e.programs),
		Difficulties: difficulties,
		SavedAt:      e.now(),
	}
}

// Profile returns the current derived profile.
func (e *Engine) Profile() models.NeuroProfile {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.profile.Clone()
}

// Summary returns the profile together with its headline figures.
func (e *Engine) Summary() models.ProfileSummary {
	e.mu.Lock()
	defer e.mu.Unlock()
	p := e.profile.Clone()
	return models.ProfileSummary{
		NeuroProfile:  p,
		OverallScore:  p.OverallScore(),
		OptimalState:  p.InOptimalState(),
		TotalSessions: len(e.sessions),
		SessionsToday: SessionsOn(e.sessions, e.now(), e.location),
	}
}

// Achievements returns the catalog in its fixed order with live progress.
func (e *Engine) Achievements() models.AchievementBoard {
	e.mu.Lock()
	defer e.mu.Unlock()
	return models.AchievementBoard{
		Achievements:  cloneAchievements(e.achievements),
		UnlockedCount: e.unlockedCount,
		Total:         len(e.achievements),
	}
}

// Programs returns every training program with live completion rates.
func (e *Engine) Programs() []models.TrainingProgram {
	e.mu.Lock()
	defer e.mu.Unlock()
	return clonePrograms(e.programs)
}

// Assessments returns the fatigue assessment history, oldest first.
func (e *Engine) Assessments() []models.CognitiveFatigueAssessment {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make([]models.CognitiveFatigueAssessment, len(e.assessments))
	for i, a := range e.assessments {
		out[i] = cloneAssessment(a)
	}
	return out
}

// SessionCount is the size of the session log.
func (e *Engine) SessionCount() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return len(e.sessions)
}

func cloneAchievements(in []models.Achievement) []models.Achievement {
	out := make([]models.Achievement, len(in))
	for i, a := range in {
		if a.UnlockedDate != nil {
			d := *a.UnlockedDate
			a.UnlockedDate = &d
		}
		out[i] = a
	}
	return out
}

func clonePrograms(in []models.TrainingProgram) []models.TrainingProgram {
	out := make([]models.TrainingProgram, len(in))
	for i, p := range in {
		out[i] = cloneProgram(p)
	}
	return out
}

func cloneProgram(p models.TrainingProgram) models.TrainingProgram {
	p.TestIDs = append([]string(nil), p.TestIDs...)
	if p.StartDate != nil {
		d := *p.StartDate
		p.StartDate = &d
	}
	return p
}

func cloneAssessment(a models.CognitiveFatigueAssessment) models.CognitiveFatigueAssessment {
	recs := make([]string, len(a.Recommendations))
	copy(recs, a.Recommendations)
	a.Recommendations = recs
	return a
}
