package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/neuroathlete-api/internal/dto"
	"github.com/noah-isme/neuroathlete-api/internal/engine"
	"github.com/noah-isme/neuroathlete-api/internal/models"
	appErrors "github.com/noah-isme/neuroathlete-api/pkg/errors"
)

const (
	athleteCachePattern  = "athlete:*"
	cacheKeyProfile      = "athlete:profile"
	cacheKeyAchievements = "athlete:achievements"
	cacheKeyPrograms     = "athlete:programs"
)

// SessionStore is the append-only session log.
type SessionStore interface {
	Append(ctx context.Context, session *models.TestSession) error
	ListAll(ctx context.Context) ([]models.TestSession, error)
	List(ctx context.Context, filter models.SessionFilter) ([]models.TestSession, int, error)
}

// AthleteStateStore persists the engine snapshot.
type AthleteStateStore interface {
	Load(ctx context.Context) (*models.EngineSnapshot, error)
	Save(ctx context.Context, snapshot models.EngineSnapshot) error
}

// AssessmentStore keeps the fatigue assessment history.
type AssessmentStore interface {
	Create(ctx context.Context, assessment *models.CognitiveFatigueAssessment) error
	ListAll(ctx context.Context) ([]models.CognitiveFatigueAssessment, error)
}

// AthleteService hosts the engine and keeps it in step with persistence.
// Every mutation runs persist, pipeline and snapshot inside one critical section.
type AthleteService struct {
	mu          sync.Mutex
	engine      *engine.Engine
	sessions    SessionStore
	state       AthleteStateStore
	assessments AssessmentStore
	cache       *CacheService
	metrics     *MetricsService
	validator   *validator.Validate
	logger      *zap.Logger
}

// NewAthleteService constructs the service around an engine.
func NewAthleteService(eng *engine.Engine, sessions SessionStore, state AthleteStateStore, assessments AssessmentStore, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *AthleteService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if validate == nil {
		validate = validator.New()
	}
	return &AthleteService{
		engine:      eng,
		sessions:    sessions,
		state:       state,
		assessments: assessments,
		cache:       cache,
		metrics:     metrics,
		validator:   validate,
		logger:      logger,
	}
}

// Restore loads the snapshot, the session log and the assessment history into the engine.
func (s *AthleteService) Restore(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	snapshot, err := s.state.Load(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load athlete state")
	}
	sessions, err := s.sessions.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session log")
	}
	assessments, err := s.assessments.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load fatigue assessments")
	}
	s.metrics.ObserveDBQuery("athlete_restore", time.Since(start))

	s.engine.Restore(snapshot, sessions, assessments)
	s.invalidate(ctx)
	s.logger.Info("athlete state restored",
		zap.Int("sessions", len(sessions)),
		zap.Int("assessments", len(assessments)),
		zap.Bool("snapshot", snapshot != nil),
	)
	return nil
}

// RecordSession validates, finalizes and persists a session, then settles the pipeline.
func (s *AthleteService) RecordSession(ctx context.Context, req dto.RecordSessionRequest) (*dto.RecordSessionResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Validation(err, "invalid session payload")
	}
	if _, ok := s.engine.Catalog().Test(req.TestID); !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown test id")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	start := time.Now()
	session := s.engine.FinalizeSession(req.Session(), req.ReactionSamples)
	if err := s.sessions.Append(ctx, &session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist session")
	}
	s.metrics.ObserveDBQuery("session_append", time.Since(start))

	result := s.engine.RecordSession(session)
	s.saveSnapshot(ctx)
	s.invalidate(ctx)
	s.metrics.ObserveSession(session.TestID, session.Difficulty, result.NewlyUnlocked, time.Since(start))

	s.logger.Info("session recorded",
		zap.String("session_id", session.ID),
		zap.String("test_id", session.TestID),
		zap.String("difficulty", string(session.Difficulty)),
		zap.String("next_difficulty", string(result.NextDifficulty)),
		zap.Strings("unlocked", result.NewlyUnlocked),
	)

	unlocked := result.NewlyUnlocked
	if unlocked == nil {
		unlocked = []string{}
	}
	return &dto.RecordSessionResponse{
		Session:        result.Session,
		NextDifficulty: result.NextDifficulty,
		NewlyUnlocked:  unlocked,
		Profile:        s.engine.Summary(),
	}, nil
}

// ListSessions pages through the persisted log, newest first.
func (s *AthleteService) ListSessions(ctx context.Context, query dto.SessionListQuery) ([]models.TestSession, *models.Pagination, error) {
	if err := s.validator.Struct(query); err != nil {
		return nil, nil, appErrors.Validation(err, "invalid session query")
	}
	page, size := query.Page, query.PageSize
	if page <= 0 {
		page = 1
	}
	if size <= 0 {
		size = 20
	}

	start := time.Now()
	sessions, total, err := s.sessions.List(ctx, models.SessionFilter{TestID: query.TestID, Page: page, PageSize: size})
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	s.metrics.ObserveDBQuery("session_list", time.Since(start))
	if sessions == nil {
		sessions = []models.TestSession{}
	}
	return sessions, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Profile returns the profile summary. The boolean reports a cache hit.
func (s *AthleteService) Profile(ctx context.Context) (models.ProfileSummary, bool) {
	return readThrough(ctx, s.cache, cacheKeyProfile, s.engine.Summary)
}

// Achievements returns the achievement board. The boolean reports a cache hit.
func (s *AthleteService) Achievements(ctx context.Context) (models.AchievementBoard, bool) {
	return readThrough(ctx, s.cache, cacheKeyAchievements, s.engine.Achievements)
}

// Programs returns every training program. The boolean reports a cache hit.
func (s *AthleteService) Programs(ctx context.Context) ([]models.TrainingProgram, bool) {
	return readThrough(ctx, s.cache, cacheKeyPrograms, s.engine.Programs)
}

// ActivateProgram starts a program today and deactivates any other.
func (s *AthleteService) ActivateProgram(ctx context.Context, id string) (models.TrainingProgram, error) {
	return s.toggleProgram(ctx, id, s.engine.ActivateProgram)
}

// DeactivateProgram stops a program.
func (s *AthleteService) DeactivateProgram(ctx context.Context, id string) (models.TrainingProgram, error) {
	return s.toggleProgram(ctx, id, s.engine.DeactivateProgram)
}

func (s *AthleteService) toggleProgram(ctx context.Context, id string, toggle func(string) (models.TrainingProgram, error)) (models.TrainingProgram, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	program, err := toggle(id)
	if err != nil {
		if errors.Is(err, engine.ErrProgramNotFound) {
			return models.TrainingProgram{}, appErrors.Clone(appErrors.ErrNotFound, "training program not found")
		}
		return models.TrainingProgram{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update training program")
	}
	s.saveSnapshot(ctx)
	s.invalidate(ctx)
	s.logger.Info("training program updated", zap.String("program_id", program.ID), zap.Bool("active", program.Active))
	return program, nil
}

// AssessFatigue evaluates recent sessions and stores the assessment.
func (s *AthleteService) AssessFatigue(ctx context.Context, req dto.FatigueAssessmentRequest) (models.CognitiveFatigueAssessment, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	assessment := s.engine.AssessFatigue(req.SubjectiveScore)
	start := time.Now()
	if err := s.assessments.Create(ctx, &assessment); err != nil {
		return models.CognitiveFatigueAssessment{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to persist fatigue assessment")
	}
	s.metrics.ObserveDBQuery("assessment_create", time.Since(start))
	s.metrics.ObserveFatigue(assessment.ObjectiveScore)
	s.logger.Info("fatigue assessed",
		zap.String("assessment_id", assessment.ID),
		zap.Int("subjective", assessment.SubjectiveScore),
		zap.Float64("objective", assessment.ObjectiveScore),
		zap.Int("recovery_minutes", assessment.RecoveryMinutes),
	)
	return assessment, nil
}

// Assessments returns the fatigue history, oldest first.
func (s *AthleteService) Assessments() []models.CognitiveFatigueAssessment {
	return s.engine.Assessments()
}

// NextDifficulty applies the progression rule without touching state.
func (s *AthleteService) NextDifficulty(req dto.NextDifficultyRequest) (dto.NextDifficultyResponse, error) {
	if err := s.validator.Struct(req); err != nil {
		return dto.NextDifficultyResponse{}, appErrors.Validation(err, "invalid difficulty payload")
	}
	results := req.Results.TestResults()
	return dto.NextDifficultyResponse{
		Current:     req.Current,
		Next:        s.engine.NextDifficulty(results, req.Current),
		SuccessRate: results.SuccessRate(),
	}, nil
}

// Tests lists the cognitive test catalog.
func (s *AthleteService) Tests() []models.CognitiveTest {
	return append([]models.CognitiveTest(nil), s.engine.Catalog().Tests...)
}

// TestParameters resolves tuning constants for a test. An empty difficulty uses
// the level the next session of that test will be played at.
func (s *AthleteService) TestParameters(testID string, difficulty models.Difficulty) (dto.TestParametersResponse, error) {
	test, ok := s.engine.Catalog().Test(testID)
	if !ok {
		return dto.TestParametersResponse{}, appErrors.Clone(appErrors.ErrNotFound, "cognitive test not found")
	}
	if difficulty == "" {
		difficulty = s.engine.CurrentDifficulty(testID)
	}
	if !difficulty.Valid() {
		return dto.TestParametersResponse{}, appErrors.Clone(appErrors.ErrValidation, "unknown difficulty")
	}
	return dto.TestParametersResponse{
		TestID:     test.ID,
		Category:   test.Category,
		Difficulty: difficulty,
		Parameters: engine.ParamsFor(difficulty, test.Category),
	}, nil
}

func (s *AthleteService) saveSnapshot(ctx context.Context) {
	start := time.Now()
	if err := s.state.Save(ctx, s.engine.Snapshot()); err != nil {
		s.logger.Error("failed to save athlete state", zap.Error(err))
		return
	}
	s.metrics.ObserveDBQuery("athlete_state_save", time.Since(start))
}

func (s *AthleteService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx, athleteCachePattern); err != nil {
		s.logger.Warn("athlete cache invalidate", zap.Error(err))
	}
}
