package handler

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/neuroathlete-api/internal/dto"
	"github.com/noah-isme/neuroathlete-api/internal/middleware"
	"github.com/noah-isme/neuroathlete-api/internal/models"
	appErrors "github.com/noah-isme/neuroathlete-api/pkg/errors"
	"github.com/noah-isme/neuroathlete-api/pkg/response"
)

type athleteService interface {
	RecordSession(ctx context.Context, req dto.RecordSessionRequest) (*dto.RecordSessionResponse, error)
	ListSessions(ctx context.Context, query dto.SessionListQuery) ([]models.TestSession, *models.Pagination, error)
	Profile(ctx context.Context) (models.ProfileSummary, bool)
	Achievements(ctx context.Context) (models.AchievementBoard, bool)
	Programs(ctx context.Context) ([]models.TrainingProgram, bool)
	ActivateProgram(ctx context.Context, id string) (models.TrainingProgram, error)
	DeactivateProgram(ctx context.Context, id string) (models.TrainingProgram, error)
	AssessFatigue(ctx context.Context, req dto.FatigueAssessmentRequest) (models.CognitiveFatigueAssessment, error)
	Assessments() []models.CognitiveFatigueAssessment
	NextDifficulty(req dto.NextDifficultyRequest) (dto.NextDifficultyResponse, error)
	Tests() []models.CognitiveTest
	TestParameters(testID string, difficulty models.Difficulty) (dto.TestParametersResponse, error)
}

// AthleteHandler exposes the training endpoints of the local athlete.
type AthleteHandler struct {
	service athleteService
}

// NewAthleteHandler constructs the handler.
func NewAthleteHandler(service athleteService) *AthleteHandler {
	return &AthleteHandler{service: service}
}

// Tests godoc
// @Summary List cognitive tests
// @Tags Tests
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /tests [get]
func (h *AthleteHandler) Tests(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Tests(), nil)
}

// TestParameters godoc
// @Summary Game parameters for a test
// @Tags Tests
// @Produce json
// @Param id path string true "Test ID"
// @Param difficulty query string false "Difficulty, defaults to the current level"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /tests/{id}/parameters [get]
func (h *AthleteHandler) TestParameters(c *gin.Context) {
	difficulty := models.Difficulty(strings.ToLower(strings.TrimSpace(c.Query("difficulty"))))
	params, err := h.service.TestParameters(c.Param("id"), difficulty)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, params, nil)
}

// NextDifficulty godoc
// @Summary Recommend the next difficulty for a result
// @Tags Tests
// @Accept json
// @Produce json
// @Param payload body dto.NextDifficultyRequest true "Current level and results"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /difficulty/next [post]
func (h *AthleteHandler) NextDifficulty(c *gin.Context) {
	var req dto.NextDifficultyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid difficulty payload"))
		return
	}
	res, err := h.service.NextDifficulty(req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, res, nil)
}

// RecordSession godoc
// @Summary Record a completed test session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body dto.RecordSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /sessions [post]
func (h *AthleteHandler) RecordSession(c *gin.Context) {
	var req dto.RecordSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid session payload"))
		return
	}
	res, err := h.service.RecordSession(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusCreated, res, nil, middleware.ExtractMeta(c))
}

// ListSessions godoc
// @Summary List recorded sessions
// @Tags Sessions
// @Produce json
// @Param test_id query string false "Filter by test"
// @Param page query int false "Page"
// @Param page_size query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *AthleteHandler) ListSessions(c *gin.Context) {
	var query dto.SessionListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid session query"))
		return
	}
	sessions, pagination, err := h.service.ListSessions(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, pagination, middleware.ExtractMeta(c))
}

// Profile godoc
// @Summary Neuro profile summary
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /profile [get]
func (h *AthleteHandler) Profile(c *gin.Context) {
	summary, hit := h.service.Profile(c.Request.Context())
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, summary, nil, middleware.ExtractMeta(c))
}

// Achievements godoc
// @Summary Achievement board with progress
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /achievements [get]
func (h *AthleteHandler) Achievements(c *gin.Context) {
	board, hit := h.service.Achievements(c.Request.Context())
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, board, nil, middleware.ExtractMeta(c))
}

// Programs godoc
// @Summary List training programs
// @Tags Programs
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /programs [get]
func (h *AthleteHandler) Programs(c *gin.Context) {
	programs, hit := h.service.Programs(c.Request.Context())
	middleware.SetCacheHit(c, hit)
	response.JSON(c, http.StatusOK, programs, nil, middleware.ExtractMeta(c))
}

// ActivateProgram godoc
// @Summary Activate a training program
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/{id}/activate [post]
func (h *AthleteHandler) ActivateProgram(c *gin.Context) {
	program, err := h.service.ActivateProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// DeactivateProgram godoc
// @Summary Deactivate a training program
// @Tags Programs
// @Produce json
// @Param id path string true "Program ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /programs/{id}/deactivate [post]
func (h *AthleteHandler) DeactivateProgram(c *gin.Context) {
	program, err := h.service.DeactivateProgram(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, program, nil)
}

// AssessFatigue godoc
// @Summary Run a cognitive fatigue assessment
// @Tags Fatigue
// @Accept json
// @Produce json
// @Param payload body dto.FatigueAssessmentRequest true "Subjective score 1-10"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /fatigue/assessments [post]
func (h *AthleteHandler) AssessFatigue(c *gin.Context) {
	var req dto.FatigueAssessmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid fatigue payload"))
		return
	}
	assessment, err := h.service.AssessFatigue(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assessment)
}

// Assessments godoc
// @Summary Fatigue assessment history
// @Tags Fatigue
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /fatigue/assessments [get]
func (h *AthleteHandler) Assessments(c *gin.Context) {
	assessments := h.service.Assessments()
	if assessments == nil {
		assessments = []models.CognitiveFatigueAssessment{}
	}
	response.JSON(c, http.StatusOK, assessments, nil)
}
