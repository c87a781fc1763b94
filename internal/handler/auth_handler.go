package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/neuroathlete-api/internal/models"
	appErrors "github.com/noah-isme/neuroathlete-api/pkg/errors"
	"github.com/noah-isme/neuroathlete-api/pkg/response"
)

type tokenIssuer interface {
	IssueToken(req models.TokenRequest) (*models.TokenResponse, error)
}

// AuthHandler wires HTTP endpoints to the auth service.
type AuthHandler struct {
	service tokenIssuer
}

// NewAuthHandler creates a new handler.
func NewAuthHandler(svc tokenIssuer) *AuthHandler {
	return &AuthHandler{service: svc}
}

// Token godoc
// @Summary Exchange athlete PIN for an access token
// @Tags Authentication
// @Accept json
// @Produce json
// @Param payload body models.TokenRequest true "PIN payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/token [post]
func (h *AuthHandler) Token(c *gin.Context) {
	var req models.TokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(err, "invalid token payload"))
		return
	}

	res, err := h.service.IssueToken(req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, res, nil)
}

// Me godoc
// @Summary Current athlete claims
// @Tags Authentication
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Router /auth/me [get]
func (h *AuthHandler) Me(c *gin.Context) {
	claims := claimsFromContext(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{
		"athlete_id": claims.AthleteID,
		"expires_at": claims.ExpiresAt,
	}, nil)
}
