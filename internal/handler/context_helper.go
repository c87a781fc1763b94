package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/neuroathlete-api/internal/middleware"
	"github.com/noah-isme/neuroathlete-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	claims, ok := middleware.CurrentAthlete(c)
	if !ok {
		return nil
	}
	return claims
}
