package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/neuroathlete-api/internal/models"
	appErrors "github.com/noah-isme/neuroathlete-api/pkg/errors"
	"github.com/noah-isme/neuroathlete-api/pkg/response"
)

// ContextAthleteKey is the gin context key storing JWT claims.
const ContextAthleteKey = "currentAthlete"

// TokenValidator verifies access tokens.
type TokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT protects routes by requiring a valid access token.
func JWT(validator TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}

		parts := strings.SplitN(header, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			response.Error(c, appErrors.Clone(appErrors.ErrUnauthorized, "invalid authorization header"))
			c.Abort()
			return
		}

		claims, err := validator.ValidateToken(strings.TrimSpace(parts[1]))
		if err != nil {
			response.Error(c, err)
			c.Abort()
			return
		}

		c.Set(ContextAthleteKey, claims)
		c.Next()
	}
}

// CurrentAthlete returns the claims attached by JWT, if any.
func CurrentAthlete(c *gin.Context) (*models.JWTClaims, bool) {
	value, exists := c.Get(ContextAthleteKey)
	if !exists {
		return nil, false
	}
	claims, ok := value.(*models.JWTClaims)
	return claims, ok
}
