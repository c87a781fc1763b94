package service

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/noah-isme/neuroathlete-api/internal/models"
	appErrors "github.com/noah-isme/neuroathlete-api/pkg/errors"
)

func newTestAuthService(t *testing.T) *AuthService {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte("2468"), bcrypt.MinCost)
	require.NoError(t, err)
	return NewAuthService(nil, nil, AuthConfig{
		AthleteID:         "athlete",
		PINHash:           string(hash),
		AccessTokenSecret: "secret",
		AccessTokenExpiry: time.Hour,
	})
}

func TestAuthServiceIssueAndValidateToken(t *testing.T) {
	svc := newTestAuthService(t)

	resp, err := svc.IssueToken(models.TokenRequest{PIN: "2468"})
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.Equal(t, int64(3600), resp.ExpiresIn)

	claims, err := svc.ValidateToken(resp.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "athlete", claims.AthleteID)
	assert.Equal(t, "athlete", claims.Subject)
}

func TestAuthServiceRejectsWrongPIN(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.IssueToken(models.TokenRequest{PIN: "1111"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrInvalidCredentials.Code, appErr.Code)
}

func TestAuthServiceValidatesPayload(t *testing.T) {
	svc := newTestAuthService(t)

	_, err := svc.IssueToken(models.TokenRequest{PIN: "1"})
	require.Error(t, err)
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
}

func TestAuthServiceWithoutConfiguredPIN(t *testing.T) {
	svc := NewAuthService(nil, nil, AuthConfig{AthleteID: "athlete", AccessTokenSecret: "secret"})

	_, err := svc.IssueToken(models.TokenRequest{PIN: "2468"})
	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrForbidden.Code, appErr.Code)
}

func TestAuthServiceRejectsExpiredToken(t *testing.T) {
	svc := newTestAuthService(t)
	issued := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return issued }

	resp, err := svc.IssueToken(models.TokenRequest{PIN: "2468"})
	require.NoError(t, err)

	svc.now = func() time.Time { return issued.Add(2 * time.Hour) }
	_, err = svc.ValidateToken(resp.AccessToken)
	require.Error(t, err)
}

func TestAuthServiceRejectsForeignAthlete(t *testing.T) {
	svc := newTestAuthService(t)
	claims := &models.JWTClaims{
		AthleteID: "someone-else",
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "neuroathlete-api",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("secret"))
	require.NoError(t, err)

	_, err = svc.ValidateToken(token)
	require.Error(t, err)
}
