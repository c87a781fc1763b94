package models

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenRequest exchanges the athlete PIN for an access token.
type TokenRequest struct {
	PIN string `json:"pin" validate:"required,min=4,max=12"`
}

// TokenResponse returns the issued access token.
type TokenResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresIn   int64     `json:"expires_in"`
	IssuedAt    time.Time `json:"issued_at"`
}

// JWTClaims represents the JWT payload for access tokens.
type JWTClaims struct {
	AthleteID string `json:"athlete_id"`
	jwt.RegisteredClaims
}

// Pagination describes a page of a list response.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}
