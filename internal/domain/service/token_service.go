package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Claims defines the custom claims for the JWT tokens.
type Claims struct {
	PlayerID uuid.UUID
	Roles    []string
	Type     string
	jwt.RegisteredClaims
}

// TokenService defines the interface for generating and validating JWTs.
// Issuance belongs to the account service; the API only validates, and the
// ops CLI mints development tokens.
type TokenService interface {
	// GenerateTokens creates a new access token and refresh token for a player.
	GenerateTokens(playerID uuid.UUID, roles []string) (accessToken string, refreshToken string, err error)

	// ValidateToken checks the validity of a token string.
	ValidateToken(tokenString string) (*Claims, error)

	// GetRefreshTokenDuration returns the configured duration for refresh tokens.
	GetRefreshTokenDuration() time.Duration
}
