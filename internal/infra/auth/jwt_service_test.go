package auth

import (
	"testing"
	"time"

	"citysim/config"
	"citysim/internal/domain/service"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(access, refresh string) *config.Config {
	cfg := &config.Config{}
	cfg.SecretKey.Access = access
	cfg.SecretKey.Refresh = refresh

	return cfg
}

func newTestJWTService(t *testing.T) service.TokenService {
	t.Helper()

	svc, err := NewJWTService(testConfig(
		"test_access_secret_key_very_long_for_testing",
		"test_refresh_secret_key_very_long_for_testing",
	))
	require.NoError(t, err)

	return svc
}

func TestJWTService_GenerateAndValidateTokens(t *testing.T) {
	jwtService := newTestJWTService(t)

	playerID := uuid.New()
	roles := []string{"player", "admin"}

	accessToken, refreshToken, err := jwtService.GenerateTokens(playerID, roles)
	require.NoError(t, err)
	assert.NotEmpty(t, accessToken)
	assert.NotEmpty(t, refreshToken)

	accessClaims, err := jwtService.ValidateToken(accessToken)
	require.NoError(t, err)
	assert.Equal(t, playerID, accessClaims.PlayerID)
	assert.Equal(t, roles, accessClaims.Roles)
	assert.Equal(t, TokenTypeAccess, accessClaims.Type)
	assert.Equal(t, playerID.String(), accessClaims.Subject)

	refreshClaims, err := jwtService.ValidateToken(refreshToken)
	require.NoError(t, err)
	assert.Equal(t, playerID, refreshClaims.PlayerID)
	assert.Nil(t, refreshClaims.Roles)
	assert.Equal(t, TokenTypeRefresh, refreshClaims.Type)
}

func TestJWTService_InvalidToken(t *testing.T) {
	jwtService := newTestJWTService(t)

	claims, err := jwtService.ValidateToken("clearly-not-a-jwt-token-format")
	assert.Error(t, err)
	assert.Nil(t, claims)
	assert.Contains(t, err.Error(), "failed to parse token structure")
}

func TestJWTService_RejectsForeignSignature(t *testing.T) {
	jwtService := newTestJWTService(t)
	other, err := NewJWTService(testConfig("another_access_secret", "another_refresh_secret"))
	require.NoError(t, err)

	accessToken, _, err := other.GenerateTokens(uuid.New(), []string{"admin"})
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(accessToken)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_UnknownTokenType(t *testing.T) {
	jwtService := newTestJWTService(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.Claims{
		PlayerID: uuid.New(),
		Type:     "session",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte("test_access_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	claims, err := jwtService.ValidateToken(token)
	assert.Error(t, err)
	assert.Nil(t, claims)
}

func TestJWTService_ExpiredToken(t *testing.T) {
	jwtService := newTestJWTService(t)

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, service.Claims{
		PlayerID: uuid.New(),
		Type:     TokenTypeAccess,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Minute)),
		},
	}).SignedString([]byte("test_access_secret_key_very_long_for_testing"))
	require.NoError(t, err)

	_, err = jwtService.ValidateToken(token)
	assert.Error(t, err)
}

func TestJWTService_EmptySecrets(t *testing.T) {
	jwtService, err := NewJWTService(testConfig("", ""))
	assert.Error(t, err)
	assert.Nil(t, jwtService)
	assert.Contains(t, err.Error(), "jwt secrets must be provided")
}

func TestJWTService_GetRefreshTokenDuration(t *testing.T) {
	jwtService := newTestJWTService(t)

	assert.Equal(t, time.Hour*24*7, jwtService.GetRefreshTokenDuration())
}
