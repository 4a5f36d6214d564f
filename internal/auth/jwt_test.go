package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateTokens(t *testing.T) {
	a := NewJWTAuthenticator("access-secret", "refresh-secret", "rezerva", "rezerva", time.Hour, 24*time.Hour)

	access, refresh, err := a.GenerateTokens(42, "owner")
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)

	accessToken, err := a.ValidateAccessToken(access)
	require.NoError(t, err)
	assert.True(t, accessToken.Valid)

	claims := accessToken.Claims.(jwt.MapClaims)
	assert.Equal(t, float64(42), claims["sub"])
	assert.Equal(t, "owner", claims["role"])

	refreshToken, err := a.ValidateRefreshToken(refresh)
	require.NoError(t, err)
	assert.True(t, refreshToken.Valid)
	refreshClaims := refreshToken.Claims.(jwt.MapClaims)
	assert.NotEmpty(t, refreshClaims["jti"])
}

func TestTokensAreNotInterchangeable(t *testing.T) {
	a := NewJWTAuthenticator("access-secret", "refresh-secret", "rezerva", "rezerva", time.Hour, 24*time.Hour)

	access, refresh, err := a.GenerateTokens(7, "customer")
	require.NoError(t, err)

	_, err = a.ValidateAccessToken(refresh)
	assert.Error(t, err)

	_, err = a.ValidateRefreshToken(access)
	assert.Error(t, err)
}
