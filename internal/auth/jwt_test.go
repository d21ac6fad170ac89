package auth

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeneratePair(t *testing.T) {
	svc := NewJWTService("test-secret", 15, 7)
	userID := uuid.New()

	pair, err := svc.GeneratePair(userID, "pilot@club.test")
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, "bearer", pair.TokenType)

	claims, err := svc.Validate(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "pilot@club.test", claims.Email)
	assert.False(t, claims.IsRefresh())

	refreshClaims, err := svc.Validate(pair.RefreshToken)
	require.NoError(t, err)
	assert.True(t, refreshClaims.IsRefresh())
}

func TestValidateAccessRejectsRefreshToken(t *testing.T) {
	svc := NewJWTService("test-secret", 15, 7)
	pair, err := svc.GeneratePair(uuid.New(), "pilot@club.test")
	require.NoError(t, err)

	_, err = svc.ValidateAccess(pair.AccessToken)
	assert.NoError(t, err)

	_, err = svc.ValidateAccess(pair.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateRefreshRejectsAccessToken(t *testing.T) {
	svc := NewJWTService("test-secret", 15, 7)
	pair, err := svc.GeneratePair(uuid.New(), "pilot@club.test")
	require.NoError(t, err)

	_, err = svc.ValidateRefresh(pair.RefreshToken)
	assert.NoError(t, err)

	_, err = svc.ValidateRefresh(pair.AccessToken)
	assert.ErrorIs(t, err, ErrNotRefreshToken)
}

func TestValidateWrongSecret(t *testing.T) {
	svc := NewJWTService("secret-a", 15, 7)
	other := NewJWTService("secret-b", 15, 7)

	pair, err := svc.GeneratePair(uuid.New(), "pilot@club.test")
	require.NoError(t, err)

	_, err = other.Validate(pair.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateExpiredToken(t *testing.T) {
	svc := NewJWTService("test-secret", 15, 7)
	expired, err := svc.generate(uuid.New(), "pilot@club.test", "", -time.Minute)
	require.NoError(t, err)

	_, err = svc.Validate(expired)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateGarbage(t *testing.T) {
	svc := NewJWTService("test-secret", 15, 7)
	_, err := svc.Validate("not-a-jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
