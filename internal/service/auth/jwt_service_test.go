package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/almazbisenbaev/tbilingo-app/internal/config"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func fixedClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	t.Parallel()

	_, err := NewJWTService(config.AuthConfig{
		JWTSecret:                   "too-short",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
	})
	assert.Error(t, err)
}

func TestGenerateAndValidateToken(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	svc := NewTestJWTService(testSecret, time.Hour, fixedClock(fixedTime))

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.Equal(t, fixedTime.Unix(), claims.IssuedAt.Unix())
	assert.Equal(t, fixedTime.Add(time.Hour).Unix(), claims.ExpiresAt.Unix())
	assert.NotEmpty(t, claims.ID)
}

func TestValidateTokenErrors(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()

	t.Run("expired token", func(t *testing.T) {
		t.Parallel()
		issuing := NewTestJWTService(testSecret, time.Hour, fixedClock(fixedTime))
		token, err := issuing.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		validating := NewTestJWTService(testSecret, time.Hour, fixedClock(fixedTime.Add(2*time.Hour)))
		_, err = validating.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("wrong secret", func(t *testing.T) {
		t.Parallel()
		issuing := NewTestJWTService(testSecret, time.Hour, fixedClock(fixedTime))
		token, err := issuing.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		validating := NewTestJWTService("another-secret-that-is-also-long-enough", time.Hour, fixedClock(fixedTime))
		_, err = validating.ValidateToken(context.Background(), token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("garbage token", func(t *testing.T) {
		t.Parallel()
		svc := NewTestJWTService(testSecret, time.Hour, fixedClock(fixedTime))
		_, err := svc.ValidateToken(context.Background(), "not.a.token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("refresh token rejected as access token", func(t *testing.T) {
		t.Parallel()
		svc := NewTestJWTService(testSecret, time.Hour, fixedClock(fixedTime))
		refreshToken, err := svc.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		_, err = svc.ValidateToken(context.Background(), refreshToken)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	userID := uuid.New()
	svc := NewTestJWTService(testSecret, time.Hour, fixedClock(fixedTime))

	refreshToken, err := svc.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(context.Background(), refreshToken)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, tokenTypeRefresh, claims.TokenType)

	// An access token does not pass refresh validation.
	accessToken, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	_, err = svc.ValidateRefreshToken(context.Background(), accessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestExpiredRefreshTokenError(t *testing.T) {
	t.Parallel()

	fixedTime := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	svc := NewTestJWTService(testSecret, time.Hour, fixedClock(fixedTime))
	refreshToken, err := svc.GenerateRefreshToken(context.Background(), uuid.New())
	require.NoError(t, err)

	// Refresh lifetime in the test service is twice the access lifetime.
	later := NewTestJWTService(testSecret, time.Hour, fixedClock(fixedTime.Add(3*time.Hour)))
	_, err = later.ValidateRefreshToken(context.Background(), refreshToken)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
}
