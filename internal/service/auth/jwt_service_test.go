package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService(t *testing.T) *hmacJWTService {
	t.Helper()
	svc, err := NewJWTService(testAuthConfig())
	require.NoError(t, err)
	return svc.(*hmacJWTService)
}

func TestNewJWTServiceRejectsShortSecret(t *testing.T) {
	cfg := testAuthConfig()
	cfg.JWTSecret = "too-short"
	_, err := NewJWTService(cfg)
	assert.Error(t, err)
}

func TestAccessTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)
	userID := uuid.New()

	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
}

func TestAccessTokenExpiry(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)
	userID := uuid.New()

	issuedAt := time.Now()
	svc.timeFunc = func() time.Time { return issuedAt }
	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)

	// Past the lifetime plus the clock skew allowance.
	svc.timeFunc = func() time.Time {
		return issuedAt.Add(svc.tokenLifetime + svc.clockSkew + time.Minute)
	}
	_, err = svc.ValidateToken(ctx, token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestAccessTokenWithinClockSkewStillValid(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)
	userID := uuid.New()

	issuedAt := time.Now()
	svc.timeFunc = func() time.Time { return issuedAt }
	token, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)

	// Expired on paper but inside the allowed drift.
	svc.timeFunc = func() time.Time {
		return issuedAt.Add(svc.tokenLifetime + time.Minute)
	}
	_, err = svc.ValidateToken(ctx, token)
	assert.NoError(t, err)
}

func TestRefreshTokenRoundTrip(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(ctx, userID, false)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestRememberMeExtendsRefreshLifetime(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)
	userID := uuid.New()

	issuedAt := time.Now()
	svc.timeFunc = func() time.Time { return issuedAt }

	short, err := svc.GenerateRefreshToken(ctx, userID, false)
	require.NoError(t, err)
	long, err := svc.GenerateRefreshToken(ctx, userID, true)
	require.NoError(t, err)

	// Between the two lifetimes: the plain token is expired, the
	// remember-me token is not.
	svc.timeFunc = func() time.Time {
		return issuedAt.Add(svc.refreshTokenLifetime + time.Hour)
	}
	_, err = svc.ValidateRefreshToken(ctx, short)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
	_, err = svc.ValidateRefreshToken(ctx, long)
	assert.NoError(t, err)
}

func TestTokenTypeConfusionRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)
	userID := uuid.New()

	access, err := svc.GenerateToken(ctx, userID)
	require.NoError(t, err)
	refresh, err := svc.GenerateRefreshToken(ctx, userID, false)
	require.NoError(t, err)

	_, err = svc.ValidateToken(ctx, refresh)
	assert.ErrorIs(t, err, ErrWrongTokenType)
	_, err = svc.ValidateRefreshToken(ctx, access)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestTamperedSessionTokenRejected(t *testing.T) {
	ctx := context.Background()
	svc := newTestJWTService(t)

	token, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)

	tampered := token[:len(token)-2] + "xx"
	_, err = svc.ValidateToken(ctx, tampered)
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateToken(ctx, "garbage")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestAccessTokenLifetimeReported(t *testing.T) {
	svc := newTestJWTService(t)
	assert.Equal(t, 60*time.Minute, svc.AccessTokenLifetime())
}
