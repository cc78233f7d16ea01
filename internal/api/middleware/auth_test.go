package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tickdo/tickdo-api/internal/config"
	"github.com/tickdo/tickdo-api/internal/service/auth"
)

func newTestJWTService(t *testing.T) auth.JWTService {
	t.Helper()
	svc, err := auth.NewJWTService(config.AuthConfig{
		JWTSecret:                   "0123456789abcdef0123456789abcdef",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
		RememberMeLifetimeMinutes:   43200,
	})
	require.NoError(t, err)
	return svc
}

// signStaleAccessToken hand-signs an access token whose expiry lies well
// outside the clock skew window.
func signStaleAccessToken(t *testing.T, userID uuid.UUID) string {
	t.Helper()
	now := time.Now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"uid":  userID.String(),
		"type": "access",
		"sub":  userID.String(),
		"iat":  now.Add(-4 * time.Hour).Unix(),
		"exp":  now.Add(-3 * time.Hour).Unix(),
	})
	signed, err := token.SignedString([]byte("0123456789abcdef0123456789abcdef"))
	require.NoError(t, err)
	return signed
}

// captureHandler records whether it ran and which user the context carried.
type captureHandler struct {
	called bool
	userID uuid.UUID
	hasID  bool
}

func (c *captureHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.called = true
	c.userID, c.hasID = GetUserID(r)
	w.WriteHeader(http.StatusOK)
}

func errorMessage(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body struct {
		Error string `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	return body.Error
}

func TestAuthenticateValidToken(t *testing.T) {
	svc := newTestJWTService(t)
	mw := NewAuthMiddleware(svc)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)

	next := &captureHandler{}
	req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rr := httptest.NewRecorder()

	mw.Authenticate(next).ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	require.True(t, next.called)
	require.True(t, next.hasID)
	assert.Equal(t, userID, next.userID)
}

func TestAuthenticateRejections(t *testing.T) {
	svc := newTestJWTService(t)
	mw := NewAuthMiddleware(svc)
	userID := uuid.New()

	refreshToken, err := svc.GenerateRefreshToken(context.Background(), userID, false)
	require.NoError(t, err)

	tests := []struct {
		name        string
		authHeader  string
		wantMessage string
	}{
		{
			name:        "missing header",
			authHeader:  "",
			wantMessage: "Authorization header required",
		},
		{
			name:        "wrong scheme",
			authHeader:  "Basic dXNlcjpwYXNz",
			wantMessage: "Invalid authorization format",
		},
		{
			name:        "garbage token",
			authHeader:  "Bearer not.a.token",
			wantMessage: "Invalid token",
		},
		{
			name:        "refresh token in the access slot",
			authHeader:  "Bearer " + refreshToken,
			wantMessage: "Invalid token",
		},
		{
			name:        "expired token",
			authHeader:  "Bearer " + signStaleAccessToken(t, userID),
			wantMessage: "Token expired",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			next := &captureHandler{}
			req := httptest.NewRequest(http.MethodGet, "/api/tasks", nil)
			if tc.authHeader != "" {
				req.Header.Set("Authorization", tc.authHeader)
			}
			rr := httptest.NewRecorder()

			mw.Authenticate(next).ServeHTTP(rr, req)

			assert.Equal(t, http.StatusUnauthorized, rr.Code)
			assert.Equal(t, tc.wantMessage, errorMessage(t, rr))
			assert.False(t, next.called)
		})
	}
}

func TestOptionalAuthenticate(t *testing.T) {
	svc := newTestJWTService(t)
	mw := NewAuthMiddleware(svc)
	userID := uuid.New()

	t.Run("no header passes through anonymously", func(t *testing.T) {
		next := &captureHandler{}
		req := httptest.NewRequest(http.MethodPost, "/api/auth/password", nil)
		rr := httptest.NewRecorder()

		mw.OptionalAuthenticate(next).ServeHTTP(rr, req)

		require.True(t, next.called)
		assert.False(t, next.hasID)
	})

	t.Run("valid header authenticates", func(t *testing.T) {
		token, err := svc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		next := &captureHandler{}
		req := httptest.NewRequest(http.MethodPost, "/api/auth/password", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rr := httptest.NewRecorder()

		mw.OptionalAuthenticate(next).ServeHTTP(rr, req)

		require.True(t, next.called)
		require.True(t, next.hasID)
		assert.Equal(t, userID, next.userID)
	})

	t.Run("broken header is still rejected", func(t *testing.T) {
		next := &captureHandler{}
		req := httptest.NewRequest(http.MethodPost, "/api/auth/password", nil)
		req.Header.Set("Authorization", "Bearer nonsense")
		rr := httptest.NewRecorder()

		mw.OptionalAuthenticate(next).ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.False(t, next.called)
	})
}
