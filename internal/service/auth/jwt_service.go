package auth

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// JWTService defines operations for managing JWT session tokens.
type JWTService interface {
	// GenerateToken creates a signed JWT access token for the user.
	GenerateToken(ctx context.Context, userID uuid.UUID) (string, error)

	// ValidateToken validates an access token string and extracts the claims.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)

	// GenerateRefreshToken creates a signed JWT refresh token for the user.
	// With remember set, the token gets the extended remember-me lifetime so
	// the session survives across browser restarts.
	GenerateRefreshToken(ctx context.Context, userID uuid.UUID, remember bool) (string, error)

	// ValidateRefreshToken validates a refresh token string and extracts the
	// claims. Returns ErrExpiredRefreshToken / ErrInvalidRefreshToken /
	// ErrWrongTokenType as appropriate.
	ValidateRefreshToken(ctx context.Context, tokenString string) (*Claims, error)

	// AccessTokenLifetime reports the configured access token lifetime, used
	// by handlers to populate expiry fields in responses.
	AccessTokenLifetime() time.Duration
}

// Claims represents the custom claims structure for the session tokens.
type Claims struct {
	// UserID is the unique identifier of the user the token was issued for.
	UserID uuid.UUID `json:"uid,omitempty"`

	// TokenType indicates the purpose of the token ("access" or "refresh").
	// Used to prevent token misuse across different contexts.
	TokenType string `json:"type,omitempty"`

	// Standard registered JWT claims
	Subject   string    `json:"sub,omitempty"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
