package auth

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/tickdo/tickdo-api/internal/config"
	"github.com/tickdo/tickdo-api/internal/platform/logger"
)

// TokenPurpose scopes a mail token to exactly one workflow. A token issued
// for one purpose never verifies under another.
type TokenPurpose string

// Supported mail token purposes.
const (
	PurposeConfirmAccount TokenPurpose = "confirm-account"
	PurposeResetPassword  TokenPurpose = "reset-password"
)

// MailTokenService issues and verifies the signed, purpose-scoped tokens
// embedded in confirmation and password-reset email links. Tokens are
// stateless and self-verifying: nothing is stored server-side, so
// verification needs no storage at all.
type MailTokenService interface {
	// Issue produces a tamper-evident token binding email, purpose and
	// issue time. It has no side effects beyond token construction.
	Issue(ctx context.Context, email string, purpose TokenPurpose) (string, error)

	// Verify checks signature integrity and issue-time freshness, returning
	// the email the token was issued for. Returns ErrExpiredToken when the
	// signature is valid but the token is older than maxAge, and
	// ErrInvalidToken for corrupted, forged or wrong-purpose tokens.
	// A maxAge of zero disables the age check.
	Verify(ctx context.Context, token string, purpose TokenPurpose, maxAge time.Duration) (string, error)
}

// hmacMailTokenService signs mail tokens with HMAC-SHA256 over a key derived
// from the server secret and a secondary salt.
type hmacMailTokenService struct {
	signingKey []byte
	timeFunc   func() time.Time // Injectable for testing
}

// mailTokenClaims is the payload of a mail token. There is deliberately no
// exp claim: the acceptable age is the verifier's decision, passed per call,
// so the same token service serves both the long-lived confirmation flow and
// the short-lived reset flow.
type mailTokenClaims struct {
	Email   string `json:"eml"`
	Purpose string `json:"pps"`
	jwt.RegisteredClaims
}

// Ensure hmacMailTokenService implements MailTokenService interface
var _ MailTokenService = (*hmacMailTokenService)(nil)

// NewMailTokenService creates a mail token service from the auth config.
func NewMailTokenService(cfg config.AuthConfig) (MailTokenService, error) {
	if len(cfg.MailTokenSecret) < 32 {
		return nil, fmt.Errorf("mail token secret must be at least 32 characters")
	}
	if cfg.MailTokenSalt == "" {
		return nil, fmt.Errorf("mail token salt must not be empty")
	}

	return &hmacMailTokenService{
		signingKey: deriveSigningKey(cfg.MailTokenSecret, cfg.MailTokenSalt),
		timeFunc:   time.Now,
	}, nil
}

// deriveSigningKey mixes the secret with the salt so rotating the salt
// invalidates all outstanding mail tokens without changing the secret.
func deriveSigningKey(secret, salt string) []byte {
	sum := sha256.Sum256([]byte(secret + "\x00" + salt))
	return sum[:]
}

// Issue implements MailTokenService.Issue
func (s *hmacMailTokenService) Issue(ctx context.Context, email string, purpose TokenPurpose) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	claims := mailTokenClaims{
		Email:   email,
		Purpose: string(purpose),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signedToken, err := token.SignedString(s.signingKey)
	if err != nil {
		log.Error("failed to sign mail token",
			"error", err,
			"purpose", purpose)
		return "", fmt.Errorf("failed to sign mail token: %w", err)
	}

	return signedToken, nil
}

// Verify implements MailTokenService.Verify
func (s *hmacMailTokenService) Verify(
	ctx context.Context,
	tokenString string,
	purpose TokenPurpose,
	maxAge time.Duration,
) (string, error) {
	log := logger.FromContext(ctx)
	now := s.timeFunc()

	parserOpts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
		jwt.WithTimeFunc(func() time.Time {
			return now
		}),
	}

	token, err := jwt.ParseWithClaims(
		tokenString,
		&mailTokenClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return s.signingKey, nil
		},
		parserOpts...)

	if err != nil {
		if errors.Is(err, jwt.ErrTokenMalformed) {
			log.Debug("mail token verification failed: malformed token",
				"purpose", purpose)
		} else if errors.Is(err, jwt.ErrTokenSignatureInvalid) {
			log.Debug("mail token verification failed: invalid signature",
				"purpose", purpose)
		} else {
			log.Debug("mail token verification failed: other validation error",
				"purpose", purpose,
				"error_type", fmt.Sprintf("%T", err))
		}
		return "", ErrInvalidToken
	}

	claims, ok := token.Claims.(*mailTokenClaims)
	if !ok || !token.Valid {
		log.Debug("mail token verification failed: invalid claims")
		return "", ErrInvalidToken
	}

	// Purpose mismatch is indistinguishable from forgery to the caller.
	if claims.Purpose != string(purpose) {
		log.Debug("mail token verification failed: wrong purpose",
			"expected", purpose,
			"actual", claims.Purpose)
		return "", ErrInvalidToken
	}

	if claims.IssuedAt == nil || claims.Email == "" {
		log.Debug("mail token verification failed: missing claims")
		return "", ErrInvalidToken
	}

	if maxAge > 0 && now.Sub(claims.IssuedAt.Time) > maxAge {
		log.Debug("mail token verification failed: token expired",
			"purpose", purpose,
			"issued_at", claims.IssuedAt.Time,
			"max_age", maxAge)
		return "", ErrExpiredToken
	}

	log.Debug("mail token verified successfully",
		"purpose", purpose)
	return claims.Email, nil
}
