package auth

import "errors"

// Common authentication service errors
var (
	// ErrInvalidToken indicates the token format is invalid, its signature
	// doesn't match, or it was issued for a different purpose.
	ErrInvalidToken = errors.New("invalid authentication token")

	// ErrExpiredToken indicates the token signature is valid but the token
	// is older than the allowed maximum age.
	ErrExpiredToken = errors.New("authentication token has expired")

	// ErrTokenNotYetValid indicates the token is not yet valid (nbf claim in the future)
	ErrTokenNotYetValid = errors.New("authentication token not yet valid")

	// ErrExpiredRefreshToken indicates the refresh token has expired.
	ErrExpiredRefreshToken = errors.New("refresh token has expired")

	// ErrInvalidRefreshToken indicates the refresh token is malformed or forged.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")

	// ErrWrongTokenType indicates a token of one type was presented where
	// another was required (e.g. a refresh token on an access endpoint).
	ErrWrongTokenType = errors.New("wrong token type")

	// ErrMissingToken indicates a token was expected but not provided
	ErrMissingToken = errors.New("authentication token is missing")
)
