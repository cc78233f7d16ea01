package service

import "errors"

// Service-level errors surfaced to the API layer. Persistence and token
// errors (store.ErrEmailExists, store.ErrTaskNotFound, auth.ErrInvalidToken,
// auth.ErrExpiredToken, ...) pass through unchanged; these cover the cases
// only the service layer can decide.
var (
	// ErrNoSuchAccount is returned when no account exists for the given
	// email. Handlers present it with the same client message as
	// ErrWrongCredentials so responses do not reveal which emails are
	// registered; the two stay distinct internally for logging.
	ErrNoSuchAccount = errors.New("no account with that email address")

	// ErrNotConfirmed is returned when a login is attempted before the
	// account's email address has been confirmed.
	ErrNotConfirmed = errors.New("account email address not confirmed")

	// ErrWrongCredentials is returned when the password does not match.
	ErrWrongCredentials = errors.New("wrong credentials")

	// ErrWrongOldPassword is returned when an authenticated password change
	// presents an old password that does not verify.
	ErrWrongOldPassword = errors.New("old password is incorrect")

	// ErrForbidden is returned when a user operates on a resource owned by
	// someone else.
	ErrForbidden = errors.New("operation not permitted")
)
