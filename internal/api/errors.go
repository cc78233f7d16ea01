package api

import (
	"errors"
	"net/http"

	"github.com/tickdo/tickdo-api/internal/api/shared"
	"github.com/tickdo/tickdo-api/internal/domain"
	"github.com/tickdo/tickdo-api/internal/service"
	"github.com/tickdo/tickdo-api/internal/service/auth"
	"github.com/tickdo/tickdo-api/internal/store"
)

// MapErrorToStatusCode maps internal errors to HTTP status codes so
// internal error types never leak to clients.
func MapErrorToStatusCode(err error) int {
	switch {
	// Authentication errors. Unknown account and wrong password share a
	// status as well as a message.
	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrExpiredRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType),
		errors.Is(err, service.ErrNoSuchAccount),
		errors.Is(err, service.ErrWrongCredentials),
		errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized

	// Authorization errors
	case errors.Is(err, service.ErrForbidden),
		errors.Is(err, service.ErrNotConfirmed):
		return http.StatusForbidden

	// Not found errors
	case errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound

	// Conflict errors
	case errors.Is(err, store.ErrDuplicate):
		return http.StatusConflict

	// Bad request errors
	case errors.Is(err, service.ErrWrongOldPassword),
		errors.Is(err, domain.ErrValidation),
		errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidID):
		return http.StatusBadRequest

	// Default: internal server error
	default:
		return http.StatusInternalServerError
	}
}

// GetSafeErrorMessage returns a sanitized, user-friendly error message for
// the error. Internal details never pass through.
func GetSafeErrorMessage(err error) string {
	if err == nil {
		return "An unexpected error occurred"
	}

	switch {
	case errors.Is(err, service.ErrNoSuchAccount),
		errors.Is(err, service.ErrWrongCredentials):
		// One message for both so responses do not reveal which emails
		// are registered.
		return "Wrong password or email"

	case errors.Is(err, service.ErrNotConfirmed):
		return "Please confirm your email address first"

	case errors.Is(err, service.ErrWrongOldPassword):
		return "Old password is incorrect"

	case errors.Is(err, service.ErrForbidden):
		return "You do not own this task"

	case errors.Is(err, auth.ErrExpiredToken),
		errors.Is(err, auth.ErrExpiredRefreshToken):
		return "Token expired"

	case errors.Is(err, auth.ErrInvalidToken),
		errors.Is(err, auth.ErrTokenNotYetValid),
		errors.Is(err, auth.ErrInvalidRefreshToken),
		errors.Is(err, auth.ErrWrongTokenType):
		return "Invalid token"

	case errors.Is(err, domain.ErrUnauthorized):
		return "Authentication required"

	case errors.Is(err, store.ErrTaskNotFound):
		return "Task not found"

	case errors.Is(err, store.ErrUserNotFound):
		return "User not found"

	case errors.Is(err, store.ErrSettingsNotFound):
		return "Settings not found"

	case errors.Is(err, store.ErrEmailExists):
		return "Email already registered"

	case errors.Is(err, store.ErrNicknameExists):
		return "Nickname already taken"

	case errors.Is(err, domain.ErrValidation):
		return "Validation failed"

	case errors.Is(err, store.ErrInvalidEntity),
		errors.Is(err, domain.ErrInvalidID):
		return "Invalid request data"

	default:
		return "An unexpected error occurred"
	}
}

// HandleAPIError translates a service error into an HTTP error response.
// Validation failures include per-field messages; defaultMessage, when
// non-empty, overrides the mapped message.
func HandleAPIError(w http.ResponseWriter, r *http.Request, err error, defaultMessage string) {
	status := MapErrorToStatusCode(err)

	message := GetSafeErrorMessage(err)
	if defaultMessage != "" && status == http.StatusInternalServerError {
		message = defaultMessage
	}

	var fieldErrs domain.ValidationErrors
	if errors.As(err, &fieldErrs) {
		fields := make(map[string]string, len(fieldErrs))
		for _, ve := range fieldErrs {
			fields[ve.Field] = ve.Message
		}
		shared.RespondWithFieldErrors(w, r, status, message, fields)
		return
	}

	if status >= http.StatusInternalServerError {
		shared.RespondWithErrorAndLog(w, r, status, message, err)
		return
	}
	shared.RespondWithError(w, r, status, message)
}
