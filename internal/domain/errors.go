package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Common domain errors used across the application.
var (
	// ErrValidation is returned when a domain entity fails validation.
	// This is often wrapped with a more specific error message.
	ErrValidation = errors.New("validation failed")

	// ErrInvalidID is returned when an ID is malformed or invalid.
	ErrInvalidID = errors.New("invalid ID")

	// ErrEmptyUserID is returned when a user ID is missing.
	ErrEmptyUserID = errors.New("user ID cannot be empty")

	// ErrInvalidEmail is returned when an email address is malformed.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrEmptyEmail is returned when an email address is missing.
	ErrEmptyEmail = errors.New("email cannot be empty")

	// ErrInvalidNickname is returned when a nickname is outside 4-10 characters.
	ErrInvalidNickname = errors.New("nickname must be 4-10 characters long")

	// ErrPasswordTooShort is returned when a password is below the minimum length.
	ErrPasswordTooShort = errors.New("password must be at least 8 characters long")

	// ErrPasswordTooLong is returned when a password exceeds bcrypt's limit.
	ErrPasswordTooLong = errors.New("password must be at most 72 characters long")

	// ErrEmptyPassword is returned when no password material is present at all.
	ErrEmptyPassword = errors.New("password cannot be empty")

	// ErrEmptyTaskName is returned when a task has no name.
	ErrEmptyTaskName = errors.New("task name cannot be empty")

	// ErrTaskNameTooLong is returned when a task name exceeds the column limit.
	ErrTaskNameTooLong = errors.New("task name must be at most 50 characters long")

	// ErrDescriptionTooLong is returned when a description exceeds the column limit.
	ErrDescriptionTooLong = errors.New("description must be at most 600 characters long")

	// ErrInvalidImportance is returned when importance is outside {1,2,3}.
	ErrInvalidImportance = errors.New("importance must be 1, 2 or 3")

	// ErrEmptyDueDate is returned when a task has no due date.
	ErrEmptyDueDate = errors.New("due date cannot be empty")

	// ErrInvalidDueDate is returned when a submitted due date is not a
	// YYYY-MM-DD value.
	ErrInvalidDueDate = errors.New("due date must be formatted YYYY-MM-DD")

	// ErrInvalidColor is returned when a settings color is not a hex color value.
	ErrInvalidColor = errors.New("color must be a hex value like #adff2f")

	// ErrUnauthorized is returned when an operation is not permitted.
	ErrUnauthorized = errors.New("unauthorized operation")
)

// ValidationError describes a single field-level validation failure. The form
// handling layer collects these so a failed submit can report every broken
// field at once instead of the first one found.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

// Error implements the error interface for ValidationError.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap returns the wrapped error to support errors.Is/errors.As.
func (e *ValidationError) Unwrap() error {
	return e.Err
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string, err error) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Err:     err,
	}
}

// ValidationErrors aggregates field-level failures from one submission.
type ValidationErrors []*ValidationError

// Error implements the error interface for ValidationErrors.
func (e ValidationErrors) Error() string {
	msgs := make([]string, 0, len(e))
	for _, ve := range e {
		msgs = append(msgs, ve.Error())
	}
	return strings.Join(msgs, "; ")
}

// Unwrap marks every ValidationErrors value as wrapping ErrValidation so
// callers can detect the whole class with errors.Is.
func (e ValidationErrors) Unwrap() error {
	return ErrValidation
}
