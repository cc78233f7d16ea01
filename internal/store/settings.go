package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tickdo/tickdo-api/internal/domain"
)

// SettingsStore defines the interface for per-user settings persistence.
type SettingsStore interface {
	// Create inserts the user's settings row. Exactly one row may exist per
	// user; a second insert returns ErrSettingsExist.
	Create(ctx context.Context, settings *domain.Settings) error

	// GetByUser retrieves the settings row for the given user.
	// Returns ErrSettingsNotFound if none exists.
	GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Settings, error)

	// UpdateColors overwrites the three importance colors.
	// Returns ErrSettingsNotFound if the row does not exist.
	UpdateColors(ctx context.Context, userID uuid.UUID, importance1, importance2, importance3 string) error

	// SetShowDone persists the listing filter toggle.
	// Returns ErrSettingsNotFound if the row does not exist.
	SetShowDone(ctx context.Context, userID uuid.UUID, showDone bool) error

	// WithTx returns a SettingsStore bound to the given transaction.
	WithTx(tx *sql.Tx) SettingsStore
}
