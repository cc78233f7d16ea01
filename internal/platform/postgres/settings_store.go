package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tickdo/tickdo-api/internal/domain"
	"github.com/tickdo/tickdo-api/internal/platform/logger"
	"github.com/tickdo/tickdo-api/internal/store"
)

// PostgresSettingsStore implements the store.SettingsStore interface
// using a PostgreSQL database as the storage backend.
type PostgresSettingsStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresSettingsStore creates a new PostgreSQL implementation of the
// SettingsStore interface.
func NewPostgresSettingsStore(db store.DBTX, logger *slog.Logger) *PostgresSettingsStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresSettingsStore{
		db:     db,
		logger: logger.With(slog.String("component", "settings_store")),
	}
}

// Ensure PostgresSettingsStore implements store.SettingsStore interface
var _ store.SettingsStore = (*PostgresSettingsStore)(nil)

// Create implements store.SettingsStore.Create
// The user_id primary key enforces the one-row-per-user invariant; a second
// insert maps to store.ErrSettingsExist.
func (s *PostgresSettingsStore) Create(ctx context.Context, settings *domain.Settings) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := settings.Validate(); err != nil {
		log.Warn("settings validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return err
	}

	query := `
		INSERT INTO settings (user_id, importance1, importance2, importance3, show_done, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		settings.UserID,
		settings.Importance1,
		settings.Importance2,
		settings.Importance3,
		settings.ShowDone,
		settings.CreatedAt,
		settings.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, "") {
			log.Debug("settings row already exists",
				slog.String("user_id", settings.UserID.String()))
			return store.ErrSettingsExist
		}
		if isForeignKeyViolation(err) {
			log.Warn("foreign key violation during settings creation",
				slog.String("user_id", settings.UserID.String()))
			return fmt.Errorf("%w: user with ID %s not found",
				store.ErrInvalidEntity, settings.UserID)
		}

		log.Error("failed to create settings",
			slog.String("error", err.Error()),
			slog.String("user_id", settings.UserID.String()))
		return err
	}

	log.Info("settings created successfully",
		slog.String("user_id", settings.UserID.String()))
	return nil
}

// GetByUser implements store.SettingsStore.GetByUser
// Returns store.ErrSettingsNotFound if the row does not exist.
func (s *PostgresSettingsStore) GetByUser(ctx context.Context, userID uuid.UUID) (*domain.Settings, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT user_id, importance1, importance2, importance3, show_done, created_at, updated_at
		FROM settings
		WHERE user_id = $1
	`

	var settings domain.Settings
	err := s.db.QueryRowContext(ctx, query, userID).Scan(
		&settings.UserID,
		&settings.Importance1,
		&settings.Importance2,
		&settings.Importance3,
		&settings.ShowDone,
		&settings.CreatedAt,
		&settings.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("settings not found", slog.String("user_id", userID.String()))
			return nil, store.ErrSettingsNotFound
		}
		log.Error("failed to get settings",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return nil, err
	}

	return &settings, nil
}

// UpdateColors implements store.SettingsStore.UpdateColors
// Returns store.ErrSettingsNotFound if the row does not exist.
func (s *PostgresSettingsStore) UpdateColors(
	ctx context.Context,
	userID uuid.UUID,
	importance1, importance2, importance3 string,
) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Run the new colors through domain validation before touching the row.
	candidate := &domain.Settings{
		UserID:      userID,
		Importance1: importance1,
		Importance2: importance2,
		Importance3: importance3,
	}
	if err := candidate.Validate(); err != nil {
		log.Warn("settings validation failed during color update",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	query := `
		UPDATE settings
		SET importance1 = $1, importance2 = $2, importance3 = $3, updated_at = $4
		WHERE user_id = $5
	`

	result, err := s.db.ExecContext(
		ctx,
		query,
		importance1,
		importance2,
		importance3,
		time.Now().UTC(),
		userID,
	)

	if err != nil {
		log.Error("failed to update settings colors",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("settings not found for color update",
			slog.String("user_id", userID.String()))
		return store.ErrSettingsNotFound
	}

	log.Info("settings colors updated successfully",
		slog.String("user_id", userID.String()))
	return nil
}

// SetShowDone implements store.SettingsStore.SetShowDone
// Returns store.ErrSettingsNotFound if the row does not exist.
func (s *PostgresSettingsStore) SetShowDone(ctx context.Context, userID uuid.UUID, showDone bool) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE settings
		SET show_done = $1, updated_at = $2
		WHERE user_id = $3
	`

	result, err := s.db.ExecContext(ctx, query, showDone, time.Now().UTC(), userID)
	if err != nil {
		log.Error("failed to update show_done",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", userID.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("settings not found for show_done update",
			slog.String("user_id", userID.String()))
		return store.ErrSettingsNotFound
	}

	return nil
}

// WithTx implements store.SettingsStore.WithTx
func (s *PostgresSettingsStore) WithTx(tx *sql.Tx) store.SettingsStore {
	return &PostgresSettingsStore{
		db:     tx,
		logger: s.logger,
	}
}
