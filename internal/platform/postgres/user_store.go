package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/tickdo/tickdo-api/internal/domain"
	"github.com/tickdo/tickdo-api/internal/platform/logger"
	"github.com/tickdo/tickdo-api/internal/store"
)

// Unique constraint names from the users table.
const (
	usersEmailConstraint    = "users_email_key"
	usersNicknameConstraint = "users_nickname_key"
)

// PostgresUserStore implements the store.UserStore interface
// using a PostgreSQL database as the storage backend.
type PostgresUserStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresUserStore creates a new PostgreSQL implementation of the
// UserStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
func NewPostgresUserStore(db store.DBTX, logger *slog.Logger) *PostgresUserStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresUserStore{
		db:     db,
		logger: logger.With(slog.String("component", "user_store")),
	}
}

// Ensure PostgresUserStore implements store.UserStore interface
var _ store.UserStore = (*PostgresUserStore)(nil)

// Create implements store.UserStore.Create
// It maps unique violations on email and nickname to the corresponding
// duplicate errors so registration races resolve cleanly at commit.
func (s *PostgresUserStore) Create(ctx context.Context, user *domain.User) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := user.Validate(); err != nil {
		log.Warn("user validation failed during create",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	query := `
		INSERT INTO users (id, nickname, email, hashed_password, confirmed, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := s.db.ExecContext(
		ctx,
		query,
		user.ID,
		user.Nickname,
		user.Email,
		user.HashedPassword,
		user.Confirmed,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if isUniqueViolation(err, usersEmailConstraint) {
			log.Debug("duplicate email during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrEmailExists
		}
		if isUniqueViolation(err, usersNicknameConstraint) {
			log.Debug("duplicate nickname during user creation",
				slog.String("user_id", user.ID.String()))
			return store.ErrNicknameExists
		}

		log.Error("failed to create user",
			slog.String("error", err.Error()),
			slog.String("user_id", user.ID.String()))
		return err
	}

	log.Info("user created successfully",
		slog.String("user_id", user.ID.String()))
	return nil
}

// GetByID implements store.UserStore.GetByID
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	return s.getByField(ctx, "id", id)
}

// GetByEmail implements store.UserStore.GetByEmail
// Lookup is an exact match; returns store.ErrUserNotFound when absent.
func (s *PostgresUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.getByField(ctx, "email", email)
}

// GetByNickname implements store.UserStore.GetByNickname
func (s *PostgresUserStore) GetByNickname(ctx context.Context, nickname string) (*domain.User, error) {
	return s.getByField(ctx, "nickname", nickname)
}

// getByField runs the shared single-row lookup. field is always one of the
// fixed column names above, never caller input.
func (s *PostgresUserStore) getByField(ctx context.Context, field string, value any) (*domain.User, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT id, nickname, email, hashed_password, confirmed, created_at, updated_at
		FROM users
		WHERE ` + field + ` = $1
	`

	var user domain.User
	err := s.db.QueryRowContext(ctx, query, value).Scan(
		&user.ID,
		&user.Nickname,
		&user.Email,
		&user.HashedPassword,
		&user.Confirmed,
		&user.CreatedAt,
		&user.UpdatedAt,
	)

	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("user not found", slog.String("lookup_field", field))
			return nil, store.ErrUserNotFound
		}
		log.Error("failed to get user",
			slog.String("error", err.Error()),
			slog.String("lookup_field", field))
		return nil, err
	}

	return &user, nil
}

// SetConfirmed implements store.UserStore.SetConfirmed
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) SetConfirmed(ctx context.Context, id uuid.UUID) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		UPDATE users
		SET confirmed = TRUE, updated_at = $1
		WHERE id = $2
	`

	result, err := s.db.ExecContext(ctx, query, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to confirm user",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("user not found for confirmation",
			slog.String("user_id", id.String()))
		return store.ErrUserNotFound
	}

	log.Info("user confirmed successfully",
		slog.String("user_id", id.String()))
	return nil
}

// UpdatePassword implements store.UserStore.UpdatePassword
// Returns store.ErrUserNotFound if the user does not exist.
func (s *PostgresUserStore) UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if hashedPassword == "" {
		return domain.ErrEmptyPassword
	}

	query := `
		UPDATE users
		SET hashed_password = $1, updated_at = $2
		WHERE id = $3
	`

	result, err := s.db.ExecContext(ctx, query, hashedPassword, time.Now().UTC(), id)
	if err != nil {
		log.Error("failed to update password",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.String("user_id", id.String()))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("user not found for password update",
			slog.String("user_id", id.String()))
		return store.ErrUserNotFound
	}

	log.Info("password updated successfully",
		slog.String("user_id", id.String()))
	return nil
}

// WithTx implements store.UserStore.WithTx
func (s *PostgresUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return &PostgresUserStore{
		db:     tx,
		logger: s.logger,
	}
}
