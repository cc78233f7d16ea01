package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tickdo/tickdo-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store. The user's HashedPassword must
	// already be set; plaintext passwords never reach the store layer.
	// Returns ErrEmailExists or ErrNicknameExists if either unique field is
	// already taken, including when the conflict only surfaces as a
	// unique-constraint violation at insert time.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByEmail retrieves a user by their email address (exact match).
	// Returns ErrUserNotFound if the user does not exist.
	GetByEmail(ctx context.Context, email string) (*domain.User, error)

	// GetByNickname retrieves a user by their nickname (exact match).
	// Returns ErrUserNotFound if the user does not exist.
	GetByNickname(ctx context.Context, nickname string) (*domain.User, error)

	// SetConfirmed marks the user's email address as confirmed.
	// Returns ErrUserNotFound if the user does not exist.
	SetConfirmed(ctx context.Context, id uuid.UUID) error

	// UpdatePassword replaces the stored password hash.
	// Returns ErrUserNotFound if the user does not exist.
	UpdatePassword(ctx context.Context, id uuid.UUID, hashedPassword string) error

	// WithTx returns a UserStore bound to the given transaction so multiple
	// operations can commit or roll back together.
	WithTx(tx *sql.Tx) UserStore
}
