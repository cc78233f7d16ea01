package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/tickdo/tickdo-api/internal/domain"
)

// TaskStore defines the interface for task data persistence.
type TaskStore interface {
	// Create saves a new task.
	// Returns ErrInvalidEntity if the owner does not exist.
	Create(ctx context.Context, task *domain.Task) error

	// GetByID retrieves a task by its unique ID.
	// Returns ErrTaskNotFound if the task does not exist.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Task, error)

	// Update overwrites name, description, importance, due date, done flag
	// and creation timestamp of an existing task. Ownership is never
	// reassigned. Returns ErrTaskNotFound if the task does not exist.
	Update(ctx context.Context, task *domain.Task) error

	// Delete removes a task by ID.
	// Returns ErrTaskNotFound if the task does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// ListByOwner returns the owner's tasks filtered by done flag, newest
	// first. Returns an empty slice when nothing matches.
	ListByOwner(ctx context.Context, ownerID uuid.UUID, done bool) ([]*domain.Task, error)

	// CountByOwner returns how many tasks the owner has, regardless of done
	// state.
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)

	// WithTx returns a TaskStore bound to the given transaction.
	WithTx(tx *sql.Tx) TaskStore
}
