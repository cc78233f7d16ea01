package domain

import (
	"time"

	"github.com/google/uuid"
)

// Column limits carried over from the original schema.
const (
	MaxTaskNameLen    = 50
	MaxDescriptionLen = 600
)

// Importance bounds. Each level maps to a display color in the owner's
// settings.
const (
	MinImportance = 1
	MaxImportance = 3
)

// Task is a single to-do item belonging to exactly one user.
type Task struct {
	ID          uuid.UUID `json:"id"`
	OwnerID     uuid.UUID `json:"owner_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Importance  int       `json:"importance"`
	Due         time.Time `json:"due"`
	Done        bool      `json:"done"`
	CreatedAt   time.Time `json:"created_at"`
}

// NewTask creates a Task owned by the given user, timestamped now.
// Returns an error if validation fails.
func NewTask(ownerID uuid.UUID, name, description string, importance int, due time.Time) (*Task, error) {
	task := &Task{
		ID:          uuid.New(),
		OwnerID:     ownerID,
		Name:        name,
		Description: description,
		Importance:  importance,
		Due:         due,
		Done:        false,
		CreatedAt:   time.Now().UTC(),
	}

	if err := task.Validate(); err != nil {
		return nil, err
	}

	return task, nil
}

// Validate checks if the Task has valid data.
// Returns an error if any field fails validation.
func (t *Task) Validate() error {
	if t.ID == uuid.Nil {
		return ErrInvalidID
	}

	if t.OwnerID == uuid.Nil {
		return ErrEmptyUserID
	}

	if t.Name == "" {
		return ErrEmptyTaskName
	}

	if len(t.Name) > MaxTaskNameLen {
		return ErrTaskNameTooLong
	}

	if len(t.Description) > MaxDescriptionLen {
		return ErrDescriptionTooLong
	}

	if t.Importance < MinImportance || t.Importance > MaxImportance {
		return ErrInvalidImportance
	}

	if t.Due.IsZero() {
		return ErrEmptyDueDate
	}

	return nil
}
