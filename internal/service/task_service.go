package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tickdo/tickdo-api/internal/domain"
	"github.com/tickdo/tickdo-api/internal/platform/logger"
	"github.com/tickdo/tickdo-api/internal/store"
)

// DueDateFormat is the wire format for task due dates.
const DueDateFormat = "2006-01-02"

// TaskForm carries the user-editable task fields for create and update.
// Due is a YYYY-MM-DD string as submitted by clients.
type TaskForm struct {
	Name        string
	Description string
	Importance  int
	Due         string
}

// TaskService implements task editing and listing for a single owner.
type TaskService struct {
	tasks    store.TaskStore
	settings store.SettingsStore
	timeFunc func() time.Time // Injectable for testing
}

// NewTaskService creates a TaskService.
func NewTaskService(tasks store.TaskStore, settings store.SettingsStore) (*TaskService, error) {
	if tasks == nil {
		return nil, fmt.Errorf("task store cannot be nil")
	}
	if settings == nil {
		return nil, fmt.Errorf("settings store cannot be nil")
	}
	return &TaskService{
		tasks:    tasks,
		settings: settings,
		timeFunc: time.Now,
	}, nil
}

// Upsert creates a task when taskID is uuid.Nil and updates the existing
// task otherwise. Create and update share one validation path; a validation
// failure persists nothing. Updating keeps the owner and done flag and
// refreshes the creation timestamp so the task surfaces at the top of the
// listing again.
func (s *TaskService) Upsert(ctx context.Context, ownerID, taskID uuid.UUID, form TaskForm) (*domain.Task, error) {
	log := logger.FromContext(ctx)

	due, errs := validateTaskForm(form)
	if len(errs) > 0 {
		return nil, errs
	}

	if taskID == uuid.Nil {
		task, err := domain.NewTask(ownerID, form.Name, form.Description, form.Importance, due)
		if err != nil {
			return nil, err
		}

		if err := s.tasks.Create(ctx, task); err != nil {
			return nil, err
		}

		log.Debug("task created",
			"task_id", task.ID,
			"user_id", ownerID)
		return task, nil
	}

	task, err := s.loadOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	task.Name = form.Name
	task.Description = form.Description
	task.Importance = form.Importance
	task.Due = due
	task.CreatedAt = s.timeFunc().UTC()

	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	log.Debug("task updated",
		"task_id", task.ID,
		"user_id", ownerID)
	return task, nil
}

// Delete removes the owner's task. A task owned by someone else fails with
// ErrForbidden; the task stays untouched.
func (s *TaskService) Delete(ctx context.Context, ownerID, taskID uuid.UUID) error {
	log := logger.FromContext(ctx)

	if _, err := s.loadOwned(ctx, ownerID, taskID); err != nil {
		return err
	}

	if err := s.tasks.Delete(ctx, taskID); err != nil {
		return err
	}

	log.Debug("task deleted",
		"task_id", taskID,
		"user_id", ownerID)
	return nil
}

// ToggleDone flips the done flag of the owner's task and returns the
// updated task.
func (s *TaskService) ToggleDone(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.loadOwned(ctx, ownerID, taskID)
	if err != nil {
		return nil, err
	}

	task.Done = !task.Done
	if err := s.tasks.Update(ctx, task); err != nil {
		return nil, err
	}
	return task, nil
}

// List returns the owner's tasks filtered by their persisted show_done
// setting, newest first, along with the filter value applied. A missing
// settings row falls back to showing open tasks.
func (s *TaskService) List(ctx context.Context, ownerID uuid.UUID) ([]*domain.Task, bool, error) {
	showDone := false
	settings, err := s.settings.GetByUser(ctx, ownerID)
	switch {
	case err == nil:
		showDone = settings.ShowDone
	case errors.Is(err, store.ErrSettingsNotFound):
		// Confirmed accounts always have a row; tolerate its absence.
	default:
		return nil, false, fmt.Errorf("failed to load listing filter: %w", err)
	}

	tasks, err := s.tasks.ListByOwner(ctx, ownerID, showDone)
	if err != nil {
		return nil, false, err
	}
	return tasks, showDone, nil
}

// ToggleDoneFilter flips the owner's persisted listing filter and returns
// the new value.
func (s *TaskService) ToggleDoneFilter(ctx context.Context, ownerID uuid.UUID) (bool, error) {
	settings, err := s.settings.GetByUser(ctx, ownerID)
	if err != nil {
		return false, err
	}

	next := !settings.ShowDone
	if err := s.settings.SetShowDone(ctx, ownerID, next); err != nil {
		return false, err
	}
	return next, nil
}

// loadOwned fetches a task and enforces ownership.
func (s *TaskService) loadOwned(ctx context.Context, ownerID, taskID uuid.UUID) (*domain.Task, error) {
	task, err := s.tasks.GetByID(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if task.OwnerID != ownerID {
		logger.FromContext(ctx).Warn("cross-owner task access refused",
			"task_id", taskID,
			"user_id", ownerID)
		return nil, ErrForbidden
	}
	return task, nil
}

// validateTaskForm accumulates field-level failures and parses the due date.
func validateTaskForm(form TaskForm) (time.Time, domain.ValidationErrors) {
	var errs domain.ValidationErrors

	switch l := len(form.Name); {
	case l == 0:
		errs = append(errs, domain.NewValidationError(
			"name", "cannot be empty", domain.ErrEmptyTaskName))
	case l > domain.MaxTaskNameLen:
		errs = append(errs, domain.NewValidationError(
			"name", "must be at most 50 characters long", domain.ErrTaskNameTooLong))
	}

	if len(form.Description) > domain.MaxDescriptionLen {
		errs = append(errs, domain.NewValidationError(
			"description", "must be at most 600 characters long", domain.ErrDescriptionTooLong))
	}

	if form.Importance < domain.MinImportance || form.Importance > domain.MaxImportance {
		errs = append(errs, domain.NewValidationError(
			"importance", "must be 1, 2 or 3", domain.ErrInvalidImportance))
	}

	var due time.Time
	if form.Due == "" {
		errs = append(errs, domain.NewValidationError(
			"due", "cannot be empty", domain.ErrEmptyDueDate))
	} else {
		parsed, err := time.Parse(DueDateFormat, form.Due)
		if err != nil {
			errs = append(errs, domain.NewValidationError(
				"due", "must be a date formatted YYYY-MM-DD", domain.ErrInvalidDueDate))
		} else {
			due = parsed
		}
	}

	return due, errs
}
