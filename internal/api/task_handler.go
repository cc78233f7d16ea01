package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/tickdo/tickdo-api/internal/api/shared"
	"github.com/tickdo/tickdo-api/internal/service"
)

// TaskHandler handles task editing and listing API requests. Every route
// requires authentication; the owner always comes from the session, never
// from the request body.
type TaskHandler struct {
	tasks *service.TaskService
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(tasks *service.TaskService) *TaskHandler {
	return &TaskHandler{
		tasks: tasks,
	}
}

// List handles GET /api/tasks, filtered by the caller's persisted
// show_done setting.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	tasks, showDone, err := h.tasks.List(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to list tasks")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskListResponse(tasks, showDone))
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.tasks.Upsert(r.Context(), userID, uuid.Nil, req.form())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to create task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, NewTaskResponse(task))
}

// Update handles PUT /api/tasks/{taskID}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathID(w, r, "taskID")
	if !ok {
		return
	}

	var req TaskRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	task, err := h.tasks.Upsert(r.Context(), userID, taskID, req.form())
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// Delete handles DELETE /api/tasks/{taskID}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathID(w, r, "taskID")
	if !ok {
		return
	}

	if err := h.tasks.Delete(r.Context(), userID, taskID); err != nil {
		HandleAPIError(w, r, err, "Failed to delete task")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// ToggleDone handles POST /api/tasks/{taskID}/toggle.
func (h *TaskHandler) ToggleDone(w http.ResponseWriter, r *http.Request) {
	userID, taskID, ok := requireUserAndPathID(w, r, "taskID")
	if !ok {
		return
	}

	task, err := h.tasks.ToggleDone(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to toggle task")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewTaskResponse(task))
}

// ToggleFilter handles POST /api/tasks/filter, flipping the persisted
// show_done listing filter.
func (h *TaskHandler) ToggleFilter(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	showDone, err := h.tasks.ToggleDoneFilter(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to toggle listing filter")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, FilterResponse{ShowDone: showDone})
}
