package api

import (
	"net/http"

	"github.com/tickdo/tickdo-api/internal/api/shared"
	"github.com/tickdo/tickdo-api/internal/service"
)

// SettingsHandler handles per-user display settings API requests.
type SettingsHandler struct {
	settings *service.SettingsService
}

// NewSettingsHandler creates a new SettingsHandler with the given
// dependencies.
func NewSettingsHandler(settings *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{
		settings: settings,
	}
}

// Get handles GET /api/settings.
func (h *SettingsHandler) Get(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	settings, err := h.settings.Get(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to load settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSettingsResponse(settings))
}

// Update handles PUT /api/settings, replacing the three importance colors.
func (h *SettingsHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var req SettingsRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	settings, err := h.settings.UpdateColors(r.Context(), userID,
		req.Importance1, req.Importance2, req.Importance3)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to update settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSettingsResponse(settings))
}

// Reset handles POST /api/settings/reset, restoring the configured default
// colors.
func (h *SettingsHandler) Reset(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	settings, err := h.settings.Reset(r.Context(), userID)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to reset settings")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewSettingsResponse(settings))
}
