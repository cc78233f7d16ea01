package api

import (
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	"github.com/tickdo/tickdo-api/internal/domain"
	"github.com/tickdo/tickdo-api/internal/service"
)

// htmlStripper removes all HTML from user-supplied text before it leaves
// the API, so stored markup can never execute in a client.
var htmlStripper = bluemonday.StrictPolicy()

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Nickname string `json:"nickname" validate:"required,min=4,max=10"`
	Email    string `json:"email"    validate:"required,email,max=50"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// RegisterResponse defines the successful registration response. The account
// is created unconfirmed, so no tokens are returned.
type RegisterResponse struct {
	UserID   uuid.UUID `json:"user_id"`
	Nickname string    `json:"nickname"`
	Email    string    `json:"email"`
	Message  string    `json:"message"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
	// Remember extends the refresh token lifetime.
	Remember bool `json:"remember"`
}

// AuthResponse defines the successful response for login.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	Nickname     string    `json:"nickname"`
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64 `json:"expires_in"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// RefreshTokenResponse defines the successful response for the token
// refresh endpoint.
type RefreshTokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

// PasswordResetRequest asks for a reset mail to be sent.
type PasswordResetRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ChangePasswordRequest replaces the account password. Exactly one of Token
// (reset-mail flow) or OldPassword (authenticated flow) must be provided.
type ChangePasswordRequest struct {
	Token       string `json:"token,omitempty"`
	OldPassword string `json:"old_password,omitempty"`
	NewPassword string `json:"new_password" validate:"required,min=8,max=72"`
}

// MessageResponse is a plain acknowledgment.
type MessageResponse struct {
	Message string `json:"message"`
}

// TaskRequest defines the payload for creating or updating a task.
type TaskRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Importance  int    `json:"importance"`
	// Due is a YYYY-MM-DD date.
	Due string `json:"due"`
}

// form converts the request into the service-layer form. Validation happens
// in the service so create and update share one path.
func (r TaskRequest) form() service.TaskForm {
	return service.TaskForm{
		Name:        r.Name,
		Description: r.Description,
		Importance:  r.Importance,
		Due:         r.Due,
	}
}

// TaskResponse is the wire representation of a task. Name and description
// are HTML-stripped.
type TaskResponse struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Importance  int       `json:"importance"`
	Due         string    `json:"due"`
	Done        bool      `json:"done"`
	CreatedAt   string    `json:"created_at"`
}

// NewTaskResponse converts a domain task into its sanitized wire form.
func NewTaskResponse(task *domain.Task) TaskResponse {
	return TaskResponse{
		ID:          task.ID,
		Name:        htmlStripper.Sanitize(task.Name),
		Description: htmlStripper.Sanitize(task.Description),
		Importance:  task.Importance,
		Due:         task.Due.Format(service.DueDateFormat),
		Done:        task.Done,
		CreatedAt:   task.CreatedAt.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// TaskListResponse is the task listing plus the filter that produced it.
type TaskListResponse struct {
	Tasks    []TaskResponse `json:"tasks"`
	ShowDone bool           `json:"show_done"`
}

// NewTaskListResponse converts a task slice into its wire form.
func NewTaskListResponse(tasks []*domain.Task, showDone bool) TaskListResponse {
	out := make([]TaskResponse, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, NewTaskResponse(t))
	}
	return TaskListResponse{Tasks: out, ShowDone: showDone}
}

// FilterResponse reports the persisted listing filter after a toggle.
type FilterResponse struct {
	ShowDone bool `json:"show_done"`
}

// SettingsRequest defines the payload for updating display colors.
type SettingsRequest struct {
	Importance1 string `json:"importance1" validate:"required"`
	Importance2 string `json:"importance2" validate:"required"`
	Importance3 string `json:"importance3" validate:"required"`
}

// SettingsResponse is the wire representation of a settings row.
type SettingsResponse struct {
	Importance1 string `json:"importance1"`
	Importance2 string `json:"importance2"`
	Importance3 string `json:"importance3"`
	ShowDone    bool   `json:"show_done"`
}

// NewSettingsResponse converts domain settings into their wire form.
func NewSettingsResponse(settings *domain.Settings) SettingsResponse {
	return SettingsResponse{
		Importance1: settings.Importance1,
		Importance2: settings.Importance2,
		Importance3: settings.Importance3,
		ShowDone:    settings.ShowDone,
	}
}
