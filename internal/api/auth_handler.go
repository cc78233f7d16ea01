package api

import (
	"net/http"

	"github.com/tickdo/tickdo-api/internal/api/shared"
	"github.com/tickdo/tickdo-api/internal/service"
)

// AuthHandler handles account lifecycle API requests.
type AuthHandler struct {
	accounts *service.AccountService
}

// NewAuthHandler creates a new AuthHandler with the given dependencies.
func NewAuthHandler(accounts *service.AccountService) *AuthHandler {
	return &AuthHandler{
		accounts: accounts,
	}
}

// Register handles POST /api/auth/register. The account is created
// unconfirmed; the confirmation link goes out by mail.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	// Field-level validation lives in the service so every broken field is
	// reported at once.
	user, err := h.accounts.Register(r.Context(), req.Nickname, req.Email, req.Password)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to register account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, RegisterResponse{
		UserID:   user.ID,
		Nickname: user.Nickname,
		Email:    user.Email,
		Message:  "Confirmation mail sent, please check your inbox",
	})
}

// Confirm handles GET /api/auth/confirm?token=..., redeeming a confirmation
// token from the mail link.
func (h *AuthHandler) Confirm(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	if token == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Confirmation token required")
		return
	}

	if err := h.accounts.Confirm(r.Context(), token); err != nil {
		HandleAPIError(w, r, err, "Failed to confirm account")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: "Account confirmed, you can log in now",
	})
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Email and password are required")
		return
	}

	user, pair, err := h.accounts.Login(r.Context(), req.Email, req.Password, req.Remember)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to log in")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, AuthResponse{
		UserID:       user.ID,
		Nickname:     user.Nickname,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Refresh handles POST /api/auth/refresh, exchanging a refresh token for a
// new token pair.
func (h *AuthHandler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req RefreshTokenRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Refresh token is required")
		return
	}

	pair, err := h.accounts.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		HandleAPIError(w, r, err, "Failed to refresh session")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, RefreshTokenResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
		ExpiresIn:    pair.ExpiresIn,
	})
}

// Logout handles POST /api/auth/logout. Sessions are stateless JWTs, so
// logout is an acknowledgment that clients discard their tokens on.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if _, ok := requireUserID(w, r); !ok {
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: "Logged out",
	})
}

// RequestPasswordReset handles POST /api/auth/password-reset. The response
// is identical whether or not the address is registered.
func (h *AuthHandler) RequestPasswordReset(w http.ResponseWriter, r *http.Request) {
	var req PasswordResetRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.Validate.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "A valid email address is required")
		return
	}

	if err := h.accounts.RequestPasswordReset(r.Context(), req.Email); err != nil {
		HandleAPIError(w, r, err, "Failed to process reset request")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: "If the address is registered, a reset link has been sent",
	})
}

// ChangePassword handles POST /api/auth/password in two modes: with a reset
// token from the mail link, or authenticated with the old password.
func (h *AuthHandler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if req.Token != "" {
		if err := h.accounts.ResetPassword(r.Context(), req.Token, req.NewPassword); err != nil {
			HandleAPIError(w, r, err, "Failed to reset password")
			return
		}
		shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
			Message: "Password updated, you can log in now",
		})
		return
	}

	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}
	if req.OldPassword == "" {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Old password is required")
		return
	}

	if err := h.accounts.ChangePassword(r.Context(), userID, req.OldPassword, req.NewPassword); err != nil {
		HandleAPIError(w, r, err, "Failed to change password")
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, MessageResponse{
		Message: "Password updated",
	})
}
