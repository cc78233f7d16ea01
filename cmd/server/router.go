package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tickdo/tickdo-api/internal/api"
	apiMiddleware "github.com/tickdo/tickdo-api/internal/api/middleware"
)

// setupRouter creates the application router with all routes and middleware.
func (app *application) setupRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(apiMiddleware.TraceMiddleware)

	authHandler := api.NewAuthHandler(app.accountService)
	taskHandler := api.NewTaskHandler(app.taskService)
	settingsHandler := api.NewSettingsHandler(app.settingsService)
	authMiddleware := apiMiddleware.NewAuthMiddleware(app.jwtService)

	r.Route("/api", func(r chi.Router) {
		// Account endpoints (public)
		r.Post("/auth/register", authHandler.Register)
		r.Get("/auth/confirm", authHandler.Confirm)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)
		r.Post("/auth/password-reset", authHandler.RequestPasswordReset)

		// Password change serves both the anonymous reset-token mode and
		// the authenticated old-password mode.
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuthenticate)
			r.Post("/auth/password", authHandler.ChangePassword)
		})

		// Protected routes
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)

			r.Post("/auth/logout", authHandler.Logout)

			// Task endpoints
			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Put("/tasks/{taskID}", taskHandler.Update)
			r.Delete("/tasks/{taskID}", taskHandler.Delete)
			r.Post("/tasks/{taskID}/toggle", taskHandler.ToggleDone)
			r.Post("/tasks/filter", taskHandler.ToggleFilter)

			// Settings endpoints
			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)
			r.Post("/settings/reset", settingsHandler.Reset)
		})
	})

	// Health check endpoint
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			app.logger.Error("failed to write health check response", "error", err)
		}
	})

	return r
}
