package main

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/tickdo/tickdo-api/internal/config"
	"github.com/tickdo/tickdo-api/internal/jobs"
	"github.com/tickdo/tickdo-api/internal/platform/mail"
	"github.com/tickdo/tickdo-api/internal/platform/postgres"
	"github.com/tickdo/tickdo-api/internal/service"
	"github.com/tickdo/tickdo-api/internal/service/auth"
)

// smtpRetryAttempts is how many additional delivery attempts a mail job
// makes after the first failure.
const smtpRetryAttempts = 3

// application holds the wired dependencies of the running server.
type application struct {
	config *config.Config
	logger *slog.Logger
	db     *sql.DB

	jwtService      auth.JWTService
	accountService  *service.AccountService
	taskService     *service.TaskService
	settingsService *service.SettingsService

	jobRunner *jobs.Runner
}

// newApplication wires stores, services and the background job runner.
// The job runner is started here; cleanup stops it and closes the database.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	db, err := setupDatabase(cfg, logger)
	if err != nil {
		return nil, err
	}

	userStore := postgres.NewPostgresUserStore(db, logger)
	taskStore := postgres.NewPostgresTaskStore(db, logger)
	settingsStore := postgres.NewPostgresSettingsStore(db, logger)
	throttleStore := postgres.NewPostgresThrottleStore(db, logger)

	jwtService, err := auth.NewJWTService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create session service: %w", err)
	}
	mailTokenService, err := auth.NewMailTokenService(cfg.Auth)
	if err != nil {
		return nil, fmt.Errorf("failed to create mail token service: %w", err)
	}

	mailer := mail.NewRetryingMailer(mail.NewSMTPMailer(cfg.Mail), smtpRetryAttempts, 0)

	jobRunner := jobs.NewRunner(jobs.DefaultRunnerConfig(), logger)
	jobRunner.Start()

	accountService, err := service.NewAccountService(service.AccountServiceDeps{
		DB:         db,
		Users:      userStore,
		Settings:   settingsStore,
		Throttle:   throttleStore,
		MailTokens: mailTokenService,
		Sessions:   jwtService,
		Hasher:     auth.NewBcryptHasher(cfg.Auth.BcryptCost),
		Verifier:   auth.NewBcryptVerifier(),
		Mailer:     mailer,
		Jobs:       jobRunner,
	}, service.NewAccountConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to create account service: %w", err)
	}

	taskService, err := service.NewTaskService(taskStore, settingsStore)
	if err != nil {
		return nil, fmt.Errorf("failed to create task service: %w", err)
	}

	settingsService, err := service.NewSettingsService(settingsStore, cfg.Colors)
	if err != nil {
		return nil, fmt.Errorf("failed to create settings service: %w", err)
	}

	return &application{
		config:          cfg,
		logger:          logger,
		db:              db,
		jwtService:      jwtService,
		accountService:  accountService,
		taskService:     taskService,
		settingsService: settingsService,
		jobRunner:       jobRunner,
	}, nil
}

// cleanup releases resources on shutdown: drains the job runner, then
// closes the database.
func (app *application) cleanup() {
	app.jobRunner.Stop()

	if err := app.db.Close(); err != nil {
		app.logger.Error("failed to close database connection", "error", err)
	}
}
