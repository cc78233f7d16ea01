package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tickdo/tickdo-api/internal/config"
	"github.com/tickdo/tickdo-api/internal/domain"
	"github.com/tickdo/tickdo-api/internal/jobs"
	"github.com/tickdo/tickdo-api/internal/platform/logger"
	"github.com/tickdo/tickdo-api/internal/platform/mail"
	"github.com/tickdo/tickdo-api/internal/service/auth"
	"github.com/tickdo/tickdo-api/internal/store"
)

// JobSubmitter enqueues background jobs. Implemented by *jobs.Runner.
type JobSubmitter interface {
	Submit(job jobs.Job) error
}

// TokenPair is the session material returned by Login and Refresh.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
	// ExpiresIn is the access token lifetime in seconds.
	ExpiresIn int64
}

// AccountConfig carries the account lifecycle tunables derived from the
// application config.
type AccountConfig struct {
	// BaseURL is the externally reachable root for links in outbound mail.
	BaseURL string

	// ConfirmTokenMaxAge bounds how old a confirmation token may be when
	// redeemed.
	ConfirmTokenMaxAge time.Duration

	// ResetTokenMaxAge bounds how old a reset token may be when redeemed.
	ResetTokenMaxAge time.Duration

	// MailInterval is the per-address minimum spacing between outbound
	// confirmation or reset emails.
	MailInterval time.Duration

	// DefaultColors seed the settings row created at confirmation.
	DefaultColors config.ColorsConfig
}

// NewAccountConfig derives an AccountConfig from the application config.
func NewAccountConfig(cfg *config.Config) AccountConfig {
	return AccountConfig{
		BaseURL:            cfg.Server.BaseURL,
		ConfirmTokenMaxAge: time.Duration(cfg.Auth.ConfirmTokenMaxAgeHours) * time.Hour,
		ResetTokenMaxAge:   time.Duration(cfg.Auth.ResetTokenMaxAgeMinutes) * time.Minute,
		MailInterval:       time.Duration(cfg.Auth.ResetEmailIntervalSeconds) * time.Second,
		DefaultColors:      cfg.Colors,
	}
}

// AccountServiceDeps bundles the collaborators of AccountService.
type AccountServiceDeps struct {
	DB         *sql.DB
	Users      store.UserStore
	Settings   store.SettingsStore
	Throttle   store.ThrottleStore
	MailTokens auth.MailTokenService
	Sessions   auth.JWTService
	Hasher     auth.PasswordHasher
	Verifier   auth.PasswordVerifier
	Mailer     mail.Mailer
	Jobs       JobSubmitter
}

// AccountService implements the account lifecycle: registration, email
// confirmation, login, token refresh and the two password change flows.
type AccountService struct {
	db         *sql.DB
	users      store.UserStore
	settings   store.SettingsStore
	throttle   store.ThrottleStore
	mailTokens auth.MailTokenService
	sessions   auth.JWTService
	hasher     auth.PasswordHasher
	verifier   auth.PasswordVerifier
	mailer     mail.Mailer
	jobs       JobSubmitter
	cfg        AccountConfig
	timeFunc   func() time.Time // Injectable for testing

	// runTx wraps multi-statement writes in a transaction. Injectable so
	// tests can run against fake stores without a database handle.
	runTx func(ctx context.Context, fn store.TxFn) error
}

// NewAccountService creates an AccountService, validating that every
// collaborator is present.
func NewAccountService(deps AccountServiceDeps, cfg AccountConfig) (*AccountService, error) {
	switch {
	case deps.Users == nil:
		return nil, fmt.Errorf("user store cannot be nil")
	case deps.Settings == nil:
		return nil, fmt.Errorf("settings store cannot be nil")
	case deps.Throttle == nil:
		return nil, fmt.Errorf("throttle store cannot be nil")
	case deps.MailTokens == nil:
		return nil, fmt.Errorf("mail token service cannot be nil")
	case deps.Sessions == nil:
		return nil, fmt.Errorf("session service cannot be nil")
	case deps.Hasher == nil:
		return nil, fmt.Errorf("password hasher cannot be nil")
	case deps.Verifier == nil:
		return nil, fmt.Errorf("password verifier cannot be nil")
	case deps.Mailer == nil:
		return nil, fmt.Errorf("mailer cannot be nil")
	case deps.Jobs == nil:
		return nil, fmt.Errorf("job submitter cannot be nil")
	}

	svc := &AccountService{
		db:         deps.DB,
		users:      deps.Users,
		settings:   deps.Settings,
		throttle:   deps.Throttle,
		mailTokens: deps.MailTokens,
		sessions:   deps.Sessions,
		hasher:     deps.Hasher,
		verifier:   deps.Verifier,
		mailer:     deps.Mailer,
		jobs:       deps.Jobs,
		cfg:        cfg,
		timeFunc:   time.Now,
	}
	if svc.db != nil {
		svc.runTx = func(ctx context.Context, fn store.TxFn) error {
			return store.RunInTransaction(ctx, svc.db, fn)
		}
	} else {
		// Without a database handle there is no transaction to wrap; writes
		// run directly. In-memory stores take this path.
		svc.runTx = func(ctx context.Context, fn store.TxFn) error {
			return fn(ctx, nil)
		}
	}
	return svc, nil
}

// Register creates a new unconfirmed account and enqueues the confirmation
// email. Returns store.ErrEmailExists / store.ErrNicknameExists for taken
// identities (checked before insert; a concurrent insert surfaces the same
// errors via the unique constraints), or domain.ValidationErrors for field
// failures. The user is not logged in.
func (s *AccountService) Register(ctx context.Context, nickname, email, password string) (*domain.User, error) {
	log := logger.FromContext(ctx)

	if errs := validateRegistration(nickname, email, password); len(errs) > 0 {
		return nil, errs
	}

	// Friendly pre-checks. The unique constraints remain the backstop for
	// the race between check and insert.
	if _, err := s.users.GetByEmail(ctx, email); err == nil {
		return nil, store.ErrEmailExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check email uniqueness: %w", err)
	}
	if _, err := s.users.GetByNickname(ctx, nickname); err == nil {
		return nil, store.ErrNicknameExists
	} else if !errors.Is(err, store.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check nickname uniqueness: %w", err)
	}

	user, err := domain.NewUser(nickname, email, password)
	if err != nil {
		return nil, err
	}

	hashed, err := s.hasher.Hash(user.Password)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	user.HashedPassword = hashed
	user.Password = ""

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		return s.users.WithTx(tx).Create(ctx, user)
	})
	if err != nil {
		return nil, err
	}

	log.Info("user registered",
		"user_id", user.ID)

	s.sendConfirmationMail(ctx, user.Email)
	return user, nil
}

// Confirm redeems a confirmation token: it marks the account confirmed and
// creates the default settings row. Redeeming a token for an already
// confirmed account succeeds without effect.
func (s *AccountService) Confirm(ctx context.Context, token string) error {
	log := logger.FromContext(ctx)

	email, err := s.mailTokens.Verify(ctx, token, auth.PurposeConfirmAccount, s.cfg.ConfirmTokenMaxAge)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			// The account behind a valid token is gone. Indistinguishable
			// from a forged token to the caller.
			return auth.ErrInvalidToken
		}
		return fmt.Errorf("failed to load user for confirmation: %w", err)
	}

	if user.Confirmed {
		return nil
	}

	err = s.runTx(ctx, func(ctx context.Context, tx *sql.Tx) error {
		if err := s.users.WithTx(tx).SetConfirmed(ctx, user.ID); err != nil {
			return err
		}

		settings, err := domain.NewSettings(
			user.ID,
			s.cfg.DefaultColors.Importance1,
			s.cfg.DefaultColors.Importance2,
			s.cfg.DefaultColors.Importance3,
		)
		if err != nil {
			return err
		}

		if err := s.settings.WithTx(tx).Create(ctx, settings); err != nil {
			// A settings row from an earlier concurrent confirmation is fine.
			if errors.Is(err, store.ErrSettingsExist) {
				return nil
			}
			return err
		}
		return nil
	})
	if err != nil {
		return err
	}

	log.Info("account confirmed",
		"user_id", user.ID)
	return nil
}

// Login verifies credentials and returns a fresh token pair. An unconfirmed
// account is refused with ErrNotConfirmed and gets its confirmation mail
// re-sent, subject to the per-address throttle.
func (s *AccountService) Login(ctx context.Context, email, password string, remember bool) (*domain.User, *TokenPair, error) {
	log := logger.FromContext(ctx)

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, nil, ErrNoSuchAccount
		}
		return nil, nil, fmt.Errorf("failed to load user for login: %w", err)
	}

	if err := s.verifier.Compare(user.HashedPassword, password); err != nil {
		return nil, nil, ErrWrongCredentials
	}

	if !user.Confirmed {
		s.sendConfirmationMail(ctx, user.Email)
		return nil, nil, ErrNotConfirmed
	}

	pair, err := s.issueTokenPair(ctx, user.ID, remember)
	if err != nil {
		return nil, nil, err
	}

	log.Info("user logged in",
		"user_id", user.ID)
	return user, pair, nil
}

// Refresh exchanges a valid refresh token for a new token pair.
func (s *AccountService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := s.sessions.ValidateRefreshToken(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	// A token can outlive its account.
	if _, err := s.users.GetByID(ctx, claims.UserID); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return nil, auth.ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to load user for refresh: %w", err)
	}

	return s.issueTokenPair(ctx, claims.UserID, false)
}

// RequestPasswordReset enqueues a reset email if the account exists and the
// per-address throttle allows. It returns nil in every non-internal case so
// callers always show the same generic acknowledgment.
func (s *AccountService) RequestPasswordReset(ctx context.Context, email string) error {
	log := logger.FromContext(ctx)

	if _, err := s.users.GetByEmail(ctx, email); err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			log.Debug("password reset requested for unknown email")
			return nil
		}
		return fmt.Errorf("failed to look up account for reset: %w", err)
	}

	if !s.mailAllowed(ctx, email, auth.PurposeResetPassword) {
		log.Debug("password reset mail throttled")
		return nil
	}

	token, err := s.mailTokens.Issue(ctx, email, auth.PurposeResetPassword)
	if err != nil {
		return fmt.Errorf("failed to issue reset token: %w", err)
	}

	s.enqueueMail(ctx, email, auth.PurposeResetPassword, mail.NewPasswordResetMessage(s.cfg.BaseURL, email, token))
	return nil
}

// ResetPassword redeems a reset token and replaces the account password.
func (s *AccountService) ResetPassword(ctx context.Context, token, newPassword string) error {
	log := logger.FromContext(ctx)

	email, err := s.mailTokens.Verify(ctx, token, auth.PurposeResetPassword, s.cfg.ResetTokenMaxAge)
	if err != nil {
		return err
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, store.ErrUserNotFound) {
			return auth.ErrInvalidToken
		}
		return fmt.Errorf("failed to load user for reset: %w", err)
	}

	if err := s.setPassword(ctx, user.ID, newPassword); err != nil {
		return err
	}

	log.Info("password reset completed",
		"user_id", user.ID)
	return nil
}

// ChangePassword replaces the password of an authenticated user after
// verifying the old one.
func (s *AccountService) ChangePassword(ctx context.Context, userID uuid.UUID, oldPassword, newPassword string) error {
	log := logger.FromContext(ctx)

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}

	if err := s.verifier.Compare(user.HashedPassword, oldPassword); err != nil {
		return ErrWrongOldPassword
	}

	if err := s.setPassword(ctx, userID, newPassword); err != nil {
		return err
	}

	log.Info("password changed",
		"user_id", userID)
	return nil
}

// setPassword validates, hashes and stores a new password.
func (s *AccountService) setPassword(ctx context.Context, userID uuid.UUID, password string) error {
	if errs := validatePassword(password); len(errs) > 0 {
		return errs
	}

	hashed, err := s.hasher.Hash(password)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	return s.users.UpdatePassword(ctx, userID, hashed)
}

// issueTokenPair generates a fresh access and refresh token for the user.
func (s *AccountService) issueTokenPair(ctx context.Context, userID uuid.UUID, remember bool) (*TokenPair, error) {
	access, err := s.sessions.GenerateToken(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refresh, err := s.sessions.GenerateRefreshToken(ctx, userID, remember)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	return &TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
		ExpiresIn:    int64(s.sessions.AccessTokenLifetime().Seconds()),
	}, nil
}

// sendConfirmationMail issues a confirmation token and enqueues the mail,
// subject to the per-address throttle. Failures are logged, never surfaced:
// the flows that call this all have a user-driven way to retrigger it.
func (s *AccountService) sendConfirmationMail(ctx context.Context, email string) {
	log := logger.FromContext(ctx)

	if !s.mailAllowed(ctx, email, auth.PurposeConfirmAccount) {
		log.Debug("confirmation mail throttled")
		return
	}

	token, err := s.mailTokens.Issue(ctx, email, auth.PurposeConfirmAccount)
	if err != nil {
		log.Error("failed to issue confirmation token", "error", err)
		return
	}

	s.enqueueMail(ctx, email, auth.PurposeConfirmAccount, mail.NewConfirmationMessage(s.cfg.BaseURL, email, token))
}

// mailAllowed consults the per-address throttle. Each mail purpose throttles
// independently, so a registration mail never suppresses the address's first
// reset mail.
func (s *AccountService) mailAllowed(ctx context.Context, email string, purpose auth.TokenPurpose) bool {
	log := logger.FromContext(ctx)

	last, found, err := s.throttle.LastSent(ctx, email, string(purpose))
	if err != nil {
		// On a throttle read failure, prefer sending over silently dropping.
		log.Warn("failed to read mail throttle", "error", err)
		return true
	}
	return !found || s.timeFunc().Sub(last) >= s.cfg.MailInterval
}

// enqueueMail submits the message to the background runner and records the
// send against the throttle.
func (s *AccountService) enqueueMail(ctx context.Context, email string, purpose auth.TokenPurpose, msg mail.Message) {
	log := logger.FromContext(ctx)

	if err := s.jobs.Submit(jobs.NewMailDeliveryJob(s.mailer, msg)); err != nil {
		log.Error("failed to enqueue mail", "error", err)
		return
	}

	if err := s.throttle.MarkSent(ctx, email, string(purpose), s.timeFunc()); err != nil {
		log.Warn("failed to record mail throttle", "error", err)
	}
}

// validateRegistration accumulates field-level failures so a failed submit
// reports every broken field at once.
func validateRegistration(nickname, email, password string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	if l := len(nickname); l < 4 || l > 10 {
		errs = append(errs, domain.NewValidationError(
			"nickname", "must be 4-10 characters long", domain.ErrInvalidNickname))
	}

	switch {
	case email == "":
		errs = append(errs, domain.NewValidationError(
			"email", "cannot be empty", domain.ErrEmptyEmail))
	case len(email) > domain.MaxEmailLen:
		errs = append(errs, domain.NewValidationError(
			"email", "must be at most 50 characters long", domain.ErrInvalidEmail))
	case !domain.ValidEmailFormat(email):
		errs = append(errs, domain.NewValidationError(
			"email", "is not a valid email address", domain.ErrInvalidEmail))
	}

	errs = append(errs, validatePassword(password)...)
	return errs
}

// validatePassword checks the password length bounds.
func validatePassword(password string) domain.ValidationErrors {
	var errs domain.ValidationErrors

	switch l := len(password); {
	case l < domain.MinPasswordLen:
		errs = append(errs, domain.NewValidationError(
			"password", "must be at least 8 characters long", domain.ErrPasswordTooShort))
	case l > domain.MaxPasswordLen:
		errs = append(errs, domain.NewValidationError(
			"password", "must be at most 72 characters long", domain.ErrPasswordTooLong))
	}
	return errs
}
