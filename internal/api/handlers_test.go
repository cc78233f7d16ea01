package api

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	apimw "github.com/tickdo/tickdo-api/internal/api/middleware"
	"github.com/tickdo/tickdo-api/internal/config"
	"github.com/tickdo/tickdo-api/internal/domain"
	"github.com/tickdo/tickdo-api/internal/jobs"
	"github.com/tickdo/tickdo-api/internal/platform/mail"
	"github.com/tickdo/tickdo-api/internal/service"
	"github.com/tickdo/tickdo-api/internal/service/auth"
	"github.com/tickdo/tickdo-api/internal/store"
)

// Minimal in-memory stores backing the full handler stack.

type memUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func (m *memUserStore) Create(_ context.Context, u *domain.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.users {
		if e.Email == u.Email {
			return store.ErrEmailExists
		}
		if e.Nickname == u.Nickname {
			return store.ErrNicknameExists
		}
	}
	cp := *u
	m.users[u.ID] = &cp
	return nil
}

func (m *memUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if u, ok := m.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrUserNotFound
}

func (m *memUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memUserStore) GetByNickname(_ context.Context, nickname string) (*domain.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, u := range m.users {
		if u.Nickname == nickname {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (m *memUserStore) SetConfirmed(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Confirmed = true
	return nil
}

func (m *memUserStore) UpdatePassword(_ context.Context, id uuid.UUID, hashed string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	u, ok := m.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.HashedPassword = hashed
	return nil
}

func (m *memUserStore) WithTx(*sql.Tx) store.UserStore { return m }

type memTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task
}

func (m *memTaskStore) Create(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *memTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if t, ok := m.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, store.ErrTaskNotFound
}

func (m *memTaskStore) Update(_ context.Context, t *domain.Task) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[t.ID]; !ok {
		return store.ErrTaskNotFound
	}
	cp := *t
	m.tasks[t.ID] = &cp
	return nil
}

func (m *memTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(m.tasks, id)
	return nil
}

func (m *memTaskStore) ListByOwner(_ context.Context, ownerID uuid.UUID, done bool) ([]*domain.Task, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := []*domain.Task{}
	for _, t := range m.tasks {
		if t.OwnerID == ownerID && t.Done == done {
			cp := *t
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (m *memTaskStore) CountByOwner(_ context.Context, ownerID uuid.UUID) (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, t := range m.tasks {
		if t.OwnerID == ownerID {
			n++
		}
	}
	return n, nil
}

func (m *memTaskStore) WithTx(*sql.Tx) store.TaskStore { return m }

type memSettingsStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.Settings
}

func (m *memSettingsStore) Create(_ context.Context, s *domain.Settings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.rows[s.UserID]; ok {
		return store.ErrSettingsExist
	}
	cp := *s
	m.rows[s.UserID] = &cp
	return nil
}

func (m *memSettingsStore) GetByUser(_ context.Context, userID uuid.UUID) (*domain.Settings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if s, ok := m.rows[userID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, store.ErrSettingsNotFound
}

func (m *memSettingsStore) UpdateColors(_ context.Context, userID uuid.UUID, c1, c2, c3 string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[userID]
	if !ok {
		return store.ErrSettingsNotFound
	}
	s.Importance1, s.Importance2, s.Importance3 = c1, c2, c3
	return nil
}

func (m *memSettingsStore) SetShowDone(_ context.Context, userID uuid.UUID, showDone bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.rows[userID]
	if !ok {
		return store.ErrSettingsNotFound
	}
	s.ShowDone = showDone
	return nil
}

func (m *memSettingsStore) WithTx(*sql.Tx) store.SettingsStore { return m }

type memThrottleStore struct {
	mu   sync.Mutex
	sent map[string]time.Time
}

func (m *memThrottleStore) LastSent(_ context.Context, email, purpose string) (time.Time, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	at, ok := m.sent[email+"/"+purpose]
	return at, ok, nil
}

func (m *memThrottleStore) MarkSent(_ context.Context, email, purpose string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent[email+"/"+purpose] = at
	return nil
}

type recordingMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (r *recordingMailer) Send(_ context.Context, msg mail.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sent = append(r.sent, msg)
	return nil
}

func (r *recordingMailer) messages() []mail.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]mail.Message(nil), r.sent...)
}

type inlineSubmitter struct{}

func (inlineSubmitter) Submit(job jobs.Job) error {
	return job.Execute(context.Background())
}

// apiFixture runs the full HTTP stack against in-memory stores.
type apiFixture struct {
	router http.Handler
	mailer *recordingMailer
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()

	authCfg := config.AuthConfig{
		JWTSecret:                   "0123456789abcdef0123456789abcdef",
		MailTokenSecret:             "fedcba9876543210fedcba9876543210",
		MailTokenSalt:               "mail-salt",
		TokenLifetimeMinutes:        60,
		RefreshTokenLifetimeMinutes: 10080,
		RememberMeLifetimeMinutes:   43200,
	}
	colors := config.ColorsConfig{
		Importance1: "#adff2f",
		Importance2: "#ffff00",
		Importance3: "#fd3b3b",
	}

	jwtService, err := auth.NewJWTService(authCfg)
	require.NoError(t, err)
	mailTokens, err := auth.NewMailTokenService(authCfg)
	require.NoError(t, err)

	users := &memUserStore{users: map[uuid.UUID]*domain.User{}}
	tasks := &memTaskStore{tasks: map[uuid.UUID]*domain.Task{}}
	settings := &memSettingsStore{rows: map[uuid.UUID]*domain.Settings{}}
	throttle := &memThrottleStore{sent: map[string]time.Time{}}
	mailer := &recordingMailer{}

	accounts, err := service.NewAccountService(service.AccountServiceDeps{
		Users:      users,
		Settings:   settings,
		Throttle:   throttle,
		MailTokens: mailTokens,
		Sessions:   jwtService,
		Hasher:     auth.NewBcryptHasher(bcrypt.MinCost),
		Verifier:   auth.NewBcryptVerifier(),
		Mailer:     mailer,
		Jobs:       inlineSubmitter{},
	}, service.AccountConfig{
		BaseURL:            "https://tickdo.example",
		ConfirmTokenMaxAge: 72 * time.Hour,
		ResetTokenMaxAge:   time.Hour,
		MailInterval:       time.Hour,
		DefaultColors:      colors,
	})
	require.NoError(t, err)

	taskService, err := service.NewTaskService(tasks, settings)
	require.NoError(t, err)
	settingsService, err := service.NewSettingsService(settings, colors)
	require.NoError(t, err)

	authHandler := NewAuthHandler(accounts)
	taskHandler := NewTaskHandler(taskService)
	settingsHandler := NewSettingsHandler(settingsService)
	authMiddleware := apimw.NewAuthMiddleware(jwtService)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		r.Post("/auth/register", authHandler.Register)
		r.Get("/auth/confirm", authHandler.Confirm)
		r.Post("/auth/login", authHandler.Login)
		r.Post("/auth/refresh", authHandler.Refresh)
		r.Post("/auth/password-reset", authHandler.RequestPasswordReset)
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.OptionalAuthenticate)
			r.Post("/auth/password", authHandler.ChangePassword)
		})
		r.Group(func(r chi.Router) {
			r.Use(authMiddleware.Authenticate)
			r.Post("/auth/logout", authHandler.Logout)
			r.Get("/tasks", taskHandler.List)
			r.Post("/tasks", taskHandler.Create)
			r.Put("/tasks/{taskID}", taskHandler.Update)
			r.Delete("/tasks/{taskID}", taskHandler.Delete)
			r.Post("/tasks/{taskID}/toggle", taskHandler.ToggleDone)
			r.Post("/tasks/filter", taskHandler.ToggleFilter)
			r.Get("/settings", settingsHandler.Get)
			r.Put("/settings", settingsHandler.Update)
			r.Post("/settings/reset", settingsHandler.Reset)
		})
	})

	return &apiFixture{router: r, mailer: mailer}
}

func (f *apiFixture) do(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rr := httptest.NewRecorder()
	f.router.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.NewDecoder(rr.Body).Decode(v))
}

var linkTokenPattern = regexp.MustCompile(`token=(\S+)`)

func (f *apiFixture) lastMailToken(t *testing.T) string {
	t.Helper()
	msgs := f.mailer.messages()
	require.NotEmpty(t, msgs)
	matches := linkTokenPattern.FindStringSubmatch(msgs[len(msgs)-1].Body)
	require.Len(t, matches, 2)
	token, err := url.QueryUnescape(matches[1])
	require.NoError(t, err)
	return token
}

// registerAndLogin walks a fresh account through register and confirm,
// returning an access token.
func (f *apiFixture) registerAndLogin(t *testing.T, nickname, email, password string) string {
	t.Helper()

	rr := f.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Nickname: nickname, Email: email, Password: password,
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodGet, "/api/auth/confirm?token="+url.QueryEscape(f.lastMailToken(t)), "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: email, Password: password,
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	var resp AuthResponse
	decodeBody(t, rr, &resp)
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func TestFullAccountAndTaskWalkthrough(t *testing.T) {
	f := newAPIFixture(t)

	// Register: created unconfirmed, confirmation mail goes out.
	rr := f.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Nickname: "alice", Email: "a@x.com", Password: "password123",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	require.Len(t, f.mailer.messages(), 1)

	// Login before confirmation is refused.
	rr = f.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "a@x.com", Password: "password123",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Confirm and log in.
	rr = f.do(t, http.MethodGet, "/api/auth/confirm?token="+url.QueryEscape(f.lastMailToken(t)), "", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "a@x.com", Password: "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var authResp AuthResponse
	decodeBody(t, rr, &authResp)
	assert.Equal(t, "alice", authResp.Nickname)
	token := authResp.AccessToken

	// Create a task.
	rr = f.do(t, http.MethodPost, "/api/tasks", token, TaskRequest{
		Name: "water the plants", Description: "both balconies", Importance: 2, Due: "2026-09-01",
	})
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created TaskResponse
	decodeBody(t, rr, &created)
	assert.Equal(t, "water the plants", created.Name)
	assert.False(t, created.Done)

	// It shows up in the listing.
	rr = f.do(t, http.MethodGet, "/api/tasks", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var list TaskListResponse
	decodeBody(t, rr, &list)
	require.Len(t, list.Tasks, 1)
	assert.False(t, list.ShowDone)

	// Toggle done: it leaves the open listing.
	rr = f.do(t, http.MethodPost, fmt.Sprintf("/api/tasks/%s/toggle", created.ID), token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var toggled TaskResponse
	decodeBody(t, rr, &toggled)
	assert.True(t, toggled.Done)

	rr = f.do(t, http.MethodGet, "/api/tasks", token, nil)
	decodeBody(t, rr, &list)
	assert.Empty(t, list.Tasks)

	// Flip the filter: the done task appears.
	rr = f.do(t, http.MethodPost, "/api/tasks/filter", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	rr = f.do(t, http.MethodGet, "/api/tasks", token, nil)
	decodeBody(t, rr, &list)
	require.Len(t, list.Tasks, 1)
	assert.True(t, list.ShowDone)

	// Delete it.
	rr = f.do(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%s", created.ID), token, nil)
	assert.Equal(t, http.StatusNoContent, rr.Code)
	rr = f.do(t, http.MethodGet, "/api/tasks", token, nil)
	decodeBody(t, rr, &list)
	assert.Empty(t, list.Tasks)
}

func TestRegisterReportsEveryBrokenField(t *testing.T) {
	f := newAPIFixture(t)

	rr := f.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Nickname: "al", Email: "nope", Password: "short",
	})
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var resp struct {
		Error  string            `json:"error"`
		Fields map[string]string `json:"fields"`
	}
	decodeBody(t, rr, &resp)
	assert.Contains(t, resp.Fields, "nickname")
	assert.Contains(t, resp.Fields, "email")
	assert.Contains(t, resp.Fields, "password")
}

func TestRegisterDuplicateConflicts(t *testing.T) {
	f := newAPIFixture(t)
	f.registerAndLogin(t, "alice", "a@x.com", "password123")

	rr := f.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Nickname: "other", Email: "a@x.com", Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/auth/register", "", RegisterRequest{
		Nickname: "alice", Email: "b@x.com", Password: "password123",
	})
	assert.Equal(t, http.StatusConflict, rr.Code)
}

func TestLoginFailuresShareOneMessage(t *testing.T) {
	f := newAPIFixture(t)
	f.registerAndLogin(t, "alice", "a@x.com", "password123")

	unknown := f.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "nobody@x.com", Password: "password123",
	})
	wrongPass := f.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "a@x.com", Password: "not the password",
	})

	assert.Equal(t, http.StatusUnauthorized, unknown.Code)
	assert.Equal(t, http.StatusUnauthorized, wrongPass.Code)

	var respA, respB struct {
		Error string `json:"error"`
	}
	decodeBody(t, unknown, &respA)
	decodeBody(t, wrongPass, &respB)
	assert.Equal(t, respA.Error, respB.Error)
	assert.Equal(t, "Wrong password or email", respA.Error)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	f := newAPIFixture(t)

	for _, route := range []struct {
		method string
		path   string
	}{
		{http.MethodGet, "/api/tasks"},
		{http.MethodPost, "/api/tasks"},
		{http.MethodGet, "/api/settings"},
		{http.MethodPost, "/api/auth/logout"},
	} {
		rr := f.do(t, route.method, route.path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, rr.Code, "%s %s", route.method, route.path)
	}
}

func TestCrossOwnerTaskAccessForbidden(t *testing.T) {
	f := newAPIFixture(t)
	aliceToken := f.registerAndLogin(t, "alice", "a@x.com", "password123")
	bobToken := f.registerAndLogin(t, "bobby", "b@x.com", "password123")

	rr := f.do(t, http.MethodPost, "/api/tasks", aliceToken, TaskRequest{
		Name: "private errand", Importance: 1, Due: "2026-09-01",
	})
	require.Equal(t, http.StatusCreated, rr.Code)
	var task TaskResponse
	decodeBody(t, rr, &task)

	rr = f.do(t, http.MethodDelete, fmt.Sprintf("/api/tasks/%s", task.ID), bobToken, nil)
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = f.do(t, http.MethodPut, fmt.Sprintf("/api/tasks/%s", task.ID), bobToken, TaskRequest{
		Name: "hijacked", Importance: 1, Due: "2026-09-01",
	})
	assert.Equal(t, http.StatusForbidden, rr.Code)

	// Still there for its owner.
	rr = f.do(t, http.MethodGet, "/api/tasks", aliceToken, nil)
	var list TaskListResponse
	decodeBody(t, rr, &list)
	require.Len(t, list.Tasks, 1)
	assert.Equal(t, "private errand", list.Tasks[0].Name)
}

func TestSettingsLifecycle(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "alice", "a@x.com", "password123")

	// Confirmation seeded the defaults.
	rr := f.do(t, http.MethodGet, "/api/settings", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	var settings SettingsResponse
	decodeBody(t, rr, &settings)
	assert.Equal(t, "#adff2f", settings.Importance1)

	rr = f.do(t, http.MethodPut, "/api/settings", token, SettingsRequest{
		Importance1: "#111", Importance2: "#222222", Importance3: "#333",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &settings)
	assert.Equal(t, "#111", settings.Importance1)

	// Broken colors report per-field errors.
	rr = f.do(t, http.MethodPut, "/api/settings", token, SettingsRequest{
		Importance1: "red", Importance2: "#222222", Importance3: "blue",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/settings/reset", token, nil)
	require.Equal(t, http.StatusOK, rr.Code)
	decodeBody(t, rr, &settings)
	assert.Equal(t, "#adff2f", settings.Importance1)
	assert.Equal(t, "#fd3b3b", settings.Importance3)
}

func TestPasswordResetFlow(t *testing.T) {
	f := newAPIFixture(t)
	f.registerAndLogin(t, "alice", "a@x.com", "password123")

	// Unknown address gets the same acknowledgment.
	rr := f.do(t, http.MethodPost, "/api/auth/password-reset", "", PasswordResetRequest{Email: "nobody@x.com"})
	require.Equal(t, http.StatusOK, rr.Code)
	mailsBefore := len(f.mailer.messages())

	// The registration mail sits inside the throttle window, but it only
	// throttles confirmations: the first reset mail must still go out.
	rr = f.do(t, http.MethodPost, "/api/auth/password-reset", "", PasswordResetRequest{Email: "a@x.com"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, f.mailer.messages(), mailsBefore+1)
	resetToken := f.lastMailToken(t)

	// A repeat inside the window is acknowledged but sends nothing.
	rr = f.do(t, http.MethodPost, "/api/auth/password-reset", "", PasswordResetRequest{Email: "a@x.com"})
	require.Equal(t, http.StatusOK, rr.Code)
	require.Len(t, f.mailer.messages(), mailsBefore+1)
	rr = f.do(t, http.MethodPost, "/api/auth/password", "", ChangePasswordRequest{
		Token: resetToken, NewPassword: "brand new password",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	// Old password is dead, new one works.
	rr = f.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "a@x.com", Password: "password123"})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
	rr = f.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{Email: "a@x.com", Password: "brand new password"})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestAuthenticatedPasswordChange(t *testing.T) {
	f := newAPIFixture(t)
	token := f.registerAndLogin(t, "alice", "a@x.com", "password123")

	// No token field and no session: refused.
	rr := f.do(t, http.MethodPost, "/api/auth/password", "", ChangePasswordRequest{
		OldPassword: "password123", NewPassword: "brand new password",
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/auth/password", token, ChangePasswordRequest{
		OldPassword: "wrong", NewPassword: "brand new password",
	})
	assert.Equal(t, http.StatusBadRequest, rr.Code)

	rr = f.do(t, http.MethodPost, "/api/auth/password", token, ChangePasswordRequest{
		OldPassword: "password123", NewPassword: "brand new password",
	})
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = f.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "a@x.com", Password: "brand new password",
	})
	assert.Equal(t, http.StatusOK, rr.Code)
}

func TestRefreshEndpoint(t *testing.T) {
	f := newAPIFixture(t)
	f.registerAndLogin(t, "alice", "a@x.com", "password123")

	rr := f.do(t, http.MethodPost, "/api/auth/login", "", LoginRequest{
		Email: "a@x.com", Password: "password123",
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var authResp AuthResponse
	decodeBody(t, rr, &authResp)

	rr = f.do(t, http.MethodPost, "/api/auth/refresh", "", RefreshTokenRequest{
		RefreshToken: authResp.RefreshToken,
	})
	require.Equal(t, http.StatusOK, rr.Code)
	var refreshResp RefreshTokenResponse
	decodeBody(t, rr, &refreshResp)
	assert.NotEmpty(t, refreshResp.AccessToken)

	// An access token is rejected in the refresh slot.
	rr = f.do(t, http.MethodPost, "/api/auth/refresh", "", RefreshTokenRequest{
		RefreshToken: authResp.AccessToken,
	})
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}
