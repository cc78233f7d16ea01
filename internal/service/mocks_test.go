package service

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tickdo/tickdo-api/internal/domain"
	"github.com/tickdo/tickdo-api/internal/jobs"
	"github.com/tickdo/tickdo-api/internal/platform/mail"
	"github.com/tickdo/tickdo-api/internal/store"
)

// In-memory fakes implementing the store contracts. Error injection fields
// let tests force internal failures.

type fakeUserStore struct {
	mu    sync.Mutex
	users map[uuid.UUID]*domain.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[uuid.UUID]*domain.User)}
}

func (f *fakeUserStore) Create(_ context.Context, user *domain.User) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == user.Email {
			return store.ErrEmailExists
		}
		if u.Nickname == user.Nickname {
			return store.ErrNicknameExists
		}
	}
	cp := *user
	f.users[user.ID] = &cp
	return nil
}

func (f *fakeUserStore) GetByID(_ context.Context, id uuid.UUID) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if u, ok := f.users[id]; ok {
		cp := *u
		return &cp, nil
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByEmail(_ context.Context, email string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) GetByNickname(_ context.Context, nickname string) (*domain.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, u := range f.users {
		if u.Nickname == nickname {
			cp := *u
			return &cp, nil
		}
	}
	return nil, store.ErrUserNotFound
}

func (f *fakeUserStore) SetConfirmed(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.Confirmed = true
	return nil
}

func (f *fakeUserStore) UpdatePassword(_ context.Context, id uuid.UUID, hashedPassword string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	u, ok := f.users[id]
	if !ok {
		return store.ErrUserNotFound
	}
	u.HashedPassword = hashedPassword
	return nil
}

func (f *fakeUserStore) WithTx(*sql.Tx) store.UserStore { return f }

type fakeTaskStore struct {
	mu    sync.Mutex
	tasks map[uuid.UUID]*domain.Task

	createErr error
}

func newFakeTaskStore() *fakeTaskStore {
	return &fakeTaskStore{tasks: make(map[uuid.UUID]*domain.Task)}
}

func (f *fakeTaskStore) Create(_ context.Context, task *domain.Task) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	cp := *task
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskStore) GetByID(_ context.Context, id uuid.UUID) (*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if t, ok := f.tasks[id]; ok {
		cp := *t
		return &cp, nil
	}
	return nil, store.ErrTaskNotFound
}

func (f *fakeTaskStore) Update(_ context.Context, task *domain.Task) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	existing, ok := f.tasks[task.ID]
	if !ok {
		return store.ErrTaskNotFound
	}
	cp := *task
	cp.OwnerID = existing.OwnerID
	f.tasks[task.ID] = &cp
	return nil
}

func (f *fakeTaskStore) Delete(_ context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.tasks[id]; !ok {
		return store.ErrTaskNotFound
	}
	delete(f.tasks, id)
	return nil
}

func (f *fakeTaskStore) ListByOwner(_ context.Context, ownerID uuid.UUID, done bool) ([]*domain.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	result := []*domain.Task{}
	for _, t := range f.tasks {
		if t.OwnerID == ownerID && t.Done == done {
			cp := *t
			result = append(result, &cp)
		}
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})
	return result, nil
}

func (f *fakeTaskStore) CountByOwner(_ context.Context, ownerID uuid.UUID) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	count := 0
	for _, t := range f.tasks {
		if t.OwnerID == ownerID {
			count++
		}
	}
	return count, nil
}

func (f *fakeTaskStore) WithTx(*sql.Tx) store.TaskStore { return f }

type fakeSettingsStore struct {
	mu   sync.Mutex
	rows map[uuid.UUID]*domain.Settings
}

func newFakeSettingsStore() *fakeSettingsStore {
	return &fakeSettingsStore{rows: make(map[uuid.UUID]*domain.Settings)}
}

func (f *fakeSettingsStore) Create(_ context.Context, settings *domain.Settings) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.rows[settings.UserID]; ok {
		return store.ErrSettingsExist
	}
	cp := *settings
	f.rows[settings.UserID] = &cp
	return nil
}

func (f *fakeSettingsStore) GetByUser(_ context.Context, userID uuid.UUID) (*domain.Settings, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.rows[userID]; ok {
		cp := *s
		return &cp, nil
	}
	return nil, store.ErrSettingsNotFound
}

func (f *fakeSettingsStore) UpdateColors(_ context.Context, userID uuid.UUID, importance1, importance2, importance3 string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[userID]
	if !ok {
		return store.ErrSettingsNotFound
	}
	s.Importance1 = importance1
	s.Importance2 = importance2
	s.Importance3 = importance3
	return nil
}

func (f *fakeSettingsStore) SetShowDone(_ context.Context, userID uuid.UUID, showDone bool) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.rows[userID]
	if !ok {
		return store.ErrSettingsNotFound
	}
	s.ShowDone = showDone
	return nil
}

func (f *fakeSettingsStore) WithTx(*sql.Tx) store.SettingsStore { return f }

type throttleKey struct {
	email   string
	purpose string
}

type fakeThrottleStore struct {
	mu   sync.Mutex
	sent map[throttleKey]time.Time
}

func newFakeThrottleStore() *fakeThrottleStore {
	return &fakeThrottleStore{sent: make(map[throttleKey]time.Time)}
}

func (f *fakeThrottleStore) LastSent(_ context.Context, email, purpose string) (time.Time, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	at, ok := f.sent[throttleKey{email, purpose}]
	return at, ok, nil
}

func (f *fakeThrottleStore) MarkSent(_ context.Context, email, purpose string, at time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent[throttleKey{email, purpose}] = at
	return nil
}

// fakeMailer records delivered messages.
type fakeMailer struct {
	mu   sync.Mutex
	sent []mail.Message
}

func (f *fakeMailer) Send(_ context.Context, msg mail.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMailer) messages() []mail.Message {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]mail.Message(nil), f.sent...)
}

// syncSubmitter runs submitted jobs inline so tests observe delivery
// without goroutine coordination.
type syncSubmitter struct{}

func (syncSubmitter) Submit(job jobs.Job) error {
	return job.Execute(context.Background())
}
