package postgres

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"time"

	"github.com/tickdo/tickdo-api/internal/platform/logger"
	"github.com/tickdo/tickdo-api/internal/store"
)

// PostgresThrottleStore implements store.ThrottleStore on one
// last-sent-timestamp row per (email, purpose) pair, so confirmation and
// reset mail throttle independently. The upsert makes concurrent requests
// for the same address resolve last-writer-wins, which only affects
// throttling, never token correctness.
type PostgresThrottleStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresThrottleStore creates a new PostgreSQL implementation of the
// ThrottleStore interface.
func NewPostgresThrottleStore(db store.DBTX, logger *slog.Logger) *PostgresThrottleStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresThrottleStore{
		db:     db,
		logger: logger.With(slog.String("component", "throttle_store")),
	}
}

// Ensure PostgresThrottleStore implements store.ThrottleStore interface
var _ store.ThrottleStore = (*PostgresThrottleStore)(nil)

// LastSent implements store.ThrottleStore.LastSent
func (s *PostgresThrottleStore) LastSent(ctx context.Context, email, purpose string) (time.Time, bool, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		SELECT last_sent_at
		FROM mail_throttle
		WHERE email = $1 AND purpose = $2
	`

	var lastSent time.Time
	err := s.db.QueryRowContext(ctx, query, email, purpose).Scan(&lastSent)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		log.Error("failed to read mail throttle",
			slog.String("error", err.Error()))
		return time.Time{}, false, err
	}

	return lastSent, true, nil
}

// MarkSent implements store.ThrottleStore.MarkSent
func (s *PostgresThrottleStore) MarkSent(ctx context.Context, email, purpose string, at time.Time) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `
		INSERT INTO mail_throttle (email, purpose, last_sent_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (email, purpose) DO UPDATE SET last_sent_at = EXCLUDED.last_sent_at
	`

	if _, err := s.db.ExecContext(ctx, query, email, purpose, at); err != nil {
		log.Error("failed to record mail throttle",
			slog.String("error", err.Error()))
		return err
	}

	return nil
}
