package store

import (
	"context"
	"time"
)

// ThrottleStore tracks, per email address and mail kind, when the last email
// was sent. Confirmation and reset mail throttle independently: a
// registration mail must never suppress the address's first reset mail. The
// store exists purely to throttle outbound mail; last-writer-wins under
// concurrent requests is acceptable because losing a write can only let one
// extra email through, never break token correctness.
type ThrottleStore interface {
	// LastSent returns the time the last email of the given purpose was sent
	// to the address and whether any such send has been recorded at all.
	LastSent(ctx context.Context, email, purpose string) (time.Time, bool, error)

	// MarkSent records that an email of the given purpose was sent to the
	// address at the given time, overwriting any previous record.
	MarkSent(ctx context.Context, email, purpose string, at time.Time) error
}
