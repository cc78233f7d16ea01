package mail

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/tickdo/tickdo-api/internal/platform/logger"
)

// RetryingMailer wraps another Mailer and retries transient delivery
// failures with exponential backoff. SMTP relays routinely drop or defer
// connections, so a short retry loop recovers most failures without any
// queue persistence.
type RetryingMailer struct {
	inner       Mailer
	maxRetries  uint64
	baseBackoff time.Duration
}

// Ensure RetryingMailer implements Mailer interface
var _ Mailer = (*RetryingMailer)(nil)

// NewRetryingMailer wraps inner with up to maxRetries additional delivery
// attempts after the first.
func NewRetryingMailer(inner Mailer, maxRetries uint64, baseBackoff time.Duration) *RetryingMailer {
	if baseBackoff <= 0 {
		baseBackoff = time.Second
	}
	return &RetryingMailer{
		inner:       inner,
		maxRetries:  maxRetries,
		baseBackoff: baseBackoff,
	}
}

// Send implements the Mailer interface.
func (m *RetryingMailer) Send(ctx context.Context, msg Message) error {
	log := logger.FromContext(ctx)
	attempt := 0

	backoff := retry.WithMaxRetries(m.maxRetries, retry.NewExponential(m.baseBackoff))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		err := m.inner.Send(ctx, msg)
		if err != nil {
			log.Debug("mail delivery attempt failed",
				"attempt", attempt,
				"error", err)
			return retry.RetryableError(err)
		}
		return nil
	})
}
