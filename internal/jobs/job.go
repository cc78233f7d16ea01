package jobs

import (
	"context"

	"github.com/google/uuid"
)

// Job type constants
const (
	// JobTypeMailDelivery represents outbound email delivery work.
	JobTypeMailDelivery = "mail_delivery"
)

// Job represents a unit of background work to be processed.
type Job interface {
	// ID returns the job's unique identifier
	ID() uuid.UUID

	// Type returns the job type identifier
	Type() string

	// Execute runs the job logic
	Execute(ctx context.Context) error
}
