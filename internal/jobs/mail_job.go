package jobs

import (
	"context"

	"github.com/google/uuid"

	"github.com/tickdo/tickdo-api/internal/platform/mail"
)

// MailDeliveryJob delivers one composed email message through a Mailer.
type MailDeliveryJob struct {
	id     uuid.UUID
	mailer mail.Mailer
	msg    mail.Message
}

// Ensure MailDeliveryJob implements Job interface
var _ Job = (*MailDeliveryJob)(nil)

// NewMailDeliveryJob creates a job that delivers msg via mailer.
func NewMailDeliveryJob(mailer mail.Mailer, msg mail.Message) *MailDeliveryJob {
	return &MailDeliveryJob{
		id:     uuid.New(),
		mailer: mailer,
		msg:    msg,
	}
}

// ID implements Job.ID
func (j *MailDeliveryJob) ID() uuid.UUID {
	return j.id
}

// Type implements Job.Type
func (j *MailDeliveryJob) Type() string {
	return JobTypeMailDelivery
}

// Execute implements Job.Execute
func (j *MailDeliveryJob) Execute(ctx context.Context) error {
	return j.mailer.Send(ctx, j.msg)
}
