// Package mail sends outbound email through a fixed SMTP relay. Delivery is
// slow and fallible, so callers are expected to submit messages through the
// background job runner rather than send on the request path.
package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/tickdo/tickdo-api/internal/config"
	"github.com/tickdo/tickdo-api/internal/platform/logger"
)

// Message is a fully composed plain-text email ready for delivery.
type Message struct {
	To      string
	Subject string
	Body    string
}

// Mailer defines the interface for delivering composed messages.
type Mailer interface {
	// Send delivers the message, honoring context cancellation between
	// attempts. Any returned error means the message was not delivered.
	Send(ctx context.Context, msg Message) error
}

// sendFunc performs a single SMTP delivery. Injectable for testing.
type sendFunc func(m *gomail.Message) error

// SMTPMailer delivers messages through a single configured SMTP relay using
// gomail. Each Send dials a fresh connection; the volume here (confirmation
// and reset mail) does not justify connection pooling.
type SMTPMailer struct {
	from string
	send sendFunc
}

// Ensure SMTPMailer implements Mailer interface
var _ Mailer = (*SMTPMailer)(nil)

// NewSMTPMailer creates an SMTPMailer from the mail config.
func NewSMTPMailer(cfg config.MailConfig) *SMTPMailer {
	dialer := gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password)
	return &SMTPMailer{
		from: cfg.From,
		// DialAndSend is variadic; adapt it to the single-message signature.
		send: func(m *gomail.Message) error {
			return dialer.DialAndSend(m)
		},
	}
}

// Send implements the Mailer interface.
func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	log := logger.FromContext(ctx)

	gm := gomail.NewMessage()
	gm.SetHeader("From", m.from)
	gm.SetHeader("To", msg.To)
	gm.SetHeader("Subject", msg.Subject)
	gm.SetBody("text/plain", msg.Body)

	if err := m.send(gm); err != nil {
		log.Warn("smtp delivery failed",
			"subject", msg.Subject,
			"error", err)
		return fmt.Errorf("failed to deliver mail: %w", err)
	}

	log.Debug("mail delivered",
		"subject", msg.Subject)
	return nil
}
