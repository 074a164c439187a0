package mailer

import (
	"context"
	"fmt"

	"github.com/ctoapp/cto-backend/config"
	"github.com/ctoapp/cto-backend/pkg/logger"
	"github.com/wneessen/go-mail"
)

// Message is one outbound email.
type Message struct {
	To      string
	Subject string
	HTML    string
}

// Mailer delivers account emails. Implementations must be safe for
// concurrent use.
type Mailer interface {
	Send(ctx context.Context, msg Message) error
}

// New returns an SMTP mailer when a host is configured, otherwise a
// log-only mailer for local development.
func New(cfg config.SMTPConfig) Mailer {
	if cfg.Host == "" {
		logger.Warn("SMTP host not configured, emails will only be logged", nil)
		return &LogMailer{}
	}
	return &SMTPMailer{cfg: cfg}
}

// SMTPMailer sends mail through a plain SMTP relay.
type SMTPMailer struct {
	cfg config.SMTPConfig
}

func (m *SMTPMailer) Send(ctx context.Context, msg Message) error {
	mm := mail.NewMsg()
	if err := mm.From(m.cfg.From); err != nil {
		return fmt.Errorf("setting from address: %w", err)
	}
	if err := mm.To(msg.To); err != nil {
		return fmt.Errorf("setting to address: %w", err)
	}
	mm.Subject(msg.Subject)
	mm.SetBodyString(mail.TypeTextHTML, msg.HTML)

	opts := []mail.Option{
		mail.WithPort(m.cfg.Port),
	}
	if m.cfg.Port == 465 {
		opts = append(opts, mail.WithSSL())
	}
	if m.cfg.Username != "" && m.cfg.Password != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(m.cfg.Username),
			mail.WithPassword(m.cfg.Password),
		)
	}

	client, err := mail.NewClient(m.cfg.Host, opts...)
	if err != nil {
		return fmt.Errorf("creating mail client: %w", err)
	}

	if err := client.DialAndSendWithContext(ctx, mm); err != nil {
		logger.Error("Failed to send email", err, map[string]interface{}{
			"to":      msg.To,
			"subject": msg.Subject,
		})
		return fmt.Errorf("sending email: %w", err)
	}

	logger.Info("Email sent", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
	})
	return nil
}

// LogMailer writes the message to the application log instead of
// delivering it. Used when no SMTP relay is configured.
type LogMailer struct{}

func (m *LogMailer) Send(_ context.Context, msg Message) error {
	logger.Info("Email (log only)", map[string]interface{}{
		"to":      msg.To,
		"subject": msg.Subject,
		"body":    msg.HTML,
	})
	return nil
}
