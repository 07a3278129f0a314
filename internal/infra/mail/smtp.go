package mail

import (
	"context"
	"log/slog"

	"synnapse/config"
	"synnapse/internal/domain/service"

	"github.com/pkg/errors"
	"gopkg.in/gomail.v2"
)

type sender interface {
	DialAndSend(m ...*gomail.Message) error
}

// smtpMailer sends mail through an SMTP relay with gomail.
type smtpMailer struct {
	from    string
	baseURL string
	dialer  sender
	logger  *slog.Logger
}

// NewSMTPMailer creates a Mailer that dials the configured relay for every message.
func NewSMTPMailer(cfg config.MailConfig, logger *slog.Logger) service.Mailer {
	return &smtpMailer{
		from:    cfg.From,
		baseURL: cfg.BaseURL,
		dialer:  gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger:  logger,
	}
}

// SendPasswordReset renders and sends the reset email. gomail has no context
// support, so the send runs in a goroutine and ctx bounds how long we wait for it.
func (m *smtpMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	body, err := renderResetBody(ResetLink(m.baseURL, token))
	if err != nil {
		return err
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.from)
	msg.SetHeader("To", email)
	msg.SetHeader("Subject", resetSubject)
	msg.SetBody("text/html", body)

	done := make(chan error, 1)
	go func() {
		done <- m.dialer.DialAndSend(msg)
	}()

	select {
	case err := <-done:
		if err != nil {
			return errors.Wrap(err, "send email")
		}
	case <-ctx.Done():
		return errors.Wrap(ctx.Err(), "send email")
	}

	m.logger.InfoContext(ctx, "Password reset email sent", slog.String("to", email))

	return nil
}
