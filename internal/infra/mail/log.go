package mail

import (
	"context"
	"log/slog"

	"synnapse/internal/domain/service"
)

// logMailer writes the reset link to the log instead of sending it.
type logMailer struct {
	baseURL string
	logger  *slog.Logger
}

// NewLogMailer creates a Mailer for local development.
func NewLogMailer(baseURL string, logger *slog.Logger) service.Mailer {
	return &logMailer{baseURL: baseURL, logger: logger}
}

// SendPasswordReset logs the full reset link. Never select this provider in production.
func (m *logMailer) SendPasswordReset(ctx context.Context, email, token string) error {
	m.logger.InfoContext(ctx, "[LogMailer] Password reset email",
		slog.String("to", email),
		slog.String("subject", resetSubject),
		slog.String("link", ResetLink(m.baseURL, token)),
	)

	return nil
}
