// Package mail delivers account emails through SMTP or, in development, the log.
package mail

import (
	"log/slog"

	"synnapse/config"
	"synnapse/internal/domain/service"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// MailerParams holds dependencies for the Mailer, injected by Fx
type MailerParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

// NewMailer creates a Mailer based on configuration
func NewMailer(params MailerParams) (service.Mailer, error) {
	cfg := params.Config.Mail
	logger := params.Logger

	switch cfg.Provider {
	case "", config.MailProviderLog:
		logger.Info("Using log mailer, reset links will only be logged")

		return NewLogMailer(cfg.BaseURL, logger), nil

	case config.MailProviderSMTP:
		if cfg.Host == "" {
			return nil, errors.New("mail host is required for smtp provider")
		}
		if cfg.From == "" {
			return nil, errors.New("mail from address is required for smtp provider")
		}
		logger.Info("Using SMTP mailer",
			slog.String("host", cfg.Host),
			slog.Int("port", cfg.Port),
		)

		return NewSMTPMailer(cfg, logger), nil

	default:
		return nil, errors.Errorf("unknown mail provider: %s", cfg.Provider)
	}
}
