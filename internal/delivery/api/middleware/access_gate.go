package middleware

import (
	"log/slog"

	"synnapse/config"
	"synnapse/internal/delivery/api/response"
	deliverycontext "synnapse/internal/delivery/context"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/errors"
	"synnapse/internal/infra/auth"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

const defaultAPIKeyHeader = "X-Syn-Api-Key"

// AccessGateParams holds dependencies for AccessGate, injected by Fx.
type AccessGateParams struct {
	fx.In

	Signer *auth.APIKeySigner
	Config *config.Config
	Logger *slog.Logger
}

// AccessGate rejects requests whose API key header is not the signature of the request URI.
type AccessGate struct {
	signer   *auth.APIKeySigner
	header   string
	disabled bool
	logger   *slog.Logger
}

// NewAccessGate is the constructor for AccessGate.
func NewAccessGate(params AccessGateParams) *AccessGate {
	header := params.Config.AccessGate.Header
	if header == "" {
		header = defaultAPIKeyHeader
	}

	gate := &AccessGate{
		signer:   params.Signer,
		header:   header,
		disabled: params.Config.AuthDisabled(),
		logger:   params.Logger,
	}
	if gate.disabled {
		params.Logger.Error("ACCESS GATE DISABLED: every request is accepted without an API key",
			slog.String("env", config.DisableAuthEnv),
		)
	}

	return gate
}

// Guard is the echo middleware enforcing the gate.
func (g *AccessGate) Guard(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		req := c.Request()
		logger := deliverycontext.LoggerOrDefault(req.Context(), g.logger)

		if g.disabled {
			logger.Warn("Access gate bypassed", slog.String("route", response.Route(c)))

			return next(c)
		}

		if !g.signer.Verify(req.Header.Get(g.header), req.RequestURI) {
			route := response.Route(c)
			logger.Error("Rejected request without a valid API key", slog.String("route", route))

			return errors.Wrap(domainerrors.ErrUnauthorized, route)
		}

		return next(c)
	}
}
