// Package context carries the request id and the request-scoped logger from the
// echo delivery down to usecases and repositories.
package context

import (
	"context"
	"log/slog"

	"github.com/labstack/echo/v4"
)

// HeaderRequestID is echoed back on every response and accepted from trusted callers.
const HeaderRequestID = "X-Request-Id"

const echoRequestIDKey = "request_id"

type scopeKey struct{}

type scope struct {
	requestID string
	logger    *slog.Logger
}

// Bind stores the request id on c and a scope with id and logger on the request context.
func Bind(c echo.Context, requestID string, logger *slog.Logger) {
	c.Set(echoRequestIDKey, requestID)
	ctx := context.WithValue(c.Request().Context(), scopeKey{}, scope{requestID: requestID, logger: logger})
	c.SetRequest(c.Request().WithContext(ctx))
}

// RequestID returns the id bound to c, or "" outside the request-id middleware.
func RequestID(c echo.Context) string {
	id, _ := c.Get(echoRequestIDKey).(string)

	return id
}

// RequestIDFromContext returns the id bound to ctx, or "".
func RequestIDFromContext(ctx context.Context) string {
	s, _ := ctx.Value(scopeKey{}).(scope)

	return s.requestID
}

// LoggerOrDefault returns the request-scoped logger, or fallback when ctx has none.
func LoggerOrDefault(ctx context.Context, fallback *slog.Logger) *slog.Logger {
	if s, ok := ctx.Value(scopeKey{}).(scope); ok && s.logger != nil {
		return s.logger
	}

	return fallback
}
