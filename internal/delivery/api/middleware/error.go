package middleware

import (
	"log/slog"
	"net/http"

	"synnapse/internal/delivery/api/response"
	deliverycontext "synnapse/internal/delivery/context"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/errors"

	"github.com/labstack/echo/v4"
)

// ErrorMiddleware handles errors in the HTTP pipeline
type ErrorMiddleware struct {
	logger *slog.Logger
}

// NewErrorMiddleware creates a new error handling middleware
func NewErrorMiddleware(logger *slog.Logger) *ErrorMiddleware {
	return &ErrorMiddleware{
		logger: logger,
	}
}

// HandleHTTPError handles errors as Echo's HTTPErrorHandler
func (m *ErrorMiddleware) HandleHTTPError(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	logger := deliverycontext.LoggerOrDefault(c.Request().Context(), m.logger)

	// Application errors carry their own status and a client-safe message
	if appErr, ok := errors.AsType[domainerrors.AppError](err); ok {
		if appErr.HTTPCode() >= http.StatusInternalServerError {
			logger.Error("Request failed", slog.String("route", response.Route(c)), slog.Any("error", err))
		}
		_ = response.Error(c, appErr.HTTPCode(), appErr.ErrorCode(), appErr.Message())

		return
	}

	if httpErr, ok := errors.AsType[*echo.HTTPError](err); ok {
		switch httpErr.Code {
		case http.StatusUnauthorized:
			_ = response.Error(c, httpErr.Code, domainerrors.ErrUnauthorized.ErrorCode(), domainerrors.ErrUnauthorized.Message())
		case http.StatusNotFound:
			_ = response.Error(c, httpErr.Code, domainerrors.ErrNotFound.ErrorCode(), domainerrors.ErrNotFound.Message())
		default:
			_ = response.Unclassified(c, httpErr.Code, "An error occurred")
		}

		return
	}

	// Default to internal error, log the error but return a generic message (do not expose internal details)
	logger.Error("Unhandled error",
		slog.Any("error", err),
		slog.String("route", response.Route(c)),
	)

	_ = response.Unclassified(c, http.StatusInternalServerError, "An error occurred")
}
