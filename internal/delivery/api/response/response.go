package response

import (
	deliverycontext "synnapse/internal/delivery/context"
	"synnapse/internal/usecase"

	"github.com/labstack/echo/v4"
)

// StatusError is the status field of every error body.
const StatusError = "error"

// SuccessResponse defines the structure for successful CRUD responses
type SuccessResponse struct {
	Data any       `json:"data"`
	Meta *MetaInfo `json:"meta"`
}

// ErrorResponse defines the structure for error responses
type ErrorResponse struct {
	Status     string    `json:"status"`
	Code       string    `json:"code"`                  // Machine-readable error code, e.g., "VALIDATION_FAILED"
	Message    string    `json:"message"`               // User-friendly error message
	Path       string    `json:"path"`                  // "METHOD URI" of the failed request
	StatusCode int       `json:"status_code,omitempty"` // Set only for unclassified failures
	Meta       *MetaInfo `json:"meta"`
}

// MetaInfo represents response metadata
type MetaInfo struct {
	RequestID string `json:"request_id"` // Request tracking ID
}

func meta(c echo.Context) *MetaInfo {
	return &MetaInfo{RequestID: deliverycontext.RequestID(c)}
}

// Route returns the "METHOD URI" label of the current request.
func Route(c echo.Context) string {
	return c.Request().Method + " " + c.Request().RequestURI
}

// Success returns a successful response
func Success(c echo.Context, statusCode int, data any) error {
	return c.JSON(statusCode, SuccessResponse{
		Data: data,
		Meta: meta(c),
	})
}

// Outcome writes an auth outcome as-is, with the HTTP status it carries.
func Outcome(c echo.Context, outcome *usecase.AuthOutcome) error {
	return c.JSON(outcome.HTTPStatus, outcome)
}

// Error returns an error response
func Error(c echo.Context, statusCode int, errorCode string, message string) error {
	return c.JSON(statusCode, ErrorResponse{
		Status:  StatusError,
		Code:    errorCode,
		Message: message,
		Path:    Route(c),
		Meta:    meta(c),
	})
}

// Unclassified returns an error response for failures with no application error code.
func Unclassified(c echo.Context, statusCode int, message string) error {
	return c.JSON(statusCode, ErrorResponse{
		Status:     StatusError,
		Code:       "HTTP_ERROR",
		Message:    message,
		Path:       Route(c),
		StatusCode: statusCode,
		Meta:       meta(c),
	})
}
