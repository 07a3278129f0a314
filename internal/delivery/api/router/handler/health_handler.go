package handler

import (
	"net/http"

	"synnapse/internal/usecase"

	"github.com/labstack/echo/v4"
)

// HealthHandler serves GET /health.
type HealthHandler struct {
	healthUC usecase.HealthUsecase
}

// NewHealthHandler is the constructor for HealthHandler
func NewHealthHandler(healthUC usecase.HealthUsecase) *HealthHandler {
	return &HealthHandler{healthUC: healthUC}
}

// Check reports liveness. Storage failures are reported in db_status, never as a non-200.
func (h *HealthHandler) Check(c echo.Context) error {
	return c.JSON(http.StatusOK, h.healthUC.Check(c.Request().Context()))
}
