package impl

import (
	"context"
	"log/slog"
	"time"

	"synnapse/config"
	"synnapse/internal/domain/repository"
	"synnapse/internal/errors"
	"synnapse/internal/usecase"
)

// healthService implements the HealthUsecase interface.
type healthService struct {
	checker      repository.HealthChecker
	queryTimeout time.Duration
	logger       *slog.Logger
}

// NewHealthService is the constructor for healthService.
func NewHealthService(checker repository.HealthChecker, cfg *config.Config, logger *slog.Logger) usecase.HealthUsecase {
	return &healthService{
		checker:      checker,
		queryTimeout: cfg.Database.Timeouts.Query,
		logger:       logger,
	}
}

// Check always reports the process as up; storage problems show in DBStatus with a coarse reason.
func (srv *healthService) Check(ctx context.Context) *usecase.HealthStatus {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	status := &usecase.HealthStatus{Status: usecase.StatusOK, DBStatus: usecase.StatusOK}
	if err := srv.checker.Ping(qctx); err != nil {
		srv.logger.ErrorContext(ctx, "Database health check failed", slog.Any("error", err))
		status.DBStatus = "Error: database unreachable"
		if errors.IsTimeout(err) {
			status.DBStatus = "Error: database timeout"
		}
	}

	return status
}
