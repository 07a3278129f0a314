package usecase

import "context"

// HealthStatus reports liveness and storage reachability.
type HealthStatus struct {
	Status   string `json:"status"`
	DBStatus string `json:"db_status"`
}

type HealthUsecase interface {
	Check(ctx context.Context) *HealthStatus
}
