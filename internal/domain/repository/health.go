package repository

import "context"

// HealthChecker reports whether the storage backend answers queries.
type HealthChecker interface {
	Ping(ctx context.Context) error
}
