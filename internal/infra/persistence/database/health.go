package database

import (
	"context"

	"synnapse/internal/domain/repository"
	"synnapse/internal/errors"
	"synnapse/internal/infra/persistence/model"

	"gorm.io/gorm"
)

type healthChecker struct {
	db *gorm.DB
}

// NewHealthChecker is the constructor for the storage health probe.
func NewHealthChecker(db *gorm.DB) repository.HealthChecker {
	return &healthChecker{db: db}
}

// Ping runs a real query against the person table, not just a connection ping,
// so a missing schema is reported too.
func (h *healthChecker) Ping(ctx context.Context) error {
	var count int64
	if err := h.db.WithContext(ctx).Model(&model.PersonModel{}).Limit(1).Count(&count).Error; err != nil {
		return errors.Wrap(err, "health query failed")
	}

	return nil
}
