package repository

import (
	"context"
	"errors"

	"synnapse/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPermissionsNotFound is returned when no permissions row matches a lookup.
var ErrPermissionsNotFound = errors.New("permissions not found")

// PermissionsRepository defines persistence for per-person capability flags.
type PermissionsRepository interface {
	Create(ctx context.Context, permissions *entity.Permissions) error
	FindAll(ctx context.Context) ([]*entity.Permissions, error)

	// FindByPersonID returns every row for the person; the schema does not enforce one.
	FindByPersonID(ctx context.Context, personID uuid.UUID) ([]*entity.Permissions, error)

	FindByID(ctx context.Context, id uuid.UUID) (*entity.Permissions, error)
	Update(ctx context.Context, permissions *entity.Permissions) error
	Delete(ctx context.Context, id uuid.UUID) error
}
