package usecase

import (
	"context"

	"synnapse/internal/domain/entity"

	"github.com/google/uuid"
)

// PermissionsUsecase manages capability flags.
type PermissionsUsecase interface {
	List(ctx context.Context) ([]*entity.Permissions, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Permissions, error)
	ListByPerson(ctx context.Context, personID uuid.UUID) ([]*entity.Permissions, error)
	Create(ctx context.Context, permissions *entity.Permissions) error
	Update(ctx context.Context, id uuid.UUID, permissions *entity.Permissions) error
	Delete(ctx context.Context, id uuid.UUID) error
}
