package usecase

import (
	"context"

	"synnapse/internal/domain/entity"

	"github.com/google/uuid"
)

// PersonInput carries the writable fields of a person. Password, when set, is hashed
// before storage; a nil Password on update keeps the current hash.
type PersonInput struct {
	Name        string
	Surname     string
	Email       string
	Role        entity.Role
	Password    *string
	FederatedID *string
}

// PersonUsecase manages person records outside the auth flows.
type PersonUsecase interface {
	List(ctx context.Context) ([]*entity.Person, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Person, error)
	GetByFederatedID(ctx context.Context, federatedID string) (*entity.Person, error)
	Create(ctx context.Context, input *PersonInput) (*entity.Person, error)
	Update(ctx context.Context, id uuid.UUID, input *PersonInput) (*entity.Person, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
