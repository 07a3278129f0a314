package usecase

import (
	"context"
	"time"

	"synnapse/internal/domain/entity"

	"github.com/google/uuid"
)

// EntryInput is a new or replacement access event.
type EntryInput struct {
	PersonID uuid.UUID
	Instant  time.Time
	Action   entity.EntryAction
}

// EntryQuery narrows a listing. Date is parsed leniently and selects entries up to the end of that day.
type EntryQuery struct {
	PersonID *uuid.UUID
	Action   string
	Date     string
}

// EntryUsecase manages check-in and check-out events.
type EntryUsecase interface {
	List(ctx context.Context, query *EntryQuery) ([]*entity.Entry, error)
	Get(ctx context.Context, id uuid.UUID) (*entity.Entry, error)
	Create(ctx context.Context, input *EntryInput) (*entity.Entry, error)
	Update(ctx context.Context, id uuid.UUID, input *EntryInput) (*entity.Entry, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
