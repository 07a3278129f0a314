package repository

import (
	"context"
	"errors"
	"time"

	"synnapse/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrEntryNotFound is returned when no entry matches a lookup.
var ErrEntryNotFound = errors.New("entry not found")

// EntryFilter narrows an entry listing. Zero fields are ignored.
type EntryFilter struct {
	PersonID *uuid.UUID
	Action   *entity.EntryAction
	Until    *time.Time // instant <= Until
}

// EntryRepository stores access events.
type EntryRepository interface {
	Create(ctx context.Context, entry *entity.Entry) error
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Entry, error)
	Find(ctx context.Context, filter EntryFilter) ([]*entity.Entry, error)
	Update(ctx context.Context, entry *entity.Entry) error
	Delete(ctx context.Context, id uuid.UUID) error
}
