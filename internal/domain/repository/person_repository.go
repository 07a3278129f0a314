// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"synnapse/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPersonNotFound is returned when no person matches a lookup.
var ErrPersonNotFound = errors.New("person not found")

// PersonRepository defines the standard operations for person persistence.
type PersonRepository interface {
	// Create persists a new person. A zero ID is replaced by a generated one.
	Create(ctx context.Context, person *entity.Person) error

	FindAll(ctx context.Context) ([]*entity.Person, error)

	// FindByID retrieves a single person by their unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Person, error)

	// FindByEmail retrieves a single person by their email address.
	FindByEmail(ctx context.Context, email string) (*entity.Person, error)

	// FindByFederatedID retrieves a single person by their Google subject identifier.
	FindByFederatedID(ctx context.Context, federatedID string) (*entity.Person, error)

	// Update overwrites every column of the person identified by person.ID.
	Update(ctx context.Context, person *entity.Person) error

	Delete(ctx context.Context, id uuid.UUID) error

	// UpdateFederatedID writes only the federated id column and returns the re-read person.
	UpdateFederatedID(ctx context.Context, id uuid.UUID, federatedID string) (*entity.Person, error)
}
