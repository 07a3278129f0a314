package impl

import (
	"context"
	"log/slog"
	"time"

	"synnapse/config"
	deliverycontext "synnapse/internal/delivery/context"
	"synnapse/internal/domain/entity"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/domain/repository"
	"synnapse/internal/domain/service"
	"synnapse/internal/errors"
	"synnapse/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const resourcePerson = "Person"

// personService implements the PersonUsecase interface.
type personService struct {
	personRepo   repository.PersonRepository
	hasher       service.PasswordHasher
	queryTimeout time.Duration
	logger       *slog.Logger
}

// PersonServiceParams holds dependencies for PersonService, injected by Fx.
type PersonServiceParams struct {
	fx.In

	PersonRepo repository.PersonRepository
	Hasher     service.PasswordHasher
	Config     *config.Config
	Logger     *slog.Logger
}

// NewPersonService is the constructor for personService.
func NewPersonService(params PersonServiceParams) usecase.PersonUsecase {
	return &personService{
		personRepo:   params.PersonRepo,
		hasher:       params.Hasher,
		queryTimeout: params.Config.Database.Timeouts.Query,
		logger:       params.Logger,
	}
}

func (srv *personService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

func (srv *personService) List(ctx context.Context) ([]*entity.Person, error) {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	persons, err := srv.personRepo.FindAll(qctx)
	if err != nil {
		return nil, translateStorageError(err, repository.ErrPersonNotFound, resourcePerson)
	}

	return persons, nil
}

func (srv *personService) Get(ctx context.Context, id uuid.UUID) (*entity.Person, error) {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	person, err := srv.personRepo.FindByID(qctx, id)
	if err != nil {
		return nil, translateStorageError(err, repository.ErrPersonNotFound, resourcePerson)
	}

	return person, nil
}

func (srv *personService) GetByFederatedID(ctx context.Context, federatedID string) (*entity.Person, error) {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	person, err := srv.personRepo.FindByFederatedID(qctx, federatedID)
	if err != nil {
		return nil, translateStorageError(err, repository.ErrPersonNotFound, resourcePerson)
	}

	return person, nil
}

// Create stores a new person. A person needs a password or a Google id to be able to log in.
func (srv *personService) Create(ctx context.Context, input *usecase.PersonInput) (*entity.Person, error) {
	person := &entity.Person{ID: uuid.New()}
	if err := srv.apply(person, input); err != nil {
		return nil, err
	}

	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()
	if err := srv.personRepo.Create(qctx, person); err != nil {
		return nil, translateStorageError(err, repository.ErrPersonNotFound, resourcePerson)
	}

	srv.log(ctx).Info("Person created", slog.String("personID", person.ID.String()))

	return person, nil
}

// Update replaces the person's fields. The password hash is kept unless a new password is given;
// clearing google_id is rejected when it would leave the account without a credential.
func (srv *personService) Update(ctx context.Context, id uuid.UUID, input *usecase.PersonInput) (*entity.Person, error) {
	person, err := srv.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := srv.apply(person, input); err != nil {
		return nil, err
	}

	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()
	if err := srv.personRepo.Update(qctx, person); err != nil {
		return nil, translateStorageError(err, repository.ErrPersonNotFound, resourcePerson)
	}

	return person, nil
}

func (srv *personService) Delete(ctx context.Context, id uuid.UUID) error {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	if err := srv.personRepo.Delete(qctx, id); err != nil {
		return translateStorageError(err, repository.ErrPersonNotFound, resourcePerson)
	}

	srv.log(ctx).Info("Person deleted", slog.String("personID", id.String()))

	return nil
}

func (srv *personService) apply(person *entity.Person, input *usecase.PersonInput) error {
	person.Name = input.Name
	person.Surname = input.Surname
	person.Email = input.Email
	person.Role = input.Role
	if !person.Role.IsValid() {
		person.Role = entity.RoleStudent
	}
	person.FederatedID = input.FederatedID

	if input.Password != nil && *input.Password != "" {
		hash, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			return errors.Wrap(domainerrors.ErrPasswordHashFailed, err.Error())
		}
		person.SetPasswordHash(hash)
	}

	if !person.HasPassword() && !person.HasFederatedID() {
		return domainerrors.ErrValidationFailed.WithMessage(msgCredentialsRequired)
	}

	return nil
}
