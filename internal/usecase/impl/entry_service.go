package impl

import (
	"context"
	"log/slog"
	"time"

	"synnapse/config"
	"synnapse/internal/domain/datefmt"
	"synnapse/internal/domain/entity"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/domain/repository"
	"synnapse/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const resourceEntry = "Entry"

// entryService implements the EntryUsecase interface.
type entryService struct {
	entryRepo    repository.EntryRepository
	queryTimeout time.Duration
	logger       *slog.Logger
}

// EntryServiceParams holds dependencies for EntryService, injected by Fx.
type EntryServiceParams struct {
	fx.In

	EntryRepo repository.EntryRepository
	Config    *config.Config
	Logger    *slog.Logger
}

// NewEntryService is the constructor for entryService.
func NewEntryService(params EntryServiceParams) usecase.EntryUsecase {
	return &entryService{
		entryRepo:    params.EntryRepo,
		queryTimeout: params.Config.Database.Timeouts.Query,
		logger:       params.Logger,
	}
}

// List returns the entries matching query, newest first.
func (srv *entryService) List(ctx context.Context, query *usecase.EntryQuery) ([]*entity.Entry, error) {
	filter := repository.EntryFilter{PersonID: query.PersonID}

	if query.Action != "" {
		action := entity.EntryAction(query.Action)
		if !action.IsValid() {
			return nil, domainerrors.ErrValidationFailed.WithMessage("Invalid action, expected Enter or Exit")
		}
		filter.Action = &action
	}

	if query.Date != "" {
		until, err := datefmt.EndOfDay(query.Date)
		if err != nil {
			return nil, domainerrors.ErrValidationFailed.WithMessage("Invalid date format")
		}
		filter.Until = &until
	}

	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	entries, err := srv.entryRepo.Find(qctx, filter)
	if err != nil {
		return nil, translateStorageError(err, repository.ErrEntryNotFound, resourceEntry)
	}

	return entries, nil
}

func (srv *entryService) Get(ctx context.Context, id uuid.UUID) (*entity.Entry, error) {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	entry, err := srv.entryRepo.FindByID(qctx, id)
	if err != nil {
		return nil, translateStorageError(err, repository.ErrEntryNotFound, resourceEntry)
	}

	return entry, nil
}

func (srv *entryService) Create(ctx context.Context, input *usecase.EntryInput) (*entity.Entry, error) {
	entry, err := buildEntry(uuid.Nil, input)
	if err != nil {
		return nil, err
	}

	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()
	if err := srv.entryRepo.Create(qctx, entry); err != nil {
		return nil, translateStorageError(err, repository.ErrEntryNotFound, resourceEntry)
	}

	srv.logger.DebugContext(ctx, "Entry recorded",
		slog.String("personID", entry.PersonID.String()),
		slog.String("action", string(entry.Action)),
	)

	return entry, nil
}

func (srv *entryService) Update(ctx context.Context, id uuid.UUID, input *usecase.EntryInput) (*entity.Entry, error) {
	entry, err := buildEntry(id, input)
	if err != nil {
		return nil, err
	}

	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()
	if err := srv.entryRepo.Update(qctx, entry); err != nil {
		return nil, translateStorageError(err, repository.ErrEntryNotFound, resourceEntry)
	}

	return entry, nil
}

func (srv *entryService) Delete(ctx context.Context, id uuid.UUID) error {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	return translateStorageError(srv.entryRepo.Delete(qctx, id), repository.ErrEntryNotFound, resourceEntry)
}

func buildEntry(id uuid.UUID, input *usecase.EntryInput) (*entity.Entry, error) {
	if !input.Action.IsValid() {
		return nil, domainerrors.ErrValidationFailed.WithMessage("Invalid action, expected Enter or Exit")
	}
	if input.PersonID == uuid.Nil {
		return nil, domainerrors.ErrValidationFailed.WithMessage("person_id is required")
	}

	instant := input.Instant
	if instant.IsZero() {
		instant = time.Now()
	}

	return &entity.Entry{
		ID:       id,
		PersonID: input.PersonID,
		Instant:  instant.UTC(),
		Action:   input.Action,
	}, nil
}
