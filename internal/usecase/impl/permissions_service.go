package impl

import (
	"context"
	"log/slog"
	"time"

	"synnapse/config"
	"synnapse/internal/domain/entity"
	"synnapse/internal/domain/repository"
	"synnapse/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

const resourcePermissions = "Permissions"

// permissionsService implements the PermissionsUsecase interface.
type permissionsService struct {
	permissionsRepo repository.PermissionsRepository
	queryTimeout    time.Duration
	logger          *slog.Logger
}

// PermissionsServiceParams holds dependencies for PermissionsService, injected by Fx.
type PermissionsServiceParams struct {
	fx.In

	PermissionsRepo repository.PermissionsRepository
	Config          *config.Config
	Logger          *slog.Logger
}

// NewPermissionsService is the constructor for permissionsService.
func NewPermissionsService(params PermissionsServiceParams) usecase.PermissionsUsecase {
	return &permissionsService{
		permissionsRepo: params.PermissionsRepo,
		queryTimeout:    params.Config.Database.Timeouts.Query,
		logger:          params.Logger,
	}
}

func (srv *permissionsService) List(ctx context.Context) ([]*entity.Permissions, error) {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	list, err := srv.permissionsRepo.FindAll(qctx)

	return list, translateStorageError(err, repository.ErrPermissionsNotFound, resourcePermissions)
}

func (srv *permissionsService) Get(ctx context.Context, id uuid.UUID) (*entity.Permissions, error) {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	perms, err := srv.permissionsRepo.FindByID(qctx, id)
	if err != nil {
		return nil, translateStorageError(err, repository.ErrPermissionsNotFound, resourcePermissions)
	}

	return perms, nil
}

func (srv *permissionsService) ListByPerson(ctx context.Context, personID uuid.UUID) ([]*entity.Permissions, error) {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	list, err := srv.permissionsRepo.FindByPersonID(qctx, personID)

	return list, translateStorageError(err, repository.ErrPermissionsNotFound, resourcePermissions)
}

func (srv *permissionsService) Create(ctx context.Context, permissions *entity.Permissions) error {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	permissions.ID = uuid.Nil
	if err := srv.permissionsRepo.Create(qctx, permissions); err != nil {
		return translateStorageError(err, repository.ErrPermissionsNotFound, resourcePermissions)
	}

	return nil
}

func (srv *permissionsService) Update(ctx context.Context, id uuid.UUID, permissions *entity.Permissions) error {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	permissions.ID = id
	if err := srv.permissionsRepo.Update(qctx, permissions); err != nil {
		return translateStorageError(err, repository.ErrPermissionsNotFound, resourcePermissions)
	}

	srv.logger.InfoContext(ctx, "Permissions updated",
		slog.String("permissionsID", id.String()),
		slog.String("personID", permissions.PersonID.String()),
	)

	return nil
}

func (srv *permissionsService) Delete(ctx context.Context, id uuid.UUID) error {
	qctx, cancel := withTimeout(ctx, srv.queryTimeout)
	defer cancel()

	return translateStorageError(srv.permissionsRepo.Delete(qctx, id), repository.ErrPermissionsNotFound, resourcePermissions)
}
