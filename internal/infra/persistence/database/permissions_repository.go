package database

import (
	"context"

	"synnapse/internal/domain/entity"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/domain/repository"
	"synnapse/internal/infra/persistence/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// permissionsRepository implements repository.PermissionsRepository using GORM.
type permissionsRepository struct {
	db *gorm.DB
}

// NewPermissionsRepository is the constructor for permissionsRepository.
func NewPermissionsRepository(db *gorm.DB) repository.PermissionsRepository {
	return &permissionsRepository{db: db}
}

func (repo *permissionsRepository) Create(ctx context.Context, permissions *entity.Permissions) error {
	if permissions.ID == uuid.Nil {
		permissions.ID = uuid.New()
	}

	// Select("*") so false flags are written instead of falling back to column defaults.
	if err := repo.db.WithContext(ctx).Select("*").Omit("Person").Create(fromPermissionsDomain(permissions)).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid person reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create permissions")
	}

	return nil
}

func (repo *permissionsRepository) FindAll(ctx context.Context) ([]*entity.Permissions, error) {
	var rows []*model.PermissionsModel
	if err := repo.db.WithContext(ctx).Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list permissions")
	}

	return toPermissionsDomainList(rows), nil
}

func (repo *permissionsRepository) FindByPersonID(ctx context.Context, personID uuid.UUID) ([]*entity.Permissions, error) {
	var rows []*model.PermissionsModel
	if err := repo.db.WithContext(ctx).Where("person_id = ?", personID).Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find permissions by person")
	}

	return toPermissionsDomainList(rows), nil
}

func (repo *permissionsRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Permissions, error) {
	var row model.PermissionsModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrPermissionsNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find permissions")
	}

	return toPermissionsDomain(&row), nil
}

func (repo *permissionsRepository) Update(ctx context.Context, permissions *entity.Permissions) error {
	res := repo.db.WithContext(ctx).
		Model(&model.PermissionsModel{ID: permissions.ID}).
		Select("*").
		Omit("id", "Person").
		Updates(fromPermissionsDomain(permissions))
	if res.Error != nil {
		if isForeignKeyConstraintViolation(res.Error) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid person reference")
		}

		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update permissions")
	}
	if res.RowsAffected == 0 {
		return repository.ErrPermissionsNotFound
	}

	return nil
}

func (repo *permissionsRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).Delete(&model.PermissionsModel{}, "id = ?", id)
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete permissions")
	}
	if res.RowsAffected == 0 {
		return repository.ErrPermissionsNotFound
	}

	return nil
}

// --- Mapper Functions ---

func toPermissionsDomainList(rows []*model.PermissionsModel) []*entity.Permissions {
	out := make([]*entity.Permissions, 0, len(rows))
	for _, row := range rows {
		out = append(out, toPermissionsDomain(row))
	}

	return out
}

func toPermissionsDomain(data *model.PermissionsModel) *entity.Permissions {
	if data == nil {
		return nil
	}

	return &entity.Permissions{
		ID:               data.ID,
		PersonID:         data.PersonID,
		Dashboard:        data.Dashboard,
		SeeSelfHistory:   data.SeeSelfHistory,
		SeeOthersHistory: data.SeeOthersHistory,
		AdminPanel:       data.AdminPanel,
		EditPermissions:  data.EditPermissions,
	}
}

func fromPermissionsDomain(data *entity.Permissions) *model.PermissionsModel {
	if data == nil {
		return nil
	}

	return &model.PermissionsModel{
		ID:               data.ID,
		PersonID:         data.PersonID,
		Dashboard:        data.Dashboard,
		SeeSelfHistory:   data.SeeSelfHistory,
		SeeOthersHistory: data.SeeOthersHistory,
		AdminPanel:       data.AdminPanel,
		EditPermissions:  data.EditPermissions,
	}
}
