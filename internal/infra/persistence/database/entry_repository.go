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

// entryRepository implements repository.EntryRepository using GORM.
type entryRepository struct {
	db *gorm.DB
}

// NewEntryRepository is the constructor for entryRepository.
func NewEntryRepository(db *gorm.DB) repository.EntryRepository {
	return &entryRepository{db: db}
}

func (repo *entryRepository) Create(ctx context.Context, entry *entity.Entry) error {
	if entry.ID == uuid.Nil {
		entry.ID = uuid.New()
	}

	if err := repo.db.WithContext(ctx).Omit("Person").Create(fromEntryDomain(entry)).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid person reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create entry")
	}

	return nil
}

func (repo *entryRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Entry, error) {
	var row model.EntryModel
	if err := repo.db.WithContext(ctx).Where("id = ?", id).First(&row).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrEntryNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find entry")
	}

	return toEntryDomain(&row), nil
}

// Find lists entries matching filter, newest first.
func (repo *entryRepository) Find(ctx context.Context, filter repository.EntryFilter) ([]*entity.Entry, error) {
	q := repo.db.WithContext(ctx).Model(&model.EntryModel{})
	if filter.PersonID != nil {
		q = q.Where("person_id = ?", *filter.PersonID)
	}
	if filter.Action != nil {
		q = q.Where("action = ?", string(*filter.Action))
	}
	if filter.Until != nil {
		q = q.Where("instant <= ?", filter.Until.UTC())
	}

	var rows []*model.EntryModel
	if err := q.Order("instant DESC").Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list entries")
	}

	entries := make([]*entity.Entry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, toEntryDomain(row))
	}

	return entries, nil
}

func (repo *entryRepository) Update(ctx context.Context, entry *entity.Entry) error {
	res := repo.db.WithContext(ctx).
		Model(&model.EntryModel{ID: entry.ID}).
		Select("person_id", "instant", "action").
		Updates(fromEntryDomain(entry))
	if res.Error != nil {
		if isForeignKeyConstraintViolation(res.Error) {
			return domainerrors.ErrUserNotFound.WrapMessage("invalid person reference")
		}

		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update entry")
	}
	if res.RowsAffected == 0 {
		return repository.ErrEntryNotFound
	}

	return nil
}

func (repo *entryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).Delete(&model.EntryModel{}, "id = ?", id)
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete entry")
	}
	if res.RowsAffected == 0 {
		return repository.ErrEntryNotFound
	}

	return nil
}

func toEntryDomain(data *model.EntryModel) *entity.Entry {
	return &entity.Entry{
		ID:       data.ID,
		PersonID: data.PersonID,
		Instant:  data.Instant,
		Action:   entity.EntryAction(data.Action),
	}
}

func fromEntryDomain(data *entity.Entry) *model.EntryModel {
	return &model.EntryModel{
		ID:       data.ID,
		PersonID: data.PersonID,
		Instant:  data.Instant.UTC(),
		Action:   string(data.Action),
	}
}
