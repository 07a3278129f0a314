package database

import (
	"context"

	"synnapse/internal/domain/entity"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/domain/repository"
	"synnapse/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// personRepository implements repository.PersonRepository using GORM.
type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository is the constructor for personRepository.
func NewPersonRepository(db *gorm.DB) repository.PersonRepository {
	return &personRepository{db: db}
}

func (repo *personRepository) Create(ctx context.Context, person *entity.Person) error {
	if person.ID == uuid.Nil {
		person.ID = uuid.New()
	}

	if err := repo.db.WithContext(ctx).Create(fromPersonDomain(person)).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return domainerrors.ErrConflict.WrapMessage("email or google id already exists")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create person")
	}

	return nil
}

func (repo *personRepository) FindAll(ctx context.Context) ([]*entity.Person, error) {
	var rows []*model.PersonModel
	if err := repo.db.WithContext(ctx).Order("surname, name").Find(&rows).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to list persons")
	}

	persons := make([]*entity.Person, 0, len(rows))
	for _, row := range rows {
		persons = append(persons, toPersonDomain(row))
	}

	return persons, nil
}

func (repo *personRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Person, error) {
	return repo.findOne(ctx, "id = ?", id)
}

func (repo *personRepository) FindByEmail(ctx context.Context, email string) (*entity.Person, error) {
	return repo.findOne(ctx, "email = ?", email)
}

func (repo *personRepository) FindByFederatedID(ctx context.Context, federatedID string) (*entity.Person, error) {
	return repo.findOne(ctx, "google_id = ?", federatedID)
}

func (repo *personRepository) findOne(ctx context.Context, query string, arg any) (*entity.Person, error) {
	var row model.PersonModel
	if err := repo.db.WithContext(ctx).Where(query, arg).First(&row).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrPersonNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find person")
	}

	return toPersonDomain(&row), nil
}

// Update overwrites every column, nil pointers included.
func (repo *personRepository) Update(ctx context.Context, person *entity.Person) error {
	res := repo.db.WithContext(ctx).
		Model(&model.PersonModel{ID: person.ID}).
		Select("*").
		Omit("id").
		Updates(fromPersonDomain(person))
	if res.Error != nil {
		if isUniqueConstraintViolation(res.Error) {
			return domainerrors.ErrConflict.WrapMessage("email or google id already exists")
		}

		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to update person")
	}
	if res.RowsAffected == 0 {
		return repository.ErrPersonNotFound
	}

	return nil
}

func (repo *personRepository) Delete(ctx context.Context, id uuid.UUID) error {
	res := repo.db.WithContext(ctx).Delete(&model.PersonModel{}, "id = ?", id)
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete person")
	}
	if res.RowsAffected == 0 {
		return repository.ErrPersonNotFound
	}

	return nil
}

func (repo *personRepository) UpdateFederatedID(ctx context.Context, id uuid.UUID, federatedID string) (*entity.Person, error) {
	res := repo.db.WithContext(ctx).
		Model(&model.PersonModel{}).
		Where("id = ?", id).
		Update("google_id", federatedID)
	if res.Error != nil {
		if isUniqueConstraintViolation(res.Error) {
			return nil, domainerrors.ErrConflict.WrapMessage("google id already linked")
		}

		return nil, domainerrors.NewDatabaseExecuteError(res.Error, "failed to update google id")
	}
	if res.RowsAffected == 0 {
		return nil, repository.ErrPersonNotFound
	}

	person, err := repo.FindByID(ctx, id)
	if err != nil {
		return nil, errors.WithMessage(err, "failed to re-read person")
	}

	return person, nil
}

// --- Mapper Functions ---

func toPersonDomain(data *model.PersonModel) *entity.Person {
	if data == nil {
		return nil
	}

	return &entity.Person{
		ID:           data.ID,
		Name:         data.Name,
		Surname:      data.Surname,
		Email:        data.Email,
		Role:         entity.ParseRole(data.Role),
		PasswordHash: data.PasswordHash,
		FederatedID:  data.GoogleID,
	}
}

func fromPersonDomain(data *entity.Person) *model.PersonModel {
	if data == nil {
		return nil
	}

	return &model.PersonModel{
		ID:           data.ID,
		Name:         data.Name,
		Surname:      data.Surname,
		Email:        data.Email,
		Role:         data.Role.String(),
		PasswordHash: data.PasswordHash,
		GoogleID:     data.FederatedID,
	}
}
