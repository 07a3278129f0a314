package database

import (
	"context"
	"fmt"
	"time"

	"synnapse/internal/domain/entity"
	"synnapse/internal/domain/repository"
	"synnapse/internal/domain/service"
	"synnapse/internal/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	SeedAdminEmail    = "admin@cpifplosenlaces.com"
	seedAdminPassword = "admin"
	seedDemoPassword  = "password"
)

type seedPerson struct {
	name    string
	surname string
	role    entity.Role
}

var seedDemoPersons = []seedPerson{
	{"Lucía", "García", entity.RoleTeacher},
	{"Javier", "Martínez", entity.RoleTeacher},
	{"Marta", "López", entity.RoleStudent},
	{"Pablo", "Sánchez", entity.RoleStudent},
	{"Elena", "Romero", entity.RoleStudent},
	{"Daniel", "Torres", entity.RoleStudent},
	{"Sara", "Navarro", entity.RoleStudent},
	{"Hugo", "Ruiz", entity.RoleStudent},
	{"Irene", "Díaz", entity.RoleTeacher},
	{"Álvaro", "Moreno", entity.RoleStudent},
}

// Seed inserts the admin account and a set of demo persons with a pair of entries each.
// It does nothing when the admin email already exists. It reports whether rows were inserted.
func Seed(ctx context.Context, db *gorm.DB, hasher service.PasswordHasher) (bool, error) {
	persons := NewPersonRepository(db)
	_, err := persons.FindByEmail(ctx, SeedAdminEmail)
	switch {
	case err == nil:
		return false, nil
	case !errors.Is(err, repository.ErrPersonNotFound):
		return false, err
	}

	adminHash, err := hasher.Hash(seedAdminPassword)
	if err != nil {
		return false, errors.Wrap(err, "failed to hash admin password")
	}
	demoHash, err := hasher.Hash(seedDemoPassword)
	if err != nil {
		return false, errors.Wrap(err, "failed to hash demo password")
	}

	tm := &gormTransactionManager{db: db}
	err = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		admin := &entity.Person{
			Name:    "Admin",
			Surname: "Synnapse",
			Email:   SeedAdminEmail,
			Role:    entity.RoleAdmin,
		}
		admin.SetPasswordHash(adminHash)
		if err := f.PersonRepo().Create(ctx, admin); err != nil {
			return err
		}
		if err := f.PermissionsRepo().Create(ctx, entity.FullPermissions(admin.ID)); err != nil {
			return err
		}

		base := time.Now().UTC().Truncate(time.Hour)
		for i, sp := range seedDemoPersons {
			p := &entity.Person{
				ID:      uuid.New(),
				Name:    sp.name,
				Surname: sp.surname,
				Email:   fmt.Sprintf("demo%02d@cpifplosenlaces.com", i+1),
				Role:    sp.role,
			}
			p.SetPasswordHash(demoHash)
			if err := f.PersonRepo().Create(ctx, p); err != nil {
				return err
			}
			if err := f.PermissionsRepo().Create(ctx, entity.DefaultLocalPermissions(p.ID)); err != nil {
				return err
			}

			enter := base.Add(-time.Duration(i+1) * 24 * time.Hour).Add(8 * time.Hour)
			for _, e := range []*entity.Entry{
				{PersonID: p.ID, Instant: enter, Action: entity.ActionEnter},
				{PersonID: p.ID, Instant: enter.Add(6 * time.Hour), Action: entity.ActionExit},
			} {
				if err := f.EntryRepo().Create(ctx, e); err != nil {
					return err
				}
			}
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return true, nil
}
