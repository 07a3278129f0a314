package database

import (
	"context"
	"time"

	"synnapse/config"
	"synnapse/internal/domain/repository"
	"synnapse/internal/errors"

	"gorm.io/gorm"
)

// gormTransactionManager implements the domain's TransactionManager interface using GORM.
type gormTransactionManager struct {
	db       *gorm.DB
	tokenTTL time.Duration
}

// gormRepositoryFactory hands out repositories bound to one transaction.
// In GORM a transaction is also a *gorm.DB.
type gormRepositoryFactory struct {
	tx       *gorm.DB
	tokenTTL time.Duration
}

func (f *gormRepositoryFactory) PersonRepo() repository.PersonRepository {
	return NewPersonRepository(f.tx)
}

func (f *gormRepositoryFactory) PermissionsRepo() repository.PermissionsRepository {
	return NewPermissionsRepository(f.tx)
}

func (f *gormRepositoryFactory) ResetTokenRepo() repository.ResetTokenRepository {
	return newResetTokenRepository(f.tx, f.tokenTTL)
}

func (f *gormRepositoryFactory) EntryRepo() repository.EntryRepository {
	return NewEntryRepository(f.tx)
}

// NewTransactionManager is the constructor for gormTransactionManager.
func NewTransactionManager(db *gorm.DB, cfg *config.Config) repository.TransactionManager {
	return &gormTransactionManager{db: db, tokenTTL: cfg.Auth.ResetTokenTTL}
}

// Execute runs the given function within a single database transaction.
func (tm *gormTransactionManager) Execute(ctx context.Context, fn func(repoFactory repository.RepositoryFactory) error) error {
	tx := tm.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return errors.Wrap(tx.Error, "failed to begin transaction")
	}

	// Roll back on panic, then re-panic so the recover middleware sees it.
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
			panic(r)
		}
	}()

	if err := fn(&gormRepositoryFactory{tx: tx, tokenTTL: tm.tokenTTL}); err != nil {
		if rbErr := tx.Rollback().Error; rbErr != nil {
			return errors.Wrapf(err, "transaction rollback failed: %v", rbErr)
		}

		return err
	}

	if err := tx.Commit().Error; err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	return nil
}
