package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"synnapse/config"
	"synnapse/internal/infra/auth"
	logs "synnapse/internal/infra/log"
	"synnapse/internal/infra/persistence/database"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// openDatabase connects and migrates the schema for the one-shot commands.
func openDatabase(ctx context.Context, databasePath string) (*config.Config, *slog.Logger, *gorm.DB, func(), error) {
	cfg, err := loadConfig(databasePath)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	logger, err := logs.NewWithWriter(cfg, os.Stderr)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	db, err := database.Open(cfg, logger)
	if err != nil {
		return nil, nil, nil, nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, nil, nil, nil, errors.Wrap(err, "failed to get sql.DB")
	}
	closeFn := func() {
		if err := sqlDB.Close(); err != nil {
			logger.Warn("Failed to close database", slog.Any("error", err))
		}
	}

	if err := database.Migrate(ctx, db); err != nil {
		closeFn()

		return nil, nil, nil, nil, err
	}

	return cfg, logger, db, closeFn, nil
}

func handleShow(ctx context.Context, databasePath string) error {
	_, _, db, closeFn, err := openDatabase(ctx, databasePath)
	if err != nil {
		return err
	}
	defer closeFn()

	persons, err := database.NewPersonRepository(db).FindAll(ctx)
	if err != nil {
		return errors.Wrap(err, "failed to list persons")
	}

	for _, p := range persons {
		fmt.Printf("%s: %s <%s>\n", p.ID, p.Name, p.Email)
	}

	return nil
}

func handleSeed(ctx context.Context, databasePath string) error {
	cfg, logger, db, closeFn, err := openDatabase(ctx, databasePath)
	if err != nil {
		return err
	}
	defer closeFn()

	created, err := database.Seed(ctx, db, auth.NewPBKDF2Hasher(cfg))
	if err != nil {
		return err
	}

	if !created {
		logger.Info("Database already seeded", slog.String("admin", database.SeedAdminEmail))

		return nil
	}
	logger.Info("Database seeded", slog.String("admin", database.SeedAdminEmail))

	return nil
}
