package main

import (
	"context"
	"log/slog"
	"os"

	"synnapse/config"
	"synnapse/internal/delivery"
	"synnapse/internal/delivery/api"
	apimiddleware "synnapse/internal/delivery/api/middleware"
	"synnapse/internal/delivery/api/router/handler"
	"synnapse/internal/infra/auth"
	"synnapse/internal/infra/auth/google"
	logs "synnapse/internal/infra/log"
	"synnapse/internal/infra/mail"
	"synnapse/internal/infra/persistence/database"
	"synnapse/internal/infra/pubsub"
	"synnapse/internal/infra/sweeper"
	"synnapse/internal/usecase/impl"

	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func runServer(databasePath string) {
	fx.New(
		injectInfra(databasePath),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startSweeper,
			startServer,
		),
	).Run()
}

func injectInfra(databasePath string) fx.Option {
	return fx.Provide(
		func() (*config.Config, error) { return loadConfig(databasePath) },
		logs.New,
		context.Background,
		database.New,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			database.NewPersonRepository,
			database.NewPermissionsRepository,
			database.NewResetTokenRepository,
			database.NewEntryRepository,
			database.NewTransactionManager,
			database.NewHealthChecker,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewPBKDF2Hasher,
			auth.NewAPIKeySigner,
			google.NewIDTokenVerifier,
			mail.NewMailer,
			sweeper.New,
		),
		pubsub.Module,
	)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewAuthService,
			impl.NewPersonService,
			impl.NewPermissionsService,
			impl.NewEntryService,
			impl.NewHealthService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			apimiddleware.NewAccessGate,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewAuthHandler,
			handler.NewPersonHandler,
			handler.NewPermissionsHandler,
			handler.NewEntryHandler,
			handler.NewHealthHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				api.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

// startSweeper forces construction of the sweeper, whose lifecycle hooks run the ticker.
func startSweeper(*sweeper.Sweeper) {}

func startServer(ctx context.Context, params startServerParams) {
	for _, delivery := range params.Deliveries {
		go func() {
			if err := delivery.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
