package impl

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"testing"

	"synnapse/config"
	"synnapse/internal/domain/entity"
	"synnapse/internal/domain/repository"
	"synnapse/internal/infra/auth"
	"synnapse/internal/infra/persistence/database"
	"synnapse/internal/usecase"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// rendezvousTokens holds every FindByToken caller until all expected callers have read.
type rendezvousTokens struct {
	repository.ResetTokenRepository
	arrived sync.WaitGroup
}

func (r *rendezvousTokens) FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	found, err := r.ResetTokenRepository.FindByToken(ctx, token)
	r.arrived.Done()
	r.arrived.Wait()

	return found, err
}

func openSQLiteStore(t *testing.T) (*gorm.DB, *config.Config) {
	t.Helper()

	cfg := newTestConfig()
	cfg.Database.Driver = config.DriverSQLite
	cfg.Database.SQLite.Path = fmt.Sprintf("file:impl_%s?mode=memory&cache=shared", t.Name())

	db, err := database.Open(cfg, newDiscardLogger())
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, database.Migrate(context.Background(), db))

	return db, cfg
}

func TestAuthService_ResetPassword_ConcurrentRedemptionsSucceedOnce(t *testing.T) {
	db, cfg := openSQLiteStore(t)
	ctx := context.Background()
	hasher := auth.NewPBKDF2HasherWithIterations(1000)

	persons := database.NewPersonRepository(db)
	hash, err := hasher.Hash("old")
	require.NoError(t, err)
	person := &entity.Person{Name: "Ana", Surname: "García", Email: "a@x.com", Role: entity.RoleStudent}
	person.SetPasswordHash(hash)
	require.NoError(t, persons.Create(ctx, person))

	tokens := &rendezvousTokens{ResetTokenRepository: database.NewResetTokenRepository(db, cfg)}
	issued, err := tokens.Create(ctx, person.Email)
	require.NoError(t, err)

	svc := NewAuthService(AuthServiceParams{
		TxManager:      database.NewTransactionManager(db, cfg),
		PersonRepo:     persons,
		ResetTokenRepo: tokens,
		Hasher:         hasher,
		Mailer:         &mockMailer{},
		Publisher:      &recordingPublisher{},
		Verifier:       &mockVerifier{},
		Config:         cfg,
		Logger:         newDiscardLogger(),
	})

	const redemptions = 2
	tokens.arrived.Add(redemptions)

	outcomes := make([]*usecase.AuthOutcome, redemptions)
	errs := make([]error, redemptions)
	var wg sync.WaitGroup
	for i := range redemptions {
		wg.Add(1)
		go func() {
			defer wg.Done()
			outcomes[i], errs[i] = svc.ResetPassword(ctx, &usecase.ResetPasswordInput{
				Token:       issued.Token,
				NewPassword: fmt.Sprintf("new-%d", i),
			})
		}()
	}
	wg.Wait()

	succeeded := 0
	for i := range redemptions {
		require.NoError(t, errs[i])
		switch outcomes[i].HTTPStatus {
		case http.StatusOK:
			succeeded++
		default:
			assert.Equal(t, http.StatusBadRequest, outcomes[i].HTTPStatus)
			assert.Equal(t, msgInvalidToken, outcomes[i].Message)
		}
	}
	assert.Equal(t, 1, succeeded)

	_, err = database.NewResetTokenRepository(db, cfg).FindByToken(ctx, issued.Token)
	assert.ErrorIs(t, err, repository.ErrResetTokenNotFound)
}
