package database

import (
	"context"
	"crypto/rand"
	"time"

	"synnapse/config"
	"synnapse/internal/domain/entity"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/domain/repository"
	"synnapse/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	resetTokenLength   = 32
	resetTokenAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
)

// resetTokenRepository implements repository.ResetTokenRepository using GORM.
type resetTokenRepository struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// NewResetTokenRepository is the constructor for resetTokenRepository.
func NewResetTokenRepository(db *gorm.DB, cfg *config.Config) repository.ResetTokenRepository {
	return newResetTokenRepository(db, cfg.Auth.ResetTokenTTL)
}

func newResetTokenRepository(db *gorm.DB, ttl time.Duration) *resetTokenRepository {
	return &resetTokenRepository{db: db, ttl: ttl, now: time.Now}
}

// Create stores a new token valid for the configured TTL. Earlier tokens for
// the same email are left untouched.
func (repo *resetTokenRepository) Create(ctx context.Context, email string) (*entity.PasswordResetToken, error) {
	token, err := generateResetToken()
	if err != nil {
		return nil, err
	}

	now := repo.now().UTC()
	row := &model.PasswordResetTokenModel{
		ID:        uuid.New(),
		Email:     email,
		Token:     token,
		ExpiresAt: now.Add(repo.ttl),
		CreatedAt: now,
	}

	if err := repo.db.WithContext(ctx).Create(row).Error; err != nil {
		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to create reset token")
	}

	return toResetTokenDomain(row), nil
}

func (repo *resetTokenRepository) FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	var row model.PasswordResetTokenModel
	if err := repo.db.WithContext(ctx).Where("token = ?", token).First(&row).Error; err != nil {
		if isRecordNotFound(err) {
			return nil, repository.ErrResetTokenNotFound
		}

		return nil, domainerrors.NewDatabaseExecuteError(err, "failed to find reset token")
	}

	return toResetTokenDomain(&row), nil
}

// DeleteByToken is idempotent: deleting an unknown token is not an error.
func (repo *resetTokenRepository) DeleteByToken(ctx context.Context, token string) error {
	if err := repo.db.WithContext(ctx).Delete(&model.PasswordResetTokenModel{}, "token = ?", token).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to delete reset token")
	}

	return nil
}

func (repo *resetTokenRepository) Consume(ctx context.Context, token string) error {
	res := repo.db.WithContext(ctx).Delete(&model.PasswordResetTokenModel{}, "token = ?", token)
	if res.Error != nil {
		return domainerrors.NewDatabaseExecuteError(res.Error, "failed to consume reset token")
	}
	if res.RowsAffected == 0 {
		return repository.ErrResetTokenNotFound
	}

	return nil
}

// DeleteExpired removes tokens with expires_at < now. A token expiring exactly now is
// already invalid but is left for the next sweep.
func (repo *resetTokenRepository) DeleteExpired(ctx context.Context) (int64, error) {
	res := repo.db.WithContext(ctx).Delete(&model.PasswordResetTokenModel{}, "expires_at < ?", repo.now().UTC())
	if res.Error != nil {
		return 0, domainerrors.NewDatabaseExecuteError(res.Error, "failed to delete expired reset tokens")
	}

	return res.RowsAffected, nil
}

// generateResetToken draws resetTokenLength alphanumeric characters from crypto/rand,
// rejecting bytes that would bias the distribution.
func generateResetToken() (string, error) {
	const maxByte = 256 - (256 % len(resetTokenAlphabet))

	out := make([]byte, 0, resetTokenLength)
	buf := make([]byte, resetTokenLength)
	for len(out) < resetTokenLength {
		if _, err := rand.Read(buf); err != nil {
			return "", errors.Wrap(err, "failed to read random bytes")
		}
		for _, b := range buf {
			if int(b) >= maxByte {
				continue
			}
			out = append(out, resetTokenAlphabet[int(b)%len(resetTokenAlphabet)])
			if len(out) == resetTokenLength {
				break
			}
		}
	}

	return string(out), nil
}

func toResetTokenDomain(data *model.PasswordResetTokenModel) *entity.PasswordResetToken {
	return &entity.PasswordResetToken{
		ID:        data.ID,
		Email:     data.Email,
		Token:     data.Token,
		ExpiresAt: data.ExpiresAt,
		CreatedAt: data.CreatedAt,
	}
}
