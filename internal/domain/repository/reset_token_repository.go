package repository

import (
	"context"
	"errors"

	"synnapse/internal/domain/entity"
)

// ErrResetTokenNotFound is returned when a reset token string is unknown.
var ErrResetTokenNotFound = errors.New("reset token not found")

// ResetTokenRepository stores password reset tokens.
type ResetTokenRepository interface {
	// Create generates a fresh random token for email and persists it.
	Create(ctx context.Context, email string) (*entity.PasswordResetToken, error)

	FindByToken(ctx context.Context, token string) (*entity.PasswordResetToken, error)
	DeleteByToken(ctx context.Context, token string) error

	// Consume deletes token and fails with ErrResetTokenNotFound when no row was removed.
	// Run inside the redeeming transaction it lets exactly one caller win.
	Consume(ctx context.Context, token string) error

	// DeleteExpired removes every token whose expiry is in the past and returns how many were removed.
	DeleteExpired(ctx context.Context) (int64, error)
}
