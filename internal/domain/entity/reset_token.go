package entity

import (
	"time"

	"github.com/google/uuid"
)

// PasswordResetToken is a short-lived credential allowing one password reset.
type PasswordResetToken struct {
	ID        uuid.UUID
	Email     string
	Token     string
	ExpiresAt time.Time
	CreatedAt time.Time
}

// IsValid reports whether the token is still usable at now.
func (t *PasswordResetToken) IsValid(now time.Time) bool {
	return now.Before(t.ExpiresAt)
}
