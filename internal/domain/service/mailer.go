package service

import "context"

// Mailer delivers account emails.
type Mailer interface {
	// SendPasswordReset sends the reset link for token to email.
	SendPasswordReset(ctx context.Context, email, token string) error
}
