// Package usecase contains the application-specific business rules.
// It orchestrates the domain layer to perform tasks.
package usecase

import (
	"context"
	"net/http"

	"synnapse/internal/domain/entity"

	"github.com/google/uuid"
)

const (
	StatusOK    = "ok"
	StatusError = "error"
)

// --- Input DTOs ---

// LoginInput defines the data required for a person to log in with a password.
type LoginInput struct {
	Email    string
	Password string
}

// RegisterInput defines the data for local registration. At least one of
// Password or FederatedID must be present.
type RegisterInput struct {
	Name        string
	Surname     string
	Email       string
	Password    *string
	FederatedID *string
}

type ChangePasswordInput struct {
	Email       string
	OldPassword string
	NewPassword string
}

type ResetPasswordInput struct {
	Token       string
	NewPassword string
}

type SetPasswordInput struct {
	Email       string
	NewPassword string
}

// LinkGoogleInput links a local account to Google by replacing its email with FederatedEmail.
type LinkGoogleInput struct {
	Email          string
	FederatedEmail string
	Password       string
}

// GoogleLoginInput identifies a Google user. IDToken is optional and verified when present.
type GoogleLoginInput struct {
	FederatedID string
	Email       string
	IDToken     string
}

type GoogleRegisterInput struct {
	FederatedID string
	Email       string
	Name        string
	Surname     string
	IDToken     string
}

type UpdateFederatedIDInput struct {
	PersonID    uuid.UUID
	FederatedID string
}

// --- Output DTOs ---

// AuthOutcome is the client-facing result of an auth operation. Expected failures
// such as a wrong password are outcomes, not errors.
type AuthOutcome struct {
	HTTPStatus int                   `json:"-"`
	Status     string                `json:"status"`
	Message    string                `json:"message,omitempty"`
	Valid      *bool                 `json:"valid,omitempty"`
	User       *entity.PersonSummary `json:"user,omitempty"`
}

// OK builds a successful outcome.
func OK(httpStatus int, message string) *AuthOutcome {
	return &AuthOutcome{HTTPStatus: httpStatus, Status: StatusOK, Message: message}
}

// Fail builds an error outcome.
func Fail(httpStatus int, message string) *AuthOutcome {
	return &AuthOutcome{HTTPStatus: httpStatus, Status: StatusError, Message: message}
}

// WithUser attaches the person's summary to the outcome.
func (o *AuthOutcome) WithUser(p *entity.Person) *AuthOutcome {
	summary := p.Summary()
	o.User = &summary

	return o
}

// TokenValidity builds the always-200 outcome of a reset token check.
func TokenValidity(valid bool, message string) *AuthOutcome {
	return &AuthOutcome{HTTPStatus: http.StatusOK, Status: StatusOK, Message: message, Valid: &valid}
}

// AuthUsecase defines the credential, reset and federated-identity operations.
// A returned error means the operation could not be decided (timeout or storage
// failure on a read); every decided result is an AuthOutcome.
type AuthUsecase interface {
	Login(ctx context.Context, input *LoginInput) (*AuthOutcome, error)
	Register(ctx context.Context, input *RegisterInput) (*AuthOutcome, error)
	ChangePassword(ctx context.Context, input *ChangePasswordInput) (*AuthOutcome, error)
	ForgotPassword(ctx context.Context, email string) (*AuthOutcome, error)
	VerifyResetToken(ctx context.Context, token string) (*AuthOutcome, error)
	ResetPassword(ctx context.Context, input *ResetPasswordInput) (*AuthOutcome, error)
	SetPassword(ctx context.Context, input *SetPasswordInput) (*AuthOutcome, error)
	LinkGoogleAccount(ctx context.Context, input *LinkGoogleInput) (*AuthOutcome, error)
	GoogleLogin(ctx context.Context, input *GoogleLoginInput) (*AuthOutcome, error)
	GoogleRegister(ctx context.Context, input *GoogleRegisterInput) (*AuthOutcome, error)
	UpdateFederatedID(ctx context.Context, input *UpdateFederatedIDInput) (*AuthOutcome, error)
}
