// Package handler contains the HTTP handlers for the application.
package handler

import (
	"log/slog"

	"synnapse/internal/delivery/api/response"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/errors"
	"synnapse/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// AuthHandlerParams holds dependencies for AuthHandler, injected by Fx.
type AuthHandlerParams struct {
	fx.In

	AuthUC usecase.AuthUsecase
	Logger *slog.Logger
}

// AuthHandler serves the /api/auth endpoints. Every decided outcome, success or
// not, is written with the status it carries.
type AuthHandler struct {
	authUC usecase.AuthUsecase
	logger *slog.Logger
}

// NewAuthHandler is the constructor for AuthHandler
func NewAuthHandler(params AuthHandlerParams) *AuthHandler {
	return &AuthHandler{
		authUC: params.AuthUC,
		logger: params.Logger,
	}
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type RegisterRequest struct {
	Name     string  `json:"name" validate:"required"`
	Surname  string  `json:"surname"`
	Email    string  `json:"email" validate:"required,email"`
	Password *string `json:"password"`
	GoogleID *string `json:"google_id"`
}

type ChangePasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	OldPassword string `json:"old_password" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required"`
}

// VerifyResetTokenRequest has no required fields: an empty token is simply invalid.
type VerifyResetTokenRequest struct {
	Token string `json:"token"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type LinkGoogleRequest struct {
	Email       string `json:"email" validate:"required"`
	GoogleEmail string `json:"google_email" validate:"required,email"`
	Password    string `json:"password" validate:"required"`
}

type SetPasswordRequest struct {
	Email       string `json:"email" validate:"required"`
	NewPassword string `json:"new_password" validate:"required"`
}

type GoogleLoginRequest struct {
	GoogleID string `json:"google_id" validate:"required"`
	Email    string `json:"email"`
	IDToken  string `json:"id_token"`
}

type GoogleRegisterRequest struct {
	GoogleID string `json:"google_id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Name     string `json:"name" validate:"required"`
	Surname  string `json:"surname"`
	IDToken  string `json:"id_token"`
}

type UpdateGoogleIDRequest struct {
	PersonID string `json:"person_id" validate:"required,uuid"`
	GoogleID string `json:"google_id" validate:"required"`
}

// bind decodes and validates the request body into req.
func bind(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return domainerrors.ErrValidationFailed.WithMessage("Invalid request body")
	}

	return c.Validate(req)
}

// pathID parses the named path parameter as a UUID.
func pathID(c echo.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, domainerrors.ErrValidationFailed.WithMessage(name + " must be a valid UUID")
	}

	return id, nil
}

// reply writes an outcome or hands an undecided failure to the error handler.
func reply(c echo.Context, outcome *usecase.AuthOutcome, err error) error {
	if err != nil {
		return errors.WithStack(err)
	}

	return response.Outcome(c, outcome)
}

// Login handles POST /api/auth/login.
func (h *AuthHandler) Login(c echo.Context) error {
	var req LoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.Login(c.Request().Context(), &usecase.LoginInput{
		Email:    req.Email,
		Password: req.Password,
	})

	return reply(c, out, err)
}

// Register handles POST /api/auth/register.
func (h *AuthHandler) Register(c echo.Context) error {
	var req RegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.Register(c.Request().Context(), &usecase.RegisterInput{
		Name:        req.Name,
		Surname:     req.Surname,
		Email:       req.Email,
		Password:    req.Password,
		FederatedID: req.GoogleID,
	})

	return reply(c, out, err)
}

// ChangePassword handles POST /api/auth/change-password.
func (h *AuthHandler) ChangePassword(c echo.Context) error {
	var req ChangePasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.ChangePassword(c.Request().Context(), &usecase.ChangePasswordInput{
		Email:       req.Email,
		OldPassword: req.OldPassword,
		NewPassword: req.NewPassword,
	})

	return reply(c, out, err)
}

// ForgotPassword handles POST /api/auth/forgot-password.
func (h *AuthHandler) ForgotPassword(c echo.Context) error {
	var req ForgotPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.ForgotPassword(c.Request().Context(), req.Email)

	return reply(c, out, err)
}

// VerifyResetToken handles POST /api/auth/verify-reset-token.
func (h *AuthHandler) VerifyResetToken(c echo.Context) error {
	var req VerifyResetTokenRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.VerifyResetToken(c.Request().Context(), req.Token)

	return reply(c, out, err)
}

// ResetPassword handles POST /api/auth/reset-password.
func (h *AuthHandler) ResetPassword(c echo.Context) error {
	var req ResetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.ResetPassword(c.Request().Context(), &usecase.ResetPasswordInput{
		Token:       req.Token,
		NewPassword: req.NewPassword,
	})

	return reply(c, out, err)
}

// LinkGoogle handles POST /api/auth/link-google.
func (h *AuthHandler) LinkGoogle(c echo.Context) error {
	var req LinkGoogleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.LinkGoogleAccount(c.Request().Context(), &usecase.LinkGoogleInput{
		Email:          req.Email,
		FederatedEmail: req.GoogleEmail,
		Password:       req.Password,
	})

	return reply(c, out, err)
}

// SetPassword handles POST /api/auth/set-password.
func (h *AuthHandler) SetPassword(c echo.Context) error {
	var req SetPasswordRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.SetPassword(c.Request().Context(), &usecase.SetPasswordInput{
		Email:       req.Email,
		NewPassword: req.NewPassword,
	})

	return reply(c, out, err)
}

// GoogleLogin handles POST /api/auth/google-login.
func (h *AuthHandler) GoogleLogin(c echo.Context) error {
	var req GoogleLoginRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.GoogleLogin(c.Request().Context(), &usecase.GoogleLoginInput{
		FederatedID: req.GoogleID,
		Email:       req.Email,
		IDToken:     req.IDToken,
	})

	return reply(c, out, err)
}

// GoogleRegister handles POST /api/auth/register-google.
func (h *AuthHandler) GoogleRegister(c echo.Context) error {
	var req GoogleRegisterRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	out, err := h.authUC.GoogleRegister(c.Request().Context(), &usecase.GoogleRegisterInput{
		FederatedID: req.GoogleID,
		Email:       req.Email,
		Name:        req.Name,
		Surname:     req.Surname,
		IDToken:     req.IDToken,
	})

	return reply(c, out, err)
}

// UpdateGoogleID handles POST /api/auth/update-google-id.
func (h *AuthHandler) UpdateGoogleID(c echo.Context) error {
	var req UpdateGoogleIDRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	personID, err := uuid.Parse(req.PersonID)
	if err != nil {
		return domainerrors.ErrValidationFailed.WithMessage("person_id must be a valid UUID")
	}

	out, err := h.authUC.UpdateFederatedID(c.Request().Context(), &usecase.UpdateFederatedIDInput{
		PersonID:    personID,
		FederatedID: req.GoogleID,
	})

	return reply(c, out, err)
}
