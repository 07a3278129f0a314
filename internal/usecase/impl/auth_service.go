// Package impl contains the implementation of the application's business logic.
package impl

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"synnapse/config"
	deliverycontext "synnapse/internal/delivery/context"
	"synnapse/internal/domain/entity"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/domain/repository"
	"synnapse/internal/domain/service"
	"synnapse/internal/errors"
	"synnapse/internal/usecase"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

// Client-facing auth messages. Clients match on these strings.
const (
	msgInvalidEmail          = "Invalid Email"
	msgSocialLoginOnly       = "This account uses social login"
	msgInvalidPassword       = "Invalid Password"
	msgCredentialsRequired   = "Password or Google ID required"
	msgRegistered            = "User registered successfully"
	msgFederatedExists       = "Google account already registered"
	msgExistsUnlinked        = "User already exists but does not have a Google ID."
	msgEmailTaken            = "Email already registered"
	msgCreateUserFailed      = "Failed to create user"
	msgCreatePermsFailed     = "Failed to create permissions"
	msgPasswordChanged       = "Password changed successfully"
	msgUserNotFound          = "User not found"
	msgNoPasswordSet         = "No password set for this account"
	msgCurrentPasswordWrong  = "Current password is incorrect"
	msgUpdatePasswordFailed  = "Failed to update password"
	msgResetEmailSent        = "Password reset email sent"
	msgSendEmailFailed       = "Failed to send email"
	msgInternalError         = "Internal server error"
	msgTokenExpired          = "Token expired"
	msgInvalidToken          = "Invalid token"
	msgPasswordReset         = "Password reset successfully"
	msgResetPasswordFailed   = "Failed to reset password"
	msgPasswordSet           = "Password set successfully"
	msgSetPasswordFailed     = "Failed to set password"
	msgGoogleLinked          = "Google account linked successfully"
	msgAccountHasNoPassword  = "This account has no password set"
	msgPasswordIncorrect     = "Password is incorrect"
	msgGoogleLinkedElsewhere = "This Google account is already linked to another user"
	msgLinkFailed            = "Failed to link account"
	msgFoundUnlinked         = "User found by email but not linked to Google ID"
	msgEmailLinkedElsewhere  = "Email already linked to a different Google account"
	msgUserCreated           = "User created successfully"
	msgGoogleIDUpdated       = "Google ID updated successfully"
	msgUpdateGoogleIDFailed  = "Failed to update Google ID"
	msgInvalidGoogleIDToken  = "Invalid Google ID token"
)

// authService implements the AuthUsecase interface.
type authService struct {
	txManager    repository.TransactionManager
	personRepo   repository.PersonRepository
	tokenRepo    repository.ResetTokenRepository
	hasher       service.PasswordHasher
	mailer       service.Mailer
	publisher    service.EventPublisher
	verifier     service.IDTokenVerifier
	queryTimeout time.Duration
	sendTimeout  time.Duration
	now          func() time.Time
	logger       *slog.Logger
}

// AuthServiceParams holds dependencies for AuthService, injected by Fx.
type AuthServiceParams struct {
	fx.In

	TxManager      repository.TransactionManager
	PersonRepo     repository.PersonRepository
	ResetTokenRepo repository.ResetTokenRepository
	Hasher         service.PasswordHasher
	Mailer         service.Mailer
	Publisher      service.EventPublisher
	Verifier       service.IDTokenVerifier
	Config         *config.Config
	Logger         *slog.Logger
}

// NewAuthService is the constructor for authService.
func NewAuthService(params AuthServiceParams) usecase.AuthUsecase {
	return &authService{
		txManager:    params.TxManager,
		personRepo:   params.PersonRepo,
		tokenRepo:    params.ResetTokenRepo,
		hasher:       params.Hasher,
		mailer:       params.Mailer,
		publisher:    params.Publisher,
		verifier:     params.Verifier,
		queryTimeout: params.Config.Database.Timeouts.Query,
		sendTimeout:  params.Config.Mail.SendTimeout,
		now:          time.Now,
		logger:       params.Logger,
	}
}

// log returns a request-scoped logger if available, otherwise falls back to the service's logger.
func (srv *authService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.LoggerOrDefault(ctx, srv.logger)
}

// Login checks an email and password pair.
func (srv *authService) Login(ctx context.Context, input *usecase.LoginInput) (*usecase.AuthOutcome, error) {
	person, err := srv.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if person == nil {
		srv.log(ctx).Info("Login with unknown email")

		return usecase.Fail(http.StatusUnauthorized, msgInvalidEmail), nil
	}
	if !person.HasPassword() {
		return usecase.Fail(http.StatusUnauthorized, msgSocialLoginOnly), nil
	}
	if !srv.hasher.Check(input.Password, *person.PasswordHash) {
		srv.log(ctx).Info("Login with wrong password", slog.String("personID", person.ID.String()))

		return usecase.Fail(http.StatusUnauthorized, msgInvalidPassword), nil
	}

	return usecase.OK(http.StatusOK, ""), nil
}

// Register creates a local account and its default permissions in one transaction.
func (srv *authService) Register(ctx context.Context, input *usecase.RegisterInput) (*usecase.AuthOutcome, error) {
	hasPassword := input.Password != nil && *input.Password != ""
	hasFederatedID := input.FederatedID != nil && *input.FederatedID != ""
	if !hasPassword && !hasFederatedID {
		return usecase.Fail(http.StatusBadRequest, msgCredentialsRequired), nil
	}

	if hasFederatedID {
		existing, err := srv.findByFederatedID(ctx, *input.FederatedID)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return usecase.Fail(http.StatusConflict, msgFederatedExists), nil
		}
	}

	existing, err := srv.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		// Reported but deliberately not linked here; linking goes through update-google-id.
		if hasFederatedID && !existing.HasFederatedID() {
			return usecase.OK(http.StatusOK, msgExistsUnlinked), nil
		}

		return usecase.Fail(http.StatusConflict, msgEmailTaken), nil
	}

	person := &entity.Person{
		ID:      uuid.New(),
		Name:    input.Name,
		Surname: input.Surname,
		Email:   input.Email,
		Role:    entity.RoleStudent,
	}
	if hasFederatedID {
		person.FederatedID = input.FederatedID
	}
	if hasPassword {
		hash, err := srv.hasher.Hash(*input.Password)
		if err != nil {
			srv.log(ctx).Error("Failed to hash password during registration", slog.Any("error", err))

			return usecase.Fail(http.StatusInternalServerError, msgCreateUserFailed), nil
		}
		person.SetPasswordHash(hash)
	}

	failure, err := srv.createWithPermissions(ctx, person, entity.DefaultLocalPermissions)
	if err != nil || failure != nil {
		return failure, err
	}

	srv.log(ctx).Info("Person registered", slog.String("personID", person.ID.String()))
	srv.publish(ctx, service.EventPersonRegistered, person)

	return usecase.OK(http.StatusCreated, msgRegistered), nil
}

// ChangePassword replaces the password after checking the current one.
func (srv *authService) ChangePassword(ctx context.Context, input *usecase.ChangePasswordInput) (*usecase.AuthOutcome, error) {
	person, err := srv.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return usecase.Fail(http.StatusNotFound, msgUserNotFound), nil
	}
	if !person.HasPassword() {
		return usecase.Fail(http.StatusBadRequest, msgNoPasswordSet), nil
	}
	if !srv.hasher.Check(input.OldPassword, *person.PasswordHash) {
		return usecase.Fail(http.StatusUnauthorized, msgCurrentPasswordWrong), nil
	}

	if out, err := srv.storePassword(ctx, person, input.NewPassword, msgUpdatePasswordFailed); out != nil || err != nil {
		return out, err
	}

	srv.publish(ctx, service.EventPasswordChanged, person)

	return usecase.OK(http.StatusOK, msgPasswordChanged), nil
}

// ForgotPassword issues a reset token and mails it. Unknown emails get the same
// success outcome as known ones.
func (srv *authService) ForgotPassword(ctx context.Context, email string) (*usecase.AuthOutcome, error) {
	person, err := srv.findByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if person == nil {
		srv.log(ctx).Info("Password reset requested for unknown email")

		return usecase.OK(http.StatusOK, msgResetEmailSent), nil
	}

	qctx, cancel := srv.queryCtx(ctx)
	token, err := srv.tokenRepo.Create(qctx, person.Email)
	cancel()
	if err != nil {
		if errors.IsTimeout(err) {
			return nil, srv.storageError(ctx, "create reset token", err)
		}
		srv.log(ctx).Error("Failed to create password reset token", slog.Any("error", err))

		return usecase.Fail(http.StatusInternalServerError, msgInternalError), nil
	}

	srv.sweepExpiredTokens(ctx)

	sctx, cancel := srv.outboundCtx(ctx)
	err = srv.mailer.SendPasswordReset(sctx, person.Email, token.Token)
	cancel()
	if err != nil {
		srv.log(ctx).Error("Failed to send password reset email", slog.Any("error", err))
		if errors.IsTimeout(err) {
			return nil, errors.Wrap(domainerrors.ErrTimeout, "send password reset email")
		}

		return usecase.Fail(http.StatusInternalServerError, msgSendEmailFailed), nil
	}

	srv.publish(ctx, service.EventPasswordResetRequested, person)

	return usecase.OK(http.StatusOK, msgResetEmailSent), nil
}

// VerifyResetToken reports whether token can still be redeemed. An expired token is deleted.
func (srv *authService) VerifyResetToken(ctx context.Context, token string) (*usecase.AuthOutcome, error) {
	found, err := srv.findToken(ctx, token)
	if err != nil {
		return nil, err
	}
	if found == nil {
		return usecase.TokenValidity(false, msgInvalidToken), nil
	}
	if found.IsValid(srv.now()) {
		return usecase.TokenValidity(true, ""), nil
	}

	srv.deleteToken(ctx, found.Token)

	return usecase.TokenValidity(false, msgTokenExpired), nil
}

// ResetPassword redeems token. The token is consumed first inside the transaction
// that stores the new hash; a concurrent redemption finds no row and is rejected.
func (srv *authService) ResetPassword(ctx context.Context, input *usecase.ResetPasswordInput) (*usecase.AuthOutcome, error) {
	token, err := srv.findToken(ctx, input.Token)
	if err != nil {
		return nil, err
	}
	if token == nil {
		return usecase.Fail(http.StatusBadRequest, msgInvalidToken), nil
	}
	if !token.IsValid(srv.now()) {
		srv.deleteToken(ctx, token.Token)

		return usecase.Fail(http.StatusBadRequest, msgTokenExpired), nil
	}

	person, err := srv.findByEmail(ctx, token.Email)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return usecase.Fail(http.StatusNotFound, msgUserNotFound), nil
	}

	hash, err := srv.hasher.Hash(input.NewPassword)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password during reset", slog.Any("error", err))

		return usecase.Fail(http.StatusInternalServerError, msgResetPasswordFailed), nil
	}
	person.SetPasswordHash(hash)

	qctx, cancel := srv.queryCtx(ctx)
	defer cancel()
	err = srv.txManager.Execute(qctx, func(f repository.RepositoryFactory) error {
		if err := f.ResetTokenRepo().Consume(qctx, token.Token); err != nil {
			return err
		}

		return f.PersonRepo().Update(qctx, person)
	})
	if errors.Is(err, repository.ErrResetTokenNotFound) {
		return usecase.Fail(http.StatusBadRequest, msgInvalidToken), nil
	}
	if err != nil {
		return srv.writeFailed(ctx, "reset password", err, msgResetPasswordFailed)
	}

	srv.publish(ctx, service.EventPasswordReset, person)

	return usecase.OK(http.StatusOK, msgPasswordReset), nil
}

// SetPassword sets a password without checking the previous one.
func (srv *authService) SetPassword(ctx context.Context, input *usecase.SetPasswordInput) (*usecase.AuthOutcome, error) {
	person, err := srv.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return usecase.Fail(http.StatusNotFound, msgUserNotFound), nil
	}

	if out, err := srv.storePassword(ctx, person, input.NewPassword, msgSetPasswordFailed); out != nil || err != nil {
		return out, err
	}

	srv.publish(ctx, service.EventPasswordChanged, person)

	return usecase.OK(http.StatusOK, msgPasswordSet), nil
}

// LinkGoogleAccount proves ownership with the local password, then replaces the
// account email with the Google email.
func (srv *authService) LinkGoogleAccount(ctx context.Context, input *usecase.LinkGoogleInput) (*usecase.AuthOutcome, error) {
	person, err := srv.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if person == nil {
		return usecase.Fail(http.StatusNotFound, msgUserNotFound), nil
	}
	if !person.HasPassword() {
		return usecase.Fail(http.StatusBadRequest, msgAccountHasNoPassword), nil
	}
	if !srv.hasher.Check(input.Password, *person.PasswordHash) {
		return usecase.Fail(http.StatusUnauthorized, msgPasswordIncorrect), nil
	}

	other, err := srv.findByEmail(ctx, input.FederatedEmail)
	if err != nil {
		return nil, err
	}
	if other != nil && other.ID != person.ID {
		return usecase.Fail(http.StatusConflict, msgGoogleLinkedElsewhere), nil
	}

	person.Email = input.FederatedEmail
	qctx, cancel := srv.queryCtx(ctx)
	defer cancel()
	if err := srv.personRepo.Update(qctx, person); err != nil {
		if errors.Is(err, domainerrors.ErrConflict) {
			return usecase.Fail(http.StatusConflict, msgGoogleLinkedElsewhere), nil
		}

		return srv.writeFailed(ctx, "link google account", err, msgLinkFailed)
	}

	srv.publish(ctx, service.EventFederatedLinked, person)

	return usecase.OK(http.StatusOK, msgGoogleLinked), nil
}

// GoogleLogin resolves a Google identity to a person, by subject first and email second.
func (srv *authService) GoogleLogin(ctx context.Context, input *usecase.GoogleLoginInput) (*usecase.AuthOutcome, error) {
	if out := srv.checkIDToken(ctx, input.IDToken, input.FederatedID); out != nil {
		return out, nil
	}

	person, err := srv.findByFederatedID(ctx, input.FederatedID)
	if err != nil {
		return nil, err
	}
	if person != nil {
		return usecase.OK(http.StatusOK, "").WithUser(person), nil
	}

	person, err = srv.findByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	switch {
	case person == nil:
		return usecase.Fail(http.StatusNotFound, msgUserNotFound), nil
	case !person.HasFederatedID():
		return usecase.OK(http.StatusOK, msgFoundUnlinked).WithUser(person), nil
	default:
		return usecase.Fail(http.StatusConflict, msgEmailLinkedElsewhere), nil
	}
}

// GoogleRegister creates a password-less account for a Google identity. Repeating
// the call with the same subject returns the existing account without a message.
func (srv *authService) GoogleRegister(ctx context.Context, input *usecase.GoogleRegisterInput) (*usecase.AuthOutcome, error) {
	if out := srv.checkIDToken(ctx, input.IDToken, input.FederatedID); out != nil {
		return out, nil
	}

	existing, err := srv.findByFederatedID(ctx, input.FederatedID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return usecase.OK(http.StatusOK, "").WithUser(existing), nil
	}

	federatedID := input.FederatedID
	person := &entity.Person{
		ID:          uuid.New(),
		Name:        input.Name,
		Surname:     input.Surname,
		Email:       input.Email,
		Role:        entity.RoleStudent,
		FederatedID: &federatedID,
	}

	failure, err := srv.createWithPermissions(ctx, person, entity.DefaultFederatedPermissions)
	if err != nil || failure != nil {
		return failure, err
	}

	srv.log(ctx).Info("Person registered through Google", slog.String("personID", person.ID.String()))
	srv.publish(ctx, service.EventPersonRegistered, person)

	return usecase.OK(http.StatusOK, msgUserCreated).WithUser(person), nil
}

// UpdateFederatedID sets the Google subject of an existing person.
func (srv *authService) UpdateFederatedID(ctx context.Context, input *usecase.UpdateFederatedIDInput) (*usecase.AuthOutcome, error) {
	person, err := srv.find(ctx, "find person by id", func(c context.Context) (*entity.Person, error) {
		return srv.personRepo.FindByID(c, input.PersonID)
	})
	if err != nil {
		return nil, err
	}
	if person == nil {
		return usecase.Fail(http.StatusNotFound, msgUserNotFound), nil
	}

	qctx, cancel := srv.queryCtx(ctx)
	defer cancel()
	updated, err := srv.personRepo.UpdateFederatedID(qctx, person.ID, input.FederatedID)
	switch {
	case errors.Is(err, repository.ErrPersonNotFound):
		return usecase.Fail(http.StatusNotFound, msgUserNotFound), nil
	case errors.Is(err, domainerrors.ErrConflict):
		return usecase.Fail(http.StatusConflict, msgGoogleLinkedElsewhere), nil
	case err != nil:
		return srv.writeFailed(ctx, "update google id", err, msgUpdateGoogleIDFailed)
	}

	srv.publish(ctx, service.EventFederatedUpdated, updated)

	return usecase.OK(http.StatusOK, msgGoogleIDUpdated).WithUser(updated), nil
}
