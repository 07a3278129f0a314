package impl

import (
	"context"
	"log/slog"
	"net/http"

	deliverycontext "synnapse/internal/delivery/context"
	"synnapse/internal/domain/entity"
	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/domain/repository"
	"synnapse/internal/domain/service"
	"synnapse/internal/errors"
	"synnapse/internal/usecase"

	"github.com/google/uuid"
)

// queryCtx bounds a single storage call.
func (srv *authService) queryCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if srv.queryTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, srv.queryTimeout)
}

// outboundCtx bounds a network call to a collaborator such as the mail relay.
func (srv *authService) outboundCtx(ctx context.Context) (context.Context, context.CancelFunc) {
	if srv.sendTimeout <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, srv.sendTimeout)
}

// storageError logs a failed storage call and converts deadlines into ErrTimeout.
func (srv *authService) storageError(ctx context.Context, op string, err error) error {
	srv.log(ctx).Error("Storage call failed", slog.String("op", op), slog.Any("error", err))
	if errors.IsTimeout(err) {
		return errors.Wrap(domainerrors.ErrTimeout, op)
	}

	return errors.Wrap(err, op)
}

// writeFailed turns a failed write into a coarse outcome. The storage detail stays in the log.
func (srv *authService) writeFailed(ctx context.Context, op string, err error, message string) (*usecase.AuthOutcome, error) {
	if errors.IsTimeout(err) {
		return nil, srv.storageError(ctx, op, err)
	}
	srv.log(ctx).Error("Write failed", slog.String("op", op), slog.Any("error", err))

	return usecase.Fail(http.StatusInternalServerError, message), nil
}

// find runs a person lookup; a miss is (nil, nil).
func (srv *authService) find(ctx context.Context, op string, fn func(context.Context) (*entity.Person, error)) (*entity.Person, error) {
	qctx, cancel := srv.queryCtx(ctx)
	defer cancel()

	person, err := fn(qctx)
	if errors.Is(err, repository.ErrPersonNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, srv.storageError(ctx, op, err)
	}

	return person, nil
}

func (srv *authService) findByEmail(ctx context.Context, email string) (*entity.Person, error) {
	return srv.find(ctx, "find person by email", func(c context.Context) (*entity.Person, error) {
		return srv.personRepo.FindByEmail(c, email)
	})
}

func (srv *authService) findByFederatedID(ctx context.Context, federatedID string) (*entity.Person, error) {
	return srv.find(ctx, "find person by google id", func(c context.Context) (*entity.Person, error) {
		return srv.personRepo.FindByFederatedID(c, federatedID)
	})
}

// findToken looks a reset token up; a miss is (nil, nil).
func (srv *authService) findToken(ctx context.Context, token string) (*entity.PasswordResetToken, error) {
	qctx, cancel := srv.queryCtx(ctx)
	defer cancel()

	found, err := srv.tokenRepo.FindByToken(qctx, token)
	if errors.Is(err, repository.ErrResetTokenNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, srv.storageError(ctx, "find reset token", err)
	}

	return found, nil
}

// deleteToken removes a token found to be expired. Failure only delays cleanup to the sweeper.
func (srv *authService) deleteToken(ctx context.Context, token string) {
	qctx, cancel := srv.queryCtx(ctx)
	defer cancel()

	if err := srv.tokenRepo.DeleteByToken(qctx, token); err != nil {
		srv.log(ctx).Warn("Failed to delete expired reset token", slog.Any("error", err))
	}
}

func (srv *authService) sweepExpiredTokens(ctx context.Context) {
	qctx, cancel := srv.queryCtx(ctx)
	defer cancel()

	if _, err := srv.tokenRepo.DeleteExpired(qctx); err != nil {
		srv.log(ctx).Warn("Failed to sweep expired reset tokens", slog.Any("error", err))
	}
}

// storePassword hashes and persists a new password. A nil outcome and nil error mean success.
func (srv *authService) storePassword(ctx context.Context, person *entity.Person, password, failMessage string) (*usecase.AuthOutcome, error) {
	hash, err := srv.hasher.Hash(password)
	if err != nil {
		srv.log(ctx).Error("Failed to hash password", slog.Any("error", err))

		return usecase.Fail(http.StatusInternalServerError, failMessage), nil
	}
	person.SetPasswordHash(hash)

	qctx, cancel := srv.queryCtx(ctx)
	defer cancel()
	if err := srv.personRepo.Update(qctx, person); err != nil {
		return srv.writeFailed(ctx, "update password", err, failMessage)
	}

	return nil, nil
}

// createWithPermissions inserts person and its default permissions atomically.
// A nil outcome and nil error mean both rows were committed.
func (srv *authService) createWithPermissions(
	ctx context.Context,
	person *entity.Person,
	defaults func(uuid.UUID) *entity.Permissions,
) (*usecase.AuthOutcome, error) {
	qctx, cancel := srv.queryCtx(ctx)
	defer cancel()

	personCreated := false
	err := srv.txManager.Execute(qctx, func(f repository.RepositoryFactory) error {
		if err := f.PersonRepo().Create(qctx, person); err != nil {
			return errors.Wrap(err, "create person")
		}
		personCreated = true

		return errors.Wrap(f.PermissionsRepo().Create(qctx, defaults(person.ID)), "create permissions")
	})
	if err == nil {
		return nil, nil
	}

	switch {
	case errors.IsTimeout(err):
		return nil, srv.storageError(ctx, "create person with permissions", err)
	case !personCreated && errors.Is(err, domainerrors.ErrConflict):
		// Lost a race with a concurrent registration of the same email.
		return usecase.Fail(http.StatusConflict, msgEmailTaken), nil
	case !personCreated:
		return srv.writeFailed(ctx, "create person", err, msgCreateUserFailed)
	default:
		return srv.writeFailed(ctx, "create permissions", err, msgCreatePermsFailed)
	}
}

// checkIDToken verifies an optional Google ID token against the claimed subject.
// It returns a failure outcome when the token is present and does not match.
func (srv *authService) checkIDToken(ctx context.Context, idToken, federatedID string) *usecase.AuthOutcome {
	if idToken == "" || srv.verifier == nil || !srv.verifier.Enabled() {
		return nil
	}

	vctx, cancel := srv.outboundCtx(ctx)
	defer cancel()

	identity, err := srv.verifier.Verify(vctx, idToken)
	if err != nil || identity.Subject != federatedID {
		srv.log(ctx).Warn("Google ID token does not match the claimed subject", slog.Any("error", err))

		return usecase.Fail(http.StatusUnauthorized, msgInvalidGoogleIDToken)
	}

	return nil
}

// publish hands an auth event to the publisher, which delivers it off the request path.
// A refused event is logged and never fails the caller.
func (srv *authService) publish(ctx context.Context, eventType service.AuthEventType, person *entity.Person) {
	if srv.publisher == nil {
		return
	}

	event := &service.AuthEvent{
		RequestID:  deliverycontext.RequestIDFromContext(ctx),
		EventID:    uuid.NewString(),
		Type:       eventType,
		PersonID:   person.ID.String(),
		Email:      person.Email,
		OccurredAt: srv.now().UTC(),
	}

	pctx, cancel := srv.outboundCtx(ctx)
	defer cancel()
	if err := srv.publisher.PublishAuthEvent(pctx, event); err != nil {
		srv.log(ctx).Warn("Failed to publish auth event",
			slog.String("type", string(eventType)),
			slog.Any("error", err),
		)
	}
}
