package impl

import (
	"context"
	"time"

	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/errors"
)

// withTimeout bounds one storage call; a non-positive budget means none.
func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}

	return context.WithTimeout(ctx, d)
}

// translateStorageError maps repository results of the CRUD services onto AppErrors.
func translateStorageError(err, notFound error, resource string) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, notFound):
		return domainerrors.ErrNotFound.WithMessage(resource + " not found")
	case errors.IsTimeout(err):
		return errors.Wrap(domainerrors.ErrTimeout, resource)
	default:
		return err
	}
}
