package validator

import (
	"testing"

	domainerrors "synnapse/internal/domain/errors"
	"synnapse/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type loginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
	PersonID string `json:"person_id,omitempty" validate:"omitempty,uuid"`
}

func TestValidator_Validate(t *testing.T) {
	v := New()

	require.NoError(t, v.Validate(&loginRequest{Email: "a@x.com", Password: "pw"}))

	err := v.Validate(&loginRequest{Password: "pw"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrValidationFailed))

	appErr, ok := errors.AsType[*domainerrors.BaseError](err)
	require.True(t, ok)
	assert.Equal(t, "email is required", appErr.Message())

	err = v.Validate(&loginRequest{Email: "a@x.com", Password: "pw", PersonID: "nope"})
	appErr, ok = errors.AsType[*domainerrors.BaseError](err)
	require.True(t, ok)
	assert.Equal(t, "person_id must be a valid UUID", appErr.Message())
}
