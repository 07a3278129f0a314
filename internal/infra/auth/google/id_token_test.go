package google

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"synnapse/config"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/idtoken"
)

func newTestVerifier(clientID string, validate validateFunc) *idTokenVerifier {
	cfg := &config.Config{GoogleOAuth: &config.GoogleOAuthConfig{ClientID: clientID}}
	v := NewIDTokenVerifier(cfg, slog.New(slog.NewTextHandler(io.Discard, nil))).(*idTokenVerifier)
	v.validate = validate

	return v
}

func TestIDTokenVerifier_DisabledWithoutClientID(t *testing.T) {
	v := NewIDTokenVerifier(&config.Config{}, slog.New(slog.NewTextHandler(io.Discard, nil)))

	assert.False(t, v.Enabled())
	_, err := v.Verify(context.Background(), "token")
	assert.Error(t, err)
}

func TestIDTokenVerifier_Verify(t *testing.T) {
	var gotAudience string
	v := newTestVerifier("client-123", func(_ context.Context, _ string, audience string) (*idtoken.Payload, error) {
		gotAudience = audience

		return &idtoken.Payload{
			Issuer:  "https://accounts.google.com",
			Subject: "google-sub-1",
			Claims: map[string]any{
				"email":          "a@x.com",
				"email_verified": true,
				"name":           "Ana",
			},
		}, nil
	})

	identity, err := v.Verify(context.Background(), "token")
	require.NoError(t, err)
	assert.Equal(t, "client-123", gotAudience)
	assert.Equal(t, "google-sub-1", identity.Subject)
	assert.Equal(t, "a@x.com", identity.Email)
	assert.True(t, identity.EmailVerified)
	assert.Equal(t, "Ana", identity.Name)
}

func TestIDTokenVerifier_RejectsForeignIssuer(t *testing.T) {
	v := newTestVerifier("client-123", func(context.Context, string, string) (*idtoken.Payload, error) {
		return &idtoken.Payload{Issuer: "https://evil.example.com", Subject: "x"}, nil
	})

	_, err := v.Verify(context.Background(), "token")
	assert.ErrorContains(t, err, "invalid issuer")
}

func TestIDTokenVerifier_PropagatesValidationError(t *testing.T) {
	v := newTestVerifier("client-123", func(context.Context, string, string) (*idtoken.Payload, error) {
		return nil, errors.New("idtoken: token expired")
	})

	_, err := v.Verify(context.Background(), "token")
	assert.ErrorContains(t, err, "failed to validate token")
}
