package service

import "context"

// FederatedIdentity is the verified subject of an identity provider token.
type FederatedIdentity struct {
	Subject       string
	Email         string
	EmailVerified bool
	Name          string
}

// IDTokenVerifier validates identity provider ID tokens.
type IDTokenVerifier interface {
	// Enabled reports whether verification is configured. When false, Verify is never called.
	Enabled() bool

	Verify(ctx context.Context, idToken string) (*FederatedIdentity, error)
}
