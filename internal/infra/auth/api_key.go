package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"

	"synnapse/config"
)

// APIKeySigner derives and checks the per-route API key sent by trusted clients.
// The key for a route is hex(HMAC-SHA256(secret, requestURI)).
type APIKeySigner struct {
	secret []byte
}

// NewAPIKeySigner creates a signer from the access gate secret.
func NewAPIKeySigner(cfg *config.Config) *APIKeySigner {
	return &APIKeySigner{secret: []byte(cfg.AccessGate.Secret)}
}

// Sign returns the expected key for requestURI (path plus raw query).
func (s *APIKeySigner) Sign(requestURI string) string {
	mac := hmac.New(sha256.New, s.secret)
	mac.Write([]byte(requestURI))

	return hex.EncodeToString(mac.Sum(nil))
}

// Verify reports whether key is the valid signature of requestURI. Comparison is constant time.
func (s *APIKeySigner) Verify(key, requestURI string) bool {
	if key == "" || len(s.secret) == 0 {
		return false
	}

	return hmac.Equal([]byte(key), []byte(s.Sign(requestURI)))
}
