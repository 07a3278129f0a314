// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/base64"
	"hash"
	"strconv"
	"strings"

	"synnapse/config"
	"synnapse/internal/domain/service"

	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

const (
	pbkdf2SHA256ID = "pbkdf2-sha256"
	pbkdf2SHA512ID = "pbkdf2-sha512"
	saltLength     = 16
	keyLength      = 32
)

// PHC strings use standard base64 without padding.
var phcEncoding = base64.RawStdEncoding

// pbkdf2Hasher implements PasswordHasher with PBKDF2 in PHC string format:
// $pbkdf2-sha256$i=<iterations>,l=<length>$<salt>$<hash>
type pbkdf2Hasher struct {
	iterations int
}

// NewPBKDF2Hasher is the constructor for pbkdf2Hasher.
func NewPBKDF2Hasher(cfg *config.Config) service.PasswordHasher {
	return NewPBKDF2HasherWithIterations(cfg.Auth.PBKDF2Iterations)
}

// NewPBKDF2HasherWithIterations creates a hasher with an explicit work factor.
func NewPBKDF2HasherWithIterations(iterations int) service.PasswordHasher {
	return &pbkdf2Hasher{iterations: iterations}
}

// Hash derives a salted PBKDF2-SHA256 hash. The salt is embedded in the result.
func (h *pbkdf2Hasher) Hash(password string) (string, error) {
	salt := make([]byte, saltLength)
	if _, err := rand.Read(salt); err != nil {
		return "", errors.Wrap(err, "failed to generate salt")
	}

	key := pbkdf2.Key([]byte(password), salt, h.iterations, keyLength, sha256.New)

	return "$" + pbkdf2SHA256ID +
		"$i=" + strconv.Itoa(h.iterations) + ",l=" + strconv.Itoa(keyLength) +
		"$" + phcEncoding.EncodeToString(salt) +
		"$" + phcEncoding.EncodeToString(key), nil
}

// Check verifies password against a PBKDF2 PHC string or a legacy bcrypt hash.
func (h *pbkdf2Hasher) Check(password, encoded string) bool {
	if strings.HasPrefix(encoded, "$2a$") || strings.HasPrefix(encoded, "$2b$") || strings.HasPrefix(encoded, "$2y$") {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	}

	parsed, err := parsePHC(encoded)
	if err != nil {
		return false
	}

	key := pbkdf2.Key([]byte(password), parsed.salt, parsed.iterations, len(parsed.hash), parsed.digest)

	return subtle.ConstantTimeCompare(key, parsed.hash) == 1
}

type phcHash struct {
	digest     func() hash.Hash
	iterations int
	salt       []byte
	hash       []byte
}

func parsePHC(encoded string) (*phcHash, error) {
	// "", id, params, salt, hash
	parts := strings.Split(encoded, "$")
	if len(parts) != 5 || parts[0] != "" {
		return nil, errors.New("malformed phc string")
	}

	parsed := &phcHash{}
	switch parts[1] {
	case pbkdf2SHA256ID:
		parsed.digest = sha256.New
	case pbkdf2SHA512ID:
		parsed.digest = sha512.New
	default:
		return nil, errors.Errorf("unsupported algorithm %q", parts[1])
	}

	for param := range strings.SplitSeq(parts[2], ",") {
		name, value, ok := strings.Cut(param, "=")
		if !ok {
			return nil, errors.Errorf("malformed parameter %q", param)
		}
		if name != "i" {
			// l is implied by the decoded hash length
			continue
		}
		iterations, err := strconv.Atoi(value)
		if err != nil || iterations <= 0 {
			return nil, errors.Errorf("invalid iteration count %q", value)
		}
		parsed.iterations = iterations
	}
	if parsed.iterations == 0 {
		return nil, errors.New("missing iteration count")
	}

	var err error
	if parsed.salt, err = phcEncoding.DecodeString(parts[3]); err != nil || len(parsed.salt) == 0 {
		return nil, errors.New("invalid salt")
	}
	if parsed.hash, err = phcEncoding.DecodeString(parts[4]); err != nil || len(parsed.hash) == 0 {
		return nil, errors.New("invalid hash")
	}

	return parsed, nil
}
