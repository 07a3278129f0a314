package auth

import (
	"crypto/sha256"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
)

// Low work factor keeps the suite fast.
const testIterations = 1000

func TestPBKDF2Hasher_HashAndCheck(t *testing.T) {
	hasher := NewPBKDF2HasherWithIterations(testIterations)

	hash, err := hasher.Hash("pw1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$pbkdf2-sha256$i=1000,l=32$"))
	assert.NotContains(t, hash, "pw1")

	assert.True(t, hasher.Check("pw1", hash))
	assert.False(t, hasher.Check("pw2", hash))
	assert.False(t, hasher.Check("", hash))
}

func TestPBKDF2Hasher_RandomSalt(t *testing.T) {
	hasher := NewPBKDF2HasherWithIterations(testIterations)

	first, err := hasher.Hash("same password")
	require.NoError(t, err)
	second, err := hasher.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Check("same password", first))
	assert.True(t, hasher.Check("same password", second))
}

func TestPBKDF2Hasher_MalformedHashes(t *testing.T) {
	hasher := NewPBKDF2HasherWithIterations(testIterations)

	for _, garbage := range []string{
		"",
		"invalid_hash",
		"$pbkdf2-sha256$",
		"$pbkdf2-sha256$i=abc$c2FsdA$aGFzaA",
		"$pbkdf2-sha256$i=0$c2FsdA$aGFzaA",
		"$pbkdf2-sha256$l=32$c2FsdA$aGFzaA",
		"$pbkdf2-sha256$i=1000$!!!$aGFzaA",
		"$pbkdf2-sha256$i=1000$c2FsdA$",
		"$argon2id$v=19$m=65536,t=3,p=4$c2FsdA$aGFzaA",
		"$2a$10$short",
	} {
		assert.NotPanics(t, func() {
			assert.False(t, hasher.Check("pw", garbage), garbage)
		})
	}
}

func TestPBKDF2Hasher_VerifiesExternallyProducedPHC(t *testing.T) {
	salt := []byte("0123456789abcdef")
	key := pbkdf2.Key([]byte("admin"), salt, 2000, 32, sha256.New)
	encoded := "$pbkdf2-sha256$i=2000,l=32$" + phcEncoding.EncodeToString(salt) + "$" + phcEncoding.EncodeToString(key)

	hasher := NewPBKDF2HasherWithIterations(testIterations)
	assert.True(t, hasher.Check("admin", encoded))
	assert.False(t, hasher.Check("Admin", encoded))
}

func TestPBKDF2Hasher_LegacyBcrypt(t *testing.T) {
	legacy, err := bcrypt.GenerateFromPassword([]byte("old-secret"), bcrypt.MinCost)
	require.NoError(t, err)

	hasher := NewPBKDF2HasherWithIterations(testIterations)
	assert.True(t, hasher.Check("old-secret", string(legacy)))
	assert.False(t, hasher.Check("other", string(legacy)))
}
