package user

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)

	assert.True(t, VerifyPassword("correct horse battery staple", hash))
	assert.False(t, VerifyPassword("Correct horse battery staple", hash))
	assert.False(t, VerifyPassword("", hash))
}

func TestHashPasswordUsesCost12(t *testing.T) {
	hash, err := HashPassword("some password")
	require.NoError(t, err)

	// bcrypt hashes embed the cost: $2a$12$...
	assert.True(t, strings.HasPrefix(hash, "$2a$12$"), "hash %q should embed cost 12", hash)
}

func TestHashPasswordSalted(t *testing.T) {
	h1, err := HashPassword("same password")
	require.NoError(t, err)
	h2, err := HashPassword("same password")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
	assert.True(t, VerifyPassword("same password", h1))
	assert.True(t, VerifyPassword("same password", h2))
}

func TestVerifyPasswordMalformedHash(t *testing.T) {
	assert.False(t, VerifyPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, VerifyPassword("anything", ""))
}
