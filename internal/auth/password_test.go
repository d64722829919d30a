package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("hunter22")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("hunter22", hash))
	assert.False(t, CheckPasswordHash("hunter23", hash))
}

func TestLongPasswordsAreTruncatedNotRejected(t *testing.T) {
	long := strings.Repeat("p", 100)
	hash, err := HashPassword(long)
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash(long, hash))
	// Everything past 72 bytes is ignored, so this also matches.
	assert.True(t, CheckPasswordHash(long+"tail", hash))
}

func TestNewTokenIsOpaqueRandom(t *testing.T) {
	a := NewToken()
	b := NewToken()
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, b)
	assert.NotContains(t, a, "-")
}
