package security

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPasswordHashRoundTrip(t *testing.T) {
	hash, err := HashPassword("Abcdefghijk1!")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdefghijk1!", hash)

	assert.True(t, VerifyPassword("Abcdefghijk1!", hash))
	assert.False(t, VerifyPassword("wrong-password", hash))
	assert.False(t, VerifyPassword("Abcdefghijk1!", "not-a-bcrypt-hash"))
}
