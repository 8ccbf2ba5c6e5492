package crypto

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("dispatch-secret")
	require.NoError(t, err)
	require.NotEqual(t, "dispatch-secret", hash)

	require.True(t, VerifyPassword(hash, "dispatch-secret"))
	require.False(t, VerifyPassword(hash, "wrong"))
	require.False(t, VerifyPassword("not-a-hash", "dispatch-secret"))
}
