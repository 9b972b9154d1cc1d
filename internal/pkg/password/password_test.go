package password

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCompare(t *testing.T) {
	hash, err := Hash("secret1")
	require.NoError(t, err)
	assert.NotEqual(t, "secret1", hash)

	assert.NoError(t, Compare(hash, "secret1"))
	assert.ErrorIs(t, Compare(hash, "secret2"), ErrMismatch)
	assert.ErrorIs(t, Compare("", "secret1"), ErrMismatch)
}
