package retrievalcode

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	code, err := New(6)
	require.NoError(t, err)
	assert.Len(t, code, 6)
	for _, r := range code {
		assert.True(t, strings.ContainsRune(alphabet, r), "unexpected rune %q", r)
	}

	// Zero or negative length falls back to the default.
	code, err = New(0)
	require.NoError(t, err)
	assert.Len(t, code, DefaultLength)
}

func TestNew_Distribution(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		code, err := New(8)
		require.NoError(t, err)
		seen[code] = true
	}
	// Collisions in 200 draws over 32^8 would point at a broken generator.
	assert.Len(t, seen, 200)
}
