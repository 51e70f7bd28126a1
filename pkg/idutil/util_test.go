package idutil

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewID(t *testing.T) {
	require.NoError(t, Init(7))

	seen := map[int64]bool{}
	last := int64(0)
	for i := 0; i < 1000; i++ {
		id := NewID()
		require.Greater(t, id, last)
		require.False(t, seen[id])
		seen[id] = true
		last = id
	}

	require.Error(t, Init(1<<20))
}
