package errorx

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestIs(t *testing.T) {
	err := New(InvalidState, "Draw %s is not active", "42")
	require.Equal(t, "Draw 42 is not active", err.Error())
	require.True(t, Is(err, InvalidState))
	require.False(t, Is(err, NotFound))

	wrapped := fmt.Errorf("conduct: %w", err)
	require.True(t, Is(wrapped, InvalidState))
	require.False(t, Is(fmt.Errorf("plain"), InvalidState))
}
