package storage

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetGetRemove(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	_, found, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, s.Set(ctx, "token", "abc123"))
	value, found, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "abc123", value)
	assert.Equal(t, 1, s.Len())

	require.NoError(t, s.Remove(ctx, "token"))
	require.NoError(t, s.Remove(ctx, "token"))
	_, found, _ = s.Get(ctx, "token")
	assert.False(t, found)
	assert.Equal(t, 0, s.Len())
}

func TestMemoryStore_EmptyValueIsFound(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryStore()

	require.NoError(t, s.Set(ctx, "token", ""))
	value, found, err := s.Get(ctx, "token")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Empty(t, value)
}
