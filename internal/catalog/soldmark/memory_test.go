package soldmark

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	sold, err := store.IsSold(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, sold)

	require.NoError(t, store.Mark(ctx, "p1"))

	sold, err = store.IsSold(ctx, "p1")
	require.NoError(t, err)
	assert.True(t, sold)

	require.NoError(t, store.Unmark(ctx, "p1"))

	sold, err = store.IsSold(ctx, "p1")
	require.NoError(t, err)
	assert.False(t, sold)
}

func TestMemoryStoreMap(t *testing.T) {
	ctx := context.Background()
	store := NewMemoryStore()

	require.NoError(t, store.Mark(ctx, "a"))
	require.NoError(t, store.Mark(ctx, "c"))

	marks, err := store.Map(ctx, []string{"a", "b", "c"})
	require.NoError(t, err)

	assert.True(t, marks["a"])
	assert.False(t, marks["b"])
	assert.True(t, marks["c"])
}

func TestMemoryStoreMapEmpty(t *testing.T) {
	store := NewMemoryStore()

	marks, err := store.Map(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, marks)
}
