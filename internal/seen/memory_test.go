package seen

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_CheckAndMark(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()

	seen, err := store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)
	assert.False(t, seen, "first sighting must be unseen")

	seen, err = store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)
	assert.True(t, seen, "second sighting must be seen")
}

func TestMemoryStore_KeywordsAreIndependent(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()

	_, err := store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)

	seen, err := store.CheckAndMark(ctx, "news", "v1")
	require.NoError(t, err)
	assert.False(t, seen, "same id under another keyword is unseen")
}

func TestMemoryStore_EvictsOldestFirst(t *testing.T) {
	store := NewMemoryStore(3)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		_, err := store.CheckAndMark(ctx, "jazz", fmt.Sprintf("v%d", i))
		require.NoError(t, err)
	}
	assert.Equal(t, 3, store.Len("jazz"))

	// v1 was evicted and may reappear as new.
	seen, err := store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)
	assert.False(t, seen)

	// v3 is still retained.
	seen, err = store.CheckAndMark(ctx, "jazz", "v3")
	require.NoError(t, err)
	assert.True(t, seen)
}

func TestMemoryStore_Clear(t *testing.T) {
	store := NewMemoryStore(10)
	ctx := context.Background()

	_, err := store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, "jazz"))
	assert.Equal(t, 0, store.Len("jazz"))

	seen, err := store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)
	assert.False(t, seen, "cleared keyword starts fresh")
}
