package seen

import (
	"context"
	"flag"
	"fmt"
	"os"
	"testing"

	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/redis"
)

var testRedisURL string

func TestMain(m *testing.M) {
	flag.Parse()
	if testing.Short() {
		// Redis-backed tests skip themselves; no container needed.
		os.Exit(m.Run())
	}

	ctx := context.Background()
	container, err := redis.Run(ctx, "redis:7-alpine")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start redis container: %v\n", err)
		os.Exit(1)
	}

	endpoint, err := container.Endpoint(ctx, "")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to get redis endpoint: %v\n", err)
		os.Exit(1)
	}
	testRedisURL = "redis://" + endpoint

	code := m.Run()

	_ = container.Terminate(ctx)
	os.Exit(code)
}

func setupTestRedisStore(t *testing.T, capacity int) *RedisStore {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping integration test")
	}

	opts, err := goredis.ParseURL(testRedisURL)
	require.NoError(t, err)
	client := goredis.NewClient(opts)
	require.NoError(t, client.FlushAll(context.Background()).Err())

	store := NewRedisStoreWithClient(client, capacity)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func TestRedisStore_CheckAndMark(t *testing.T) {
	store := setupTestRedisStore(t, 10)
	ctx := context.Background()

	seen, err := store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)
	assert.False(t, seen)

	seen, err = store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)
	assert.True(t, seen)

	seen, err = store.CheckAndMark(ctx, "news", "v1")
	require.NoError(t, err)
	assert.False(t, seen, "same id under another keyword is unseen")
}

func TestRedisStore_EvictsOldestFirst(t *testing.T) {
	store := setupTestRedisStore(t, 3)
	ctx := context.Background()

	for i := 1; i <= 4; i++ {
		_, err := store.CheckAndMark(ctx, "jazz", fmt.Sprintf("v%d", i))
		require.NoError(t, err)
	}

	seen, err := store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)
	assert.False(t, seen, "oldest id was evicted")

	seen, err = store.CheckAndMark(ctx, "jazz", "v4")
	require.NoError(t, err)
	assert.True(t, seen, "newest id is retained")
}

func TestRedisStore_Clear(t *testing.T) {
	store := setupTestRedisStore(t, 10)
	ctx := context.Background()

	_, err := store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx, "jazz"))

	seen, err := store.CheckAndMark(ctx, "jazz", "v1")
	require.NoError(t, err)
	assert.False(t, seen)
}
