package seen

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisStore shares delivered-id state across instances. Each keyword holds
// a SET for membership and a LIST for insertion order; the list is the
// eviction queue.
type RedisStore struct {
	rdb      *redis.Client
	capacity int
}

// NewRedisStore creates a Redis-backed store from a URL
// (e.g. "redis://localhost:6379").
func NewRedisStore(redisURL string, capacity int) (*RedisStore, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	return &RedisStore{rdb: redis.NewClient(opts), capacity: capacity}, nil
}

// NewRedisStoreWithClient wraps an existing client. Used by tests.
func NewRedisStoreWithClient(client *redis.Client, capacity int) *RedisStore {
	return &RedisStore{rdb: client, capacity: capacity}
}

func membersKey(keyword string) string { return "seen:ids:" + keyword }
func orderKey(keyword string) string   { return "seen:order:" + keyword }

func (s *RedisStore) CheckAndMark(ctx context.Context, keyword, videoID string) (bool, error) {
	added, err := s.rdb.SAdd(ctx, membersKey(keyword), videoID).Result()
	if err != nil {
		return false, fmt.Errorf("failed to mark video id: %w", err)
	}
	if added == 0 {
		return true, nil
	}

	if err := s.rdb.RPush(ctx, orderKey(keyword), videoID).Err(); err != nil {
		return false, fmt.Errorf("failed to record insertion order: %w", err)
	}

	length, err := s.rdb.LLen(ctx, orderKey(keyword)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check record size: %w", err)
	}
	if length > int64(s.capacity) {
		oldest, err := s.rdb.LPop(ctx, orderKey(keyword)).Result()
		if err != nil {
			return false, fmt.Errorf("failed to evict oldest id: %w", err)
		}
		if err := s.rdb.SRem(ctx, membersKey(keyword), oldest).Err(); err != nil {
			return false, fmt.Errorf("failed to evict oldest id: %w", err)
		}
	}

	return false, nil
}

func (s *RedisStore) Clear(ctx context.Context, keyword string) error {
	if err := s.rdb.Del(ctx, membersKey(keyword), orderKey(keyword)).Err(); err != nil {
		return fmt.Errorf("failed to clear keyword record: %w", err)
	}
	return nil
}

// Ping verifies the Redis connection.
func (s *RedisStore) Ping(ctx context.Context) error {
	return s.rdb.Ping(ctx).Err()
}

// Close closes the Redis connection.
func (s *RedisStore) Close() error {
	return s.rdb.Close()
}
