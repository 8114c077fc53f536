package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	interfaces "course-planner/internal/interfaces/infrastructure"

	"github.com/go-redis/redis/v8"
)

type RedisCache struct {
	client *redis.Client
	prefix string
}

func NewRedisCache(addr, password string, db int) *RedisCache {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	return &RedisCache{
		client: rdb,
		prefix: "planner:",
	}
}

// Client exposes the underlying connection for collaborators sharing it
func (r *RedisCache) Client() *redis.Client {
	return r.client
}

func (r *RedisCache) payloadKey(kind, key string) string {
	return fmt.Sprintf("%supstream:%s:%s", r.prefix, kind, key)
}

// GetPayload returns a decoded upstream payload, or ErrCacheMiss
func (r *RedisCache) GetPayload(ctx context.Context, kind, key string) (any, error) {
	val, err := r.client.Get(ctx, r.payloadKey(kind, key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, interfaces.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get %s payload from cache: %w", kind, err)
	}

	var payload any
	if err := json.Unmarshal([]byte(val), &payload); err != nil {
		return nil, fmt.Errorf("failed to unmarshal %s payload: %w", kind, err)
	}

	return payload, nil
}

func (r *RedisCache) SetPayload(ctx context.Context, kind, key string, data any, ttl time.Duration) error {
	jsonData, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal %s payload: %w", kind, err)
	}

	if err := r.client.Set(ctx, r.payloadKey(kind, key), jsonData, ttl).Err(); err != nil {
		return fmt.Errorf("failed to set %s payload: %w", kind, err)
	}

	return nil
}

func (r *RedisCache) Delete(ctx context.Context, key string) error {
	err := r.client.Del(ctx, r.prefix+key).Err()
	if err != nil {
		return fmt.Errorf("failed to delete key %s: %w", key, err)
	}

	return nil
}

// Clear removes every key under the cache prefix matching pattern
func (r *RedisCache) Clear(ctx context.Context, pattern string) error {
	var cursor uint64
	for {
		keys, next, err := r.client.Scan(ctx, cursor, r.prefix+pattern, 100).Result()
		if err != nil {
			return fmt.Errorf("failed to scan keys for pattern %s: %w", pattern, err)
		}

		if len(keys) > 0 {
			if err := r.client.Del(ctx, keys...).Err(); err != nil {
				return fmt.Errorf("failed to delete keys: %w", err)
			}
		}

		if next == 0 {
			return nil
		}
		cursor = next
	}
}

func (r *RedisCache) Close() error {
	return r.client.Close()
}

func (r *RedisCache) Health(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

var _ interfaces.CacheService = (*RedisCache)(nil)
