package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "course-planner/internal/domain/projection"
	interfaces "course-planner/internal/interfaces/infrastructure"

	"github.com/go-redis/redis/v8"
)

var ErrIdempotencyKeyNotFound = errors.New("idempotency key not found")

var _ interfaces.IdempotencyRepository = (*RedisIdempotencyRepository)(nil)

type RedisIdempotencyRepository struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisIdempotencyRepository(client redis.UniversalClient, ttl time.Duration) *RedisIdempotencyRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &RedisIdempotencyRepository{
		client: client,
		prefix: "planner:idempotency:",
		ttl:    ttl,
	}
}

// Create stores key only if no entry exists for it yet
func (r *RedisIdempotencyRepository) Create(ctx context.Context, key *domain.IdempotencyKey) error {
	data, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency key: %w", err)
	}

	ok, err := r.client.SetNX(ctx, r.getRedisKey(key.Key), string(data), r.ttl).Result()
	if err != nil {
		return fmt.Errorf("failed to store idempotency key in Redis: %w", err)
	}
	if !ok {
		return fmt.Errorf("idempotency key %s already stored", key.Key)
	}

	return nil
}

func (r *RedisIdempotencyRepository) GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error) {
	val, err := r.client.Get(ctx, r.getRedisKey(key)).Result()
	if err != nil {
		if err == redis.Nil {
			return nil, ErrIdempotencyKeyNotFound
		}
		return nil, fmt.Errorf("failed to get idempotency key from Redis: %w", err)
	}

	var idempotencyKey domain.IdempotencyKey
	if err := json.Unmarshal([]byte(val), &idempotencyKey); err != nil {
		return nil, fmt.Errorf("failed to unmarshal idempotency key: %w", err)
	}

	return &idempotencyKey, nil
}

func (r *RedisIdempotencyRepository) Delete(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.getRedisKey(key)).Err(); err != nil {
		return fmt.Errorf("failed to delete idempotency key from Redis: %w", err)
	}

	return nil
}

func (r *RedisIdempotencyRepository) SetWithTTL(ctx context.Context, key *domain.IdempotencyKey, ttl time.Duration) error {
	data, err := json.Marshal(key)
	if err != nil {
		return fmt.Errorf("failed to marshal idempotency key: %w", err)
	}

	if err := r.client.Set(ctx, r.getRedisKey(key.Key), string(data), ttl).Err(); err != nil {
		return fmt.Errorf("failed to store idempotency key in Redis: %w", err)
	}

	return nil
}

func (r *RedisIdempotencyRepository) getRedisKey(key string) string {
	return r.prefix + key
}
