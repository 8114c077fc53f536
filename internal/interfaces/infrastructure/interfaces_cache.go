package interfaces

import (
	"context"
	"errors"
	"time"
)

// ErrCacheMiss is returned when a key is absent or expired
var ErrCacheMiss = errors.New("cache miss")

type CacheService interface {
	// Upstream payloads
	GetPayload(ctx context.Context, kind, key string) (any, error)
	SetPayload(ctx context.Context, kind, key string, data any, ttl time.Duration) error

	// Generic operations
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context, pattern string) error

	Health(ctx context.Context) error
	Close() error
}
