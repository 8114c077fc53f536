package interfaces

import (
	"context"
	"time"

	domain "course-planner/internal/domain/projection"
)

type IdempotencyRepository interface {
	Create(ctx context.Context, key *domain.IdempotencyKey) error
	GetByKey(ctx context.Context, key string) (*domain.IdempotencyKey, error)
	Delete(ctx context.Context, key string) error
	SetWithTTL(ctx context.Context, key *domain.IdempotencyKey, ttl time.Duration) error
}
