package domain

import "time"

// IdempotencyKey records the outcome of a save request sent with an Idempotency-Key header
type IdempotencyKey struct {
	Key          string    `json:"key"`
	StudentID    string    `json:"student_id"`
	RequestHash  string    `json:"request_hash"`
	ProjectionID string    `json:"projection_id"`
	ProcessedAt  time.Time `json:"processed_at"`
	ExpiresAt    time.Time `json:"expires_at"`
}

func (k *IdempotencyKey) IsExpired() bool {
	return time.Now().After(k.ExpiresAt)
}
