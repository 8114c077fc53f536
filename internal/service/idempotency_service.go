package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	domain "course-planner/internal/domain/projection"
	"course-planner/internal/infrastructure/repository"
	interfaces "course-planner/internal/interfaces/infrastructure"
	"course-planner/pkg/logger"
)

const (
	DefaultIdempotencyTTL = 24 * time.Hour
)

type IdempotencyService struct {
	idempotencyRepo interfaces.IdempotencyRepository
	ttl             time.Duration
}

func NewIdempotencyService(idempotencyRepo interfaces.IdempotencyRepository, ttl time.Duration) *IdempotencyService {
	if ttl <= 0 {
		ttl = DefaultIdempotencyTTL
	}
	return &IdempotencyService{
		idempotencyRepo: idempotencyRepo,
		ttl:             ttl,
	}
}

// CheckDuplicateRequest returns the stored outcome when key was already used for the same request.
// A key reused with different request data yields ErrIdempotencyConflict.
func (s *IdempotencyService) CheckDuplicateRequest(ctx context.Context, key, studentID string, requestData any) (*domain.IdempotencyKey, bool, error) {
	if key == "" {
		return nil, false, nil
	}

	existingKey, err := s.idempotencyRepo.GetByKey(ctx, key)
	if err != nil && !errors.Is(err, repository.ErrIdempotencyKeyNotFound) {
		logger.Error("Failed to check idempotency key: %v", err)
		return nil, false, fmt.Errorf("failed to check idempotency key: %w", err)
	}
	if existingKey == nil {
		return nil, false, nil
	}

	if existingKey.IsExpired() {
		if err := s.idempotencyRepo.Delete(ctx, key); err != nil {
			logger.Warn("Failed to delete expired idempotency key %s: %v", key, err)
		}
		return nil, false, nil
	}

	if existingKey.RequestHash != s.generateRequestHash(studentID, requestData) {
		logger.Warn("Idempotency key %s used with different request data", key)
		return nil, false, ErrIdempotencyConflict
	}

	logger.Info("Duplicate request detected for idempotency key: %s", key)
	return existingKey, true, nil
}

func (s *IdempotencyService) StoreProcessedRequest(ctx context.Context, key, studentID string, requestData any, projectionID string) error {
	if key == "" {
		return nil
	}

	now := time.Now()
	idempotencyKey := &domain.IdempotencyKey{
		Key:          key,
		StudentID:    studentID,
		RequestHash:  s.generateRequestHash(studentID, requestData),
		ProjectionID: projectionID,
		ProcessedAt:  now,
		ExpiresAt:    now.Add(s.ttl),
	}

	if err := s.idempotencyRepo.Create(ctx, idempotencyKey); err != nil {
		logger.Error("Failed to store idempotency key %s: %v", key, err)
		return fmt.Errorf("failed to store idempotency key: %w", err)
	}

	logger.Info("Stored idempotency key: %s", key)
	return nil
}

func (s *IdempotencyService) generateRequestHash(studentID string, requestData any) string {
	data := map[string]any{
		"student_id":   studentID,
		"request_data": requestData,
	}

	jsonData, _ := json.Marshal(data)
	hash := sha256.Sum256(jsonData)
	return hex.EncodeToString(hash[:])
}
