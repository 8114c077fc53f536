package repository

import (
	"context"
	"fmt"

	domain "course-planner/internal/domain/projection"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ProjectionRepository implements ProjectionRepository using GORM
type ProjectionRepository struct {
	db *gorm.DB
}

// NewProjectionRepository creates a new GORM projection repository
func NewProjectionRepository(db *gorm.DB) domain.ProjectionRepository {
	return &ProjectionRepository{
		db: db,
	}
}

// Create stores a projection with its items
func (r *ProjectionRepository) Create(ctx context.Context, p *domain.SavedProjection) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	for i := range p.Items {
		p.Items[i].ProjectionID = p.ID
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if p.IsFavorite {
			if err := clearFavorites(tx, p.StudentID); err != nil {
				return err
			}
		}
		if err := tx.Create(p).Error; err != nil {
			return fmt.Errorf("failed to create projection: %w", err)
		}
		return nil
	})
}

// GetByID retrieves a projection with its items in selection order
func (r *ProjectionRepository) GetByID(ctx context.Context, id string) (*domain.SavedProjection, error) {
	var p domain.SavedProjection
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		First(&p, "id = ?", id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &p, nil
}

// ListByStudent retrieves a student's projections, newest first
func (r *ProjectionRepository) ListByStudent(ctx context.Context, studentID string) ([]*domain.SavedProjection, error) {
	var projections []*domain.SavedProjection
	err := r.db.WithContext(ctx).
		Preload("Items", orderedItems).
		Where("student_id = ?", studentID).
		Order("created_at DESC").
		Order("id").
		Find(&projections).Error
	if err != nil {
		return nil, err
	}
	return projections, nil
}

// SetFavorite makes id the student's only favorite
func (r *ProjectionRepository) SetFavorite(ctx context.Context, studentID, id string) (bool, error) {
	found := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.SavedProjection{}).
			Where("id = ? AND student_id = ?", id, studentID).
			Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return nil
		}
		found = true

		if err := clearFavorites(tx, studentID); err != nil {
			return err
		}
		return tx.Model(&domain.SavedProjection{}).
			Where("id = ?", id).
			Update("is_favorite", true).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to set favorite projection: %w", err)
	}
	return found, nil
}

// Rename changes the display name of a student's projection
func (r *ProjectionRepository) Rename(ctx context.Context, studentID, id, name string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&domain.SavedProjection{}).
		Where("id = ? AND student_id = ?", id, studentID).
		Update("name", name)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

// Delete removes a student's projection and its items
func (r *ProjectionRepository) Delete(ctx context.Context, studentID, id string) (bool, error) {
	deleted := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Where("id = ? AND student_id = ?", id, studentID).Delete(&domain.SavedProjection{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return nil
		}
		deleted = true
		return tx.Where("projection_id = ?", id).Delete(&domain.SavedProjectionItem{}).Error
	})
	if err != nil {
		return false, fmt.Errorf("failed to delete projection: %w", err)
	}
	return deleted, nil
}

func clearFavorites(tx *gorm.DB, studentID string) error {
	err := tx.Model(&domain.SavedProjection{}).
		Where("student_id = ? AND is_favorite = ?", studentID, true).
		Update("is_favorite", false).Error
	if err != nil {
		return fmt.Errorf("failed to clear favorites: %w", err)
	}
	return nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}
