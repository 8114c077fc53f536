package repository

import (
	"context"

	domain "course-planner/internal/domain/projection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// OfferRepository implements OfferRepository using GORM
type OfferRepository struct {
	db *gorm.DB
}

// NewOfferRepository creates a new GORM offer repository
func NewOfferRepository(db *gorm.DB) domain.OfferRepository {
	return &OfferRepository{
		db: db,
	}
}

// Upsert inserts sections or replaces the stored ones with the same section id, whatever their term
func (r *OfferRepository) Upsert(ctx context.Context, sections []domain.OfferedSectionRecord) (int64, error) {
	if len(sections) == 0 {
		return 0, nil
	}

	result := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "section_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"term", "course_code", "section_label", "seats", "blocks", "updated_at"}),
		}).
		Create(&sections)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// List retrieves sections filtered by course code and term; empty filters match everything
func (r *OfferRepository) List(ctx context.Context, courseCode, term string) ([]domain.OfferedSectionRecord, error) {
	query := r.db.WithContext(ctx)
	if courseCode != "" {
		query = query.Where("course_code = ?", courseCode)
	}
	if term != "" {
		query = query.Where("term = ?", term)
	}

	var sections []domain.OfferedSectionRecord
	if err := query.Order("course_code").Order("section_id").Find(&sections).Error; err != nil {
		return nil, err
	}
	return sections, nil
}

// ListByTerm retrieves the whole catalog of a term ordered by section id
func (r *OfferRepository) ListByTerm(ctx context.Context, term string) ([]domain.OfferedSectionRecord, error) {
	var sections []domain.OfferedSectionRecord
	err := r.db.WithContext(ctx).
		Where("term = ?", term).
		Order("section_id").
		Find(&sections).Error
	if err != nil {
		return nil, err
	}
	return sections, nil
}
