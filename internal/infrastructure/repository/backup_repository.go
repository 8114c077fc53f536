package repository

import (
	"context"

	domain "course-planner/internal/domain/projection"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// BackupRepository implements BackupRepository using GORM
type BackupRepository struct {
	db *gorm.DB
}

// NewBackupRepository creates a new GORM backup repository
func NewBackupRepository(db *gorm.DB) domain.BackupRepository {
	return &BackupRepository{
		db: db,
	}
}

// SaveCurriculum replaces the snapshot for the career version
func (r *BackupRepository) SaveCurriculum(ctx context.Context, b *domain.CurriculumBackup) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(b).Error
}

// GetCurriculum retrieves the snapshot for a career version
func (r *BackupRepository) GetCurriculum(ctx context.Context, careerCode, catalog string) (*domain.CurriculumBackup, error) {
	var b domain.CurriculumBackup
	err := r.db.WithContext(ctx).
		Where("career_code = ? AND catalog = ?", careerCode, catalog).
		First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}

// SaveHistory replaces the snapshot for a student's career
func (r *BackupRepository) SaveHistory(ctx context.Context, b *domain.HistoryBackup) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{UpdateAll: true}).
		Create(b).Error
}

// GetHistory retrieves the snapshot for a student's career
func (r *BackupRepository) GetHistory(ctx context.Context, studentID, careerCode string) (*domain.HistoryBackup, error) {
	var b domain.HistoryBackup
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND career_code = ?", studentID, careerCode).
		First(&b).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil
		}
		return nil, err
	}
	return &b, nil
}
