package domain

import "context"

// ProjectionRepository defines the interface for saved projection data access
type ProjectionRepository interface {
	// Create stores the projection and its items. When the projection is a favorite,
	// any other favorite of the same student is cleared in the same transaction.
	Create(ctx context.Context, p *SavedProjection) error
	GetByID(ctx context.Context, id string) (*SavedProjection, error)
	ListByStudent(ctx context.Context, studentID string) ([]*SavedProjection, error)
	// SetFavorite marks id as the student's only favorite. It reports false when no
	// projection with that id belongs to the student.
	SetFavorite(ctx context.Context, studentID, id string) (bool, error)
	Rename(ctx context.Context, studentID, id, name string) (bool, error)
	Delete(ctx context.Context, studentID, id string) (bool, error)
}

// DemandRepository aggregates favorite projections across students
type DemandRepository interface {
	DemandByCourse(ctx context.Context, careerCode string) ([]DemandEntry, error)
	DemandBySection(ctx context.Context, careerCode string) ([]DemandEntry, error)
}

// OfferRepository defines the interface for offered section data access
type OfferRepository interface {
	Upsert(ctx context.Context, sections []OfferedSectionRecord) (int64, error)
	List(ctx context.Context, courseCode, term string) ([]OfferedSectionRecord, error)
	ListByTerm(ctx context.Context, term string) ([]OfferedSectionRecord, error)
}

// BackupRepository stores upstream snapshots used as a fallback
type BackupRepository interface {
	SaveCurriculum(ctx context.Context, b *CurriculumBackup) error
	GetCurriculum(ctx context.Context, careerCode, catalog string) (*CurriculumBackup, error)
	SaveHistory(ctx context.Context, b *HistoryBackup) error
	GetHistory(ctx context.Context, studentID, careerCode string) (*HistoryBackup, error)
}
