package repository

import (
	"context"
	"fmt"

	domain "course-planner/internal/domain/projection"

	"github.com/jmoiron/sqlx"
	"gorm.io/gorm"
)

// DemandRepository runs the reporting queries over favorite projections with sqlx
type DemandRepository struct {
	db *sqlx.DB
}

// NewDemandRepository shares the connection pool of the GORM handle
func NewDemandRepository(db *gorm.DB) (domain.DemandRepository, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB: %w", err)
	}
	return &DemandRepository{
		db: sqlx.NewDb(sqlDB, db.Dialector.Name()),
	}, nil
}

const demandQuery = `
SELECT i.%[1]s AS demand_key, COUNT(DISTINCT p.id) AS demand_count
FROM projection_items i
JOIN projections p ON p.id = i.projection_id
WHERE p.is_favorite = ? AND i.%[1]s <> '' %[2]s
GROUP BY i.%[1]s
ORDER BY demand_count DESC, demand_key ASC`

// DemandByCourse counts favorite projections per course code
func (r *DemandRepository) DemandByCourse(ctx context.Context, careerCode string) ([]domain.DemandEntry, error) {
	return r.demand(ctx, "course_code", careerCode)
}

// DemandBySection counts favorite projections per assigned section
func (r *DemandRepository) DemandBySection(ctx context.Context, careerCode string) ([]domain.DemandEntry, error) {
	return r.demand(ctx, "section_id", careerCode)
}

func (r *DemandRepository) demand(ctx context.Context, column, careerCode string) ([]domain.DemandEntry, error) {
	args := []interface{}{true}
	careerFilter := ""
	if careerCode != "" {
		careerFilter = "AND p.career_code = ?"
		args = append(args, careerCode)
	}

	query := r.db.Rebind(fmt.Sprintf(demandQuery, column, careerFilter))

	entries := []domain.DemandEntry{}
	if err := r.db.SelectContext(ctx, &entries, query, args...); err != nil {
		return nil, fmt.Errorf("failed to aggregate demand by %s: %w", column, err)
	}
	return entries, nil
}
