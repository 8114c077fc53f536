package service

import (
	"context"

	"course-planner/internal/domain/planning"
	domain "course-planner/internal/domain/projection"
)

// Request/Response types for the projection service
type GenerateRequest struct {
	StudentID     string   `json:"student_id" validate:"required"`
	CareerCode    string   `json:"career_code" validate:"required"`
	Catalog       string   `json:"catalog" validate:"required"`
	CreditCap     float64  `json:"credit_cap" validate:"omitempty,gt=0"`
	TargetLevel   int      `json:"target_level" validate:"omitempty,gte=1"`
	PriorityCodes []string `json:"priority_codes"`
}

// Constraints converts the request into engine constraints; a zero cap becomes defaultCap
func (r *GenerateRequest) Constraints(defaultCap float64) planning.SelectionConstraints {
	creditCap := r.CreditCap
	if creditCap == 0 {
		creditCap = defaultCap
	}
	return planning.SelectionConstraints{
		CreditCap:     creditCap,
		TargetLevel:   r.TargetLevel,
		PriorityCodes: r.PriorityCodes,
	}
}

type OptionsRequest struct {
	GenerateRequest
	MaxOptions int `json:"max_options" validate:"omitempty,gte=1,lte=20"`
}

type OptionsResponse struct {
	Options []planning.ProjectionResult `json:"options"`
}

type WithOfferRequest struct {
	GenerateRequest
	Term string `json:"term" validate:"required"`
}

type SaveRequest struct {
	GenerateRequest
	Name     string `json:"name" validate:"omitempty,max=120"`
	Favorite bool   `json:"favorite"`
	// Term, when set, assigns sections from that term's offer before saving
	Term string `json:"term"`
}

type SaveDirectRequest struct {
	StudentID  string                    `json:"student_id" validate:"required"`
	CareerCode string                    `json:"career_code" validate:"required"`
	Catalog    string                    `json:"catalog"`
	Name       string                    `json:"name" validate:"omitempty,max=120"`
	Favorite   bool                      `json:"favorite"`
	CreditCap  float64                   `json:"credit_cap" validate:"omitempty,gt=0"`
	Term       string                    `json:"term"`
	Items      []planning.SelectedCourse `json:"items" validate:"required"`
}

type FavoriteRequest struct {
	StudentID string `json:"student_id" validate:"required"`
}

type RenameRequest struct {
	StudentID string `json:"student_id" validate:"required"`
	Name      string `json:"name" validate:"required,max=120"`
}

type LoadOfferRequest struct {
	CSV string `json:"csv" validate:"required"`
}

type LoadOfferResponse struct {
	Rows    int   `json:"rows"`
	Upserts int64 `json:"upserts"`
}

// CurriculumItem is a curriculum row in the upstream curriculum service's shape
type CurriculumItem struct {
	Code          string  `json:"codigo" validate:"required"`
	Title         string  `json:"asignatura" validate:"required"`
	Credits       float64 `json:"creditos" validate:"gte=0"`
	Level         int     `json:"nivel" validate:"gte=0"`
	Prerequisites string  `json:"prereq"`
}

// HistoryItem is a history row in the upstream records service's shape
type HistoryItem struct {
	SectionID      string `json:"nrc"`
	Term           string `json:"period"`
	StudentID      string `json:"student"`
	CourseCode     string `json:"course" validate:"required"`
	Excluded       bool   `json:"excluded"`
	EnrollmentType string `json:"inscriptionType"`
	Status         string `json:"status" validate:"required"`
}

type CurriculumBackupRequest struct {
	CareerCode string           `json:"career_code" validate:"required"`
	Catalog    string           `json:"catalog" validate:"required"`
	CSV        string           `json:"csv"`
	Items      []CurriculumItem `json:"items" validate:"omitempty,dive"`
}

type HistoryBackupRequest struct {
	StudentID  string        `json:"student_id" validate:"required"`
	CareerCode string        `json:"career_code" validate:"required"`
	CSV        string        `json:"csv"`
	Items      []HistoryItem `json:"items" validate:"omitempty,dive"`
}

type RefreshReport struct {
	Refreshed []string          `json:"refreshed"`
	Failed    map[string]string `json:"failed,omitempty"`
}

type ProjectionService interface {
	Generate(ctx context.Context, req *GenerateRequest) (*planning.ProjectionResult, error)
	GenerateOptions(ctx context.Context, req *OptionsRequest) (*OptionsResponse, error)
	GenerateWithOffer(ctx context.Context, req *WithOfferRequest) (*planning.ProjectionResult, error)

	Save(ctx context.Context, req *SaveRequest, idempotencyKey string) (*domain.SavedProjection, error)
	SaveDirect(ctx context.Context, req *SaveDirectRequest) (*domain.SavedProjection, error)
	List(ctx context.Context, studentID string) ([]*domain.SavedProjection, error)
	SetFavorite(ctx context.Context, studentID, id string) error
	Rename(ctx context.Context, studentID, id, name string) error
	Delete(ctx context.Context, studentID, id string) error

	Demand(ctx context.Context, careerCode string, bySection bool) ([]domain.DemandEntry, error)
	DemandWorkbook(ctx context.Context, careerCode string, bySection bool) ([]byte, error)
}

type OfferService interface {
	LoadCSV(ctx context.Context, csv string) (*LoadOfferResponse, error)
	List(ctx context.Context, courseCode, term string) ([]planning.OfferedSection, error)
}

type BackupService interface {
	LoadCurriculum(ctx context.Context, req *CurriculumBackupRequest) (int, error)
	GetCurriculum(ctx context.Context, careerCode, catalog string) (any, error)
	LoadHistory(ctx context.Context, req *HistoryBackupRequest) (int, error)
	GetHistory(ctx context.Context, studentID, careerCode string) (any, error)
	Refresh(ctx context.Context) (*RefreshReport, error)
}
