package domain

import (
	"time"

	"course-planner/internal/domain/planning"

	"gorm.io/datatypes"
)

// SavedProjection is a projection a student chose to keep
type SavedProjection struct {
	ID           string                `json:"id" gorm:"type:varchar(36);primaryKey"`
	StudentID    string                `json:"student_id" gorm:"not null;index"`
	CareerCode   string                `json:"career_code" gorm:"not null;index"`
	Catalog      string                `json:"catalog"`
	Name         string                `json:"name" gorm:"not null"`
	IsFavorite   bool                  `json:"is_favorite" gorm:"not null;default:false"`
	TotalCredits int                   `json:"total_credits" gorm:"not null"`
	CreditCap    float64               `json:"credit_cap" gorm:"not null"`
	Term         string                `json:"term,omitempty"`
	Items        []SavedProjectionItem `json:"items" gorm:"foreignKey:ProjectionID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time             `json:"created_at" gorm:"autoCreateTime"`
	UpdatedAt    time.Time             `json:"updated_at" gorm:"autoUpdateTime"`
}

func (SavedProjection) TableName() string {
	return "projections"
}

// SavedProjectionItem is one course of a saved projection, in selection order
type SavedProjectionItem struct {
	ID           uint   `json:"-" gorm:"primaryKey;autoIncrement"`
	ProjectionID string `json:"-" gorm:"type:varchar(36);not null;index"`
	Position     int    `json:"position" gorm:"not null"`
	CourseCode   string `json:"course_code" gorm:"not null;index"`
	Title        string `json:"title"`
	Credits      int    `json:"credits" gorm:"not null"`
	Level        int    `json:"level"`
	Reason       string `json:"reason"`
	SectionID    string `json:"section_id,omitempty"`
}

func (SavedProjectionItem) TableName() string {
	return "projection_items"
}

// Selection converts the stored items back to engine output
func (p *SavedProjection) Selection() []planning.SelectedCourse {
	out := make([]planning.SelectedCourse, len(p.Items))
	for i, it := range p.Items {
		out[i] = planning.SelectedCourse{
			Code:      it.CourseCode,
			Title:     it.Title,
			Credits:   it.Credits,
			Level:     it.Level,
			Reason:    planning.Reason(it.Reason),
			SectionID: it.SectionID,
		}
	}
	return out
}

// ItemsFromSelection converts engine output into storable items
func ItemsFromSelection(selection []planning.SelectedCourse) []SavedProjectionItem {
	items := make([]SavedProjectionItem, len(selection))
	for i, c := range selection {
		items[i] = SavedProjectionItem{
			Position:   i,
			CourseCode: c.Code,
			Title:      c.Title,
			Credits:    c.Credits,
			Level:      c.Level,
			Reason:     string(c.Reason),
			SectionID:  c.SectionID,
		}
	}
	return items
}

// OfferedSectionRecord is a stored timetable offering. Section ids are unique across terms.
type OfferedSectionRecord struct {
	SectionID    string                                  `json:"section_id" gorm:"primaryKey"`
	Term         string                                  `json:"term" gorm:"not null;index"`
	CourseCode   string                                  `json:"course_code" gorm:"not null;index"`
	SectionLabel string                                  `json:"section_label"`
	Seats        int                                     `json:"seats" gorm:"not null;default:0"`
	Blocks       datatypes.JSONSlice[planning.TimeBlock] `json:"blocks"`
	UpdatedAt    time.Time                               `json:"updated_at" gorm:"autoUpdateTime"`
}

func (OfferedSectionRecord) TableName() string {
	return "offered_sections"
}

// ToPlanning converts the record into the engine's section type
func (r OfferedSectionRecord) ToPlanning() planning.OfferedSection {
	blocks := []planning.TimeBlock(r.Blocks)
	if blocks == nil {
		blocks = []planning.TimeBlock{}
	}
	return planning.OfferedSection{
		Term:         r.Term,
		SectionID:    r.SectionID,
		CourseCode:   r.CourseCode,
		SectionLabel: r.SectionLabel,
		Seats:        r.Seats,
		Blocks:       blocks,
	}
}

// OfferedSectionFromPlanning converts an engine section into a storable record
func OfferedSectionFromPlanning(s planning.OfferedSection) OfferedSectionRecord {
	return OfferedSectionRecord{
		Term:         s.Term,
		SectionID:    s.SectionID,
		CourseCode:   s.CourseCode,
		SectionLabel: s.SectionLabel,
		Seats:        s.Seats,
		Blocks:       datatypes.JSONSlice[planning.TimeBlock](s.Blocks),
	}
}

// CurriculumBackup is the last known curriculum payload for a career version
type CurriculumBackup struct {
	CareerCode string         `json:"career_code" gorm:"primaryKey"`
	Catalog    string         `json:"catalog" gorm:"primaryKey"`
	Payload    datatypes.JSON `json:"payload"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (CurriculumBackup) TableName() string {
	return "curriculum_backups"
}

// HistoryBackup is the last known history payload for a student in a career
type HistoryBackup struct {
	StudentID  string         `json:"student_id" gorm:"primaryKey"`
	CareerCode string         `json:"career_code" gorm:"primaryKey"`
	Payload    datatypes.JSON `json:"payload"`
	UpdatedAt  time.Time      `json:"updated_at" gorm:"autoUpdateTime"`
}

func (HistoryBackup) TableName() string {
	return "history_backups"
}

// DemandEntry counts favorite projections containing a course or section
type DemandEntry struct {
	Key   string `json:"key" db:"demand_key"`
	Count int    `json:"count" db:"demand_count"`
}
