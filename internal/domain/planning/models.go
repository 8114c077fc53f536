package planning

import (
	"math"
	"strings"
)

// DefaultCreditCap is applied when the caller's cap is missing, non-finite or not positive
const DefaultCreditCap = 22.0

// DefaultMaxOptions bounds BuildOptions when the caller asks for zero or fewer options
const DefaultMaxOptions = 5

// History statuses interpreted by the engine
const (
	StatusApproved = "APPROVED"
	StatusFailed   = "FAILED"
	StatusEnrolled = "ENROLLED"
)

// Reason explains why a course was selected
type Reason string

const (
	ReasonFailed  Reason = "FAILED"
	ReasonPending Reason = "PENDING"
)

// CourseDefinition is one course of a curriculum version
type CourseDefinition struct {
	Code          string `json:"code"`
	Title         string `json:"title"`
	Credits       int    `json:"credits"`
	Level         int    `json:"level"`
	Prerequisites string `json:"prerequisites"`
}

// PrerequisiteCodes splits the comma-separated prerequisite expression, dropping blanks
func (c CourseDefinition) PrerequisiteCodes() []string {
	var codes []string
	for _, part := range strings.Split(c.Prerequisites, ",") {
		if code := strings.TrimSpace(part); code != "" {
			codes = append(codes, code)
		}
	}
	return codes
}

// HistoryRecord is one enrollment outcome from a student's academic history
type HistoryRecord struct {
	CourseCode     string `json:"course_code"`
	Status         string `json:"status"`
	Term           string `json:"term"`
	SectionID      string `json:"section_id"`
	StudentID      string `json:"student_id"`
	EnrollmentType string `json:"enrollment_type"`
	Excluded       bool   `json:"excluded"`
}

// SelectionConstraints bounds a projection
type SelectionConstraints struct {
	CreditCap     float64  `json:"credit_cap"`
	TargetLevel   int      `json:"target_level,omitempty"`
	PriorityCodes []string `json:"priority_codes,omitempty"`
}

// EffectiveCap returns the cap the engine actually applies
func (c SelectionConstraints) EffectiveCap() float64 {
	if math.IsNaN(c.CreditCap) || math.IsInf(c.CreditCap, 0) || c.CreditCap <= 0 {
		return DefaultCreditCap
	}
	return c.CreditCap
}

// Priorities returns the trimmed, de-duplicated, non-blank priority codes in supplied order
func (c SelectionConstraints) Priorities() []string {
	seen := make(map[string]struct{}, len(c.PriorityCodes))
	out := make([]string, 0, len(c.PriorityCodes))
	for _, raw := range c.PriorityCodes {
		code := strings.TrimSpace(raw)
		if code == "" {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		out = append(out, code)
	}
	return out
}

// SelectedCourse is one course of a projection
type SelectedCourse struct {
	Code      string `json:"code"`
	Title     string `json:"title"`
	Credits   int    `json:"credits"`
	Level     int    `json:"level"`
	Reason    Reason `json:"reason"`
	SectionID string `json:"section_id,omitempty"`
}

// Rules echoes the rule set a projection was built with
type Rules struct {
	CreditCap           float64 `json:"credit_cap"`
	PrioritizesFailed   bool    `json:"prioritizes_failed"`
	ChecksPrerequisites bool    `json:"checks_prerequisites"`
	AvoidsConflicts     bool    `json:"avoids_conflicts,omitempty"`
	Term                string  `json:"term,omitempty"`
}

// ProjectionResult is an ordered, credit-capped selection
type ProjectionResult struct {
	Selection    []SelectedCourse `json:"selection"`
	TotalCredits int              `json:"total_credits"`
	Rules        Rules            `json:"rules"`
}

// Codes returns the selected course codes in selection order
func (r ProjectionResult) Codes() []string {
	return selectionCodes(r.Selection)
}

// OfferedSection is a concrete timetabled offering of a course in one term
type OfferedSection struct {
	Term         string      `json:"term"`
	SectionID    string      `json:"section_id"`
	CourseCode   string      `json:"course_code"`
	SectionLabel string      `json:"section_label"`
	Seats        int         `json:"seats"`
	Blocks       []TimeBlock `json:"blocks"`
}
