package planning

import (
	"encoding/json"
	"math"
	"strings"

	"github.com/spf13/cast"
)

var statusAliases = map[string]string{
	"APPROVED":  StatusApproved,
	"APROBADO":  StatusApproved,
	"FAILED":    StatusFailed,
	"REPROBADO": StatusFailed,
	"ENROLLED":  StatusEnrolled,
	"INSCRITO":  StatusEnrolled,
}

// NormalizeStatus maps upstream status spellings onto the engine's statuses.
// Unknown statuses pass through trimmed.
func NormalizeStatus(raw string) string {
	status := strings.TrimSpace(raw)
	if known, ok := statusAliases[strings.ToUpper(status)]; ok {
		return known
	}
	return status
}

// ParseCurriculum converts an untrusted decoded JSON value into course definitions.
// Anything that is not a list yields an empty curriculum.
func ParseCurriculum(raw any) []CourseDefinition {
	items, ok := raw.([]any)
	if !ok {
		return []CourseDefinition{}
	}
	out := make([]CourseDefinition, 0, len(items))
	for _, item := range items {
		obj := asObject(item)
		out = append(out, CourseDefinition{
			Code:          coerceString(field(obj, "code", "codigo")),
			Title:         coerceString(field(obj, "title", "asignatura")),
			Credits:       coerceInt(field(obj, "credits", "creditos")),
			Level:         coerceInt(field(obj, "level", "nivel")),
			Prerequisites: coerceString(field(obj, "prerequisites", "prereq")),
		})
	}
	return out
}

// ParseHistory converts an untrusted decoded JSON value into history records.
// Error objects such as {"error": "..."} yield an empty history.
func ParseHistory(raw any) []HistoryRecord {
	items, ok := raw.([]any)
	if !ok {
		return []HistoryRecord{}
	}
	out := make([]HistoryRecord, 0, len(items))
	for _, item := range items {
		obj := asObject(item)
		out = append(out, HistoryRecord{
			CourseCode:     coerceString(field(obj, "course_code", "course")),
			Status:         NormalizeStatus(coerceString(field(obj, "status"))),
			Term:           coerceString(field(obj, "term", "period")),
			SectionID:      coerceString(field(obj, "section_id", "nrc")),
			StudentID:      coerceString(field(obj, "student_id", "student")),
			EnrollmentType: coerceString(field(obj, "enrollment_type", "inscriptionType")),
			Excluded:       coerceBool(field(obj, "excluded")),
		})
	}
	return out
}

// ParseOfferedSections converts an untrusted decoded JSON value into offered sections
func ParseOfferedSections(raw any) []OfferedSection {
	items, ok := raw.([]any)
	if !ok {
		return []OfferedSection{}
	}
	out := make([]OfferedSection, 0, len(items))
	for _, item := range items {
		obj := asObject(item)
		sec := OfferedSection{
			Term:         coerceString(field(obj, "term", "period")),
			SectionID:    coerceString(field(obj, "section_id", "nrc")),
			CourseCode:   coerceString(field(obj, "course_code", "course")),
			SectionLabel: coerceString(field(obj, "section_label", "codigoParalelo")),
			Seats:        coerceInt(field(obj, "seats", "cupos")),
			Blocks:       []TimeBlock{},
		}
		if blocks, ok := field(obj, "blocks", "slots").([]any); ok {
			for _, b := range blocks {
				bo := asObject(b)
				sec.Blocks = append(sec.Blocks, TimeBlock{
					Day:   ParseDay(coerceString(field(bo, "day", "dia"))),
					Start: coerceString(field(bo, "start", "inicio")),
					End:   coerceString(field(bo, "end", "fin")),
					Room:  coerceString(field(bo, "room", "sala")),
				})
			}
		}
		out = append(out, sec)
	}
	return out
}

func asObject(v any) map[string]any {
	if obj, ok := v.(map[string]any); ok {
		return obj
	}
	return map[string]any{}
}

// field returns the first key present in obj
func field(obj map[string]any, keys ...string) any {
	for _, k := range keys {
		if v, ok := obj[k]; ok && v != nil {
			return v
		}
	}
	return nil
}

func coerceString(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return ""
		}
		return cast.ToString(x)
	case json.Number, int, int64:
		return cast.ToString(x)
	}
	return ""
}

func coerceNumber(v any) float64 {
	switch x := v.(type) {
	case float64:
		if math.IsNaN(x) || math.IsInf(x, 0) {
			return 0
		}
		return x
	case int, int64, json.Number:
		return cast.ToFloat64(x)
	case string:
		s := strings.TrimSpace(x)
		if s == "" {
			return 0
		}
		n, err := cast.ToFloat64E(s)
		if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
			return 0
		}
		return n
	}
	return 0
}

// coerceInt truncates toward zero, saturating at the int range
func coerceInt(v any) int {
	n := coerceNumber(v)
	switch {
	case n >= float64(math.MaxInt):
		return math.MaxInt
	case n <= float64(math.MinInt):
		return math.MinInt
	}
	return int(n)
}

func coerceBool(v any) bool {
	switch x := v.(type) {
	case bool:
		return x
	case string:
		return x == "true"
	}
	return false
}
