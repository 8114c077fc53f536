package planning

import (
	"cmp"
	"slices"
)

// AssignSections binds each selected course to one offered section of term whose blocks do not
// overlap any section already chosen for an earlier course. Among a course's sections the one with
// more seats wins; equal seat counts keep catalog order. Courses without a conflict-free section
// stay selected with an empty SectionID. The input result is left untouched.
func AssignSections(result ProjectionResult, term string, catalog []OfferedSection) ProjectionResult {
	byCourse := make(map[string][]OfferedSection)
	for _, sec := range catalog {
		if sec.Term != term {
			continue
		}
		byCourse[sec.CourseCode] = append(byCourse[sec.CourseCode], sec)
	}

	out := ProjectionResult{
		Selection:    make([]SelectedCourse, len(result.Selection)),
		TotalCredits: result.TotalCredits,
		Rules:        result.Rules,
	}
	out.Rules.AvoidsConflicts = true
	out.Rules.Term = term

	var committed []TimeBlock
	for i, course := range result.Selection {
		course.SectionID = ""

		sections := slices.Clone(byCourse[course.Code])
		slices.SortStableFunc(sections, func(a, b OfferedSection) int {
			return cmp.Compare(b.Seats, a.Seats)
		})

		for _, sec := range sections {
			if AnyOverlap(committed, sec.Blocks) {
				continue
			}
			course.SectionID = sec.SectionID
			committed = append(committed, sec.Blocks...)
			break
		}
		out.Selection[i] = course
	}

	return out
}
