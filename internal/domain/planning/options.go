package planning

import "slices"

// BuildOptions returns the primary projection followed by alternatives: first one variant per
// primary course with that course left out, then one variant per priority code forced to the front.
// No two returned projections share the same ordered code sequence.
func BuildOptions(curriculum []CourseDefinition, history []HistoryRecord, constraints SelectionConstraints, maxOptions int) []ProjectionResult {
	if maxOptions <= 0 {
		maxOptions = DefaultMaxOptions
	}

	primary := Build(curriculum, history, constraints)
	options := []ProjectionResult{primary}

	creditCap := constraints.EffectiveCap()
	candidates := rankCandidates(curriculum, history, constraints)

	seen := func(codes []string) bool {
		for _, opt := range options {
			if slices.Equal(opt.Codes(), codes) {
				return true
			}
		}
		return false
	}

	for _, omitted := range primary.Selection {
		if len(options) >= maxOptions {
			return options
		}
		picked, total := fill(candidates, creditCap, omitted.Code, nil, 0)
		if len(picked) == 0 || seen(selectionCodes(picked)) {
			continue
		}
		options = append(options, ProjectionResult{
			Selection:    picked,
			TotalCredits: total,
			Rules:        primary.Rules,
		})
	}

	inPrimary := codeSet{}
	for _, c := range primary.Selection {
		inPrimary[c.Code] = struct{}{}
	}

	for _, code := range constraints.Priorities() {
		if len(options) >= maxOptions {
			break
		}
		if inPrimary.has(code) {
			continue
		}
		forced, ok := findCandidate(candidates, code)
		if !ok || float64(forced.course.Credits) > creditCap {
			continue
		}

		picked, total := fill(candidates, creditCap, code, []SelectedCourse{forced.course}, forced.course.Credits)
		if seen(selectionCodes(picked)) {
			continue
		}
		options = append(options, ProjectionResult{
			Selection:    picked,
			TotalCredits: total,
			Rules:        primary.Rules,
		})
	}

	return options
}

func findCandidate(candidates []candidate, code string) (candidate, bool) {
	for _, c := range candidates {
		if c.course.Code == code {
			return c, true
		}
	}
	return candidate{}, false
}

func selectionCodes(selection []SelectedCourse) []string {
	codes := make([]string, len(selection))
	for i, c := range selection {
		codes[i] = c.Code
	}
	return codes
}
