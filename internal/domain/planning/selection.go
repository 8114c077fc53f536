package planning

import (
	"cmp"
	"slices"
)

// Ranking tiers, lowest first
const (
	rankFailed   = 0
	rankBacklog  = 1
	rankPriority = 2
	rankRest     = 3
)

// candidate is a ranked course eligible for selection. The rank never leaves this package.
type candidate struct {
	course SelectedCourse
	rank   int
}

type codeSet map[string]struct{}

func (s codeSet) has(code string) bool {
	_, ok := s[code]
	return ok
}

// standing holds the sets derived from a student's full history scan.
// A code may be in both sets; no attempt is made to pick the latest status.
type standing struct {
	approved codeSet
	failed   codeSet
}

func newStanding(history []HistoryRecord) standing {
	st := standing{approved: codeSet{}, failed: codeSet{}}
	for _, rec := range history {
		switch rec.Status {
		case StatusApproved:
			st.approved[rec.CourseCode] = struct{}{}
		case StatusFailed:
			st.failed[rec.CourseCode] = struct{}{}
		}
	}
	return st
}

func (st standing) prerequisitesMet(course CourseDefinition) bool {
	for _, code := range course.PrerequisiteCodes() {
		if !st.approved.has(code) {
			return false
		}
	}
	return true
}

// rankCandidates returns the eligible pending courses sorted by
// rank asc, level asc, credits desc. Ties keep curriculum order.
func rankCandidates(curriculum []CourseDefinition, history []HistoryRecord, constraints SelectionConstraints) []candidate {
	st := newStanding(history)

	priorities := codeSet{}
	for _, code := range constraints.Priorities() {
		priorities[code] = struct{}{}
	}

	candidates := make([]candidate, 0, len(curriculum))
	for _, course := range curriculum {
		if st.approved.has(course.Code) {
			continue
		}
		failed := st.failed.has(course.Code)
		if !failed && !st.prerequisitesMet(course) {
			continue
		}

		rank := rankRest
		switch {
		case failed:
			rank = rankFailed
		case constraints.TargetLevel > 0 && course.Level < constraints.TargetLevel:
			rank = rankBacklog
		case priorities.has(course.Code):
			rank = rankPriority
		}

		reason := ReasonPending
		if rank == rankFailed {
			reason = ReasonFailed
		}

		candidates = append(candidates, candidate{
			course: SelectedCourse{
				Code:    course.Code,
				Title:   course.Title,
				Credits: course.Credits,
				Level:   course.Level,
				Reason:  reason,
			},
			rank: rank,
		})
	}

	slices.SortStableFunc(candidates, func(a, b candidate) int {
		if a.rank != b.rank {
			return cmp.Compare(a.rank, b.rank)
		}
		if a.course.Level != b.course.Level {
			return cmp.Compare(a.course.Level, b.course.Level)
		}
		return cmp.Compare(b.course.Credits, a.course.Credits)
	})

	return candidates
}

// fill greedily appends candidates to picked while the running total stays within creditCap.
// The scan stops as soon as the total reaches the cap. Candidates whose code equals skip are ignored.
func fill(candidates []candidate, creditCap float64, skip string, picked []SelectedCourse, total int) ([]SelectedCourse, int) {
	for _, c := range candidates {
		if skip != "" && c.course.Code == skip {
			continue
		}
		if float64(total+c.course.Credits) <= creditCap {
			picked = append(picked, c.course)
			total += c.course.Credits
		}
		if float64(total) >= creditCap {
			break
		}
	}
	return picked, total
}

func baseRules(creditCap float64) Rules {
	return Rules{
		CreditCap:           creditCap,
		PrioritizesFailed:   true,
		ChecksPrerequisites: true,
	}
}

// Build computes the primary projection: failed courses first, then backlog below the target level,
// then declared priorities, then the rest, packed greedily under the credit cap.
func Build(curriculum []CourseDefinition, history []HistoryRecord, constraints SelectionConstraints) ProjectionResult {
	creditCap := constraints.EffectiveCap()
	candidates := rankCandidates(curriculum, history, constraints)

	selection, total := fill(candidates, creditCap, "", make([]SelectedCourse, 0, len(candidates)), 0)

	return ProjectionResult{
		Selection:    selection,
		TotalCredits: total,
		Rules:        baseRules(creditCap),
	}
}
