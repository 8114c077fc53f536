package planning

import (
	"strconv"
	"strings"
)

// Day is a weekday code for a recurring time block
type Day string

const (
	Monday    Day = "MON"
	Tuesday   Day = "TUE"
	Wednesday Day = "WED"
	Thursday  Day = "THU"
	Friday    Day = "FRI"
	Saturday  Day = "SAT"
)

var dayAliases = map[string]Day{
	"MON": Monday, "LU": Monday,
	"TUE": Tuesday, "MA": Tuesday,
	"WED": Wednesday, "MI": Wednesday,
	"THU": Thursday, "JU": Thursday,
	"FRI": Friday, "VI": Friday,
	"SAT": Saturday, "SA": Saturday,
}

// ParseDay maps English or upstream Spanish day codes onto a Day.
// Unknown codes are kept verbatim (upper-cased) so equal codes still compare equal.
func ParseDay(raw string) Day {
	code := strings.ToUpper(strings.TrimSpace(raw))
	if day, ok := dayAliases[code]; ok {
		return day
	}
	return Day(code)
}

// Valid reports whether d is one of the six teaching days
func (d Day) Valid() bool {
	switch d {
	case Monday, Tuesday, Wednesday, Thursday, Friday, Saturday:
		return true
	}
	return false
}

// TimeBlock is a weekly recurring block such as MON 08:00-09:20
type TimeBlock struct {
	Day   Day    `json:"day"`
	Start string `json:"start"`
	End   string `json:"end"`
	Room  string `json:"room,omitempty"`
}

// ToMinutes parses "HH:MM" into minutes since midnight.
// Missing or malformed components count as 0.
func ToMinutes(hhmm string) int {
	parts := strings.Split(hhmm, ":")
	hours := atoiOrZero(parts[0])
	minutes := 0
	if len(parts) > 1 {
		minutes = atoiOrZero(parts[1])
	}
	return hours*60 + minutes
}

func atoiOrZero(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Overlap reports whether two blocks intersect as half-open intervals on the same day.
// Blocks that only touch (one ends when the other starts) do not overlap.
func Overlap(a, b TimeBlock) bool {
	if a.Day != b.Day {
		return false
	}
	aStart, aEnd := ToMinutes(a.Start), ToMinutes(a.End)
	bStart, bEnd := ToMinutes(b.Start), ToMinutes(b.End)
	return aStart < bEnd && bStart < aEnd
}

// AnyOverlap reports whether any block of as overlaps any block of bs
func AnyOverlap(as, bs []TimeBlock) bool {
	for _, a := range as {
		for _, b := range bs {
			if Overlap(a, b) {
				return true
			}
		}
	}
	return false
}
