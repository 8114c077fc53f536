package planning

import "testing"

func TestToMinutes(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"00:00", 0},
		{"01:30", 90},
		{"08:05", 8*60 + 5},
		{"23:59", 23*60 + 59},
		{"9", 540},
		{"", 0},
		{"xx:15", 15},
		{"10:yy", 600},
	}

	for _, tt := range tests {
		if got := ToMinutes(tt.in); got != tt.want {
			t.Errorf("ToMinutes(%q): expected %d, got %d", tt.in, tt.want, got)
		}
	}
}

func TestOverlap(t *testing.T) {
	a := TimeBlock{Day: Monday, Start: "08:00", End: "09:20"}

	tests := []struct {
		name string
		b    TimeBlock
		want bool
	}{
		{"partial overlap same day", TimeBlock{Day: Monday, Start: "09:10", End: "10:00"}, true},
		{"touching boundary", TimeBlock{Day: Monday, Start: "09:20", End: "10:00"}, false},
		{"different day", TimeBlock{Day: Tuesday, Start: "08:00", End: "09:20"}, false},
		{"contained", TimeBlock{Day: Monday, Start: "08:30", End: "09:00"}, true},
		{"identical", a, true},
		{"ends when a starts", TimeBlock{Day: Monday, Start: "07:00", End: "08:00"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Overlap(a, tt.b); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
			if got := Overlap(tt.b, a); got != tt.want {
				t.Errorf("Expected symmetric result %v, got %v", tt.want, got)
			}
		})
	}
}

func TestAnyOverlap(t *testing.T) {
	slotsA := []TimeBlock{
		{Day: Monday, Start: "08:00", End: "09:20"},
		{Day: Wednesday, Start: "08:00", End: "09:20"},
	}
	slotsB := []TimeBlock{{Day: Monday, Start: "09:10", End: "10:00"}}
	slotsC := []TimeBlock{{Day: Thursday, Start: "09:10", End: "10:00"}}

	if !AnyOverlap(slotsA, slotsB) {
		t.Error("Expected overlap between slotsA and slotsB")
	}
	if AnyOverlap(slotsA, slotsC) {
		t.Error("Expected no overlap between slotsA and slotsC")
	}
	if AnyOverlap(nil, slotsA) {
		t.Error("Expected no overlap against an empty list")
	}
}

func TestParseDay(t *testing.T) {
	tests := map[string]Day{
		"LU":   Monday,
		"ma":   Tuesday,
		" MI ": Wednesday,
		"JU":   Thursday,
		"VI":   Friday,
		"SA":   Saturday,
		"MON":  Monday,
		"sat":  Saturday,
	}
	for in, want := range tests {
		if got := ParseDay(in); got != want {
			t.Errorf("ParseDay(%q): expected %s, got %s", in, want, got)
		}
	}

	if ParseDay("DO").Valid() {
		t.Error("Expected DO to be outside the teaching week")
	}
}
