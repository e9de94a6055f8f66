package grading

import "testing"

func fp(f float64) *float64 { return &f }

func TestPointsToLetter(t *testing.T) {
	tests := []struct {
		name   string
		points *float64
		round  float64
		want   string
	}{
		{name: "no score", points: nil, want: "WU"},
		{name: "A+", points: fp(98.2), want: "A+"},
		{name: "A", points: fp(93), want: "A"},
		{name: "A- boundary", points: fp(90), want: "A-"},
		{name: "rounding bumps the band", points: fp(89.5), round: 0.5, want: "A-"},
		{name: "B", points: fp(85), want: "B"},
		{name: "C-", points: fp(70), want: "C-"},
		{name: "F", points: fp(42), want: "F"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := PointsToLetter(tt.points, tt.round); got != tt.want {
				t.Errorf("PointsToLetter() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestToPluses(t *testing.T) {
	levels := []float64{84, 90, 95}
	tests := []struct {
		grade float64
		want  string
	}{
		{80, ""},
		{84, "+"},
		{92, "++"},
		{97, "+++"},
	}
	for _, tt := range tests {
		if got := ToPluses(tt.grade, levels); got != tt.want {
			t.Errorf("ToPluses(%v) = %q, want %q", tt.grade, got, tt.want)
		}
	}
}

func TestAnalyzeMinGrade(t *testing.T) {
	byCategory := map[string][]CategoryScore{
		"Homework": {{Score: 40, Possible: 100}, {Score: 90, Possible: 100}},
		"Exams":    {{Score: 75, Possible: 100}},
	}
	weights := map[string]float64{"Homework": 40, "Exams": 60}

	got := AnalyzeMinGrade(byCategory, weights, 0.5)

	// as-is: HW 130/200 * 40 = 26, Exams 75/100 * 60 = 45
	if got.Total != 71 {
		t.Errorf("Total = %v, want 71", got.Total)
	}
	// floored: HW (50+90)/200 * 40 = 28, Exams unchanged
	if got.MinTotal != 73 {
		t.Errorf("MinTotal = %v, want 73", got.MinTotal)
	}
	if got.Letter != "C" || got.MinLetter != "C" {
		t.Errorf("letters = %q/%q, want C/C", got.Letter, got.MinLetter)
	}
}

func TestAnalyzeMinGradeZeroPossible(t *testing.T) {
	byCategory := map[string][]CategoryScore{
		"Extra": {{Score: 5, Possible: 0}},
	}
	weights := map[string]float64{"Extra": 10}

	got := AnalyzeMinGrade(byCategory, weights, 0.5)
	// zero possible counts as out of 100
	if got.Total != 0.5 {
		t.Errorf("Total = %v, want 0.5", got.Total)
	}
}
