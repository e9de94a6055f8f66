package grading

// letterBands maps a minimum percentage to its reported letter grade,
// checked top down.
var letterBands = []struct {
	Min    float64
	Letter string
}{
	{98, "A+"}, {92, "A"}, {90, "A-"},
	{88, "B+"}, {82, "B"}, {80, "B-"},
	{78, "C+"}, {72, "C"}, {70, "C-"},
	{68, "D+"}, {62, "D"}, {60, "D-"},
	{0, "F"},
}

// PointsToLetter converts a final score to a letter grade. round is added to
// the score first (instructor's rounding allowance). A nil score means the
// student was withdrawn/unreported.
func PointsToLetter(points *float64, round float64) string {
	if points == nil {
		return "WU"
	}
	p := *points + round
	for _, b := range letterBands {
		if p >= b.Min {
			return b.Letter
		}
	}
	return "F"
}

// ToLetterGrade is the coarse letter used by the what-if analysis.
func ToLetterGrade(score float64) string {
	switch {
	case score > 89:
		return "A"
	case score > 79:
		return "B"
	case score > 69:
		return "C"
	case score > 59:
		return "D"
	default:
		return "F"
	}
}

// ToPluses converts a score to a run of pluses, one per threshold reached.
func ToPluses(grade float64, levels []float64) string {
	pluses := ""
	for _, level := range levels {
		if grade >= level {
			pluses += "+"
		}
	}
	return pluses
}
