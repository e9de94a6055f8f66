package grading

// CategoryScore is one assignment's score within a weighted category.
type CategoryScore struct {
	Score    float64
	Possible float64
}

// MinGradeOutcome is the what-if result for one student: the weighted class
// score as recorded and with the minimum-score floor applied.
type MinGradeOutcome struct {
	Total     float64
	MinTotal  float64
	Letter    string
	MinLetter string
}

// AnalyzeMinGrade computes the weighted class score twice: as-is, and with
// every assignment score floored at minFrac of its possible points. Weights
// are the category group weights (percent); categories with a zero possible
// total are treated as out of 100.
func AnalyzeMinGrade(byCategory map[string][]CategoryScore, weights map[string]float64, minFrac float64) MinGradeOutcome {
	var total, minTotal float64
	for cat, scores := range byCategory {
		var catTotal, minCatTotal, catPossible float64
		for _, s := range scores {
			catTotal += s.Score
			floored := s.Score
			if s.Possible != 0 && s.Score < s.Possible*minFrac {
				floored = s.Possible * minFrac
			}
			minCatTotal += floored
			catPossible += s.Possible
		}
		if catPossible == 0 {
			catPossible = 100
		}
		total += catTotal / catPossible * weights[cat]
		minTotal += minCatTotal / catPossible * weights[cat]
	}
	return MinGradeOutcome{
		Total:     total,
		MinTotal:  minTotal,
		Letter:    ToLetterGrade(total),
		MinLetter: ToLetterGrade(minTotal),
	}
}
