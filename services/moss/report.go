package moss

import (
	"os"
	"sort"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"
)

// Match is one pairwise similarity score between two submissions.
type Match struct {
	A, B  string
	Ratio float64
}

// LocalReport compares every pair of submissions line-by-line and returns
// matches at or above threshold, most similar first. It is a fallback for
// when the MOSS service is unreachable; names maps display name to file path.
func LocalReport(names map[string]string, threshold float64) ([]Match, error) {
	lines := make(map[string][]string, len(names))
	keys := make([]string, 0, len(names))
	for name, path := range names {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "reading %s", path)
		}
		lines[name] = difflib.SplitLines(string(data))
		keys = append(keys, name)
	}
	sort.Strings(keys)

	var matches []Match
	for i := 0; i < len(keys); i++ {
		for j := i + 1; j < len(keys); j++ {
			m := difflib.NewMatcher(lines[keys[i]], lines[keys[j]])
			if r := m.Ratio(); r >= threshold {
				matches = append(matches, Match{A: keys[i], B: keys[j], Ratio: r})
			}
		}
	}
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].Ratio != matches[j].Ratio {
			return matches[i].Ratio > matches[j].Ratio
		}
		return matches[i].A+matches[i].B < matches[j].A+matches[j].B
	})
	return matches, nil
}
