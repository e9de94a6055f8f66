package quiz

import "strings"

// Evolves decides whether candidate represents a genuinely different
// intermediate answer worth keeping. Events are walked newest-first, so base
// is always the more recent answer and candidate an older snapshot being
// considered for inclusion. Reversing the arguments changes the semantics.
//
// The raw log records every autosave, including ones where the student only
// finished typing a word. The heuristic is biased toward treating small
// incremental typing as noise while keeping substantive rewrites.
func Evolves(base, candidate interface{}) bool {
	baseText, bok := base.(string)
	candText, cok := candidate.(string)
	if !bok || !cok {
		// non-text answers are never collapsed
		return true
	}

	baseWords := wordSet(baseText)
	candWords := wordSet(candText)

	// naming is relative to reading candidate as a prior state of base
	added := minus(candWords, baseWords)
	removed := minus(baseWords, candWords)

	if len(added) == 0 {
		// no new vocabulary relative to base
		return false
	}
	if len(added) == 1 && len(removed) > 0 {
		// a single "new" word that looks like an interrupted typing of a
		// removed word is a truncation artifact, not a rewrite
		var w string
		for w = range added {
		}
		for r := range removed {
			if truncationOf(w, r) {
				return false
			}
		}
	}
	return true
}

// truncationOf reports whether w reads as a mid-typing snapshot of word:
// a strict prefix of it, or sharing a stem of at least two characters
// ("phi" against "photosynthesis"). One shared character is not a stem;
// "agree" and "disagree" share none and stay distinct.
func truncationOf(w, word string) bool {
	if len(w) < len(word) && strings.HasPrefix(word, w) {
		return true
	}
	return commonPrefixLen(w, word) >= 2
}

func commonPrefixLen(a, b string) int {
	n := 0
	for n < len(a) && n < len(b) && a[n] == b[n] {
		n++
	}
	return n
}

func wordSet(s string) map[string]struct{} {
	words := strings.Fields(s)
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

func minus(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{})
	for w := range a {
		if _, ok := b[w]; !ok {
			out[w] = struct{}{}
		}
	}
	return out
}
