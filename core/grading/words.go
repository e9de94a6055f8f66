package grading

import (
	"math"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var wordRe = regexp.MustCompile(`\w+`)

// MaybeAWord guesses whether word is a real word: letters only, and a
// letters-to-vowels ratio in a plausible range. Filters out keyboard mashing
// in low-effort discussion posts.
func MaybeAWord(word string) bool {
	for _, r := range word {
		if !isAlpha(r) {
			return false
		}
	}
	word = strings.ToLower(strings.TrimSpace(word))
	vowels := 0
	for _, r := range word {
		if strings.ContainsRune("aeiou", r) {
			vowels++
		}
	}
	if vowels == 0 {
		return false
	}
	ratio := math.Round(float64(len(word))/float64(vowels)*10) / 10
	return 1.5 <= ratio && ratio <= 8.0
}

// CountWords counts the distinct plausible words in each text node of an
// HTML fragment.
func CountWords(content string) int {
	count := 0
	z := html.NewTokenizer(strings.NewReader(content))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return count
		case html.TextToken:
			seen := make(map[string]bool)
			for _, w := range wordRe.FindAllString(string(z.Text()), -1) {
				if MaybeAWord(w) {
					seen[w] = true
				}
			}
			count += len(seen)
		}
	}
}

func isAlpha(r rune) bool {
	return r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z'
}
