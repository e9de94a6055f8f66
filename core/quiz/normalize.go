package quiz

import (
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

var newlineRe = regexp.MustCompile(`[\r\n]+`)

// NormalizeAnswer strips markup and formatting noise from a raw answer
// payload so that two saves of the same answer compare equal. Non-string
// payloads (matching questions, numeric answers, ...) pass through unchanged.
func NormalizeAnswer(raw interface{}) interface{} {
	s, ok := raw.(string)
	if !ok {
		return raw
	}
	s = strings.ReplaceAll(s, "&nbsp;", "")
	s = stripTags(s)
	s = strings.TrimSpace(s)
	s = newlineRe.ReplaceAllString(s, " ")
	return s
}

// stripTags treats s as HTML and keeps only its text nodes, concatenated in
// document order with no separator.
func stripTags(s string) string {
	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	for {
		switch z.Next() {
		case html.ErrorToken:
			return b.String()
		case html.TextToken:
			b.Write(z.Text())
		}
	}
}
