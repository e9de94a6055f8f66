package core

import (
	"regexp"
	"strings"
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// Course names like "Spring2024: CS249 Distributed Computing" get shortened
// to "Spring2024:CS249" for labels and subject lines.
const (
	CourseNameMatcher   = `((\S*): (\S+)\s.*)`
	CourseNameFormatter = `$2:$3`
)

// FormatCourseName rewrites name with the matcher/formatter regexp pair.
// A formatter of "-" turns formatting off.
func FormatCourseName(name, matcher, formatter string) string {
	if formatter == "-" {
		return name
	}
	re, err := regexp.Compile(matcher)
	if err != nil {
		return name
	}
	return re.ReplaceAllString(name, formatter)
}

// Sanitize escapes semicolons, tabs, and newlines for single-line records.
func Sanitize(name string) string {
	r := strings.NewReplacer(";", ",", "\n", `\n`, "\t", `\t`)
	return r.Replace(name)
}

// BaseURL strips query params off; the same resource shows up with different
// params in different places.
func BaseURL(url string) string {
	if i := strings.IndexByte(url, '?'); i >= 0 {
		return url[:i]
	}
	return url
}
