package grading

import "testing"

func TestMaybeAWord(t *testing.T) {
	tests := []struct {
		word string
		want bool
	}{
		{"hello", true},
		{"distributed", true},
		{"a", false},     // ratio 1.0, below 1.5
		{"xyzzy", false}, // no vowels
		{"abc123", false},
		{"it's", false},
		{"aaaa", false},      // ratio 1.0
		{"strengths", false}, // one vowel in nine letters reads as mashing
	}
	for _, tt := range tests {
		t.Run(tt.word, func(t *testing.T) {
			if got := MaybeAWord(tt.word); got != tt.want {
				t.Errorf("MaybeAWord(%q) = %v, want %v", tt.word, got, tt.want)
			}
		})
	}
}

func TestCountWords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    int
	}{
		{name: "plain words", content: "the quick brown fox", want: 4},
		{name: "markup ignored", content: "<p>the quick <b>brown</b> fox</p>", want: 4},
		{name: "duplicates in one node counted once", content: "word word word", want: 1},
		{name: "vowelless mashing filtered", content: "zzz qqq tsktsk", want: 0},
		{name: "empty", content: "", want: 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CountWords(tt.content); got != tt.want {
				t.Errorf("CountWords(%q) = %d, want %d", tt.content, got, tt.want)
			}
		})
	}
}
