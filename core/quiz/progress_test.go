package quiz

import "testing"

func TestEvolves(t *testing.T) {
	tests := []struct {
		name      string
		base      interface{}
		candidate interface{}
		want      bool
	}{
		{name: "identical text", base: "the cat sat", candidate: "the cat sat", want: false},
		{name: "empty candidate", base: "the cat sat", candidate: "", want: false},
		{name: "empty base", base: "", candidate: "the cat sat", want: true},
		{name: "both empty", base: "", candidate: "", want: false},
		{name: "reordered words only", base: "sat the cat", candidate: "the cat sat", want: false},
		{name: "mid-word autosave", base: "the cat sat", candidate: "the ca sat", want: false},
		{name: "single truncated word", base: "photosynthesis", candidate: "photo", want: false},
		{name: "real rewrite", base: "I disagree because X", candidate: "I agree because X", want: true},
		{name: "added word is not a prefix", base: "the cat sat", candidate: "the dog sat", want: true},
		{name: "one new word nothing removed", base: "the cat", candidate: "the cat purred", want: true},
		{name: "two new words", base: "the cat sat", candidate: "a feline sat", want: true},
		{name: "shared stem with dropped suffix", base: "the cat sat", candidate: "the cats sat", want: false},
		{name: "misspelled stem of final word", base: "photosynthesis is great", candidate: "phi", want: false},
		{name: "single shared character is no stem", base: "the cat sat", candidate: "the cow sat", want: true},
		{name: "non-string base", base: 7, candidate: "anything", want: true},
		{name: "non-string candidate", base: "anything", candidate: []string{"a"}, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Evolves(tt.base, tt.candidate); got != tt.want {
				t.Errorf("Evolves(%v, %v) = %v, want %v", tt.base, tt.candidate, got, tt.want)
			}
		})
	}
}
