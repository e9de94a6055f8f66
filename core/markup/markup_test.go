package markup

import (
	"strings"
	"testing"
)

func TestMarkdownToHTML(t *testing.T) {
	got := MarkdownToHTML("# Title\n\nsome *emphasis* here")
	for _, want := range []string{"<h1", "Title", "<em>emphasis</em>"} {
		if !strings.Contains(got, want) {
			t.Errorf("MarkdownToHTML() = %q, missing %q", got, want)
		}
	}
}

func TestHTMLToMarkdown(t *testing.T) {
	got, err := HTMLToMarkdown("<h2>Syllabus</h2><p>read <strong>chapter one</strong></p>")
	if err != nil {
		t.Fatalf("HTMLToMarkdown() error = %v", err)
	}
	for _, want := range []string{"## Syllabus", "**chapter one**"} {
		if !strings.Contains(got, want) {
			t.Errorf("HTMLToMarkdown() = %q, missing %q", got, want)
		}
	}
}

func TestRoundTripKeepsText(t *testing.T) {
	src := "plain paragraph text"
	md, err := HTMLToMarkdown(MarkdownToHTML(src))
	if err != nil {
		t.Fatalf("round trip error = %v", err)
	}
	if !strings.Contains(md, src) {
		t.Errorf("round trip lost text: %q", md)
	}
}
