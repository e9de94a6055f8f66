package quiz

import (
	"strings"
	"testing"
)

func TestNormalizeAnswer(t *testing.T) {
	tests := []struct {
		name string
		raw  interface{}
		want interface{}
	}{
		{name: "plain text", raw: "hello world", want: "hello world"},
		{name: "nbsp removed", raw: "hello&nbsp;world", want: "helloworld"},
		{name: "tags stripped", raw: "<p>hello <b>world</b></p>", want: "hello world"},
		{name: "nested tags", raw: "<div><span>a</span><span>b</span></div>", want: "ab"},
		{name: "surrounding whitespace", raw: "  padded  ", want: "padded"},
		{name: "newlines collapsed", raw: "line one\nline two", want: "line one line two"},
		{name: "crlf collapsed to one space", raw: "line one\r\nline two", want: "line one line two"},
		{name: "trailing newline trimmed", raw: "<p>answer</p>\n", want: "answer"},
		{name: "empty string", raw: "", want: ""},
		{name: "non-string passes through", raw: 42, want: 42},
		{name: "nil passes through", raw: nil, want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeAnswer(tt.raw); got != tt.want {
				t.Errorf("NormalizeAnswer() = %#v, want %#v", got, tt.want)
			}
		})
	}
}

func TestNormalizeAnswerLeavesNoMarkup(t *testing.T) {
	raws := []string{
		"<p>one&nbsp;two</p>",
		"<ul><li>a</li><li>b</li></ul>",
		"text with a &lt;literal&gt; bracket",
		"<a href=\"https://example.com?a=1&b=2\">link</a>",
	}
	for _, raw := range raws {
		got, ok := NormalizeAnswer(raw).(string)
		if !ok {
			t.Fatalf("NormalizeAnswer(%q) did not return a string", raw)
		}
		if strings.Contains(got, "&nbsp;") {
			t.Errorf("NormalizeAnswer(%q) = %q, contains &nbsp;", raw, got)
		}
		for _, frag := range []string{"<p>", "</p>", "<li>", "<a ", "href"} {
			if strings.Contains(got, frag) {
				t.Errorf("NormalizeAnswer(%q) = %q, contains tag fragment %q", raw, got, frag)
			}
		}
	}
}
