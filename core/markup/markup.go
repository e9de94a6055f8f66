package markup

import (
	htmlmd "github.com/JohannesKaufmann/html-to-markdown"
	"github.com/gomarkdown/markdown"
	mdhtml "github.com/gomarkdown/markdown/html"
	"github.com/gomarkdown/markdown/parser"
)

// HTMLToMarkdown converts a page body to Markdown for local editing.
func HTMLToMarkdown(body string) (string, error) {
	conv := htmlmd.NewConverter("", true, nil)
	return conv.ConvertString(body)
}

// MarkdownToHTML renders local Markdown back to HTML for upload.
func MarkdownToHTML(src string) string {
	p := parser.NewWithExtensions(parser.CommonExtensions)
	doc := p.Parse([]byte(src))
	renderer := mdhtml.NewRenderer(mdhtml.RendererOptions{Flags: mdhtml.CommonFlags})
	return string(markdown.Render(doc, renderer))
}
