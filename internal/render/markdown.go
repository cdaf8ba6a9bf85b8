package render

import (
	"bytes"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

type MarkdownRenderer struct {
	md goldmark.Markdown
}

// NewMarkdownRenderer enables tables, strikethrough, task lists and
// footnotes. Raw HTML in the source is passed through.
func NewMarkdownRenderer() *MarkdownRenderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			extension.Footnote,
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &MarkdownRenderer{md: md}
}

// Render never fails; malformed Markdown degrades to best-effort HTML.
func (r *MarkdownRenderer) Render(src string) string {
	var buf bytes.Buffer
	// 写 bytes.Buffer 不会出错
	_ = r.md.Convert([]byte(src), &buf)
	return buf.String()
}
