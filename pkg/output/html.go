package output

import (
	"bytes"
	"fmt"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// htmlEngine renders tables and strikethrough (GFM) and keeps the raw
// <br> tags emitted inside column cells.
var htmlEngine = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithRendererOptions(html.WithUnsafe()),
)

// RenderHTML converts Markdown into an HTML fragment.
func RenderHTML(markdown []byte) ([]byte, error) {
	var buf bytes.Buffer
	if err := htmlEngine.Convert(markdown, &buf); err != nil {
		return nil, fmt.Errorf("markdown to html: %w", err)
	}
	return buf.Bytes(), nil
}
