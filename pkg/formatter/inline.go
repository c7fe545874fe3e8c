package formatter

import (
	"strings"

	"github.com/kataras/feishu-extractor/pkg/extractor"
)

// Decorate wraps content with the Markdown markers of every active style
// flag. Markers nest in a fixed order, innermost to outermost: bold,
// inline code, italic, strikethrough, underline. Bold plus italic
// therefore yields "***text***".
func Decorate(content string, style extractor.Style) string {
	markers := [...]struct {
		on     bool
		marker string
	}{
		{style.Bold, "**"},
		{style.InlineCode, "`"},
		{style.Italic, "*"},
		{style.Strikethrough, "~~"},
		{style.Underline, "++"},
	}

	for _, m := range markers {
		if m.on {
			content = m.marker + content + m.marker
		}
	}
	return content
}

// InlineText renders a sequence of runs, each decorated with its own style.
func InlineText(runs []extractor.Run) string {
	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(Decorate(run.Content, run.Style))
	}
	return sb.String()
}

// PlainText concatenates the contents of runs without decoration.
func PlainText(runs []extractor.Run) string {
	var sb strings.Builder
	for _, run := range runs {
		sb.WriteString(run.Content)
	}
	return sb.String()
}
