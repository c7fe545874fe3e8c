package formatter

import (
	"testing"

	"github.com/kataras/feishu-extractor/pkg/extractor"
)

func TestDecorate(t *testing.T) {
	tests := []struct {
		name    string
		content string
		style   extractor.Style
		want    string
	}{
		{name: "no flags", content: "hi", want: "hi"},
		{name: "bold", content: "hi", style: extractor.Style{Bold: true}, want: "**hi**"},
		{name: "bold and italic", content: "hi", style: extractor.Style{Bold: true, Italic: true}, want: "***hi***"},
		{name: "inline code", content: "x := 1", style: extractor.Style{InlineCode: true}, want: "`x := 1`"},
		{name: "strikethrough", content: "old", style: extractor.Style{Strikethrough: true}, want: "~~old~~"},
		{name: "underline", content: "u", style: extractor.Style{Underline: true}, want: "++u++"},
		{name: "bold inside code", content: "x", style: extractor.Style{Bold: true, InlineCode: true}, want: "`**x**`"},
		{
			name:    "all flags nest in fixed order",
			content: "x",
			style:   extractor.Style{Bold: true, InlineCode: true, Italic: true, Strikethrough: true, Underline: true},
			want:    "++~~*`**x**`*~~++",
		},
		{name: "empty content keeps markers", content: "", style: extractor.Style{Bold: true}, want: "****"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Decorate(tt.content, tt.style); got != tt.want {
				t.Errorf("Decorate() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestInlineTextConcatenatesRuns(t *testing.T) {
	runs := []extractor.Run{
		{Content: "plain "},
		{Content: "bold", Style: extractor.Style{Bold: true}},
		{Content: " and "},
		{Content: "code", Style: extractor.Style{InlineCode: true}},
	}

	if got, want := InlineText(runs), "plain **bold** and `code`"; got != want {
		t.Errorf("InlineText() = %q, want %q", got, want)
	}
	if got, want := PlainText(runs), "plain bold and code"; got != want {
		t.Errorf("PlainText() = %q, want %q", got, want)
	}
	if got := InlineText(nil); got != "" {
		t.Errorf("InlineText(nil) = %q, want empty", got)
	}
}
