package formatter

import (
	"context"
	"strings"

	"github.com/kataras/feishu-extractor/pkg/extractor"
)

// layoutOf returns the table layout that replaces child recursion for b:
// the native table payload, or a synthetic one-row table for a column
// container whose cells are its children.
func layoutOf(b *extractor.Block) (extractor.Table, bool) {
	if b.Type == extractor.TypeColumnContainer {
		return extractor.Table{
			Columns: len(b.Children),
			Rows:    1,
			Cells:   b.Children,
		}, true
	}
	t, ok := b.Payload.(extractor.Table)
	return t, ok
}

// renderTable flattens a table layout into pipe-delimited rows with a
// separator after the first row. Cells are rendered at depth 0, a cell
// missing from the map renders empty.
func (r *Renderer) renderTable(ctx context.Context, documentID string, t extractor.Table, blocks *extractor.Map) (string, error) {
	if t.Columns <= 0 {
		return "", nil
	}

	var sb strings.Builder
	cellIndex := 0
	for row := 0; row < t.Rows; row++ {
		for col := 0; col < t.Columns; col++ {
			if col == 0 {
				sb.WriteString("| ")
			}

			if cellIndex < len(t.Cells) {
				if cell, ok := blocks.Get(t.Cells[cellIndex]); ok {
					content, err := r.RenderBlock(ctx, documentID, cell, blocks, 0, 0)
					if err != nil {
						return "", err
					}
					sb.WriteString(content)
				}
			}
			cellIndex++

			if col == t.Columns-1 {
				sb.WriteString(" |\n")
			} else {
				sb.WriteString(" | ")
			}
		}

		if row == 0 {
			sb.WriteString(strings.Repeat("|---", t.Columns))
			sb.WriteString("|\n")
		}
	}
	return sb.String(), nil
}
