package extractor

import (
	"errors"
	"fmt"

	"github.com/kataras/feishu-extractor/pkg/feishu"
)

var (
	// ErrNoRoot is returned when a block listing has no root block.
	ErrNoRoot = errors.New("document has no root block")
	// ErrMultipleRoots is returned when more than one root block exists.
	ErrMultipleRoots = errors.New("document has more than one root block")
)

// Type is the numeric block type code of the docx API.
type Type int

// Block type codes understood by the renderer. Any other code is inert.
const (
	TypeRoot            Type = 1
	TypeText            Type = 2
	TypeHeading         Type = 4
	TypeBullet          Type = 12
	TypeOrdered         Type = 13
	TypeCallout         Type = 19
	TypeColumnContainer Type = 24
	TypeColumn          Type = 25 // children are joined with <br>
	TypeImage           Type = 27
	TypeTable           Type = 31
	TypeTableCell       Type = 32
	TypeBlockquote      Type = 34
)

// AutoSequence marks an ordered item whose number is computed from its siblings.
const AutoSequence = "auto"

// Block is a single node of a document's content tree.
type Block struct {
	ID       string
	Type     Type
	ParentID string
	Children []string
	Payload  Payload // nil for structural types
}

// Payload is the type specific content of a block. The concrete types are
// Text, Heading, Bullet, Ordered, Image and Table.
type Payload interface {
	payload()
}

// Style holds the inline decoration flags of a run.
type Style struct {
	Bold          bool
	InlineCode    bool
	Italic        bool
	Strikethrough bool
	Underline     bool
}

// Run is a span of text with one style.
type Run struct {
	Content string
	Style   Style
}

// Text is the payload of a paragraph block.
type Text struct {
	Runs []Run
}

// Heading is the payload of a heading block, Level is 1 to 5.
type Heading struct {
	Level int
	Runs  []Run
}

// Bullet is the payload of a bulleted list item.
type Bullet struct {
	Runs []Run
}

// Ordered is the payload of an ordered list item. Sequence is either a
// literal marker ("3", "c") or AutoSequence.
type Ordered struct {
	Sequence string
	Runs     []Run
}

// Image references an image resource by token.
type Image struct {
	Token  string
	Width  int
	Height int
}

// Table is the layout of a table: Cells holds Rows*Columns block ids, row-major.
type Table struct {
	Columns   int
	Rows      int
	Cells     []string
	HeaderRow bool
	Merges    []Merge
}

// Merge describes the spans of one table cell.
type Merge struct {
	RowSpan int
	ColSpan int
}

func (Text) payload()    {}
func (Heading) payload() {}
func (Bullet) payload()  {}
func (Ordered) payload() {}
func (Image) payload()   {}
func (Table) payload()   {}

// Ordered returns the ordered list payload of b, if any.
func (b *Block) Ordered() (Ordered, bool) {
	if b == nil {
		return Ordered{}, false
	}
	o, ok := b.Payload.(Ordered)
	return o, ok
}

// Map is the immutable set of a document's blocks keyed by id.
type Map struct {
	blocks map[string]*Block
	root   *Block
}

// NewMap indexes blocks by id and locates the single root block.
// When ids repeat the first occurrence wins.
func NewMap(blocks []*Block) (*Map, error) {
	m := &Map{blocks: make(map[string]*Block, len(blocks))}
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if _, exists := m.blocks[b.ID]; exists {
			continue
		}
		m.blocks[b.ID] = b

		if b.Type == TypeRoot && b.ParentID == "" {
			if m.root != nil {
				return nil, fmt.Errorf("%w: %s and %s", ErrMultipleRoots, m.root.ID, b.ID)
			}
			m.root = b
		}
	}
	if m.root == nil {
		return nil, ErrNoRoot
	}
	return m, nil
}

// Get returns the block with the given id.
func (m *Map) Get(id string) (*Block, bool) {
	b, ok := m.blocks[id]
	return b, ok
}

// Root returns the document's root block.
func (m *Map) Root() *Block {
	return m.root
}

// Len returns the number of blocks.
func (m *Map) Len() int {
	return len(m.blocks)
}

// Extract decodes the blocks returned by the docx API into a Map.
func Extract(items []feishu.Block) (*Map, error) {
	blocks := make([]*Block, 0, len(items))
	for _, item := range items {
		blocks = append(blocks, Decode(item))
	}
	return NewMap(blocks)
}

// Decode converts one API block into a Block, selecting the payload that
// matches its type. A type whose payload is missing decodes to a nil payload.
func Decode(item feishu.Block) *Block {
	b := &Block{
		ID:       item.BlockID,
		Type:     Type(item.BlockType),
		ParentID: item.ParentID,
		Children: item.Children,
	}

	switch b.Type {
	case TypeText:
		if item.Text != nil {
			b.Payload = Text{Runs: decodeRuns(item.Text)}
		}
	case TypeHeading:
		// Only the first populated level counts.
		for i, body := range item.Headings() {
			if body != nil {
				b.Payload = Heading{Level: i + 1, Runs: decodeRuns(body)}
				break
			}
		}
	case TypeBullet:
		if item.Bullet != nil {
			b.Payload = Bullet{Runs: decodeRuns(item.Bullet)}
		}
	case TypeOrdered:
		if item.Ordered != nil {
			b.Payload = Ordered{
				Sequence: item.Ordered.Style.Sequence,
				Runs:     decodeRuns(item.Ordered),
			}
		}
	case TypeImage:
		if item.Image != nil {
			b.Payload = Image{
				Token:  item.Image.Token,
				Width:  item.Image.Width,
				Height: item.Image.Height,
			}
		}
	case TypeTable:
		if item.Table != nil {
			b.Payload = decodeTable(item.Table)
		}
	}

	return b
}

func decodeRuns(body *feishu.TextBody) []Run {
	runs := make([]Run, 0, len(body.Elements))
	for _, el := range body.Elements {
		if el.TextRun == nil {
			continue
		}
		s := el.TextRun.TextElementStyle
		runs = append(runs, Run{
			Content: el.TextRun.Content,
			Style: Style{
				Bold:          s.Bold,
				InlineCode:    s.InlineCode,
				Italic:        s.Italic,
				Strikethrough: s.Strikethrough,
				Underline:     s.Underline,
			},
		})
	}
	return runs
}

func decodeTable(t *feishu.Table) Table {
	merges := make([]Merge, 0, len(t.Property.MergeInfo))
	for _, mi := range t.Property.MergeInfo {
		merges = append(merges, Merge{RowSpan: mi.RowSpan, ColSpan: mi.ColSpan})
	}
	return Table{
		Columns:   t.Property.ColumnSize,
		Rows:      t.Property.RowSize,
		Cells:     t.Cells,
		HeaderRow: t.Property.HeaderRow,
		Merges:    merges,
	}
}
