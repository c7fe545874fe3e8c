package extractor

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/kataras/feishu-extractor/pkg/feishu"
)

const sampleBlocks = `[
  {"block_id": "root", "block_type": 1, "children": ["h", "p", "o", "img", "tbl", "x"]},
  {"block_id": "h", "block_type": 4, "parent_id": "root",
   "heading3": {"elements": [{"text_run": {"content": "Title", "text_element_style": {}}}]}},
  {"block_id": "p", "block_type": 2, "parent_id": "root",
   "text": {"elements": [
     {"text_run": {"content": "a", "text_element_style": {"bold": true}}},
     {"mention_user": {"user_id": "u1"}},
     {"text_run": {"content": "b", "text_element_style": {"italic": true, "underline": true}}}
   ]}},
  {"block_id": "o", "block_type": 13, "parent_id": "root",
   "ordered": {"style": {"align": 1, "sequence": "auto"}, "elements": [{"text_run": {"content": "item"}}]}},
  {"block_id": "img", "block_type": 27, "parent_id": "root",
   "image": {"token": "tok", "width": 640, "height": 480}},
  {"block_id": "tbl", "block_type": 31, "parent_id": "root", "children": ["c1", "c2"],
   "table": {"cells": ["c1", "c2"], "property": {"row_size": 1, "column_size": 2,
     "merge_info": [{"row_span": 1, "col_span": 1}, {"row_span": 1, "col_span": 1}]}}},
  {"block_id": "x", "block_type": 99, "parent_id": "root"}
]`

func loadSample(t *testing.T) *Map {
	t.Helper()
	var items []feishu.Block
	if err := json.Unmarshal([]byte(sampleBlocks), &items); err != nil {
		t.Fatalf("failed to decode sample: %v", err)
	}
	m, err := Extract(items)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	return m
}

func TestExtractPayloads(t *testing.T) {
	m := loadSample(t)

	if m.Len() != 7 {
		t.Errorf("Len() = %d, want 7", m.Len())
	}
	if m.Root().ID != "root" {
		t.Errorf("Root().ID = %q, want root", m.Root().ID)
	}

	h, _ := m.Get("h")
	heading, ok := h.Payload.(Heading)
	if !ok || heading.Level != 3 || heading.Runs[0].Content != "Title" {
		t.Errorf("heading payload = %#v, want level 3 Title", h.Payload)
	}

	p, _ := m.Get("p")
	text, ok := p.Payload.(Text)
	if !ok || len(text.Runs) != 2 {
		t.Fatalf("text payload = %#v, want 2 runs", p.Payload)
	}
	if !text.Runs[0].Style.Bold || text.Runs[1].Style != (Style{Italic: true, Underline: true}) {
		t.Errorf("text run styles = %+v", text.Runs)
	}

	o, _ := m.Get("o")
	ordered, ok := o.Ordered()
	if !ok || ordered.Sequence != AutoSequence {
		t.Errorf("Ordered() = %#v, %v, want auto sequence", ordered, ok)
	}

	img, _ := m.Get("img")
	if got, ok := img.Payload.(Image); !ok || got.Token != "tok" || got.Width != 640 {
		t.Errorf("image payload = %#v", img.Payload)
	}

	tbl, _ := m.Get("tbl")
	table, ok := tbl.Payload.(Table)
	if !ok || table.Columns != 2 || table.Rows != 1 || len(table.Cells) != 2 || len(table.Merges) != 2 {
		t.Errorf("table payload = %#v", tbl.Payload)
	}

	x, _ := m.Get("x")
	if x.Payload != nil {
		t.Errorf("unknown type payload = %#v, want nil", x.Payload)
	}
}

func TestDecodeIgnoresMismatchedPayload(t *testing.T) {
	// A text block carrying a bullet payload is still a text block.
	b := Decode(feishu.Block{BlockID: "b", BlockType: 2, Bullet: &feishu.TextBody{}})
	if b.Payload != nil {
		t.Errorf("Decode() payload = %#v, want nil", b.Payload)
	}
	if _, ok := b.Ordered(); ok {
		t.Error("Ordered() reported an ordered payload on a text block")
	}
}

func TestNewMapRootErrors(t *testing.T) {
	tests := []struct {
		name    string
		blocks  []*Block
		wantErr error
	}{
		{
			name:    "no root",
			blocks:  []*Block{{ID: "a", Type: TypeText}},
			wantErr: ErrNoRoot,
		},
		{
			name:    "empty",
			blocks:  nil,
			wantErr: ErrNoRoot,
		},
		{
			name:    "two roots",
			blocks:  []*Block{{ID: "a", Type: TypeRoot}, {ID: "b", Type: TypeRoot}},
			wantErr: ErrMultipleRoots,
		},
		{
			name:   "duplicate root id is kept once",
			blocks: []*Block{{ID: "a", Type: TypeRoot}, {ID: "a", Type: TypeRoot}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewMap(tt.blocks)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("NewMap() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
