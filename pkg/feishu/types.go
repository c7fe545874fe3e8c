package feishu

import "encoding/json"

// envelope is the common wrapper of every Open Platform response.
// Data is decoded lazily by the caller because its shape differs per endpoint.
type envelope struct {
	Code int             `json:"code"`
	Msg  string          `json:"msg"`
	Data json.RawMessage `json:"data"`
}

// tokenResponse is the response of the tenant_access_token/internal endpoint.
// Unlike the other endpoints the token fields live at the top level.
type tokenResponse struct {
	Code              int    `json:"code"`
	Msg               string `json:"msg"`
	TenantAccessToken string `json:"tenant_access_token"`
	Expire            int    `json:"expire"` // seconds
}

// Document holds the metadata of a docx document.
type Document struct {
	DocumentID string `json:"document_id"`
	RevisionID int    `json:"revision_id"`
	Title      string `json:"title"`
}

type documentData struct {
	Document Document `json:"document"`
}

// BlocksPage is one page of the block listing endpoint.
type BlocksPage struct {
	Items     []Block `json:"items"`
	HasMore   bool    `json:"has_more"`
	PageToken string  `json:"page_token"`
}

// File is a single entry of a drive folder listing.
type File struct {
	Token        string `json:"token"`
	Name         string `json:"name"`
	Type         string `json:"type"` // "docx", "sheet", "folder", ...
	URL          string `json:"url"`
	ParentToken  string `json:"parent_token"`
	CreatedTime  string `json:"created_time"`
	ModifiedTime string `json:"modified_time"`
	OwnerID      string `json:"owner_id"`
}

// FilesPage is one page of the drive folder listing endpoint.
type FilesPage struct {
	Files         []File `json:"files"`
	HasMore       bool   `json:"has_more"`
	NextPageToken string `json:"next_page_token"`
}

// Block is a document block exactly as the docx API returns it.
// Only one of the payload pointers is populated for a given BlockType.
type Block struct {
	BlockID   string   `json:"block_id"`
	BlockType int      `json:"block_type"`
	ParentID  string   `json:"parent_id"`
	Children  []string `json:"children,omitempty"`

	Text     *TextBody `json:"text,omitempty"`
	Heading1 *TextBody `json:"heading1,omitempty"`
	Heading2 *TextBody `json:"heading2,omitempty"`
	Heading3 *TextBody `json:"heading3,omitempty"`
	Heading4 *TextBody `json:"heading4,omitempty"`
	Heading5 *TextBody `json:"heading5,omitempty"`
	Bullet   *TextBody `json:"bullet,omitempty"`
	Ordered  *TextBody `json:"ordered,omitempty"`
	Image    *Image    `json:"image,omitempty"`
	Table    *Table    `json:"table,omitempty"`
}

// Headings returns the five heading payload slots in level order.
func (b Block) Headings() [5]*TextBody {
	return [5]*TextBody{b.Heading1, b.Heading2, b.Heading3, b.Heading4, b.Heading5}
}

// TextBody is the shared payload of text-like blocks (text, headings, list items).
type TextBody struct {
	Style    TextStyle     `json:"style"`
	Elements []TextElement `json:"elements"`
}

// TextStyle carries block level text settings. Sequence is only set on
// ordered list items; "auto" means the platform computes the number.
type TextStyle struct {
	Align    int    `json:"align,omitempty"`
	Folded   bool   `json:"folded,omitempty"`
	Sequence string `json:"sequence,omitempty"`
}

// TextElement is one inline element. Only text runs are rendered,
// mentions, equations and the like are ignored.
type TextElement struct {
	TextRun *TextRun `json:"text_run,omitempty"`
}

// TextRun is a span of text sharing the same inline style.
type TextRun struct {
	Content          string           `json:"content"`
	TextElementStyle TextElementStyle `json:"text_element_style"`
}

// TextElementStyle holds the inline decoration flags of a text run.
type TextElementStyle struct {
	Bold          bool `json:"bold"`
	InlineCode    bool `json:"inline_code"`
	Italic        bool `json:"italic"`
	Strikethrough bool `json:"strikethrough"`
	Underline     bool `json:"underline"`
}

// Image describes an embedded image resource.
type Image struct {
	Token  string  `json:"token"`
	Width  int     `json:"width"`
	Height int     `json:"height"`
	Align  int     `json:"align,omitempty"`
	Scale  float64 `json:"scale,omitempty"`
}

// Table is the payload of a table block. Cells is row-major.
type Table struct {
	Cells    []string      `json:"cells"`
	Property TableProperty `json:"property"`
}

// TableProperty carries the table dimensions and merge metadata.
type TableProperty struct {
	RowSize    int         `json:"row_size"`
	ColumnSize int         `json:"column_size"`
	HeaderRow  bool        `json:"header_row,omitempty"`
	MergeInfo  []MergeInfo `json:"merge_info,omitempty"`
}

// MergeInfo describes the spans of a single cell.
type MergeInfo struct {
	RowSpan int `json:"row_span"`
	ColSpan int `json:"col_span"`
}
