package output

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

// Document is a rendered document ready to be written.
type Document struct {
	ID       string
	Title    string
	Source   string
	Revision int
	Markdown string
}

// Writer writes rendered documents into Dir as <slug>.md, optionally with
// front matter and an HTML companion <slug>.html.
type Writer struct {
	Dir         string
	FrontMatter bool
	HTML        bool

	now       func() time.Time
	usedNames map[string]string // file base name -> document id
}

// NewWriter returns a Writer for dir.
func NewWriter(dir string, frontMatter, html bool) *Writer {
	return &Writer{
		Dir:         dir,
		FrontMatter: frontMatter,
		HTML:        html,
		now:         time.Now,
		usedNames:   make(map[string]string),
	}
}

// Write stores doc and returns the path of the Markdown file.
func (w *Writer) Write(doc Document) (string, error) {
	if err := os.MkdirAll(w.Dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory %q: %w", w.Dir, err)
	}

	name := w.fileName(doc)
	content := doc.Markdown
	if w.FrontMatter {
		var err error
		content, err = Compose(Meta{
			Title:      doc.Title,
			DocumentID: doc.ID,
			Source:     doc.Source,
			Revision:   doc.Revision,
			ExportedAt: w.now().UTC().Format(time.RFC3339),
		}, doc.Markdown)
		if err != nil {
			return "", err
		}
	}

	mdPath := filepath.Join(w.Dir, name+".md")
	if err := os.WriteFile(mdPath, []byte(content), 0644); err != nil {
		return "", fmt.Errorf("failed to write %q: %w", mdPath, err)
	}

	if w.HTML {
		body, err := RenderHTML([]byte(doc.Markdown))
		if err != nil {
			return "", err
		}
		htmlPath := filepath.Join(w.Dir, name+".html")
		if err := os.WriteFile(htmlPath, body, 0644); err != nil {
			return "", fmt.Errorf("failed to write %q: %w", htmlPath, err)
		}
	}

	return mdPath, nil
}

// fileName derives a unique base name from the title, falling back to the id.
// A second document with the same title within one run gets its id appended.
func (w *Writer) fileName(doc Document) string {
	name := Slug(doc.Title)
	if name == "" {
		name = Slug(doc.ID)
	}
	if name == "" {
		name = "document"
	}

	if owner, taken := w.usedNames[name]; taken && owner != doc.ID {
		name = name + "-" + Slug(doc.ID)
	}
	w.usedNames[name] = doc.ID
	return name
}

// Slug converts s to a lower case, hyphen separated file name. Letters and
// digits of every script are kept so CJK titles survive.
func Slug(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))

	var result strings.Builder
	dash := false
	for _, r := range s {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			result.WriteRune(r)
			dash = false
		case r == ' ' || r == '_' || r == '-':
			if !dash && result.Len() > 0 {
				result.WriteRune('-')
				dash = true
			}
		}
	}
	return strings.TrimSuffix(result.String(), "-")
}
