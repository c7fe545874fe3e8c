package output

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/adrg/frontmatter"
	"gopkg.in/yaml.v3"
)

// Meta is the YAML front matter written at the top of exported documents.
// Source identifies the export when a later run decides what to skip.
type Meta struct {
	Title      string `yaml:"title"`
	DocumentID string `yaml:"document_id"`
	Source     string `yaml:"source,omitempty"`
	Revision   int    `yaml:"revision,omitempty"`
	ExportedAt string `yaml:"exported_at,omitempty"` // RFC 3339
}

// Compose prefixes body with meta as a "---" delimited YAML block.
func Compose(meta Meta, body string) (string, error) {
	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(meta); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}
	if err := enc.Close(); err != nil {
		return "", fmt.Errorf("encode front matter: %w", err)
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(buf.Bytes())
	sb.WriteString("---\n\n")
	sb.WriteString(body)
	return sb.String(), nil
}

// ReadMeta parses the front matter of r and returns it with the remaining body.
// Input without front matter yields a zero Meta and the full input.
func ReadMeta(r io.Reader) (Meta, []byte, error) {
	var meta Meta
	body, err := frontmatter.Parse(r, &meta)
	if err != nil {
		return Meta{}, nil, fmt.Errorf("parse front matter: %w", err)
	}
	return meta, body, nil
}
