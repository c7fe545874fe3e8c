package output

import (
	"fmt"
	"os"
	"path/filepath"
)

// Index maps the source URLs recorded in existing exports to their files.
type Index struct {
	sources map[string]string
}

// LoadIndex reads the front matter of every *.md file in dir. A missing
// directory yields an empty index, files without a source are ignored.
func LoadIndex(dir string) (*Index, error) {
	idx := &Index{sources: make(map[string]string)}

	matches, err := filepath.Glob(filepath.Join(dir, "*.md"))
	if err != nil {
		return nil, fmt.Errorf("scan %q: %w", dir, err)
	}

	for _, path := range matches {
		meta, err := readMetaFile(path)
		if err != nil {
			// Removed meanwhile, or front matter that is not ours.
			continue
		}
		if meta.Source != "" {
			idx.sources[meta.Source] = path
		}
	}
	return idx, nil
}

func readMetaFile(path string) (Meta, error) {
	f, err := os.Open(path)
	if err != nil {
		return Meta{}, err
	}
	defer f.Close()

	meta, _, err := ReadMeta(f)
	return meta, err
}

// HasSource reports whether a document exported from url exists.
func (i *Index) HasSource(url string) bool {
	_, ok := i.sources[url]
	return ok
}

// Path returns the file exported from url.
func (i *Index) Path(url string) (string, bool) {
	p, ok := i.sources[url]
	return p, ok
}

// Len returns the number of indexed exports.
func (i *Index) Len() int {
	return len(i.sources)
}
