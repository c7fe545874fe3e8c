package imager

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"os"
	"path/filepath"
	"strings"

	// Decoders registered for format detection.
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrStorage reports that the local image directory could not be prepared
// or written. Unlike download failures it affects every image of a document.
var ErrStorage = errors.New("image storage failure")

// defaultExtension is used when the downloaded bytes are not a known raster format.
const defaultExtension = "jpg"

// Downloader fetches the raw bytes of a media resource.
type Downloader interface {
	DownloadMedia(ctx context.Context, token string) ([]byte, error)
}

// Store saves document images under <dir>/<documentID>_images/<token>.<ext>.
// An image already present on disk is never downloaded again.
type Store struct {
	dir        string
	downloader Downloader
}

// NewStore returns a Store rooted at dir.
func NewStore(dir string, downloader Downloader) *Store {
	return &Store{dir: dir, downloader: downloader}
}

// DocumentDir returns the directory holding the images of a document.
func (s *Store) DocumentDir(documentID string) string {
	return filepath.Join(s.dir, safeName(documentID)+"_images")
}

// Save makes sure the image identified by token is stored locally and
// returns its path.
func (s *Store) Save(ctx context.Context, documentID, token string) (string, error) {
	dir := s.DocumentDir(documentID)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("%w: failed to create directory %q: %v", ErrStorage, dir, err)
	}

	name := safeName(token)
	if name == "" {
		return "", fmt.Errorf("invalid image token %q", token)
	}

	if existing, ok := findExisting(dir, name); ok {
		return existing, nil
	}

	data, err := s.downloader.DownloadMedia(ctx, token)
	if err != nil {
		return "", fmt.Errorf("failed to download image %s: %w", token, err)
	}

	destPath := filepath.Join(dir, name+"."+DetectFormat(data))
	if err := os.WriteFile(destPath, data, 0644); err != nil {
		return "", fmt.Errorf("%w: failed to write file %q: %v", ErrStorage, destPath, err)
	}
	return destPath, nil
}

// DetectFormat returns the file extension matching the encoded image data:
// png, jpg, gif, webp, bmp or tiff. Unknown data maps to jpg.
func DetectFormat(data []byte) string {
	_, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return defaultExtension
	}
	if format == "jpeg" {
		return "jpg"
	}
	return format
}

func findExisting(dir, name string) (string, bool) {
	matches, err := filepath.Glob(filepath.Join(dir, name+".*"))
	if err != nil || len(matches) == 0 {
		return "", false
	}
	return matches[0], true
}

// safeName keeps only characters that are safe in file names and glob
// patterns. Tokens are case sensitive, so case is preserved.
func safeName(s string) string {
	var result strings.Builder
	for _, r := range s {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			result.WriteRune(r)
		}
	}
	return result.String()
}
