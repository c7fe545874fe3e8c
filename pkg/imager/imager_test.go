package imager

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/gif"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
)

func sampleImage() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	for x := 0; x < 2; x++ {
		for y := 0; y < 2; y++ {
			img.Set(x, y, color.RGBA{R: uint8(100 * x), G: uint8(100 * y), A: 255})
		}
	}
	return img
}

func encode(t *testing.T, fn func(*bytes.Buffer, image.Image) error) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := fn(&buf, sampleImage()); err != nil {
		t.Fatalf("failed to encode sample image: %v", err)
	}
	return buf.Bytes()
}

func TestDetectFormat(t *testing.T) {
	tests := []struct {
		name string
		data []byte
		want string
	}{
		{
			name: "png",
			data: encode(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) }),
			want: "png",
		},
		{
			name: "jpeg maps to jpg",
			data: encode(t, func(b *bytes.Buffer, img image.Image) error { return jpeg.Encode(b, img, nil) }),
			want: "jpg",
		},
		{
			name: "gif",
			data: encode(t, func(b *bytes.Buffer, img image.Image) error { return gif.Encode(b, img, nil) }),
			want: "gif",
		},
		{
			name: "bmp",
			data: encode(t, func(b *bytes.Buffer, img image.Image) error { return bmp.Encode(b, img) }),
			want: "bmp",
		},
		{
			name: "tiff",
			data: encode(t, func(b *bytes.Buffer, img image.Image) error { return tiff.Encode(b, img, nil) }),
			want: "tiff",
		},
		{
			name: "unknown bytes default to jpg",
			data: []byte("<svg xmlns=\"http://www.w3.org/2000/svg\"/>"),
			want: "jpg",
		},
		{
			name: "empty",
			data: nil,
			want: "jpg",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectFormat(tt.data); got != tt.want {
				t.Errorf("DetectFormat() = %q, want %q", got, tt.want)
			}
		})
	}
}

type fakeDownloader struct {
	data  []byte
	err   error
	calls int
}

func (f *fakeDownloader) DownloadMedia(ctx context.Context, token string) ([]byte, error) {
	f.calls++
	return f.data, f.err
}

func TestStoreSaveDownloadsOnce(t *testing.T) {
	dir := t.TempDir()
	dl := &fakeDownloader{data: encode(t, func(b *bytes.Buffer, img image.Image) error { return png.Encode(b, img) })}
	store := NewStore(dir, dl)

	path, err := store.Save(context.Background(), "doc1", "TokEn1")
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if want := filepath.Join(dir, "doc1_images", "TokEn1.png"); path != want {
		t.Errorf("Save() = %q, want %q", path, want)
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("saved file missing: %v", err)
	}

	again, err := store.Save(context.Background(), "doc1", "TokEn1")
	if err != nil {
		t.Fatalf("second Save() error = %v", err)
	}
	if again != path {
		t.Errorf("second Save() = %q, want %q", again, path)
	}
	if dl.calls != 1 {
		t.Errorf("downloader called %d times, want 1", dl.calls)
	}
}

func TestStoreSaveDownloadError(t *testing.T) {
	store := NewStore(t.TempDir(), &fakeDownloader{err: errors.New("status 404")})

	_, err := store.Save(context.Background(), "doc1", "tok")
	if err == nil {
		t.Fatal("Save() error = nil, want download error")
	}
	if errors.Is(err, ErrStorage) {
		t.Errorf("Save() error = %v, download failures must not be storage errors", err)
	}
}

func TestStoreSaveStorageError(t *testing.T) {
	// A regular file where the image root should be makes MkdirAll fail.
	root := filepath.Join(t.TempDir(), "occupied")
	if err := os.WriteFile(root, []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	dl := &fakeDownloader{data: []byte("x")}
	_, err := NewStore(root, dl).Save(context.Background(), "doc1", "tok")
	if !errors.Is(err, ErrStorage) {
		t.Errorf("Save() error = %v, want ErrStorage", err)
	}
	if dl.calls != 0 {
		t.Errorf("downloader called %d times, want 0", dl.calls)
	}
}

func TestSafeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"Abc123", "Abc123"},
		{"a/b\\c", "abc"},
		{"tok*?[x]", "tokx"},
		{"with-dash_and_underscore", "with-dash_and_underscore"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := safeName(tt.in); got != tt.want {
			t.Errorf("safeName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
