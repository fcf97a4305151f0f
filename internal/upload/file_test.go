package upload

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 2, 2))
	img.Set(0, 0, color.RGBA{R: 255, A: 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestOpenImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "photo.png")
	if err := os.WriteFile(path, pngBytes(t), 0o644); err != nil {
		t.Fatal(err)
	}

	f, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if f.Name != "photo.png" || f.MediaType != "image/png" || !f.IsImage() {
		t.Fatalf("unexpected file: name=%s type=%s", f.Name, f.MediaType)
	}
	if f.Size() == 0 {
		t.Fatal("expected payload")
	}
}

func TestOpenSniffsUnknownExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "capture.unknownext")
	if err := os.WriteFile(path, pngBytes(t), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if f.MediaType != "image/png" {
		t.Fatalf("expected sniffed image/png, got %q", f.MediaType)
	}
}

func TestOpenTextIsNotImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.txt")
	if err := os.WriteFile(path, []byte("hello"), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err := Open(path, 0)
	if err != nil {
		t.Fatalf("Open error: %v", err)
	}
	if f.IsImage() {
		t.Fatalf("expected non-image, got %q", f.MediaType)
	}
}

func TestOpenTooLarge(t *testing.T) {
	path := filepath.Join(t.TempDir(), "big.png")
	if err := os.WriteFile(path, make([]byte, 64), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path, 16); !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestOpenDirectory(t *testing.T) {
	if _, err := Open(t.TempDir(), 0); err == nil {
		t.Fatal("expected error for directory")
	}
}
