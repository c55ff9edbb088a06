package storage

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 120, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return buf.Bytes()
}

func TestLocalStoragePut(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root, "http://localhost:8080/uploads/")
	if err != nil {
		t.Fatalf("NewLocalStorage: %v", err)
	}

	url, err := s.Put(context.Background(), "shops/abc/logo.png", []byte("data"), "image/png")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "http://localhost:8080/uploads/shops/abc/logo.png" {
		t.Fatalf("url = %q", url)
	}
	b, err := os.ReadFile(filepath.Join(root, "shops", "abc", "logo.png"))
	if err != nil || string(b) != "data" {
		t.Fatalf("file content = %q, err %v", b, err)
	}

	if err := s.Delete(context.Background(), "shops/abc/logo.png"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if err := s.Delete(context.Background(), "shops/abc/logo.png"); err != nil {
		t.Fatalf("Delete of missing file: %v", err)
	}
}

func TestLocalStorageRejectsEscapingKeys(t *testing.T) {
	s, _ := NewLocalStorage(t.TempDir(), "http://x")
	url, err := s.Put(context.Background(), "../../etc/passwd", []byte("x"), "text/plain")
	if err != nil {
		t.Fatalf("Put: %v", err)
	}
	if url != "http://x/etc/passwd" {
		t.Fatalf("key was not confined to root: %q", url)
	}
	if _, err := s.Put(context.Background(), "", []byte("x"), "text/plain"); err == nil {
		t.Fatalf("empty key accepted")
	}
}

func TestThumbnail(t *testing.T) {
	src := pngBytes(t, 640, 320)
	thumb, err := Thumbnail(src, ThumbnailWidth)
	if err != nil {
		t.Fatalf("Thumbnail: %v", err)
	}
	img, err := imaging.Decode(bytes.NewReader(thumb))
	if err != nil {
		t.Fatalf("decode thumbnail: %v", err)
	}
	if img.Bounds().Dx() != 200 || img.Bounds().Dy() != 100 {
		t.Fatalf("thumbnail size = %v", img.Bounds())
	}

	small, err := Thumbnail(pngBytes(t, 50, 40), ThumbnailWidth)
	if err != nil {
		t.Fatalf("Thumbnail small: %v", err)
	}
	img, _ = imaging.Decode(bytes.NewReader(small))
	if img.Bounds().Dx() != 50 {
		t.Fatalf("small image was resized to %v", img.Bounds())
	}
}

func TestDetectImageType(t *testing.T) {
	ct, ext, err := DetectImageType(pngBytes(t, 4, 4))
	if err != nil || ct != "image/png" || ext != ".png" {
		t.Fatalf("DetectImageType(png) = %q %q %v", ct, ext, err)
	}
	if _, _, err := DetectImageType([]byte("%PDF-1.4")); !errors.Is(err, ErrUnsupportedImage) {
		t.Fatalf("expected ErrUnsupportedImage, got %v", err)
	}
}

func TestThumbnailKey(t *testing.T) {
	if got := ThumbnailKey("shops/abc/logo.png"); got != "shops/abc/thumbnails/logo.jpg" {
		t.Fatalf("ThumbnailKey = %q", got)
	}
}
