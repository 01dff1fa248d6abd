package fsio

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"testing"
)

func TestRecognizedExtensions(t *testing.T) {
	tests := []struct {
		name     string
		markdown bool
		image    bool
	}{
		{"notes.md", true, false},
		{"NOTES.MD", true, false},
		{"notes.markdown", false, false},
		{"photo.JPG", false, true},
		{"photo.jpeg", false, true},
		{"anim.gif", false, true},
		{"pic.webp", false, true},
		{"scan.bmp", false, true},
		{"shot.png", false, true},
		{"archive.tar.gz", false, false},
		{"md", false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsMarkdown(tt.name); got != tt.markdown {
				t.Errorf("IsMarkdown() = %v, want %v", got, tt.markdown)
			}
			if got := IsImage(tt.name); got != tt.image {
				t.Errorf("IsImage() = %v, want %v", got, tt.image)
			}
		})
	}
}

func TestLocalTextRoundTrip(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "doc.md")
	var local Local

	if err := local.WriteText(ctx, path, "first version that is rather long"); err != nil {
		t.Fatal(err)
	}
	if err := local.WriteText(ctx, path, "short"); err != nil {
		t.Fatal(err)
	}
	text, err := local.ReadText(ctx, path)
	if err != nil {
		t.Fatal(err)
	}
	if text != "short" {
		t.Errorf("write did not truncate, got %q", text)
	}
}

func TestLocalReadMissing(t *testing.T) {
	_, err := Local{}.ReadText(context.Background(), filepath.Join(t.TempDir(), "absent.md"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected wrapped ErrNotExist, got %v", err)
	}
}

func TestLocalHonorsCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := (Local{}).WriteText(ctx, filepath.Join(t.TempDir(), "x.md"), "x"); !errors.Is(err, context.Canceled) {
		t.Errorf("expected cancellation, got %v", err)
	}
}

func TestLocalDecodeImage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dot.png")
	img := image.NewRGBA(image.Rect(0, 0, 3, 2))
	img.Set(1, 1, color.RGBA{R: 255, A: 255})
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
	f.Close()

	pic, err := Local{}.DecodeImage(context.Background(), path)
	if err != nil {
		t.Fatal(err)
	}
	if pic.Width != 3 || pic.Height != 2 {
		t.Errorf("decoded %dx%d, expected 3x2", pic.Width, pic.Height)
	}
	if !pic.Taken.IsZero() {
		t.Errorf("PNG should carry no capture time, got %s", pic.Taken)
	}
}

func TestLocalDecodeGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fake.png")
	os.WriteFile(path, []byte("not an image"), 0644)
	if _, err := (Local{}).DecodeImage(context.Background(), path); err == nil {
		t.Error("garbage decoded without error")
	}
}

func TestCountingTalliesCalls(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	c := NewCounting(Local{})
	path := filepath.Join(dir, "a.md")
	c.WriteText(ctx, path, "a")
	c.ReadText(ctx, path)
	c.ReadText(ctx, path)
	c.ReadDir(ctx, dir)
	want := Stats{Listings: 1, Reads: 2, Writes: 1}
	if got := c.Stats(); got != want {
		t.Errorf("Stats() = %+v, want %+v", got, want)
	}
}
