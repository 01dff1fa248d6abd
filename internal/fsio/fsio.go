// Package fsio wraps the filesystem calls the workspace suspends on.
package fsio

import (
	"context"
	"fmt"
	"image"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/disintegration/imaging"
	"github.com/rwcarlsen/goexif/exif"
	_ "golang.org/x/image/webp"
)

// Picture is a decoded image kept in memory for the preview side.
type Picture struct {
	Image  image.Image
	Width  int
	Height int
	Taken  time.Time //zero if the file carries no capture time
}

// Adapter is everything the workspace needs from a filesystem. All calls may block.
type Adapter interface {
	ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error)
	ReadText(ctx context.Context, path string) (string, error)
	DecodeImage(ctx context.Context, path string) (*Picture, error)
	// WriteText replaces the whole file, creating it if necessary.
	WriteText(ctx context.Context, path string, text string) error
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".gif":  true,
	".bmp":  true,
	".webp": true,
}

func IsMarkdown(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".md")
}

func IsImage(name string) bool {
	return imageExtensions[strings.ToLower(filepath.Ext(name))]
}

// Local operates on the real filesystem.
type Local struct{}

func (Local) ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("listing %s: %w", path, err)
	}
	return entries, nil
}

func (Local) ReadText(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return string(raw), nil
}

func (Local) DecodeImage(ctx context.Context, path string) (*Picture, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	img, err := imaging.Open(path, imaging.AutoOrientation(true))
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	bounds := img.Bounds()
	return &Picture{
		Image:  img,
		Width:  bounds.Dx(),
		Height: bounds.Dy(),
		Taken:  captureTime(path),
	}, nil
}

// captureTime is best effort, most formats besides JPEG carry no EXIF block.
func captureTime(path string) time.Time {
	f, err := os.Open(path)
	if err != nil {
		return time.Time{}
	}
	defer f.Close()
	x, err := exif.Decode(f)
	if err != nil {
		return time.Time{}
	}
	taken, err := x.DateTime()
	if err != nil {
		return time.Time{}
	}
	return taken
}

func (Local) WriteText(ctx context.Context, path string, text string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
