package ingest

import (
	"context"
	"errors"
	"image"
	"image/png"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/n2code/docspace/internal/fsio"
	"github.com/n2code/docspace/internal/ident"
	"github.com/n2code/docspace/internal/node"
)

func writeFile(t *testing.T, path string, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func writePNG(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, image.NewGray(image.Rect(0, 0, 2, 2))); err != nil {
		t.Fatal(err)
	}
}

func TestDirectoryKeepsFoldersAndMarkdownOnly(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.md"), "# Notes")
	writePNG(t, filepath.Join(root, "image.png"))
	writeFile(t, filepath.Join(root, "drafts", "d.md"), "draft")

	rootId, batch, err := Directory(context.Background(), fsio.Local{}, ident.New(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 4 {
		names := []string{}
		for _, n := range batch {
			names = append(names, n.Name)
		}
		t.Fatalf("ingested %d nodes (%s), expected 4", len(batch), strings.Join(names, ", "))
	}

	rootNode := batch[rootId]
	dir, isDir := rootNode.Content.(*node.RealDir)
	if !isDir || !dir.Expanded || dir.Path != root {
		t.Fatalf("unexpected root %+v", rootNode)
	}
	if len(dir.Children) != 2 {
		t.Fatalf("root has %d children, expected 2", len(dir.Children))
	}
	drafts := batch[dir.Children[0]]
	if drafts.Name != "drafts" || drafts.Expanded() {
		t.Errorf("first child should be collapsed drafts/, got %q", drafts.Name)
	}
	d := batch[drafts.Children()[0]]
	doc, isDoc := d.Content.(*node.Document)
	if !isDoc || doc.Path != filepath.Join(root, "drafts", "d.md") {
		t.Errorf("unexpected nested leaf %+v", d)
	}
	if _, cached := doc.Cached(); cached {
		t.Error("ingestion must not read document content")
	}
	if batch[dir.Children[1]].Name != "notes.md" {
		t.Errorf("second child is %q", batch[dir.Children[1]].Name)
	}
}

func TestDirectoryKeepsEmptyFolders(t *testing.T) {
	root := t.TempDir()
	os.MkdirAll(filepath.Join(root, "empty", "deeper"), 0755)
	_, batch, err := Directory(context.Background(), fsio.Local{}, ident.New(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 3 {
		t.Errorf("got %d nodes, expected 3 directories", len(batch))
	}
}

func TestDirectoryHandlesDeepNesting(t *testing.T) {
	root := t.TempDir()
	path := root
	for i := 0; i < 60; i++ {
		path = filepath.Join(path, "d")
	}
	writeFile(t, filepath.Join(path, "leaf.md"), "")
	_, batch, err := Directory(context.Background(), fsio.Local{}, ident.New(), root)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 62 {
		t.Errorf("got %d nodes, expected 62", len(batch))
	}
}

type failingAdapter struct {
	fsio.Adapter
	failAt string
}

func (f failingAdapter) ReadDir(ctx context.Context, path string) ([]fs.DirEntry, error) {
	if filepath.Base(path) == f.failAt {
		return nil, errors.New("permission denied")
	}
	return f.Adapter.ReadDir(ctx, path)
}

func TestDirectoryAbortsOnError(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.md"), "")
	writeFile(t, filepath.Join(root, "locked", "b.md"), "")

	rootId, batch, err := Directory(context.Background(), failingAdapter{fsio.Local{}, "locked"}, ident.New(), root)
	if err == nil {
		t.Fatal("error swallowed")
	}
	if batch != nil || rootId != ident.Missing {
		t.Errorf("partial result leaked: %d, %v", rootId, batch)
	}
}

func TestDirectoryMissingRoot(t *testing.T) {
	_, _, err := Directory(context.Background(), fsio.Local{}, ident.New(), filepath.Join(t.TempDir(), "nope"))
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("expected ErrNotExist, got %v", err)
	}
}

func TestImagesAreFlattenedAndDecoded(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "top.png"))
	writePNG(t, filepath.Join(root, "album", "inner.png"))
	writeFile(t, filepath.Join(root, "readme.md"), "")

	displayIds := ident.New()
	batch, err := Images(context.Background(), fsio.Local{}, ident.New(), displayIds, root)
	if err != nil {
		t.Fatal(err)
	}
	if len(batch) != 2 {
		t.Fatalf("got %d nodes, expected 2 images", len(batch))
	}
	seenDisplay := map[ident.Id]bool{}
	for _, n := range batch {
		img, ok := n.Content.(*node.Image)
		if !ok {
			t.Fatalf("non-image node %+v", n)
		}
		if img.Picture == nil || img.Picture.Width != 2 {
			t.Errorf("%s not decoded", n.Name)
		}
		seenDisplay[img.DisplayId] = true
	}
	if !seenDisplay[1] || !seenDisplay[2] {
		t.Errorf("display ids not numbered from 1: %v", seenDisplay)
	}
}

func TestImagesAbortOnUndecodable(t *testing.T) {
	root := t.TempDir()
	writePNG(t, filepath.Join(root, "good.png"))
	writeFile(t, filepath.Join(root, "bad.png"), "definitely not a png")
	batch, err := Images(context.Background(), fsio.Local{}, ident.New(), ident.New(), root)
	if err == nil || batch != nil {
		t.Errorf("expected aborted ingestion, got %v / %v", batch, err)
	}
}
