// Package ingest turns directories on disk into detached batches of workspace nodes.
// Nothing is merged anywhere; on error the partial batch is dropped.
package ingest

import (
	"context"
	"path/filepath"

	"github.com/n2code/docspace/internal/fsio"
	"github.com/n2code/docspace/internal/ident"
	"github.com/n2code/docspace/internal/node"
)

type pendingDir struct {
	dir  *node.RealDir
	path string
}

// Directory collects all folders and markdown files below root.
// The root node comes back expanded, all nested folders collapsed.
func Directory(ctx context.Context, fsa fsio.Adapter, ids *ident.Allocator, root string) (ident.Id, map[ident.Id]*node.Node, error) {
	root = filepath.Clean(root)
	batch := make(map[ident.Id]*node.Node)

	rootId := ids.Next()
	rootDir := &node.RealDir{Path: root, Expanded: true}
	batch[rootId] = &node.Node{Id: rootId, Name: filepath.Base(root), Content: rootDir}

	stack := []pendingDir{{dir: rootDir, path: root}}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fsa.ReadDir(ctx, current.path)
		if err != nil {
			return ident.Missing, nil, err
		}
		for _, entry := range entries {
			path := filepath.Join(current.path, entry.Name())
			var content node.Content
			switch {
			case entry.IsDir():
				sub := &node.RealDir{Path: path}
				stack = append(stack, pendingDir{dir: sub, path: path})
				content = sub
			case fsio.IsMarkdown(entry.Name()):
				content = &node.Document{Path: path}
			default:
				continue
			}
			id := ids.Next()
			batch[id] = &node.Node{Id: id, Name: entry.Name(), Content: content}
			current.dir.Children = append(current.dir.Children, id)
		}
	}
	return rootId, batch, nil
}

// Images decodes every image file below root into a flat batch of image nodes.
// Display ids come from their own allocator, in discovery order.
func Images(ctx context.Context, fsa fsio.Adapter, ids *ident.Allocator, displayIds *ident.Allocator, root string) (map[ident.Id]*node.Node, error) {
	batch := make(map[ident.Id]*node.Node)
	stack := []string{filepath.Clean(root)}
	for len(stack) > 0 {
		current := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := fsa.ReadDir(ctx, current)
		if err != nil {
			return nil, err
		}
		for _, entry := range entries {
			path := filepath.Join(current, entry.Name())
			if entry.IsDir() {
				stack = append(stack, path)
				continue
			}
			if !fsio.IsImage(entry.Name()) {
				continue
			}
			picture, err := fsa.DecodeImage(ctx, path)
			if err != nil {
				return nil, err
			}
			id := ids.Next()
			batch[id] = &node.Node{Id: id, Name: entry.Name(), Content: &node.Image{
				Path:      path,
				DisplayId: displayIds.Next(),
				Picture:   picture,
			}}
		}
	}
	return batch, nil
}
