// Package node holds the workspace tree: an arena of nodes addressed by id.
package node

import (
	"github.com/n2code/docspace/internal/fsio"
	"github.com/n2code/docspace/internal/ident"
)

// Node is a named entry in the workspace. Content is one of *RealDir, *TempDir, *Document, *Image.
type Node struct {
	Id      ident.Id
	Name    string
	Content Content
}

// Content is closed to the variants of this package.
type Content interface {
	isContent()
}

// RealDir is a folder on disk below an opened workspace root.
type RealDir struct {
	Path     string
	Children []ident.Id
	Expanded bool
}

// TempDir groups content that did not come from an opened folder. It is never written anywhere.
type TempDir struct {
	Children []ident.Id
	Expanded bool
}

// Document is a markdown file, possibly not yet saved anywhere (empty Path).
type Document struct {
	Path      string
	Version   uint64 //incremented once per edit
	Persisted uint64 //version of the last successful save or fresh read
	// Generation changes whenever the version numbering restarts so that
	// delayed checks from an earlier epoch cannot match by accident.
	Generation uint64
	cache      string
	cached     bool
}

// Image is an imported picture. DisplayId numbers images independently of node ids.
type Image struct {
	Path      string
	DisplayId ident.Id
	Picture   *fsio.Picture //nil until decoded
}

func (*RealDir) isContent()  {}
func (*TempDir) isContent()  {}
func (*Document) isContent() {}
func (*Image) isContent()    {}

// Children returns the child ids of directory nodes and nil for leaves.
func (n *Node) Children() []ident.Id {
	switch c := n.Content.(type) {
	case *RealDir:
		return c.Children
	case *TempDir:
		return c.Children
	case *Document, *Image:
		return nil
	}
	return nil
}

func (n *Node) IsDir() bool {
	switch n.Content.(type) {
	case *RealDir, *TempDir:
		return true
	}
	return false
}

// Expanded reports the folding state of directories, leaves count as expanded.
func (n *Node) Expanded() bool {
	switch c := n.Content.(type) {
	case *RealDir:
		return c.Expanded
	case *TempDir:
		return c.Expanded
	}
	return true
}

// ToggleExpanded flips the folding state and reports whether the node was a directory.
func (n *Node) ToggleExpanded() bool {
	switch c := n.Content.(type) {
	case *RealDir:
		c.Expanded = !c.Expanded
		return true
	case *TempDir:
		c.Expanded = !c.Expanded
		return true
	}
	return false
}

func (d *Document) Cached() (text string, ok bool) {
	return d.cache, d.cached
}

func (d *Document) SetCache(text string) {
	d.cache, d.cached = text, true
}

// DropCache forgets in-memory content; the next load starts a new version epoch.
func (d *Document) DropCache() {
	d.cache, d.cached = "", false
}

// Edit records a content change and returns the new version.
func (d *Document) Edit(text string) uint64 {
	d.Version++
	d.SetCache(text)
	return d.Version
}

// Reload installs freshly read content as clean version 0 of a new epoch.
func (d *Document) Reload(text string) {
	d.Version, d.Persisted = 0, 0
	d.Generation++
	d.SetCache(text)
}

// Discard drops all unsaved state so that the next access reads from disk again.
func (d *Document) Discard() {
	d.DropCache()
	d.Version, d.Persisted = 0, 0
	d.Generation++
}

func (d *Document) Dirty() bool {
	return d.Version != d.Persisted
}

// Temporary documents have never been saved.
func (d *Document) Temporary() bool {
	return d.Path == ""
}
