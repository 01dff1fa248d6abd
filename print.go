package docspace

import (
	"fmt"
	"strings"

	"github.com/n2code/docspace/internal/node"
	"github.com/n2code/docspace/internal/output"
	"github.com/n2code/docspace/internal/workspace"
)

func (d *docspace) PrintTree(root Id, includeCollapsed bool) error {
	roots := []Id{root}
	if root == MissingId {
		roots = d.Roots()
	}
	rootPaths := d.rootPaths()
	wd := mustGetwd()
	active := d.Active()

	var rendered []string
	var missing Id
	d.View(func(tree *Tree) {
		for _, r := range roots {
			if _, exists := tree.Get(r); !exists {
				missing = r
				return
			}
			var visual *output.VisualTree
			hiddenBelow := -1
			for v := range tree.Traverse(r) {
				if hiddenBelow >= 0 {
					if v.Depth > hiddenBelow {
						continue
					}
					hiddenBelow = -1
				}
				label := d.label(v, active, rootPaths, wd)
				if visual == nil {
					visual = output.NewVisualTree(label)
				} else {
					visual.Insert(v.Depth, label)
				}
				if v.Collapsed && !includeCollapsed {
					hiddenBelow = v.Depth
				}
			}
			rendered = append(rendered, visual.Render())
		}
	})
	if missing != MissingId {
		return newNodeError("cannot print tree below", missing, workspace.NotFound)
	}
	if len(rendered) == 0 {
		fmt.Fprintln(d.extraOut, "Workspace is empty.")
	}
	for _, r := range rendered {
		fmt.Fprint(d.out, r)
	}
	return nil
}

func (d *docspace) label(v node.Visit, active Id, rootPaths []string, wd string) string {
	n := v.Node
	var text strings.Builder
	fmt.Fprintf(&text, "#%s ", n.Id)
	switch c := n.Content.(type) {
	case *node.RealDir:
		if v.Depth == 0 {
			text.WriteString(displayPath(c.Path, nil, wd))
		} else {
			text.WriteString(n.Name + dirSeparator)
		}
		if v.Collapsed {
			text.WriteString(d.dim(fmt.Sprintf(" [+%d]", len(c.Children))))
		}
	case *node.TempDir:
		text.WriteString("<" + n.Name + ">")
		if v.Collapsed {
			text.WriteString(d.dim(fmt.Sprintf(" [+%d]", len(c.Children))))
		}
	case *node.Document:
		if n.Id == active && d.fancyTerminalFeatures {
			text.WriteString(output.TerminalFormatAsBold(n.Name))
		} else {
			text.WriteString(n.Name)
		}
		if c.Dirty() {
			text.WriteString(" *")
		}
		if c.Temporary() {
			text.WriteString(d.dim(" (unsaved)"))
		} else if !isBelowAny(c.Path, rootPaths) {
			text.WriteString(d.dim(" -> " + d.displayablePath(c.Path, rootPaths, wd)))
		}
	case *node.Image:
		text.WriteString(n.Name)
		data := workspace.ImageData{DisplayId: c.DisplayId}
		if c.Picture != nil {
			text.WriteString(d.dim(fmt.Sprintf(" [%s, %dx%d]", data.Label(), c.Picture.Width, c.Picture.Height)))
		} else {
			text.WriteString(d.dim(fmt.Sprintf(" [%s]", data.Label())))
		}
	}
	return text.String()
}

func isBelowAny(path string, roots []string) bool {
	for _, root := range roots {
		if isChildOf(path, root) {
			return true
		}
	}
	return false
}

func (d *docspace) dim(text string) string {
	if d.fancyTerminalFeatures {
		return output.TerminalFormatAsDim(text)
	}
	return text
}

type documentState struct {
	id        Id
	name      string
	path      string
	version   uint64
	persisted uint64
	size      int
}

func (d *docspace) PrintStatus() {
	roots := d.Roots()
	rootPaths := d.rootPaths()
	active, selected := d.Active(), d.Selected()
	settings := d.Settings()
	wd := mustGetwd()

	var unsaved []documentState
	var current *documentState
	nodeCount := 0
	d.View(func(tree *Tree) {
		nodeCount = tree.Len()
		seen := map[Id]bool{}
		for _, root := range roots {
			for v := range tree.Traverse(root) {
				doc, isDoc := v.Node.Content.(*node.Document)
				if !isDoc || seen[v.Node.Id] {
					continue
				}
				seen[v.Node.Id] = true
				text, _ := doc.Cached()
				state := documentState{id: v.Node.Id, name: v.Node.Name, path: doc.Path, version: doc.Version, persisted: doc.Persisted, size: len(text)}
				if v.Node.Id == active {
					current = &state
				}
				if doc.Dirty() {
					unsaved = append(unsaved, state)
				}
			}
		}
	})

	describePath := func(path string) string {
		if path == "" {
			return "never saved"
		}
		return d.displayablePath(path, rootPaths, wd)
	}

	if current != nil {
		fmt.Fprintf(d.out, "Active document: %s #%s (%s)\n", current.name, current.id, describePath(current.path))
		fmt.Fprintf(d.extraOut, "%s\n", output.Indent(2, fmt.Sprintf("version %d, last persisted %d, %s in memory", current.version, current.persisted, output.Filesize(int64(current.size)))))
	} else {
		fmt.Fprintln(d.out, "No active document.")
	}
	if selected != MissingId && selected != active {
		fmt.Fprintf(d.extraOut, "Selected: %s\n", d.describe(selected))
	}

	if len(unsaved) == 0 {
		fmt.Fprintln(d.out, "All documents saved.")
	} else {
		fmt.Fprintf(d.out, "%d %s with unsaved changes:\n", len(unsaved), output.Plural(unsaved, "document", "documents"))
		for _, doc := range unsaved {
			fmt.Fprintf(d.out, "  #%s %s (%s)\n", doc.id, doc.name, describePath(doc.path))
		}
	}

	autosave := "off"
	if settings.AutoSave {
		autosave = fmt.Sprintf("on, after %s", settings.AutoSaveDelay)
	}
	fmt.Fprintf(d.extraOut, "Autosave: %s\n", autosave)
	fmt.Fprintf(d.extraOut, "Workspace: %d %s below %d %s\n", nodeCount, output.Plural(nodeCount, "node", "nodes"), len(roots), output.Plural(roots, "root", "roots"))
	stats := d.IoStatistics()
	fmt.Fprintf(d.verboseOut, "Filesystem: %d listings, %d reads, %d decodes, %d writes\n", stats.Listings, stats.Reads, stats.Decodes, stats.Writes)
}
