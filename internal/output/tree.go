package output

import (
	"github.com/disiqueira/gotree/v3"
)

// VisualTree renders nodes fed in depth-first preorder.
type VisualTree struct {
	tree   gotree.Tree
	levels []gotree.Tree //most recent node per depth
}

func NewVisualTree(rootLabel string) *VisualTree {
	root := gotree.New(rootLabel)
	return &VisualTree{tree: root, levels: []gotree.Tree{root}}
}

// Insert attaches a node below the most recent node one level up. The root has depth 0.
// Depths deeper than the current one are clamped so that malformed input still renders.
func (t *VisualTree) Insert(depth int, label string) {
	if depth < 1 {
		depth = 1
	}
	if depth > len(t.levels) {
		depth = len(t.levels)
	}
	child := t.levels[depth-1].Add(label)
	t.levels = append(t.levels[:depth], child)
}

func (t *VisualTree) Render() string {
	return t.tree.Print()
}
