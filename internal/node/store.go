package node

import (
	"fmt"
	"iter"

	"github.com/n2code/docspace/internal/ident"
)

// SyntheticRoot selects one of the two lazily created grouping roots.
type SyntheticRoot int

const (
	TempWorkspace SyntheticRoot = iota
	ImageLibrary
)

func (k SyntheticRoot) String() string {
	switch k {
	case TempWorkspace:
		return "Temporary Workspace"
	case ImageLibrary:
		return "Image Library"
	}
	return fmt.Sprintf("SyntheticRoot(%d)", int(k))
}

// Store is the arena of all nodes. It performs no locking, its owner serializes access.
type Store struct {
	nodes     map[ident.Id]*Node
	synthetic map[SyntheticRoot]ident.Id
}

func NewStore() *Store {
	return &Store{nodes: make(map[ident.Id]*Node), synthetic: make(map[SyntheticRoot]ident.Id)}
}

func (s *Store) Get(id ident.Id) (*Node, bool) {
	n, ok := s.nodes[id]
	return n, ok
}

func (s *Store) Put(n *Node) {
	s.nodes[n.Id] = n
}

// Merge adopts the result of an ingestion. Ids are globally unique so nothing is overwritten.
func (s *Store) Merge(batch map[ident.Id]*Node) {
	for id, n := range batch {
		s.nodes[id] = n
	}
}

func (s *Store) Len() int {
	return len(s.nodes)
}

// SyntheticRootId returns the id of the given root if it was created already.
func (s *Store) SyntheticRootId(kind SyntheticRoot) (ident.Id, bool) {
	id, ok := s.synthetic[kind]
	return id, ok
}

// InsertUnderSyntheticRoot appends ids to the chosen grouping root, creating it on first use.
func (s *Store) InsertUnderSyntheticRoot(kind SyntheticRoot, alloc *ident.Allocator, ids ...ident.Id) (root ident.Id) {
	root, exists := s.synthetic[kind]
	if !exists {
		root = alloc.Next()
		s.nodes[root] = &Node{Id: root, Name: kind.String(), Content: &TempDir{Expanded: true}}
		s.synthetic[kind] = root
	}
	dir := s.nodes[root].Content.(*TempDir)
	dir.Children = append(dir.Children, ids...)
	return root
}

// Visit is one step of a traversal. Collapsed marks directories whose children the renderer may skip.
type Visit struct {
	Node      *Node
	Depth     int
	Collapsed bool
}

// Traverse yields the subtree below root in depth-first preorder, children in insertion order.
// Collapsed directories are still descended into. Each call starts from scratch.
func (s *Store) Traverse(root ident.Id) iter.Seq[Visit] {
	return func(yield func(Visit) bool) {
		type pending struct {
			id    ident.Id
			depth int
		}
		stack := []pending{{id: root}}
		for len(stack) > 0 {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			n, ok := s.nodes[top.id]
			if !ok {
				continue
			}
			if !yield(Visit{Node: n, Depth: top.depth, Collapsed: n.IsDir() && !n.Expanded()}) {
				return
			}
			children := n.Children()
			for i := len(children) - 1; i >= 0; i-- {
				stack = append(stack, pending{id: children[i], depth: top.depth + 1})
			}
		}
	}
}
