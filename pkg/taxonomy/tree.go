package taxonomy

import (
	"github.com/gnames/gnamed/pkg/entity"
)

// Tree resolves taxonomy ids. It is read-only after construction and
// safe for concurrent readers.
type Tree struct {
	nodes map[int]Node
}

// NewTree creates a tree from nodes without validation. Use Builder to
// construct a validated tree from dump streams.
func NewTree(nodes []Node) *Tree {
	res := &Tree{nodes: make(map[int]Node, len(nodes))}
	for _, v := range nodes {
		res.nodes[v.ID] = v
	}
	return res
}

// Len returns the number of nodes, including merged ones.
func (t *Tree) Len() int {
	return len(t.nodes)
}

// Node returns a node by id.
func (t *Tree) Node(id int) (Node, bool) {
	n, ok := t.nodes[id]
	return n, ok
}

// Resolve follows merged nodes to a canonical species. Unknown ids,
// dangling merges and cycles resolve to entity.UnknownSpecies. Resolve
// never fails and Resolve(Resolve(id)) == Resolve(id).
func (t *Tree) Resolve(id int) int {
	// merge chains are short, the bound only guards corrupt data
	for range len(t.nodes) + 1 {
		n, ok := t.nodes[id]
		if !ok {
			return entity.UnknownSpecies
		}
		if !n.Merged() {
			return n.ID
		}
		id = n.ParentID
	}
	return entity.UnknownSpecies
}

// ResolvePtr resolves an optional raw id; nil gives the unknown species.
func (t *Tree) ResolvePtr(id *int) int {
	if id == nil {
		return entity.UnknownSpecies
	}
	return t.Resolve(*id)
}
