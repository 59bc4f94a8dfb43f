package taxonomy

import (
	"fmt"
	"maps"
	"slices"

	"github.com/gnames/gnamed/pkg/entity"
)

// Report summarizes a bootstrap, including irregularities that do not
// prevent it.
type Report struct {
	Nodes           int
	Merged          int
	Names           int
	DanglingParents int
	DanglingMerges  int
	FallbackAdded   bool

	// SkippedNames refer to nodes missing from the dump.
	SkippedNames int
	// SkippedMerges would retire the unknown species.
	SkippedMerges int
	// Canonical counts names added by the canonical form parser.
	Canonical int
}

// Builder consumes nodes, names and merges streams and produces the
// species tree.
type Builder struct {
	species map[int]*Species
	merges  []MergeRow
}

// NewBuilder creates an empty Builder.
func NewBuilder() *Builder {
	return &Builder{species: make(map[int]*Species)}
}

// AddNode adds a node. A node that is its own parent is a root.
func (b *Builder) AddNode(row NodeRow) {
	parent := row.ParentID
	if parent == row.ID {
		parent = 0
	}
	sp, ok := b.species[row.ID]
	if !ok {
		sp = &Species{}
		b.species[row.ID] = sp
	}
	sp.Node = Node{ID: row.ID, ParentID: parent, Rank: row.Rank}
}

// AddName attaches a name to an already added node.
func (b *Builder) AddName(row NameRow) error {
	sp, ok := b.species[row.ID]
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownNode, row.ID)
	}
	switch row.Category {
	case CatScientific:
		sp.UniqueName = row.Name
		if row.UniqueName != "" {
			sp.UniqueName = row.UniqueName
		}
	case CatGenbankCommon:
		sp.GenbankName = row.Name
	}
	name := Name{Category: row.Category, Name: row.Name}
	if !slices.Contains(sp.Names, name) {
		sp.Names = append(sp.Names, name)
	}
	return nil
}

// AddMerge records a redirect from a retired id to its replacement.
// Merges are applied in Build, after all nodes are known.
func (b *Builder) AddMerge(row MergeRow) {
	b.merges = append(b.merges, row)
}

// Build applies merges, validates the tree and returns it with all
// species sorted by id. Cyclic merge or parent chains are errors.
func (b *Builder) Build() (*Tree, []Species, Report, error) {
	var rep Report
	for _, m := range b.merges {
		// unknown ids resolve to the sentinel, it cannot be merged
		if m.OldID == entity.UnknownSpecies {
			rep.SkippedMerges++
			continue
		}
		// merge overwrites the retired node, names included
		b.species[m.OldID] = &Species{
			Node: Node{ID: m.OldID, ParentID: m.NewID, Rank: RankMerged},
		}
	}

	if _, ok := b.species[Fallback.ID]; !ok {
		sp := Fallback
		b.species[sp.ID] = &sp
		rep.FallbackAdded = true
	}

	nodes := make([]Node, 0, len(b.species))
	for _, sp := range b.species {
		nodes = append(nodes, sp.Node)
	}
	tree := NewTree(nodes)

	for _, sp := range b.species {
		if sp.Merged() {
			rep.Merged++
		} else {
			rep.Nodes++
		}
		rep.Names += len(sp.Names)
		if sp.ParentID == 0 {
			continue
		}
		if _, ok := tree.nodes[sp.ParentID]; !ok {
			if sp.Merged() {
				rep.DanglingMerges++
			} else {
				rep.DanglingParents++
			}
		}
	}

	if err := checkCycles(tree); err != nil {
		return nil, nil, rep, err
	}

	res := make([]Species, 0, len(b.species))
	for _, id := range slices.Sorted(maps.Keys(b.species)) {
		res = append(res, *b.species[id])
	}
	return tree, res, rep, nil
}

// checkCycles walks every parent chain once. Nodes on a finished chain
// are marked done so the walk is linear in the number of nodes.
func checkCycles(t *Tree) error {
	const (
		visiting = 1
		done     = 2
	)
	state := make(map[int]int, len(t.nodes))

	for _, id := range slices.Sorted(maps.Keys(t.nodes)) {
		var path []int
		cur := id
		for {
			if state[cur] == done {
				break
			}
			if state[cur] == visiting {
				cycle := path[slices.Index(path, cur):]
				for _, v := range cycle {
					if t.nodes[v].Merged() {
						return fmt.Errorf("%w: through node %d", ErrMergeCycle, v)
					}
				}
				return fmt.Errorf("%w: through node %d", ErrParentCycle, cur)
			}
			n, ok := t.nodes[cur]
			if !ok {
				break
			}
			state[cur] = visiting
			path = append(path, cur)
			if n.ParentID == 0 {
				break
			}
			cur = n.ParentID
		}
		for _, v := range path {
			state[v] = done
		}
	}
	return nil
}
