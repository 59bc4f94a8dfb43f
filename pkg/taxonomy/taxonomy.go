// Package taxonomy keeps the species tree and resolves taxonomy ids,
// including retired ones, to canonical species.
package taxonomy

import (
	"errors"

	"github.com/gnames/gnamed/pkg/entity"
)

// RankMerged marks a node that only redirects to its replacement.
const RankMerged = "merged"

// Name categories used by NCBI that get special treatment.
const (
	CatScientific    = "scientific name"
	CatGenbankCommon = "genbank common name"
	CatAuthority     = "authority"
	CatCanonical     = "canonical name"
)

var (
	ErrUnknownNode = errors.New("name refers to unknown node")
	ErrMergeCycle  = errors.New("cyclic merge chain")
	ErrParentCycle = errors.New("cyclic parent chain")
)

// NodeRow is a (id, parent_id, rank) tuple of the nodes stream.
type NodeRow struct {
	ID       int
	ParentID int
	Rank     string
}

// NameRow is a (id, category, name) tuple of the names stream.
// UniqueName is the optional disambiguated form NCBI provides.
type NameRow struct {
	ID         int
	Category   string
	Name       string
	UniqueName string
}

// MergeRow is a (old_id, new_id) tuple of the merges stream.
type MergeRow struct {
	OldID int
	NewID int
}

// Node is the part of a species the resolver needs. ParentID is 0 for
// roots.
type Node struct {
	ID       int
	ParentID int
	Rank     string
}

// Merged is true for redirect-only nodes.
func (n Node) Merged() bool {
	return n.Rank == RankMerged
}

// Species is a row of the species table.
type Species struct {
	Node
	UniqueName  string
	GenbankName string
	Names       []Name
}

// Name is a row of the species names table.
type Name struct {
	Category string
	Name     string
}

// Fallback is the node added when a dump does not define the unknown
// species.
var Fallback = Species{
	Node:       Node{ID: entity.UnknownSpecies, Rank: "no rank"},
	UniqueName: "unidentified",
}
