package taxonomy_test

import (
	"errors"
	"testing"

	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/taxonomy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildTree(
	t *testing.T,
	nodes []taxonomy.NodeRow,
	merges []taxonomy.MergeRow,
) (*taxonomy.Tree, []taxonomy.Species, taxonomy.Report) {
	t.Helper()
	b := taxonomy.NewBuilder()
	for _, v := range nodes {
		b.AddNode(v)
	}
	for _, v := range merges {
		b.AddMerge(v)
	}
	tree, sp, rep, err := b.Build()
	require.NoError(t, err)
	return tree, sp, rep
}

func TestResolve(t *testing.T) {
	nodes := []taxonomy.NodeRow{
		{ID: 1, ParentID: 1, Rank: "no rank"},
		{ID: 100, ParentID: 1, Rank: "species"},
		{ID: 200, ParentID: 1, Rank: "species"},
		{ID: 300, ParentID: 200, Rank: "subspecies"},
	}
	merges := []taxonomy.MergeRow{
		{OldID: 100, NewID: 200},
		{OldID: 50, NewID: 100},
		{OldID: 60, NewID: 999},
	}
	tree, _, rep := buildTree(t, nodes, merges)

	tests := []struct {
		msg string
		id  int
		res int
	}{
		{"canonical node", 200, 200},
		{"non-merged child", 300, 300},
		{"root", 1, 1},
		{"merged node", 100, 200},
		{"merge chain", 50, 200},
		{"unknown id", 999, entity.UnknownSpecies},
		{"dangling merge", 60, entity.UnknownSpecies},
		{"fallback itself", entity.UnknownSpecies, entity.UnknownSpecies},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			res := tree.Resolve(tt.id)
			assert.Equal(t, tt.res, res)
			assert.Equal(t, res, tree.Resolve(res), "idempotent")
			n, ok := tree.Node(res)
			assert.True(t, ok)
			assert.False(t, n.Merged())
		})
	}

	assert.Equal(t, entity.UnknownSpecies, tree.ResolvePtr(nil))
	assert.True(t, rep.FallbackAdded)
	assert.Equal(t, 1, rep.DanglingMerges)
	assert.Equal(t, 3, rep.Merged)
}

func TestResolveCorruptTree(t *testing.T) {
	// NewTree skips validation, Resolve still terminates
	tree := taxonomy.NewTree([]taxonomy.Node{
		{ID: 1, ParentID: 2, Rank: taxonomy.RankMerged},
		{ID: 2, ParentID: 1, Rank: taxonomy.RankMerged},
	})
	assert.Equal(t, entity.UnknownSpecies, tree.Resolve(1))
}

func TestBuildCycles(t *testing.T) {
	tests := []struct {
		msg    string
		nodes  []taxonomy.NodeRow
		merges []taxonomy.MergeRow
		err    error
	}{
		{
			msg: "merge cycle",
			nodes: []taxonomy.NodeRow{
				{ID: 1, ParentID: 1, Rank: "no rank"},
			},
			merges: []taxonomy.MergeRow{
				{OldID: 10, NewID: 11},
				{OldID: 11, NewID: 12},
				{OldID: 12, NewID: 10},
			},
			err: taxonomy.ErrMergeCycle,
		},
		{
			msg: "self merge",
			merges: []taxonomy.MergeRow{
				{OldID: 10, NewID: 10},
			},
			err: taxonomy.ErrMergeCycle,
		},
		{
			msg: "parent cycle",
			nodes: []taxonomy.NodeRow{
				{ID: 2, ParentID: 3, Rank: "genus"},
				{ID: 3, ParentID: 2, Rank: "family"},
			},
			err: taxonomy.ErrParentCycle,
		},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			b := taxonomy.NewBuilder()
			for _, v := range tt.nodes {
				b.AddNode(v)
			}
			for _, v := range tt.merges {
				b.AddMerge(v)
			}
			_, _, _, err := b.Build()
			assert.True(t, errors.Is(err, tt.err), err)
		})
	}
}

func TestBuildSpecies(t *testing.T) {
	b := taxonomy.NewBuilder()
	b.AddNode(taxonomy.NodeRow{ID: 1, ParentID: 1, Rank: "no rank"})
	b.AddNode(taxonomy.NodeRow{ID: 9606, ParentID: 1, Rank: "species"})
	b.AddNode(taxonomy.NodeRow{ID: 9605, ParentID: 1, Rank: "genus"})
	b.AddNode(taxonomy.NodeRow{ID: 32644, ParentID: 1, Rank: "species"})

	names := []taxonomy.NameRow{
		{ID: 9606, Category: taxonomy.CatScientific, Name: "Homo sapiens"},
		{ID: 9606, Category: taxonomy.CatGenbankCommon, Name: "human"},
		{ID: 9606, Category: "common name", Name: "man"},
		{ID: 9606, Category: "common name", Name: "man"},
		{ID: 9605, Category: taxonomy.CatScientific, Name: "Homo",
			UniqueName: "Homo <primates>"},
	}
	for _, v := range names {
		require.NoError(t, b.AddName(v))
	}
	err := b.AddName(taxonomy.NameRow{ID: 5, Category: "x", Name: "y"})
	assert.True(t, errors.Is(err, taxonomy.ErrUnknownNode))

	b.AddMerge(taxonomy.MergeRow{OldID: 63221, NewID: 9606})

	tree, sp, rep, err := b.Build()
	require.NoError(t, err)
	assert.False(t, rep.FallbackAdded)
	assert.Equal(t, 4, rep.Nodes)
	assert.Equal(t, 1, rep.Merged)
	assert.Equal(t, 4, rep.Names)
	assert.Equal(t, 5, tree.Len())

	require.Len(t, sp, 5)
	ids := make([]int, len(sp))
	for i := range sp {
		ids[i] = sp[i].ID
	}
	assert.Equal(t, []int{1, 9605, 9606, 32644, 63221}, ids)

	root := sp[0]
	assert.Equal(t, 0, root.ParentID)

	homo := sp[1]
	assert.Equal(t, "Homo <primates>", homo.UniqueName)

	human := sp[2]
	assert.Equal(t, "Homo sapiens", human.UniqueName)
	assert.Equal(t, "human", human.GenbankName)
	assert.Len(t, human.Names, 3)

	merged := sp[4]
	assert.True(t, merged.Merged())
	assert.Equal(t, 9606, merged.ParentID)
	assert.Empty(t, merged.Names)
	assert.Equal(t, 9606, tree.Resolve(63221))
}

func TestMergeOverwritesNode(t *testing.T) {
	b := taxonomy.NewBuilder()
	b.AddNode(taxonomy.NodeRow{ID: 1, ParentID: 1, Rank: "no rank"})
	b.AddNode(taxonomy.NodeRow{ID: 100, ParentID: 1, Rank: "species"})
	b.AddNode(taxonomy.NodeRow{ID: 200, ParentID: 1, Rank: "species"})
	require.NoError(t, b.AddName(taxonomy.NameRow{
		ID: 100, Category: taxonomy.CatScientific, Name: "Aus bus"}))
	b.AddMerge(taxonomy.MergeRow{OldID: 100, NewID: 200})

	tree, sp, _, err := b.Build()
	require.NoError(t, err)
	assert.Equal(t, 200, tree.Resolve(100))
	for _, v := range sp {
		if v.ID == 100 {
			assert.Equal(t, taxonomy.RankMerged, v.Rank)
			assert.Empty(t, v.UniqueName)
			assert.Empty(t, v.Names)
		}
	}
}

func TestMergeOfUnknownSpecies(t *testing.T) {
	nodes := []taxonomy.NodeRow{
		{ID: 1, ParentID: 1, Rank: "no rank"},
		{ID: 9606, ParentID: 1, Rank: "species"},
		{ID: entity.UnknownSpecies, ParentID: 1, Rank: "species"},
	}
	merges := []taxonomy.MergeRow{{OldID: entity.UnknownSpecies, NewID: 9606}}

	tree, _, rep := buildTree(t, nodes, merges)
	assert.Equal(t, 1, rep.SkippedMerges)
	assert.Equal(t, 0, rep.Merged)

	for _, id := range []int{999, entity.UnknownSpecies} {
		res := tree.Resolve(id)
		assert.Equal(t, entity.UnknownSpecies, res)
		n, ok := tree.Node(res)
		require.True(t, ok)
		assert.False(t, n.Merged())
	}
}
