package unify_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/taxonomy"
	"github.com/gnames/gnamed/pkg/unify"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func testTree() *taxonomy.Tree {
	return taxonomy.NewTree([]taxonomy.Node{
		{ID: 1, Rank: "no rank"},
		{ID: 9606, ParentID: 1, Rank: "species"},
		{ID: 10090, ParentID: 1, Rank: "species"},
		{ID: 63221, ParentID: 9606, Rank: taxonomy.RankMerged},
		{ID: entity.UnknownSpecies, ParentID: 1, Rank: "species"},
	})
}

func newEngine() *unify.Engine {
	return unify.NewEngine(
		testTree(),
		unify.NewIDAllocator(0, 0),
		entity.NewRegistry(),
	)
}

func process(
	t *testing.T,
	eng *unify.Engine,
	repo unify.Repo,
	k entity.Kind,
	rec entity.Record,
) unify.Result {
	t.Helper()
	require.NoError(t, eng.Prepare(&rec, k))
	res, err := eng.Process(context.Background(), repo, &rec)
	require.NoError(t, err)
	return res
}

func entrezCDK2() entity.Record {
	return entity.Record{
		Namespace: "entrez",
		Accession: "1017",
		SpeciesID: ptr(9606),
		Symbol:    ptr("CDK2"),
		Metadata:  entity.Metadata{Chromosome: ptr("12")},
	}
}

func TestAnchoring(t *testing.T) {
	eng := newEngine()
	repo := unify.NewMemRepo()

	res := process(t, eng, repo, entity.Gene, entrezCDK2())
	assert.Equal(t, unify.Created, res.Outcome)
	assert.Equal(t, int64(1), res.EntityID)

	hgnc := entity.Record{
		Namespace: "hgnc",
		Accession: "HGNC:1771",
		SpeciesID: ptr(9606),
		CrossRefs: []entity.Ref{{Namespace: "entrez", Accession: "1017"}},
		Keywords:  []string{"kinase"},
	}
	res = process(t, eng, repo, entity.Gene, hgnc)
	assert.Equal(t, unify.Anchored, res.Outcome)
	assert.Equal(t, int64(1), res.EntityID)
	assert.Equal(t, entity.Ref{Namespace: "entrez", Accession: "1017"}, res.Anchor)

	ents := repo.Entities(entity.Gene)
	require.Len(t, ents, 1)
	assert.Equal(t, 9606, ents[0].SpeciesID)
	assert.Equal(t, "12", *ents[0].Attrs.(entity.GeneAttrs).Chromosome)

	refs := repo.Refs(entity.Gene)
	require.Len(t, refs, 2)
	assert.Equal(t, "entrez", refs[0].Namespace)
	assert.Equal(t, "hgnc", refs[1].Namespace)
	for _, v := range refs {
		assert.Equal(t, int64(1), v.EntityID)
	}

	assert.Contains(t, repo.Strings(entity.Gene), unify.StringRow{
		EntityID: 1,
		String:   entity.String{Category: entity.CatKeyword, Value: "kinase"},
	})
}

func TestScalarLastWriteWins(t *testing.T) {
	eng := newEngine()
	repo := unify.NewMemRepo()

	process(t, eng, repo, entity.Gene, entrezCDK2())

	b := entity.Record{
		Namespace: "hgnc",
		Accession: "HGNC:1771",
		CrossRefs: []entity.Ref{{Namespace: "entrez", Accession: "1017"}},
		Metadata:  entity.Metadata{Chromosome: ptr("X"), Location: ptr("Xp11")},
	}
	res := process(t, eng, repo, entity.Gene, b)
	assert.True(t, res.Updated)

	// nil values never clear
	c := entity.Record{Namespace: "entrez", Accession: "1017"}
	res = process(t, eng, repo, entity.Gene, c)
	assert.Equal(t, unify.Extended, res.Outcome)
	assert.False(t, res.Updated)

	attrs := repo.Entities(entity.Gene)[0].Attrs.(entity.GeneAttrs)
	assert.Equal(t, "X", *attrs.Chromosome)
	assert.Equal(t, "Xp11", *attrs.Location)

	// official symbol of a ref is a scalar too
	d := entity.Record{Namespace: "entrez", Accession: "1017",
		Symbol: ptr("CDK2A")}
	process(t, eng, repo, entity.Gene, d)
	ref, ok, err := repo.FindRef(context.Background(), entity.Gene,
		entity.Ref{Namespace: "entrez", Accession: "1017"})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "CDK2A", *ref.Symbol)
}

func TestIdempotence(t *testing.T) {
	eng := newEngine()
	repo := unify.NewMemRepo()

	rec := entrezCDK2()
	rec.Keywords = []string{"kinase", "cell cycle"}
	rec.PubMedIDs = []int{1, 2}

	process(t, eng, repo, entity.Gene, rec)
	strs := repo.Strings(entity.Gene)
	pubs := repo.PubMed(entity.Gene)
	refs := repo.Refs(entity.Gene)

	res := process(t, eng, repo, entity.Gene, rec)
	assert.Equal(t, unify.Extended, res.Outcome)
	assert.False(t, res.Updated)
	assert.Equal(t, 0, res.NewRefs)
	assert.Equal(t, strs, repo.Strings(entity.Gene))
	assert.Equal(t, pubs, repo.PubMed(entity.Gene))
	assert.Equal(t, refs, repo.Refs(entity.Gene))
	assert.Len(t, repo.Entities(entity.Gene), 1)
}

func TestPlaceholderRefs(t *testing.T) {
	eng := newEngine()
	repo := unify.NewMemRepo()

	// dependent source first: refs to unknown entrez ids become
	// placeholders of the new entity
	hgnc := entity.Record{
		Namespace: "hgnc",
		Accession: "HGNC:1771",
		SpeciesID: ptr(9606),
		CrossRefs: []entity.Ref{{Namespace: "entrez", Accession: "1017"}},
	}
	res := process(t, eng, repo, entity.Gene, hgnc)
	assert.Equal(t, unify.Created, res.Outcome)
	assert.Equal(t, []entity.Ref{{Namespace: "entrez", Accession: "1017"}},
		res.Placeholders)
	assert.Equal(t, 2, res.NewRefs)

	res = process(t, eng, repo, entity.Gene, entrezCDK2())
	assert.Equal(t, unify.Extended, res.Outcome)
	assert.Equal(t, int64(1), res.EntityID)

	refs := repo.Refs(entity.Gene)
	require.Len(t, refs, 2)
	assert.Equal(t, "CDK2", *refs[0].Symbol)
}

func TestSpeciesResolution(t *testing.T) {
	eng := newEngine()
	repo := unify.NewMemRepo()

	tests := []struct {
		msg     string
		species *int
		res     int
	}{
		{"known", ptr(10090), 10090},
		{"merged", ptr(63221), 9606},
		{"unknown", ptr(999), entity.UnknownSpecies},
		{"missing", nil, entity.UnknownSpecies},
	}

	for i, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			rec := entity.Record{
				Namespace: "entrez",
				Accession: string(rune('a' + i)),
				SpeciesID: tt.species,
			}
			res := process(t, eng, repo, entity.Gene, rec)
			ent, ok, err := repo.FindEntity(context.Background(),
				entity.Gene, res.EntityID)
			require.NoError(t, err)
			require.True(t, ok)
			assert.Equal(t, tt.res, ent.SpeciesID)
		})
	}
}

func TestCrossRefClassification(t *testing.T) {
	eng := newEngine()
	repo := unify.NewMemRepo()

	prot := entity.Record{Namespace: "uniprot", Accession: "P24941",
		SpeciesID: ptr(9606)}
	pres := process(t, eng, repo, entity.Protein, prot)
	assert.Equal(t, int64(1), pres.EntityID)

	mouse := entity.Record{Namespace: "mgd", Accession: "MGI:1", Kind: entity.Gene,
		SpeciesID: ptr(10090)}
	process(t, eng, repo, entity.Gene, mouse)

	rec := entity.Record{
		Namespace: "entrez",
		Accession: "1017",
		SpeciesID: ptr(9606),
		CrossRefs: []entity.Ref{
			{Namespace: "uniprot", Accession: "P24941"},
			{Namespace: "uniprot", Accession: "Q00000"},
			{Namespace: "mgd", Accession: "MGI:1"},
			{Namespace: "zfin", Accession: "ZDB-1"},
		},
	}
	res := process(t, eng, repo, entity.Gene, rec)
	assert.Equal(t, unify.Created, res.Outcome)
	assert.Equal(t, []int64{1}, res.Mappings)
	assert.Equal(t, 1, res.Links)
	assert.ElementsMatch(t, []entity.Ref{
		{Namespace: "mgd", Accession: "MGI:1"},
		{Namespace: "zfin", Accession: "ZDB-1"},
	}, res.Skipped)
	assert.Equal(t,
		[]entity.Mapping{{GeneID: res.EntityID, ProteinID: 1}},
		repo.Mappings(),
	)

	// protein side links back to the same pair
	prot.CrossRefs = []entity.Ref{{Namespace: "entrez", Accession: "1017"}}
	pres = process(t, eng, repo, entity.Protein, prot)
	assert.Equal(t, unify.Extended, pres.Outcome)
	assert.Len(t, repo.Mappings(), 1)
}

func TestConflictingAnchors(t *testing.T) {
	eng := newEngine()
	repo := unify.NewMemRepo()

	process(t, eng, repo, entity.Gene,
		entity.Record{Namespace: "entrez", Accession: "1"})
	process(t, eng, repo, entity.Gene,
		entity.Record{Namespace: "entrez", Accession: "2"})

	rec := entity.Record{
		Namespace: "hgnc",
		Accession: "HGNC:5",
		CrossRefs: []entity.Ref{
			{Namespace: "entrez", Accession: "2"},
			{Namespace: "entrez", Accession: "1"},
		},
	}
	res := process(t, eng, repo, entity.Gene, rec)
	assert.Equal(t, unify.Anchored, res.Outcome)
	assert.Equal(t, int64(1), res.EntityID, "first in sorted order wins")
	assert.Equal(t, []entity.Ref{{Namespace: "entrez", Accession: "2"}},
		res.Conflicts)
}

func TestPrepare(t *testing.T) {
	eng := newEngine()

	tests := []struct {
		msg    string
		rec    entity.Record
		kind   entity.Kind
		err    error
		result entity.Kind
	}{
		{"inherits kind", entity.Record{Namespace: "entrez",
			Accession: "1"}, entity.Gene, nil, entity.Gene},
		{"missing accession", entity.Record{Namespace: "entrez"},
			entity.Gene, entity.ErrMissingAccession, entity.Gene},
		{"over-long accession", entity.Record{Namespace: "entrez",
			Accession: strings.Repeat("1", 3000)},
			entity.Gene, entity.ErrLongAccession, entity.Gene},
		{"kind differs from source", entity.Record{Namespace: "x",
			Accession: "1", Kind: entity.Protein}, entity.Gene,
			unify.ErrInvalidRecord, entity.Protein},
		{"namespace of other kind", entity.Record{Namespace: "uniprot",
			Accession: "P1", Kind: entity.Gene}, entity.KindUnset,
			unify.ErrKindMismatch, entity.Gene},
	}

	for _, tt := range tests {
		t.Run(tt.msg, func(t *testing.T) {
			err := eng.Prepare(&tt.rec, tt.kind)
			if tt.err == nil {
				require.NoError(t, err)
			} else {
				assert.True(t, errors.Is(err, tt.err), err)
				assert.True(t, errors.Is(err, unify.ErrInvalidRecord))
			}
			assert.Equal(t, tt.result, tt.rec.Kind)
		})
	}
}

func TestMissingEntity(t *testing.T) {
	eng := newEngine()
	repo := unify.NewMemRepo()
	repo.PreloadRefs(entity.Gene, []entity.EntityRef{{
		Ref:      entity.Ref{Namespace: "entrez", Accession: "1"},
		EntityID: 42,
	}})
	rec := entity.Record{Namespace: "entrez", Accession: "1"}
	require.NoError(t, eng.Prepare(&rec, entity.Gene))
	_, err := eng.Process(context.Background(), repo, &rec)
	assert.True(t, errors.Is(err, unify.ErrMissingEntity))
}

func TestIDAllocator(t *testing.T) {
	ids := unify.NewIDAllocator(10, 0)
	assert.Equal(t, int64(11), ids.Next(entity.Gene))
	assert.Equal(t, int64(1), ids.Next(entity.Protein))

	mark := ids.Mark()
	assert.Equal(t, int64(12), ids.Next(entity.Gene))
	assert.Equal(t, int64(2), ids.Next(entity.Protein))
	ids.Reset(mark)
	assert.Equal(t, int64(11), ids.Last(entity.Gene))
	assert.Equal(t, int64(12), ids.Next(entity.Gene))
	assert.Equal(t, int64(2), ids.Next(entity.Protein))
}
