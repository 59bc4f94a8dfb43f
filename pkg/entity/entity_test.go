package entity_test

import (
	"testing"

	"github.com/gnames/gnamed/pkg/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func TestKind(t *testing.T) {
	tests := []struct {
		in    string
		kind  entity.Kind
		valid bool
	}{
		{"gene", entity.Gene, true},
		{" Protein ", entity.Protein, true},
		{"genes", entity.Gene, true},
		{"", entity.KindUnset, false},
		{"rna", entity.KindInvalid, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			k := entity.NewKind(tt.in)
			assert.Equal(t, tt.kind, k)
			assert.Equal(t, tt.valid, k.Valid())
		})
	}

	assert.Equal(t, entity.Protein, entity.Gene.Other())
	assert.Equal(t, entity.Gene, entity.Protein.Other())

	var k entity.Kind
	require.NoError(t, k.UnmarshalText([]byte("protein")))
	assert.Equal(t, entity.Protein, k)
	txt, err := k.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "protein", string(txt))
}

func TestAttributesOverwrite(t *testing.T) {
	t.Run("gene keeps value on nil", func(t *testing.T) {
		attrs := entity.NewAttributes(entity.Gene,
			entity.Metadata{Chromosome: ptr("12"), Location: ptr("12q13")})
		res, changed := attrs.Overwrite(entity.Metadata{})
		assert.False(t, changed)
		g := res.(entity.GeneAttrs)
		assert.Equal(t, "12", *g.Chromosome)
		assert.Equal(t, "12q13", *g.Location)
	})

	t.Run("gene last write wins", func(t *testing.T) {
		attrs := entity.NewAttributes(entity.Gene,
			entity.Metadata{Chromosome: ptr("12")})
		res, changed := attrs.Overwrite(entity.Metadata{Chromosome: ptr("X")})
		assert.True(t, changed)
		assert.Equal(t, "X", *res.(entity.GeneAttrs).Chromosome)

		_, changed = res.Overwrite(entity.Metadata{Chromosome: ptr("X")})
		assert.False(t, changed)
	})

	t.Run("protein ignores gene metadata", func(t *testing.T) {
		attrs := entity.NewAttributes(entity.Protein,
			entity.Metadata{Mass: ptr(int64(33930)), Chromosome: ptr("1")})
		assert.Equal(t, entity.Protein, attrs.Kind())
		p := attrs.(entity.ProteinAttrs)
		assert.Equal(t, int64(33930), *p.Mass)
		assert.Nil(t, p.Length)

		res, changed := attrs.Overwrite(entity.Metadata{Length: ptr(int64(298))})
		assert.True(t, changed)
		p = res.(entity.ProteinAttrs)
		assert.Equal(t, int64(33930), *p.Mass)
		assert.Equal(t, int64(298), *p.Length)
	})

	t.Run("overwrite does not alias input", func(t *testing.T) {
		chr := "7"
		attrs := entity.NewAttributes(entity.Gene, entity.Metadata{Chromosome: &chr})
		chr = "8"
		assert.Equal(t, "7", *attrs.(entity.GeneAttrs).Chromosome)
	})

	assert.Nil(t, entity.NewAttributes(entity.KindInvalid, entity.Metadata{}))
}

func TestEntityRefUpdate(t *testing.T) {
	ref := entity.EntityRef{
		Ref:      entity.Ref{Namespace: "entrez", Accession: "1017"},
		EntityID: 1,
		Symbol:   ptr("CDK2"),
	}
	res, changed := ref.Update(nil, ptr("cyclin dependent kinase 2"))
	assert.True(t, changed)
	assert.Equal(t, "CDK2", *res.Symbol)
	assert.Equal(t, "cyclin dependent kinase 2", *res.Name)

	_, changed = res.Update(ptr("CDK2"), nil)
	assert.False(t, changed)
}

func TestRefOrder(t *testing.T) {
	a := entity.Ref{Namespace: "entrez", Accession: "2"}
	b := entity.Ref{Namespace: "entrez", Accession: "10"}
	c := entity.Ref{Namespace: "hgnc", Accession: "1"}
	assert.True(t, b.Less(a))
	assert.True(t, a.Less(c))
	assert.Equal(t, "hgnc:1", c.String())
}
