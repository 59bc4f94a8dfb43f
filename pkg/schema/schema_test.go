package schema_test

import (
	"testing"

	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTableNames(t *testing.T) {
	tests := []struct {
		kind            entity.Kind
		ent, refs, strs string
		pubmed          string
	}{
		{entity.Gene, "genes", "gene_refs", "gene_strings", "gene2pubmed"},
		{entity.Protein, "proteins", "protein_refs", "protein_strings",
			"protein2pubmed"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.ent, schema.EntityTable(tt.kind))
			assert.Equal(t, tt.refs, schema.RefsTable(tt.kind))
			assert.Equal(t, tt.strs, schema.StringsTable(tt.kind))
			assert.Equal(t, tt.pubmed, schema.PubMedTable(tt.kind))
		})
	}

	names := schema.TableNames()
	assert.Len(t, names, len(schema.AllModels()))
	assert.Equal(t, "species", names[0])
	assert.Contains(t, names, "genes2proteins")
	assert.Contains(t, names, "loads")
}

func TestEntityModel(t *testing.T) {
	chr := "7"
	g := entity.Entity{ID: 3, SpeciesID: 9606,
		Attrs: entity.GeneAttrs{Chromosome: &chr}}
	m, ok := schema.EntityModel(g).(*schema.Gene)
	require.True(t, ok)
	assert.Equal(t, int64(3), m.ID)
	assert.True(t, m.Chromosome.Valid)
	assert.False(t, m.Location.Valid)
	assert.Equal(t, g, schema.GeneEntity(*m))

	mass := int64(33930)
	p := entity.Entity{ID: 5, SpeciesID: 9606,
		Attrs: entity.ProteinAttrs{Mass: &mass}}
	pm, ok := schema.EntityModel(p).(*schema.Protein)
	require.True(t, ok)
	assert.Equal(t, int64(33930), pm.Mass.Int64)
	assert.Equal(t, p, schema.ProteinEntity(*pm))

	assert.Nil(t, schema.EntityModel(entity.Entity{ID: 1}))
}

func TestRefModel(t *testing.T) {
	sym := "CDK2"
	ref := entity.EntityRef{
		Ref:      entity.Ref{Namespace: "entrez", Accession: "1017"},
		EntityID: 1,
		Symbol:   &sym,
	}
	gm, ok := schema.RefModel(entity.Gene, ref).(*schema.GeneRef)
	require.True(t, ok)
	assert.Equal(t, ref, gm.EntityRef())

	pm, ok := schema.RefModel(entity.Protein, ref).(*schema.ProteinRef)
	require.True(t, ok)
	assert.Equal(t, "protein_refs", pm.TableName())
}

func TestSatelliteModels(t *testing.T) {
	strs := []entity.String{{Category: "symbol", Value: "CDK2"}}
	gs, ok := schema.StringModels(entity.Gene, 2, strs).(*[]schema.GeneString)
	require.True(t, ok)
	assert.Equal(t, int64(2), (*gs)[0].EntityID)

	ps, ok := schema.PubMedModels(entity.Protein, 4, []int{10, 20}).(*[]schema.Protein2PubMed)
	require.True(t, ok)
	assert.Len(t, *ps, 2)
	assert.Equal(t, 20, (*ps)[1].PMID)

	ms := schema.MappingModels([]entity.Mapping{{GeneID: 1, ProteinID: 2}})
	assert.Equal(t, []schema.Gene2Protein{{GeneID: 1, ProteinID: 2}}, ms)
}
