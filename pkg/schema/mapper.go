package schema

import (
	"database/sql"

	"github.com/gnames/gnamed/pkg/entity"
)

// EntityModel converts an entity to its GORM model, *Gene or *Protein.
func EntityModel(e entity.Entity) any {
	switch a := e.Attrs.(type) {
	case entity.GeneAttrs:
		return &Gene{
			ID:         e.ID,
			SpeciesID:  e.SpeciesID,
			Chromosome: nullString(a.Chromosome),
			Location:   nullString(a.Location),
		}
	case entity.ProteinAttrs:
		return &Protein{
			ID:        e.ID,
			SpeciesID: e.SpeciesID,
			Length:    nullInt64(a.Length),
			Mass:      nullInt64(a.Mass),
		}
	}
	return nil
}

// GeneEntity converts a Gene model to an entity.
func GeneEntity(g Gene) entity.Entity {
	return entity.Entity{
		ID:        g.ID,
		SpeciesID: g.SpeciesID,
		Attrs: entity.GeneAttrs{
			Chromosome: stringPtr(g.Chromosome),
			Location:   stringPtr(g.Location),
		},
	}
}

// ProteinEntity converts a Protein model to an entity.
func ProteinEntity(p Protein) entity.Entity {
	return entity.Entity{
		ID:        p.ID,
		SpeciesID: p.SpeciesID,
		Attrs: entity.ProteinAttrs{
			Length: int64Ptr(p.Length),
			Mass:   int64Ptr(p.Mass),
		},
	}
}

// RefModel converts an entity ref to its GORM model of a kind.
func RefModel(k entity.Kind, r entity.EntityRef) any {
	cols := RefColumns{
		Namespace: r.Namespace,
		Accession: r.Accession,
		EntityID:  r.EntityID,
		Symbol:    nullString(r.Symbol),
		Name:      nullString(r.Name),
	}
	if k == entity.Protein {
		return &ProteinRef{cols}
	}
	return &GeneRef{cols}
}

// EntityRef converts stored reference columns to an entity ref.
func (c RefColumns) EntityRef() entity.EntityRef {
	return entity.EntityRef{
		Ref:      entity.Ref{Namespace: c.Namespace, Accession: c.Accession},
		EntityID: c.EntityID,
		Symbol:   stringPtr(c.Symbol),
		Name:     stringPtr(c.Name),
	}
}

// StringModels converts pool strings of an entity to a pointer to a
// slice of GORM models, ready for Create.
func StringModels(k entity.Kind, id int64, strs []entity.String) any {
	if k == entity.Protein {
		res := make([]ProteinString, len(strs))
		for i, v := range strs {
			res[i] = ProteinString{StringColumns{id, v.Category, v.Value}}
		}
		return &res
	}
	res := make([]GeneString, len(strs))
	for i, v := range strs {
		res[i] = GeneString{StringColumns{id, v.Category, v.Value}}
	}
	return &res
}

// PubMedModels converts citations of an entity to a pointer to a slice
// of GORM models, ready for Create.
func PubMedModels(k entity.Kind, id int64, pmids []int) any {
	if k == entity.Protein {
		res := make([]Protein2PubMed, len(pmids))
		for i, v := range pmids {
			res[i] = Protein2PubMed{PubMedColumns{id, v}}
		}
		return &res
	}
	res := make([]Gene2PubMed, len(pmids))
	for i, v := range pmids {
		res[i] = Gene2PubMed{PubMedColumns{id, v}}
	}
	return &res
}

// MappingModels converts gene-protein links to GORM models.
func MappingModels(ms []entity.Mapping) []Gene2Protein {
	res := make([]Gene2Protein, len(ms))
	for i, v := range ms {
		res[i] = Gene2Protein{GeneID: v.GeneID, ProteinID: v.ProteinID}
	}
	return res
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func stringPtr(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	return &s.String
}

func nullInt64(i *int64) sql.NullInt64 {
	if i == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *i, Valid: true}
}

func int64Ptr(i sql.NullInt64) *int64 {
	if !i.Valid {
		return nil
	}
	return &i.Int64
}
