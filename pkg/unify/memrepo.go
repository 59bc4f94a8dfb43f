package unify

import (
	"cmp"
	"context"
	"maps"
	"slices"

	"github.com/gnames/gnamed/pkg/entity"
)

type satellite struct {
	id  int64
	str entity.String
}

type citation struct {
	id   int64
	pmid int
}

// MemRepo is a Repo kept in memory. The bulk loader resolves a whole
// file against it; tests use it as a reference store.
type MemRepo struct {
	refs     map[entity.Kind]map[entity.Ref]entity.EntityRef
	entities map[entity.Kind]map[int64]entity.Entity
	strings  map[entity.Kind]map[satellite]struct{}
	pubmed   map[entity.Kind]map[citation]struct{}
	mappings map[entity.Mapping]struct{}
}

// NewMemRepo creates an empty MemRepo.
func NewMemRepo() *MemRepo {
	res := &MemRepo{
		refs:     make(map[entity.Kind]map[entity.Ref]entity.EntityRef),
		entities: make(map[entity.Kind]map[int64]entity.Entity),
		strings:  make(map[entity.Kind]map[satellite]struct{}),
		pubmed:   make(map[entity.Kind]map[citation]struct{}),
		mappings: make(map[entity.Mapping]struct{}),
	}
	for _, k := range []entity.Kind{entity.Gene, entity.Protein} {
		res.refs[k] = make(map[entity.Ref]entity.EntityRef)
		res.entities[k] = make(map[int64]entity.Entity)
		res.strings[k] = make(map[satellite]struct{})
		res.pubmed[k] = make(map[citation]struct{})
	}
	return res
}

// PreloadRefs adds refs that already exist in the store, e.g. refs of
// the other kind needed for mappings.
func (m *MemRepo) PreloadRefs(k entity.Kind, refs []entity.EntityRef) {
	for _, v := range refs {
		m.refs[k][v.Ref] = v
	}
}

func (m *MemRepo) FindRef(
	_ context.Context,
	k entity.Kind,
	ref entity.Ref,
) (entity.EntityRef, bool, error) {
	res, ok := m.refs[k][ref]
	return res, ok, nil
}

func (m *MemRepo) FindEntity(
	_ context.Context,
	k entity.Kind,
	id int64,
) (entity.Entity, bool, error) {
	res, ok := m.entities[k][id]
	return res, ok, nil
}

func (m *MemRepo) CreateEntity(_ context.Context, e entity.Entity) error {
	m.entities[e.Kind()][e.ID] = e
	return nil
}

func (m *MemRepo) UpdateEntity(_ context.Context, e entity.Entity) error {
	m.entities[e.Kind()][e.ID] = e
	return nil
}

func (m *MemRepo) PutRef(
	_ context.Context,
	k entity.Kind,
	ref entity.EntityRef,
) error {
	m.refs[k][ref.Ref] = ref
	return nil
}

func (m *MemRepo) AddStrings(
	_ context.Context,
	k entity.Kind,
	id int64,
	strs []entity.String,
) error {
	for _, v := range strs {
		m.strings[k][satellite{id: id, str: v}] = struct{}{}
	}
	return nil
}

func (m *MemRepo) AddPubMed(
	_ context.Context,
	k entity.Kind,
	id int64,
	pmids []int,
) error {
	for _, v := range pmids {
		m.pubmed[k][citation{id: id, pmid: v}] = struct{}{}
	}
	return nil
}

func (m *MemRepo) AddMappings(_ context.Context, links []entity.Mapping) error {
	for _, v := range links {
		m.mappings[v] = struct{}{}
	}
	return nil
}

// Entities returns entities of a kind ordered by id.
func (m *MemRepo) Entities(k entity.Kind) []entity.Entity {
	res := slices.Collect(maps.Values(m.entities[k]))
	slices.SortFunc(res, func(a, b entity.Entity) int {
		return cmp.Compare(a.ID, b.ID)
	})
	return res
}

// Refs returns refs of a kind ordered by namespace and accession.
// Preloaded refs are included.
func (m *MemRepo) Refs(k entity.Kind) []entity.EntityRef {
	res := slices.Collect(maps.Values(m.refs[k]))
	slices.SortFunc(res, func(a, b entity.EntityRef) int {
		return cmp.Or(
			cmp.Compare(a.Namespace, b.Namespace),
			cmp.Compare(a.Accession, b.Accession),
		)
	})
	return res
}

// StringRow is an entity string with its entity id.
type StringRow struct {
	EntityID int64
	entity.String
}

// Strings returns the string pool of a kind ordered by entity id,
// category and value.
func (m *MemRepo) Strings(k entity.Kind) []StringRow {
	res := make([]StringRow, 0, len(m.strings[k]))
	for v := range m.strings[k] {
		res = append(res, StringRow{EntityID: v.id, String: v.str})
	}
	slices.SortFunc(res, func(a, b StringRow) int {
		return cmp.Or(
			cmp.Compare(a.EntityID, b.EntityID),
			cmp.Compare(a.Category, b.Category),
			cmp.Compare(a.Value, b.Value),
		)
	})
	return res
}

// PubMedRow is a citation of an entity.
type PubMedRow struct {
	EntityID int64
	PMID     int
}

// PubMed returns citations of a kind ordered by entity id and pmid.
func (m *MemRepo) PubMed(k entity.Kind) []PubMedRow {
	res := make([]PubMedRow, 0, len(m.pubmed[k]))
	for v := range m.pubmed[k] {
		res = append(res, PubMedRow{EntityID: v.id, PMID: v.pmid})
	}
	slices.SortFunc(res, func(a, b PubMedRow) int {
		return cmp.Or(
			cmp.Compare(a.EntityID, b.EntityID),
			cmp.Compare(a.PMID, b.PMID),
		)
	})
	return res
}

// Mappings returns gene-protein links ordered by gene and protein id.
func (m *MemRepo) Mappings() []entity.Mapping {
	res := slices.Collect(maps.Keys(m.mappings))
	slices.SortFunc(res, func(a, b entity.Mapping) int {
		return cmp.Or(
			cmp.Compare(a.GeneID, b.GeneID),
			cmp.Compare(a.ProteinID, b.ProteinID),
		)
	})
	return res
}
