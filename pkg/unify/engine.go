package unify

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/taxonomy"
)

var (
	// ErrInvalidRecord wraps every reason to reject a record before it
	// touches the store.
	ErrInvalidRecord = errors.New("invalid record")

	// ErrKindMismatch means a record's namespace is registered for the
	// other entity kind.
	ErrKindMismatch = errors.New("namespace is registered for another kind")

	// ErrMissingEntity means a ref points to an entity that is not stored.
	ErrMissingEntity = errors.New("ref points to missing entity")
)

// Outcome tells how a record was resolved.
type Outcome int

const (
	// Extended records already had their own ref.
	Extended Outcome = iota + 1
	// Anchored records were attached through a cross-reference.
	Anchored
	// Created records got a fresh entity.
	Created
)

func (o Outcome) String() string {
	switch o {
	case Extended:
		return "extended"
	case Anchored:
		return "anchored"
	case Created:
		return "created"
	default:
		return "unknown"
	}
}

// Resolution is the result of identity resolution of one record.
type Resolution struct {
	Kind     entity.Kind
	EntityID int64
	Outcome  Outcome

	// Own is the record's existing ref, nil if it is new.
	Own *entity.EntityRef
	// Anchor is the cross-reference used for anchoring.
	Anchor entity.Ref
	// Conflicts are same-kind refs that point to another entity.
	Conflicts []entity.Ref
	// Placeholders are same-kind refs to create for the entity.
	Placeholders []entity.Ref
	// Mappings are ids of other-kind entities to link.
	Mappings []int64
	// Skipped refs have an unknown namespace or a species the namespace
	// does not cover.
	Skipped []entity.Ref

	created *entity.Entity
}

// Stats counts writes of one applied record.
type Stats struct {
	Updated bool
	NewRefs int
	Strings int
	PubMed  int
	// Links is the number of gene-protein mappings written.
	Links int
}

// Result combines resolution and merge of one record.
type Result struct {
	Resolution
	Stats
}

// Engine resolves records to entities and merges them. It owns no
// storage; state flows through the Repo passed to each call. An Engine
// is not safe for concurrent writers.
type Engine struct {
	tax *taxonomy.Tree
	ids *IDAllocator
	reg *entity.Registry
}

// NewEngine creates an Engine from the pipeline state.
func NewEngine(
	tax *taxonomy.Tree,
	ids *IDAllocator,
	reg *entity.Registry,
) *Engine {
	return &Engine{tax: tax, ids: ids, reg: reg}
}

// IDs returns the engine's id allocator.
func (e *Engine) IDs() *IDAllocator {
	return e.ids
}

// Prepare normalizes a record, gives it the source kind if it has none
// and validates it. Returned errors wrap ErrInvalidRecord.
func (e *Engine) Prepare(rec *entity.Record, k entity.Kind) error {
	rec.Normalize()
	if rec.Kind == entity.KindUnset {
		rec.Kind = k
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidRecord, err)
	}
	if k.Valid() && rec.Kind != k {
		return fmt.Errorf("%w: %s record in %s source",
			ErrInvalidRecord, rec.Kind, k)
	}
	if ns, ok := e.reg.Lookup(rec.Namespace); ok && ns.Kind != rec.Kind {
		return fmt.Errorf("%w: %w: %s is %s",
			ErrInvalidRecord, ErrKindMismatch, ns.Name, ns.Kind)
	}
	return nil
}

// Process resolves and applies a prepared record. The caller provides
// atomicity by wrapping the call into one unit of work.
func (e *Engine) Process(
	ctx context.Context,
	repo Repo,
	rec *entity.Record,
) (Result, error) {
	var res Result
	var err error
	res.Resolution, err = e.Resolve(ctx, repo, rec)
	if err != nil {
		return res, err
	}
	res.Stats, err = e.Apply(ctx, repo, res.Resolution, rec)
	return res, err
}

// Resolve finds the entity a record belongs to:
//  1. the entity of the record's own ref;
//  2. otherwise the entity of the first same-kind cross-reference that
//     exists, in (namespace, accession) order;
//  3. otherwise a new entity with a fresh id and resolved species.
func (e *Engine) Resolve(
	ctx context.Context,
	repo Repo,
	rec *entity.Record,
) (Resolution, error) {
	k := rec.Kind
	res := Resolution{Kind: k}

	own, ok, err := repo.FindRef(ctx, k, rec.Key())
	if err != nil {
		return res, err
	}
	if ok {
		res.Own = &own
		res.EntityID = own.EntityID
		res.Outcome = Extended
	}

	speciesID := e.tax.ResolvePtr(rec.SpeciesID)
	for _, ref := range rec.CrossRefs {
		ns, ok := e.reg.Lookup(ref.Namespace)
		if !ok {
			res.Skipped = append(res.Skipped, ref)
			continue
		}

		if ns.Kind != k {
			er, ok, err := repo.FindRef(ctx, ns.Kind, ref)
			if err != nil {
				return res, err
			}
			if ok && !slices.Contains(res.Mappings, er.EntityID) {
				res.Mappings = append(res.Mappings, er.EntityID)
			}
			continue
		}

		if rec.SpeciesID != nil && !ns.AllowsSpecies(speciesID) {
			res.Skipped = append(res.Skipped, ref)
			continue
		}
		er, ok, err := repo.FindRef(ctx, k, ref)
		if err != nil {
			return res, err
		}
		switch {
		case !ok:
			res.Placeholders = append(res.Placeholders, ref)
		case res.EntityID == 0:
			res.EntityID = er.EntityID
			res.Anchor = ref
			res.Outcome = Anchored
		case er.EntityID != res.EntityID:
			res.Conflicts = append(res.Conflicts, ref)
		}
	}

	if res.EntityID != 0 {
		return res, nil
	}

	ent := entity.Entity{
		ID:        e.ids.Next(k),
		SpeciesID: speciesID,
		Attrs:     entity.NewAttributes(k, rec.Metadata),
	}
	if err = repo.CreateEntity(ctx, ent); err != nil {
		return res, err
	}
	res.EntityID = ent.ID
	res.Outcome = Created
	res.created = &ent
	return res, nil
}

// Apply merges a record into its resolved entity. Scalars are
// overwritten by non-nil incoming values; strings, citations and
// mappings are unioned.
func (e *Engine) Apply(
	ctx context.Context,
	repo Repo,
	res Resolution,
	rec *entity.Record,
) (Stats, error) {
	var st Stats
	k := res.Kind
	id := res.EntityID

	if res.created == nil {
		ent, ok, err := repo.FindEntity(ctx, k, id)
		if err != nil {
			return st, err
		}
		if !ok {
			return st, fmt.Errorf("%w: %s %d", ErrMissingEntity, k, id)
		}
		attrs, changed := ent.Attrs.Overwrite(rec.Metadata)
		if changed {
			ent.Attrs = attrs
			if err = repo.UpdateEntity(ctx, ent); err != nil {
				return st, err
			}
			st.Updated = true
		}
	}

	own := entity.EntityRef{Ref: rec.Key(), EntityID: id}
	if res.Own != nil {
		own = *res.Own
	}
	own, changed := own.Update(rec.Symbol, rec.Name)
	if res.Own == nil || changed {
		if err := repo.PutRef(ctx, k, own); err != nil {
			return st, err
		}
		if res.Own == nil {
			st.NewRefs++
		}
	}

	for _, ref := range res.Placeholders {
		er := entity.EntityRef{Ref: ref, EntityID: id}
		if err := repo.PutRef(ctx, k, er); err != nil {
			return st, err
		}
		st.NewRefs++
	}

	if strs := rec.StringPool(); len(strs) > 0 {
		if err := repo.AddStrings(ctx, k, id, strs); err != nil {
			return st, err
		}
		st.Strings = len(strs)
	}

	if len(rec.PubMedIDs) > 0 {
		if err := repo.AddPubMed(ctx, k, id, rec.PubMedIDs); err != nil {
			return st, err
		}
		st.PubMed = len(rec.PubMedIDs)
	}

	if len(res.Mappings) > 0 {
		links := make([]entity.Mapping, len(res.Mappings))
		for i, other := range res.Mappings {
			if k == entity.Gene {
				links[i] = entity.Mapping{GeneID: id, ProteinID: other}
			} else {
				links[i] = entity.Mapping{GeneID: other, ProteinID: id}
			}
		}
		if err := repo.AddMappings(ctx, links); err != nil {
			return st, err
		}
		st.Links = len(links)
	}

	return st, nil
}
