// Package unify resolves source records to canonical entities and merges
// their contributions.
package unify

import (
	"context"

	"github.com/gnames/gnamed/pkg/entity"
)

// Repo is the persisted entity state seen by one unit of work. The row
// loader backs it with a database transaction, the bulk loader with
// in-memory indexes and a copy stream.
type Repo interface {
	// FindRef returns the EntityRef of a kind, or false if it does not
	// exist.
	FindRef(ctx context.Context, k entity.Kind, ref entity.Ref) (entity.EntityRef, bool, error)

	// FindEntity returns an entity of a kind by id.
	FindEntity(ctx context.Context, k entity.Kind, id int64) (entity.Entity, bool, error)

	// CreateEntity stores a new entity.
	CreateEntity(ctx context.Context, e entity.Entity) error

	// UpdateEntity replaces scalar metadata of an existing entity.
	UpdateEntity(ctx context.Context, e entity.Entity) error

	// PutRef inserts a ref or replaces entity id, symbol and name of an
	// existing one.
	PutRef(ctx context.Context, k entity.Kind, ref entity.EntityRef) error

	// AddStrings unions strings into the entity's pool.
	AddStrings(ctx context.Context, k entity.Kind, id int64, strs []entity.String) error

	// AddPubMed unions citations into the entity's set.
	AddPubMed(ctx context.Context, k entity.Kind, id int64, pmids []int) error

	// AddMappings unions gene-protein links.
	AddMappings(ctx context.Context, maps []entity.Mapping) error
}
