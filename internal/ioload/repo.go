package ioload

import (
	"context"

	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/schema"
	"github.com/gnames/gnamed/pkg/unify"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// gormRepo is a unify.Repo over one database transaction.
type gormRepo struct {
	tx *gorm.DB
}

var _ unify.Repo = (*gormRepo)(nil)

func newGormRepo(tx *gorm.DB) *gormRepo {
	return &gormRepo{tx: tx}
}

func (r *gormRepo) FindRef(
	ctx context.Context,
	k entity.Kind,
	ref entity.Ref,
) (entity.EntityRef, bool, error) {
	var cols schema.RefColumns
	res := r.tx.WithContext(ctx).
		Table(schema.RefsTable(k)).
		Where("namespace = ? AND accession = ?", ref.Namespace, ref.Accession).
		Limit(1).
		Find(&cols)
	if res.Error != nil || res.RowsAffected == 0 {
		return entity.EntityRef{}, false, res.Error
	}
	return cols.EntityRef(), true, nil
}

func (r *gormRepo) FindEntity(
	ctx context.Context,
	k entity.Kind,
	id int64,
) (entity.Entity, bool, error) {
	tx := r.tx.WithContext(ctx).Where("id = ?", id).Limit(1)
	switch k {
	case entity.Gene:
		var g schema.Gene
		res := tx.Find(&g)
		if res.Error != nil || res.RowsAffected == 0 {
			return entity.Entity{}, false, res.Error
		}
		return schema.GeneEntity(g), true, nil
	case entity.Protein:
		var p schema.Protein
		res := tx.Find(&p)
		if res.Error != nil || res.RowsAffected == 0 {
			return entity.Entity{}, false, res.Error
		}
		return schema.ProteinEntity(p), true, nil
	}
	return entity.Entity{}, false, nil
}

func (r *gormRepo) CreateEntity(ctx context.Context, e entity.Entity) error {
	return r.tx.WithContext(ctx).Create(schema.EntityModel(e)).Error
}

func (r *gormRepo) UpdateEntity(ctx context.Context, e entity.Entity) error {
	return r.tx.WithContext(ctx).Save(schema.EntityModel(e)).Error
}

// PutRef inserts a ref or takes over entity id, symbol and name.
func (r *gormRepo) PutRef(
	ctx context.Context,
	k entity.Kind,
	ref entity.EntityRef,
) error {
	return r.tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "namespace"}, {Name: "accession"}},
			DoUpdates: clause.AssignmentColumns(
				[]string{"entity_id", "symbol", "name"},
			),
		}).
		Create(schema.RefModel(k, ref)).Error
}

func (r *gormRepo) AddStrings(
	ctx context.Context,
	k entity.Kind,
	id int64,
	strs []entity.String,
) error {
	return r.insertIgnore(ctx, schema.StringModels(k, id, strs))
}

func (r *gormRepo) AddPubMed(
	ctx context.Context,
	k entity.Kind,
	id int64,
	pmids []int,
) error {
	return r.insertIgnore(ctx, schema.PubMedModels(k, id, pmids))
}

func (r *gormRepo) AddMappings(
	ctx context.Context,
	links []entity.Mapping,
) error {
	rows := schema.MappingModels(links)
	return r.insertIgnore(ctx, &rows)
}

// insertIgnore inserts rows and skips the ones that exist already.
func (r *gormRepo) insertIgnore(ctx context.Context, rows any) error {
	return r.tx.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(rows).Error
}
