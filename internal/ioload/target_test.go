package ioload

import (
	"context"
	"fmt"

	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/schema"
	"github.com/gnames/gnamed/pkg/unify"
	"github.com/jackc/pgx/v5"
	"gorm.io/gorm"
)

// gormTarget runs the bulk path against any GORM database. Satellite
// rows are inserted as they stream instead of going through a staging
// table.
type gormTarget struct {
	gdb *gorm.DB
}

func (t *gormTarget) Empty(ctx context.Context, k entity.Kind) (bool, error) {
	for _, table := range []string{schema.EntityTable(k), schema.RefsTable(k)} {
		var n int64
		err := t.gdb.WithContext(ctx).Table(table).Count(&n).Error
		if err != nil {
			return false, err
		}
		if n > 0 {
			return false, nil
		}
	}
	return true, nil
}

func (t *gormTarget) Refs(
	ctx context.Context,
	k entity.Kind,
) ([]entity.EntityRef, error) {
	var rows []schema.RefColumns
	err := t.gdb.WithContext(ctx).Table(schema.RefsTable(k)).Find(&rows).Error
	if err != nil {
		return nil, err
	}
	res := make([]entity.EntityRef, len(rows))
	for i, v := range rows {
		res[i] = v.EntityRef()
	}
	return res, nil
}

func (t *gormTarget) Write(
	ctx context.Context,
	k entity.Kind,
	sats pgx.CopyFromSource,
	mem *unify.MemRepo,
) error {
	return t.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repo := newGormRepo(tx)
		for sats.Next() {
			vals, err := sats.Values()
			if err != nil {
				return err
			}
			id := vals[1].(int64)
			switch vals[0] {
			case partString:
				str := entity.String{
					Category: vals[3].(string),
					Value:    vals[4].(string),
				}
				err = repo.AddStrings(ctx, k, id, []entity.String{str})
			case partPubMed:
				err = repo.AddPubMed(ctx, k, id, []int{int(vals[2].(int64))})
			case partMapping:
				link := entity.Mapping{GeneID: id, ProteinID: vals[2].(int64)}
				err = repo.AddMappings(ctx, []entity.Mapping{link})
			default:
				err = fmt.Errorf("unknown satellite part %v", vals[0])
			}
			if err != nil {
				return err
			}
		}
		if err := sats.Err(); err != nil {
			return err
		}

		for _, e := range mem.Entities(k) {
			if err := repo.CreateEntity(ctx, e); err != nil {
				return err
			}
		}
		for _, r := range mem.Refs(k) {
			if err := repo.PutRef(ctx, k, r); err != nil {
				return err
			}
		}
		return nil
	})
}
