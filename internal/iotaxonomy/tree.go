package iotaxonomy

import (
	"context"
	"database/sql"

	"github.com/gnames/gnamed/pkg/schema"
	"github.com/gnames/gnamed/pkg/taxonomy"
	"gorm.io/gorm"
)

// LoadTree reads (id, parent_id, rank) of all species and builds the
// tree used to resolve species of records. An empty species table is
// a TaxonomyMissingError.
func LoadTree(ctx context.Context, gdb *gorm.DB) (*taxonomy.Tree, error) {
	rows, err := gdb.WithContext(ctx).
		Model(&schema.Species{}).
		Select("id", "parent_id", "rank").
		Rows()
	if err != nil {
		return nil, TaxonomyMissingError(err)
	}
	defer rows.Close()

	var nodes []taxonomy.Node
	for rows.Next() {
		var n taxonomy.Node
		var parent sql.NullInt32
		if err = rows.Scan(&n.ID, &parent, &n.Rank); err != nil {
			return nil, TaxonomyMissingError(err)
		}
		if parent.Valid {
			n.ParentID = int(parent.Int32)
		}
		nodes = append(nodes, n)
	}
	if err = rows.Err(); err != nil {
		return nil, TaxonomyMissingError(err)
	}
	if len(nodes) == 0 {
		return nil, TaxonomyMissingError(nil)
	}
	return taxonomy.NewTree(nodes), nil
}
