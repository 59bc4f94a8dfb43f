// Package ioquery answers questions about loaded data with plain SQL
// that runs on PostgreSQL and SQLite.
package ioquery

import (
	"context"
	"fmt"

	"github.com/gnames/gnamed/pkg/db"
	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnamed/pkg/schema"
	"github.com/gnames/gnamed/pkg/sources"
)

type querier struct {
	operator db.Operator
	reg      *entity.Registry
}

// New creates a Querier. Namespaces are looked up in the registry of
// the sources configuration, namespaces of its sources included.
func New(op db.Operator, srcCfg *sources.SourcesConfig) gnamed.Querier {
	reg := srcCfg.Registry()
	for _, v := range srcCfg.Sources {
		if _, ok := reg.Lookup(v.Namespace); !ok && v.Kind.Valid() {
			reg.Add(entity.Namespace{Name: v.Namespace, Kind: v.Kind})
		}
	}
	return &querier{operator: op, reg: reg}
}

func (q *querier) kind(namespace string) (entity.Namespace, error) {
	ns, ok := q.reg.Lookup(namespace)
	if !ok {
		return ns, UnknownNamespaceError(namespace, q.reg.Names(entity.KindUnset))
	}
	return ns, nil
}

// Strings returns official symbols and names of refs, strings of their
// entities and strings of linked entities of the other kind.
func (q *querier) Strings(
	ctx context.Context,
	namespace string,
) ([]gnamed.StringRow, error) {
	ns, err := q.kind(namespace)
	if err != nil {
		return nil, err
	}
	k, o := ns.Kind, ns.Kind.Other()
	refs := schema.RefsTable(k)
	own, link, other := linkColumns(k)

	sql := fmt.Sprintf(`
SELECT r.accession, 'official_symbol' AS category, r.symbol AS value
  FROM %[1]s r
  WHERE r.namespace = @ns AND r.symbol IS NOT NULL
UNION
SELECT r.accession, 'official_name', r.name
  FROM %[1]s r
  WHERE r.namespace = @ns AND r.name IS NOT NULL
UNION
SELECT r.accession, '%[2]s_' || s.category, s.value
  FROM %[1]s r
    JOIN %[3]s s ON s.entity_id = r.entity_id
  WHERE r.namespace = @ns
UNION
SELECT r.accession, '%[4]s_' || s.category, s.value
  FROM %[1]s r
    JOIN %[5]s m ON m.%[6]s = r.entity_id
    JOIN %[7]s s ON s.entity_id = m.%[8]s
  WHERE r.namespace = @ns
ORDER BY 1, 2, 3`,
		refs, k, schema.StringsTable(k),
		o, link, own, schema.StringsTable(o), other,
	)

	var res []gnamed.StringRow
	err = q.raw(ctx, "strings", &res, sql, map[string]any{"ns": ns.Name})
	return res, err
}

// Mappings returns accession pairs of two namespaces that share an
// entity. Namespaces of different kinds are linked through
// gene-protein mappings.
func (q *querier) Mappings(
	ctx context.Context,
	from, to string,
) ([]gnamed.MappingRow, error) {
	fromNs, err := q.kind(from)
	if err != nil {
		return nil, err
	}
	toNs, err := q.kind(to)
	if err != nil {
		return nil, err
	}

	join := "b.entity_id = a.entity_id"
	if fromNs.Kind != toNs.Kind {
		own, link, other := linkColumns(fromNs.Kind)
		join = fmt.Sprintf(
			"b.entity_id IN (SELECT m.%s FROM %s m WHERE m.%s = a.entity_id)",
			other, link, own,
		)
	}
	sql := fmt.Sprintf(`
SELECT DISTINCT a.accession AS source, b.accession AS target
  FROM %s a
    JOIN %s b ON %s
  WHERE a.namespace = @from AND b.namespace = @to
ORDER BY 1, 2`,
		schema.RefsTable(fromNs.Kind), schema.RefsTable(toNs.Kind), join,
	)

	var rows []struct {
		Source string
		Target string
	}
	args := map[string]any{"from": fromNs.Name, "to": toNs.Name}
	if err = q.raw(ctx, "mappings", &rows, sql, args); err != nil {
		return nil, err
	}
	res := make([]gnamed.MappingRow, len(rows))
	for i, v := range rows {
		res[i] = gnamed.MappingRow{From: v.Source, To: v.Target}
	}
	return res, nil
}

// CitationCounts returns the number of distinct PubMed ids of the
// entity of every ref of a namespace.
func (q *querier) CitationCounts(
	ctx context.Context,
	namespace string,
) ([]gnamed.CitationRow, error) {
	ns, err := q.kind(namespace)
	if err != nil {
		return nil, err
	}
	sql := fmt.Sprintf(`
SELECT r.accession, COUNT(DISTINCT p.pmid) AS count
  FROM %s r
    LEFT JOIN %s p ON p.entity_id = r.entity_id
  WHERE r.namespace = @ns
GROUP BY r.accession
ORDER BY r.accession`,
		schema.RefsTable(ns.Kind), schema.PubMedTable(ns.Kind),
	)

	var res []gnamed.CitationRow
	err = q.raw(ctx, "citations", &res, sql, map[string]any{"ns": ns.Name})
	return res, err
}

func (q *querier) raw(
	ctx context.Context,
	name string,
	dest any,
	sql string,
	args map[string]any,
) error {
	gdb, err := q.operator.GORM()
	if err != nil {
		return err
	}
	err = gdb.WithContext(ctx).Raw(sql, args).Scan(dest).Error
	if err != nil {
		return QueryExecError(name, err)
	}
	return nil
}

// linkColumns returns the mappings table column of kind k, the table
// and the column of the other kind.
func linkColumns(k entity.Kind) (own, table, other string) {
	if k == entity.Protein {
		return "protein_id", schema.MappingsTable, "gene_id"
	}
	return "gene_id", schema.MappingsTable, "protein_id"
}
