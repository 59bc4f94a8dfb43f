package ioload

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnamed/pkg/schema"
	"github.com/gnames/gnamed/pkg/unify"
	"github.com/gnames/gnfmt"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// stagingTable receives satellite rows of one file. It only lives
// within the bulk transaction.
const stagingTable = "gnamed_staging"

// NewBulkSink creates the PostgreSQL bulk loader.
func NewBulkSink(pool *pgxpool.Pool, engine *unify.Engine) gnamed.Sink {
	return &bulkSink{target: &pgTarget{pool: pool}, engine: engine}
}

// pgTarget writes with COPY through pgx.
type pgTarget struct {
	pool *pgxpool.Pool
}

func (t *pgTarget) Empty(ctx context.Context, k entity.Kind) (bool, error) {
	q := fmt.Sprintf(
		"SELECT NOT EXISTS (SELECT 1 FROM %s) AND NOT EXISTS (SELECT 1 FROM %s)",
		schema.EntityTable(k), schema.RefsTable(k),
	)
	var res bool
	err := t.pool.QueryRow(ctx, q).Scan(&res)
	return res, err
}

func (t *pgTarget) Refs(
	ctx context.Context,
	k entity.Kind,
) ([]entity.EntityRef, error) {
	q := fmt.Sprintf(
		"SELECT namespace, accession, entity_id FROM %s", schema.RefsTable(k),
	)
	rows, err := t.pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var res []entity.EntityRef
	for rows.Next() {
		var ref entity.EntityRef
		if err = rows.Scan(&ref.Namespace, &ref.Accession, &ref.EntityID); err != nil {
			return nil, err
		}
		res = append(res, ref)
	}
	return res, rows.Err()
}

func (t *pgTarget) Write(
	ctx context.Context,
	k entity.Kind,
	sats pgx.CopyFromSource,
	mem *unify.MemRepo,
) error {
	tx, err := t.pool.Begin(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback(ctx)

	q := fmt.Sprintf(`CREATE TEMP TABLE %s (
	part char(1) NOT NULL,
	id1 bigint NOT NULL,
	id2 bigint,
	category text,
	value text
) ON COMMIT DROP`, stagingTable)
	if _, err = tx.Exec(ctx, q); err != nil {
		return err
	}

	_, err = tx.CopyFrom(ctx, pgx.Identifier{stagingTable}, stagingColumns, sats)
	if err != nil {
		return fmt.Errorf("copy satellites: %w", err)
	}

	if err = copyEntities(ctx, tx, k, mem.Entities(k)); err != nil {
		return fmt.Errorf("copy entities: %w", err)
	}
	if err = copyRefs(ctx, tx, k, mem.Refs(k)); err != nil {
		return fmt.Errorf("copy refs: %w", err)
	}

	for _, q := range moveStagingSQL(k) {
		if _, err = tx.Exec(ctx, q); err != nil {
			return fmt.Errorf("move satellites: %w", err)
		}
	}
	if err = tx.Commit(ctx); err != nil {
		return err
	}
	t.analyze(ctx, k)
	return nil
}

// analyze updates planner statistics of tables filled by COPY. ANALYZE
// cannot run inside the load transaction, failures only warn.
func (t *pgTarget) analyze(ctx context.Context, k entity.Kind) {
	start := time.Now()
	for _, v := range analyzeTables(k) {
		if _, err := t.pool.Exec(ctx, "ANALYZE "+v); err != nil {
			slog.Warn("Cannot analyze table", "table", v, "error", err)
		}
	}
	slog.Info("Tables analyzed",
		"kind", k.String(),
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
}

func analyzeTables(k entity.Kind) []string {
	return []string{
		schema.EntityTable(k),
		schema.RefsTable(k),
		schema.StringsTable(k),
		schema.PubMedTable(k),
		schema.MappingsTable,
	}
}

// copyEntities copies entities ordered by id.
func copyEntities(
	ctx context.Context,
	tx pgx.Tx,
	k entity.Kind,
	ents []entity.Entity,
) error {
	cols := []string{"id", "species_id", "chromosome", "location"}
	if k == entity.Protein {
		cols = []string{"id", "species_id", "length", "mass"}
	}
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{schema.EntityTable(k)},
		cols,
		pgx.CopyFromSlice(len(ents), func(i int) ([]any, error) {
			return entityValues(ents[i]), nil
		}),
	)
	return err
}

func entityValues(e entity.Entity) []any {
	switch a := e.Attrs.(type) {
	case entity.GeneAttrs:
		return []any{e.ID, e.SpeciesID, a.Chromosome, a.Location}
	case entity.ProteinAttrs:
		return []any{e.ID, e.SpeciesID, a.Length, a.Mass}
	}
	return []any{e.ID, e.SpeciesID, nil, nil}
}

// copyRefs copies refs ordered by namespace and accession.
func copyRefs(
	ctx context.Context,
	tx pgx.Tx,
	k entity.Kind,
	refs []entity.EntityRef,
) error {
	_, err := tx.CopyFrom(ctx,
		pgx.Identifier{schema.RefsTable(k)},
		[]string{"namespace", "accession", "entity_id", "symbol", "name"},
		pgx.CopyFromSlice(len(refs), func(i int) ([]any, error) {
			r := refs[i]
			return []any{r.Namespace, r.Accession, r.EntityID, r.Symbol, r.Name}, nil
		}),
	)
	return err
}

// moveStagingSQL returns statements that move unique staging rows to
// the satellite tables of a kind.
func moveStagingSQL(k entity.Kind) []string {
	return []string{
		fmt.Sprintf(`INSERT INTO %s (entity_id, category, value)
SELECT DISTINCT id1, category, value FROM %s WHERE part = '%s'
ON CONFLICT DO NOTHING`,
			schema.StringsTable(k), stagingTable, partString),
		fmt.Sprintf(`INSERT INTO %s (entity_id, pmid)
SELECT DISTINCT id1, id2 FROM %s WHERE part = '%s'
ON CONFLICT DO NOTHING`,
			schema.PubMedTable(k), stagingTable, partPubMed),
		fmt.Sprintf(`INSERT INTO %s (gene_id, protein_id)
SELECT DISTINCT id1, id2 FROM %s WHERE part = '%s'
ON CONFLICT DO NOTHING`,
			schema.MappingsTable, stagingTable, partMapping),
	}
}
