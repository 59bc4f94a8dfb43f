// Package ioload implements loading of source files into the unified
// store. The row loader stores every record in its own transaction on
// PostgreSQL or SQLite; the bulk loader resolves a whole file in memory
// and copies it to an empty PostgreSQL store in one transaction. Both
// leave the same state for the same input.
package ioload

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnamed/internal/iofs"
	"github.com/gnames/gnamed/internal/iometrics"
	"github.com/gnames/gnamed/internal/iorecords"
	"github.com/gnames/gnamed/internal/iosources"
	"github.com/gnames/gnamed/internal/iotaxonomy"
	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/db"
	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnamed/pkg/schema"
	"github.com/gnames/gnamed/pkg/sources"
	"github.com/gnames/gnamed/pkg/unify"
	"github.com/gnames/gnfmt"
	"github.com/gnames/gnuuid"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type loader struct {
	operator db.Operator
	progress bool
}

// New creates a Loader. With progress set, reading of every source
// file is shown with a progress bar.
func New(op db.Operator, progress bool) gnamed.Loader {
	return &loader{operator: op, progress: progress}
}

// plan is a source with its resolved file path and sink choice.
type plan struct {
	src  sources.Source
	path string
	bulk bool
}

// Load loads sources of sources.yaml in their order. All
// preconditions are checked before the first write. A failed source
// stops the run, sources loaded before it stay.
func (l *loader) Load(
	ctx context.Context,
	cfg *config.Config,
) ([]gnamed.Summary, error) {
	srcCfg, err := iosources.New(cfg).Load()
	if err != nil {
		return nil, err
	}
	srcs, warns, err := sources.Filter(srcCfg.Sources, cfg.Load.Namespaces)
	for _, w := range warns {
		gn.Warn("%s", w)
	}
	if err != nil {
		return nil, SourcesNotFoundError(err)
	}

	gdb, err := l.operator.GORM()
	if err != nil {
		return nil, err
	}

	tree, err := iotaxonomy.LoadTree(ctx, gdb)
	if err != nil {
		return nil, err
	}
	ids, err := newIDAllocator(ctx, gdb)
	if err != nil {
		return nil, err
	}
	engine := unify.NewEngine(tree, ids, srcCfg.Registry())

	plans, err := l.check(ctx, cfg, gdb, srcCfg, srcs)
	if err != nil {
		return nil, err
	}

	metrics := iometrics.New()
	var res []gnamed.Summary
	for _, p := range plans {
		sum, err := l.ingest(ctx, gdb, engine, p)
		if err != nil {
			return res, err
		}
		res = append(res, sum)

		if err = saveHistory(ctx, gdb, p, sum); err != nil {
			return res, err
		}
		metrics.Observe(sum)
		if cfg.Load.MetricsFile != "" {
			path := iofs.ExpandPath(cfg.Load.MetricsFile, cfg.HomeDir)
			if err = metrics.WriteFile(path); err != nil {
				return res, err
			}
		}
	}
	return res, nil
}

// check verifies anchor order, bulk preconditions and source files.
func (l *loader) check(
	ctx context.Context,
	cfg *config.Config,
	gdb *gorm.DB,
	srcCfg *sources.SourcesConfig,
	srcs []sources.Source,
) ([]plan, error) {
	if !cfg.Load.IgnoreOrder {
		if err := checkOrder(ctx, gdb, srcCfg.Sources, srcs); err != nil {
			return nil, err
		}
	}

	res := make([]plan, len(srcs))
	for i, src := range srcs {
		res[i] = plan{
			src:  src,
			path: iofs.ExpandPath(src.File, cfg.HomeDir),
			bulk: cfg.Load.Mode == config.ModeBulk && src.Bulk,
		}
	}

	if cfg.Load.Mode == config.ModeBulk {
		if err := l.checkBulk(ctx, res); err != nil {
			return nil, err
		}
	}

	for _, p := range res {
		if err := iofs.CheckFile(p.path); err != nil {
			return nil, err
		}
	}
	return res, nil
}

// checkOrder makes sure that every dependent source of a kind comes
// after an anchor source of the kind, loaded either earlier or in this
// run.
func checkOrder(
	ctx context.Context,
	gdb *gorm.DB,
	all []sources.Source,
	srcs []sources.Source,
) error {
	var history []struct {
		Namespace string
		Kind      string
	}
	err := gdb.WithContext(ctx).
		Model(&schema.Load{}).
		Distinct("namespace", "kind").
		Find(&history).Error
	if err != nil {
		return LoadHistoryError(err)
	}

	anchored := make(map[entity.Kind]bool)
	for _, h := range history {
		isAnchor := slices.ContainsFunc(all, func(s sources.Source) bool {
			return s.Anchor && s.Namespace == h.Namespace
		})
		if isAnchor {
			anchored[entity.NewKind(h.Kind)] = true
		}
	}

	missing := make(map[entity.Kind][]string)
	var kinds []entity.Kind
	for _, src := range srcs {
		if src.Anchor {
			anchored[src.Kind] = true
			continue
		}
		if anchored[src.Kind] {
			continue
		}
		if _, ok := missing[src.Kind]; !ok {
			kinds = append(kinds, src.Kind)
		}
		missing[src.Kind] = append(missing[src.Kind], src.Namespace)
	}
	if len(kinds) > 0 {
		k := kinds[0]
		return LoadOrderError(missing[k], k.String())
	}
	return nil
}

// checkBulk verifies that bulk sources go to empty PostgreSQL tables.
// Sources not marked for bulk are loaded row by row.
func (l *loader) checkBulk(ctx context.Context, plans []plan) error {
	if l.operator.Driver() != config.DriverPostgres {
		ns := "all"
		if len(plans) > 0 {
			ns = plans[0].src.Namespace
		}
		return BulkPreconditionError(ns, "bulk mode needs PostgreSQL")
	}

	bs := &bulkSink{target: &pgTarget{pool: l.operator.Pool()}}
	filled := make(map[entity.Kind]string)
	for _, p := range plans {
		prev, ok := filled[p.src.Kind]
		if !p.bulk {
			slog.Info("Source is not marked for bulk, using row mode",
				"namespace", p.src.Namespace)
			if !ok {
				filled[p.src.Kind] = p.src.Namespace
			}
			continue
		}
		if ok {
			return BulkPreconditionError(p.src.Namespace,
				fmt.Sprintf("%s tables are filled by %s earlier in this run",
					p.src.Kind, prev))
		}
		if err := bs.Check(ctx, p.src); err != nil {
			return err
		}
		filled[p.src.Kind] = p.src.Namespace
	}
	return nil
}

// ingest loads one source with the sink chosen by its plan.
func (l *loader) ingest(
	ctx context.Context,
	gdb *gorm.DB,
	engine *unify.Engine,
	p plan,
) (gnamed.Summary, error) {
	recs, err := iorecords.OpenFormat(p.path, p.src.Format, l.progress)
	if err != nil {
		return gnamed.Summary{Source: p.src}, err
	}
	defer recs.Close()

	var sink gnamed.Sink
	mode := config.ModeRow
	if p.bulk {
		mode = config.ModeBulk
		sink = NewBulkSink(l.operator.Pool(), engine)
	} else {
		sink = NewRowSink(gdb, engine)
	}
	gn.Info("Loading <em>%s</em> %ss from %s (%s mode)",
		p.src.Namespace, p.src.Kind, p.path, mode)

	sum, err := sink.Ingest(ctx, p.src, recs)
	if err != nil {
		return sum, err
	}
	report(sum)
	return sum, nil
}

func report(sum gnamed.Summary) {
	c := func(i int64) string { return humanize.Comma(i) }
	gn.Info(
		"<em>%s</em>: %s records, %s created, %s extended, %s anchored, "+
			"%s rejected, %s failed in %s",
		sum.Source.Namespace, c(sum.Records), c(sum.Created),
		c(sum.Extended), c(sum.Anchored), c(sum.Rejected), c(sum.Failed),
		gnfmt.TimeString(sum.Duration.Seconds()),
	)
	slog.Info("Source loaded",
		"namespace", sum.Source.Namespace,
		"kind", sum.Source.Kind.String(),
		"mode", sum.Mode,
		"records", sum.Records,
		"created", sum.Created,
		"extended", sum.Extended,
		"anchored", sum.Anchored,
		"rejected", sum.Rejected,
		"failed", sum.Failed,
		"duration", gnfmt.TimeString(sum.Duration.Seconds()),
	)
}

// saveHistory writes a loads row of a finished source.
func saveHistory(
	ctx context.Context,
	gdb *gorm.DB,
	p plan,
	sum gnamed.Summary,
) error {
	row := schema.Load{
		ID:         uuid.NewString(),
		SourceID:   gnuuid.New(p.src.Namespace + "|" + p.path).String(),
		Namespace:  p.src.Namespace,
		Kind:       p.src.Kind.String(),
		File:       p.path,
		Mode:       sum.Mode,
		Records:    sum.Records,
		Rejected:   sum.Rejected,
		Failed:     sum.Failed,
		Created:    sum.Created,
		StartedAt:  sum.Started.UTC(),
		FinishedAt: sum.Started.Add(sum.Duration).UTC(),
	}
	if err := gdb.WithContext(ctx).Create(&row).Error; err != nil {
		return LoadHistoryError(err)
	}
	return nil
}

// newIDAllocator starts id counters after the largest stored ids.
func newIDAllocator(ctx context.Context, gdb *gorm.DB) (*unify.IDAllocator, error) {
	var last [2]int64
	for i, k := range []entity.Kind{entity.Gene, entity.Protein} {
		table := schema.EntityTable(k)
		var v sql.NullInt64
		err := gdb.WithContext(ctx).
			Table(table).
			Select("MAX(id)").
			Row().
			Scan(&v)
		if err != nil {
			return nil, IDCounterError(table, err)
		}
		last[i] = v.Int64
	}
	return unify.NewIDAllocator(last[0], last[1]), nil
}
