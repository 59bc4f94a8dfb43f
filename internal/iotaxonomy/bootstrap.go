// Package iotaxonomy fills the Taxonomy Store from an NCBI taxonomy
// dump and reads the species tree back for loads.
package iotaxonomy

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnamed/internal/iofs"
	"github.com/gnames/gnamed/internal/iotaxdump"
	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/db"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnamed/pkg/parserpool"
	"github.com/gnames/gnamed/pkg/schema"
	"github.com/gnames/gnamed/pkg/taxonomy"
	"github.com/gnames/gnfmt"
	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// maxParams is the largest number of bind parameters in one INSERT.
const maxParams = 30_000

type bootstrapper struct {
	operator db.Operator
	progress bool
}

// New creates a TaxonomyBootstrapper. With progress set, reading of
// dump files is shown with progress bars.
func New(op db.Operator, progress bool) gnamed.TaxonomyBootstrapper {
	return &bootstrapper{operator: op, progress: progress}
}

// Bootstrap reads the dump from cfg.Taxonomy.DumpDir and writes species
// and their names. The species table has to be empty unless
// cfg.Taxonomy.Force is set, in which case the old taxonomy is removed.
func (b *bootstrapper) Bootstrap(
	ctx context.Context,
	cfg *config.Config,
) (taxonomy.Report, error) {
	var rep taxonomy.Report
	start := time.Now()

	gdb, err := b.operator.GORM()
	if err != nil {
		return rep, err
	}
	gdb = gdb.WithContext(ctx)

	if err = prepareTables(gdb, cfg.Taxonomy.Force); err != nil {
		return rep, err
	}

	dir := iofs.ExpandPath(cfg.Taxonomy.DumpDir, cfg.HomeDir)
	species, rep, err := b.build(ctx, dir)
	if err != nil {
		return rep, err
	}

	if cfg.Taxonomy.WithCanonical {
		gn.Info("Parsing scientific names for canonical forms")
		rep.Canonical, err = addCanonical(ctx, species, cfg.JobsNumber)
		if err != nil {
			return rep, err
		}
	}

	if err = write(gdb, species, cfg.Database.BatchSize); err != nil {
		return rep, err
	}

	slog.Info("Taxonomy bootstrap finished",
		"nodes", rep.Nodes,
		"merged", rep.Merged,
		"names", rep.Names,
		"canonical", rep.Canonical,
		"skipped_names", rep.SkippedNames,
		"skipped_merges", rep.SkippedMerges,
		"dangling_parents", rep.DanglingParents,
		"dangling_merges", rep.DanglingMerges,
		"duration", gnfmt.TimeString(time.Since(start).Seconds()),
	)
	return rep, nil
}

// prepareTables checks that there is no taxonomy yet, or removes it
// when force is set.
func prepareTables(gdb *gorm.DB, force bool) error {
	var count int64
	err := gdb.Model(&schema.Species{}).Count(&count).Error
	if err != nil {
		return TaxonomyWriteError("species", err)
	}
	if count == 0 {
		return nil
	}
	if !force {
		return TaxonomyNotEmptyError(count)
	}

	gn.Info("Removing <em>%s</em> existing species", humanize.Comma(count))
	return gdb.Transaction(func(tx *gorm.DB) error {
		for _, m := range []any{&schema.SpeciesName{}, &schema.Species{}} {
			if err := tx.Where("1 = 1").Delete(m).Error; err != nil {
				return TaxonomyWriteError(tableName(m), err)
			}
		}
		return nil
	})
}

// build streams the dump files through the taxonomy builder.
func (b *bootstrapper) build(
	ctx context.Context,
	dir string,
) ([]taxonomy.Species, taxonomy.Report, error) {
	var rep taxonomy.Report
	rd := iotaxdump.New(dir, b.progress)
	bld := taxonomy.NewBuilder()

	count, err := rd.Nodes(ctx, func(row taxonomy.NodeRow) error {
		bld.AddNode(row)
		return nil
	})
	if err != nil {
		return nil, rep, err
	}
	gn.Info("Read <em>%s</em> nodes", humanize.Comma(int64(count)))

	var skipped int
	count, err = rd.Names(ctx, func(row taxonomy.NameRow) error {
		if err := bld.AddName(row); err != nil {
			if !errors.Is(err, taxonomy.ErrUnknownNode) {
				return err
			}
			skipped++
			slog.Warn("Skipping name of unknown node",
				"id", row.ID, "name", row.Name, "category", row.Category)
		}
		return nil
	})
	if err != nil {
		return nil, rep, err
	}
	gn.Info("Read <em>%s</em> names", humanize.Comma(int64(count)))

	count, err = rd.Merges(ctx, func(row taxonomy.MergeRow) error {
		bld.AddMerge(row)
		return nil
	})
	if err != nil {
		return nil, rep, err
	}
	gn.Info("Read <em>%s</em> merges", humanize.Comma(int64(count)))

	_, species, rep, err := bld.Build()
	rep.SkippedNames = skipped
	if err != nil {
		return nil, rep, TaxonomyBuildError(dir, err)
	}
	if rep.FallbackAdded {
		gn.Warn("Dump has no unidentified species, adding a placeholder")
	}
	if rep.DanglingParents+rep.DanglingMerges > 0 {
		gn.Warn("Dump has <em>%d</em> dangling parents and <em>%d</em> "+
			"dangling merges", rep.DanglingParents, rep.DanglingMerges)
	}
	return species, rep, nil
}

// canonical is the result of parsing names of one species.
type canonical struct {
	idx   int
	names []string
}

// addCanonical parses scientific names and authorities of all species
// with jobs workers and adds canonical forms that are new for a
// species. It returns the number of added names.
func addCanonical(
	ctx context.Context,
	species []taxonomy.Species,
	jobs int,
) (int, error) {
	pool := parserpool.NewPool(jobs)
	defer pool.Close()

	chIn := make(chan int)
	chOut := make(chan canonical)
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer close(chIn)
		for i := range species {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case chIn <- i:
			}
		}
		return nil
	})

	workers, wctx := errgroup.WithContext(ctx)
	for range max(jobs, 1) {
		workers.Go(func() error {
			return canonicalWorker(wctx, pool, species, chIn, chOut)
		})
	}
	g.Go(func() error {
		defer close(chOut)
		return workers.Wait()
	})

	var count int
	g.Go(func() error {
		for res := range chOut {
			sp := &species[res.idx]
			for _, v := range res.names {
				sp.Names = append(sp.Names,
					taxonomy.Name{Category: taxonomy.CatCanonical, Name: v})
				count++
			}
		}
		return nil
	})

	if err := g.Wait(); err != nil {
		return 0, err
	}
	return count, nil
}

// canonicalWorker reads species indexes and sends canonical forms that
// differ from all names the species has.
func canonicalWorker(
	ctx context.Context,
	pool parserpool.Pool,
	species []taxonomy.Species,
	chIn <-chan int,
	chOut chan<- canonical,
) error {
	for idx := range chIn {
		sp := species[idx]
		var res []string
		for _, n := range sp.Names {
			if n.Category != taxonomy.CatScientific &&
				n.Category != taxonomy.CatAuthority {
				continue
			}
			can := pool.Canonical(n.Name)
			if can == "" || slices.Contains(res, can) || hasName(sp, can) {
				continue
			}
			res = append(res, can)
		}
		if len(res) == 0 {
			continue
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case chOut <- canonical{idx: idx, names: res}:
		}
	}
	return nil
}

func hasName(sp taxonomy.Species, name string) bool {
	for _, v := range sp.Names {
		if v.Name == name {
			return true
		}
	}
	return false
}

// write stores species and names in one transaction.
func write(gdb *gorm.DB, species []taxonomy.Species, batchSize int) error {
	spRows := make([]schema.Species, len(species))
	var nameRows []schema.SpeciesName
	for i, v := range species {
		spRows[i] = speciesModel(v)
		for _, n := range v.Names {
			nameRows = append(nameRows, schema.SpeciesName{
				SpeciesID: v.ID,
				Category:  n.Category,
				Name:      n.Name,
			})
		}
	}

	return gdb.Transaction(func(tx *gorm.DB) error {
		tx = tx.Clauses(clause.OnConflict{DoNothing: true})
		size := batchLimit(batchSize, 5)
		if err := tx.CreateInBatches(spRows, size).Error; err != nil {
			return TaxonomyWriteError("species", err)
		}
		gn.Info("Saved <em>%s</em> species",
			humanize.Comma(int64(len(spRows))))

		if len(nameRows) == 0 {
			return nil
		}
		size = batchLimit(batchSize, 3)
		if err := tx.CreateInBatches(nameRows, size).Error; err != nil {
			return TaxonomyWriteError("species_names", err)
		}
		gn.Info("Saved <em>%s</em> species names",
			humanize.Comma(int64(len(nameRows))))
		return nil
	})
}

// batchLimit keeps the number of bind parameters of one INSERT under
// maxParams.
func batchLimit(batchSize, columns int) int {
	limit := maxParams / columns
	if batchSize <= 0 || batchSize > limit {
		return limit
	}
	return batchSize
}

func speciesModel(sp taxonomy.Species) schema.Species {
	res := schema.Species{
		ID:         sp.ID,
		Rank:       sp.Rank,
		UniqueName: sp.UniqueName,
	}
	if sp.ParentID != 0 {
		res.ParentID = sql.NullInt32{Int32: int32(sp.ParentID), Valid: true}
	}
	if sp.GenbankName != "" {
		res.GenbankName = sql.NullString{String: sp.GenbankName, Valid: true}
	}
	return res
}

func tableName(m any) string {
	return m.(interface{ TableName() string }).TableName()
}
