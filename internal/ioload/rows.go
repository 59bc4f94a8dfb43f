package ioload

import (
	"context"
	"log/slog"
	"time"

	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnamed/pkg/sources"
	"github.com/gnames/gnamed/pkg/unify"
	"gorm.io/gorm"
)

// rowSink stores every record in its own transaction. It works with
// any GORM dialect.
type rowSink struct {
	gdb    *gorm.DB
	engine *unify.Engine
}

// NewRowSink creates the row-oriented loader.
func NewRowSink(gdb *gorm.DB, engine *unify.Engine) gnamed.Sink {
	return &rowSink{gdb: gdb, engine: engine}
}

// Ingest reads all records of a stream. Invalid records are rejected,
// records that fail to be stored are rolled back and counted as failed.
// Both are logged and the load goes on. Cancellation stops the load
// between records.
func (s *rowSink) Ingest(
	ctx context.Context,
	src sources.Source,
	recs gnamed.RecordStream,
) (gnamed.Summary, error) {
	sum := gnamed.Summary{
		Source:  src,
		Mode:    config.ModeRow,
		Started: time.Now(),
	}
	ids := s.engine.IDs()

	for recs.Next() {
		if sum.Records%ctxCheck == 0 {
			if err := ctx.Err(); err != nil {
				return s.done(sum), LoadCancelledError(src.Namespace, sum.Records, err)
			}
		}
		sum.Records++

		rec, err := recs.Record()
		if err != nil {
			reject(&sum, src, recs, rec, err)
			continue
		}
		if err = s.engine.Prepare(&rec, src.Kind); err != nil {
			reject(&sum, src, recs, rec, err)
			continue
		}

		mark := ids.Mark()
		var res unify.Result
		err = s.gdb.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			var err error
			res, err = s.engine.Process(ctx, newGormRepo(tx), &rec)
			return err
		})
		if err != nil {
			ids.Reset(mark)
			if ctx.Err() != nil {
				return s.done(sum), LoadCancelledError(src.Namespace, sum.Records, err)
			}
			sum.Failed++
			slog.Error("Cannot store record",
				"namespace", src.Namespace,
				"accession", rec.Accession,
				"line", line(recs),
				"error", err,
			)
			continue
		}
		tally(&sum, src, rec, res)
	}

	if err := recs.Err(); err != nil {
		return s.done(sum), err
	}
	return s.done(sum), nil
}

func (s *rowSink) done(sum gnamed.Summary) gnamed.Summary {
	sum.Duration = time.Since(sum.Started)
	return sum
}
