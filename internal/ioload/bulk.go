package ioload

import (
	"context"
	"errors"
	"time"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnamed/pkg/sources"
	"github.com/gnames/gnamed/pkg/unify"
	"github.com/jackc/pgx/v5"
)

// Parts of a satellite row in the staging stream.
const (
	partString  = "s"
	partPubMed  = "p"
	partMapping = "m"
)

// stagingColumns are columns of a satellite row: part, two ids and an
// optional categorized string.
var stagingColumns = []string{"part", "id1", "id2", "category", "value"}

// bulkTarget is the storage of the bulk loader.
type bulkTarget interface {
	// Empty reports whether there are no entities and refs of a kind.
	Empty(ctx context.Context, k entity.Kind) (bool, error)

	// Refs returns all stored refs of a kind.
	Refs(ctx context.Context, k entity.Kind) ([]entity.EntityRef, error)

	// Write stores, in one transaction, all satellite rows of sats and
	// then entities and refs of a kind collected in mem while sats was
	// read.
	Write(
		ctx context.Context,
		k entity.Kind,
		sats pgx.CopyFromSource,
		mem *unify.MemRepo,
	) error
}

// bulkSink resolves a whole file in memory and streams it to storage.
type bulkSink struct {
	target bulkTarget
	engine *unify.Engine
}

// Check verifies that a source may be loaded in bulk. Nothing is
// written.
func (s *bulkSink) Check(ctx context.Context, src sources.Source) error {
	if err := ctx.Err(); err != nil {
		return LoadCancelledError(src.Namespace, 0, err)
	}
	if !src.Bulk {
		return BulkPreconditionError(src.Namespace,
			"bulk is not allowed for the source in sources.yaml")
	}
	empty, err := s.target.Empty(ctx, src.Kind)
	if err != nil {
		return storageError(ctx, src.Namespace, 0, err)
	}
	if !empty {
		return BulkPreconditionError(src.Namespace,
			src.Kind.String()+" tables are not empty")
	}
	return nil
}

// Ingest loads a file as a single unit: on any storage error or
// cancellation nothing of the file is kept. Invalid records are
// rejected and do not stop the load.
func (s *bulkSink) Ingest(
	ctx context.Context,
	src sources.Source,
	recs gnamed.RecordStream,
) (gnamed.Summary, error) {
	sum := gnamed.Summary{
		Source:  src,
		Mode:    config.ModeBulk,
		Started: time.Now(),
	}
	if err := s.Check(ctx, src); err != nil {
		return sum, err
	}

	other := src.Kind.Other()
	refs, err := s.target.Refs(ctx, other)
	if err != nil {
		return sum, storageError(ctx, src.Namespace, 0, err)
	}
	mem := unify.NewMemRepo()
	mem.PreloadRefs(other, refs)

	sats := &satelliteSource{
		ctx:    ctx,
		src:    src,
		recs:   recs,
		engine: s.engine,
		repo:   &streamRepo{MemRepo: mem},
		sum:    &sum,
	}

	ids := s.engine.IDs()
	mark := ids.Mark()
	err = s.target.Write(ctx, src.Kind, sats, mem)
	sum.Duration = time.Since(sum.Started)
	if err != nil {
		ids.Reset(mark)
		var gnErr *gn.Error
		if errors.As(sats.err, &gnErr) {
			return sum, sats.err
		}
		return sum, storageError(ctx, src.Namespace, sum.Records, err)
	}
	return sum, nil
}

// storageError tells an interrupted load from a failed one.
func storageError(
	ctx context.Context,
	namespace string,
	records int64,
	err error,
) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return LoadCancelledError(namespace, records, ctxErr)
	}
	return BulkCopyError(namespace, err)
}

// streamRepo keeps entities and refs in memory and turns satellite
// rows into a stream.
type streamRepo struct {
	*unify.MemRepo
	rows [][]any
}

func (r *streamRepo) AddStrings(
	_ context.Context,
	_ entity.Kind,
	id int64,
	strs []entity.String,
) error {
	for _, v := range strs {
		r.rows = append(r.rows, []any{partString, id, nil, v.Category, v.Value})
	}
	return nil
}

func (r *streamRepo) AddPubMed(
	_ context.Context,
	_ entity.Kind,
	id int64,
	pmids []int,
) error {
	for _, v := range pmids {
		r.rows = append(r.rows, []any{partPubMed, id, int64(v), nil, nil})
	}
	return nil
}

func (r *streamRepo) AddMappings(_ context.Context, links []entity.Mapping) error {
	for _, v := range links {
		r.rows = append(r.rows,
			[]any{partMapping, v.GeneID, v.ProteinID, nil, nil})
	}
	return nil
}

// satelliteSource is a lazy pgx.CopyFromSource. Every call to Next
// reads as many records as needed to produce the next satellite row,
// so the file is resolved while it is copied.
type satelliteSource struct {
	ctx    context.Context
	src    sources.Source
	recs   gnamed.RecordStream
	engine *unify.Engine
	repo   *streamRepo
	sum    *gnamed.Summary

	cur []any
	err error
}

var _ pgx.CopyFromSource = (*satelliteSource)(nil)

func (s *satelliteSource) Next() bool {
	for len(s.repo.rows) == 0 {
		if !s.pull() {
			return false
		}
	}
	s.cur = s.repo.rows[0]
	s.repo.rows = s.repo.rows[1:]
	return true
}

func (s *satelliteSource) Values() ([]any, error) {
	return s.cur, nil
}

func (s *satelliteSource) Err() error {
	return s.err
}

// pull processes one record. It returns false at the end of the stream
// or on error.
func (s *satelliteSource) pull() bool {
	if s.err != nil {
		return false
	}
	sum := s.sum
	if sum.Records%ctxCheck == 0 {
		if err := s.ctx.Err(); err != nil {
			s.err = LoadCancelledError(s.src.Namespace, sum.Records, err)
			return false
		}
	}
	if !s.recs.Next() {
		s.err = s.recs.Err()
		return false
	}
	sum.Records++

	rec, err := s.recs.Record()
	if err != nil {
		reject(sum, s.src, s.recs, rec, err)
		return true
	}
	if err = s.engine.Prepare(&rec, s.src.Kind); err != nil {
		reject(sum, s.src, s.recs, rec, err)
		return true
	}
	res, err := s.engine.Process(s.ctx, s.repo, &rec)
	if err != nil {
		s.err = err
		return false
	}
	tally(sum, s.src, rec, res)
	return true
}
