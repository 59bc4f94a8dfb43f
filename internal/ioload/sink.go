package ioload

import (
	"log/slog"

	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnamed/pkg/sources"
	"github.com/gnames/gnamed/pkg/unify"
)

// ctxCheck is how many records are read between context checks.
const ctxCheck = 1_000

// liner is implemented by streams that know the current line.
type liner interface {
	Line() int
}

func line(recs gnamed.RecordStream) int {
	if l, ok := recs.(liner); ok {
		return l.Line()
	}
	return 0
}

// reject counts and logs a record that cannot be loaded.
func reject(
	sum *gnamed.Summary,
	src sources.Source,
	recs gnamed.RecordStream,
	rec entity.Record,
	err error,
) {
	sum.Rejected++
	slog.Warn("Rejected record",
		"namespace", src.Namespace,
		"accession", rec.Accession,
		"line", line(recs),
		"error", err,
	)
}

// tally counts a processed record and logs irregularities of its
// resolution.
func tally(
	sum *gnamed.Summary,
	src sources.Source,
	rec entity.Record,
	res unify.Result,
) {
	switch res.Outcome {
	case unify.Created:
		sum.Created++
	case unify.Extended:
		sum.Extended++
	case unify.Anchored:
		sum.Anchored++
	}

	for _, v := range res.Conflicts {
		slog.Warn("Cross-reference points to another entity",
			"namespace", src.Namespace,
			"accession", rec.Accession,
			"entity_id", res.EntityID,
			"ref", v.String(),
		)
	}
	if len(res.Skipped) > 0 {
		slog.Debug("Skipped cross-references",
			"namespace", src.Namespace,
			"accession", rec.Accession,
			"count", len(res.Skipped),
		)
	}
}
