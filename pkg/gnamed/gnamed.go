// Package gnamed defines the contracts of the gnamed lifecycle: schema
// management, taxonomy bootstrap, loading of source files and queries.
// Implementations live in internal packages.
package gnamed

import (
	"context"
	"time"

	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/sources"
	"github.com/gnames/gnamed/pkg/taxonomy"
)

// SchemaManager defines the interface for database schema management.
// It uses GORM AutoMigrate to handle both initial schema creation and
// migrations. Schema management is idempotent.
type SchemaManager interface {
	// Create creates the database schema.
	Create(ctx context.Context, cfg *config.Config) error

	// Migrate updates the database schema to the latest version.
	Migrate(ctx context.Context, cfg *config.Config) error
}

// TaxonomyBootstrapper fills the Taxonomy Store from an NCBI taxonomy
// dump.
type TaxonomyBootstrapper interface {
	Bootstrap(ctx context.Context, cfg *config.Config) (taxonomy.Report, error)
}

// RecordStream is a lazy, finite sequence of canonical records of one
// source file. It is restarted by opening the file again.
type RecordStream interface {
	// Next advances to the next record. It returns false at the end of
	// the stream or on a fatal error.
	Next() bool

	// Record returns the current record, or an empty record with a
	// decoding error that concerns this record only.
	Record() (entity.Record, error)

	// Err returns the fatal error that stopped the stream, if any.
	Err() error

	// Close releases the underlying file.
	Close() error
}

// Summary describes the result of ingesting one source file.
type Summary struct {
	Source sources.Source
	Mode   string

	// Records is the number of records read.
	Records int64
	// Rejected records were invalid and skipped.
	Rejected int64
	// Failed records hit a storage error and were rolled back.
	Failed int64

	Created  int64
	Extended int64
	Anchored int64

	Started  time.Time
	Duration time.Duration
}

// Sink stores a source file's records. The row and bulk loaders are
// sinks that leave identical state for identical input.
type Sink interface {
	Ingest(
		ctx context.Context,
		src sources.Source,
		recs RecordStream,
	) (Summary, error)
}

// Loader loads all configured source files in order.
type Loader interface {
	Load(ctx context.Context, cfg *config.Config) ([]Summary, error)
}

// StringRow is one string of a namespace's record.
type StringRow struct {
	Accession string `json:"accession"`
	Category  string `json:"category"`
	Value     string `json:"value"`
}

// MappingRow is a pair of accessions that share an entity.
type MappingRow struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// CitationRow is the number of distinct citations of a record's entity.
type CitationRow struct {
	Accession string `json:"accession"`
	Count     int64  `json:"count"`
}

// Querier answers questions about loaded data.
type Querier interface {
	// Strings lists names, symbols, keywords and other strings of all
	// records of a namespace.
	Strings(ctx context.Context, namespace string) ([]StringRow, error)

	// Mappings lists accession pairs of two namespaces that share an
	// entity, directly or through gene-protein links.
	Mappings(ctx context.Context, from, to string) ([]MappingRow, error)

	// CitationCounts counts citations of each record of a namespace.
	CitationCounts(ctx context.Context, namespace string) ([]CitationRow, error)
}
