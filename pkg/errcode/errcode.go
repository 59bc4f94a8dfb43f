package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File System errors
	CreateDirError
	CopyFileError
	ReadFileError

	// Logging errors
	CreateLogFileError

	// Database errors
	DBConnectionError
	DBTableCheckError
	DBNotConnectedError
	DBTableExistsCheckError
	DBQueryTablesError
	DBScanTableError
	DBDropTableError
	DBUnsupportedDriverError

	// Schema errors
	SchemaGORMConnectionError
	SchemaCreateError
	SchemaMigrateError
	SchemaCollationError

	// Sources errors
	SourcesConfigError
	SourcesValidationError
	SourcesNotFoundError

	// Taxonomy errors
	TaxonomyReadError
	TaxonomyBuildError
	TaxonomyNotEmptyError
	TaxonomyWriteError
	TaxonomyMissingError

	// Load errors
	LoadOrderError
	LoadBulkPreconditionError
	LoadStreamError
	LoadBulkCopyError
	LoadHistoryError
	LoadCancelledError
	LoadIDCounterError
	LoadMetricsError

	// Query errors
	QueryUnknownNamespaceError
	QueryExecError
	QueryOutputFormatError
)
