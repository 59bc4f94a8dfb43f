package ioschema

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/errcode"
)

// NotConnectedError is returned when collation is applied before
// the PostgreSQL pool is opened.
func NotConnectedError() error {
	msg := "No PostgreSQL pool to set text collation on gnamed tables"

	return &gn.Error{
		Code: errcode.DBNotConnectedError,
		Msg:  msg,
		Err:  fmt.Errorf("ioschema: pool is not open"),
	}
}

// GORMConnectionError wraps a failure to get the GORM handle
// used by the create step.
func GORMConnectionError(err error) error {
	msg := `Cannot open the schema session for gnamed tables

<em>Check:</em>
  - the database section of config.yaml (driver, host, database)
  - that the SQLite file directory is writable, or PostgreSQL is up

Then run <em>gnamed create</em> again.`

	return &gn.Error{
		Code: errcode.SchemaGORMConnectionError,
		Msg:  msg,
		Err:  fmt.Errorf("ioschema: gorm session: %w", err),
	}
}

// CreateSchemaError wraps a failed AutoMigrate of a fresh database.
func CreateSchemaError(err error) error {
	msg := `Cannot create gnamed tables (species, genes, proteins and their
refs, strings and mappings)

The database user needs the CREATE privilege. With <em>--force</em> the
existing tables are dropped first, so leftovers of an older layout
are not the cause.`

	return &gn.Error{
		Code: errcode.SchemaCreateError,
		Msg:  msg,
		Err:  fmt.Errorf("ioschema: create tables: %w", err),
	}
}

// MigrateSchemaError wraps a failed AutoMigrate of an existing database.
func MigrateSchemaError(err error) error {
	msg := `Cannot bring gnamed tables up to date

Loaded data is kept. If the tables come from an incompatible
version, recreate them with <em>gnamed create --force</em> and
load the taxonomy and sources again.`

	return &gn.Error{
		Code: errcode.SchemaMigrateError,
		Msg:  msg,
		Err:  fmt.Errorf("ioschema: migrate tables: %w", err),
	}
}

// CollationError wraps a failure to switch a sorted text column
// to bytewise "C" collation.
func CollationError(table, column string, err error) error {
	msg := `Cannot set "C" collation on <em>%s.%s</em>

Query output ordering depends on it. The database user must own
the table created by <em>gnamed create</em>.`

	return &gn.Error{
		Code: errcode.SchemaCollationError,
		Msg:  msg,
		Vars: []any{table, column},
		Err: fmt.Errorf(
			"ioschema: collation of %s.%s: %w", table, column, err),
	}
}
