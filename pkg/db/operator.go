package db

import (
	"context"

	"github.com/gnames/gnamed/pkg/config"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/gorm"
)

// Operator defines the interface for basic database management
// operations. It manages the connection lifecycle and exposes the
// handles that higher level components (SchemaManager, taxonomy
// bootstrap, loaders, queries) use for their own SQL.
type Operator interface {
	// Connect establishes a connection to the database.
	Connect(context.Context, *config.DatabaseConfig) error

	// Close closes the database connection.
	Close() error

	// Driver returns config.DriverPostgres or config.DriverSQLite.
	Driver() string

	// Pool returns the underlying pgxpool.Pool for components that need
	// PostgreSQL specific features such as CopyFrom. It is nil for SQLite.
	Pool() *pgxpool.Pool

	// GORM returns a GORM session on the connection.
	GORM() (*gorm.DB, error)

	// TableExists checks if a table exists in the database.
	TableExists(ctx context.Context, tableName string) (bool, error)

	// HasTables checks if the database has any tables.
	// Used to determine if schema creation should prompt for confirmation.
	HasTables(ctx context.Context) (bool, error)

	// DropAllTables drops all tables.
	// Used during schema initialization when overwriting existing data.
	DropAllTables(ctx context.Context) error
}
