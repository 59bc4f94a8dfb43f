package iodb

import (
	"context"
	"os"
	"path/filepath"

	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/db"
	"github.com/jackc/pgx/v5/pgxpool"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	_ "modernc.org/sqlite"
)

// sqliteOperator implements db.Operator for a SQLite file through
// the pure Go modernc.org/sqlite driver.
type sqliteOperator struct {
	path   string
	gormDB *gorm.DB
}

// NewSQLiteOperator creates a new SQLite operator (without
// connecting).
func NewSQLiteOperator() db.Operator {
	return &sqliteOperator{}
}

// Connect opens the SQLite file at cfg.Path, creating it and its
// directory when needed.
func (s *sqliteOperator) Connect(
	ctx context.Context,
	cfg *config.DatabaseConfig,
) error {
	path := cfg.Path
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return SQLiteConnectionError(path, err)
	}

	dsn := path + "?_pragma=busy_timeout(5000)&_pragma=foreign_keys(0)"
	res, err := gorm.Open(
		sqlite.New(sqlite.Config{DriverName: "sqlite", DSN: dsn}),
		gormConfig(),
	)
	if err != nil {
		return SQLiteConnectionError(path, err)
	}

	sqlDB, err := res.DB()
	if err != nil {
		return SQLiteConnectionError(path, err)
	}
	// SQLite allows one writer; a single connection also keeps
	// transactions and queries on the same handle.
	sqlDB.SetMaxOpenConns(1)

	if err := sqlDB.PingContext(ctx); err != nil {
		sqlDB.Close()
		return SQLiteConnectionError(path, err)
	}

	s.path = path
	s.gormDB = res
	return nil
}

// Close closes the SQLite file.
func (s *sqliteOperator) Close() error {
	if s.gormDB == nil {
		return nil
	}
	sqlDB, err := s.gormDB.DB()
	s.gormDB = nil
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Driver returns config.DriverSQLite.
func (s *sqliteOperator) Driver() string {
	return config.DriverSQLite
}

// Pool is always nil for SQLite.
func (s *sqliteOperator) Pool() *pgxpool.Pool {
	return nil
}

// GORM returns the GORM session of the SQLite file.
func (s *sqliteOperator) GORM() (*gorm.DB, error) {
	if s.gormDB == nil {
		return nil, NotConnectedError()
	}
	return s.gormDB, nil
}

// TableExists checks if a table exists in the SQLite file.
func (s *sqliteOperator) TableExists(
	ctx context.Context,
	tableName string,
) (bool, error) {
	if s.gormDB == nil {
		return false, NotConnectedError()
	}

	query := `
		SELECT count(*) FROM sqlite_master
		WHERE type = 'table' AND name = ?
	`

	var count int64
	err := s.gormDB.WithContext(ctx).Raw(query, tableName).Scan(&count).Error
	if err != nil {
		return false, TableExistsCheckError(tableName, err)
	}
	return count > 0, nil
}

// HasTables checks if the SQLite file has any user tables.
func (s *sqliteOperator) HasTables(ctx context.Context) (bool, error) {
	tables, err := s.tables(ctx)
	if err != nil {
		return false, TableCheckError(err)
	}
	return len(tables) > 0, nil
}

// DropAllTables drops all user tables of the SQLite file.
func (s *sqliteOperator) DropAllTables(ctx context.Context) error {
	tables, err := s.tables(ctx)
	if err != nil {
		return QueryTablesError(err)
	}

	for _, table := range tables {
		err = s.gormDB.WithContext(ctx).Migrator().DropTable(table)
		if err != nil {
			return DropTableError(table, err)
		}
	}
	return nil
}

func (s *sqliteOperator) tables(ctx context.Context) ([]string, error) {
	if s.gormDB == nil {
		return nil, NotConnectedError()
	}

	query := `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`

	var res []string
	err := s.gormDB.WithContext(ctx).Raw(query).Scan(&res).Error
	return res, err
}
