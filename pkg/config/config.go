// Package config provides configuration management for gnamed.
//
// This package has no I/O dependencies. Validation functions may write
// user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
//   - Default config (from New()) is always valid
//   - All mutations go through Option functions
//   - Invalid options are rejected with gn.Warn(), config stays valid
//   - ToOptions() converts persistent fields (those in config.yaml)
//   - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Database: driver, host, port, user, password, database, ssl_mode,
//     path, batch_size
//   - Taxonomy: dump_dir, with_canonical
//   - Load: mode, metrics_file
//   - Log: level, format, destination
//   - General: jobs_number
//
// Runtime-only fields (CLI flags only):
//   - Load.Namespaces, Load.IgnoreOrder, Taxonomy.Force
//   - HomeDir (set once at startup)
//
// # Environment Variables
//
// Use GNAMED_ prefix with underscores for nesting:
//
//	GNAMED_DATABASE_HOST=localhost
//	GNAMED_DATABASE_DRIVER=sqlite
//	GNAMED_LOAD_MODE=bulk
//	GNAMED_JOBS_NUMBER=8
package config

import (
	"runtime"
)

// Config represents the complete gnamed configuration.
type Config struct {
	// Database contains connection settings of the backing store.
	Database DatabaseConfig `mapstructure:"database" yaml:"database"`

	// Taxonomy contains settings of the taxonomy bootstrap.
	Taxonomy TaxonomyConfig `mapstructure:"taxonomy" yaml:"taxonomy"`

	// Load contains settings of the load command.
	Load LoadConfig `mapstructure:"load" yaml:"load"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// JobsNumber is the number of concurrent workers for parallel operations.
	// Default value is set according to the number of available threads.
	JobsNumber int `mapstructure:"jobs_number" yaml:"jobs_number"`

	// HomeDir determines where config, cache and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// DatabaseConfig contains connection parameters.
type DatabaseConfig struct {
	// Driver is either "postgres" or "sqlite". Bulk loading requires
	// "postgres".
	Driver string `mapstructure:"driver" yaml:"driver"`

	// Host is the PostgreSQL server hostname or IP address.
	Host string `mapstructure:"host" yaml:"host"`

	// Port is the PostgreSQL server port number.
	Port int `mapstructure:"port" yaml:"port"`

	// User is the PostgreSQL database username.
	User string `mapstructure:"user" yaml:"user"`

	// Password is the PostgreSQL database password.
	Password string `mapstructure:"password" yaml:"password"`

	// Database is the PostgreSQL database name to connect to.
	Database string `mapstructure:"database" yaml:"database"`

	// SSLMode specifies the SSL connection mode.
	// Valid values: "disable", "require", "verify-ca", "verify-full"
	SSLMode string `mapstructure:"ssl_mode" yaml:"ssl_mode"`

	// Path is the SQLite database file. Ignored by PostgreSQL.
	Path string `mapstructure:"path" yaml:"path"`

	// BatchSize is the number of rows written per statement during
	// taxonomy bootstrap.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`
}

// TaxonomyConfig contains settings of the taxonomy bootstrap.
type TaxonomyConfig struct {
	// DumpDir is a directory with NCBI nodes.dmp, names.dmp and merged.dmp.
	DumpDir string `mapstructure:"dump_dir" yaml:"dump_dir"`

	// WithCanonical adds canonical forms of scientific names parsed by
	// gnparser as an additional species name category.
	WithCanonical bool `mapstructure:"with_canonical" yaml:"with_canonical"`

	// Force removes existing species before bootstrap.
	Force bool `mapstructure:"-" yaml:"-"`
}

// LoadConfig contains settings of the load command.
type LoadConfig struct {
	// Mode is "row" for per-record transactions or "bulk" for the
	// streaming copy path (first load into empty entity tables only).
	Mode string `mapstructure:"mode" yaml:"mode"`

	// MetricsFile, when not empty, receives load metrics in Prometheus
	// text format after every load.
	MetricsFile string `mapstructure:"metrics_file" yaml:"metrics_file"`

	// Namespaces restricts the load to these sources from sources.yaml.
	// Empty slice means all sources.
	Namespaces []string `mapstructure:"namespaces" yaml:"namespaces"`

	// IgnoreOrder skips the check that anchor sources are loaded before
	// dependent ones.
	IgnoreOrder bool `mapstructure:"-" yaml:"-"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json', 'text' or 'tint' (user-facing and colored).
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

const (
	// DriverPostgres selects PostgreSQL through pgx.
	DriverPostgres = "postgres"
	// DriverSQLite selects an SQLite file.
	DriverSQLite = "sqlite"

	// ModeRow loads records one transaction at a time.
	ModeRow = "row"
	// ModeBulk streams records with COPY.
	ModeBulk = "bulk"
)

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Database: DatabaseConfig{
			Driver:    DriverPostgres,
			Host:      "localhost",
			Port:      5432,
			User:      "postgres",
			Password:  "postgres",
			Database:  "gnamed",
			SSLMode:   "disable",
			BatchSize: 5_000,
		},
		Taxonomy: TaxonomyConfig{
			WithCanonical: true,
		},
		Load: LoadConfig{
			Mode: ModeRow,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now file is rewritten every time the log starts
			Destination: "file",
		},
		JobsNumber: runtime.NumCPU(),
	}

	return res
}
