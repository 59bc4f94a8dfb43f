package config_test

import (
	"path/filepath"
	"runtime"
	"testing"

	"github.com/gnames/gnamed/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirs(t *testing.T) {
	tempHome := t.TempDir()

	tests := []struct {
		msg string
		fn  func(string) string
		res string
	}{
		{
			msg: "config dir",
			fn:  config.ConfigDir,
			res: filepath.Join(tempHome, ".config", "gnamed"),
		},
		{
			msg: "cache dir",
			fn:  config.CacheDir,
			res: filepath.Join(tempHome, ".cache", "gnamed"),
		},
		{
			msg: "log dir",
			fn:  config.LogDir,
			res: filepath.Join(tempHome, ".local", "share", "gnamed", "logs"),
		},
		{
			msg: "sources file",
			fn:  config.SourcesFilePath,
			res: filepath.Join(tempHome, ".config", "gnamed", "sources.yaml"),
		},
	}

	for _, v := range tests {
		res := v.fn(tempHome)
		assert.Equal(t, v.res, res, v.msg)
	}
}

func TestNew(t *testing.T) {
	cfg := config.New()
	require.NotNil(t, cfg)

	assert.Equal(t, config.DriverPostgres, cfg.Database.Driver)
	assert.Equal(t, "localhost", cfg.Database.Host)
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, "gnamed", cfg.Database.Database)
	assert.Equal(t, "disable", cfg.Database.SSLMode)
	assert.Equal(t, 5_000, cfg.Database.BatchSize)

	assert.True(t, cfg.Taxonomy.WithCanonical)
	assert.Equal(t, config.ModeRow, cfg.Load.Mode)
	assert.Empty(t, cfg.Load.Namespaces)

	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "file", cfg.Log.Destination)

	assert.Equal(t, runtime.NumCPU(), cfg.JobsNumber)
}

func TestOptionDatabaseHost(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{"sets valid host", "db.example.com", "db.example.com"},
		{"trims whitespace", "  db.example.com  ", "db.example.com"},
		{"ignores empty string", "", "localhost"},
		{"ignores whitespace-only", "   ", "localhost"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{config.OptDatabaseHost(tt.input)})
			assert.Equal(t, tt.expected, cfg.Database.Host)
		})
	}
}

func TestOptionEnums(t *testing.T) {
	tests := []struct {
		name  string
		opt   config.Option
		field func(*config.Config) string
		exp   string
	}{
		{"sqlite driver", config.OptDatabaseDriver(" SQLite "),
			func(c *config.Config) string { return c.Database.Driver }, "sqlite"},
		{"bad driver", config.OptDatabaseDriver("mysql"),
			func(c *config.Config) string { return c.Database.Driver }, "postgres"},
		{"bulk mode", config.OptLoadMode("BULK"),
			func(c *config.Config) string { return c.Load.Mode }, "bulk"},
		{"bad mode", config.OptLoadMode("fast"),
			func(c *config.Config) string { return c.Load.Mode }, "row"},
		{"ssl mode", config.OptDatabaseSSLMode("require"),
			func(c *config.Config) string { return c.Database.SSLMode }, "require"},
		{"log level", config.OptLogLevel("debug"),
			func(c *config.Config) string { return c.Log.Level }, "debug"},
		{"bad log level", config.OptLogLevel("verbose"),
			func(c *config.Config) string { return c.Log.Level }, "info"},
		{"log destination", config.OptLogDestination("stderr"),
			func(c *config.Config) string { return c.Log.Destination }, "stderr"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.New()
			cfg.Update([]config.Option{tt.opt})
			assert.Equal(t, tt.exp, tt.field(cfg))
		})
	}
}

func TestOptionInts(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabasePort(0),
		config.OptDatabaseBatchSize(-1),
		config.OptJobsNumber(3),
	})
	assert.Equal(t, 5432, cfg.Database.Port)
	assert.Equal(t, 5_000, cfg.Database.BatchSize)
	assert.Equal(t, 3, cfg.JobsNumber)
}

func TestOptLoadNamespaces(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptLoadNamespaces([]string{" Entrez", "", "hgnc "}),
	})
	assert.Equal(t, []string{"entrez", "hgnc"}, cfg.Load.Namespaces)

	cfg.Update([]config.Option{config.OptLoadNamespaces(nil)})
	assert.Equal(t, []string{"entrez", "hgnc"}, cfg.Load.Namespaces)
}

func TestToOptions(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptDatabaseDriver("sqlite"),
		config.OptDatabasePath("/tmp/gnamed.sqlite"),
		config.OptTaxonomyDumpDir("/data/taxdump"),
		config.OptTaxonomyWithCanonical(false),
		config.OptLoadMode("bulk"),
		config.OptLoadMetricsFile("/tmp/gnamed.prom"),
		config.OptLoadNamespaces([]string{"entrez"}),
		config.OptLoadIgnoreOrder(true),
		config.OptHomeDir("/home/user"),
		config.OptLogFormat("text"),
	})

	cfg2 := config.New()
	cfg2.Update(cfg.ToOptions())

	assert.Equal(t, cfg.Database, cfg2.Database)
	assert.Equal(t, cfg.Taxonomy.DumpDir, cfg2.Taxonomy.DumpDir)
	assert.False(t, cfg2.Taxonomy.WithCanonical)
	assert.Equal(t, cfg.Load.Mode, cfg2.Load.Mode)
	assert.Equal(t, cfg.Load.MetricsFile, cfg2.Load.MetricsFile)
	assert.Equal(t, cfg.Log, cfg2.Log)

	// runtime-only fields do not round-trip
	assert.Empty(t, cfg2.Load.Namespaces)
	assert.False(t, cfg2.Load.IgnoreOrder)
	assert.Empty(t, cfg2.HomeDir)
}

func TestSQLitePath(t *testing.T) {
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir("/home/user")})
	assert.Equal(t,
		filepath.Join("/home/user", ".cache", "gnamed", "gnamed.sqlite"),
		cfg.SQLitePath(),
	)

	cfg.Update([]config.Option{config.OptDatabasePath("/data/g.sqlite")})
	assert.Equal(t, "/data/g.sqlite", cfg.SQLitePath())
}
