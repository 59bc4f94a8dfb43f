// Package iotesting provides shared test utilities for integration tests.
// This is an internal package for test infrastructure only.
package iotesting

import (
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/gnames/gnamed/pkg/config"
)

const (
	// TestDatabaseName is the database name used for all integration tests.
	// This ensures tests never accidentally run against production databases.
	TestDatabaseName = "gnamed_test"
)

// GetTestConfig returns a configuration suitable for PostgreSQL
// integration tests. Connection settings can be overridden with
// GNAMED_DATABASE_HOST, GNAMED_DATABASE_PORT, GNAMED_DATABASE_USER and
// GNAMED_DATABASE_PASSWORD. The database name is always TestDatabaseName.
//
// Usage in integration tests:
//
//	func TestSomething(t *testing.T) {
//	    if testing.Short() {
//	        t.Skip("Skipping integration test")
//	    }
//	    cfg := iotesting.GetTestConfig()
//	    // ... use cfg for database operations
//	}
func GetTestConfig() *config.Config {
	cfg := config.New()
	opts := []config.Option{
		config.OptDatabaseUser("postgres"),
		config.OptDatabasePassword("postgres"),
	}
	if s := os.Getenv("GNAMED_DATABASE_HOST"); s != "" {
		opts = append(opts, config.OptDatabaseHost(s))
	}
	if s := os.Getenv("GNAMED_DATABASE_PORT"); s != "" {
		if i, err := strconv.Atoi(s); err == nil {
			opts = append(opts, config.OptDatabasePort(i))
		}
	}
	if s := os.Getenv("GNAMED_DATABASE_USER"); s != "" {
		opts = append(opts, config.OptDatabaseUser(s))
	}
	if s := os.Getenv("GNAMED_DATABASE_PASSWORD"); s != "" {
		opts = append(opts, config.OptDatabasePassword(s))
	}
	opts = append(opts, config.OptDatabaseDatabase(TestDatabaseName))
	cfg.Update(opts)
	return cfg
}

// GetTestDatabaseConfig returns only the database configuration for tests.
func GetTestDatabaseConfig() *config.DatabaseConfig {
	cfg := GetTestConfig()
	return &cfg.Database
}

// SQLiteConfig returns a configuration that keeps the database and all
// configuration files in temporary directories of the test.
func SQLiteConfig(t *testing.T) *config.Config {
	t.Helper()

	home := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{
		config.OptHomeDir(home),
		config.OptDatabaseDriver(config.DriverSQLite),
		config.OptDatabasePath(filepath.Join(home, "gnamed.sqlite")),
		config.OptJobsNumber(2),
	})
	return cfg
}

// WriteTempSourcesYAML writes sources.yaml to the configuration
// directory of homeDir.
//
// Usage:
//
//	cfg := iotesting.SQLiteConfig(t)
//	iotesting.WriteTempSourcesYAML(t, cfg.HomeDir, `
//	sources:
//	  - namespace: entrez
//	    file: /path/to/entrez.jsonl
//	    anchor: true
//	`)
func WriteTempSourcesYAML(t *testing.T, homeDir, content string) string {
	t.Helper()

	path := config.SourcesFilePath(homeDir)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("Failed to create config dir: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp sources.yaml: %v", err)
	}
	return path
}

// WriteFile writes content to a file in dir and returns its path.
func WriteFile(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
	return path
}
