package iofs

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gnamed/pkg/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnsureDirs(t *testing.T) {
	tmpDir := t.TempDir()

	// repeated calls are no-ops
	for range 2 {
		require.NoError(t, EnsureDirs(tmpDir))
	}

	dirs := []string{
		filepath.Join(tmpDir, ".config", "gnamed"),
		filepath.Join(tmpDir, ".cache", "gnamed"),
		filepath.Join(tmpDir, ".local", "share", "gnamed", "logs"),
	}
	for _, v := range dirs {
		info, err := os.Stat(v)
		require.NoError(t, err)
		assert.True(t, info.IsDir(), v)
		assert.Equal(t, os.FileMode(0755), info.Mode().Perm())
	}
}

func TestTouchDir(t *testing.T) {
	tmpDir := t.TempDir()
	newDir := filepath.Join(tmpDir, "test", "subdir")
	require.NoError(t, touchDir(newDir))

	info, err := os.Stat(newDir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	file := filepath.Join(tmpDir, "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	assert.Error(t, touchDir(filepath.Join(file, "sub")))
}

func TestEnsureFiles(t *testing.T) {
	tmpDir := t.TempDir()
	require.NoError(t, EnsureDirs(tmpDir))

	require.NoError(t, EnsureConfigFile(tmpDir))
	require.NoError(t, EnsureSourcesFile(tmpDir))

	cfgPath := filepath.Join(tmpDir, ".config", "gnamed", "config.yaml")
	data, err := os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, templates.ConfigYAML, string(data))

	srcPath := filepath.Join(tmpDir, ".config", "gnamed", "sources.yaml")
	data, err = os.ReadFile(srcPath)
	require.NoError(t, err)
	assert.Equal(t, templates.SourcesYAML, string(data))

	// existing files are kept
	require.NoError(t, os.WriteFile(cfgPath, []byte("log: {}\n"), 0644))
	require.NoError(t, EnsureConfigFile(tmpDir))
	data, err = os.ReadFile(cfgPath)
	require.NoError(t, err)
	assert.Equal(t, "log: {}\n", string(data))
}

func TestEnsureFiles_NoDir(t *testing.T) {
	tmpDir := t.TempDir()
	assert.Error(t, EnsureConfigFile(tmpDir))
}

func TestExpandPath(t *testing.T) {
	tests := []struct {
		path, res string
	}{
		{"~", "/home/u"},
		{"~/data/e.jsonl", "/home/u/data/e.jsonl"},
		{"/data/e.jsonl", "/data/e.jsonl"},
		{"data/~e.jsonl", "data/~e.jsonl"},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.res, ExpandPath(tt.path, "/home/u"))
		})
	}
}

func TestCheckFile(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "e.jsonl")
	require.NoError(t, os.WriteFile(file, []byte("{}\n"), 0644))

	assert.NoError(t, CheckFile(file))
	assert.Error(t, CheckFile(tmpDir))
	assert.Error(t, CheckFile(filepath.Join(tmpDir, "missing")))
}

func TestTemplatesEmbedded(t *testing.T) {
	assert.Contains(t, templates.ConfigYAML, "database:")
	assert.Contains(t, templates.SourcesYAML, "sources:")
}
