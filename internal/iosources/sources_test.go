package iosources

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/errcode"
	"github.com/gnames/gnamed/pkg/sources"
	"github.com/gnames/gnamed/pkg/templates"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "sources.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadSourcesConfig(t *testing.T) {
	path := writeYAML(t, `
namespaces:
  - name: zfin
    kind: gene
    species: [7955]
sources:
  - namespace: entrez
    file: /data/gene_info.gz
    format: gene_info
    anchor: true
    bulk: true
  - namespace: zfin
    file: /data/zfin.jsonl
`)

	res, err := loadSourcesConfig(path)
	require.NoError(t, err)
	require.Len(t, res.Sources, 2)

	assert.Equal(t, entity.Gene, res.Sources[0].Kind)
	assert.True(t, res.Sources[0].Anchor)
	assert.True(t, res.Sources[0].Bulk)
	assert.Equal(t, sources.FormatGeneInfo, res.Sources[0].Format)
	assert.Equal(t, entity.Gene, res.Sources[1].Kind)
	assert.Equal(t, sources.FormatJSONL, res.Sources[1].Format)

	ns, ok := res.Registry().Lookup("zfin")
	require.True(t, ok)
	assert.Equal(t, []int{7955}, ns.Species)
}

func TestLoadSourcesConfig_Errors(t *testing.T) {
	tests := []struct {
		name, content, msg string
	}{
		{"bad yaml", "sources: [", "failed to parse"},
		{"empty", "sources: []\n", "no sources"},
		{"bad kind", "sources:\n  - namespace: entrez\n    kind: rna\n    file: e\n",
			"must be gene or protein"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := loadSourcesConfig(writeYAML(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}

	_, err := loadSourcesConfig("nonexistent.yaml")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read sources config file")
}

func TestLoadTemplate(t *testing.T) {
	res, err := loadSourcesConfig(writeYAML(t, templates.SourcesYAML))
	require.NoError(t, err)
	assert.Len(t, res.Sources, 4)
	assert.Equal(t, entity.Protein, res.Sources[1].Kind)
}

func TestLoad(t *testing.T) {
	home := t.TempDir()
	cfg := config.New()
	cfg.Update([]config.Option{config.OptHomeDir(home)})

	_, err := New(cfg).Load()
	assert.Error(t, err)

	path := config.SourcesFilePath(home)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path,
		[]byte("sources:\n  - namespace: uniprot\n    file: u.jsonl\n"), 0644))

	res, err := New(cfg).Load()
	require.NoError(t, err)
	assert.Equal(t, entity.Protein, res.Sources[0].Kind)

	require.NoError(t, os.WriteFile(path, []byte("sources: []\n"), 0644))
	_, err = New(cfg).Load()
	gnErr, ok := err.(*gn.Error)
	require.True(t, ok, "Error should be of type *gn.Error")
	assert.Equal(t, errcode.SourcesValidationError, gnErr.Code)
	assert.ErrorIs(t, gnErr.Err, errInvalid)
}
