package iorecords_test

import (
	"bytes"
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/internal/iorecords"
	"github.com/gnames/gnamed/internal/iotesting"
	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/errcode"
	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const jsonl = `# entrez sample
{"namespace":"entrez","accession":"1","kind":"gene","species_id":9606,"symbol":"A1BG","chromosome":"19","pubmed_ids":[2591067],"cross_refs":[{"namespace":"hgnc","accession":"HGNC:5"}]}

{"namespace":"entrez","accession":"2",
{"namespace":"entrez","accession":"3","kind":"gene","strings":{"description":["alpha-1-B glycoprotein"]}}
`

type line struct {
	acc  string
	line int
	err  bool
}

func readAll(t *testing.T, path string) []line {
	t.Helper()
	r, err := iorecords.Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	var res []line
	for r.Next() {
		rec, err := r.Record()
		res = append(res, line{acc: rec.Accession, line: r.Line(), err: err != nil})
	}
	require.NoError(t, r.Err())
	return res
}

func TestReader(t *testing.T) {
	dir := t.TempDir()
	path := iotesting.WriteFile(t, dir, "entrez.jsonl", jsonl)

	res := readAll(t, path)
	assert.Equal(t, []line{
		{acc: "1", line: 2},
		{line: 4, err: true},
		{acc: "3", line: 5},
	}, res)
}

func TestReaderBrokenLine(t *testing.T) {
	path := iotesting.WriteFile(t, t.TempDir(), "entrez.jsonl",
		`{"namespace":"entrez","accession":"2",`+"\n")
	r, err := iorecords.Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.Next())
	rec, err := r.Record()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "line 1")
	assert.Equal(t, entity.Record{}, rec)
	assert.False(t, r.Next())
	assert.NoError(t, r.Err())
}

func TestReaderDecode(t *testing.T) {
	path := iotesting.WriteFile(t, t.TempDir(), "entrez.jsonl", jsonl)
	r, err := iorecords.Open(path, false)
	require.NoError(t, err)
	defer r.Close()

	require.True(t, r.Next())
	rec, err := r.Record()
	require.NoError(t, err)
	assert.Equal(t, entity.Gene, rec.Kind)
	require.NotNil(t, rec.SpeciesID)
	assert.Equal(t, 9606, *rec.SpeciesID)
	require.NotNil(t, rec.Chromosome)
	assert.Equal(t, "19", *rec.Chromosome)
	assert.Equal(t, []int{2591067}, rec.PubMedIDs)
	assert.Equal(t,
		[]entity.Ref{{Namespace: "hgnc", Accession: "HGNC:5"}}, rec.CrossRefs)

	require.True(t, r.Next())
	require.True(t, r.Next())
	rec, err = r.Record()
	require.NoError(t, err)
	assert.Nil(t, rec.SpeciesID)
	assert.Equal(t,
		[]string{"alpha-1-B glycoprotein"}, rec.Strings["description"])
	assert.False(t, r.Next())
}

func TestReaderGzip(t *testing.T) {
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write([]byte(jsonl))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := iotesting.WriteFile(t, t.TempDir(), "entrez.jsonl.gz", buf.String())
	res := readAll(t, path)
	assert.Len(t, res, 3)
	assert.Equal(t, "3", res[2].acc)
}

func TestReaderErrors(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		content string
	}{
		{"missing file", "", ""},
		{"bad gzip", "bad.jsonl.gz", "not gzip"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := t.TempDir()
			path := dir + "/missing.jsonl"
			if tt.file != "" {
				path = iotesting.WriteFile(t, dir, tt.file, tt.content)
			}
			_, err := iorecords.Open(path, false)
			require.Error(t, err)
			var gnErr *gn.Error
			require.True(t, errors.As(err, &gnErr))
			assert.Equal(t, errcode.LoadStreamError, gnErr.Code)
		})
	}
}
