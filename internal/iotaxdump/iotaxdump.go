// Package iotaxdump reads the NCBI taxonomy dump files nodes.dmp,
// names.dmp and merged.dmp.
//
// Dump lines are fields separated by "\t|\t" and terminated by "\t|".
// Every file is streamed: rows are handed to a callback one at a time,
// so a full dump never has to fit into memory.
package iotaxdump

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnamed/pkg/taxonomy"
)

// Dump file names.
const (
	NodesFile  = "nodes.dmp"
	NamesFile  = "names.dmp"
	MergedFile = "merged.dmp"
)

// ctxCheck is how many lines are read between context checks.
const ctxCheck = 10_000

// Reader streams rows of a taxonomy dump directory.
type Reader struct {
	dir      string
	progress bool
}

// New creates a Reader for a dump directory. With progress set, a bar
// of bytes read is shown on stderr for every file.
func New(dir string, progress bool) *Reader {
	return &Reader{dir: dir, progress: progress}
}

// Nodes streams (id, parent_id, rank) rows of nodes.dmp.
func (r *Reader) Nodes(
	ctx context.Context,
	fn func(taxonomy.NodeRow) error,
) (int, error) {
	return r.scan(ctx, NodesFile, 3, func(fs []string) (bool, error) {
		id, err := strconv.Atoi(fs[0])
		if err != nil {
			return false, err
		}
		parent, err := strconv.Atoi(fs[1])
		if err != nil {
			return false, err
		}
		return true, fn(taxonomy.NodeRow{ID: id, ParentID: parent, Rank: fs[2]})
	})
}

// Names streams (id, category, name) rows of names.dmp.
func (r *Reader) Names(
	ctx context.Context,
	fn func(taxonomy.NameRow) error,
) (int, error) {
	return r.scan(ctx, NamesFile, 4, func(fs []string) (bool, error) {
		id, err := strconv.Atoi(fs[0])
		if err != nil {
			return false, err
		}
		row := taxonomy.NameRow{
			ID:         id,
			Name:       fs[1],
			UniqueName: fs[2],
			Category:   fs[3],
		}
		if row.Name == "" {
			return false, nil
		}
		return true, fn(row)
	})
}

// Merges streams (old_id, new_id) rows of merged.dmp. The file is
// optional, a missing one yields no rows.
func (r *Reader) Merges(
	ctx context.Context,
	fn func(taxonomy.MergeRow) error,
) (int, error) {
	path := filepath.Join(r.dir, MergedFile)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return 0, nil
	}
	return r.scan(ctx, MergedFile, 2, func(fs []string) (bool, error) {
		oldID, err := strconv.Atoi(fs[0])
		if err != nil {
			return false, err
		}
		newID, err := strconv.Atoi(fs[1])
		if err != nil {
			return false, err
		}
		return true, fn(taxonomy.MergeRow{OldID: oldID, NewID: newID})
	})
}

// scan reads file line by line, splits lines into fields and passes
// them to fn. Lines with fewer than minFields fields are errors. Only
// lines that fn reports as emitted are counted.
func (r *Reader) scan(
	ctx context.Context,
	file string,
	minFields int,
	fn func([]string) (bool, error),
) (int, error) {
	path := filepath.Join(r.dir, file)
	f, err := os.Open(path)
	if err != nil {
		return 0, TaxonomyReadError(path, 0, err)
	}
	defer f.Close()

	var rd io.Reader = f
	if r.progress {
		var size int64
		if fi, err := f.Stat(); err == nil {
			size = fi.Size()
		}
		bar := pb.Full.Start64(size)
		bar.Set("prefix", fmt.Sprintf("Reading %s: ", file))
		bar.Set(pb.Bytes, true)
		bar.Set(pb.CleanOnFinish, true)
		defer bar.Finish()
		rd = bar.NewProxyReader(f)
	}

	sc := bufio.NewScanner(rd)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)

	var line, count int
	for sc.Scan() {
		line++
		if line%ctxCheck == 0 {
			if err := ctx.Err(); err != nil {
				return count, err
			}
		}
		txt := sc.Text()
		if strings.TrimSpace(txt) == "" {
			continue
		}
		fs := splitLine(txt)
		if len(fs) < minFields {
			return count, TaxonomyReadError(path, line,
				fmt.Errorf("expected %d fields, got %d", minFields, len(fs)))
		}
		emitted, err := fn(fs)
		if err != nil {
			return count, TaxonomyReadError(path, line, err)
		}
		if emitted {
			count++
		}
	}
	if err := sc.Err(); err != nil {
		return count, TaxonomyReadError(path, line, err)
	}
	return count, nil
}

// splitLine turns "a\t|\tb\t|" into ["a", "b"].
func splitLine(s string) []string {
	s = strings.TrimRight(s, "\r")
	s = strings.TrimSuffix(s, "\t|")
	fs := strings.Split(s, "\t|\t")
	for i := range fs {
		fs[i] = strings.TrimSpace(fs[i])
	}
	return fs
}
