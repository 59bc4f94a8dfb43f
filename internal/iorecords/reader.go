// Package iorecords reads canonical records from source files.
//
// Every non-blank line of a file is one record, either a JSON object or
// a row of an NCBI gene_info dump. Lines that start with '#' are
// comments, gene_info headers included. Files ending with ".gz" are
// decompressed on the fly.
package iorecords

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/cheggaaa/pb/v3"
	"github.com/gnames/gnamed/pkg/entity"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnamed/pkg/sources"
	"github.com/gnames/gnfmt"
	"github.com/klauspost/compress/gzip"
)

// maxLine is the longest accepted line.
const maxLine = 64 * 1024 * 1024

// Reader is a RecordStream over one file.
type Reader struct {
	path string
	file *os.File
	gz   *gzip.Reader
	bar  *pb.ProgressBar
	sc   *bufio.Scanner
	enc  gnfmt.GNjson

	// decode converts a line, false means the line holds no record.
	decode func(string) (entity.Record, bool, error)

	line   int
	rec    entity.Record
	recErr error
	err    error
}

var _ gnamed.RecordStream = (*Reader)(nil)

// Open opens a JSON Lines record file. With progress set, a bar shows
// how much of the file was read.
func Open(path string, progress bool) (*Reader, error) {
	return OpenFormat(path, sources.FormatJSONL, progress)
}

// OpenFormat opens a record file of the given format.
func OpenFormat(
	path string,
	format sources.Format,
	progress bool,
) (*Reader, error) {
	res := &Reader{path: path}
	switch format {
	case sources.FormatJSONL, "":
		res.decode = res.decodeJSON
	case sources.FormatGeneInfo:
		res.decode = decodeGeneInfo
	default:
		return nil, RecordFileError(path,
			fmt.Errorf("unknown format '%s'", format))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, RecordFileError(path, err)
	}
	res.file = f

	var rd io.Reader = f
	if progress {
		var size int64
		if fi, err := f.Stat(); err == nil {
			size = fi.Size()
		}
		res.bar = pb.Full.Start64(size)
		res.bar.Set("prefix", fmt.Sprintf("Loading %s: ", filepath.Base(path)))
		res.bar.Set(pb.Bytes, true)
		res.bar.Set(pb.CleanOnFinish, true)
		rd = res.bar.NewProxyReader(f)
	}

	if strings.HasSuffix(path, ".gz") {
		res.gz, err = gzip.NewReader(rd)
		if err != nil {
			res.Close()
			return nil, RecordFileError(path, err)
		}
		rd = res.gz
	}

	res.sc = bufio.NewScanner(rd)
	res.sc.Buffer(make([]byte, 0, 1024*1024), maxLine)
	return res, nil
}

// Next advances to the next record line.
func (r *Reader) Next() bool {
	if r.err != nil {
		return false
	}
	for r.sc.Scan() {
		r.line++
		bs := r.sc.Bytes()
		txt := strings.TrimSpace(string(bs))
		if txt == "" || strings.HasPrefix(txt, "#") {
			continue
		}
		rec, ok, err := r.decode(txt)
		if !ok {
			continue
		}
		r.rec, r.recErr = rec, nil
		if err != nil {
			r.rec = entity.Record{}
			r.recErr = fmt.Errorf("line %d: %w", r.line, err)
		}
		return true
	}
	if err := r.sc.Err(); err != nil {
		r.err = RecordFileError(r.path, fmt.Errorf("line %d: %w", r.line, err))
	}
	return false
}

// Record returns the current record or its decoding error. A line that
// fails to decode gives an empty record.
func (r *Reader) Record() (entity.Record, error) {
	return r.rec, r.recErr
}

func (r *Reader) decodeJSON(line string) (entity.Record, bool, error) {
	var res entity.Record
	err := r.enc.Decode([]byte(line), &res)
	return res, true, err
}

// Line returns the line number of the current record.
func (r *Reader) Line() int {
	return r.line
}

// Err returns the error that stopped reading, if any.
func (r *Reader) Err() error {
	return r.err
}

// Close closes the file and finishes the progress bar.
func (r *Reader) Close() error {
	if r.bar != nil {
		r.bar.Finish()
		r.bar = nil
	}
	if r.gz != nil {
		r.gz.Close()
	}
	if r.file == nil {
		return nil
	}
	err := r.file.Close()
	r.file = nil
	return err
}
