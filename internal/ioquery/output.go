package ioquery

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnfmt"
)

// ParseFormat converts a name of an output format to gnfmt.Format.
func ParseFormat(s string) (gnfmt.Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "tsv":
		return gnfmt.TSV, nil
	case "csv":
		return gnfmt.CSV, nil
	case "json", "compact":
		return gnfmt.CompactJSON, nil
	case "pretty":
		return gnfmt.PrettyJSON, nil
	}
	return gnfmt.TSV, QueryOutputFormatError(s)
}

// WriteStrings prints results of a strings query.
func WriteStrings(w io.Writer, rows []gnamed.StringRow, f gnfmt.Format) error {
	recs := make([][]string, len(rows))
	for i, v := range rows {
		recs[i] = []string{v.Accession, v.Category, v.Value}
	}
	return write(w, f, rows, []string{"Accession", "Category", "Value"}, recs)
}

// WriteMappings prints results of a mappings query.
func WriteMappings(w io.Writer, rows []gnamed.MappingRow, f gnfmt.Format) error {
	recs := make([][]string, len(rows))
	for i, v := range rows {
		recs[i] = []string{v.From, v.To}
	}
	return write(w, f, rows, []string{"From", "To"}, recs)
}

// WriteCitations prints results of a citation counts query.
func WriteCitations(w io.Writer, rows []gnamed.CitationRow, f gnfmt.Format) error {
	recs := make([][]string, len(rows))
	for i, v := range rows {
		recs[i] = []string{v.Accession, strconv.FormatInt(v.Count, 10)}
	}
	return write(w, f, rows, []string{"Accession", "Count"}, recs)
}

func write(
	w io.Writer,
	f gnfmt.Format,
	rows any,
	header []string,
	recs [][]string,
) error {
	switch f {
	case gnfmt.CompactJSON, gnfmt.PrettyJSON:
		enc := gnfmt.GNjson{Pretty: f == gnfmt.PrettyJSON}
		bs, err := enc.Encode(rows)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(bs))
		return err
	case gnfmt.CSV, gnfmt.TSV:
		sep := ','
		if f == gnfmt.TSV {
			sep = '\t'
		}
		if _, err := fmt.Fprintln(w, gnfmt.ToCSV(header, sep)); err != nil {
			return err
		}
		for _, v := range recs {
			if _, err := fmt.Fprintln(w, gnfmt.ToCSV(v, sep)); err != nil {
				return err
			}
		}
		return nil
	}
	return QueryOutputFormatError(fmt.Sprintf("%v", f))
}
