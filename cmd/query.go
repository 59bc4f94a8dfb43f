/*
Copyright © 2025 Dmitry Mozzherin <dmozzherin@gmail.com>

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"context"
	"io"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/internal/ioquery"
	"github.com/gnames/gnamed/internal/iosources"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnfmt"
	"github.com/spf13/cobra"
)

// queryFunc runs a query and prints its result.
type queryFunc func(
	ctx context.Context,
	q gnamed.Querier,
	w io.Writer,
	f gnfmt.Format,
) error

// getQueryCmd returns the query command with its subcommands.
func getQueryCmd() *cobra.Command {
	var format string

	queryCmd := &cobra.Command{
		Use:   "query",
		Short: "Query loaded data",
		Long: `Query loaded data by namespace.

Results are printed to STDOUT as TSV (default), CSV or JSON.

Examples:
  gnamed query strings hgnc
  gnamed query map entrez uniprot -f csv
  gnamed query citations entrez -f json`,
	}
	queryCmd.PersistentFlags().StringVarP(&format, "format", "f", "tsv",
		"output format: tsv, csv, json or pretty")

	run := func(cmd *cobra.Command, fn queryFunc) error {
		err := runQuery(cmd, format, fn)
		if err != nil {
			gn.PrintErrorMessage(err)
		}
		return err
	}

	stringsCmd := &cobra.Command{
		Use:   "strings NAMESPACE",
		Short: "List symbols, names and other strings of a namespace",
		Long: `List strings of every record of a namespace.

Categories:
  official_symbol, official_name    symbol and name of the record
  <kind>_<category>                 strings of the record's entity
  <other kind>_<category>           strings of linked genes or proteins`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(
				ctx context.Context, q gnamed.Querier, w io.Writer, f gnfmt.Format,
			) error {
				rows, err := q.Strings(ctx, args[0])
				if err != nil {
					return err
				}
				return ioquery.WriteStrings(w, rows, f)
			})
		},
	}

	mapCmd := &cobra.Command{
		Use:   "map FROM TO",
		Short: "List accession mappings between two namespaces",
		Long: `List pairs of accessions of two namespaces that belong to the
same entity. Gene and protein namespaces are linked through gene-protein
mappings.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(
				ctx context.Context, q gnamed.Querier, w io.Writer, f gnfmt.Format,
			) error {
				rows, err := q.Mappings(ctx, args[0], args[1])
				if err != nil {
					return err
				}
				return ioquery.WriteMappings(w, rows, f)
			})
		},
	}

	citationsCmd := &cobra.Command{
		Use:   "citations NAMESPACE",
		Short: "Count PubMed citations of records of a namespace",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, func(
				ctx context.Context, q gnamed.Querier, w io.Writer, f gnfmt.Format,
			) error {
				rows, err := q.CitationCounts(ctx, args[0])
				if err != nil {
					return err
				}
				return ioquery.WriteCitations(w, rows, f)
			})
		},
	}

	queryCmd.AddCommand(stringsCmd, mapCmd, citationsCmd)
	return queryCmd
}

func runQuery(cmd *cobra.Command, format string, fn queryFunc) error {
	f, err := ioquery.ParseFormat(format)
	if err != nil {
		return err
	}

	srcCfg, err := iosources.New(cfg).Load()
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	return fn(ctx, ioquery.New(op, srcCfg), cmd.OutOrStdout(), f)
}
