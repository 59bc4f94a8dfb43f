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
	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnamed/internal/ioload"
	"github.com/gnames/gnamed/pkg/config"
	"github.com/spf13/cobra"
)

// getLoadCmd returns the load command.
func getLoadCmd() *cobra.Command {
	var (
		namespaces  []string
		bulk        bool
		ignoreOrder bool
		metricsFile string
	)

	loadCmd := &cobra.Command{
		Use:   "load",
		Short: "Load source files into the database",
		Long: `Load canonical records of source files listed in sources.yaml.

Sources are loaded in the order of sources.yaml. Anchor sources create
entities, other sources attach to them through cross-references, and the
last source that supplies a value wins.

Every record is stored in its own transaction. With --bulk, sources
marked 'bulk: true' are copied to empty PostgreSQL tables in one
transaction per file, other sources are still loaded record by record.

Source files are JSON Lines, optionally gzipped, configured in:
  ~/.config/gnamed/sources.yaml

Examples:
  # Load all sources
  gnamed load

  # Load some sources only
  gnamed load -n entrez,uniprot

  # First load of big anchor files
  gnamed load --bulk`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var loadOpts []config.Option
			if cmd.Flags().Changed("namespaces") {
				loadOpts = append(loadOpts, config.OptLoadNamespaces(namespaces))
			}
			if bulk {
				loadOpts = append(loadOpts, config.OptLoadMode(config.ModeBulk))
			}
			if cmd.Flags().Changed("metrics-file") {
				loadOpts = append(loadOpts, config.OptLoadMetricsFile(metricsFile))
			}
			loadOpts = append(loadOpts, config.OptLoadIgnoreOrder(ignoreOrder))
			cfg.Update(loadOpts)

			err := runLoad()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	loadCmd.Flags().StringSliceVarP(&namespaces, "namespaces", "n", nil,
		"namespaces of sources to load (empty = all)")
	loadCmd.Flags().BoolVarP(&bulk, "bulk", "b", false,
		"copy bulk sources to empty tables (PostgreSQL only)")
	loadCmd.Flags().BoolVar(&ignoreOrder, "ignore-order", false,
		"do not require anchor sources to be loaded first")
	loadCmd.Flags().StringVarP(&metricsFile, "metrics-file", "m", "",
		"write load metrics in Prometheus text format to this file")

	return loadCmd
}

func runLoad() error {
	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	sums, err := ioload.New(op, true).Load(ctx, cfg)
	if err != nil {
		return err
	}

	var records, created int64
	for _, v := range sums {
		records += v.Records
		created += v.Created
	}
	gn.Info("Loaded <em>%d</em> sources: <em>%s</em> records, <em>%s</em> new entities",
		len(sums), humanize.Comma(records), humanize.Comma(created))
	return nil
}
