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
	"github.com/gnames/gnamed/internal/iotaxonomy"
	"github.com/gnames/gnamed/pkg/config"
	"github.com/spf13/cobra"
)

// getTaxonomyCmd returns the taxonomy command.
func getTaxonomyCmd() *cobra.Command {
	var (
		dumpDir     string
		force       bool
		noCanonical bool
	)

	taxonomyCmd := &cobra.Command{
		Use:   "taxonomy",
		Short: "Load the NCBI taxonomy dump",
		Long: `Fill species tables from an NCBI taxonomy dump.

The dump directory must contain nodes.dmp and names.dmp, merged.dmp is
optional. Retired taxonomy ids of merged.dmp are kept as redirects, so
records that use them resolve to the current species.

Scientific names and authorities are parsed by gnparser and their
canonical forms are added as "canonical name" unless --no-canonical is
given.

The species table must be empty, use --force to replace an existing
taxonomy.

Examples:
  gnamed taxonomy --dump-dir ~/taxdump
  gnamed taxonomy -d ~/taxdump --force`,
		RunE: func(cmd *cobra.Command, args []string) error {
			var taxOpts []config.Option
			if cmd.Flags().Changed("dump-dir") {
				taxOpts = append(taxOpts, config.OptTaxonomyDumpDir(dumpDir))
			}
			if noCanonical {
				taxOpts = append(taxOpts, config.OptTaxonomyWithCanonical(false))
			}
			taxOpts = append(taxOpts, config.OptTaxonomyForce(force))
			cfg.Update(taxOpts)

			err := runTaxonomy()
			if err != nil {
				gn.PrintErrorMessage(err)
			}
			return err
		},
	}

	taxonomyCmd.Flags().StringVarP(&dumpDir, "dump-dir", "d", "",
		"directory with nodes.dmp, names.dmp and merged.dmp")
	taxonomyCmd.Flags().BoolVarP(&force, "force", "f", false,
		"replace existing species")
	taxonomyCmd.Flags().BoolVar(&noCanonical, "no-canonical", false,
		"do not add canonical forms of scientific names")

	return taxonomyCmd
}

func runTaxonomy() error {
	ctx, cancel := signalContext()
	defer cancel()

	op, err := connect(ctx)
	if err != nil {
		return err
	}
	defer op.Close()

	rep, err := iotaxonomy.New(op, true).Bootstrap(ctx, cfg)
	if err != nil {
		return err
	}

	c := func(i int) string { return humanize.Comma(int64(i)) }
	gn.Info(`Taxonomy is ready: <em>%s</em> species, <em>%s</em> merged ids,
<em>%s</em> names (<em>%s</em> canonical, <em>%s</em> skipped)

Next step:
  - Run '<em>gnamed load</em>' to load source files`,
		c(rep.Nodes), c(rep.Merged), c(rep.Names), c(rep.Canonical),
		c(rep.SkippedNames),
	)
	if rep.SkippedMerges > 0 {
		gn.Warn("Ignored <em>%s</em> merges of the unidentified species",
			c(rep.SkippedMerges))
	}
	return nil
}
