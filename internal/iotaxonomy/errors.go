package iotaxonomy

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/errcode"
)

// TaxonomyNotEmptyError creates an error for a bootstrap into a
// database that already has species.
func TaxonomyNotEmptyError(count int64) error {
	msg := `Taxonomy is already loaded (%s species)

<em>How to fix:</em>
  Run <em>gnamed taxonomy --force</em> to replace it`

	vars := []any{humanize.Comma(count)}
	return &gn.Error{
		Code: errcode.TaxonomyNotEmptyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("species table has %d rows", count),
	}
}

// TaxonomyBuildError creates an error for a dump that does not make a
// valid tree.
func TaxonomyBuildError(dir string, err error) error {
	msg := `Cannot build species tree from <em>%s</em>

<em>Possible causes:</em>
  - Cyclic merge chain in merged.dmp
  - Cyclic parent chain in nodes.dmp`

	vars := []any{dir}
	return &gn.Error{
		Code: errcode.TaxonomyBuildError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot build taxonomy: %w", err),
	}
}

// TaxonomyWriteError creates an error for failed species writes.
func TaxonomyWriteError(table string, err error) error {
	msg := "Cannot write taxonomy to <em>%s</em>"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.TaxonomyWriteError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot write %s: %w", table, err),
	}
}

// TaxonomyMissingError creates an error for an operation that needs a
// bootstrapped taxonomy.
func TaxonomyMissingError(err error) error {
	msg := `Taxonomy is not loaded

<em>How to fix:</em>
  Run <em>gnamed taxonomy --dump-dir DIR</em> with an NCBI taxdump first`

	if err == nil {
		err = fmt.Errorf("species table is empty")
	}
	return &gn.Error{
		Code: errcode.TaxonomyMissingError,
		Msg:  msg,
		Err:  fmt.Errorf("taxonomy missing: %w", err),
	}
}
