package ioload

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/errcode"
)

// LoadOrderError creates an error for dependent sources that would be
// loaded before any anchor source of their kind.
func LoadOrderError(namespaces []string, kind string) error {
	msg := `Sources <em>%s</em> need an anchor %s source loaded first

<em>How to fix:</em>
  1. Put an anchor source (anchor: true) of the same kind earlier in
     sources.yaml, or load it first
  2. Use <em>--ignore-order</em> to load anyway`

	vars := []any{strings.Join(namespaces, ", "), kind}
	return &gn.Error{
		Code: errcode.LoadOrderError,
		Msg:  msg,
		Vars: vars,
		Err: fmt.Errorf("no anchor %s source before %s",
			kind, strings.Join(namespaces, ", ")),
	}
}

// BulkPreconditionError creates an error for a source that cannot be
// loaded in bulk mode.
func BulkPreconditionError(namespace, reason string) error {
	msg := `Source <em>%s</em> cannot be loaded in bulk mode: %s

<em>How to fix:</em>
  Load it without <em>--bulk</em>`

	vars := []any{namespace, reason}
	return &gn.Error{
		Code: errcode.LoadBulkPreconditionError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("bulk precondition of %s: %s", namespace, reason),
	}
}

// BulkCopyError creates an error for a failed bulk transaction. No
// data of the source is stored.
func BulkCopyError(namespace string, err error) error {
	msg := "Bulk load of <em>%s</em> failed, nothing was saved"
	vars := []any{namespace}
	return &gn.Error{
		Code: errcode.LoadBulkCopyError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("bulk load of %s: %w", namespace, err),
	}
}

// LoadHistoryError creates an error for the loads table.
func LoadHistoryError(err error) error {
	msg := "Cannot access load history"
	return &gn.Error{
		Code: errcode.LoadHistoryError,
		Msg:  msg,
		Err:  fmt.Errorf("load history: %w", err),
	}
}

// IDCounterError creates an error for failed reads of maximal entity
// ids.
func IDCounterError(table string, err error) error {
	msg := "Cannot read last id of <em>%s</em>"
	vars := []any{table}
	return &gn.Error{
		Code: errcode.LoadIDCounterError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("max id of %s: %w", table, err),
	}
}

// LoadCancelledError creates an error for an interrupted load.
func LoadCancelledError(namespace string, records int64, err error) error {
	msg := `Load of <em>%s</em> was interrupted after %d records

Run the load again to finish it.`

	vars := []any{namespace, records}
	return &gn.Error{
		Code: errcode.LoadCancelledError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("load of %s cancelled: %w", namespace, err),
	}
}

// SourcesNotFoundError creates an error for namespaces that match no
// source of sources.yaml.
func SourcesNotFoundError(err error) error {
	msg := `No sources to load

<em>How to fix:</em>
  Check namespaces given with <em>-n</em> against sources.yaml`

	return &gn.Error{
		Code: errcode.SourcesNotFoundError,
		Msg:  msg,
		Err:  fmt.Errorf("no sources: %w", err),
	}
}
