package ioquery

import (
	"fmt"
	"strings"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/errcode"
)

// UnknownNamespaceError creates an error for a namespace that is neither
// registered nor listed in sources.yaml.
func UnknownNamespaceError(namespace string, known []string) error {
	msg := `Unknown namespace <em>%s</em>

Known namespaces: %s`

	vars := []any{namespace, strings.Join(known, ", ")}
	return &gn.Error{
		Code: errcode.QueryUnknownNamespaceError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown namespace %s", namespace),
	}
}

// QueryExecError creates an error for a failed query.
func QueryExecError(query string, err error) error {
	msg := "Query <em>%s</em> failed"
	vars := []any{query}
	return &gn.Error{
		Code: errcode.QueryExecError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("query %s: %w", query, err),
	}
}

// QueryOutputFormatError creates an error for an unsupported output
// format.
func QueryOutputFormatError(format string) error {
	msg := `Unknown output format <em>%s</em>

<em>How to fix:</em>
  Use one of: tsv, csv, json`

	vars := []any{format}
	return &gn.Error{
		Code: errcode.QueryOutputFormatError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unknown output format %s", format),
	}
}
