package iotaxdump

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/errcode"
)

// TaxonomyReadError creates an error for a dump file that cannot be
// read or parsed. Line is 0 when the file could not be opened.
func TaxonomyReadError(path string, line int, err error) error {
	msg := "Cannot read taxonomy dump <em>%s</em>"
	vars := []any{path}
	if line > 0 {
		msg += " at line %d"
		vars = append(vars, line)
	}
	return &gn.Error{
		Code: errcode.TaxonomyReadError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("taxonomy dump %s:%d: %w", path, line, err),
	}
}
