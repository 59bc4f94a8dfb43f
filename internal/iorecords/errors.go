package iorecords

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/errcode"
)

// RecordFileError creates an error for a record file that cannot be
// opened or read to the end.
func RecordFileError(path string, err error) error {
	msg := `Cannot read records from <em>%s</em>

<em>Possible causes:</em>
  - File does not exist or is not readable
  - Broken gzip stream
  - A line is longer than 64MB`

	vars := []any{path}
	return &gn.Error{
		Code: errcode.LoadStreamError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot read records of %s: %w", path, err),
	}
}
