package iosources

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/errcode"
)

// SourcesConfigError creates an error for when sources.yaml
// cannot be loaded.
func SourcesConfigError(path string, err error) error {
	msg := `Cannot load sources configuration

<em>Configuration file:</em> %s

<em>Possible causes:</em>
  - File does not exist
  - Invalid YAML format
  - A source lacks namespace, kind or file

<em>How to fix:</em>
  1. Check if file exists: <em>ls -l %s</em>
  2. Validate YAML syntax
  3. Remove the file to get a fresh example on the next run`

	vars := []any{path, path}

	return &gn.Error{
		Code: errcode.SourcesConfigError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("failed to load sources config: %w", err),
	}
}

// SourcesValidationError creates an error for sources.yaml that parses
// but describes sources that cannot be loaded.
func SourcesValidationError(path string, err error) error {
	msg := `Invalid sources configuration

<em>Configuration file:</em> %s

<em>Problem:</em> %s

<em>How to fix:</em>
  Every source needs a namespace and a file. Namespaces that are not
  registered need 'kind: gene' or 'kind: protein'.`

	vars := []any{path, err.Error()}

	return &gn.Error{
		Code: errcode.SourcesValidationError,
		Msg:  msg,
		Vars: vars,
		Err:  err,
	}
}
