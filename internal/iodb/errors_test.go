package iodb

import (
	"errors"
	"testing"

	"github.com/gnames/gn"
	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/errcode"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrors(t *testing.T) {
	cause := errors.New("boom")

	tests := []struct {
		name string
		err  error
		code gn.ErrorCode
		vars int
	}{
		{"connection", ConnectionError("localhost", 5432, "gnamed", "postgres", cause),
			errcode.DBConnectionError, 8},
		{"sqlite", SQLiteConnectionError("/tmp/x.sqlite", cause),
			errcode.DBConnectionError, 1},
		{"gorm", GORMError(cause), errcode.SchemaGORMConnectionError, 0},
		{"table check", TableCheckError(cause), errcode.DBTableCheckError, 0},
		{"table exists", TableExistsCheckError("genes", cause),
			errcode.DBTableExistsCheckError, 1},
		{"query tables", QueryTablesError(cause), errcode.DBQueryTablesError, 0},
		{"scan table", ScanTableError(cause), errcode.DBScanTableError, 0},
		{"drop table", DropTableError("genes", cause), errcode.DBDropTableError, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gnErr *gn.Error
			require.ErrorAs(t, tt.err, &gnErr)
			assert.Equal(t, tt.code, gnErr.Code)
			assert.NotEmpty(t, gnErr.Msg)
			assert.Len(t, gnErr.Vars, tt.vars)
			assert.ErrorIs(t, gnErr.Err, cause)
		})
	}
}

func TestNotConnectedError(t *testing.T) {
	var gnErr *gn.Error
	require.ErrorAs(t, NotConnectedError(), &gnErr)
	assert.Equal(t, errcode.DBNotConnectedError, gnErr.Code)
}

func TestUnsupportedDriver(t *testing.T) {
	_, err := New(&config.DatabaseConfig{Driver: "mysql"})
	var gnErr *gn.Error
	require.ErrorAs(t, err, &gnErr)
	assert.Equal(t, errcode.DBUnsupportedDriverError, gnErr.Code)
}
