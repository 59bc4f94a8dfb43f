package db_test

import (
	"testing"

	"github.com/gnames/gnamed/internal/iodb"
	"github.com/gnames/gnamed/pkg/config"
	"github.com/gnames/gnamed/pkg/db"
	"github.com/stretchr/testify/assert"
)

// TestOperatorsImplementInterface verifies both operators implement
// db.Operator.
func TestOperatorsImplementInterface(t *testing.T) {
	var _ db.Operator = iodb.NewPgxOperator()
	var _ db.Operator = iodb.NewSQLiteOperator()

	assert.Equal(t, config.DriverPostgres, iodb.NewPgxOperator().Driver())
	assert.Equal(t, config.DriverSQLite, iodb.NewSQLiteOperator().Driver())
}
