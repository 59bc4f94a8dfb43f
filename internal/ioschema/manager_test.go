package ioschema_test

import (
	"context"
	"testing"

	"github.com/gnames/gnamed/internal/iodb"
	"github.com/gnames/gnamed/internal/ioschema"
	"github.com/gnames/gnamed/internal/iotesting"
	"github.com/gnames/gnamed/pkg/gnamed"
	"github.com/gnames/gnamed/pkg/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestManager_ImplementsInterface verifies manager
// implements gnamed.SchemaManager interface.
func TestManager_ImplementsInterface(t *testing.T) {
	op := iodb.NewPgxOperator()
	var _ gnamed.SchemaManager = ioschema.NewManager(op)
}

func TestManager_NotConnected(t *testing.T) {
	mgr := ioschema.NewManager(iodb.NewSQLiteOperator())
	err := mgr.Create(context.Background(), iotesting.SQLiteConfig(t))
	assert.Error(t, err)
}

func TestManager_SQLite(t *testing.T) {
	ctx := context.Background()
	cfg := iotesting.SQLiteConfig(t)
	op := iodb.NewSQLiteOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, cfg))
	for _, v := range schema.TableNames() {
		exists, err := op.TableExists(ctx, v)
		require.NoError(t, err)
		assert.True(t, exists, v)
	}

	// migration of an up-to-date schema is a no-op
	require.NoError(t, mgr.Migrate(ctx, cfg))
}

func TestManager_Postgres(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	cfg := iotesting.GetTestConfig()
	op := iodb.NewPgxOperator()
	require.NoError(t, op.Connect(ctx, &cfg.Database))
	defer op.Close()
	require.NoError(t, op.DropAllTables(ctx))

	mgr := ioschema.NewManager(op)
	require.NoError(t, mgr.Create(ctx, cfg))
	exists, err := op.TableExists(ctx, "genes2proteins")
	require.NoError(t, err)
	assert.True(t, exists)
}
