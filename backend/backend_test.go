package backend

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekit/tablekit/core"
)

func newTestBackend(t *testing.T) *Handle {
	t.Helper()
	handle, err := NewMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { handle.Close() })
	return handle
}

func TestMemoryBackend(t *testing.T) {
	handle := newTestBackend(t)
	require.NoError(t, handle.Ping(context.Background()))
}

func TestUninitializedHandle(t *testing.T) {
	var handle *Handle
	assert.False(t, handle.IsInitialized())
	assert.ErrorIs(t, handle.Close(), ErrNotInitialized)

	empty := &Handle{}
	_, err := empty.ExecContext(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotInitialized)

	_, err = empty.QueryContext(context.Background(), "SELECT 1")
	assert.ErrorIs(t, err, ErrNotInitialized)
}

func TestColumns(t *testing.T) {
	handle := newTestBackend(t)
	ctx := context.Background()

	_, err := handle.ExecContext(ctx,
		`CREATE TABLE people ("id" VARCHAR PRIMARY KEY, "name" VARCHAR NOT NULL, "birth_date" DATE, "score" BIGINT NOT NULL)`)
	require.NoError(t, err)

	columns, err := Columns(ctx, handle, "people")
	require.NoError(t, err)
	require.Len(t, columns, 4)

	assert.Equal(t, "id", columns[0].Name)
	assert.Equal(t, core.TextType, columns[0].Type)
	assert.Equal(t, "birth_date", columns[2].Name)
	assert.Equal(t, core.DateType, columns[2].Type)
	assert.True(t, columns[2].Nullable)
	assert.Equal(t, core.IntType, columns[3].Type)
	assert.False(t, columns[3].Nullable)
}

func TestColumnsMissingTable(t *testing.T) {
	handle := newTestBackend(t)
	_, err := Columns(context.Background(), handle, "nope")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestTableNames(t *testing.T) {
	handle := newTestBackend(t)
	ctx := context.Background()

	_, err := handle.ExecContext(ctx, `CREATE TABLE b (x INT)`)
	require.NoError(t, err)
	_, err = handle.ExecContext(ctx, `CREATE TABLE a (x INT)`)
	require.NoError(t, err)

	names, err := TableNames(ctx, handle)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)
}
