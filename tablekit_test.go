package tablekit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekit/tablekit/core"
	"github.com/tablekit/tablekit/sql"
)

func setupInstance(t *testing.T) *Instance {
	t.Helper()
	instance, err := OpenMemory()
	require.NoError(t, err)
	t.Cleanup(func() { instance.Close() })

	ctx := context.Background()
	table := instance.Table("populated")
	require.NoError(t, table.Create(ctx, []core.Column{
		{Name: "id", Type: core.TextType, PrimaryKey: true},
		{Name: "name", Type: core.TextType},
		{Name: "birth_date", Type: core.DateType, Nullable: true},
		{Name: "score", Type: core.IntType},
	}))

	for _, row := range []map[string]any{
		{"id": "a", "name": "Jack", "birth_date": time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC), "score": 100},
		{"id": "b", "name": "John", "birth_date": time.Date(1990, 1, 1, 0, 0, 0, 0, time.UTC), "score": 200},
		{"id": "c", "name": "James", "birth_date": time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC), "score": 300},
	} {
		require.NoError(t, Insert(ctx, instance, "populated", row))
	}
	return instance
}

func TestOneShotSelect(t *testing.T) {
	instance := setupInstance(t)
	ctx := context.Background()

	rows, err := Select(ctx, instance, "populated", sql.Filter{"name": sql.In("Jack", "John")})
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestOneShotUpdateDeleteCount(t *testing.T) {
	instance := setupInstance(t)
	ctx := context.Background()

	require.NoError(t, Update(ctx, instance, "populated", sql.Filter{"id": "a"}, map[string]any{"score": 101}))
	require.NoError(t, Delete(ctx, instance, "populated", sql.Filter{"id": "c"}))

	count, err := Count(ctx, instance, "populated", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	count, err = Count(ctx, instance, "populated", sql.Filter{"score": 101})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestExecute(t *testing.T) {
	instance := setupInstance(t)
	ctx := context.Background()

	_, err := Execute(ctx, instance, "UPDATE populated SET score = score + ?", 1)
	require.NoError(t, err)

	count, err := Count(ctx, instance, "populated", sql.Filter{"score": 101})
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestWrap(t *testing.T) {
	instance := setupInstance(t)
	wrapped := Wrap(instance.Handle.DB())

	count, err := Count(context.Background(), wrapped, "populated", nil)
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}
