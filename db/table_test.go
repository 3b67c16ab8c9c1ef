package db

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tablekit/tablekit/backend"
	"github.com/tablekit/tablekit/core"
	"github.com/tablekit/tablekit/sql"
)

func setupTestTable(t *testing.T) *Table {
	t.Helper()
	handle, err := backend.NewMemoryBackend()
	require.NoError(t, err)
	t.Cleanup(func() { handle.Close() })
	return New("populated", handle)
}

func createPopulated(t *testing.T, table *Table) {
	t.Helper()
	ctx := context.Background()
	err := table.Create(ctx, []core.Column{
		{Name: "id", Type: core.TextType, PrimaryKey: true},
		{Name: "name", Type: core.TextType},
		{Name: "birth_date", Type: core.DateType, Nullable: true},
		{Name: "score", Type: core.IntType},
	})
	require.NoError(t, err)

	rows := []map[string]any{
		{"id": "a", "name": "Jack", "birth_date": date(2000, 1, 1), "score": 100},
		{"id": "b", "name": "John", "birth_date": date(1990, 1, 1), "score": 200},
		{"id": "c", "name": "James", "birth_date": date(2020, 1, 1), "score": 300},
	}
	for _, row := range rows {
		require.NoError(t, table.Insert(ctx, row))
	}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ids(t *testing.T, rows []Row) []string {
	t.Helper()
	out := make([]string, len(rows))
	for i, row := range rows {
		out[i] = row["id"].(string)
	}
	return out
}

func TestSelectAll(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	rows, err := table.Select(context.Background(), nil)
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.ElementsMatch(t, []string{"a", "b", "c"}, ids(t, all))
}

func TestSelectEquality(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	rows, err := table.Select(context.Background(), sql.Filter{"name": "John"})
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0]["id"])
	assert.Equal(t, int64(200), all[0]["score"])
	assert.Equal(t, date(1990, 1, 1), all[0]["birth_date"])
}

func TestSelectBetween(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	rows, err := table.Select(context.Background(), sql.Filter{"score": sql.Between(100, 220)})
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids(t, all))
}

func TestSelectBetweenInclusive(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	// Both ends are inclusive.
	rows, err := table.Select(context.Background(), sql.Filter{"score": sql.Between(100, 300)})
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestSelectIn(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	rows, err := table.Select(context.Background(), sql.Filter{"name": sql.In("Jack", "John")})
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"a", "b"}, ids(t, all))
}

func TestSelectConjunction(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	rows, err := table.Select(context.Background(), sql.Filter{
		"name":       "James",
		"birth_date": date(2020, 1, 1),
	})
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0]["id"])
}

func TestSelectSkip(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)
	ctx := context.Background()

	withSkip, err := table.Select(ctx, sql.Filter{"name": "John", "score": sql.Skip()})
	require.NoError(t, err)
	skipped, err := withSkip.All()
	require.NoError(t, err)

	without, err := table.Select(ctx, sql.Filter{"name": "John"})
	require.NoError(t, err)
	plain, err := without.All()
	require.NoError(t, err)

	assert.Equal(t, plain, skipped)
}

func TestSelectRawText(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	rows, err := table.Select(context.Background(), "SELECT * FROM populated WHERE name = 'John'")
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "b", all[0]["id"])
	// Raw text still runs through the type bridge.
	assert.Equal(t, date(1990, 1, 1), all[0]["birth_date"])
}

func TestSelectExpression(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	expr := sql.And(
		sql.Column("name").Eq("James"),
		sql.Column("birth_date").Eq(date(2020, 1, 1)),
	)
	rows, err := table.Select(context.Background(), expr)
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "c", all[0]["id"])
}

func TestSelectColumns(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	rows, err := table.Select(context.Background(), sql.Filter{"id": "a"}, "name", "score")
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, Row{"name": "Jack", "score": int64(100)}, all[0])
}

func TestSelectSubsetProperty(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)
	ctx := context.Background()

	unfiltered, err := table.Select(ctx, nil)
	require.NoError(t, err)
	allRows, err := unfiltered.All()
	require.NoError(t, err)

	filtered, err := table.Select(ctx, sql.Filter{"score": sql.Greater(150)})
	require.NoError(t, err)
	matching, err := filtered.All()
	require.NoError(t, err)

	assert.Subset(t, ids(t, allRows), ids(t, matching))
}

func TestSelectLazyIteration(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	rows, err := table.Select(context.Background(), nil)
	require.NoError(t, err)
	defer rows.Close()

	var count int
	for rows.Next() {
		require.NotNil(t, rows.Row())
		count++
	}
	require.NoError(t, rows.Err())
	assert.Equal(t, 3, count)
	// The sequence is exhausted, not restartable.
	assert.False(t, rows.Next())
}

func TestRowsCloseEarly(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	rows, err := table.Select(context.Background(), nil)
	require.NoError(t, err)
	require.True(t, rows.Next())

	// Close reports the driver's close result and is idempotent.
	require.NoError(t, rows.Close())
	require.NoError(t, rows.Close())
	assert.False(t, rows.Next())
}

func TestInsertRoundTrip(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)
	ctx := context.Background()

	row := map[string]any{"id": "d", "name": "Jill", "birth_date": date(1985, 6, 15), "score": 400}
	require.NoError(t, table.Insert(ctx, row))

	rows, err := table.Select(ctx, sql.Filter{"id": "d"})
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, Row{
		"id": "d", "name": "Jill", "birth_date": date(1985, 6, 15), "score": int64(400),
	}, all[0])
}

func TestUpdate(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)
	ctx := context.Background()

	err := table.Update(ctx, sql.Filter{"id": "a"}, map[string]any{"score": 150})
	require.NoError(t, err)

	rows, err := table.Select(ctx, sql.Filter{"id": "a"})
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	assert.Equal(t, int64(150), all[0]["score"])
}

func TestUpdateAllRowsUnguarded(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)
	ctx := context.Background()

	require.NoError(t, table.Update(ctx, nil, map[string]any{"score": 0}))

	count, err := table.Count(ctx, sql.Filter{"score": 0})
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestDelete(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)
	ctx := context.Background()

	require.NoError(t, table.Delete(ctx, sql.Filter{"name": sql.In("Jack", "John")}))

	count, err := table.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestDeleteAllRowsUnguarded(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)
	ctx := context.Background()

	require.NoError(t, table.Delete(ctx, nil))

	count, err := table.Count(ctx, nil)
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestCountMatchesSelect(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)
	ctx := context.Background()

	filters := []any{
		nil,
		sql.Filter{"name": "John"},
		sql.Filter{"score": sql.Between(100, 220)},
		sql.Filter{"name": sql.In("Jack", "John", "nobody")},
		sql.Filter{"score": sql.GreaterEqual(9000)},
	}
	for _, f := range filters {
		count, err := table.Count(ctx, f)
		require.NoError(t, err)

		rows, err := table.Select(ctx, f)
		require.NoError(t, err)
		all, err := rows.All()
		require.NoError(t, err)
		assert.Equal(t, int64(len(all)), count)
	}
}

func TestCreateReflectRoundTrip(t *testing.T) {
	table := setupTestTable(t)
	ctx := context.Background()

	declared := []core.Column{
		{Name: "id", Type: core.TextType, PrimaryKey: true},
		{Name: "name", Type: core.TextType},
		{Name: "birth_date", Type: core.DateType, Nullable: true},
		{Name: "score", Type: core.IntType},
	}
	require.NoError(t, table.Create(ctx, declared))

	table.Invalidate()
	require.Nil(t, table.Schema())
	require.NoError(t, table.Reflect(ctx))

	schema := table.Schema()
	require.NotNil(t, schema)
	assert.Equal(t, []string{"id", "name", "birth_date", "score"}, schema.Names())

	col, ok := schema.Column("birth_date")
	require.True(t, ok)
	assert.Equal(t, core.DateType, col.Type)
	assert.True(t, col.Nullable)

	col, ok = schema.Column("score")
	require.True(t, ok)
	assert.Equal(t, core.IntType, col.Type)
	assert.False(t, col.Nullable)
}

func TestCreateFromTypes(t *testing.T) {
	table := setupTestTable(t)
	table.SetName("simple")
	ctx := context.Background()

	err := table.CreateFromTypes(ctx, map[string]core.ColumnType{
		"name":  core.TextType,
		"count": core.IntType,
	})
	require.NoError(t, err)

	schema := table.Schema()
	require.NotNil(t, schema)
	assert.Equal(t, []string{"count", "name"}, schema.Names())
	for _, col := range schema.Columns() {
		assert.False(t, col.Nullable)
		assert.False(t, col.PrimaryKey)
	}
}

func TestCreateFromStruct(t *testing.T) {
	type person struct {
		ID        string `db:"id"`
		Name      string
		BirthDate *time.Time `db:"birth_date"`
		Score     int
	}

	table := setupTestTable(t)
	table.SetName("people")
	ctx := context.Background()

	require.NoError(t, table.CreateFromStruct(ctx, person{}, "id"))

	schema := table.Schema()
	require.NotNil(t, schema)
	assert.Equal(t, []string{"id", "name", "birth_date", "score"}, schema.Names())

	pk, ok := schema.PrimaryKey()
	require.True(t, ok)
	assert.Equal(t, "id", pk)

	col, _ := schema.Column("birth_date")
	assert.True(t, col.Nullable)
	assert.Equal(t, core.TimestampType, col.Type)
}

func TestSetNameInvalidatesSchema(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)
	require.NotNil(t, table.Schema())

	table.SetName("other")
	assert.Nil(t, table.Schema())
	assert.Equal(t, "other", table.Name())
}

func TestSelectLazyReflect(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	// A fresh accessor on the same backend resolves the schema on
	// first read without an explicit Reflect.
	fresh := New("populated", table.Handle())
	require.Nil(t, fresh.Schema())

	rows, err := fresh.Select(context.Background(), nil)
	require.NoError(t, err)
	all, err := rows.All()
	require.NoError(t, err)
	assert.Len(t, all, 3)
	assert.NotNil(t, fresh.Schema())
}

func TestSelectMissingTable(t *testing.T) {
	table := setupTestTable(t)
	table.SetName("missing")

	_, err := table.Select(context.Background(), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing")
}

func TestCountUninitializedHandle(t *testing.T) {
	// Every accessor operation, Count included, surfaces the handle
	// error instead of panicking.
	table := New("populated", &backend.Handle{})
	_, err := table.Count(context.Background(), nil)
	require.ErrorIs(t, err, backend.ErrNotInitialized)
}

func TestSelectUnknownFilterColumn(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	// With a resolved schema, filter keys are checked against it.
	_, err := table.Select(context.Background(), sql.Filter{"nope": 1})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nope")
}

func TestUnsupportedFilterType(t *testing.T) {
	table := setupTestTable(t)
	createPopulated(t, table)

	_, err := table.Select(context.Background(), 42)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "int")
}
