package db

import (
	"context"
	stdsql "database/sql"
	"fmt"
	"reflect"
	"sort"
	"strings"

	"github.com/tablekit/tablekit/backend"
	"github.com/tablekit/tablekit/core"
	"github.com/tablekit/tablekit/sql"
)

// Table is an accessor for one named table on a backend handle. The
// handle is shared with the caller, not owned. The zero schema state
// is unresolved; it resolves lazily on first read, or eagerly via
// Create or Reflect, and stays cached until SetName or Invalidate.
type Table struct {
	name   string
	handle *backend.Handle
	tx     *stdsql.Tx
	schema *core.Schema
}

func New(name string, handle *backend.Handle) *Table {
	return &Table{name: name, handle: handle}
}

func (t *Table) Name() string {
	return t.name
}

// SetName rebinds the accessor to another table and drops the cached
// schema.
func (t *Table) SetName(name string) {
	t.name = name
	t.schema = nil
}

// Invalidate drops the cached schema; the next read resolves it
// again.
func (t *Table) Invalidate() {
	t.schema = nil
}

// Schema returns the cached schema, or nil while unresolved.
func (t *Table) Schema() *core.Schema {
	return t.schema
}

// Handle returns the backend handle the accessor was built on.
func (t *Table) Handle() *backend.Handle {
	return t.handle
}

// exec is the execution target: the open transaction when bound,
// otherwise the ambient handle.
func (t *Table) exec() backend.Execer {
	if t.tx != nil {
		return t.tx
	}
	return t.handle
}

func (t *Table) ensureSchema(ctx context.Context) error {
	if t.schema != nil {
		return nil
	}
	return t.Reflect(ctx)
}

// Reflect reads the table's physical schema from the backend and
// replaces the cached schema with it.
func (t *Table) Reflect(ctx context.Context) error {
	columns, err := backend.Columns(ctx, t.exec(), t.name)
	if err != nil {
		return err
	}
	t.schema = core.NewSchema(columns)
	return nil
}

// resolver checks filter columns against the schema when one is
// cached; before resolution names pass through unchecked.
func (t *Table) resolver() sql.ColumnResolver {
	if t.schema != nil {
		return sql.SchemaColumns(t.schema)
	}
	return sql.PlainColumns
}

// whereExpr resolves the three accepted filter forms into an
// expression. Raw text becomes a verbatim WHERE fragment.
func (t *Table) whereExpr(q any) (sql.Expr, error) {
	switch qv := q.(type) {
	case nil:
		return sql.True(), nil
	case sql.Filter:
		return sql.Translate(qv, t.resolver())
	case map[string]any:
		return sql.Translate(sql.Filter(qv), t.resolver())
	case sql.Expr:
		return qv, nil
	case string:
		return sql.Raw(qv), nil
	default:
		return nil, fmt.Errorf("unsupported filter type %T", q)
	}
}

// Select reads rows matching q. q may be nil (all rows), a
// sql.Filter, a sql.Expr, or a complete SQL statement as a string
// (passed through verbatim; the columns argument is ignored for that
// form). The result is a lazy sequence; close it when done.
func (t *Table) Select(ctx context.Context, q any, columns ...string) (*Rows, error) {
	if err := t.ensureSchema(ctx); err != nil {
		return nil, err
	}

	if text, ok := q.(string); ok {
		rows, err := t.exec().QueryContext(ctx, text)
		if err != nil {
			return nil, err
		}
		return newRows(rows, t.schema)
	}

	where, err := t.whereExpr(q)
	if err != nil {
		return nil, err
	}
	whereText, args, err := where.SQL()
	if err != nil {
		return nil, err
	}

	if len(columns) == 0 {
		columns = t.schema.Names()
	}
	projected := make([]string, len(columns))
	for i, name := range columns {
		projected[i] = sql.QuoteIdentifier(name)
	}

	query := fmt.Sprintf("SELECT %s FROM %s WHERE %s",
		strings.Join(projected, ", "), sql.QuoteIdentifier(t.name), whereText)
	rows, err := t.exec().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	return newRows(rows, t.schema)
}

// Insert writes a single row. Values pass through to the driver
// unchecked.
func (t *Table) Insert(ctx context.Context, row map[string]any) error {
	if len(row) == 0 {
		return fmt.Errorf("insert into %s: empty row", t.name)
	}

	names := make([]string, 0, len(row))
	for name := range row {
		names = append(names, name)
	}
	sort.Strings(names)

	quoted := make([]string, len(names))
	placeholders := make([]string, len(names))
	args := make([]any, len(names))
	for i, name := range names {
		quoted[i] = sql.QuoteIdentifier(name)
		placeholders[i] = "?"
		args[i] = row[name]
	}

	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		sql.QuoteIdentifier(t.name), strings.Join(quoted, ", "), strings.Join(placeholders, ", "))
	_, err := t.exec().ExecContext(ctx, query, args...)
	return err
}

// Update sets the given column values on every row matching q. A nil
// q updates all rows; there is no guard at this layer.
func (t *Table) Update(ctx context.Context, q any, values map[string]any) error {
	if len(values) == 0 {
		return fmt.Errorf("update %s: no values", t.name)
	}

	where, err := t.whereExpr(q)
	if err != nil {
		return err
	}
	whereText, whereArgs, err := where.SQL()
	if err != nil {
		return err
	}

	names := make([]string, 0, len(values))
	for name := range values {
		names = append(names, name)
	}
	sort.Strings(names)

	assignments := make([]string, len(names))
	args := make([]any, 0, len(names)+len(whereArgs))
	for i, name := range names {
		assignments[i] = sql.QuoteIdentifier(name) + " = ?"
		args = append(args, values[name])
	}
	args = append(args, whereArgs...)

	query := fmt.Sprintf("UPDATE %s SET %s WHERE %s",
		sql.QuoteIdentifier(t.name), strings.Join(assignments, ", "), whereText)
	_, err = t.exec().ExecContext(ctx, query, args...)
	return err
}

// Delete removes every row matching q. A nil q deletes all rows;
// this call is intentionally unguarded.
func (t *Table) Delete(ctx context.Context, q any) error {
	where, err := t.whereExpr(q)
	if err != nil {
		return err
	}
	whereText, args, err := where.SQL()
	if err != nil {
		return err
	}

	query := fmt.Sprintf("DELETE FROM %s WHERE %s", sql.QuoteIdentifier(t.name), whereText)
	_, err = t.exec().ExecContext(ctx, query, args...)
	return err
}

// Count returns the number of rows matching q, 0 if none.
func (t *Table) Count(ctx context.Context, q any) (int64, error) {
	where, err := t.whereExpr(q)
	if err != nil {
		return 0, err
	}
	whereText, args, err := where.SQL()
	if err != nil {
		return 0, err
	}

	query := fmt.Sprintf("SELECT COUNT(*) FROM %s WHERE %s", sql.QuoteIdentifier(t.name), whereText)
	rows, err := t.exec().QueryContext(ctx, query, args...)
	if err != nil {
		return 0, err
	}
	defer rows.Close()

	var count int64
	if !rows.Next() {
		if err := rows.Err(); err != nil {
			return 0, err
		}
		return 0, fmt.Errorf("count %s: no result row", t.name)
	}
	if err := rows.Scan(&count); err != nil {
		return 0, err
	}
	return count, rows.Err()
}

// Create issues a CREATE TABLE for the given columns, preserving
// their order, and replaces the cached schema with the declaration.
func (t *Table) Create(ctx context.Context, columns []core.Column) error {
	stmt, err := sql.CreateTable(t.name, columns)
	if err != nil {
		return err
	}
	if _, err := t.exec().ExecContext(ctx, stmt); err != nil {
		return err
	}
	t.schema = core.NewSchema(columns)
	return nil
}

// CreateFromTypes creates the table from a name-to-type mapping.
// Columns are non-null and non-primary, in sorted name order.
func (t *Table) CreateFromTypes(ctx context.Context, types map[string]core.ColumnType) error {
	names := make([]string, 0, len(types))
	for name := range types {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]core.Column, len(names))
	for i, name := range names {
		columns[i] = core.Column{Name: name, Type: types[name]}
	}
	return t.Create(ctx, columns)
}

// CreateFromStruct derives the columns from a struct's fields, in
// field order. Field names come from the `db` tag when present,
// otherwise the lowercased field name; pointer fields are nullable;
// fields named in primaryColumns become primary keys.
func (t *Table) CreateFromStruct(ctx context.Context, model any, primaryColumns ...string) error {
	rt := reflect.TypeOf(model)
	for rt != nil && rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}
	if rt == nil || rt.Kind() != reflect.Struct {
		return fmt.Errorf("create %s: model must be a struct, got %T", t.name, model)
	}

	primary := make(map[string]bool, len(primaryColumns))
	for _, name := range primaryColumns {
		primary[name] = true
	}

	var columns []core.Column
	for i := 0; i < rt.NumField(); i++ {
		field := rt.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("db")
		if name == "-" {
			continue
		}
		if name == "" {
			name = strings.ToLower(field.Name)
		}

		spec, err := core.ResolveType(field.Type)
		if err != nil {
			return fmt.Errorf("create %s: field %s: %w", t.name, field.Name, err)
		}
		if spec.Type == core.InvalidType {
			return fmt.Errorf("create %s: field %s: no column type for %s", t.name, field.Name, field.Type)
		}

		columns = append(columns, core.Column{
			Name:       name,
			Type:       spec.Type,
			Nullable:   spec.Nullable && !primary[name],
			PrimaryKey: primary[name],
		})
	}
	return t.Create(ctx, columns)
}

// Execute runs raw SQL on the accessor's execution target. It is the
// escape hatch for statements the accessor does not model.
func (t *Table) Execute(ctx context.Context, query string, args ...any) (stdsql.Result, error) {
	return t.exec().ExecContext(ctx, query, args...)
}
