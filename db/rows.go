package db

import (
	stdsql "database/sql"

	"github.com/tablekit/tablekit/core"
)

// Row is one result row: column name to native value.
type Row = map[string]any

// Rows is a lazy sequence of rows bound to one statement execution.
// It is finite and non-restartable; iterate with Next, or drain with
// All.
type Rows struct {
	rows     *stdsql.Rows
	columns  []string
	specs    []core.Column
	current  Row
	err      error
	closeErr error
	done     bool
}

// newRows wraps a result set. Cells of columns present in the schema
// are converted to their declared native types; columns the schema
// does not know pass through raw.
func newRows(rows *stdsql.Rows, schema *core.Schema) (*Rows, error) {
	columns, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}

	specs := make([]core.Column, len(columns))
	for i, name := range columns {
		if schema != nil {
			if col, ok := schema.Column(name); ok {
				specs[i] = col
				continue
			}
		}
		specs[i] = core.Column{Name: name, Type: core.InvalidType, Nullable: true}
	}

	return &Rows{rows: rows, columns: columns, specs: specs}, nil
}

// Next advances to the next row, converting its cells. It returns
// false at the end of the sequence or on the first error; check Err
// after the loop.
func (r *Rows) Next() bool {
	if r.done || r.err != nil {
		return false
	}
	if !r.rows.Next() {
		r.finish()
		return false
	}

	cells := make([]any, len(r.columns))
	ptrs := make([]any, len(r.columns))
	for i := range cells {
		ptrs[i] = &cells[i]
	}
	if err := r.rows.Scan(ptrs...); err != nil {
		r.err = err
		r.finish()
		return false
	}

	row := make(Row, len(r.columns))
	for i, name := range r.columns {
		value, err := toNative(r.specs[i], cells[i])
		if err != nil {
			r.err = err
			r.finish()
			return false
		}
		row[name] = value
	}
	r.current = row
	return true
}

// Row returns the row produced by the last successful Next.
func (r *Rows) Row() Row {
	return r.current
}

// Err returns the first error encountered during iteration.
func (r *Rows) Err() error {
	if r.err != nil {
		return r.err
	}
	return r.rows.Err()
}

// Close releases the underlying result set. Safe to call more than
// once; All and an exhausted Next close implicitly.
func (r *Rows) Close() error {
	r.finish()
	return r.closeErr
}

// All drains the remaining rows and closes the sequence.
func (r *Rows) All() ([]Row, error) {
	var out []Row
	for r.Next() {
		out = append(out, r.Row())
	}
	if err := r.Err(); err != nil {
		r.finish()
		return out, err
	}
	return out, r.Close()
}

func (r *Rows) finish() {
	if !r.done {
		r.done = true
		r.closeErr = r.rows.Close()
	}
}
