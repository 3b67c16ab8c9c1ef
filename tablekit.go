package tablekit

import (
	"context"
	stdsql "database/sql"

	"github.com/tablekit/tablekit/backend"
	"github.com/tablekit/tablekit/db"
)

type Instance struct {
	Handle *backend.Handle
}

// Open opens an instance on any registered database/sql driver.
func Open(driver, dsn string) (*Instance, error) {
	handle, err := backend.Open(driver, dsn)
	if err != nil {
		return nil, err
	}
	return &Instance{Handle: handle}, nil
}

// OpenMemory opens an instance on an in-memory DuckDB database.
func OpenMemory() (*Instance, error) {
	handle, err := backend.NewMemoryBackend()
	if err != nil {
		return nil, err
	}
	return &Instance{Handle: handle}, nil
}

// OpenFile opens an instance on a DuckDB database stored at path.
func OpenFile(path string) (*Instance, error) {
	handle, err := backend.NewFileBackend(path)
	if err != nil {
		return nil, err
	}
	return &Instance{Handle: handle}, nil
}

// Wrap adapts a pool the application already owns. Closing the pool
// remains the application's job.
func Wrap(pool *stdsql.DB) *Instance {
	return &Instance{Handle: backend.Wrap(pool)}
}

// Table returns an accessor for the named table.
func (instance *Instance) Table(name string) *db.Table {
	return db.New(name, instance.Handle)
}

func (instance *Instance) Close() error {
	return instance.Handle.Close()
}

// Select reads rows from a table through a throwaway accessor.
func Select(ctx context.Context, instance *Instance, table string, q any, columns ...string) (*db.Rows, error) {
	return instance.Table(table).Select(ctx, q, columns...)
}

// Insert writes a row to a table through a throwaway accessor.
func Insert(ctx context.Context, instance *Instance, table string, row map[string]any) error {
	return instance.Table(table).Insert(ctx, row)
}

// Update updates rows in a table through a throwaway accessor.
func Update(ctx context.Context, instance *Instance, table string, q any, values map[string]any) error {
	return instance.Table(table).Update(ctx, q, values)
}

// Delete deletes rows from a table through a throwaway accessor.
func Delete(ctx context.Context, instance *Instance, table string, q any) error {
	return instance.Table(table).Delete(ctx, q)
}

// Count counts rows in a table through a throwaway accessor.
func Count(ctx context.Context, instance *Instance, table string, q any) (int64, error) {
	return instance.Table(table).Count(ctx, q)
}

// Execute runs raw SQL on the instance's backend.
func Execute(ctx context.Context, instance *Instance, query string, args ...any) (stdsql.Result, error) {
	return instance.Handle.ExecContext(ctx, query, args...)
}
