package backend

import (
	"context"
	stdsql "database/sql"
	"errors"
	"fmt"

	_ "github.com/duckdb/duckdb-go/v2"
)

var ErrNotInitialized = errors.New("backend not initialized")

// Execer is the statement-execution capability the accessor consumes.
// *sql.DB, *sql.Tx and *sql.Conn all satisfy it. QueryRowContext is
// deliberately absent: *sql.Row cannot carry ErrNotInitialized, so
// single-row reads go through QueryContext.
type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (stdsql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*stdsql.Rows, error)
}

// Handle wraps a database/sql pool. The handle is shared, not owned,
// by the accessors built on it; closing it is the caller's job.
type Handle struct {
	db *stdsql.DB
}

// Open opens a handle on any registered database/sql driver.
func Open(driver, dsn string) (*Handle, error) {
	db, err := stdsql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("open %s backend: %w", driver, err)
	}
	return &Handle{db: db}, nil
}

// NewMemoryBackend opens an in-memory DuckDB database.
func NewMemoryBackend() (*Handle, error) {
	return Open("duckdb", "")
}

// NewFileBackend opens a DuckDB database stored at path.
func NewFileBackend(path string) (*Handle, error) {
	return Open("duckdb", path)
}

// Wrap adapts a pool the application already owns.
func Wrap(db *stdsql.DB) *Handle {
	return &Handle{db: db}
}

// IsInitialized returns true if the handle has a valid pool.
func (h *Handle) IsInitialized() bool {
	return h != nil && h.db != nil
}

func (h *Handle) ensureInitialized() error {
	if !h.IsInitialized() {
		return ErrNotInitialized
	}
	return nil
}

// DB exposes the underlying pool.
func (h *Handle) DB() *stdsql.DB {
	return h.db
}

func (h *Handle) Close() error {
	if err := h.ensureInitialized(); err != nil {
		return err
	}
	return h.db.Close()
}

func (h *Handle) Ping(ctx context.Context) error {
	if err := h.ensureInitialized(); err != nil {
		return err
	}
	return h.db.PingContext(ctx)
}

// Begin starts a backend transaction. The returned *sql.Tx owns one
// connection exclusively until Commit or Rollback.
func (h *Handle) Begin(ctx context.Context) (*stdsql.Tx, error) {
	if err := h.ensureInitialized(); err != nil {
		return nil, err
	}
	return h.db.BeginTx(ctx, nil)
}

func (h *Handle) ExecContext(ctx context.Context, query string, args ...any) (stdsql.Result, error) {
	if err := h.ensureInitialized(); err != nil {
		return nil, err
	}
	return h.db.ExecContext(ctx, query, args...)
}

func (h *Handle) QueryContext(ctx context.Context, query string, args ...any) (*stdsql.Rows, error) {
	if err := h.ensureInitialized(); err != nil {
		return nil, err
	}
	return h.db.QueryContext(ctx, query, args...)
}
