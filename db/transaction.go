package db

import (
	"context"
)

// Begin opens a backend transaction and returns a transaction-bound
// clone of the accessor. The clone shares the table identity and
// schema cache but executes every statement on the transaction's
// connection, which it owns exclusively until Commit or Rollback.
func (t *Table) Begin(ctx context.Context) (*Table, error) {
	if t.tx != nil {
		return nil, ErrTransactionOpen
	}
	tx, err := t.handle.Begin(ctx)
	if err != nil {
		return nil, err
	}
	return &Table{
		name:   t.name,
		handle: t.handle,
		tx:     tx,
		schema: t.schema,
	}, nil
}

// InTransaction reports whether the accessor is transaction-bound.
func (t *Table) InTransaction() bool {
	return t.tx != nil
}

// Commit commits the open transaction.
func (t *Table) Commit() error {
	if t.tx == nil {
		return ErrNoActiveTransaction
	}
	return t.tx.Commit()
}

// Rollback rolls back the open transaction.
func (t *Table) Rollback() error {
	if t.tx == nil {
		return ErrNoActiveTransaction
	}
	return t.tx.Rollback()
}

// Transact runs fn with a transaction-bound accessor and guarantees
// the transaction is released on every exit path. Nothing is
// committed implicitly: fn calls Commit itself, and the deferred
// rollback is the driver's documented no-op after that. If fn returns
// an error or panics before committing, the transaction rolls back.
func (t *Table) Transact(ctx context.Context, fn func(scoped *Table) error) error {
	scoped, err := t.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		_ = scoped.tx.Rollback()
	}()
	return fn(scoped)
}
