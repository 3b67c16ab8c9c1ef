package db

import (
	"errors"
	"fmt"

	"github.com/tablekit/tablekit/core"
)

var (
	// ErrNoActiveTransaction is returned by Commit and Rollback on an
	// accessor with no open transaction.
	ErrNoActiveTransaction = errors.New("no active transaction")

	// ErrTransactionOpen is returned by Begin on an accessor that is
	// already transaction-bound.
	ErrTransactionOpen = errors.New("transaction already open")
)

// TypeCoercionError reports a result-set cell that could not be
// converted to its column's declared native type.
type TypeCoercionError struct {
	Column string
	Value  any
	Want   core.ColumnType
}

func (e *TypeCoercionError) Error() string {
	return fmt.Sprintf("column %q: cannot convert %T value to %s", e.Column, e.Value, e.Want)
}
