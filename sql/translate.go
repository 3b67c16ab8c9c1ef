package sql

import (
	"fmt"
	"sort"

	"github.com/tablekit/tablekit/core"
)

// Filter maps column names to plain values (equality) or Operations.
// All entries are conjoined with AND. Key order is irrelevant to the
// boolean semantics.
type Filter map[string]any

// ColumnResolver maps a filter key to the column reference rendered
// into the expression. It lets call sites choose between plain
// unqualified references and references checked against a resolved
// schema.
type ColumnResolver func(name string) (string, error)

// PlainColumns renders the name as a quoted identifier, unchecked.
func PlainColumns(name string) (string, error) {
	return QuoteIdentifier(name), nil
}

// SchemaColumns resolves names against a table schema and rejects
// columns the table does not have.
func SchemaColumns(schema *core.Schema) ColumnResolver {
	return func(name string) (string, error) {
		if !schema.Has(name) {
			return "", fmt.Errorf("unknown column %q", name)
		}
		return QuoteIdentifier(name), nil
	}
}

// Translate converts a filter map into a conjunctive boolean
// expression. An empty or nil filter yields the tautology. Keys are
// visited in sorted order so the rendered text is deterministic;
// conjunction is commutative, so the order does not change semantics.
func Translate(filter Filter, resolve ColumnResolver) (Expr, error) {
	keys := make([]string, 0, len(filter))
	for key := range filter {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	conj := make(andExpr, 0, len(keys))
	for _, key := range keys {
		column, err := resolve(key)
		if err != nil {
			return nil, err
		}

		value := filter[key]
		op, isOp := value.(Operation)
		if !isOp {
			conj = append(conj, binaryExpr{column: column, operator: "=", value: value})
			continue
		}

		switch op.Kind {
		case OpSkip:
			continue
		case OpEqual:
			conj = append(conj, binaryExpr{column: column, operator: "=", value: op.Value})
		case OpBetween:
			conj = append(conj, betweenExpr{column: column, start: op.Start, end: op.End})
		case OpIn:
			conj = append(conj, inExpr{column: column, values: op.Values})
		case OpCompare:
			operator, ok := comparators[op.Operator]
			if !ok {
				return nil, &UnsupportedOperationError{Operator: op.Operator}
			}
			conj = append(conj, binaryExpr{column: column, operator: operator, value: op.Value})
		default:
			return nil, &UnsupportedOperationError{Operator: op.Kind.String()}
		}
	}

	if len(conj) == 0 {
		return True(), nil
	}
	return conj, nil
}
