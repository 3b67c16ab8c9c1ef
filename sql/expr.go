package sql

import (
	"fmt"
	"strings"
)

// Expr is a boolean expression that renders to SQL text with bound
// parameters. Expressions are opaque to the accessor; it only renders
// and forwards them.
type Expr interface {
	// SQL returns the expression text with ? placeholders and the
	// corresponding bound arguments.
	SQL() (string, []any, error)
}

type boolExpr bool

func (e boolExpr) SQL() (string, []any, error) {
	if e {
		return "TRUE", nil, nil
	}
	return "FALSE", nil, nil
}

// True is the tautological expression: an empty filter renders to it,
// selecting all rows.
func True() Expr { return boolExpr(true) }

// False matches no rows. An empty IN set renders to it.
func False() Expr { return boolExpr(false) }

type rawExpr struct {
	text string
	args []any
}

func (e rawExpr) SQL() (string, []any, error) {
	return e.text, e.args, nil
}

// Raw wraps backend-native SQL text as an expression. The text passes
// through verbatim; the caller is responsible for its validity.
func Raw(text string, args ...any) Expr {
	return rawExpr{text: text, args: args}
}

type binaryExpr struct {
	column   string
	operator string
	value    any
}

func (e binaryExpr) SQL() (string, []any, error) {
	return fmt.Sprintf("%s %s ?", e.column, e.operator), []any{e.value}, nil
}

type betweenExpr struct {
	column     string
	start, end any
}

func (e betweenExpr) SQL() (string, []any, error) {
	return fmt.Sprintf("%s BETWEEN ? AND ?", e.column), []any{e.start, e.end}, nil
}

type inExpr struct {
	column string
	values []any
}

func (e inExpr) SQL() (string, []any, error) {
	if len(e.values) == 0 {
		return "FALSE", nil, nil
	}
	placeholders := strings.Repeat("?, ", len(e.values))
	placeholders = strings.TrimSuffix(placeholders, ", ")
	return fmt.Sprintf("%s IN (%s)", e.column, placeholders), e.values, nil
}

type andExpr []Expr

func (e andExpr) SQL() (string, []any, error) {
	if len(e) == 0 {
		return "TRUE", nil, nil
	}
	if len(e) == 1 {
		return e[0].SQL()
	}
	parts := make([]string, 0, len(e))
	var args []any
	for _, sub := range e {
		text, subArgs, err := sub.SQL()
		if err != nil {
			return "", nil, err
		}
		parts = append(parts, text)
		args = append(args, subArgs...)
	}
	return strings.Join(parts, " AND "), args, nil
}

// And conjoins expressions. And() with no arguments is True.
func And(exprs ...Expr) Expr {
	return andExpr(exprs)
}

// ColumnRef builds comparison expressions against a named column,
// for call sites composing expressions without a filter map.
type ColumnRef struct {
	name string
}

func Column(name string) ColumnRef {
	return ColumnRef{name: name}
}

func (c ColumnRef) ref() string { return QuoteIdentifier(c.name) }

func (c ColumnRef) Eq(value any) Expr  { return binaryExpr{c.ref(), "=", value} }
func (c ColumnRef) Ne(value any) Expr  { return binaryExpr{c.ref(), "!=", value} }
func (c ColumnRef) Gt(value any) Expr  { return binaryExpr{c.ref(), ">", value} }
func (c ColumnRef) Gte(value any) Expr { return binaryExpr{c.ref(), ">=", value} }
func (c ColumnRef) Lt(value any) Expr  { return binaryExpr{c.ref(), "<", value} }
func (c ColumnRef) Lte(value any) Expr { return binaryExpr{c.ref(), "<=", value} }

func (c ColumnRef) Between(start, end any) Expr {
	return betweenExpr{column: c.ref(), start: start, end: end}
}

func (c ColumnRef) In(values ...any) Expr {
	return inExpr{column: c.ref(), values: values}
}

// QuoteIdentifier quotes a column or table name for the backend.
func QuoteIdentifier(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}
