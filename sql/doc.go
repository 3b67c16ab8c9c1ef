// Package sql builds SQL fragments for tablekit.
//
// The package translates plain filter maps into WHERE expressions with
// bound parameters, and renders CREATE TABLE statements from column
// specs. It generates text only; execution belongs to the backend.
//
// # Filters
//
// A Filter maps column names to either a plain value (equality) or an
// Operation. All entries are combined with AND:
//
//	f := sql.Filter{
//	    "name":  "John",
//	    "score": sql.Between(100, 220),
//	}
//	expr, err := sql.Translate(f, sql.PlainColumns)
//	text, args, err := expr.SQL()
//	// text: "name" = ? AND "score" BETWEEN ? AND ?
//
// # Operations
//
//	sql.Equal(v)             column = v
//	sql.Between(a, b)        column BETWEEN a AND b (inclusive)
//	sql.In(v1, v2, ...)      column IN (v1, v2, ...)
//	sql.Skip()               omit the column from the filter
//	sql.Greater(v)           column > v, and Less, GreaterEqual,
//	                         LessEqual, NotEqual accordingly
//	sql.Compare(">=", v)     explicit operator tag
//
// # Expressions
//
// Expressions can also be composed directly, without a filter map:
//
//	expr := sql.And(
//	    sql.Column("name").Eq("James"),
//	    sql.Column("score").Gt(200),
//	)
package sql
