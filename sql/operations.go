package sql

import "fmt"

type OpKind int

const (
	OpEqual OpKind = iota
	OpBetween
	OpIn
	OpSkip
	OpCompare
)

var opKindNames = map[OpKind]string{
	OpEqual:   "equal",
	OpBetween: "between",
	OpIn:      "in",
	OpSkip:    "skip",
	OpCompare: "compare",
}

func (k OpKind) String() string {
	if name, ok := opKindNames[k]; ok {
		return name
	}
	return "unknown"
}

// Operation is a deferred comparison against a column, stored as a
// value in a Filter. Operations are immutable once constructed.
type Operation struct {
	Kind     OpKind
	Value    any
	Start    any
	End      any
	Values   []any
	Operator string // comparator tag for OpCompare
}

// Equal matches rows where the column equals value. A plain value in
// a Filter means the same thing; Equal makes the intent explicit.
func Equal(value any) Operation {
	return Operation{Kind: OpEqual, Value: value}
}

// Between matches rows where start <= column <= end, inclusive on
// both ends.
func Between(start, end any) Operation {
	return Operation{Kind: OpBetween, Start: start, End: end}
}

// In matches rows where the column equals any of the given values.
func In(values ...any) Operation {
	return Operation{Kind: OpIn, Values: values}
}

// Skip omits the column from the filter entirely.
func Skip() Operation {
	return Operation{Kind: OpSkip}
}

// Compare matches rows using an explicit operator tag against value.
// Recognized tags: >=, <=, >, <, !=.
func Compare(operator string, value any) Operation {
	return Operation{Kind: OpCompare, Operator: operator, Value: value}
}

func GreaterEqual(value any) Operation { return Compare(">=", value) }
func LessEqual(value any) Operation    { return Compare("<=", value) }
func Greater(value any) Operation      { return Compare(">", value) }
func Less(value any) Operation         { return Compare("<", value) }
func NotEqual(value any) Operation     { return Compare("!=", value) }

// UnsupportedOperationError reports an operator tag the translator
// does not recognize.
type UnsupportedOperationError struct {
	Operator string
}

func (e *UnsupportedOperationError) Error() string {
	return fmt.Sprintf("unsupported operator: %q", e.Operator)
}

// comparators are the operator tags OpCompare accepts, mapped to the
// backend's spelling.
var comparators = map[string]string{
	">=": ">=",
	"<=": "<=",
	">":  ">",
	"<":  "<",
	"!=": "!=",
	"=":  "=",
}
