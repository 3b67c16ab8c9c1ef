package core

import (
	"encoding/json"
	"fmt"
	"reflect"
	"time"
)

// AmbiguousTypeError reports a Go type that admits more than one
// column type, such as a bare interface.
type AmbiguousTypeError struct {
	Type reflect.Type
}

func (e *AmbiguousTypeError) Error() string {
	return fmt.Sprintf("ambiguous type %s: cannot determine column type", e.Type)
}

// InconsistentLiteralTypeError reports an enumerated column spec whose
// members are not all the same type.
type InconsistentLiteralTypeError struct {
	Members []any
}

func (e *InconsistentLiteralTypeError) Error() string {
	return fmt.Sprintf("enum members are not the same type: %v", e.Members)
}

// TypeSpec is the result of resolving a Go type to a column type.
type TypeSpec struct {
	Type     ColumnType
	Nullable bool
}

var (
	timeType     = reflect.TypeOf(time.Time{})
	durationType = reflect.TypeOf(time.Duration(0))
	rawJSONType  = reflect.TypeOf(json.RawMessage(nil))
)

// ResolveType maps a Go type to a column type tag. Pointer types
// unwrap to their element type and mark the spec nullable. Interface
// types carry no single column type and fail with AmbiguousTypeError.
// A Go type with no corresponding column type resolves to InvalidType
// without error; the caller decides whether that is fatal.
func ResolveType(t reflect.Type) (TypeSpec, error) {
	spec := TypeSpec{}
	if t == nil {
		// The type of an untyped nil literal. No column type to infer.
		spec.Nullable = true
		return spec, nil
	}
	for t.Kind() == reflect.Pointer {
		spec.Nullable = true
		t = t.Elem()
	}

	if t.Kind() == reflect.Interface {
		return spec, &AmbiguousTypeError{Type: t}
	}

	switch t {
	case timeType:
		spec.Type = TimestampType
		return spec, nil
	case durationType:
		spec.Type = IntervalType
		return spec, nil
	case rawJSONType:
		spec.Type = JSONType
		return spec, nil
	}

	switch t.Kind() {
	case reflect.String:
		spec.Type = TextType
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		spec.Type = IntType
	case reflect.Float32, reflect.Float64:
		spec.Type = FloatType
	case reflect.Bool:
		spec.Type = BoolType
	case reflect.Map, reflect.Slice:
		spec.Type = JSONType
	default:
		spec.Type = InvalidType
	}
	return spec, nil
}

// TypeOf resolves the column type of a concrete value.
func TypeOf(v any) (TypeSpec, error) {
	if v == nil {
		return TypeSpec{}, &AmbiguousTypeError{Type: reflect.TypeOf(&v).Elem()}
	}
	return ResolveType(reflect.TypeOf(v))
}

// Enum resolves the common column type of an enumerated set of
// literal values, for columns constrained to a fixed member set.
// All members must share one Go type.
func Enum(members ...any) (ColumnType, error) {
	if len(members) == 0 {
		return InvalidType, &InconsistentLiteralTypeError{Members: members}
	}
	first := reflect.TypeOf(members[0])
	for _, m := range members[1:] {
		if reflect.TypeOf(m) != first {
			return InvalidType, &InconsistentLiteralTypeError{Members: members}
		}
	}
	spec, err := ResolveType(first)
	if err != nil {
		return InvalidType, err
	}
	return spec.Type, nil
}
