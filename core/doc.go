// Package core provides core types used throughout tablekit.
//
// The package defines the native column type tags, the Column and
// Schema model, and the resolution of Go types to column types.
//
// # Column Types
//
// Supported column types and their Go-native representations:
//   - TextType: string
//   - IntType: int64
//   - FloatType: float64
//   - BoolType: bool
//   - DateType: time.Time (calendar date)
//   - TimestampType: time.Time
//   - IntervalType: time.Duration
//   - JSONType: map[string]any or []any
//
// # Column Definition
//
//	columns := []core.Column{
//	    {Name: "id", Type: core.TextType, PrimaryKey: true},
//	    {Name: "name", Type: core.TextType},
//	    {Name: "birth_date", Type: core.DateType},
//	    {Name: "score", Type: core.IntType},
//	}
//
// # Type Resolution
//
// ResolveType maps a Go type to a column type tag. Pointer types
// unwrap to their element type and mark the column nullable:
//
//	spec, err := core.ResolveType(reflect.TypeOf((*string)(nil)))
//	// spec.Type == core.TextType, spec.Nullable == true
package core
