package core

type ColumnType int

const (
	InvalidType ColumnType = iota
	TextType
	IntType
	FloatType
	BoolType
	DateType
	TimestampType
	IntervalType
	JSONType
)

var columnTypeNames = map[ColumnType]string{
	InvalidType:   "invalid",
	TextType:      "text",
	IntType:       "int",
	FloatType:     "float",
	BoolType:      "bool",
	DateType:      "date",
	TimestampType: "timestamp",
	IntervalType:  "interval",
	JSONType:      "json",
}

func (t ColumnType) String() string {
	if name, ok := columnTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

type Column struct {
	Name       string     `json:"name"`
	Type       ColumnType `json:"type"`
	Nullable   bool       `json:"nullable"`
	PrimaryKey bool       `json:"primaryKey"`
	Default    any        `json:"default,omitempty"`
}

// Schema is a resolved table schema. Column order is the physical
// declaration order of the table.
type Schema struct {
	columns []Column
	byName  map[string]int
}

func NewSchema(columns []Column) *Schema {
	s := &Schema{
		columns: make([]Column, len(columns)),
		byName:  make(map[string]int, len(columns)),
	}
	copy(s.columns, columns)
	for i, col := range s.columns {
		s.byName[col.Name] = i
	}
	return s
}

// Columns returns the columns in declaration order.
func (s *Schema) Columns() []Column {
	out := make([]Column, len(s.columns))
	copy(out, s.columns)
	return out
}

// Column looks up a column by name.
func (s *Schema) Column(name string) (Column, bool) {
	i, ok := s.byName[name]
	if !ok {
		return Column{}, false
	}
	return s.columns[i], true
}

func (s *Schema) Has(name string) bool {
	_, ok := s.byName[name]
	return ok
}

// Names returns the column names in declaration order.
func (s *Schema) Names() []string {
	names := make([]string, len(s.columns))
	for i, col := range s.columns {
		names[i] = col.Name
	}
	return names
}

func (s *Schema) Len() int {
	return len(s.columns)
}

// PrimaryKey returns the name of the first primary key column.
func (s *Schema) PrimaryKey() (string, bool) {
	for _, col := range s.columns {
		if col.PrimaryKey {
			return col.Name, true
		}
	}
	return "", false
}
