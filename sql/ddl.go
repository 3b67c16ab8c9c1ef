package sql

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/tablekit/tablekit/core"
)

var backendTypeNames = map[core.ColumnType]string{
	core.TextType:      "VARCHAR",
	core.IntType:       "BIGINT",
	core.FloatType:     "DOUBLE",
	core.BoolType:      "BOOLEAN",
	core.DateType:      "DATE",
	core.TimestampType: "TIMESTAMP",
	core.IntervalType:  "INTERVAL",
	core.JSONType:      "JSON",
}

// TypeName maps a native column type to the backend's type name.
func TypeName(t core.ColumnType) (string, bool) {
	name, ok := backendTypeNames[t]
	return name, ok
}

// ParseTypeName maps a backend type name, as reported by schema
// introspection, back to a native column type. Unrecognized names map
// to TextType so their values pass through as strings.
func ParseTypeName(name string) core.ColumnType {
	switch normalized := strings.ToUpper(strings.TrimSpace(name)); {
	case normalized == "BOOLEAN" || normalized == "BOOL":
		return core.BoolType
	case normalized == "DATE":
		return core.DateType
	case strings.HasPrefix(normalized, "TIMESTAMP") || normalized == "DATETIME":
		return core.TimestampType
	case strings.HasPrefix(normalized, "INTERVAL"):
		return core.IntervalType
	case normalized == "JSON":
		return core.JSONType
	case strings.HasPrefix(normalized, "DECIMAL") || normalized == "DOUBLE" ||
		normalized == "FLOAT" || normalized == "REAL":
		return core.FloatType
	case strings.Contains(normalized, "INT"):
		return core.IntType
	default:
		return core.TextType
	}
}

// CreateTable renders a CREATE TABLE statement for the named table.
// Column order is preserved; it determines the physical layout.
func CreateTable(table string, columns []core.Column) (string, error) {
	if len(columns) == 0 {
		return "", fmt.Errorf("create table %s: no columns", table)
	}

	defs := make([]string, 0, len(columns))
	for _, col := range columns {
		typeName, ok := TypeName(col.Type)
		if !ok {
			return "", fmt.Errorf("create table %s: column %q has no backend type for %s", table, col.Name, col.Type)
		}

		var def strings.Builder
		def.WriteString(QuoteIdentifier(col.Name))
		def.WriteString(" ")
		def.WriteString(typeName)
		if col.PrimaryKey {
			def.WriteString(" PRIMARY KEY")
		} else if !col.Nullable {
			def.WriteString(" NOT NULL")
		}
		if col.Default != nil {
			literal, err := formatLiteral(col.Default)
			if err != nil {
				return "", fmt.Errorf("create table %s: column %q: %w", table, col.Name, err)
			}
			def.WriteString(" DEFAULT ")
			def.WriteString(literal)
		}
		defs = append(defs, def.String())
	}

	return fmt.Sprintf("CREATE TABLE %s (%s)", QuoteIdentifier(table), strings.Join(defs, ", ")), nil
}

// formatLiteral renders a default value inline. DDL statements do not
// take bound parameters.
func formatLiteral(v any) (string, error) {
	switch value := v.(type) {
	case string:
		return "'" + strings.ReplaceAll(value, "'", "''") + "'", nil
	case int:
		return strconv.Itoa(value), nil
	case int64:
		return strconv.FormatInt(value, 10), nil
	case float64:
		return strconv.FormatFloat(value, 'g', -1, 64), nil
	case bool:
		if value {
			return "TRUE", nil
		}
		return "FALSE", nil
	case time.Time:
		return "'" + value.Format(time.RFC3339) + "'", nil
	default:
		return "", fmt.Errorf("unsupported default value type %T", v)
	}
}
