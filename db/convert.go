package db

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/tablekit/tablekit/core"
)

// timestampLayouts are tried in order when a temporal column arrives
// as a string. Some drivers return temporal values as ISO-8601 text
// rather than time.Time.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// toNative converts a result-set cell to the column's declared native
// type. Values already of the native type pass through unchanged;
// NULL passes through for nullable columns; everything else is
// coerced, and a failed coercion is a TypeCoercionError.
func toNative(col core.Column, value any) (any, error) {
	if value == nil {
		if col.Nullable {
			return nil, nil
		}
		return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
	}

	if b, ok := value.([]byte); ok && col.Type != core.JSONType {
		value = string(b)
	}

	switch col.Type {
	case core.TextType:
		return toText(col, value)
	case core.IntType:
		return toInt(col, value)
	case core.FloatType:
		return toFloat(col, value)
	case core.BoolType:
		return toBool(col, value)
	case core.DateType:
		return toDate(col, value)
	case core.TimestampType:
		return toTimestamp(col, value)
	case core.IntervalType:
		return toInterval(col, value)
	case core.JSONType:
		return toJSON(col, value)
	default:
		// Unresolved column type: pass the raw cell through.
		return value, nil
	}
}

func toText(col core.Column, value any) (any, error) {
	switch v := value.(type) {
	case string:
		return v, nil
	case int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64,
		float32, float64, bool:
		return fmt.Sprint(v), nil
	default:
		return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
	}
}

func toInt(col core.Column, value any) (any, error) {
	switch v := value.(type) {
	case int64:
		return v, nil
	case int:
		return int64(v), nil
	case int8:
		return int64(v), nil
	case int16:
		return int64(v), nil
	case int32:
		return int64(v), nil
	case uint8:
		return int64(v), nil
	case uint16:
		return int64(v), nil
	case uint32:
		return int64(v), nil
	case uint64:
		return int64(v), nil
	case float32:
		return int64(v), nil
	case float64:
		return int64(v), nil
	case bool:
		if v {
			return int64(1), nil
		}
		return int64(0), nil
	case string:
		n, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
		}
		return n, nil
	default:
		return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
	}
}

func toFloat(col core.Column, value any) (any, error) {
	switch v := value.(type) {
	case float64:
		return v, nil
	case float32:
		return float64(v), nil
	case int:
		return float64(v), nil
	case int32:
		return float64(v), nil
	case int64:
		return float64(v), nil
	case string:
		f, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
		}
		return f, nil
	default:
		return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
	}
}

func toBool(col core.Column, value any) (any, error) {
	switch v := value.(type) {
	case bool:
		return v, nil
	case int:
		return v != 0, nil
	case int32:
		return v != 0, nil
	case int64:
		return v != 0, nil
	case string:
		b, err := strconv.ParseBool(v)
		if err != nil {
			return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
		}
		return b, nil
	default:
		return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
	}
}

func toDate(col core.Column, value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		d, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
		}
		return d, nil
	default:
		return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
	}
}

func toTimestamp(col core.Column, value any) (any, error) {
	switch v := value.(type) {
	case time.Time:
		return v, nil
	case string:
		for _, layout := range timestampLayouts {
			if ts, err := time.Parse(layout, v); err == nil {
				return ts, nil
			}
		}
		return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
	default:
		return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
	}
}

func toInterval(col core.Column, value any) (any, error) {
	switch v := value.(type) {
	case time.Duration:
		return v, nil
	case int64:
		return time.Duration(v), nil
	case string:
		d, err := time.ParseDuration(v)
		if err != nil {
			return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
		}
		return d, nil
	default:
		return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
	}
}

func toJSON(col core.Column, value any) (any, error) {
	switch v := value.(type) {
	case map[string]any, []any:
		return v, nil
	case json.RawMessage:
		return decodeJSON(col, []byte(v))
	case []byte:
		return decodeJSON(col, v)
	case string:
		return decodeJSON(col, []byte(v))
	default:
		return nil, &TypeCoercionError{Column: col.Name, Value: value, Want: col.Type}
	}
}

func decodeJSON(col core.Column, data []byte) (any, error) {
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, &TypeCoercionError{Column: col.Name, Value: string(data), Want: col.Type}
	}
	return out, nil
}
