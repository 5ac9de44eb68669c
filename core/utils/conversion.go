package utils

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// ToString converts various types to string.
// Whole floats render without a fractional part, so a numeric version
// decoded from JSON compares equal to the same version read from SQL.
func ToString(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	case json.Number:
		return v.String()
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	default:
		return fmt.Sprintf("%v", v)
	}
}
