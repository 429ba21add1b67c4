package shade

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// FormatValue is the stored form of a submitted setting value. Numbers keep
// every digit without exponent notation; nil is the empty string.
func FormatValue(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return x
	case json.Number:
		return x.String()
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(x), 'f', -1, 32)
	default:
		return fmt.Sprint(x)
	}
}
