package row

import (
	"math"
	"strconv"
	"strings"
)

// Text is the string coercion used by filtering and sorting.
//
//	Null, nil   -> ""
//	Int         -> decimal
//	Float       -> shortest round-trip form ("2.5", "NaN", "Infinity")
//	Bool        -> "true" / "false"
//	Array       -> elements joined by ","
//	Object      -> JSON with sorted keys
func Text(v Value) string {
	switch val := v.(type) {
	case nil, Null:
		return ""
	case String:
		return string(val)
	case Int:
		return strconv.FormatInt(int64(val), 10)
	case Float:
		return formatFloat(float64(val))
	case Bool:
		return strconv.FormatBool(bool(val))
	case Array:
		parts := make([]string, len(val))
		for i, elem := range val {
			parts[i] = Text(elem)
		}
		return strings.Join(parts, ",")
	case Object:
		b, err := val.MarshalJSON()
		if err != nil {
			return ""
		}
		return string(b)
	default:
		return ""
	}
}

// IsNumeric returns the numeric value of v when v is an Int or a Float
// that is not NaN.
func IsNumeric(v Value) (float64, bool) {
	switch val := v.(type) {
	case Int:
		return float64(val), true
	case Float:
		f := float64(val)
		if math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func formatFloat(f float64) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	}
	abs := math.Abs(f)
	if abs != 0 && (abs < 1e-6 || abs >= 1e21) {
		return strconv.FormatFloat(f, 'g', -1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
