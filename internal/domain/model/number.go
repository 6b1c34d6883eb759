package model

import (
	"encoding/json"
	"errors"
	"math"
	"math/big"
	"regexp"
	"strconv"
	"strings"
)

var decimalLiteral = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?$`)

// parseNumber converts a JSON number literal to float64. Literals beyond the
// float64 range become ±Inf rather than an error.
func parseNumber(n json.Number) float64 {
	f, err := strconv.ParseFloat(string(n), 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return f
}

// toNumber coerces a decoded JSON value to a number the way loosely typed
// clients expect: numeric strings parse, booleans are 0/1, null and "" are
// 0, and anything without a numeric reading is NaN.
func toNumber(v any) float64 {
	switch t := v.(type) {
	case nil:
		return 0
	case json.Number:
		return parseNumber(t)
	case float64:
		return t
	case bool:
		if t {
			return 1
		}
		return 0
	case string:
		return stringToNumber(t)
	case []any:
		return stringToNumber(joinedString(t))
	default:
		return math.NaN()
	}
}

func stringToNumber(s string) float64 {
	s = strings.TrimSpace(s)
	switch s {
	case "":
		return 0
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}

	if len(s) > 2 && s[0] == '0' {
		base := 0
		switch s[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			i, ok := new(big.Int).SetString(s[2:], base)
			if !ok {
				return math.NaN()
			}
			f, _ := new(big.Float).SetInt(i).Float64()
			return f
		}
	}

	if !decimalLiteral.MatchString(s) {
		return math.NaN()
	}
	return parseNumber(json.Number(s))
}

// joinedString renders an array as comma-joined elements, nulls empty.
func joinedString(items []any) string {
	parts := make([]string, len(items))
	for i, item := range items {
		switch t := item.(type) {
		case nil:
		case string:
			parts[i] = t
		case json.Number:
			parts[i] = formatNumber(parseNumber(t))
		case bool:
			parts[i] = strconv.FormatBool(t)
		case []any:
			parts[i] = joinedString(t)
		default:
			parts[i] = "[object Object]"
		}
	}
	return strings.Join(parts, ",")
}

func formatNumber(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "Infinity"
	case math.IsInf(f, -1):
		return "-Infinity"
	case math.IsNaN(f):
		return "NaN"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}

// normalizeNumbers rewrites every json.Number in a decoded value to its
// float64 reading. Values with no JSON representation (±Inf, NaN) become
// null and negative zero becomes 0.
func normalizeNumbers(v any) any {
	switch t := v.(type) {
	case json.Number:
		return jsonFloat(parseNumber(t))
	case float64:
		return jsonFloat(t)
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalizeNumbers(item)
		}
		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalizeNumbers(item)
		}
		return out
	default:
		return v
	}
}

func jsonFloat(f float64) any {
	if math.IsInf(f, 0) || math.IsNaN(f) {
		return nil
	}
	if f == 0 {
		return 0.0
	}
	return f
}
