package visibility

import (
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"strconv"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/model"
)

// undefined marks a value key that is absent from the value map, as opposed
// to one present with a nil value.
type undefined struct{}

// Undefined is the value of a key absent from the value map.
var Undefined any = undefined{}

// IsUndefined reports whether v is Undefined.
func IsUndefined(v any) bool {
	_, ok := v.(undefined)
	return ok
}

// Evaluate reports whether rule is met by values. Rules without a field or
// operator, and rules with an unknown operator, are never met.
func Evaluate(rule model.ConditionalRule, values map[string]any) bool {
	if strings.TrimSpace(rule.Field) == "" || rule.Operator == "" {
		return false
	}

	actual, ok := values[rule.Field]
	var target any = actual
	if !ok {
		target = undefined{}
	}
	var expected any = rule.Value
	if rule.Value == nil {
		expected = undefined{}
	}

	switch rule.Operator {
	case model.OperatorEquals:
		return LooseEqual(target, expected)
	case model.OperatorNotEquals:
		return !StrictEqual(target, expected) && JSString(target) != JSString(expected)
	case model.OperatorContains:
		haystack, ok := target.(string)
		if !ok {
			return false
		}
		needle, ok := expected.(string)
		if !ok {
			return false
		}
		return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
	case model.OperatorGreaterThan:
		return ToNumber(target) > ToNumber(expected)
	case model.OperatorLessThan:
		return ToNumber(target) < ToNumber(expected)
	case model.OperatorIsEmpty:
		return IsEmpty(target)
	case model.OperatorIsNotEmpty:
		return !IsEmpty(target)
	default:
		return false
	}
}

// JSTruthy reports whether v is truthy under JavaScript rules: null,
// undefined, false, 0, NaN and the empty string are falsy, everything else
// (including empty arrays and objects) is truthy.
func JSTruthy(v any) bool {
	if n, ok := numeric(v); ok {
		return n != 0 && !math.IsNaN(n)
	}
	switch value := v.(type) {
	case nil, undefined:
		return false
	case bool:
		return value
	case string:
		return value != ""
	}
	return true
}

// IsEmpty reports whether v is an empty string, nil, or undefined.
func IsEmpty(v any) bool {
	switch value := v.(type) {
	case nil, undefined:
		return true
	case string:
		return value == ""
	default:
		return false
	}
}

// LooseEqual is strict equality or equality of the string forms, so 5 and
// "5" are equal.
func LooseEqual(a, b any) bool {
	return StrictEqual(a, b) || JSString(a) == JSString(b)
}

// StrictEqual compares values of the same kind. Numbers compare by value
// regardless of their Go representation.
func StrictEqual(a, b any) bool {
	if an, ok := numeric(a); ok {
		bn, ok := numeric(b)
		return ok && an == bn
	}
	switch av := a.(type) {
	case undefined:
		_, ok := b.(undefined)
		return ok
	case nil:
		return b == nil
	case string:
		bv, ok := b.(string)
		return ok && av == bv
	case bool:
		bv, ok := b.(bool)
		return ok && av == bv
	}
	ra, rb := reflect.ValueOf(a), reflect.ValueOf(b)
	if ra.Kind() == reflect.Map || ra.Kind() == reflect.Slice {
		return ra.Kind() == rb.Kind() && ra.Type() == rb.Type() && ra.Pointer() == rb.Pointer()
	}
	if !ra.IsValid() || !ra.Type().Comparable() {
		return false
	}
	return a == b
}

// JSString renders v the way a browser runtime would coerce it to a string.
func JSString(v any) string {
	if n, ok := numeric(v); ok {
		return formatNumber(n)
	}
	switch value := v.(type) {
	case undefined:
		return "undefined"
	case nil:
		return "null"
	case string:
		return value
	case bool:
		return strconv.FormatBool(value)
	case []any:
		parts := make([]string, len(value))
		for i, item := range value {
			if item == nil {
				continue
			}
			parts[i] = JSString(item)
		}
		return strings.Join(parts, ",")
	case []string:
		return strings.Join(value, ",")
	case map[string]any:
		return "[object Object]"
	}
	return strings.TrimSpace(reflectString(v))
}

// ToNumber coerces v to a number. Strings that do not parse, undefined and
// composite values become NaN; nil and the empty string become zero.
func ToNumber(v any) float64 {
	if n, ok := numeric(v); ok {
		return n
	}
	switch value := v.(type) {
	case nil:
		return 0
	case bool:
		if value {
			return 1
		}
		return 0
	case string:
		return parseNumber(value)
	default:
		return math.NaN()
	}
}

// parseNumber converts s the way Number(s) does: surrounding whitespace is
// ignored, the empty string is 0, unsigned 0x, 0o and 0b literals are
// integers and only the exact spelling Infinity names an infinite value.
func parseNumber(s string) float64 {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0
	}
	switch trimmed {
	case "Infinity", "+Infinity":
		return math.Inf(1)
	case "-Infinity":
		return math.Inf(-1)
	}
	if len(trimmed) > 2 && trimmed[0] == '0' {
		base := 0
		switch trimmed[1] {
		case 'x', 'X':
			base = 16
		case 'o', 'O':
			base = 8
		case 'b', 'B':
			base = 2
		}
		if base != 0 {
			return parseRadix(trimmed[2:], base)
		}
	}
	for _, r := range trimmed {
		if !strings.ContainsRune("0123456789+-.eE", r) {
			return math.NaN()
		}
	}
	n, err := strconv.ParseFloat(trimmed, 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		return math.NaN()
	}
	return n
}

func parseRadix(digits string, base int) float64 {
	var out float64
	for _, r := range digits {
		d, err := strconv.ParseUint(string(r), base, 8)
		if err != nil {
			return math.NaN()
		}
		out = out*float64(base) + float64(d)
	}
	return out
}

func numeric(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int8:
		return float64(n), true
	case int16:
		return float64(n), true
	case int32:
		return float64(n), true
	case int64:
		return float64(n), true
	case uint:
		return float64(n), true
	case uint8:
		return float64(n), true
	case uint16:
		return float64(n), true
	case uint32:
		return float64(n), true
	case uint64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

func formatNumber(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	}
	return strconv.FormatFloat(n, 'f', -1, 64)
}

func reflectString(v any) string {
	encoded, err := json.Marshal(v)
	if err != nil {
		return ""
	}
	return string(encoded)
}
