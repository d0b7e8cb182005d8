package expr

import (
	"math"
	"strings"

	"github.com/goliatone/go-formbuilder/pkg/visibility"
)

func lookup(ctx visibility.Context, key string) (any, bool) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false
	}

	switch {
	case strings.HasPrefix(key, "extras."):
		return lookupMap(ctx.Extras, key[len("extras."):])
	case strings.HasPrefix(key, "values."):
		return lookupMap(ctx.Values, key[len("values."):])
	}
	return lookupMap(ctx.Values, key)
}

func lookupMap(values map[string]any, path string) (any, bool) {
	path = strings.TrimSpace(path)
	if len(values) == 0 || path == "" {
		return nil, false
	}

	// Prefer exact match for dotted keys such as "address.city".
	if v, ok := values[path]; ok {
		return v, true
	}

	var current any = values
	for _, part := range strings.Split(path, ".") {
		if part == "" {
			return nil, false
		}
		switch typed := current.(type) {
		case map[string]any:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		case map[string]string:
			next, ok := typed[part]
			if !ok {
				return nil, false
			}
			current = next
		default:
			return nil, false
		}
	}
	return current, true
}

// Truthy reports whether value counts as true in a boolean context: false,
// zero, NaN, the empty string, null, undefined and empty collections are
// false.
func Truthy(value any) bool {
	if nullish(value) {
		return false
	}
	switch v := value.(type) {
	case bool:
		return v
	case string:
		return v != ""
	case []any:
		return len(v) > 0
	case map[string]any:
		return len(v) > 0
	}
	if n := visibility.ToNumber(value); isNumeric(value) {
		return n != 0 && !math.IsNaN(n)
	}
	return true
}

func isNumeric(value any) bool {
	switch value.(type) {
	case float64, float32, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64:
		return true
	default:
		return false
	}
}
