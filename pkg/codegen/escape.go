package codegen

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"unicode"
)

var (
	singleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`)
	doubleQuoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`, "\n", `\n`, "\r", `\r`)
	commentEscaper     = strings.NewReplacer("\r\n", " ", "\n", " ", "\r", " ", "*/", "* /")
)

// quote renders s as a single-quoted literal.
func quote(s string) string {
	return "'" + singleQuoteEscaper.Replace(s) + "'"
}

// doubleQuote renders s as a double-quoted literal.
func doubleQuote(s string) string {
	return `"` + doubleQuoteEscaper.Replace(s) + `"`
}

func comment(s string) string {
	return strings.TrimSpace(commentEscaper.Replace(s))
}

func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// regexLiteral renders pattern as /pattern/ with unescaped slashes and line
// breaks escaped.
func regexLiteral(pattern string) string {
	var b strings.Builder
	b.WriteByte('/')
	escaped := false
	for _, r := range pattern {
		switch {
		case escaped:
			escaped = false
			b.WriteRune(r)
			continue
		case r == '\\':
			escaped = true
		case r == '/':
			b.WriteString(`\/`)
			continue
		case r == '\n':
			b.WriteString(`\n`)
			continue
		case r == '\r':
			b.WriteString(`\r`)
			continue
		}
		b.WriteRune(r)
	}
	b.WriteByte('/')
	return b.String()
}

func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		if r == '_' || r == '$' || unicode.IsLetter(r) {
			continue
		}
		if i > 0 && unicode.IsDigit(r) {
			continue
		}
		return false
	}
	return true
}

// propertyKey renders name as an object key, quoting it when needed.
func propertyKey(name string) string {
	if isIdentifier(name) {
		return name
	}
	return quote(name)
}

// access renders a read of name from the object held in base.
func access(base, name string) string {
	if isIdentifier(name) {
		return base + "." + name
	}
	return base + "[" + quote(name) + "]"
}

func words(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

// pascalCase joins the words of s with each word capitalised. A result that
// does not start with a letter is prefixed with fallback.
func pascalCase(s, fallback string) string {
	var b strings.Builder
	for _, word := range words(s) {
		runes := []rune(word)
		b.WriteString(strings.ToUpper(string(runes[0])))
		b.WriteString(string(runes[1:]))
	}
	out := b.String()
	if out == "" {
		return fallback
	}
	if first := []rune(out)[0]; !unicode.IsLetter(first) {
		return fallback + out
	}
	return out
}

func camelCase(s, fallback string) string {
	pascal := []rune(pascalCase(s, fallback))
	return strings.ToLower(string(pascal[0])) + string(pascal[1:])
}

// jsLiteral renders v as a JavaScript literal after normalising it through
// JSON. Values that cannot be encoded report false.
func jsLiteral(v any) (string, bool) {
	raw, err := json.Marshal(v)
	if err != nil {
		return "", false
	}
	var normalised any
	if err := json.Unmarshal(raw, &normalised); err != nil {
		return "", false
	}
	return renderLiteral(normalised), true
}

func renderLiteral(v any) string {
	switch value := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(value)
	case float64:
		return formatNumber(value)
	case string:
		return quote(value)
	case []any:
		items := make([]string, len(value))
		for i, item := range value {
			items[i] = renderLiteral(item)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case map[string]any:
		if len(value) == 0 {
			return "{}"
		}
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		entries := make([]string, len(keys))
		for i, key := range keys {
			entries[i] = propertyKey(key) + ": " + renderLiteral(value[key])
		}
		return "{ " + strings.Join(entries, ", ") + " }"
	}
	return "null"
}
