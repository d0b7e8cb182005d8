package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/mohae/deepcopy"
)

// ErrInvalidConfigValue is returned by Config.Set when a value cannot be
// stored under a typed key.
var ErrInvalidConfigValue = errors.New("model: invalid config value")

// Option is one choice of a select, radio or multiselect field.
type Option struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// UnmarshalJSON accepts either {"label","value"} objects or bare strings,
// in which case label and value are the same.
func (o *Option) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
		*o = Option{Label: s, Value: s}
		return nil
	}
	type plain Option
	var out plain
	if err := json.Unmarshal(trimmed, &out); err != nil {
		return err
	}
	*o = Option(out)
	return nil
}

// Config holds the type-specific settings of a field. Known keys are typed;
// anything else lands in Extra. The JSON form is one flat object.
type Config struct {
	Required     bool
	Placeholder  string
	Hint         string
	DefaultValue any
	MinLength    *int
	MaxLength    *int
	Min          *float64
	Max          *float64
	Step         *float64
	Pattern      string
	Options      []Option
	Rows         *int
	Currency     string
	Integer      bool

	RequireUppercase bool
	RequireLowercase bool
	RequireNumber    bool
	RequireSpecial   bool

	Accept   string
	MaxSize  *int64
	Multiple bool
	Formula  string
	Content  string

	ShowWhen    *ConditionalRule
	HideWhen    *ConditionalRule
	DisableWhen *ConditionalRule

	Extra map[string]any
}

type configKey struct {
	name  string
	get   func(c *Config) (any, bool)
	apply func(c *Config, raw json.RawMessage) error
}

func boolKey(name string, field func(*Config) *bool) configKey {
	return configKey{
		name: name,
		get: func(c *Config) (any, bool) {
			v := *field(c)
			return v, v
		},
		apply: func(c *Config, raw json.RawMessage) error { return decodeInto(raw, field(c)) },
	}
}

func stringKey(name string, field func(*Config) *string) configKey {
	return configKey{
		name: name,
		get: func(c *Config) (any, bool) {
			v := *field(c)
			return v, v != ""
		},
		apply: func(c *Config, raw json.RawMessage) error { return decodeInto(raw, field(c)) },
	}
}

func ptrKey[T any](name string, field func(*Config) **T) configKey {
	return configKey{
		name: name,
		get: func(c *Config) (any, bool) {
			v := *field(c)
			if v == nil {
				return nil, false
			}
			return *v, true
		},
		apply: func(c *Config, raw json.RawMessage) error { return decodeInto(raw, field(c)) },
	}
}

var configKeys = []configKey{
	boolKey("required", func(c *Config) *bool { return &c.Required }),
	stringKey("placeholder", func(c *Config) *string { return &c.Placeholder }),
	stringKey("hint", func(c *Config) *string { return &c.Hint }),
	{
		name: "defaultValue",
		get:  func(c *Config) (any, bool) { return c.DefaultValue, c.DefaultValue != nil },
		apply: func(c *Config, raw json.RawMessage) error {
			return decodeInto(raw, &c.DefaultValue)
		},
	},
	ptrKey("minLength", func(c *Config) **int { return &c.MinLength }),
	ptrKey("maxLength", func(c *Config) **int { return &c.MaxLength }),
	ptrKey("min", func(c *Config) **float64 { return &c.Min }),
	ptrKey("max", func(c *Config) **float64 { return &c.Max }),
	ptrKey("step", func(c *Config) **float64 { return &c.Step }),
	stringKey("pattern", func(c *Config) *string { return &c.Pattern }),
	{
		name: "options",
		get:  func(c *Config) (any, bool) { return c.Options, len(c.Options) > 0 },
		apply: func(c *Config, raw json.RawMessage) error {
			return decodeInto(raw, &c.Options)
		},
	},
	ptrKey("rows", func(c *Config) **int { return &c.Rows }),
	stringKey("currency", func(c *Config) *string { return &c.Currency }),
	boolKey("integer", func(c *Config) *bool { return &c.Integer }),
	boolKey("requireUppercase", func(c *Config) *bool { return &c.RequireUppercase }),
	boolKey("requireLowercase", func(c *Config) *bool { return &c.RequireLowercase }),
	boolKey("requireNumber", func(c *Config) *bool { return &c.RequireNumber }),
	boolKey("requireSpecial", func(c *Config) *bool { return &c.RequireSpecial }),
	stringKey("accept", func(c *Config) *string { return &c.Accept }),
	ptrKey("maxSize", func(c *Config) **int64 { return &c.MaxSize }),
	boolKey("multiple", func(c *Config) *bool { return &c.Multiple }),
	stringKey("formula", func(c *Config) *string { return &c.Formula }),
	stringKey("content", func(c *Config) *string { return &c.Content }),
	ptrKey(string(RuleShowWhen), func(c *Config) **ConditionalRule { return &c.ShowWhen }),
	ptrKey(string(RuleHideWhen), func(c *Config) **ConditionalRule { return &c.HideWhen }),
	ptrKey(string(RuleDisableWhen), func(c *Config) **ConditionalRule { return &c.DisableWhen }),
}

var configKeyIndex = func() map[string]int {
	index := make(map[string]int, len(configKeys))
	for i, key := range configKeys {
		index[key.name] = i
	}
	return index
}()

// ConfigKeys returns the typed config keys in serialisation order.
func ConfigKeys() []string {
	out := make([]string, len(configKeys))
	for i, key := range configKeys {
		out[i] = key.name
	}
	return out
}

// IsTypedKey reports whether key maps onto a typed Config field.
func IsTypedKey(key string) bool {
	_, ok := configKeyIndex[key]
	return ok
}

func decodeInto[T any](raw json.RawMessage, dst *T) error {
	var v T
	if !isNull(raw) {
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
	}
	*dst = v
	return nil
}

func isNull(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

// Get returns the value stored under key, looking at typed keys first.
func (c Config) Get(key string) (any, bool) {
	if idx, ok := configKeyIndex[key]; ok {
		if v, present := configKeys[idx].get(&c); present {
			return v, true
		}
	}
	v, ok := c.Extra[key]
	return v, ok
}

// Set stores value under key. A nil value clears the key. Values for typed
// keys must be convertible to the field's type.
func (c *Config) Set(key string, value any) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("%w: empty key", ErrInvalidConfigValue)
	}
	idx, typed := configKeyIndex[key]
	if !typed {
		if value == nil {
			delete(c.Extra, key)
			return nil
		}
		if c.Extra == nil {
			c.Extra = make(map[string]any)
		}
		c.Extra[key] = deepcopy.Copy(value)
		return nil
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfigValue, key, err)
	}
	next := *c
	if err := configKeys[idx].apply(&next, raw); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidConfigValue, key, err)
	}
	*c = next
	delete(c.Extra, key)
	return nil
}

// Keys lists the keys present in the config in serialisation order.
func (c Config) Keys() []string {
	var keys []string
	for _, key := range configKeys {
		if _, ok := key.get(&c); ok {
			keys = append(keys, key.name)
		}
	}
	return append(keys, c.extraKeys()...)
}

func (c Config) extraKeys() []string {
	keys := make([]string, 0, len(c.Extra))
	for key := range c.Extra {
		if IsTypedKey(key) {
			if _, ok := configKeys[configKeyIndex[key]].get(&c); ok {
				continue
			}
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Rule returns the conditional rule stored in the given slot.
func (c Config) Rule(kind RuleKind) *ConditionalRule {
	switch kind {
	case RuleShowWhen:
		return c.ShowWhen
	case RuleHideWhen:
		return c.HideWhen
	case RuleDisableWhen:
		return c.DisableWhen
	default:
		return nil
	}
}

// MarshalJSON writes typed keys in declaration order followed by extra keys
// sorted alphabetically.
func (c Config) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	first := true
	write := func(name string, value any) error {
		encoded, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("model: marshal config %q: %w", name, err)
		}
		if !first {
			buf.WriteByte(',')
		}
		first = false
		keyBytes, _ := json.Marshal(name)
		buf.Write(keyBytes)
		buf.WriteByte(':')
		buf.Write(encoded)
		return nil
	}
	for _, key := range configKeys {
		value, ok := key.get(&c)
		if !ok {
			continue
		}
		if err := write(key.name, value); err != nil {
			return nil, err
		}
	}
	for _, key := range c.extraKeys() {
		if err := write(key, c.Extra[key]); err != nil {
			return nil, err
		}
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON reads a flat config object. Typed keys whose value has the
// wrong shape are kept verbatim in Extra instead of failing the decode.
func (c *Config) UnmarshalJSON(data []byte) error {
	if isNull(data) {
		*c = Config{}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("model: decode config: %w", err)
	}
	out := Config{}
	for key, value := range raw {
		if idx, ok := configKeyIndex[key]; ok {
			if err := configKeys[idx].apply(&out, value); err == nil {
				continue
			}
		}
		var loose any
		if err := json.Unmarshal(value, &loose); err != nil {
			return fmt.Errorf("model: decode config %q: %w", key, err)
		}
		if out.Extra == nil {
			out.Extra = make(map[string]any)
		}
		out.Extra[key] = loose
	}
	*c = out
	return nil
}

// Clone returns a deep copy of the config.
func (c Config) Clone() Config {
	out := c
	out.DefaultValue = deepcopy.Copy(c.DefaultValue)
	out.MinLength = clonePtr(c.MinLength)
	out.MaxLength = clonePtr(c.MaxLength)
	out.Min = clonePtr(c.Min)
	out.Max = clonePtr(c.Max)
	out.Step = clonePtr(c.Step)
	out.Rows = clonePtr(c.Rows)
	out.MaxSize = clonePtr(c.MaxSize)
	if c.Options != nil {
		out.Options = append([]Option(nil), c.Options...)
	}
	out.ShowWhen = c.ShowWhen.Clone()
	out.HideWhen = c.HideWhen.Clone()
	out.DisableWhen = c.DisableWhen.Clone()
	if c.Extra != nil {
		out.Extra = make(map[string]any, len(c.Extra))
		for key, value := range c.Extra {
			out.Extra[key] = deepcopy.Copy(value)
		}
	}
	return out
}

func clonePtr[T any](in *T) *T {
	if in == nil {
		return nil
	}
	v := *in
	return &v
}
