package domain

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
)

// Value is a template field that is either a concrete value or an expression
// the parsers could not evaluate. The zero Value is "absent".
type Value struct {
	raw        any
	expression string
	set        bool
	unresolved bool
}

// Resolved wraps a concrete value.
func Resolved(v any) Value {
	return Value{raw: v, set: true}
}

// Unresolved keeps the original expression text, e.g. "[parameters('vmSize')]" or "${vmSize}".
func Unresolved(expr string) Value {
	return Value{expression: expr, set: true, unresolved: true}
}

func (v Value) IsSet() bool {
	return v.set
}

func (v Value) IsResolved() bool {
	return v.set && !v.unresolved
}

func (v Value) Expression() string {
	return v.expression
}

func (v Value) Raw() any {
	if v.unresolved {
		return v.expression
	}
	return v.raw
}

// String renders resolved scalars, or the expression text of an unresolved value.
func (v Value) String() string {
	if !v.set {
		return ""
	}
	if v.unresolved {
		return v.expression
	}
	switch t := v.raw.(type) {
	case nil:
		return ""
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprintf("%v", t)
	}
}

// Float converts numeric values and numeric strings.
func (v Value) Float() (float64, bool) {
	if !v.IsResolved() {
		return 0, false
	}
	switch t := v.raw.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		return f, err == nil
	}
	return 0, false
}

// Int converts integral numbers and integer strings.
func (v Value) Int() (int, bool) {
	if !v.IsResolved() {
		return 0, false
	}
	switch t := v.raw.(type) {
	case int:
		return t, true
	case int64:
		return int(t), true
	case float64:
		if t != float64(int(t)) {
			return 0, false
		}
		return int(t), true
	case json.Number:
		i, err := t.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(t))
		return i, err == nil
	}
	return 0, false
}

func (v Value) Bool() bool {
	b, ok := v.raw.(bool)
	return v.IsResolved() && ok && b
}

// Or returns v when set, otherwise the fallback.
func (v Value) Or(fallback Value) Value {
	if v.set {
		return v
	}
	return fallback
}

func (v Value) MarshalJSON() ([]byte, error) {
	if !v.set {
		return []byte("null"), nil
	}
	return json.Marshal(v.Raw())
}

func (v *Value) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if raw == nil {
		*v = Value{}
		return nil
	}
	if s, ok := raw.(string); ok && IsExpression(s) {
		*v = Unresolved(s)
		return nil
	}
	*v = Resolved(raw)
	return nil
}

func (v Value) MarshalYAML() (any, error) {
	if !v.set {
		return nil, nil
	}
	return v.Raw(), nil
}

// IsExpression reports whether s is written in template expression syntax.
func IsExpression(s string) bool {
	if strings.HasPrefix(s, "${") && strings.HasSuffix(s, "}") {
		return true
	}
	return strings.HasPrefix(s, "[") && strings.HasSuffix(s, "]") && !strings.HasPrefix(s, "[[")
}

// Properties holds the type-specific, cost-relevant attributes of a resource.
type Properties map[string]Value

func (p Properties) Get(key string) Value {
	if p == nil {
		return Value{}
	}
	return p[key]
}

func (p Properties) Has(key string) bool {
	_, ok := p[key]
	return ok
}

func (p Properties) Set(key string, v Value) {
	p[key] = v
}

// ValueOf wraps a decoded JSON value. Expression strings stay unresolved and
// json.Number leaves become int or float64.
func ValueOf(raw any) Value {
	switch t := raw.(type) {
	case nil:
		return Value{}
	case string:
		if IsExpression(t) {
			return Unresolved(t)
		}
		return Resolved(t)
	}
	return Resolved(normalize(raw))
}

func normalize(raw any) any {
	switch t := raw.(type) {
	case json.Number:
		if i, err := t.Int64(); err == nil {
			return int(i)
		}
		if f, err := t.Float64(); err == nil {
			return f
		}
		return t.String()
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = normalize(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(t))
		for k, item := range t {
			out[k] = normalize(item)
		}
		return out
	}
	return raw
}

// Clone copies the map so expanded descriptors do not share property values.
func (p Properties) Clone() Properties {
	out := make(Properties, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}
