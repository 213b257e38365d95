package bicep

import (
	"regexp"
	"strconv"
	"strings"
	"sync"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

var (
	patterns sync.Map // pattern source -> *regexp.Regexp

	keywords = map[string]bool{"true": true, "false": true, "null": true, "if": true, "for": true}

	jsonCallRef     = regexp.MustCompile(`^json\s*\(\s*(\w+)\s*\)`)
	jsonCallLiteral = regexp.MustCompile(`^json\s*\(\s*['"]([^'"]+)['"]\s*\)`)
)

func compile(source string) *regexp.Regexp {
	if re, ok := patterns.Load(source); ok {
		return re.(*regexp.Regexp)
	}
	re := regexp.MustCompile(source)
	patterns.Store(source, re)
	return re
}

// Reference renders the placeholder used for an unresolved identifier.
func Reference(ident string) domain.Value {
	return domain.Unresolved("${" + ident + "}")
}

// extractProperty reads `name: value` anywhere in block, case-insensitively.
// A quoted literal anywhere in the block wins over an identifier reference.
// Keywords are not values; integer literals resolve to numbers.
func extractProperty(block, name string) domain.Value {
	quoted := compile(`(?i)\b` + regexp.QuoteMeta(name) + `\s*:\s*['"]([^'"]+)['"]`)
	if m := quoted.FindStringSubmatch(block); m != nil {
		return literal(m[1])
	}

	ref := compile(`(?i)\b` + regexp.QuoteMeta(name) + `\s*:\s*(\w+)\b`)
	m := ref.FindStringSubmatch(block)
	if m == nil {
		return domain.Value{}
	}
	ident := m[1]
	if keywords[strings.ToLower(ident)] {
		return domain.Value{}
	}
	if n, err := strconv.Atoi(ident); err == nil {
		return domain.Resolved(n)
	}
	return Reference(ident)
}

// extractNumeric is extractProperty for fields that may be wrapped in json(),
// the DSL's way of writing fractional values: json(cpu) becomes a reference to
// cpu and json('0.5') the number 0.5.
func extractNumeric(block, name string) domain.Value {
	call := compile(`(?i)\b` + regexp.QuoteMeta(name) + `\s*:\s*(json\s*\([^)]*\))`)
	if m := call.FindStringSubmatch(block); m != nil {
		if inner := jsonCallLiteral.FindStringSubmatch(m[1]); inner != nil {
			if f, err := strconv.ParseFloat(inner[1], 64); err == nil {
				return domain.Resolved(f)
			}
			return literal(inner[1])
		}
		if inner := jsonCallRef.FindStringSubmatch(m[1]); inner != nil {
			return Reference(inner[1])
		}
	}
	return extractProperty(block, name)
}

func literal(s string) domain.Value {
	if domain.IsExpression(s) {
		return domain.Unresolved(s)
	}
	return domain.Resolved(s)
}

// extractNested finds `name: {` and returns the balanced block.
func extractNested(content, name string) string {
	re := compile(`(?i)\b` + regexp.QuoteMeta(name) + `\s*:\s*\{`)
	loc := re.FindStringIndex(content)
	if loc == nil {
		return ""
	}
	return ExtractBlock(content, loc[1]-1)
}

// extractNestedList finds `name: [` and returns the balanced array.
func extractNestedList(content, name string) string {
	re := compile(`\b` + regexp.QuoteMeta(name) + `\s*:\s*\[`)
	loc := re.FindStringIndex(content)
	if loc == nil {
		return ""
	}
	return ExtractArray(content, loc[1]-1)
}

// extractCollection accepts either an object or an array of objects and
// returns the object, or the array's first element.
func extractCollection(content, name string) string {
	if block := extractNested(content, name); block != "" {
		return block
	}
	if array := extractNestedList(content, name); array != "" {
		return ExtractBlock(array, 0)
	}
	return ""
}

func setIf(props domain.Properties, key string, v domain.Value) {
	if v.IsSet() {
		props.Set(key, v)
	}
}
