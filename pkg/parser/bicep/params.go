package bicep

import (
	"bytes"
	"fmt"
	"regexp"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/goccy/go-json"
)

var (
	paramDefault = regexp.MustCompile(`param\s+(\w+)\s+\w+\s*=\s*['"]([^'"]+)['"]`)
	paramValue   = regexp.MustCompile(`param\s+(\w+)\s*=\s*['"]([^'"]+)['"]`)
)

// ParseParameterDefaults collects quoted defaults such as
// `param location string = 'eastus'`. Computed defaults are skipped.
func ParseParameterDefaults(content string) map[string]domain.Value {
	return collect(paramDefault, content)
}

// ParseBicepParam reads `param name = 'value'` assignments from a .bicepparam file.
func ParseBicepParam(content string) map[string]domain.Value {
	return collect(paramValue, content)
}

func collect(re *regexp.Regexp, content string) map[string]domain.Value {
	params := make(map[string]domain.Value)
	for _, m := range re.FindAllStringSubmatch(content, -1) {
		params[m[1]] = literal(m[2])
	}
	return params
}

// ParseJSONParameterFile normalizes a deployment parameters file,
// {"parameters": {"name": {"value": v}}}, to name -> v.
func ParseJSONParameterFile(content []byte) (map[string]domain.Value, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()

	var doc struct {
		Parameters map[string]any `json:"parameters"`
	}
	if err := dec.Decode(&doc); err != nil {
		return nil, fmt.Errorf("failed to parse parameters file: %w", err)
	}

	params := make(map[string]domain.Value, len(doc.Parameters))
	for name, raw := range doc.Parameters {
		if entry, ok := raw.(map[string]any); ok {
			if value, ok := entry["value"]; ok {
				params[name] = domain.ValueOf(value)
				continue
			}
		}
		params[name] = domain.ValueOf(raw)
	}
	return params, nil
}

// Resolve substitutes ${param} placeholders in name, location, sku and
// properties. Unknown parameters keep their placeholder.
func Resolve(resources []domain.ResourceDescriptor, params map[string]domain.Value) []domain.ResourceDescriptor {
	for i := range resources {
		r := &resources[i]
		r.Name = substitute(r.Name, params)
		r.Location = substitute(r.Location, params)
		r.SKU = substitute(r.SKU, params)
		for key, value := range r.Properties {
			r.Properties[key] = substitute(value, params)
		}
	}
	return resources
}

func substitute(v domain.Value, params map[string]domain.Value) domain.Value {
	if !v.IsSet() || v.IsResolved() {
		return v
	}
	expr := v.Expression()
	if len(expr) < 3 || expr[:2] != "${" || expr[len(expr)-1] != '}' {
		return v
	}
	if param, ok := params[expr[2:len(expr)-1]]; ok && param.IsSet() {
		return param
	}
	return v
}
