package arm

import (
	"fmt"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

// ParseParameterFile reads a deployment parameters file. Both the wrapped
// {"parameters": {"name": {"value": ...}}} layout and a flat name to value map
// are accepted; "value" wins over "defaultValue".
func ParseParameterFile(content []byte) (map[string]domain.Value, error) {
	doc, err := decode(content)
	if err != nil {
		return nil, fmt.Errorf("failed to parse parameters file: %w", err)
	}

	section := doc
	if _, ok := doc["parameters"]; ok {
		section = object(doc, "parameters")
	}

	params := make(map[string]domain.Value, len(section))
	for name, raw := range section {
		entry, ok := raw.(map[string]any)
		if !ok {
			params[name] = domain.ValueOf(raw)
			continue
		}
		if value, ok := entry["value"]; ok {
			params[name] = domain.ValueOf(value)
			continue
		}
		params[name] = domain.ValueOf(entry["defaultValue"])
	}
	return params, nil
}
