package arm

import (
	"bytes"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
)

const unknownLocation = "unknown"

// maxCopyCount is the deployment engine's limit on copy loop iterations.
const maxCopyCount = 800

// Template is the parsed content of an ARM deployment template.
type Template struct {
	Resources  []domain.ResourceDescriptor
	Parameters map[string]domain.Value
	Variables  map[string]any
}

func emptyTemplate() Template {
	return Template{
		Resources:  []domain.ResourceDescriptor{},
		Parameters: map[string]domain.Value{},
		Variables:  map[string]any{},
	}
}

type Parser struct {
	logger zerolog.Logger
}

func NewParser(logger zerolog.Logger) *Parser {
	return &Parser{logger: logger}
}

// Parse never fails: malformed JSON yields an empty template and a logged warning.
func (p *Parser) Parse(content []byte) Template {
	doc, err := decode(content)
	if err != nil {
		p.logger.Warn().Err(err).Msg("invalid template JSON")
		return emptyTemplate()
	}

	schema, _ := doc["$schema"].(string)
	if !strings.Contains(schema, "deploymentTemplate") && !strings.Contains(schema, "subscriptionDeploymentTemplate") {
		p.logger.Warn().Str("schema", schema).Msg("file may not be an ARM template (missing $schema)")
	}

	tpl := emptyTemplate()
	for name, raw := range object(doc, "parameters") {
		param, _ := raw.(map[string]any)
		if def, ok := param["defaultValue"]; ok {
			tpl.Parameters[name] = domain.ValueOf(def)
			continue
		}
		tpl.Parameters[name] = domain.Unresolved("[parameters('" + name + "')]")
	}

	for name, raw := range object(doc, "variables") {
		tpl.Variables[name] = raw
	}

	for _, raw := range list(doc, "resources") {
		def, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		if str(def, "type") == "" {
			p.logger.Warn().Str("name", str(def, "name")).Msg("resource without type skipped")
			continue
		}
		tpl.Resources = append(tpl.Resources, p.parseResource(def, "", nil)...)
	}

	p.logger.Debug().
		Int("resources", len(tpl.Resources)).
		Int("parameters", len(tpl.Parameters)).
		Msg("parsed ARM template")
	return tpl
}

// parseResource flattens one declaration and its children. A child's type is
// qualified with the parent's and it inherits the parent's location when it
// declares none.
func (p *Parser) parseResource(def map[string]any, parentType string, parentLocation any) []domain.ResourceDescriptor {
	resourceType := str(def, "type")
	if parentType != "" {
		resourceType = parentType + "/" + resourceType
	}

	location, ok := def["location"]
	if !ok {
		location = parentLocation
	}
	if location == nil {
		location = unknownLocation
	}

	r := domain.NewResourceDescriptor(resourceType)
	r.Name = domain.ValueOf(def["name"])
	if !r.Name.IsSet() {
		r.Name = domain.Resolved("")
	}
	r.Location = domain.ValueOf(location)
	r.APIVersion = str(def, "apiVersion")
	r.Kind = domain.ValueOf(def["kind"])

	switch sku := def["sku"].(type) {
	case map[string]any:
		r.SKU = domain.ValueOf(sku["name"])
		r.Tier = domain.ValueOf(sku["tier"])
	case string:
		r.SKU = domain.ValueOf(sku)
	}

	for _, dep := range list(def, "dependsOn") {
		if s, ok := dep.(string); ok {
			r.DependsOn = append(r.DependsOn, s)
		}
	}

	r.Properties = extractProperties(def, resourceType)

	instances := p.repeatCount(def, resourceType)
	out := make([]domain.ResourceDescriptor, 0, instances)
	for i := 0; i < instances; i++ {
		instance := r
		instance.Properties = r.Properties.Clone()
		instance.DependsOn = append([]string(nil), r.DependsOn...)
		out = append(out, instance)
	}

	for _, raw := range list(def, "resources") {
		child, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		out = append(out, p.parseResource(child, resourceType, location)...)
	}
	return out
}

// repeatCount reads copy.count. Only integer literals repeat; expressions,
// fractions and non-positive counts yield a single instance. Counts above
// the deployment limit are clamped to it.
func (p *Parser) repeatCount(def map[string]any, resourceType string) int {
	cp := object(def, "copy")
	if cp == nil {
		return 1
	}
	n, ok := cp["count"].(json.Number)
	if !ok {
		return 1
	}
	count, err := n.Int64()
	if err != nil || count < 1 {
		return 1
	}
	if count > maxCopyCount {
		p.logger.Warn().
			Str("type", resourceType).
			Int64("count", count).
			Int("limit", maxCopyCount).
			Msg("copy count exceeds limit, clamping")
		return maxCopyCount
	}
	return int(count)
}

func decode(content []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(content))
	dec.UseNumber()
	var doc map[string]any
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = map[string]any{}
	}
	return doc, nil
}

func object(m map[string]any, key string) map[string]any {
	if m == nil {
		return nil
	}
	out, _ := m[key].(map[string]any)
	return out
}

func list(m map[string]any, key string) []any {
	if m == nil {
		return nil
	}
	out, _ := m[key].([]any)
	return out
}

func str(m map[string]any, key string) string {
	if m == nil {
		return ""
	}
	s, _ := m[key].(string)
	return s
}
