package arm

import (
	"regexp"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

const fallbackRegion = "eastus"

var (
	parametersCall = regexp.MustCompile(`^parameters\('([^']+)'\)`)
	variablesCall  = regexp.MustCompile(`^variables\('([^']+)'\)`)
)

// Resolver is a partial evaluator for bracket expressions. It understands
// parameter and variable references and the resource group location; every
// other form, concat included, is returned verbatim.
type Resolver struct {
	Parameters map[string]domain.Value
	Variables  map[string]any
	// DefaultRegion answers resourceGroup().location when no location parameter exists.
	DefaultRegion string
}

func (r Resolver) Resolve(v domain.Value) domain.Value {
	if !v.IsSet() || v.IsResolved() {
		return v
	}
	expr := v.Expression()
	if !strings.HasPrefix(expr, "[") || !strings.HasSuffix(expr, "]") {
		return v
	}
	inner := strings.TrimSpace(expr[1 : len(expr)-1])

	if m := parametersCall.FindStringSubmatch(inner); m != nil {
		if param, ok := r.Parameters[m[1]]; ok && param.IsSet() {
			return param
		}
		return v
	}

	if m := variablesCall.FindStringSubmatch(inner); m != nil {
		if raw, ok := r.Variables[m[1]]; ok {
			return domain.ValueOf(raw)
		}
		return v
	}

	if strings.Contains(inner, "resourceGroup().location") {
		if location, ok := r.Parameters["location"]; ok && location.IsSet() {
			return location
		}
		if r.DefaultRegion != "" {
			return domain.Resolved(r.DefaultRegion)
		}
		return domain.Resolved(fallbackRegion)
	}

	return v
}

// Resolve applies the resolver to name, location, sku and every top-level
// property of each descriptor. Nested property structures are left alone.
func Resolve(
	resources []domain.ResourceDescriptor,
	parameters map[string]domain.Value,
	variables map[string]any,
	defaultRegion string,
) []domain.ResourceDescriptor {
	resolver := Resolver{Parameters: parameters, Variables: variables, DefaultRegion: defaultRegion}
	for i := range resources {
		r := &resources[i]
		r.Name = resolver.Resolve(r.Name)
		r.Location = resolver.Resolve(r.Location)
		if r.SKU.IsSet() {
			r.SKU = resolver.Resolve(r.SKU)
		}
		for key, value := range r.Properties {
			r.Properties[key] = resolver.Resolve(value)
		}
	}
	return resources
}
