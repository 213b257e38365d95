package bicep

import (
	"regexp"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

const unknownLocation = "unknown"

var declaration = regexp.MustCompile(`resource\s+(\w+)\s+'([^']+)@([^']+)'\s*=\s*\{`)

// Parse locates every `resource <symbol> '<type>@<version>' = {` declaration
// and extracts a descriptor from its block. It is a scanner, not a grammar:
// existing references, conditional and loop declarations do not match and
// are not reported.
func Parse(content string) []domain.ResourceDescriptor {
	resources := make([]domain.ResourceDescriptor, 0)

	for _, m := range declaration.FindAllStringSubmatchIndex(content, -1) {
		symbol := content[m[2]:m[3]]
		resourceType := content[m[4]:m[5]]
		apiVersion := content[m[6]:m[7]]
		line := strings.Count(content[:m[0]], "\n") + 1

		block := ExtractBlock(content, m[1]-1)
		resources = append(resources, parseBlock(block, symbol, resourceType, apiVersion, line))
	}
	return resources
}

func parseBlock(block, symbol, resourceType, apiVersion string, line int) domain.ResourceDescriptor {
	r := domain.NewResourceDescriptor(resourceType)
	r.SymbolicName = symbol
	r.APIVersion = apiVersion
	r.SourceLine = line

	r.Name = extractProperty(block, "name").Or(domain.Resolved(symbol))
	r.Location = extractProperty(block, "location").Or(domain.Resolved(unknownLocation))

	if sku := extractNested(block, "sku"); sku != "" {
		r.SKU = extractProperty(sku, "name")
		r.Tier = extractProperty(sku, "tier")
	}
	r.Kind = extractProperty(block, "kind")
	r.Properties = extractProperties(block, resourceType)
	return r
}
