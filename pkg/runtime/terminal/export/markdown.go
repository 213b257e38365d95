package export

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// money renders 1234.5 as "$1,234.50".
func money(v float64) string {
	return printer.Sprintf("$%.2f", v)
}

// shortType keeps the last segment of a resource type.
func shortType(resourceType string) string {
	return resourceType[strings.LastIndex(resourceType, "/")+1:]
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func countSuffix(count int) string {
	if count > 1 {
		return fmt.Sprintf(" (x%d)", count)
	}
	return ""
}

var funcMap = template.FuncMap{
	"money":       money,
	"shortType":   shortType,
	"orDash":      orDash,
	"countSuffix": countSuffix,
	"join":        strings.Join,
	"timestamp":   timestamp,
}

const reportTemplate = `# Azure Cost Estimation Report

**Template:** ` + "`{{.TemplatePath}}`" + `
**Region:** {{.Region}}
**Generated:** {{timestamp .GeneratedAt}}

---

## Summary

| Metric | Value |
|--------|-------|
| **Total Monthly Cost** | {{money .TotalMonthlyCost}} |
| **Total Yearly Cost** | {{money .TotalYearlyCost}} |
| **Resources Analyzed** | {{.ResourceCount}} |

---

## Resource Breakdown

| Resource | Type | SKU | Monthly Cost | Notes |
|----------|------|-----|-------------|-------|
{{range .SortedByCost}}| {{.ResourceName}}{{countSuffix .Count}} | {{shortType .ResourceType}} | {{orDash .SKU}} | {{money .TotalMonthly}} | {{join .Notes ", "}} |
{{end}}
---
{{if .Recommendations}}
## Cost Optimization Opportunities

{{range .Recommendations}}- {{.}}
{{end}}
---
{{end}}{{if .Warnings}}
## Warnings

{{range .Warnings}}- {{.}}
{{end}}
---
{{end}}{{if .UnsupportedResources}}
## Unsupported Resources (not included in estimate)

{{range .UnsupportedResources}}- {{.}}
{{end}}
---
{{end}}
## Assumptions

- Pricing based on Pay-As-You-Go rates
- 730 hours per month for compute resources
- Storage costs exclude egress and transaction costs
- Costs are estimates and may vary based on actual usage

---

*Generated by iac-cost*
`

const comparisonTemplate = `# Region Comparison

**Template:** ` + "`{{.TemplatePath}}`" + `

| Region | Monthly Cost | Yearly Cost |
|--------|-------------|-------------|
{{range .Estimates}}| {{.Region}} | {{money .Report.TotalMonthlyCost}} | {{money .Report.TotalYearlyCost}} |
{{end}}{{with .Cheapest}}
Cheapest region: {{.Region}} ({{money .Report.TotalMonthlyCost}}/month)
{{end}}`

var (
	reportMarkdown     = template.Must(template.New("report").Funcs(funcMap).Parse(reportTemplate))
	comparisonMarkdown = template.Must(template.New("comparison").Funcs(funcMap).Parse(comparisonTemplate))
)

func writeMarkdown(w io.Writer, report *domain.CostReport) error {
	if err := reportMarkdown.Execute(w, report); err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}
	return nil
}

func writeComparisonMarkdown(w io.Writer, comparison *domain.RegionComparison) error {
	if err := comparisonMarkdown.Execute(w, comparison); err != nil {
		return fmt.Errorf("failed to render comparison: %w", err)
	}
	return nil
}
