package cost

import (
	"context"
	"math"
	"strconv"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	apiPricing     = "(API pricing)"
	defaultPricing = "(Default pricing)"
)

type noSKUHandler func(c *Calculator, ctx context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost

// noSKURules is evaluated in order, first match wins. A resource no rule
// matches is unsupported.
var noSKURules = []struct {
	matches func(domain.ResourceDescriptor) bool
	cost    noSKUHandler
}{
	{typeContains("containerApps"), (*Calculator).containerAppCost},
	{typeContains("managedEnvironments"), (*Calculator).environmentCost},
	{typeContains("staticSites"), (*Calculator).staticSiteCost},
	{functionSite, (*Calculator).functionAppCost},
	{typeContains("jobs", "App"), (*Calculator).containerJobCost},
	{typeContains("registries"), (*Calculator).registryCost},
	{typeContains("components", "Insights"), (*Calculator).appInsightsCost},
	{typeContains("storageAccounts"), (*Calculator).storageCost},
	{typeContains("serverfarms"), (*Calculator).servicePlanCost},
	{typeContains("workspaces", "OperationalInsights"), (*Calculator).logWorkspaceCost},
	{typeContains("virtualNetworks"), noCost("Virtual Network - no direct cost (egress charges may apply)")},
	{typeContains("networkInterfaces"), noCost("Network Interface - no direct cost")},
	{typeContains("networkSecurityGroups"), noCost("NSG - no direct cost")},
}

func (c *Calculator) costWithoutSKU(ctx context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	for _, rule := range noSKURules {
		if rule.matches(r) {
			return rule.cost(c, ctx, r, location)
		}
	}
	return nil
}

func noCost(note string) noSKUHandler {
	return func(_ *Calculator, _ context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
		return lineItem(r, "", location, 0, note)
	}
}

// lineItem builds a single-instance cost from a monthly figure.
func lineItem(r domain.ResourceDescriptor, sku, location string, monthly float64, notes ...string) *domain.ResourceCost {
	return &domain.ResourceCost{
		ResourceName: r.Name.String(),
		ResourceType: r.ResourceType,
		SKU:          sku,
		Location:     location,
		HourlyCost:   monthly / domain.HoursPerMonth,
		MonthlyCost:  monthly,
		YearlyCost:   monthly * 12,
		Count:        1,
		Notes:        append([]string{}, notes...),
	}
}

// catalogUnavailable records a swallowed lookup failure; the caller goes on
// with its static rate.
func catalogUnavailable(ctx context.Context, lookup string, err error) {
	zerolog.Ctx(ctx).Debug().Err(err).Str("lookup", lookup).Msg("using default pricing")
}

// monthlyFromUnit converts hourly catalog prices to monthly and takes any
// other unit as already monthly.
func monthlyFromUnit(price *domain.PriceRecord) float64 {
	if strings.Contains(price.UnitOfMeasure, "Hour") {
		return price.UnitPrice * domain.HoursPerMonth
	}
	return price.UnitPrice
}

// text reads a string property; unresolved and empty values give fallback.
func text(v domain.Value, fallback string) string {
	if !v.IsResolved() {
		return fallback
	}
	if s := v.String(); s != "" {
		return s
	}
	return fallback
}

func quantity(v domain.Value, fallback float64) float64 {
	if !v.IsResolved() {
		return fallback
	}
	if f, ok := v.Float(); ok {
		return f
	}
	return fallback
}

func integer(v domain.Value, fallback int) int {
	if !v.IsResolved() {
		return fallback
	}
	if n, ok := v.Int(); ok {
		return n
	}
	if f, ok := v.Float(); ok {
		return int(f)
	}
	return fallback
}

// memoryGiB reads sizes such as "2Gi", "512Mi" or a bare number of GiB.
func memoryGiB(v domain.Value, fallback float64) float64 {
	if !v.IsResolved() {
		return fallback
	}
	s := strings.TrimSpace(v.String())
	divisor := 1.0
	switch {
	case strings.HasSuffix(s, "Gi"):
		s = strings.TrimSuffix(s, "Gi")
	case strings.HasSuffix(s, "Mi"):
		s = strings.TrimSuffix(s, "Mi")
		divisor = 1024
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f / divisor
}

// decimal formats integral values with one decimal place, so 1 renders as "1.0".
func decimal(f float64) string {
	if f == math.Trunc(f) && math.Abs(f) < 1e15 {
		return strconv.FormatFloat(f, 'f', 1, 64)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}
