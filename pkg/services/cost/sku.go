package cost

import (
	"context"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
)

const vmService = "Virtual Machines"

func typeContains(parts ...string) func(domain.ResourceDescriptor) bool {
	return func(r domain.ResourceDescriptor) bool {
		for _, part := range parts {
			if !strings.Contains(r.ResourceType, part) {
				return false
			}
		}
		return true
	}
}

func functionSite(r domain.ResourceDescriptor) bool {
	return strings.Contains(r.ResourceType, "sites") && r.Properties.Get("isFunction").Bool()
}

// skuExclusions are types priced by a dedicated model even when they carry a SKU.
var skuExclusions = []func(domain.ResourceDescriptor) bool{
	typeContains("containerApps"),
	typeContains("managedEnvironments"),
	typeContains("workspaces", "OperationalInsights"),
	typeContains("staticSites"),
	functionSite,
	typeContains("jobs", "App"),
	typeContains("registries"),
	typeContains("components", "Insights"),
	typeContains("storageAccounts"),
	typeContains("serverfarms"),
}

// skuKey returns the catalog SKU to look up, or "" when the resource is
// priced by a no-SKU model.
func skuKey(r domain.ResourceDescriptor) string {
	for _, excluded := range skuExclusions {
		if excluded(r) {
			return ""
		}
	}
	if sku := r.SKU.String(); sku != "" {
		return sku
	}
	for _, key := range []string{"vmSize", "nodeVmSize"} {
		if v := r.Properties.Get(key); v.IsSet() {
			return v.String()
		}
	}
	return ""
}

var planTiers = map[string]string{
	"Free":      "F1",
	"Shared":    "D1",
	"Basic":     "B1",
	"Standard":  "S1",
	"Premium":   "P1V2",
	"PremiumV2": "P1V2",
	"PremiumV3": "P1V3",
}

// lookup is the cached primary price lookup. VMs are matched on osType,
// Linux unless declared otherwise. Misses are not cached.
func (c *Calculator) lookup(ctx context.Context, r domain.ResourceDescriptor, service, sku, location string) (*domain.PriceRecord, error) {
	key := service + "|" + sku + "|" + location
	if price, ok := c.cache[key]; ok {
		cacheHits.Inc()
		return price, nil
	}

	var price *domain.PriceRecord
	if service == vmService {
		prices, err := c.prices.GetVMPrices(ctx, sku, location, true, true)
		if err != nil {
			return nil, err
		}
		osType := r.Properties.Get("osType").String()
		if osType == "" {
			osType = "Linux"
		}
		price = pricing.MatchOS(prices, osType)
	} else {
		var err error
		price, err = c.prices.GetPrice(ctx, service, sku, location, pricing.ConsumptionPriceType)
		if err != nil {
			return nil, err
		}
	}

	if price != nil {
		c.cache[key] = price
	}
	return price, nil
}

// alternative is the second lookup for hosting plans and storage accounts
// when their dedicated lookup finds nothing: plans retry under their tier's
// entry SKU and storage under the generic data stored meter.
func (c *Calculator) alternative(ctx context.Context, r domain.ResourceDescriptor, location string) (*domain.PriceRecord, error) {
	switch {
	case strings.Contains(r.ResourceType, "serverfarms"):
		sku := text(r.SKU, text(r.Tier, ""))
		if sku == "" {
			return nil, nil
		}
		if mapped, ok := planTiers[sku]; ok {
			sku = mapped
		}
		return c.prices.GetPrice(ctx, "Azure App Service", sku, location, pricing.ConsumptionPriceType)
	case strings.Contains(r.ResourceType, "storageAccounts"):
		return c.prices.GetPrice(ctx, "Storage", "Hot GRS Data Stored", location, pricing.ConsumptionPriceType)
	}
	return nil, nil
}
