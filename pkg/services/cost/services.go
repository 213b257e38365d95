package cost

import (
	"context"
	"fmt"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

func (c *Calculator) staticSiteCost(ctx context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	sku := text(r.Properties.Get("sku"), "Free")
	tier := r.Properties.Get("tier").String()
	if tier == "" {
		tier = sku
	}

	if !strings.Contains(strings.ToLower(sku), "standard") && !strings.Contains(strings.ToLower(tier), "standard") {
		return lineItem(r, "Free", location, 0, "250MB storage", "2 custom domains", "3 staging envs", "No SLA")
	}

	monthly, source := c.rates.StaticSiteStandard, defaultPricing
	price, err := c.prices.GetStaticWebAppPrice(ctx, "Standard", location)
	if err != nil {
		catalogUnavailable(ctx, "static web apps", err)
	} else if price != nil && price.UnitPrice > 0 {
		monthly, source = monthlyFromUnit(price), apiPricing
	}
	return lineItem(r, "Standard", location, monthly,
		"500MB storage", "5 custom domains", "10 staging envs", "SLA included", source)
}

type registryTier struct {
	name  string
	notes []string
}

// registryTiers is matched by substring of the lower-cased SKU, in order.
var registryTiers = []registryTier{
	{name: "Premium", notes: []string{"500GB included storage", "Private endpoints", "Geo-replication"}},
	{name: "Standard", notes: []string{"100GB included storage", "Geo-replication available"}},
}

var basicRegistry = registryTier{name: "Basic", notes: []string{"10GB included storage", "Development workloads"}}

func (c *Calculator) registryCost(ctx context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	sku := strings.ToLower(text(r.Properties.Get("sku"), "Basic"))
	tier := basicRegistry
	for _, t := range registryTiers {
		if strings.Contains(sku, strings.ToLower(t.name)) {
			tier = t
			break
		}
	}

	daily, _ := lookupRate(c.rates.RegistryDaily, tier.name)
	monthly, source := daily*30, defaultPricing
	price, err := c.prices.GetContainerRegistryPrice(ctx, tier.name, location)
	if err != nil {
		catalogUnavailable(ctx, "container registry", err)
	} else if price != nil && price.UnitPrice > 0 {
		monthly, source = price.UnitPrice, apiPricing
		if strings.Contains(price.UnitOfMeasure, "Day") {
			monthly = price.UnitPrice * 30
		}
	}

	notes := append(append([]string{}, tier.notes...), source)
	return lineItem(r, tier.name, location, monthly, notes...)
}

// storageCost prices a nominal capacity; transactions and egress are not estimated.
func (c *Calculator) storageCost(ctx context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	sku := text(r.SKU, "Standard_LRS")

	tierNote := "Hot tier"
	if accessTier := r.Properties.Get("accessTier").String(); accessTier != "" {
		tierNote = accessTier + " tier"
	}

	perGB, source := 0.0, defaultPricing
	price, err := c.prices.GetStorageAccountPrice(ctx, sku, location)
	if err == nil && (price == nil || price.UnitPrice <= 0) {
		price, err = c.alternative(ctx, r, location)
	}
	if err != nil {
		catalogUnavailable(ctx, "storage", err)
	} else if price != nil && price.UnitPrice > 0 {
		perGB, source = price.UnitPrice, apiPricing
	}
	if source == defaultPricing {
		var ok bool
		if perGB, ok = lookupRate(c.rates.StoragePerGB, sku); !ok {
			perGB = c.rates.StorageDefaultPerGB
		}
	}

	return lineItem(r, sku, location, c.rates.StorageGB*perGB,
		fmt.Sprintf("Est. %gGB storage", c.rates.StorageGB),
		tierNote,
		"Excludes transactions/egress",
		source,
	)
}

type planPrice struct {
	monthly     float64
	description string
}

var planPrices = map[string]planPrice{
	"F1":      {0, "Shared compute, 1GB, 60min/day"},
	"D1":      {10, "Shared compute, 1GB, 240min/day"},
	"B1":      {55, "1 core, 1.75GB RAM"},
	"B2":      {109, "2 cores, 3.5GB RAM"},
	"B3":      {219, "4 cores, 7GB RAM"},
	"S1":      {73, "1 core, 1.75GB RAM, auto-scale"},
	"S2":      {146, "2 cores, 3.5GB RAM, auto-scale"},
	"S3":      {292, "4 cores, 7GB RAM, auto-scale"},
	"P1V2":    {81, "1 core, 3.5GB RAM"},
	"P2V2":    {162, "2 cores, 7GB RAM"},
	"P3V2":    {324, "4 cores, 14GB RAM"},
	"P1V3":    {138, "2 cores, 8GB RAM"},
	"P2V3":    {276, "4 cores, 16GB RAM"},
	"P3V3":    {552, "8 cores, 32GB RAM"},
	"Y1":      {0, "Pay per execution"},
	"Dynamic": {0, "Pay per execution"},
}

var unknownPlan = planPrice{55, "Default B1 estimate"}

// consumptionPlans bill per execution on the function apps, so they are
// never looked up.
var consumptionPlans = map[string]bool{"Y1": true, "Dynamic": true}

func (c *Calculator) servicePlanCost(ctx context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	sku := text(r.SKU, "B1")
	plan, ok := planPrices[sku]
	if !ok {
		plan = unknownPlan
	}

	monthly, source := plan.monthly, defaultPricing
	if sku != "F1" && !consumptionPlans[sku] {
		price, err := c.prices.GetAppServicePlanPrice(ctx, sku, location)
		if err == nil && (price == nil || price.UnitPrice <= 0) {
			price, err = c.alternative(ctx, r, location)
		}
		if err != nil {
			catalogUnavailable(ctx, "app service plan", err)
		} else if price != nil && price.UnitPrice > 0 {
			monthly, source = monthlyFromUnit(price), apiPricing
		}
	}

	notes := []string{plan.description, source}
	if consumptionPlans[sku] {
		notes = []string{plan.description, "Function Apps billed separately per execution", source}
	}
	return lineItem(r, sku, location, monthly, notes...)
}

// logWorkspaceCost charges every ingested GB plus retention beyond the free
// period, for a nominal monthly volume.
func (c *Calculator) logWorkspaceCost(ctx context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	sku := text(r.Properties.Get("sku"), "PerGB2018")
	retention := integer(r.Properties.Get("retentionInDays"), 30)

	ingestion := c.rates.LogIngestionPerGB
	price, err := c.prices.GetLogAnalyticsPrice(ctx, location)
	if err != nil {
		catalogUnavailable(ctx, "log analytics", err)
	} else if price != nil && price.UnitPrice > 0 {
		ingestion = price.UnitPrice
	}

	gb := c.rates.LogMonthlyGB
	monthly := gb * ingestion
	if extra := retention - c.rates.LogFreeRetention; extra > 0 {
		retained := gb * 30
		monthly += retained * c.rates.LogRetentionPerGB * float64(extra) / 30
	}

	notes := []string{
		fmt.Sprintf("Est. %g GB/month ingestion", gb),
		fmt.Sprintf("%d days retention", retention),
	}
	if retention <= c.rates.LogFreeRetention {
		notes = append(notes, fmt.Sprintf("Retention: free (<=%d days)", c.rates.LogFreeRetention))
	}
	return lineItem(r, sku, location, monthly, notes...)
}

func (c *Calculator) appInsightsCost(ctx context.Context, r domain.ResourceDescriptor, location string) *domain.ResourceCost {
	ingestion, source := c.rates.LogIngestionPerGB, defaultPricing
	price, err := c.prices.GetLogAnalyticsPrice(ctx, location)
	if err != nil {
		catalogUnavailable(ctx, "application insights", err)
	} else if price != nil && price.UnitPrice > 0 {
		ingestion, source = price.UnitPrice, apiPricing
	}

	gb, free := c.rates.LogMonthlyGB, c.rates.TelemetryFreeGB
	monthly := max(0, gb-free) * ingestion

	return lineItem(r, "Pay-as-you-go", location, monthly,
		fmt.Sprintf("Est. %g GB/month", gb),
		fmt.Sprintf("First %gGB free", free),
		"90 days retention free",
		source,
	)
}
