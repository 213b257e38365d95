package pricing

import (
	"context"
	"strconv"
	"strings"
	"unicode"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

var storageSkuNames = map[string]string{
	"Standard_LRS":  "Standard LRS",
	"Standard_GRS":  "Standard GRS",
	"Standard_ZRS":  "Standard ZRS",
	"Standard_GZRS": "Standard GZRS",
	"Premium_LRS":   "Premium LRS",
}

// GetStoragePrices lists every storage meter whose SKU name contains the
// catalog form of the given redundancy SKU.
func (c *Client) GetStoragePrices(ctx context.Context, sku, region string) ([]domain.PriceRecord, error) {
	apiSku, ok := storageSkuNames[sku]
	if !ok {
		apiSku = sku
	}
	filter := NewFilter().
		Eq(FieldServiceName, "Storage").
		Eq(FieldArmRegionName, region).
		Contains(FieldSkuName, apiSku)

	items, err := c.Query(ctx, filter.String(), 50)
	if err != nil {
		return nil, err
	}
	return c.records(items), nil
}

// GetStorageAccountPrice returns the per-GB data stored price, preferring the Hot tier.
func (c *Client) GetStorageAccountPrice(ctx context.Context, sku, region string) (*domain.PriceRecord, error) {
	prices, err := c.GetStoragePrices(ctx, sku, region)
	if err != nil {
		return nil, err
	}

	var fallback *domain.PriceRecord
	for i := range prices {
		p := &prices[i]
		if !strings.Contains(p.MeterName, "Data Stored") || p.UnitPrice <= 0 {
			continue
		}
		if strings.Contains(p.MatchedSKU, "Commitment") || strings.Contains(p.MatchedSKU, "Reserved") {
			continue
		}
		if strings.Contains(p.MeterName, "Hot") || strings.Contains(p.MatchedSKU, "Hot") {
			return p, nil
		}
		if fallback == nil {
			fallback = p
		}
	}
	return fallback, nil
}

// GetContainerRegistryPrice returns the daily registry unit price for a tier.
func (c *Client) GetContainerRegistryPrice(ctx context.Context, tier, region string) (*domain.PriceRecord, error) {
	filter := NewFilter().
		Eq(FieldServiceName, "Container Registry").
		Eq(FieldArmRegionName, region).
		Contains(FieldMeterName, tier+" Registry Unit")

	return c.first(ctx, filter, 10, func(item RetailItem) bool {
		return item.RetailPrice > 0
	})
}

// GetAppServicePlanPrice returns the hourly plan price, preferring Linux plans.
func (c *Client) GetAppServicePlanPrice(ctx context.Context, sku, region string) (*domain.PriceRecord, error) {
	filter := NewFilter().
		Eq(FieldServiceName, "Azure App Service").
		Eq(FieldArmSkuName, sku).
		Eq(FieldArmRegionName, region).
		Eq(FieldPriceType, ConsumptionPriceType)

	items, err := c.Query(ctx, filter.String(), 20)
	if err != nil {
		return nil, err
	}

	var fallback *RetailItem
	for i := range items {
		if items[i].RetailPrice <= 0 {
			continue
		}
		if strings.Contains(items[i].ProductName, "Linux") {
			record := items[i].toRecord(c.currency)
			return &record, nil
		}
		if fallback == nil && !strings.Contains(items[i].ProductName, "Windows") {
			fallback = &items[i]
		}
	}
	if fallback == nil && len(items) > 0 {
		fallback = &items[0]
	}
	if fallback == nil {
		return nil, nil
	}
	record := fallback.toRecord(c.currency)
	return &record, nil
}

// GetStaticWebAppPrice returns the plan price for a static site tier, ignoring bandwidth meters.
func (c *Client) GetStaticWebAppPrice(ctx context.Context, tier, region string) (*domain.PriceRecord, error) {
	filter := NewFilter().
		Eq(FieldServiceName, "Azure Static Web Apps").
		Eq(FieldArmRegionName, region).
		Contains(FieldSkuName, tier)

	return c.first(ctx, filter, 20, func(item RetailItem) bool {
		return item.RetailPrice > 0 &&
			!strings.Contains(item.MeterName, "Bandwidth") &&
			!strings.Contains(item.MeterName, "Data Transfer")
	})
}

// GetLogAnalyticsPrice returns the pay-as-you-go per-GB ingestion price.
func (c *Client) GetLogAnalyticsPrice(ctx context.Context, region string) (*domain.PriceRecord, error) {
	filter := NewFilter().
		Eq(FieldServiceName, "Log Analytics").
		Eq(FieldArmRegionName, region).
		Contains(FieldMeterName, "Data Ingestion")

	items, err := c.Query(ctx, filter.String(), 5)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if strings.Contains(item.SkuName, "Pay-as-you-go") {
			record := item.toRecord(c.currency)
			return &record, nil
		}
	}
	for _, item := range items {
		if strings.Contains(item.MeterName, "Data Ingestion") && !strings.Contains(item.SkuName, "Commitment") {
			record := item.toRecord(c.currency)
			return &record, nil
		}
	}
	return nil, nil
}

// GetFunctionAppPrices returns consumption-plan execution and duration prices.
func (c *Client) GetFunctionAppPrices(ctx context.Context, region string) (*FunctionRates, error) {
	filter := NewFilter().
		Eq(FieldServiceName, "Functions").
		Eq(FieldArmRegionName, region)

	items, err := c.Query(ctx, filter.String(), 50)
	if err != nil {
		return nil, err
	}

	rates := &FunctionRates{}
	for _, item := range items {
		if item.RetailPrice <= 0 || strings.Contains(item.SkuName, "Premium") {
			continue
		}
		switch {
		case rates.ExecutionPerMillion == 0 && strings.Contains(item.MeterName, "Total Executions"):
			rates.ExecutionPerMillion = item.RetailPrice * 1_000_000 / unitQuantity(item.UnitOfMeasure)
		case rates.GBSecond == 0 && strings.Contains(item.MeterName, "Execution Time"):
			rates.GBSecond = item.RetailPrice / unitQuantity(item.UnitOfMeasure)
		}
	}
	return rates, nil
}

// GetContainerAppsRates returns active-usage consumption rates converted to per-second.
func (c *Client) GetContainerAppsRates(ctx context.Context, region string) (*ConsumptionRates, error) {
	vcpu, err := c.consumptionRate(ctx, region, "vCPU")
	if err != nil {
		return nil, err
	}
	memory, err := c.consumptionRate(ctx, region, "Memory")
	if err != nil {
		return nil, err
	}
	return &ConsumptionRates{VCPUPerSecond: vcpu, MemoryPerGiBSecond: memory}, nil
}

func (c *Client) consumptionRate(ctx context.Context, region, meter string) (float64, error) {
	filter := NewFilter().
		Eq(FieldServiceName, "Azure Container Apps").
		Eq(FieldArmRegionName, region).
		Contains(FieldMeterName, meter).
		Contains(FieldSkuName, "Consumption")

	items, err := c.Query(ctx, filter.String(), 10)
	if err != nil {
		return 0, err
	}
	for _, item := range items {
		if !strings.Contains(item.MeterName, meter) ||
			strings.Contains(item.MeterName, "Idle") ||
			strings.Contains(item.SkuName, "Spot") {
			continue
		}
		switch {
		case strings.Contains(item.UnitOfMeasure, "Hour"):
			return item.RetailPrice / 3600, nil
		case strings.Contains(item.UnitOfMeasure, "Second"):
			return item.RetailPrice, nil
		}
		return 0, nil
	}
	return 0, nil
}

func (c *Client) first(ctx context.Context, filter *Filter, maxResults int, accept func(RetailItem) bool) (*domain.PriceRecord, error) {
	items, err := c.Query(ctx, filter.String(), maxResults)
	if err != nil {
		return nil, err
	}
	for _, item := range items {
		if accept(item) {
			record := item.toRecord(c.currency)
			return &record, nil
		}
	}
	return nil, nil
}

// unitQuantity reads the leading quantity of a unit tag such as "10",
// "1 GB Second" or "1M"; it defaults to 1.
func unitQuantity(unit string) float64 {
	unit = strings.TrimSpace(unit)
	end := 0
	for end < len(unit) && (unicode.IsDigit(rune(unit[end])) || unit[end] == '.') {
		end++
	}
	if end == 0 {
		return 1
	}
	qty, err := strconv.ParseFloat(unit[:end], 64)
	if err != nil || qty <= 0 {
		return 1
	}
	suffix, _, _ := strings.Cut(strings.TrimSpace(unit[end:]), " ")
	switch suffix {
	case "K":
		qty *= 1_000
	case "M":
		qty *= 1_000_000
	}
	return qty
}
