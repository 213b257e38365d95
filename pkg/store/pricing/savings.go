package pricing

import (
	"context"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

const (
	OneYearTerm    = "1 Year"
	ThreeYearsTerm = "3 Years"
)

// GetReservedSavings compares 1-year and 3-year reservations against the
// pay-as-you-go price. It returns nil when there is no pay-as-you-go price.
// Reservation prices are term totals: a 1-year price covers 12 months and a
// 3-year price covers 36.
func (c *Client) GetReservedSavings(ctx context.Context, service, sku, region string) (*domain.SavingsInfo, error) {
	payg, err := c.GetPrice(ctx, service, sku, region, ConsumptionPriceType)
	if err != nil {
		return nil, err
	}
	if payg == nil {
		return nil, nil
	}

	oneYear, err := c.reservation(ctx, service, sku, region, OneYearTerm)
	if err != nil {
		return nil, err
	}
	threeYears, err := c.reservation(ctx, service, sku, region, ThreeYearsTerm)
	if err != nil {
		return nil, err
	}

	return ComputeSavings(*payg, oneYear, threeYears), nil
}

func (c *Client) reservation(ctx context.Context, service, sku, region, term string) (*RetailItem, error) {
	filter := NewFilter().
		Eq(FieldServiceName, service).
		Eq(FieldArmSkuName, sku).
		Eq(FieldArmRegionName, region).
		Eq(FieldReservationTerm, term)

	items, err := c.Query(ctx, filter.String(), 5)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	return &items[0], nil
}

// ComputeSavings derives reserved monthly/yearly figures from term totals.
func ComputeSavings(payg domain.PriceRecord, oneYear, threeYears *RetailItem) *domain.SavingsInfo {
	savings := &domain.SavingsInfo{
		PaygMonthly: payg.MonthlyCost(),
		PaygYearly:  payg.YearlyCost(),
	}

	if oneYear != nil {
		yearly := oneYear.RetailPrice
		monthly := yearly / 12
		pct := savingsPercent(yearly, savings.PaygYearly)
		savings.Reserved1YrYearly = &yearly
		savings.Reserved1YrMonthly = &monthly
		savings.Savings1YrPercent = &pct
	}

	if threeYears != nil {
		total := threeYears.RetailPrice
		yearly := total / 3
		monthly := total / 36
		pct := savingsPercent(yearly, savings.PaygYearly)
		savings.Reserved3YrYearly = &yearly
		savings.Reserved3YrMonthly = &monthly
		savings.Savings3YrPercent = &pct
	}

	return savings
}

func savingsPercent(reservedYearly, paygYearly float64) float64 {
	if paygYearly <= 0 {
		return 0
	}
	return (1 - reservedYearly/paygYearly) * 100
}
