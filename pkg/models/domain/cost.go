package domain

import "strings"

const (
	HoursPerMonth = 730
	HoursPerYear  = 8760
)

// PriceRecord is one catalog entry as returned by the retail price lookup.
type PriceRecord struct {
	UnitPrice       float64 `json:"retail_price" yaml:"retail_price"`
	UnitOfMeasure   string  `json:"unit_of_measure" yaml:"unit_of_measure"`
	MatchedSKU      string  `json:"sku_name" yaml:"sku_name"`
	ServiceName     string  `json:"service_name" yaml:"service_name"`
	ProductName     string  `json:"product_name" yaml:"product_name"`
	Region          string  `json:"region" yaml:"region"`
	MeterName       string  `json:"meter_name" yaml:"meter_name"`
	Currency        string  `json:"currency" yaml:"currency"`
	ReservationTerm string  `json:"reservation_term,omitempty" yaml:"reservation_term,omitempty"`
	PriceType       string  `json:"price_type" yaml:"price_type"`
}

// MonthlyCost derives a monthly figure from the unit tag. Per-GB and other
// units are returned as-is; callers apply their own quantity.
func (p PriceRecord) MonthlyCost() float64 {
	switch {
	case strings.Contains(p.UnitOfMeasure, "Hour"):
		return p.UnitPrice * HoursPerMonth
	case strings.Contains(p.UnitOfMeasure, "Month"):
		return p.UnitPrice
	case strings.Contains(p.UnitOfMeasure, "GB"):
		return p.UnitPrice
	}
	return p.UnitPrice
}

func (p PriceRecord) YearlyCost() float64 {
	return p.MonthlyCost() * 12
}

// SavingsInfo compares reserved terms against pay-as-you-go.
type SavingsInfo struct {
	PaygMonthly        float64  `json:"payg_monthly" yaml:"payg_monthly"`
	PaygYearly         float64  `json:"payg_yearly" yaml:"payg_yearly"`
	Reserved1YrMonthly *float64 `json:"reserved_1yr_monthly,omitempty" yaml:"reserved_1yr_monthly,omitempty"`
	Reserved1YrYearly  *float64 `json:"reserved_1yr_yearly,omitempty" yaml:"reserved_1yr_yearly,omitempty"`
	Reserved3YrMonthly *float64 `json:"reserved_3yr_monthly,omitempty" yaml:"reserved_3yr_monthly,omitempty"`
	Reserved3YrYearly  *float64 `json:"reserved_3yr_yearly,omitempty" yaml:"reserved_3yr_yearly,omitempty"`
	Savings1YrPercent  *float64 `json:"savings_1yr_percent,omitempty" yaml:"savings_1yr_percent,omitempty"`
	Savings3YrPercent  *float64 `json:"savings_3yr_percent,omitempty" yaml:"savings_3yr_percent,omitempty"`
}

// ResourceCost is one priced line item.
type ResourceCost struct {
	ResourceName       string   `json:"resource_name" yaml:"resource_name"`
	ResourceType       string   `json:"resource_type" yaml:"resource_type"`
	SKU                string   `json:"sku,omitempty" yaml:"sku,omitempty"`
	Location           string   `json:"location" yaml:"location"`
	HourlyCost         float64  `json:"hourly_cost" yaml:"hourly_cost"`
	MonthlyCost        float64  `json:"monthly_cost" yaml:"monthly_cost"`
	YearlyCost         float64  `json:"yearly_cost" yaml:"yearly_cost"`
	Count              int      `json:"count" yaml:"count"`
	Notes              []string `json:"notes" yaml:"notes"`
	Reserved1YrMonthly *float64 `json:"reserved_1yr_monthly,omitempty" yaml:"reserved_1yr_monthly,omitempty"`
	Reserved3YrMonthly *float64 `json:"reserved_3yr_monthly,omitempty" yaml:"reserved_3yr_monthly,omitempty"`
}

func (c ResourceCost) TotalMonthly() float64 {
	return c.MonthlyCost * float64(c.Count)
}

func (c ResourceCost) TotalYearly() float64 {
	return c.YearlyCost * float64(c.Count)
}
