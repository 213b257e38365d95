package pricing

import (
	"github.com/de-tools/iac-cost/pkg/models/domain"
)

// retailPage is one page of the retail prices API response.
type retailPage struct {
	BillingCurrency string       `json:"BillingCurrency"`
	Items           []RetailItem `json:"Items"`
	NextPageLink    string       `json:"NextPageLink"`
	Count           int          `json:"Count"`
}

// RetailItem mirrors a single catalog entry.
type RetailItem struct {
	CurrencyCode         string  `json:"currencyCode"`
	TierMinimumUnits     float64 `json:"tierMinimumUnits"`
	RetailPrice          float64 `json:"retailPrice"`
	UnitPrice            float64 `json:"unitPrice"`
	ArmRegionName        string  `json:"armRegionName"`
	Location             string  `json:"location"`
	MeterID              string  `json:"meterId"`
	MeterName            string  `json:"meterName"`
	ProductID            string  `json:"productId"`
	ProductName          string  `json:"productName"`
	SkuID                string  `json:"skuId"`
	SkuName              string  `json:"skuName"`
	ArmSkuName           string  `json:"armSkuName"`
	ServiceName          string  `json:"serviceName"`
	ServiceFamily        string  `json:"serviceFamily"`
	UnitOfMeasure        string  `json:"unitOfMeasure"`
	Type                 string  `json:"type"`
	ReservationTerm      string  `json:"reservationTerm"`
	IsPrimaryMeterRegion bool    `json:"isPrimaryMeterRegion"`
}

func (i RetailItem) toRecord(currency string) domain.PriceRecord {
	sku := i.ArmSkuName
	if sku == "" {
		sku = i.SkuName
	}
	priceType := i.Type
	if priceType == "" {
		priceType = ConsumptionPriceType
	}
	return domain.PriceRecord{
		UnitPrice:       i.RetailPrice,
		UnitOfMeasure:   i.UnitOfMeasure,
		MatchedSKU:      sku,
		ServiceName:     i.ServiceName,
		ProductName:     i.ProductName,
		Region:          i.ArmRegionName,
		MeterName:       i.MeterName,
		Currency:        currency,
		ReservationTerm: i.ReservationTerm,
		PriceType:       priceType,
	}
}

// FunctionRates are serverless function prices; zero means the catalog had no match.
type FunctionRates struct {
	ExecutionPerMillion float64 `json:"execution_price"`
	GBSecond            float64 `json:"gb_second_price"`
}

// ConsumptionRates are per-second container rates; zero means the catalog had no match.
type ConsumptionRates struct {
	VCPUPerSecond      float64 `json:"vcpu_per_second"`
	MemoryPerGiBSecond float64 `json:"memory_per_gib_second"`
}

// VMEstimate is a quick single-VM price breakdown.
type VMEstimate struct {
	VMSize      string              `json:"vm_size" yaml:"vm_size"`
	Region      string              `json:"region" yaml:"region"`
	OSType      string              `json:"os_type" yaml:"os_type"`
	HourlyCost  float64             `json:"hourly_cost" yaml:"hourly_cost"`
	MonthlyCost float64             `json:"monthly_cost" yaml:"monthly_cost"`
	YearlyCost  float64             `json:"yearly_cost" yaml:"yearly_cost"`
	Unit        string              `json:"unit" yaml:"unit"`
	Product     string              `json:"product" yaml:"product"`
	Savings     *domain.SavingsInfo `json:"reserved_savings" yaml:"reserved_savings"`
}
