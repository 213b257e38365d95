package domain

import (
	"sort"
	"time"
)

// CostReport is the result of one estimation run.
type CostReport struct {
	ID                   string         `json:"id" yaml:"id"`
	TemplatePath         string         `json:"template" yaml:"template"`
	Region               string         `json:"region" yaml:"region"`
	Currency             string         `json:"currency" yaml:"currency"`
	GeneratedAt          time.Time      `json:"generated_at" yaml:"generated_at"`
	TotalMonthlyCost     float64        `json:"total_monthly_cost" yaml:"total_monthly_cost"`
	TotalYearlyCost      float64        `json:"total_yearly_cost" yaml:"total_yearly_cost"`
	ResourceCount        int            `json:"resource_count" yaml:"resource_count"`
	ResourceCosts        []ResourceCost `json:"resources" yaml:"resources"`
	Recommendations      []string       `json:"recommendations" yaml:"recommendations"`
	Warnings             []string       `json:"warnings" yaml:"warnings"`
	UnsupportedResources []string       `json:"unsupported_resources" yaml:"unsupported_resources"`
}

// SortedByCost returns the line items ordered by descending total monthly cost.
func (r *CostReport) SortedByCost() []ResourceCost {
	sorted := make([]ResourceCost, len(r.ResourceCosts))
	copy(sorted, r.ResourceCosts)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].TotalMonthly() > sorted[j].TotalMonthly()
	})
	return sorted
}

type RegionEstimate struct {
	Region string      `json:"region" yaml:"region"`
	Report *CostReport `json:"report" yaml:"report"`
}

// RegionComparison ranks full estimates of the same template across regions,
// cheapest first.
type RegionComparison struct {
	TemplatePath string           `json:"template" yaml:"template"`
	Estimates    []RegionEstimate `json:"estimates" yaml:"estimates"`
}

func (c *RegionComparison) Cheapest() *RegionEstimate {
	if len(c.Estimates) == 0 {
		return nil
	}
	return &c.Estimates[0]
}

// RegionPrice is a single-SKU price in one region; Price is nil when the
// catalog had no match.
type RegionPrice struct {
	Region string       `json:"region" yaml:"region"`
	Price  *PriceRecord `json:"price" yaml:"price"`
}
