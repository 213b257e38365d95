package api

import "time"

type Dialect string

const (
	DialectBicep Dialect = "bicep"
	DialectARM   Dialect = "arm"
)

// EstimateRequest carries an inline template. Parameters are plain values;
// they are wrapped into a deployment parameters document before parsing.
type EstimateRequest struct {
	Name       string         `json:"name,omitempty"`
	Content    string         `json:"content"`
	Dialect    Dialect        `json:"dialect"`
	Region     string         `json:"region,omitempty"`
	Currency   string         `json:"currency,omitempty"`
	Parameters map[string]any `json:"parameters,omitempty"`
}

type LineItem struct {
	Name               string   `json:"name"`
	Type               string   `json:"type"`
	SKU                string   `json:"sku,omitempty"`
	Location           string   `json:"location"`
	Count              int      `json:"count"`
	MonthlyCost        float64  `json:"monthly_cost"`
	YearlyCost         float64  `json:"yearly_cost"`
	Notes              []string `json:"notes"`
	Reserved1YrMonthly *float64 `json:"reserved_1yr_monthly,omitempty"`
	Reserved3YrMonthly *float64 `json:"reserved_3yr_monthly,omitempty"`
}

type Estimate struct {
	ID              string     `json:"id"`
	Template        string     `json:"template"`
	Region          string     `json:"region"`
	Currency        string     `json:"currency"`
	GeneratedAt     time.Time  `json:"generated_at"`
	TotalMonthly    float64    `json:"total_monthly"`
	TotalYearly     float64    `json:"total_yearly"`
	ResourceCount   int        `json:"resource_count"`
	Resources       []LineItem `json:"resources"`
	Recommendations []string   `json:"recommendations"`
	Warnings        []string   `json:"warnings"`
	Unsupported     []string   `json:"unsupported"`
}

type EstimateSummary struct {
	ID            string    `json:"id"`
	Template      string    `json:"template"`
	Region        string    `json:"region"`
	Currency      string    `json:"currency"`
	GeneratedAt   time.Time `json:"generated_at"`
	TotalMonthly  float64   `json:"total_monthly"`
	ResourceCount int       `json:"resource_count"`
}

type Price struct {
	Service       string  `json:"service"`
	Product       string  `json:"product"`
	SKU           string  `json:"sku"`
	Meter         string  `json:"meter"`
	Region        string  `json:"region"`
	UnitPrice     float64 `json:"unit_price"`
	UnitOfMeasure string  `json:"unit_of_measure"`
	Currency      string  `json:"currency"`
	MonthlyCost   float64 `json:"monthly_cost"`
}
