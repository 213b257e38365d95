package store

import "time"

// Report is an archived estimate. Payload holds the full report as JSON;
// the remaining columns are denormalized for listing.
type Report struct {
	ID            string
	Template      string
	Region        string
	Currency      string
	GeneratedAt   time.Time
	TotalMonthly  float64
	TotalYearly   float64
	ResourceCount int
	Payload       []byte
	Items         []LineItem
}

type LineItem struct {
	ReportID     string
	ResourceName string
	ResourceType string
	SKU          string
	Location     string
	Count        int
	Monthly      float64
}

type ReportSummary struct {
	ID            string
	Template      string
	Region        string
	Currency      string
	GeneratedAt   time.Time
	TotalMonthly  float64
	ResourceCount int
}
