package adapters

import (
	"fmt"
	"slices"

	"github.com/de-tools/iac-cost/pkg/models/api"
	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/de-tools/iac-cost/pkg/models/store"
	"github.com/goccy/go-json"
)

func MapDomainReportToStore(report *domain.CostReport) (*store.Report, error) {
	payload, err := json.Marshal(report)
	if err != nil {
		return nil, fmt.Errorf("marshal report: %w", err)
	}

	items := make([]store.LineItem, 0, len(report.ResourceCosts))
	for _, rc := range report.ResourceCosts {
		items = append(items, store.LineItem{
			ReportID:     report.ID,
			ResourceName: rc.ResourceName,
			ResourceType: rc.ResourceType,
			SKU:          rc.SKU,
			Location:     rc.Location,
			Count:        rc.Count,
			Monthly:      rc.MonthlyCost,
		})
	}

	return &store.Report{
		ID:            report.ID,
		Template:      report.TemplatePath,
		Region:        report.Region,
		Currency:      report.Currency,
		GeneratedAt:   report.GeneratedAt,
		TotalMonthly:  report.TotalMonthlyCost,
		TotalYearly:   report.TotalYearlyCost,
		ResourceCount: report.ResourceCount,
		Payload:       payload,
		Items:         items,
	}, nil
}

// MapStoreReportToDomain restores the archived payload. The denormalized
// columns are not consulted.
func MapStoreReportToDomain(report *store.Report) (*domain.CostReport, error) {
	var out domain.CostReport
	if err := json.Unmarshal(report.Payload, &out); err != nil {
		return nil, fmt.Errorf("unmarshal report %s: %w", report.ID, err)
	}
	return &out, nil
}

func MapDomainReportToApi(report *domain.CostReport) api.Estimate {
	resources := make([]api.LineItem, 0, len(report.ResourceCosts))
	for _, rc := range report.SortedByCost() {
		resources = append(resources, api.LineItem{
			Name:               rc.ResourceName,
			Type:               rc.ResourceType,
			SKU:                rc.SKU,
			Location:           rc.Location,
			Count:              rc.Count,
			MonthlyCost:        rc.TotalMonthly(),
			YearlyCost:         rc.TotalYearly(),
			Notes:              nonNil(rc.Notes),
			Reserved1YrMonthly: rc.Reserved1YrMonthly,
			Reserved3YrMonthly: rc.Reserved3YrMonthly,
		})
	}

	return api.Estimate{
		ID:              report.ID,
		Template:        report.TemplatePath,
		Region:          report.Region,
		Currency:        report.Currency,
		GeneratedAt:     report.GeneratedAt,
		TotalMonthly:    report.TotalMonthlyCost,
		TotalYearly:     report.TotalYearlyCost,
		ResourceCount:   report.ResourceCount,
		Resources:       resources,
		Recommendations: nonNil(report.Recommendations),
		Warnings:        nonNil(report.Warnings),
		Unsupported:     nonNil(report.UnsupportedResources),
	}
}

func MapStoreSummaryToApi(summary store.ReportSummary) api.EstimateSummary {
	return api.EstimateSummary{
		ID:            summary.ID,
		Template:      summary.Template,
		Region:        summary.Region,
		Currency:      summary.Currency,
		GeneratedAt:   summary.GeneratedAt,
		TotalMonthly:  summary.TotalMonthly,
		ResourceCount: summary.ResourceCount,
	}
}

func MapDomainPriceToApi(price *domain.PriceRecord) api.Price {
	return api.Price{
		Service:       price.ServiceName,
		Product:       price.ProductName,
		SKU:           price.MatchedSKU,
		Meter:         price.MeterName,
		Region:        price.Region,
		UnitPrice:     price.UnitPrice,
		UnitOfMeasure: price.UnitOfMeasure,
		Currency:      price.Currency,
		MonthlyCost:   price.MonthlyCost(),
	}
}

func nonNil(items []string) []string {
	if items == nil {
		return []string{}
	}
	return slices.Clone(items)
}
