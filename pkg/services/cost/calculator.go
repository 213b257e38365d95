package cost

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	DefaultRegion   = "eastus"
	DefaultCurrency = pricing.DefaultCurrency
)

// reservedServices are the services for which reserved pricing is attached.
var reservedServices = map[string]bool{
	"Virtual Machines":              true,
	"SQL Database":                  true,
	"Azure Database for PostgreSQL": true,
}

type Options struct {
	Region   string
	Currency string
	// Rates replaces DefaultRates when set.
	Rates   *Rates
	Loaders Registry
}

// Calculator prices templates for one region. It keeps a per-run price
// cache and is not safe for concurrent use.
type Calculator struct {
	prices   pricing.Store
	region   string
	currency string
	rates    Rates
	loaders  Registry
	cache    map[string]*domain.PriceRecord
	now      func() time.Time
}

func NewCalculator(prices pricing.Store, opts Options) *Calculator {
	if opts.Region == "" {
		opts.Region = DefaultRegion
	}
	if opts.Currency == "" {
		opts.Currency = DefaultCurrency
	}
	rates := DefaultRates()
	if opts.Rates != nil {
		rates = *opts.Rates
	}
	if opts.Loaders == nil {
		opts.Loaders = DefaultRegistry()
	}

	return &Calculator{
		prices:   prices,
		region:   opts.Region,
		currency: opts.Currency,
		rates:    rates,
		loaders:  opts.Loaders,
		now:      time.Now,
	}
}

func (c *Calculator) Region() string {
	return c.region
}

// EstimateTemplateCost reads a template and an optional parameter file from
// disk and prices every resource. Only input errors are returned; costing
// problems are reported in the report itself.
func (c *Calculator) EstimateTemplateCost(ctx context.Context, templatePath, paramFile string) (*domain.CostReport, error) {
	content, err := os.ReadFile(templatePath)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrTemplateNotFound, templatePath)
		}
		return nil, fmt.Errorf("failed to read template: %w", err)
	}
	if _, err := c.loaders.Lookup(filepath.Ext(templatePath)); err != nil {
		return nil, err
	}

	src := Source{Path: templatePath, Content: content}
	if paramFile != "" {
		params, err := os.ReadFile(paramFile)
		switch {
		case errors.Is(err, fs.ErrNotExist):
			zerolog.Ctx(ctx).Warn().Str("params", paramFile).Msg("parameter file not found, using template defaults")
		case err != nil:
			return nil, fmt.Errorf("failed to read parameter file: %w", err)
		default:
			src.ParamsPath = paramFile
			src.Params = params
		}
	}
	return c.EstimateSource(ctx, src)
}

// EstimateSource prices a template that is already in memory.
func (c *Calculator) EstimateSource(ctx context.Context, src Source) (*domain.CostReport, error) {
	loader, err := c.loaders.Lookup(filepath.Ext(src.Path))
	if err != nil {
		return nil, err
	}
	resources, err := loader(ctx, src, c.region)
	if err != nil {
		return nil, err
	}
	return c.EstimateResources(ctx, src.Path, resources), nil
}

// EstimateResources prices already parsed descriptors. Each resource ends up
// priced, unsupported or warned, never more than one of them.
func (c *Calculator) EstimateResources(ctx context.Context, templatePath string, resources []domain.ResourceDescriptor) *domain.CostReport {
	logger := zerolog.Ctx(ctx).With().Str("region", c.region).Logger()

	c.cache = make(map[string]*domain.PriceRecord)
	defer func() { c.cache = nil }()

	report := &domain.CostReport{
		ID:                   uuid.NewString(),
		TemplatePath:         templatePath,
		Region:               c.region,
		Currency:             c.currency,
		GeneratedAt:          c.now(),
		ResourceCosts:        make([]domain.ResourceCost, 0, len(resources)),
		Recommendations:      []string{},
		Warnings:             []string{},
		UnsupportedResources: []string{},
	}

	for _, r := range resources {
		rc, err := c.resourceCost(ctx, r)
		switch {
		case err != nil:
			logger.Warn().Err(err).Str("resource", r.Name.String()).Msg("failed to price resource")
			report.Warnings = append(report.Warnings, fmt.Sprintf("Error calculating cost for %s: %v", r.Name.String(), err))
			resourcesTotal.WithLabelValues("warned").Inc()
		case rc == nil:
			report.UnsupportedResources = append(report.UnsupportedResources, fmt.Sprintf("%s (%s)", r.ResourceType, r.Name.String()))
			resourcesTotal.WithLabelValues("unsupported").Inc()
		default:
			report.ResourceCosts = append(report.ResourceCosts, *rc)
			report.TotalMonthlyCost += rc.TotalMonthly()
			report.TotalYearlyCost += rc.TotalYearly()
			resourcesTotal.WithLabelValues("priced").Inc()
		}
	}

	report.ResourceCount = len(report.ResourceCosts)
	report.Recommendations = recommendations(report.ResourceCosts, report.TotalMonthlyCost)

	logger.Debug().
		Str("template", templatePath).
		Int("priced", report.ResourceCount).
		Int("unsupported", len(report.UnsupportedResources)).
		Int("warnings", len(report.Warnings)).
		Float64("monthly", report.TotalMonthlyCost).
		Msg("estimate complete")
	return report
}

// location returns the declared location, or the calculator region when it
// is still an expression.
func (c *Calculator) location(r domain.ResourceDescriptor) string {
	if !r.Location.IsResolved() {
		return c.region
	}
	return r.Location.String()
}

func (c *Calculator) resourceCost(ctx context.Context, r domain.ResourceDescriptor) (*domain.ResourceCost, error) {
	location := c.location(r)

	sku := skuKey(r)
	if sku == "" {
		return c.costWithoutSKU(ctx, r, location), nil
	}

	service := r.ServiceName()
	price, err := c.lookup(ctx, r, service, sku, location)
	if err != nil {
		return nil, err
	}
	if price == nil {
		return nil, nil
	}

	rc := &domain.ResourceCost{
		ResourceName: r.Name.String(),
		ResourceType: r.ResourceType,
		SKU:          sku,
		Location:     location,
		HourlyCost:   price.UnitPrice,
		MonthlyCost:  price.MonthlyCost(),
		YearlyCost:   price.YearlyCost(),
		Count:        max(r.Count, 1),
		Notes:        []string{},
	}
	if osType := r.Properties.Get("osType").String(); osType != "" {
		rc.Notes = append(rc.Notes, osType)
	}

	if reservedServices[service] {
		savings, err := c.prices.GetReservedSavings(ctx, service, sku, location)
		if err != nil {
			return nil, err
		}
		if savings != nil {
			rc.Reserved1YrMonthly = savings.Reserved1YrMonthly
			rc.Reserved3YrMonthly = savings.Reserved3YrMonthly
		}
	}
	return rc, nil
}
