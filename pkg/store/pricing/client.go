package pricing

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/runtime"
	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/rs/zerolog"
)

const (
	DefaultBaseURL    = "https://prices.azure.com/api/retail/prices"
	DefaultCurrency   = "USD"
	DefaultTimeout    = 30 * time.Second
	DefaultMaxResults = 100

	moduleName    = "iaccost/pricing"
	moduleVersion = "v1.0.0"
)

type Options struct {
	BaseURL  string
	Currency string
	// Timeout bounds each page request.
	Timeout    time.Duration
	MaxRetries int32
	// Strict returns transport errors to the caller instead of treating
	// them as an empty result.
	Strict    bool
	Transport policy.Transporter
}

func DefaultOptions() Options {
	return Options{
		BaseURL:  DefaultBaseURL,
		Currency: DefaultCurrency,
		Timeout:  DefaultTimeout,
	}
}

// Client queries the public retail prices catalog. It needs no credentials.
type Client struct {
	pl       runtime.Pipeline
	baseURL  string
	currency string
	timeout  time.Duration
	strict   bool
}

func NewClient(opts Options) *Client {
	defaults := DefaultOptions()
	if opts.BaseURL == "" {
		opts.BaseURL = defaults.BaseURL
	}
	if opts.Currency == "" {
		opts.Currency = defaults.Currency
	}
	if opts.Timeout <= 0 {
		opts.Timeout = defaults.Timeout
	}

	clientOpts := &policy.ClientOptions{
		Retry:     policy.RetryOptions{MaxRetries: opts.MaxRetries},
		Telemetry: policy.TelemetryOptions{ApplicationID: "iac-cost"},
	}
	if opts.Transport != nil {
		clientOpts.Transport = opts.Transport
	}

	return &Client{
		pl:       runtime.NewPipeline(moduleName, moduleVersion, runtime.PipelineOptions{}, clientOpts),
		baseURL:  opts.BaseURL,
		currency: opts.Currency,
		timeout:  opts.Timeout,
		strict:   opts.Strict,
	}
}

func (c *Client) Currency() string {
	return c.currency
}

// Query runs an OData filter against the catalog and follows NextPageLink
// until the result cap is reached. Failures are logged and end pagination;
// only a strict client returns them.
func (c *Client) Query(ctx context.Context, filter string, maxResults int) ([]RetailItem, error) {
	logger := zerolog.Ctx(ctx)
	if maxResults <= 0 {
		maxResults = DefaultMaxResults
	}

	start := time.Now()
	defer func() { queryDuration.Observe(time.Since(start).Seconds()) }()

	items := make([]RetailItem, 0)
	next := c.firstPageURL(filter)
	for next != "" && len(items) < maxResults {
		page, err := c.fetchPage(ctx, next)
		if err != nil {
			if c.strict {
				return nil, fmt.Errorf("query retail prices: %w", err)
			}
			logger.Warn().
				Err(err).
				Str("filter", filter).
				Msg("retail price request failed")
			break
		}
		items = append(items, page.Items...)
		next = page.NextPageLink
	}

	if len(items) > maxResults {
		items = items[:maxResults]
	}
	itemsReturned.Add(float64(len(items)))

	logger.Debug().
		Str("filter", filter).
		Int("items", len(items)).
		Dur("elapsed", time.Since(start)).
		Msg("retail price query")
	return items, nil
}

func (c *Client) firstPageURL(filter string) string {
	escaped := strings.ReplaceAll(url.QueryEscape(filter), "+", "%20")
	return fmt.Sprintf("%s?currencyCode='%s'&$filter=%s", c.baseURL, c.currency, escaped)
}

func (c *Client) fetchPage(ctx context.Context, endpoint string) (*retailPage, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := runtime.NewRequest(ctx, http.MethodGet, endpoint)
	if err != nil {
		requestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Raw().Header.Set("Accept", "application/json")

	resp, err := c.pl.Do(req)
	if err != nil {
		requestsTotal.WithLabelValues("error").Inc()
		return nil, err
	}
	if !runtime.HasStatusCode(resp, http.StatusOK) {
		requestsTotal.WithLabelValues("status").Inc()
		return nil, runtime.NewResponseError(resp)
	}

	var page retailPage
	if err := runtime.UnmarshalAsJSON(resp, &page); err != nil {
		requestsTotal.WithLabelValues("error").Inc()
		return nil, fmt.Errorf("decode page: %w", err)
	}
	requestsTotal.WithLabelValues("ok").Inc()
	return &page, nil
}

func (c *Client) records(items []RetailItem) []domain.PriceRecord {
	records := make([]domain.PriceRecord, 0, len(items))
	for _, item := range items {
		records = append(records, item.toRecord(c.currency))
	}
	return records
}

// GetPrice returns the first catalog match for an exact service/SKU/region.
func (c *Client) GetPrice(ctx context.Context, service, sku, region, priceType string) (*domain.PriceRecord, error) {
	if priceType == "" {
		priceType = ConsumptionPriceType
	}
	filter := NewFilter().
		Eq(FieldServiceName, service).
		Eq(FieldArmSkuName, sku).
		Eq(FieldArmRegionName, region).
		Eq(FieldPriceType, priceType)

	items, err := c.Query(ctx, filter.String(), 10)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}
	record := items[0].toRecord(c.currency)
	return &record, nil
}

// GetVMPrices returns on-demand VM prices for all OS variants, without Spot
// and Low Priority meters.
func (c *Client) GetVMPrices(
	ctx context.Context,
	sku, region string,
	includeWindows, includeLinux bool,
) ([]domain.PriceRecord, error) {
	filter := NewFilter().
		Eq(FieldServiceName, "Virtual Machines").
		Eq(FieldArmSkuName, sku).
		Eq(FieldArmRegionName, region).
		Eq(FieldPriceType, ConsumptionPriceType)

	items, err := c.Query(ctx, filter.String(), 50)
	if err != nil {
		return nil, err
	}

	prices := make([]domain.PriceRecord, 0, len(items))
	for _, item := range items {
		windows := strings.Contains(item.ProductName, "Windows")
		if (windows && !includeWindows) || (!windows && !includeLinux) {
			continue
		}
		if strings.Contains(item.SkuName, "Spot") || strings.Contains(item.SkuName, "Low Priority") {
			continue
		}
		prices = append(prices, item.toRecord(c.currency))
	}
	return prices, nil
}

// CompareRegions looks up the same SKU in each region; missing prices stay nil.
func (c *Client) CompareRegions(ctx context.Context, service, sku string, regions []string) ([]domain.RegionPrice, error) {
	results := make([]domain.RegionPrice, 0, len(regions))
	for _, region := range regions {
		price, err := c.GetPrice(ctx, service, sku, region, ConsumptionPriceType)
		if err != nil {
			return nil, fmt.Errorf("price %s in %s: %w", sku, region, err)
		}
		results = append(results, domain.RegionPrice{Region: region, Price: price})
	}
	return results, nil
}

// EstimateVMCost prices a single VM size for the given OS family, including
// reserved savings when available.
func (c *Client) EstimateVMCost(ctx context.Context, vmSize, region, osType string) (*VMEstimate, error) {
	if osType == "" {
		osType = "Linux"
	}
	prices, err := c.GetVMPrices(ctx, vmSize, region, true, true)
	if err != nil {
		return nil, err
	}
	match := MatchOS(prices, osType)
	if match == nil {
		return nil, nil
	}

	savings, err := c.GetReservedSavings(ctx, "Virtual Machines", vmSize, region)
	if err != nil {
		return nil, err
	}

	return &VMEstimate{
		VMSize:      vmSize,
		Region:      region,
		OSType:      osType,
		HourlyCost:  match.UnitPrice,
		MonthlyCost: match.MonthlyCost(),
		YearlyCost:  match.YearlyCost(),
		Unit:        match.UnitOfMeasure,
		Product:     match.ProductName,
		Savings:     savings,
	}, nil
}

// MatchOS picks the first price whose product name agrees with the OS family.
func MatchOS(prices []domain.PriceRecord, osType string) *domain.PriceRecord {
	windows := strings.EqualFold(osType, "windows")
	for i := range prices {
		if strings.Contains(prices[i].ProductName, "Windows") == windows {
			return &prices[i]
		}
	}
	return nil
}
