package cost

import (
	"context"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
)

// Service estimates in-memory templates for concurrent callers. Every call
// gets its own Calculator, so price caches are never shared across requests.
type Service struct {
	prices pricing.Store
	opts   Options
}

func NewService(prices pricing.Store, opts Options) *Service {
	if opts.Loaders == nil {
		opts.Loaders = DefaultRegistry()
	}
	return &Service{prices: prices, opts: opts}
}

// Estimate prices src in region, or in the configured default region when
// region is empty.
func (s *Service) Estimate(ctx context.Context, src Source, region string) (*domain.CostReport, error) {
	opts := s.opts
	if region != "" {
		opts.Region = region
	}
	return NewCalculator(s.prices, opts).EstimateSource(ctx, src)
}
