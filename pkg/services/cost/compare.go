package cost

import (
	"context"
	"fmt"
	"sort"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
)

// CompareRegions runs a full estimate of the same template in each region,
// one after another, and ranks them by total monthly cost, cheapest first.
// opts.Region is ignored.
func CompareRegions(
	ctx context.Context,
	prices pricing.Store,
	opts Options,
	templatePath, paramFile string,
	regions []string,
) (*domain.RegionComparison, error) {
	if len(regions) == 0 {
		return nil, fmt.Errorf("at least one region must be provided")
	}

	comparison := &domain.RegionComparison{
		TemplatePath: templatePath,
		Estimates:    make([]domain.RegionEstimate, 0, len(regions)),
	}
	for _, region := range regions {
		opts.Region = region
		report, err := NewCalculator(prices, opts).EstimateTemplateCost(ctx, templatePath, paramFile)
		if err != nil {
			return nil, fmt.Errorf("estimate %s: %w", region, err)
		}
		comparison.Estimates = append(comparison.Estimates, domain.RegionEstimate{Region: region, Report: report})
	}

	sort.SliceStable(comparison.Estimates, func(i, j int) bool {
		return comparison.Estimates[i].Report.TotalMonthlyCost < comparison.Estimates[j].Report.TotalMonthlyCost
	})
	return comparison, nil
}
