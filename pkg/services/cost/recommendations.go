package cost

import (
	"fmt"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
)

const (
	reservedMinMonthly  = 100
	reservedMinSavings  = 500
	databaseReviewAbove = 500
	hybridBenefitAbove  = 1000
	advisorReviewAbove  = 5000
)

func recommendations(costs []domain.ResourceCost, totalMonthly float64) []string {
	recs := make([]string, 0)

	for _, rc := range costs {
		if !strings.Contains(rc.ResourceType, "virtualMachines") {
			continue
		}
		if rc.Reserved3YrMonthly == nil || rc.MonthlyCost <= reservedMinMonthly {
			continue
		}
		current := rc.TotalMonthly()
		reserved := *rc.Reserved3YrMonthly * float64(rc.Count)
		savings := (current - reserved) * 12
		if savings <= reservedMinSavings {
			continue
		}
		reduction := 0.0
		if current > 0 {
			reduction = (current - reserved) / current * 100
		}
		recs = append(recs, fmt.Sprintf("Consider 3-year reserved instance for %s: Save ~$%.0f/year (%.0f%% reduction)",
			rc.ResourceName, savings, reduction))
	}

	for _, rc := range costs {
		if (strings.Contains(rc.ResourceType, "databases") || strings.Contains(rc.ResourceType, "SQL")) &&
			rc.MonthlyCost > databaseReviewAbove {
			recs = append(recs, fmt.Sprintf("Review %s sizing - consider serverless or elastic pools for variable workloads", rc.ResourceName))
		}
	}

	for _, rc := range costs {
		if strings.Contains(rc.ResourceType, "storageAccounts") && strings.Contains(rc.SKU, "Premium") {
			recs = append(recs, fmt.Sprintf("Evaluate if %s requires Premium storage - Standard may be sufficient", rc.ResourceName))
		}
	}

	if totalMonthly > hybridBenefitAbove {
		recs = append(recs, "Consider Azure Hybrid Benefit if you have existing Windows Server or SQL Server licenses")
	}
	if totalMonthly > advisorReviewAbove {
		recs = append(recs, "Review resource utilization with Azure Advisor for right-sizing recommendations")
	}
	return recs
}
