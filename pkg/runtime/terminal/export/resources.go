package export

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
	"github.com/fatih/color"
)

// HandleResources lists parsed descriptors. Structured formats emit the
// descriptors as-is.
func (r *Reporter) HandleResources(source string, resources []domain.ResourceDescriptor) error {
	if r.format == FormatJSON || r.format == FormatYAML {
		return r.HandleValue(resources)
	}

	fmt.Fprintf(r.writer, "Parsed %d resources from %s\n\n", len(resources), source)
	table := newTable(r.writer, "#", "Name", "Type", "SKU", "Location", "Count")
	for i, res := range resources {
		table.Append([]string{
			strconv.Itoa(i + 1),
			res.Name.String(),
			res.ResourceType,
			orDash(displaySKU(res)),
			res.Location.String(),
			strconv.Itoa(res.Count),
		})
	}
	table.Render()
	return nil
}

func displaySKU(r domain.ResourceDescriptor) string {
	if sku := r.SKU.String(); sku != "" {
		return sku
	}
	return r.Properties.Get("vmSize").String()
}

// HandlePrice prints a single catalog match.
func (r *Reporter) HandlePrice(price *domain.PriceRecord) error {
	if r.format == FormatJSON || r.format == FormatYAML {
		return r.HandleValue(price)
	}

	table := newTable(r.writer, "Service", "SKU", "Region", "Product", "Meter", "Unit Price", "Unit")
	table.Append([]string{
		price.ServiceName,
		price.MatchedSKU,
		price.Region,
		price.ProductName,
		price.MeterName,
		fmt.Sprintf("%.4f %s", price.UnitPrice, price.Currency),
		price.UnitOfMeasure,
	})
	table.Render()
	return nil
}

func (r *Reporter) HandleVMEstimate(estimate *pricing.VMEstimate, showReserved bool) error {
	if r.format == FormatJSON || r.format == FormatYAML {
		return r.HandleValue(estimate)
	}

	w := r.writer
	color.New(color.FgCyan, color.Bold).Fprintf(w, "VM Cost Estimate: %s\n", estimate.VMSize)
	fmt.Fprintf(w, "Region:        %s\n", estimate.Region)
	fmt.Fprintf(w, "OS Type:       %s\n", estimate.OSType)
	fmt.Fprintf(w, "Product:       %s\n", estimate.Product)
	fmt.Fprintf(w, "Hourly Cost:   $%.4f\n", estimate.HourlyCost)
	fmt.Fprintf(w, "Monthly Cost:  %s\n", money(estimate.MonthlyCost))
	fmt.Fprintf(w, "Yearly Cost:   %s\n", money(estimate.YearlyCost))

	savings := estimate.Savings
	if !showReserved || savings == nil {
		return nil
	}
	fmt.Fprintf(w, "\n%s\n", color.GreenString("Reserved Instance Savings"))
	if savings.Reserved1YrYearly != nil && savings.Savings1YrPercent != nil {
		fmt.Fprintf(w, "1-Year Reserved: %s/year (%.1f%% savings)\n", money(*savings.Reserved1YrYearly), *savings.Savings1YrPercent)
	}
	if savings.Reserved3YrYearly != nil && savings.Savings3YrPercent != nil {
		fmt.Fprintf(w, "3-Year Reserved: %s/year (%.1f%% savings)\n", money(*savings.Reserved3YrYearly), *savings.Savings3YrPercent)
	}
	return nil
}

// HandleRegionPrices ranks one SKU across regions, cheapest first; regions
// without a price go last.
func (r *Reporter) HandleRegionPrices(sku string, prices []domain.RegionPrice) error {
	if r.format == FormatJSON || r.format == FormatYAML {
		return r.HandleValue(prices)
	}

	sorted := make([]domain.RegionPrice, len(prices))
	copy(sorted, prices)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i].Price, sorted[j].Price
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.UnitPrice < b.UnitPrice
	})

	fmt.Fprintf(r.writer, "Region Comparison: %s\n\n", sku)
	table := newTable(r.writer, "Region", "Hourly", "Monthly", "Yearly")
	for _, p := range sorted {
		if p.Price == nil {
			table.Append([]string{p.Region, "N/A", "N/A", "N/A"})
			continue
		}
		table.Append([]string{
			p.Region,
			fmt.Sprintf("$%.4f", p.Price.UnitPrice),
			money(p.Price.MonthlyCost()),
			money(p.Price.YearlyCost()),
		})
	}
	table.Render()
	return nil
}
