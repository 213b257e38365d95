package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/de-tools/iac-cost/pkg/models/domain"
	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
)

func newTable(w io.Writer, header ...string) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetAlignment(tablewriter.ALIGN_LEFT)
	return table
}

func writeReportTable(w io.Writer, report *domain.CostReport) error {
	heading := color.New(color.FgCyan, color.Bold)
	heading.Fprintf(w, "Cost estimate for %s (%s)\n\n", report.TemplatePath, report.Region)

	table := newTable(w, "Resource", "Type", "SKU", "Count", "Monthly", "Yearly", "Notes")
	for _, rc := range report.SortedByCost() {
		table.Append([]string{
			rc.ResourceName,
			shortType(rc.ResourceType),
			orDash(rc.SKU),
			strconv.Itoa(rc.Count),
			money(rc.TotalMonthly()),
			money(rc.TotalYearly()),
			strings.Join(rc.Notes, ", "),
		})
	}
	table.SetFooter([]string{"", "", "", "Total", money(report.TotalMonthlyCost), money(report.TotalYearlyCost), ""})
	table.Render()

	fmt.Fprintf(w, "\nResources priced: %s\n", color.GreenString("%d", report.ResourceCount))
	writeList(w, "Recommendations", report.Recommendations, color.GreenString)
	writeList(w, "Warnings", report.Warnings, color.YellowString)
	writeList(w, "Unsupported resources", report.UnsupportedResources, color.RedString)
	return nil
}

func writeList(w io.Writer, title string, items []string, paint func(string, ...any) string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%s\n", paint(title))
	for _, item := range items {
		fmt.Fprintf(w, "  - %s\n", item)
	}
}

func writeComparisonTable(w io.Writer, comparison *domain.RegionComparison) error {
	table := newTable(w, "Region", "Monthly Cost", "Yearly Cost")
	for _, e := range comparison.Estimates {
		table.Append([]string{e.Region, money(e.Report.TotalMonthlyCost), money(e.Report.TotalYearlyCost)})
	}
	table.Render()

	if cheapest := comparison.Cheapest(); cheapest != nil {
		fmt.Fprintf(w, "\nCheapest region: %s (%s/month)\n",
			color.GreenString(cheapest.Region), money(cheapest.Report.TotalMonthlyCost))
	}
	return nil
}
