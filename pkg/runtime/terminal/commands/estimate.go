package commands

import (
	"bytes"
	"fmt"
	"os"
	"strings"

	"github.com/de-tools/iac-cost/pkg/runtime/terminal/export"
	"github.com/de-tools/iac-cost/pkg/services/config"
	"github.com/de-tools/iac-cost/pkg/services/cost"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
	"github.com/spf13/cobra"
)

type EstimateCmd struct {
	settings       *config.Settings
	paramFile      string
	region         string
	currency       string
	format         string
	output         string
	compareRegions string
	asJSON         bool
}

func NewEstimateCmd(settings *config.Settings) *cobra.Command {
	ec := &EstimateCmd{settings: settings}
	cmd := &cobra.Command{
		Use:   "estimate <template>",
		Short: "Estimate the monthly cost of a Bicep or ARM template",
		Example: `  iac-cost estimate main.bicep
  iac-cost estimate main.bicep --region westus2 --params main.bicepparam
  iac-cost estimate azuredeploy.json --format table
  iac-cost estimate main.bicep --compare-regions eastus,westus2,northeurope`,
		Args: cobra.ExactArgs(1),
		RunE: ec.run,
	}

	cmd.Flags().StringVar(&ec.paramFile, "params", "", "Path to a parameter file (.bicepparam or .json)")
	cmd.Flags().StringVar(&ec.region, "region", "", "Deployment region (defaults to the configured region)")
	cmd.Flags().StringVar(&ec.currency, "currency", "", "Currency code (defaults to the configured currency)")
	cmd.Flags().StringVar(&ec.format, "format", string(export.FormatMarkdown), "Output format: markdown, table, json or yaml")
	cmd.Flags().StringVarP(&ec.output, "output", "o", "", "Write the report to a file instead of stdout")
	cmd.Flags().StringVar(&ec.compareRegions, "compare-regions", "", "Comma-separated regions to compare")
	cmd.Flags().BoolVar(&ec.asJSON, "json", false, "Shorthand for --format json")

	return cmd
}

func (ec *EstimateCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	template := args[0]

	if ec.asJSON {
		ec.format = string(export.FormatJSON)
	}
	format, err := export.ParseFormat(ec.format)
	if err != nil {
		return err
	}

	opts := ec.settings.CalculatorOptions()
	if ec.region != "" {
		opts.Region = ec.region
	}
	if ec.currency != "" {
		opts.Currency = ec.currency
	}
	prices := newPriceClient(ec.settings, opts.Currency)

	var buf bytes.Buffer
	reporter := export.NewReporter(&buf, format)

	if regions := splitList(ec.compareRegions); len(regions) > 0 {
		comparison, err := cost.CompareRegions(ctx, prices, opts, template, ec.paramFile, regions)
		if err != nil {
			return fmt.Errorf("failed to compare regions: %w", err)
		}
		if err := reporter.HandleComparison(comparison); err != nil {
			return err
		}
	} else {
		report, err := cost.NewCalculator(prices, opts).EstimateTemplateCost(ctx, template, ec.paramFile)
		if err != nil {
			return fmt.Errorf("failed to estimate template cost: %w", err)
		}
		if err := reporter.Handle(report); err != nil {
			return err
		}
	}

	if ec.output == "" {
		_, err := cmd.OutOrStdout().Write(buf.Bytes())
		return err
	}
	if err := os.WriteFile(ec.output, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Report saved to: %s\n", ec.output)
	return nil
}

func newPriceClient(settings *config.Settings, currency string) *pricing.Client {
	opts := settings.PricingOptions()
	if currency != "" {
		opts.Currency = currency
	}
	return pricing.NewClient(opts)
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
