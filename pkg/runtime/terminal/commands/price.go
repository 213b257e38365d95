package commands

import (
	"fmt"

	"github.com/de-tools/iac-cost/pkg/runtime/terminal/export"
	"github.com/de-tools/iac-cost/pkg/services/config"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
	"github.com/spf13/cobra"
)

type PriceCmd struct {
	settings       *config.Settings
	service        string
	sku            string
	region         string
	vmSize         string
	osType         string
	compareRegions string
	showReserved   bool
	currency       string
	asJSON         bool
}

func NewPriceCmd(settings *config.Settings) *cobra.Command {
	pc := &PriceCmd{settings: settings}
	cmd := &cobra.Command{
		Use:   "price",
		Short: "Query the retail prices catalog",
		Example: `  iac-cost price --vm-size Standard_D4s_v3 --region eastus --show-reserved
  iac-cost price --service "Virtual Machines" --sku Standard_D4s_v3 --region eastus
  iac-cost price --sku Standard_D4s_v3 --compare-regions eastus,westus2,northeurope`,
		Args: cobra.NoArgs,
		RunE: pc.run,
	}

	cmd.Flags().StringVar(&pc.service, "service", "", "Service name, e.g. 'Virtual Machines'")
	cmd.Flags().StringVar(&pc.sku, "sku", "", "ARM SKU name, e.g. Standard_D4s_v3")
	cmd.Flags().StringVar(&pc.region, "region", "", "Region, e.g. eastus")
	cmd.Flags().StringVar(&pc.vmSize, "vm-size", "", "VM size for a quick VM estimate")
	cmd.Flags().StringVar(&pc.osType, "os", "Linux", "VM operating system: Linux or Windows")
	cmd.Flags().StringVar(&pc.compareRegions, "compare-regions", "", "Comma-separated regions to compare --sku across")
	cmd.Flags().BoolVar(&pc.showReserved, "show-reserved", false, "Show reserved instance savings")
	cmd.Flags().StringVar(&pc.currency, "currency", "", "Currency code")
	cmd.Flags().BoolVar(&pc.asJSON, "json", false, "Output as JSON")

	cmd.MarkFlagsMutuallyExclusive("vm-size", "compare-regions")

	return cmd
}

func (pc *PriceCmd) run(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	client := newPriceClient(pc.settings, pc.currency)

	format := export.FormatTable
	if pc.asJSON {
		format = export.FormatJSON
	}
	reporter := export.NewReporter(cmd.OutOrStdout(), format)

	switch {
	case pc.vmSize != "":
		if pc.region == "" {
			return fmt.Errorf("--region is required with --vm-size")
		}
		estimate, err := client.EstimateVMCost(ctx, pc.vmSize, pc.region, pc.osType)
		if err != nil {
			return fmt.Errorf("failed to price VM: %w", err)
		}
		if estimate == nil {
			return fmt.Errorf("no pricing found for %s in %s", pc.vmSize, pc.region)
		}
		return reporter.HandleVMEstimate(estimate, pc.showReserved)

	case pc.compareRegions != "":
		if pc.sku == "" {
			return fmt.Errorf("--sku is required with --compare-regions")
		}
		service := pc.service
		if service == "" {
			service = "Virtual Machines"
		}
		prices, err := client.CompareRegions(ctx, service, pc.sku, splitList(pc.compareRegions))
		if err != nil {
			return fmt.Errorf("failed to compare regions: %w", err)
		}
		return reporter.HandleRegionPrices(pc.sku, prices)

	case pc.service != "" && pc.sku != "" && pc.region != "":
		price, err := client.GetPrice(ctx, pc.service, pc.sku, pc.region, pricing.ConsumptionPriceType)
		if err != nil {
			return fmt.Errorf("failed to look up price: %w", err)
		}
		if price == nil {
			return fmt.Errorf("no pricing found for %s %s in %s", pc.service, pc.sku, pc.region)
		}
		return reporter.HandlePrice(price)
	}

	return fmt.Errorf("provide --vm-size, --compare-regions, or --service with --sku and --region")
}
