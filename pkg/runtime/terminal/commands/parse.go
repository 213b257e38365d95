package commands

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/de-tools/iac-cost/pkg/runtime/terminal/export"
	"github.com/de-tools/iac-cost/pkg/services/config"
	"github.com/de-tools/iac-cost/pkg/services/cost"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

type ParseCmd struct {
	settings  *config.Settings
	loaders   cost.Registry
	paramFile string
	region    string
	asJSON    bool
}

func NewParseCmd(settings *config.Settings, loaders cost.Registry) *cobra.Command {
	pc := &ParseCmd{settings: settings, loaders: loaders}
	cmd := &cobra.Command{
		Use:   "parse <template>",
		Short: "List the resources a template declares, after parameter resolution",
		Args:  cobra.ExactArgs(1),
		RunE:  pc.run,
	}

	cmd.Flags().StringVar(&pc.paramFile, "params", "", "Path to a parameter file")
	cmd.Flags().StringVar(&pc.region, "region", "", "Fallback location for unresolved resources")
	cmd.Flags().BoolVar(&pc.asJSON, "json", false, "Output as JSON")

	return cmd
}

func (pc *ParseCmd) run(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	path := args[0]

	content, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: %s", cost.ErrTemplateNotFound, path)
		}
		return fmt.Errorf("failed to read template: %w", err)
	}
	loader, err := pc.loaders.Lookup(filepath.Ext(path))
	if err != nil {
		return err
	}

	src := cost.Source{Path: path, Content: content}
	if pc.paramFile != "" {
		params, err := os.ReadFile(pc.paramFile)
		if err != nil {
			zerolog.Ctx(ctx).Warn().Err(err).Str("params", pc.paramFile).Msg("ignoring parameter file")
		} else {
			src.ParamsPath, src.Params = pc.paramFile, params
		}
	}

	region := pc.region
	if region == "" {
		region = pc.settings.Region
	}
	resources, err := loader(ctx, src, region)
	if err != nil {
		return fmt.Errorf("failed to parse template: %w", err)
	}

	format := export.FormatTable
	if pc.asJSON {
		format = export.FormatJSON
	}
	return export.NewReporter(cmd.OutOrStdout(), format).HandleResources(path, resources)
}
