package terminal

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/de-tools/iac-cost/pkg/runtime/terminal/commands"
	"github.com/de-tools/iac-cost/pkg/services/config"
	"github.com/de-tools/iac-cost/pkg/services/cost"
	"github.com/spf13/cobra"
)

// CLI represents the command-line interface
type CLI struct {
	settings *config.Settings
	// preloaded settings skip the settings file.
	preloaded    bool
	settingsPath string
	profile      string
	profilesPath string
	loaders      cost.Registry
	rootCmd      *cobra.Command
}

// Options contain configuration for the CLI
type Options struct {
	Settings *config.Settings
	Loaders  cost.Registry
	Output   io.Writer
}

// NewCLI creates a new CLI instance
func NewCLI(opts Options) *CLI {
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Loaders == nil {
		opts.Loaders = cost.DefaultRegistry()
	}

	cli := &CLI{
		settings:  &config.Settings{},
		preloaded: opts.Settings != nil,
		loaders:   opts.Loaders,
	}
	if opts.Settings != nil {
		*cli.settings = *opts.Settings
	}

	cli.rootCmd = cli.newRootCmd()
	cli.rootCmd.SetOut(opts.Output)
	return cli
}

func (cli *CLI) Execute(ctx context.Context) error {
	return cli.rootCmd.ExecuteContext(ctx)
}

// SetArgs overrides os.Args, mainly for tests.
func (cli *CLI) SetArgs(args []string) {
	cli.rootCmd.SetArgs(args)
}

func (cli *CLI) newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "iac-cost",
		Short:             "Estimate Azure costs from Bicep and ARM templates",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.loadSettings,
	}

	profilesPath, _ := config.DefaultProfilePath()
	cmd.PersistentFlags().StringVar(&cli.settingsPath, "config", "", "Path to a settings file (YAML, JSON or TOML)")
	cmd.PersistentFlags().StringVar(&cli.profile, "profile", "", "Named profile to apply")
	cmd.PersistentFlags().StringVar(&cli.profilesPath, "profiles-file", profilesPath, "Path to the profiles file")

	cmd.AddCommand(commands.NewEstimateCmd(cli.settings))
	cmd.AddCommand(commands.NewParseCmd(cli.settings, cli.loaders))
	cmd.AddCommand(commands.NewPriceCmd(cli.settings))

	return cmd
}

// loadSettings fills the shared settings before any command runs. Commands
// hold the same pointer, so they see the loaded values.
func (cli *CLI) loadSettings(cmd *cobra.Command, _ []string) error {
	if !cli.preloaded {
		settings, err := config.LoadSettings(cli.settingsPath)
		if err != nil {
			return err
		}
		*cli.settings = *settings
	}

	if cli.profile == "" {
		return nil
	}
	registry, err := config.NewRegistry(cli.profilesPath)
	if err != nil {
		return fmt.Errorf("failed to load profiles: %w", err)
	}
	profile, err := registry.GetProfile(cmd.Context(), cli.profile)
	if err != nil {
		return err
	}
	cli.settings.ApplyProfile(profile)
	return nil
}
