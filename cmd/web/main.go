package main

import (
	"fmt"
	"net"
	"os"

	"github.com/de-tools/iac-cost/pkg/server"
	"github.com/de-tools/iac-cost/pkg/services/config"
	"github.com/de-tools/iac-cost/pkg/services/cost"
	"github.com/de-tools/iac-cost/pkg/store/duckdb"
	"github.com/de-tools/iac-cost/pkg/store/duckdb/reports"
	"github.com/de-tools/iac-cost/pkg/store/pricing"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	cfgPath string
	dbPath  string
)

func main() {
	var rootCmd = &cobra.Command{
		Use:   "web",
		Short: "Start the web server for iac-cost",
		RunE:  runServer,
	}

	rootCmd.Flags().StringVarP(&cfgPath, "config", "c", "",
		"Path to a settings file (YAML, JSON or TOML); defaults apply when omitted")
	rootCmd.Flags().StringVar(&dbPath, "db", "iac-cost.db",
		"Path to the DuckDB report archive")

	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func runServer(_ *cobra.Command, _ []string) error {
	if err := godotenv.Load(); err != nil {
		fmt.Printf("Error loading .env file: %v\n", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	settings, err := config.LoadSettings(cfgPath)
	if err != nil {
		return fmt.Errorf("failed to load settings: %w", err)
	}

	db, err := duckdb.NewDB(duckdb.Settings{
		DbPath: dbPath,
	})
	if err != nil {
		return fmt.Errorf("failed to create DuckDB instance: %w", err)
	}
	defer db.Close()

	archive, err := reports.NewStore(db)
	if err != nil {
		return fmt.Errorf("failed to create report store: %w", err)
	}

	prices := pricing.NewClient(settings.PricingOptions())
	estimator := cost.NewService(prices, settings.CalculatorOptions())

	logger.Info().
		Str("region", settings.Region).
		Str("currency", settings.Currency).
		Str("archive", dbPath).
		Msg("settings loaded")

	host := os.Getenv("SERVER_HOST")
	port := os.Getenv("SERVER_PORT")

	if host == "" || port == "" {
		return fmt.Errorf("missing server configuration: SERVER_HOST and SERVER_PORT must be set")
	}

	webAPI := server.NewWebAPI(logger, server.Config{
		Addr: net.JoinHostPort(host, port),
		Dependencies: server.Dependencies{
			Estimator: estimator,
			Archive:   archive,
			Prices:    prices,
		},
	})
	return webAPI.Start()
}
