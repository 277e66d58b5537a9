package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"VolSentinel/internal/collector"
	"VolSentinel/internal/config"
	"VolSentinel/internal/logging"
	"VolSentinel/internal/recorder"
)

var (
	configPath string
	logLevel   string

	cfg *config.Config
)

// rootCmd is the base command for the VolSentinel CLI
var rootCmd = &cobra.Command{
	Use:   "volsentinel",
	Short: "GARCH(1,1) volatility forecasting and risk classification",
	Long: `VolSentinel fits a GARCH(1,1) model to daily log-returns, forecasts
conditional volatility and labels tomorrow's forecast High Risk or Low Risk
against a percentile of the rolling historical volatility.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevel
		}
		logging.Init(cfg.Log.Level, cfg.Log.Format)
		return nil
	},
}

func init() {
	defaultConfig := "configs/config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		defaultConfig = v
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", defaultConfig, "Path to YAML config file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug|info|warn|error)")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// newFetcher picks the price source named in the config.
func newFetcher(c *config.Config) (collector.Fetcher, error) {
	switch c.DataSource.Type {
	case "csv":
		return collector.NewCSVFetcher(c.DataSource.Path), nil
	case "yahoo":
		return collector.NewYahooFetcher(c.Proxy), nil
	}
	return nil, &config.ConfigurationError{Field: "data_source.type", Value: c.DataSource.Type, Allowed: "csv | yahoo"}
}

// openRecorder falls back to a no-op recorder when the database cannot be opened.
func openRecorder(c *config.Config) recorder.Recorder {
	if c.Database.SQLitePath == "" {
		return recorder.NewNoopRecorder()
	}
	sr, err := recorder.NewSQLiteRecorder(c.Database.SQLitePath)
	if err != nil {
		log.Warn().Err(err).Str("path", c.Database.SQLitePath).Msg("init sqlite recorder failed, using noop")
		return recorder.NewNoopRecorder()
	}
	return sr
}
