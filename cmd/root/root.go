// Package root contains the root command for the application
package root

import (
	"fmt"

	"github.com/spf13/cobra"

	"fjacquet/stmt-clean/internal/config"
	"fjacquet/stmt-clean/internal/container"
	"fjacquet/stmt-clean/internal/logging"
)

var (
	// Log is the shared logger instance for commands. It is replaced by the
	// configured logger once the root command initializes.
	Log logging.Logger = logging.NewLogrusAdapter("info", "text")

	// AppContainer is built in PersistentPreRunE from the loaded
	// configuration.
	AppContainer *container.Container

	// Cmd is the root command
	Cmd = &cobra.Command{
		Use:   "stmt-clean",
		Short: "A CLI tool to repair OCR-damaged bank statement tables.",
		Long: `stmt-clean rebuilds consistent transaction ledgers from noisy bank statement
tables. It repairs OCR-damaged amounts, verifies running balances, parses
free-form dates and restores their chronological order.`,
		Run: func(cmd *cobra.Command, args []string) {
			Log.Info("Welcome to stmt-clean!")
			Log.Info("Use --help to see available commands")
		},
		PersistentPreRunE: initialize,
		SilenceUsage:      true,
	}

	logLevel     string
	logFormat    string
	csvDelimiter string
)

// Init registers the persistent flags.
func Init() {
	Cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (trace, debug, info, warn, error)")
	Cmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "Log format (text or json)")
	Cmd.PersistentFlags().StringVar(&csvDelimiter, "csv-delimiter", "", "CSV delimiter for input and output")
}

func initialize(cmd *cobra.Command, args []string) error {
	envFile, envErr := config.LoadEnv()

	cfg, err := config.InitializeConfig()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if cmd.Flags().Changed("csv-delimiter") {
		cfg.CSV.Delimiter = csvDelimiter
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	c, err := container.NewContainer(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize: %w", err)
	}
	AppContainer = c
	Log = c.GetLogger()

	if envErr != nil {
		Log.WithError(envErr).Warn("Failed to load .env file")
	} else if envFile != "" {
		Log.Debug("Loaded environment file", logging.Field{Key: logging.FieldFile, Value: envFile})
	}
	return nil
}

// GetContainer returns the application container, or nil before the root
// command has initialized.
func GetContainer() *container.Container {
	return AppContainer
}

// GetLogger returns the configured logger.
func GetLogger() logging.Logger {
	return Log
}
