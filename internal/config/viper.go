// Package config provides Viper-based hierarchical configuration management
package config

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"

	"fjacquet/stmt-clean/internal/logging"
)

// Debit sign conventions understood by the amount normalization stage.
const (
	DebitSignNegative = "negative"
	DebitSignAsIs     = "as-is"
)

// Config represents the complete application configuration
type Config struct {
	Log struct {
		Level  string `mapstructure:"level" yaml:"level"`
		Format string `mapstructure:"format" yaml:"format"`
	} `mapstructure:"log" yaml:"log"`

	CSV struct {
		Delimiter string `mapstructure:"delimiter" yaml:"delimiter"`
	} `mapstructure:"csv" yaml:"csv"`

	Amounts struct {
		// DebitSign is "negative" when the Debit column holds magnitudes that
		// must be stored as negative contributions, "as-is" when the
		// upstream table already carries the sign.
		DebitSign string `mapstructure:"debit_sign" yaml:"debit_sign"`
	} `mapstructure:"amounts" yaml:"amounts"`

	Reconcile struct {
		AdjustBand float64 `mapstructure:"adjust_band" yaml:"adjust_band"`
		Tolerance  float64 `mapstructure:"tolerance" yaml:"tolerance"`
	} `mapstructure:"reconcile" yaml:"reconcile"`

	Chronology struct {
		MaxPasses          int `mapstructure:"max_passes" yaml:"max_passes"`
		MidpointMaxGapDays int `mapstructure:"midpoint_max_gap_days" yaml:"midpoint_max_gap_days"`
		YearDriftMax       int `mapstructure:"year_drift_max" yaml:"year_drift_max"`
	} `mapstructure:"chronology" yaml:"chronology"`

	ChangeLog struct {
		Enabled bool   `mapstructure:"enabled" yaml:"enabled"`
		Dir     string `mapstructure:"dir" yaml:"dir"`
	} `mapstructure:"changelog" yaml:"changelog"`

	Output struct {
		Debug        bool   `mapstructure:"debug" yaml:"debug"`
		ReportFormat string `mapstructure:"report_format" yaml:"report_format"`
	} `mapstructure:"output" yaml:"output"`

	Server struct {
		Address string `mapstructure:"address" yaml:"address"`
	} `mapstructure:"server" yaml:"server"`
}

// InitializeConfig loads defaults, then an optional config.yaml, then
// STMT_* environment variables, and validates the result.
func InitializeConfig() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("$HOME/.stmt-clean")
	v.AddConfigPath(".stmt-clean")
	v.AddConfigPath(".")

	v.SetEnvPrefix("STMT")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// A broken file is reported but defaults and env vars still apply
			fmt.Printf("Warning: error reading config file %s: %v\n", v.ConfigFileUsed(), err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validateConfig(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Default returns the configuration produced by the defaults alone.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var config Config
	// Unmarshalling plain defaults cannot fail
	_ = v.Unmarshal(&config)
	return &config
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("csv.delimiter", ",")

	v.SetDefault("amounts.debit_sign", DebitSignNegative)

	v.SetDefault("reconcile.adjust_band", 1.0)
	v.SetDefault("reconcile.tolerance", 0.001)

	v.SetDefault("chronology.max_passes", 5)
	v.SetDefault("chronology.midpoint_max_gap_days", 100)
	v.SetDefault("chronology.year_drift_max", 5)

	v.SetDefault("changelog.enabled", false)
	v.SetDefault("changelog.dir", "check_date")

	v.SetDefault("output.debug", false)
	v.SetDefault("output.report_format", "json")

	v.SetDefault("server.address", ":8080")
}

func validateConfig(config *Config) error {
	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be 'text' or 'json')", config.Log.Format)
	}

	if len(config.CSV.Delimiter) != 1 {
		return fmt.Errorf("CSV delimiter must be a single character, got: %s", config.CSV.Delimiter)
	}

	if config.Amounts.DebitSign != DebitSignNegative && config.Amounts.DebitSign != DebitSignAsIs {
		return fmt.Errorf("amounts.debit_sign must be '%s' or '%s', got: %s", DebitSignNegative, DebitSignAsIs, config.Amounts.DebitSign)
	}

	if config.Reconcile.AdjustBand <= 0 {
		return fmt.Errorf("reconcile.adjust_band must be positive, got: %f", config.Reconcile.AdjustBand)
	}
	if config.Reconcile.Tolerance < 0 || config.Reconcile.Tolerance >= config.Reconcile.AdjustBand {
		return fmt.Errorf("reconcile.tolerance must be in [0, adjust_band), got: %f", config.Reconcile.Tolerance)
	}

	if config.Chronology.MaxPasses < 1 || config.Chronology.MaxPasses > 50 {
		return fmt.Errorf("chronology.max_passes must be between 1 and 50, got: %d", config.Chronology.MaxPasses)
	}
	if config.Chronology.MidpointMaxGapDays < 1 {
		return fmt.Errorf("chronology.midpoint_max_gap_days must be positive, got: %d", config.Chronology.MidpointMaxGapDays)
	}
	if config.Chronology.YearDriftMax < 0 {
		return fmt.Errorf("chronology.year_drift_max must not be negative, got: %d", config.Chronology.YearDriftMax)
	}

	if config.ChangeLog.Enabled && strings.TrimSpace(config.ChangeLog.Dir) == "" {
		return fmt.Errorf("changelog.dir is required when the change log is enabled")
	}

	switch config.Output.ReportFormat {
	case "json", "xml", "yaml":
	default:
		return fmt.Errorf("output.report_format must be json, xml or yaml, got: %s", config.Output.ReportFormat)
	}

	return nil
}

// NewLoggerFromConfig builds the application logger from the log section.
func NewLoggerFromConfig(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(strings.ToLower(config.Log.Level), strings.ToLower(config.Log.Format))
}

// DelimiterRune returns the configured CSV delimiter as a rune.
func (c *Config) DelimiterRune() rune {
	if c == nil || c.CSV.Delimiter == "" {
		return ','
	}
	return []rune(c.CSV.Delimiter)[0]
}

// Validate re-checks the configuration after programmatic overrides such as
// command-line flags.
func (c *Config) Validate() error {
	return validateConfig(c)
}
