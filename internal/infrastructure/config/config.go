// Package config loads pipeline configuration from a TOML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all pipeline configuration.
type Config struct {
	App      AppConfig
	Database DatabaseConfig
	Data     DataConfig
	Log      LogConfig
	Report   ReportConfig
}

// AppConfig holds application-level settings.
type AppConfig struct {
	Name string
	Env  string
}

// DatabaseConfig holds the embedded store settings.
type DatabaseConfig struct {
	// Path is the SQLite database location. ":memory:" keeps the loaded
	// dataset private to one process run.
	Path string
}

// DSN returns the SQLite DSN for the configured path.
func (c *DatabaseConfig) DSN() string {
	if c.Path == "" {
		return ":memory:"
	}
	return c.Path
}

// DataConfig holds the source file locations.
type DataConfig struct {
	OrderLinesPath string
	PeoplePath     string
	ReturnsPath    string
	MaxRowErrors   int
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string // debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or file path
}

// ReportConfig holds the tunable query parameters. The value-tier ladder is
// fixed by contract and deliberately not configurable.
type ReportConfig struct {
	HighValueThreshold string // sales outlier cutoff, decimal string
	DeepDiscountMin    string // discount outlier cutoff, decimal string
	TopN               int    // limit for top-N queries (pairs, returned products)
}

// Load reads configuration with the following priority, highest first:
// environment variables with the ANALYTICS_ prefix, config.toml, built-in
// defaults.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("toml")
	v.AddConfigPath(".")
	v.AddConfigPath("./configs")

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// No config file is fine; defaults and env vars apply.
	}

	v.SetEnvPrefix("ANALYTICS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{
		App: AppConfig{
			Name: v.GetString("app.name"),
			Env:  v.GetString("app.env"),
		},
		Database: DatabaseConfig{
			Path: v.GetString("database.path"),
		},
		Data: DataConfig{
			OrderLinesPath: v.GetString("data.order_lines_path"),
			PeoplePath:     v.GetString("data.people_path"),
			ReturnsPath:    v.GetString("data.returns_path"),
			MaxRowErrors:   v.GetInt("data.max_row_errors"),
		},
		Log: LogConfig{
			Level:  v.GetString("log.level"),
			Format: v.GetString("log.format"),
			Output: v.GetString("log.output"),
		},
		Report: ReportConfig{
			HighValueThreshold: v.GetString("report.high_value_threshold"),
			DeepDiscountMin:    v.GetString("report.deep_discount_min"),
			TopN:               v.GetInt("report.top_n"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration consistency.
func (c *Config) Validate() error {
	if c.Data.MaxRowErrors < 0 {
		return fmt.Errorf("data.max_row_errors must not be negative")
	}
	if c.Report.TopN < 0 {
		return fmt.Errorf("report.top_n must not be negative")
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "analytics")
	v.SetDefault("app.env", "development")

	v.SetDefault("database.path", ":memory:")

	v.SetDefault("data.order_lines_path", "data/orders.csv")
	v.SetDefault("data.people_path", "data/people.csv")
	v.SetDefault("data.returns_path", "data/returns.csv")
	v.SetDefault("data.max_row_errors", 100)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")
	v.SetDefault("log.output", "stdout")

	v.SetDefault("report.high_value_threshold", "1000")
	v.SetDefault("report.deep_discount_min", "0.3")
	v.SetDefault("report.top_n", 10)
}
