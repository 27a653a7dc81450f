// Package config provides configuration loading and validation for codetally.
// Flags override config-file values, which override environment defaults.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/codetally/codetally/internal/filter"
)

// ErrUnknownFormat is returned for an unrecognized output format.
var ErrUnknownFormat = errors.New("unknown output format")

// Output formats.
const (
	FormatText  = "text"
	FormatTable = "table"
	FormatPlot  = "plot"
)

// Config holds all configuration for codetally.
type Config struct {
	Report  ReportConfig  `mapstructure:"report"`
	Exclude ExcludeConfig `mapstructure:"exclude"`
}

// ReportConfig holds sorting and rendering defaults.
type ReportConfig struct {
	SortBy    string `mapstructure:"sort_by"`
	Order     string `mapstructure:"order"`
	Format    string `mapstructure:"format"`
	SkipEmpty bool   `mapstructure:"skip_empty"`
}

// ExcludeConfig holds the opt-in identity and path exclusions.
type ExcludeConfig struct {
	Bots        bool     `mapstructure:"bots"`
	Root        bool     `mapstructure:"root"`
	Ubuntu      bool     `mapstructure:"ubuntu"`
	Vendored    bool     `mapstructure:"vendored"`
	BotPatterns []string `mapstructure:"bot_patterns"`
}

// LoadConfig loads configuration from file and environment variables.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("codetally")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("/etc/codetally")
	}

	viperCfg.SetEnvPrefix("CODETALLY")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("report.sort_by", "commits")
	viperCfg.SetDefault("report.order", "desc")
	viperCfg.SetDefault("report.format", FormatText)
	viperCfg.SetDefault("report.skip_empty", false)

	viperCfg.SetDefault("exclude.bots", false)
	viperCfg.SetDefault("exclude.root", false)
	viperCfg.SetDefault("exclude.ubuntu", false)
	viperCfg.SetDefault("exclude.vendored", false)
	viperCfg.SetDefault("exclude.bot_patterns", filter.DefaultBotPatterns)
}

// ValidateFormat checks an output format name.
func ValidateFormat(format string) error {
	switch format {
	case FormatText, FormatTable, FormatPlot:
		return nil
	default:
		return fmt.Errorf("%w: %s (use text, table or plot)", ErrUnknownFormat, format)
	}
}

func validateConfig(config *Config) error {
	_, err := filter.ParseSortField(config.Report.SortBy)
	if err != nil {
		return err
	}

	_, err = filter.ParseSortOrder(config.Report.Order)
	if err != nil {
		return err
	}

	return ValidateFormat(config.Report.Format)
}
