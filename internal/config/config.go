package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const envPrefix = "CATALOG"

// Config holds all configuration for the application
type Config struct {
	Log    LogConfig    `mapstructure:"log"`
	Shell  ShellConfig  `mapstructure:"shell"`
	Import ImportConfig `mapstructure:"import"`
}

// LogConfig controls the logger written to stderr
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // text or json
}

// ShellConfig holds settings of the interactive menu
type ShellConfig struct {
	Banner bool `mapstructure:"banner"`
}

// ImportConfig describes the catalog outlines loaded before the menu starts
type ImportConfig struct {
	Sources              []string      `mapstructure:"sources"` // file paths or http(s) URLs
	Timeout              time.Duration `mapstructure:"timeout"`
	MaxRetries           int           `mapstructure:"max_retries"`
	MaxWorkers           int           `mapstructure:"max_workers"`
	MaxRequestsPerSecond int           `mapstructure:"max_requests_per_second"`
}

// Load reads config.yaml from the current directory if present and applies
// environment variable overrides (import.max_workers -> CATALOG_IMPORT_MAX_WORKERS).
func Load() (*Config, error) {
	return load(viper.New(), ".")
}

func load(v *viper.Viper, paths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}

	setDefaults(v)

	// unprefixed keys would pick up SHELL and friends
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := config.validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")

	v.SetDefault("shell.banner", true)

	v.SetDefault("import.sources", []string{})
	v.SetDefault("import.timeout", 30*time.Second)
	v.SetDefault("import.max_retries", 3)
	v.SetDefault("import.max_workers", 4)
	v.SetDefault("import.max_requests_per_second", 5)
}

func (c *Config) validate() error {
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("invalid log.format %q: expected text or json", c.Log.Format)
	}
	if c.Import.MaxWorkers < 1 {
		return fmt.Errorf("import.max_workers must be at least 1, got %d", c.Import.MaxWorkers)
	}
	if c.Import.MaxRetries < 0 {
		return fmt.Errorf("import.max_retries must not be negative, got %d", c.Import.MaxRetries)
	}
	return nil
}
