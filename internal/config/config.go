// Package config loads pipeline configuration from an optional
// config.yaml and CATALOGPIPE_* environment variables.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Config holds all configuration for the pipeline.
type Config struct {
	Log       LogConfig       `mapstructure:"log"`
	Pipeline  PipelineConfig  `mapstructure:"pipeline"`
	Embedding EmbeddingConfig `mapstructure:"embedding"`
	Output    OutputConfig    `mapstructure:"output"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "json" or "console"
}

// PipelineConfig holds enrichment and matching parameters.
type PipelineConfig struct {
	Workers              int     `mapstructure:"workers"`
	MaxTitleLength       int     `mapstructure:"max_title_length"`
	MaxDescriptionLength int     `mapstructure:"max_description_length"`
	DefaultPrice         float64 `mapstructure:"default_price"`
	CategorySeparator    string  `mapstructure:"category_separator"`
	BudgetThreshold      float64 `mapstructure:"budget_threshold"`
	GraphProducts        int     `mapstructure:"graph_products"`
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Provider  string `mapstructure:"provider"` // "openai", "jina" or "local"
	Model     string `mapstructure:"model"`
	APIKey    string `mapstructure:"api_key"`
	CacheSize int    `mapstructure:"cache_size"`
}

// OutputConfig holds result output configuration.
type OutputConfig struct {
	Dir string `mapstructure:"dir"`
}

// Load reads configuration from config files and environment variables.
// A missing config file is fine; env vars and defaults cover everything.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/catalogpipe/")

	v.SetEnvPrefix("CATALOGPIPE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("pipeline.workers", 4)
	v.SetDefault("pipeline.max_title_length", 150)
	v.SetDefault("pipeline.max_description_length", 500)
	v.SetDefault("pipeline.default_price", 0.0)
	v.SetDefault("pipeline.category_separator", "/")
	v.SetDefault("pipeline.budget_threshold", 30.0)
	v.SetDefault("pipeline.graph_products", 3)

	v.SetDefault("embedding.provider", "local")
	v.SetDefault("embedding.model", "")
	v.SetDefault("embedding.cache_size", 10000)

	v.SetDefault("output.dir", "data/output")
}

func validate(config *Config) error {
	if config.Pipeline.Workers < 1 {
		return fmt.Errorf("pipeline workers must be at least 1, got: %d", config.Pipeline.Workers)
	}

	switch config.Embedding.Provider {
	case "openai", "jina", "local":
	default:
		return fmt.Errorf("embedding provider must be 'openai', 'jina' or 'local', got: %s",
			config.Embedding.Provider)
	}

	if config.Output.Dir == "" {
		return fmt.Errorf("output dir must not be empty")
	}

	return nil
}
