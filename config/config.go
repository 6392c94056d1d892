package config

import (
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"
)

// Config holds the query runner settings. Everything is optional; the
// dataset path given on the command line always wins.
type Config struct {
	Dataset       DatasetConfig       `yaml:"dataset"`
	Reports       ReportsConfig       `yaml:"reports"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// DatasetConfig points at the parquet input file.
type DatasetConfig struct {
	Path string `yaml:"path"`
}

// ReportsConfig selects which analyses run by default.
type ReportsConfig struct {
	Default   string `yaml:"default"`   // report name, or "all"
	Character string `yaml:"character"` // optional character filter, e.g. "FALCO"
}

// ObservabilityConfig controls logging and metrics exposure.
type ObservabilityConfig struct {
	LogLevel    string `yaml:"logLevel"`
	MetricsPort int    `yaml:"metricsPort"` // 0 disables the metrics endpoint
}

// Load reads and parses a YAML config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	cfg.ApplyDefaults()
	return &cfg, nil
}

// Default returns the configuration used when no config file is given.
func Default() *Config {
	cfg := &Config{}
	cfg.ApplyDefaults()
	return cfg
}

// ApplyDefaults fills unset fields, letting environment variables
// override file values.
func (c *Config) ApplyDefaults() {
	if v := os.Getenv("DATASET_PATH"); v != "" {
		c.Dataset.Path = v
	}
	if c.Reports.Default == "" {
		c.Reports.Default = "all"
	}
	if v := os.Getenv("REPORT_CHARACTER"); v != "" {
		c.Reports.Character = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		c.Observability.LogLevel = v
	}
	if v := os.Getenv("METRICS_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			c.Observability.MetricsPort = port
		}
	}
}

// Validate checks that the config names a dataset.
func (c *Config) Validate() error {
	if c.Dataset.Path == "" {
		return fmt.Errorf("dataset.path is required")
	}
	return nil
}
