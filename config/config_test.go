package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
dataset:
  path: /data/lcancels.parquet
reports:
  default: by-opponent
  character: FALCO
observability:
  logLevel: debug
  metricsPort: 9464
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}

	if cfg.Dataset.Path != "/data/lcancels.parquet" {
		t.Errorf("Expected dataset path, got %q", cfg.Dataset.Path)
	}
	if cfg.Reports.Default != "by-opponent" {
		t.Errorf("Expected default report by-opponent, got %q", cfg.Reports.Default)
	}
	if cfg.Reports.Character != "FALCO" {
		t.Errorf("Expected character FALCO, got %q", cfg.Reports.Character)
	}
	if cfg.Observability.MetricsPort != 9464 {
		t.Errorf("Expected metrics port 9464, got %d", cfg.Observability.MetricsPort)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing config file")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()

	if cfg.Reports.Default != "all" {
		t.Errorf("Expected default report selection 'all', got %q", cfg.Reports.Default)
	}
	if cfg.Observability.MetricsPort != 0 {
		t.Errorf("Expected metrics disabled by default, got port %d", cfg.Observability.MetricsPort)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("REPORT_CHARACTER", "FOX")
	t.Setenv("METRICS_PORT", "9100")

	cfg := Default()

	if cfg.Reports.Character != "FOX" {
		t.Errorf("Expected env character FOX, got %q", cfg.Reports.Character)
	}
	if cfg.Observability.MetricsPort != 9100 {
		t.Errorf("Expected env metrics port 9100, got %d", cfg.Observability.MetricsPort)
	}
}

func TestValidate(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err == nil {
		t.Error("Expected error for missing dataset path")
	}

	cfg.Dataset.Path = "/data/lcancels.parquet"
	if err := cfg.Validate(); err != nil {
		t.Errorf("Expected valid config, got %v", err)
	}
}

func TestValidate_EnvDatasetPath(t *testing.T) {
	t.Setenv("DATASET_PATH", "/data/lcancels.parquet")

	if err := Default().Validate(); err != nil {
		t.Errorf("Expected env-supplied dataset path to validate, got %v", err)
	}
}
