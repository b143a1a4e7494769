package config

import (
	"testing"
	"time"
)

func TestLoadFromEnvDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.ServerAddress() != "0.0.0.0:8080" {
		t.Errorf("ServerAddress = %q, want 0.0.0.0:8080", cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 30*time.Second {
		t.Errorf("RequestTimeout = %v, want 30s", cfg.RequestTimeout)
	}
	if cfg.MaxRequestBodySize != 1<<20 {
		t.Errorf("MaxRequestBodySize = %d, want 1MB", cfg.MaxRequestBodySize)
	}
	if cfg.BatchWorkers != 0 {
		t.Errorf("BatchWorkers = %d, want 0", cfg.BatchWorkers)
	}
}

func TestLoadFromEnvOverrides(t *testing.T) {
	t.Setenv("HOST", "127.0.0.1")
	t.Setenv("PORT", "9090")
	t.Setenv("REQUEST_TIMEOUT", "10s")
	t.Setenv("BATCH_WORKERS", "4")
	t.Setenv("PIPELINE_CONFIG", "/etc/blob-analyzer/pipeline.yaml")

	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed: %v", err)
	}

	if cfg.ServerAddress() != "127.0.0.1:9090" {
		t.Errorf("ServerAddress = %q, want 127.0.0.1:9090", cfg.ServerAddress())
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("RequestTimeout = %v, want 10s", cfg.RequestTimeout)
	}
	if cfg.BatchWorkers != 4 {
		t.Errorf("BatchWorkers = %d, want 4", cfg.BatchWorkers)
	}
	if cfg.PipelineConfigPath != "/etc/blob-analyzer/pipeline.yaml" {
		t.Errorf("PipelineConfigPath = %q", cfg.PipelineConfigPath)
	}
}

func TestLoadFromEnvInvalidPort(t *testing.T) {
	t.Setenv("PORT", "notaport")

	if _, err := LoadFromEnv(); err == nil {
		t.Error("expected error for invalid PORT")
	}
}

func TestLoadFromEnvAzureCredentialsPaired(t *testing.T) {
	t.Setenv("AZURE_STORAGE_ACCOUNT", "myaccount")

	if _, err := LoadFromEnv(); err == nil {
		t.Error("expected error when only the account name is set")
	}

	t.Setenv("AZURE_STORAGE_KEY", "c2VjcmV0")
	cfg, err := LoadFromEnv()
	if err != nil {
		t.Fatalf("LoadFromEnv failed with paired credentials: %v", err)
	}
	if cfg.AzureAccountName != "myaccount" {
		t.Errorf("AzureAccountName = %q, want myaccount", cfg.AzureAccountName)
	}
}
