package config

import (
	"os"
	"path/filepath"
	"testing"

	"go-blob-analyzer/internal/pipeline"
)

func TestDefaultPipelineConfig(t *testing.T) {
	cfg := DefaultPipelineConfig()

	if cfg.MedianRadius != 2 {
		t.Errorf("Expected medianRadius 2, got %d", cfg.MedianRadius)
	}
	if cfg.MinArea != 50 || cfg.MaxArea != 0 {
		t.Errorf("Expected size range [50, 0], got [%g, %g]", cfg.MinArea, cfg.MaxArea)
	}
	if err := cfg.ToOptions().Validate(); err != nil {
		t.Errorf("Default config must produce valid options, got %v", err)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pipeline.yaml")
	content := []byte("medianRadius: 3\npolarity: light\nminArea: 10\nconnectivity: 4\n")
	if err := os.WriteFile(path, content, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if cfg.MedianRadius != 3 {
		t.Errorf("Expected medianRadius 3, got %d", cfg.MedianRadius)
	}
	if cfg.Polarity != "light" {
		t.Errorf("Expected polarity light, got %q", cfg.Polarity)
	}
	if cfg.MinArea != 10 {
		t.Errorf("Expected minArea 10, got %g", cfg.MinArea)
	}
	// Unspecified fields keep their defaults.
	if cfg.ThresholdMethod != string(pipeline.Isodata) {
		t.Errorf("Expected default threshold method, got %q", cfg.ThresholdMethod)
	}
	if !cfg.ExcludeEdgeObjects {
		t.Error("Expected default edge exclusion to survive partial config")
	}

	opts := cfg.ToOptions()
	if opts.Connectivity != pipeline.Connectivity4 {
		t.Errorf("Expected 4-connectivity options, got %d", opts.Connectivity)
	}
	if err := opts.Validate(); err != nil {
		t.Errorf("Loaded config must produce valid options, got %v", err)
	}
}

func TestLoadFromFileMissing(t *testing.T) {
	if _, err := LoadFromFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for a missing config file")
	}
}

func TestLoadFromFileMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	if err := os.WriteFile(path, []byte("medianRadius: [oops"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadFromFile(path); err == nil {
		t.Error("Expected error for malformed YAML")
	}
}
