// Package config provides loading of pipeline parameter defaults from a
// YAML file, so deployments can pin their analysis setup without code
// changes. Request-level overrides are applied on top by the service.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"go-blob-analyzer/internal/pipeline"
)

// PipelineConfig mirrors pipeline.Options in file form.
type PipelineConfig struct {
	// MedianRadius is the disk radius of the denoising median filter in pixels.
	MedianRadius int `yaml:"medianRadius"`

	// ThresholdMethod selects the auto-threshold algorithm ("isodata").
	ThresholdMethod string `yaml:"thresholdMethod"`

	// Polarity is "dark" for dark objects on a light background, or "light".
	Polarity string `yaml:"polarity"`

	// Watershed enables splitting of touching blobs.
	Watershed bool `yaml:"watershed"`

	// Connectivity is the component neighbor rule, 4 or 8.
	Connectivity int `yaml:"connectivity"`

	// MinArea and MaxArea bound the particle size filter; MaxArea 0 means
	// unbounded.
	MinArea float64 `yaml:"minArea"`
	MaxArea float64 `yaml:"maxArea"`

	// Calibration scales pixel counts into area units.
	Calibration float64 `yaml:"calibration"`

	// ExcludeEdgeObjects drops components touching the image border.
	ExcludeEdgeObjects bool `yaml:"excludeEdgeObjects"`
}

// DefaultPipelineConfig returns the classic blob counting defaults.
func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MedianRadius:       2,
		ThresholdMethod:    string(pipeline.Isodata),
		Polarity:           string(pipeline.DarkObjects),
		Watershed:          true,
		Connectivity:       8,
		MinArea:            50,
		MaxArea:            0,
		Calibration:        1,
		ExcludeEdgeObjects: true,
	}
}

// LoadFromFile reads a YAML pipeline config, filling unspecified fields
// with the defaults.
func LoadFromFile(path string) (PipelineConfig, error) {
	cfg := DefaultPipelineConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file: %w", err)
	}
	return cfg, nil
}

// ToOptions converts the file form into validated-at-run-time pipeline
// options. Unknown enum strings pass through and are rejected by
// pipeline.Options.Validate.
func (c PipelineConfig) ToOptions() pipeline.Options {
	return pipeline.Options{
		MedianRadius:       c.MedianRadius,
		Method:             pipeline.ThresholdMethod(c.ThresholdMethod),
		Polarity:           pipeline.Polarity(c.Polarity),
		Watershed:          c.Watershed,
		Connectivity:       pipeline.Connectivity(c.Connectivity),
		MinArea:            c.MinArea,
		MaxArea:            c.MaxArea,
		Calibration:        c.Calibration,
		ExcludeEdgeObjects: c.ExcludeEdgeObjects,
	}
}
