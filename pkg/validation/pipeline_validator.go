// Package validation checks pipeline parameter configurations and
// reports every problem at once, so a bad deployment config surfaces as
// a full list of issues rather than the first one hit.
package validation

import (
	"fmt"

	"go-blob-analyzer/pkg/config"
)

// Issue describes one invalid configuration field.
type Issue struct {
	Field   string
	Message string
}

// PipelineValidator validates pipeline parameter configurations.
type PipelineValidator struct{}

// NewPipelineValidator creates a pipeline config validator.
func NewPipelineValidator() *PipelineValidator {
	return &PipelineValidator{}
}

// Validate returns every issue found in the config; an empty slice means
// the config is acceptable.
func (v *PipelineValidator) Validate(cfg config.PipelineConfig) []Issue {
	var issues []Issue

	if cfg.MedianRadius <= 0 {
		issues = append(issues, Issue{
			Field:   "medianRadius",
			Message: fmt.Sprintf("must be positive, got %d", cfg.MedianRadius),
		})
	}
	if cfg.ThresholdMethod != "isodata" {
		issues = append(issues, Issue{
			Field:   "thresholdMethod",
			Message: fmt.Sprintf("unknown method %q", cfg.ThresholdMethod),
		})
	}
	if cfg.Polarity != "dark" && cfg.Polarity != "light" {
		issues = append(issues, Issue{
			Field:   "polarity",
			Message: fmt.Sprintf("must be \"dark\" or \"light\", got %q", cfg.Polarity),
		})
	}
	if cfg.Connectivity != 4 && cfg.Connectivity != 8 {
		issues = append(issues, Issue{
			Field:   "connectivity",
			Message: fmt.Sprintf("must be 4 or 8, got %d", cfg.Connectivity),
		})
	}
	if cfg.MinArea < 0 {
		issues = append(issues, Issue{
			Field:   "minArea",
			Message: fmt.Sprintf("must not be negative, got %g", cfg.MinArea),
		})
	}
	if cfg.MaxArea < 0 || (cfg.MaxArea > 0 && cfg.MaxArea < cfg.MinArea) {
		issues = append(issues, Issue{
			Field:   "maxArea",
			Message: fmt.Sprintf("%g conflicts with minArea %g", cfg.MaxArea, cfg.MinArea),
		})
	}
	if cfg.Calibration <= 0 {
		issues = append(issues, Issue{
			Field:   "calibration",
			Message: fmt.Sprintf("must be positive, got %g", cfg.Calibration),
		})
	}
	return issues
}

// ConvertIssuesToMessages flattens issues into log- and API-friendly strings.
func (v *PipelineValidator) ConvertIssuesToMessages(issues []Issue) []string {
	messages := make([]string, len(issues))
	for i, issue := range issues {
		messages[i] = fmt.Sprintf("%s: %s", issue.Field, issue.Message)
	}
	return messages
}
