package validation

import (
	"strings"
	"testing"

	"go-blob-analyzer/pkg/config"
)

func TestValidateDefaultsClean(t *testing.T) {
	v := NewPipelineValidator()
	if issues := v.Validate(config.DefaultPipelineConfig()); len(issues) != 0 {
		t.Errorf("Default config must have no issues, got %v", issues)
	}
}

func TestValidateReportsEveryIssue(t *testing.T) {
	v := NewPipelineValidator()
	cfg := config.PipelineConfig{
		MedianRadius:    0,
		ThresholdMethod: "otsu",
		Polarity:        "grey",
		Connectivity:    6,
		MinArea:         -1,
		Calibration:     0,
	}

	issues := v.Validate(cfg)
	if len(issues) != 6 {
		t.Fatalf("Expected 6 issues, got %d: %v", len(issues), issues)
	}

	fields := map[string]bool{}
	for _, issue := range issues {
		fields[issue.Field] = true
	}
	for _, want := range []string{"medianRadius", "thresholdMethod", "polarity", "connectivity", "minArea", "calibration"} {
		if !fields[want] {
			t.Errorf("Missing issue for field %q", want)
		}
	}
}

func TestValidateSizeRange(t *testing.T) {
	v := NewPipelineValidator()

	cfg := config.DefaultPipelineConfig()
	cfg.MinArea = 100
	cfg.MaxArea = 50
	issues := v.Validate(cfg)
	if len(issues) != 1 || issues[0].Field != "maxArea" {
		t.Errorf("Expected a single maxArea issue, got %v", issues)
	}

	cfg.MaxArea = 0 // unbounded
	if issues := v.Validate(cfg); len(issues) != 0 {
		t.Errorf("Unbounded max area must be accepted, got %v", issues)
	}
}

func TestConvertIssuesToMessages(t *testing.T) {
	v := NewPipelineValidator()
	messages := v.ConvertIssuesToMessages([]Issue{
		{Field: "connectivity", Message: "must be 4 or 8, got 6"},
	})
	if len(messages) != 1 || !strings.Contains(messages[0], "connectivity") {
		t.Errorf("Unexpected messages: %v", messages)
	}
}
