package models

// OptionOverrides carries per-request pipeline parameter overrides.
// Unset fields keep the configured defaults.
type OptionOverrides struct {
	MedianRadius       *int     `json:"median_radius,omitempty"`
	Polarity           *string  `json:"polarity,omitempty"`
	Watershed          *bool    `json:"watershed,omitempty"`
	Connectivity       *int     `json:"connectivity,omitempty"`
	MinArea            *float64 `json:"min_area,omitempty"`
	MaxArea            *float64 `json:"max_area,omitempty"`
	ExcludeEdgeObjects *bool    `json:"exclude_edge_objects,omitempty"`
}

// AnalysisRequest represents a request to analyze one image.
type AnalysisRequest struct {
	URL string `json:"url" binding:"required,url"`
	OptionOverrides
}

// BatchAnalysisRequest represents a request to analyze several images.
// The same option overrides apply to every image in the batch.
type BatchAnalysisRequest struct {
	URLs []string `json:"urls" binding:"required,min=1"`
	OptionOverrides
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// AnalysisResponse is the results table for one analyzed image.
type AnalysisResponse struct {
	ID                string           `json:"id"`
	ImageURL          string           `json:"image_url"`
	Timestamp         string           `json:"timestamp"`
	ProcessingTimeSec float64          `json:"processing_time_sec"`
	Width             int              `json:"width"`
	Height            int              `json:"height"`
	Threshold         int              `json:"threshold"`
	Particles         []ParticleRecord `json:"particles"`
	Summary           Summary          `json:"summary"`
}

// BatchAnalysisResponse collects per-URL outcomes of a batch run.
type BatchAnalysisResponse struct {
	Results []BatchResult `json:"results"`
}

// BatchResult is the outcome for one URL in a batch: either a results
// table or an error message, never both.
type BatchResult struct {
	ImageURL string            `json:"image_url"`
	Result   *AnalysisResponse `json:"result,omitempty"`
	Error    string            `json:"error,omitempty"`
}
