package models

// ParticleRecord holds the measurements for one surviving labeled component.
// Records are created during the measurement pass and are final once
// appended to a results table; intensity statistics are read from the
// pre-binarization grayscale source, not the mask.
type ParticleRecord struct {
	Label int `json:"label"`

	// Area is the member pixel count scaled by the configured calibration.
	Area float64 `json:"area"`

	// Intensity statistics over the member pixels.
	Mean float64 `json:"mean"`
	Min  float64 `json:"min"`
	Max  float64 `json:"max"`

	// Centroid is the mean (x, y) of member pixels, in pixel coordinates.
	CentroidX float64 `json:"centroid_x"`
	CentroidY float64 `json:"centroid_y"`

	// IntegratedDensity is area multiplied by mean intensity.
	IntegratedDensity float64 `json:"integrated_density"`

	BoundingBox BoundingBox `json:"bounding_box"`

	// TouchesBorder reports whether any member pixel lies on the original
	// un-padded image bounds.
	TouchesBorder bool `json:"touches_border"`
}

// BoundingBox is the axis-aligned extent of a component, in pixels.
type BoundingBox struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Summary aggregates the per-particle measurements of one run.
type Summary struct {
	Count         int     `json:"count"`
	TotalArea     float64 `json:"total_area"`
	MeanArea      float64 `json:"mean_area"`
	MinArea       float64 `json:"min_area"`
	MaxArea       float64 `json:"max_area"`
	StdDevArea    float64 `json:"stddev_area"`
	MeanIntensity float64 `json:"mean_intensity"`
}
