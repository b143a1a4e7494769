package pipeline

import (
	"fmt"

	apperrors "go-blob-analyzer/internal/errors"
)

// ThresholdMethod selects the auto-threshold algorithm.
type ThresholdMethod string

const (
	// Isodata is the iterative intermeans method: start at the mean
	// intensity and repeatedly set the threshold to the average of the two
	// class means until it stabilizes.
	Isodata ThresholdMethod = "isodata"
)

// Polarity selects which intensity class becomes foreground.
type Polarity string

const (
	// DarkObjects treats pixels at or below the threshold as foreground.
	DarkObjects Polarity = "dark"
	// LightObjects treats pixels above the threshold as foreground.
	LightObjects Polarity = "light"
)

// Connectivity is the neighbor rule for component labeling.
type Connectivity int

const (
	Connectivity4 Connectivity = 4
	Connectivity8 Connectivity = 8
)

// Options configures one pipeline run.
type Options struct {
	// MedianRadius is the disk radius of the denoising median filter,
	// in pixels. Must be positive.
	MedianRadius int

	Method   ThresholdMethod
	Polarity Polarity

	// Watershed enables the marker-based split of touching blobs.
	Watershed bool

	Connectivity Connectivity

	// MinArea is the inclusive lower bound on particle area; smaller
	// components are dropped. MaxArea, when positive, is an inclusive
	// upper bound; zero means unbounded.
	MinArea float64
	MaxArea float64

	// Calibration scales pixel counts into area units. Defaults to 1
	// (areas in pixels).
	Calibration float64

	// ExcludeEdgeObjects drops components touching the image border.
	ExcludeEdgeObjects bool
}

// DefaultOptions mirrors the classic blob counting setup: radius-2 median,
// isodata threshold of dark objects on a light background, watershed split,
// 8-connectivity, minimum area 50 with no upper bound, edge objects excluded.
func DefaultOptions() Options {
	return Options{
		MedianRadius:       2,
		Method:             Isodata,
		Polarity:           DarkObjects,
		Watershed:          true,
		Connectivity:       Connectivity8,
		MinArea:            50,
		MaxArea:            0,
		Calibration:        1,
		ExcludeEdgeObjects: true,
	}
}

// WithSizeRange sets the inclusive particle area bounds.
func (o Options) WithSizeRange(min, max float64) Options {
	o.MinArea = min
	o.MaxArea = max
	return o
}

// WithConnectivity sets the labeling neighbor rule.
func (o Options) WithConnectivity(conn Connectivity) Options {
	o.Connectivity = conn
	return o
}

// WithoutWatershed disables the touching-blob split; the labeler then runs
// directly on the binarized mask.
func (o Options) WithoutWatershed() Options {
	o.Watershed = false
	return o
}

// Validate rejects invalid options before any stage runs.
func (o Options) Validate() error {
	if o.MedianRadius <= 0 {
		return apperrors.NewConfigError(
			fmt.Sprintf("median radius must be positive, got %d", o.MedianRadius), nil)
	}
	if o.Method != Isodata {
		return apperrors.NewConfigError(
			fmt.Sprintf("unknown threshold method %q", o.Method), nil)
	}
	if o.Polarity != DarkObjects && o.Polarity != LightObjects {
		return apperrors.NewConfigError(
			fmt.Sprintf("unknown polarity %q", o.Polarity), nil)
	}
	if o.Connectivity != Connectivity4 && o.Connectivity != Connectivity8 {
		return apperrors.NewConfigError(
			fmt.Sprintf("connectivity must be 4 or 8, got %d", o.Connectivity), nil)
	}
	if o.MinArea < 0 {
		return apperrors.NewConfigError(
			fmt.Sprintf("minimum area must not be negative, got %g", o.MinArea), nil)
	}
	if o.MaxArea < 0 || (o.MaxArea > 0 && o.MaxArea < o.MinArea) {
		return apperrors.NewConfigError(
			fmt.Sprintf("maximum area %g conflicts with minimum area %g", o.MaxArea, o.MinArea), nil)
	}
	if o.Calibration <= 0 {
		return apperrors.NewConfigError(
			fmt.Sprintf("calibration must be positive, got %g", o.Calibration), nil)
	}
	return nil
}
