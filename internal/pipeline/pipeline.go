package pipeline

import (
	apperrors "go-blob-analyzer/internal/errors"
	"go-blob-analyzer/pkg/models"
)

// Result is the output of one pipeline run over a single raster.
type Result struct {
	// Records is the results table, ordered by label discovery order.
	Records []models.ParticleRecord

	Summary models.Summary

	// Threshold is the isodata intensity cutoff that was selected, or -1
	// for a flat image.
	Threshold int

	// LabelCount is the number of components before size and border
	// filtering.
	LabelCount int
}

// Run executes the five pipeline stages in order: denoise, binarize,
// watershed split (optional), label, measure. Stages pass fresh values
// forward; the input raster is never mutated.
//
// Invalid options are rejected with a config error and an empty raster
// with an empty-input error before any stage runs. Degenerate inputs
// (flat image, zero blobs, everything filtered out) are not errors and
// produce an empty results table.
func Run(r *Raster, opts Options) (*Result, error) {
	if r.Empty() {
		return nil, apperrors.NewEmptyInputError("input raster has no pixels")
	}
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	denoised, err := Denoise(r, opts.MedianRadius)
	if err != nil {
		return nil, err
	}

	mask, threshold, err := Binarize(denoised, opts)
	if err != nil {
		return nil, err
	}

	var labeled *LabelMap
	if opts.Watershed {
		labeled = Relabel(Segment(mask), opts.Connectivity)
	} else {
		labeled = LabelComponents(mask, opts.Connectivity)
	}

	records := Measure(labeled, denoised, opts)
	return &Result{
		Records:    records,
		Summary:    Summarize(records),
		Threshold:  threshold,
		LabelCount: labeled.Count,
	}, nil
}
