package pipeline

import (
	"gonum.org/v1/gonum/stat"

	"go-blob-analyzer/pkg/models"
)

type accumulator struct {
	count      int
	sum        float64
	min        uint8
	max        uint8
	sumX, sumY float64
	minX, minY int
	maxX, maxY int
	onBorder   bool
}

// Measure accumulates per-label statistics over the label map, reading
// intensities from the pre-binarization grayscale source, and returns the
// records that survive the size and border filters, in label order.
//
// The area filter is inclusive: a component with area exactly MinArea is
// retained. Border contact is evaluated against the original un-padded
// image bounds.
func Measure(lm *LabelMap, src *Raster, opts Options) []models.ParticleRecord {
	if lm.Count == 0 {
		return []models.ParticleRecord{}
	}

	accs := make([]accumulator, lm.Count+1)
	for y := 0; y < lm.Height; y++ {
		for x := 0; x < lm.Width; x++ {
			l := lm.At(x, y)
			if l == 0 {
				continue
			}
			a := &accs[l]
			v := src.At(x, y)
			if a.count == 0 {
				a.min, a.max = v, v
				a.minX, a.maxX = x, x
				a.minY, a.maxY = y, y
			} else {
				if v < a.min {
					a.min = v
				}
				if v > a.max {
					a.max = v
				}
				if x < a.minX {
					a.minX = x
				}
				if x > a.maxX {
					a.maxX = x
				}
				if y < a.minY {
					a.minY = y
				}
				if y > a.maxY {
					a.maxY = y
				}
			}
			a.count++
			a.sum += float64(v)
			a.sumX += float64(x)
			a.sumY += float64(y)
			if x == 0 || y == 0 || x == lm.Width-1 || y == lm.Height-1 {
				a.onBorder = true
			}
		}
	}

	records := []models.ParticleRecord{}
	for l := 1; l <= lm.Count; l++ {
		a := &accs[l]
		if a.count == 0 {
			continue
		}

		area := float64(a.count) * opts.Calibration
		if area < opts.MinArea {
			continue
		}
		if opts.MaxArea > 0 && area > opts.MaxArea {
			continue
		}
		if opts.ExcludeEdgeObjects && a.onBorder {
			continue
		}

		mean := a.sum / float64(a.count)
		records = append(records, models.ParticleRecord{
			Label:             l,
			Area:              area,
			Mean:              mean,
			Min:               float64(a.min),
			Max:               float64(a.max),
			CentroidX:         a.sumX / float64(a.count),
			CentroidY:         a.sumY / float64(a.count),
			IntegratedDensity: area * mean,
			BoundingBox: models.BoundingBox{
				X:      a.minX,
				Y:      a.minY,
				Width:  a.maxX - a.minX + 1,
				Height: a.maxY - a.minY + 1,
			},
			TouchesBorder: a.onBorder,
		})
	}
	return records
}

// Summarize aggregates the surviving records into per-run statistics.
func Summarize(records []models.ParticleRecord) models.Summary {
	if len(records) == 0 {
		return models.Summary{}
	}

	areas := make([]float64, len(records))
	means := make([]float64, len(records))
	total := 0.0
	minArea, maxArea := records[0].Area, records[0].Area
	for i, rec := range records {
		areas[i] = rec.Area
		means[i] = rec.Mean
		total += rec.Area
		if rec.Area < minArea {
			minArea = rec.Area
		}
		if rec.Area > maxArea {
			maxArea = rec.Area
		}
	}

	s := models.Summary{
		Count:         len(records),
		TotalArea:     total,
		MeanArea:      stat.Mean(areas, nil),
		MinArea:       minArea,
		MaxArea:       maxArea,
		MeanIntensity: stat.Mean(means, nil),
	}
	if len(records) > 1 {
		s.StdDevArea = stat.StdDev(areas, nil)
	}
	return s
}
