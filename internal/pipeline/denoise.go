package pipeline

import (
	"fmt"

	apperrors "go-blob-analyzer/internal/errors"
)

// Denoise returns a new raster where every pixel is the median of the
// intensities in a disk-shaped neighborhood of the given radius. The
// neighborhood is truncated at image edges rather than padded. For
// even-sized neighborhoods the upper median is used.
func Denoise(r *Raster, radius int) (*Raster, error) {
	if radius <= 0 {
		return nil, apperrors.NewConfigError(
			fmt.Sprintf("median radius must be positive, got %d", radius), nil)
	}

	offsets := diskOffsets(radius)
	out := NewRaster(r.Width, r.Height)

	var hist [256]int
	for y := 0; y < r.Height; y++ {
		for x := 0; x < r.Width; x++ {
			for i := range hist {
				hist[i] = 0
			}
			n := 0
			for _, off := range offsets {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= r.Width || ny < 0 || ny >= r.Height {
					continue
				}
				hist[r.At(nx, ny)]++
				n++
			}
			out.Set(x, y, histMedian(&hist, n))
		}
	}
	return out, nil
}

// diskOffsets enumerates the (dx, dy) offsets with dx²+dy² ≤ radius²,
// in raster-scan order.
func diskOffsets(radius int) [][2]int {
	var offsets [][2]int
	r2 := radius * radius
	for dy := -radius; dy <= radius; dy++ {
		for dx := -radius; dx <= radius; dx++ {
			if dx*dx+dy*dy <= r2 {
				offsets = append(offsets, [2]int{dx, dy})
			}
		}
	}
	return offsets
}

// histMedian picks the n/2-th value (0-based) from an intensity histogram.
func histMedian(hist *[256]int, n int) uint8 {
	target := n / 2
	seen := 0
	for v := 0; v < 256; v++ {
		seen += hist[v]
		if seen > target {
			return uint8(v)
		}
	}
	return 255
}
