// Package pipeline implements the blob analysis pipeline: median
// denoising, isodata auto-thresholding, watershed splitting of touching
// blobs, connected-component labeling, and per-particle measurement.
//
// Each stage is a pure function: it takes its input raster or mask and
// allocates a fresh output, so no pixel buffer is shared across stages.
package pipeline

import (
	"image"
	"image/draw"
)

// Raster is a width x height grid of 8-bit intensity samples. A raster is
// immutable once produced by a stage.
type Raster struct {
	Width  int
	Height int
	Pix    []uint8
}

// NewRaster allocates a zeroed raster of the given dimensions.
func NewRaster(width, height int) *Raster {
	return &Raster{
		Width:  width,
		Height: height,
		Pix:    make([]uint8, width*height),
	}
}

// RasterFromImage converts any decoded image to an 8-bit grayscale raster.
func RasterFromImage(img image.Image) *Raster {
	bounds := img.Bounds()
	gray := image.NewGray(bounds)
	draw.Draw(gray, bounds, img, bounds.Min, draw.Src)

	r := NewRaster(bounds.Dx(), bounds.Dy())
	for y := 0; y < r.Height; y++ {
		copy(r.Pix[y*r.Width:(y+1)*r.Width], gray.Pix[y*gray.Stride:y*gray.Stride+r.Width])
	}
	return r
}

// At returns the intensity at (x, y). Callers are responsible for bounds.
func (r *Raster) At(x, y int) uint8 {
	return r.Pix[y*r.Width+x]
}

// Set writes the intensity at (x, y).
func (r *Raster) Set(x, y int, v uint8) {
	r.Pix[y*r.Width+x] = v
}

// Empty reports whether the raster has no pixels.
func (r *Raster) Empty() bool {
	return r == nil || r.Width <= 0 || r.Height <= 0
}

// Mask is a binary foreground/background raster produced by the binarizer.
type Mask struct {
	Width  int
	Height int
	Pix    []bool
}

// NewMask allocates an all-background mask of the given dimensions.
func NewMask(width, height int) *Mask {
	return &Mask{
		Width:  width,
		Height: height,
		Pix:    make([]bool, width*height),
	}
}

// At reports whether (x, y) is foreground.
func (m *Mask) At(x, y int) bool {
	return m.Pix[y*m.Width+x]
}

// Set marks (x, y) as foreground or background.
func (m *Mask) Set(x, y int, fg bool) {
	m.Pix[y*m.Width+x] = fg
}

// ForegroundCount returns the number of foreground pixels.
func (m *Mask) ForegroundCount() int {
	n := 0
	for _, fg := range m.Pix {
		if fg {
			n++
		}
	}
	return n
}

// LabelMap assigns an integer label to every pixel. Label 0 is background
// (including watershed boundary pixels); labels 1..Count identify
// components in raster-scan discovery order.
type LabelMap struct {
	Width  int
	Height int
	Labels []int32
	Count  int
}

// NewLabelMap allocates an all-background label map.
func NewLabelMap(width, height int) *LabelMap {
	return &LabelMap{
		Width:  width,
		Height: height,
		Labels: make([]int32, width*height),
	}
}

// At returns the label at (x, y).
func (lm *LabelMap) At(x, y int) int32 {
	return lm.Labels[y*lm.Width+x]
}
