package pipeline

// maxIsodataIterations caps the intermeans convergence loop so that a
// pathological histogram cannot oscillate forever.
const maxIsodataIterations = 100

// Binarize computes a single global threshold from the image histogram
// using the isodata intermeans method and returns the foreground mask for
// the configured polarity, together with the selected threshold.
//
// A perfectly flat image yields an all-background mask and threshold -1.
// The result is deterministic: binarizing the same raster with the same
// options twice produces bit-identical masks.
func Binarize(r *Raster, opts Options) (*Mask, int, error) {
	if err := opts.Validate(); err != nil {
		return nil, 0, err
	}

	hist := histogram(r)
	t, ok := isodataThreshold(hist)
	mask := NewMask(r.Width, r.Height)
	if !ok {
		return mask, -1, nil
	}

	for i, v := range r.Pix {
		if opts.Polarity == DarkObjects {
			mask.Pix[i] = int(v) <= t
		} else {
			mask.Pix[i] = int(v) > t
		}
	}
	return mask, t, nil
}

func histogram(r *Raster) [256]int64 {
	var hist [256]int64
	for _, v := range r.Pix {
		hist[v]++
	}
	return hist
}

// isodataThreshold runs the iterative intermeans balance: start at the
// mean intensity, then repeatedly set the threshold to the average of the
// two class means until the value stabilizes or the iteration cap is hit.
// Returns ok=false for a flat (single intensity) histogram.
func isodataThreshold(hist [256]int64) (int, bool) {
	lo, hi := -1, -1
	var total, weighted int64
	for v, n := range hist {
		if n == 0 {
			continue
		}
		if lo < 0 {
			lo = v
		}
		hi = v
		total += n
		weighted += int64(v) * n
	}
	if lo < 0 || lo == hi {
		return 0, false
	}

	t := int((weighted + total/2) / total)
	for i := 0; i < maxIsodataIterations; i++ {
		var c0, s0, c1, s1 int64
		for v := 0; v <= t; v++ {
			c0 += hist[v]
			s0 += int64(v) * hist[v]
		}
		for v := t + 1; v < 256; v++ {
			c1 += hist[v]
			s1 += int64(v) * hist[v]
		}
		if c0 == 0 || c1 == 0 {
			break
		}
		m0 := float64(s0) / float64(c0)
		m1 := float64(s1) / float64(c1)
		next := int((m0 + m1) / 2)
		if next == t {
			break
		}
		t = next
	}
	return t, true
}
