package pipeline

// distanceTransform computes the chessboard (Chebyshev) distance from
// every foreground pixel to the nearest background pixel, using the
// classic two-pass chamfer sweep. Background pixels have distance 0;
// pixels outside the image count as background, so foreground touching
// the border gets distance 1.
func distanceTransform(m *Mask) []int32 {
	w, h := m.Width, m.Height
	const inf = int32(1) << 30

	dist := make([]int32, w*h)
	for i, fg := range m.Pix {
		if fg {
			dist[i] = inf
		}
	}

	// Forward pass: north and west neighbors.
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			i := y*w + x
			if dist[i] == 0 {
				continue
			}
			d := borderSeed(x, y, w, h)
			if x > 0 && dist[i-1]+1 < d {
				d = dist[i-1] + 1
			}
			if y > 0 {
				if dist[i-w]+1 < d {
					d = dist[i-w] + 1
				}
				if x > 0 && dist[i-w-1]+1 < d {
					d = dist[i-w-1] + 1
				}
				if x < w-1 && dist[i-w+1]+1 < d {
					d = dist[i-w+1] + 1
				}
			}
			if d < dist[i] {
				dist[i] = d
			}
		}
	}

	// Backward pass: south and east neighbors.
	for y := h - 1; y >= 0; y-- {
		for x := w - 1; x >= 0; x-- {
			i := y*w + x
			if dist[i] == 0 {
				continue
			}
			d := dist[i]
			if x < w-1 && dist[i+1]+1 < d {
				d = dist[i+1] + 1
			}
			if y < h-1 {
				if dist[i+w]+1 < d {
					d = dist[i+w] + 1
				}
				if x < w-1 && dist[i+w+1]+1 < d {
					d = dist[i+w+1] + 1
				}
				if x > 0 && dist[i+w-1]+1 < d {
					d = dist[i+w-1] + 1
				}
			}
			dist[i] = d
		}
	}
	return dist
}

// borderSeed is the distance contribution of the implicit background
// outside the image: 1 on the border, unbounded elsewhere.
func borderSeed(x, y, w, h int) int32 {
	if x == 0 || y == 0 || x == w-1 || y == h-1 {
		return 1
	}
	return int32(1) << 30
}
