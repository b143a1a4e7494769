package pipeline

// LabelComponents extracts connected components from a binary mask,
// assigning a unique label per connected foreground region in raster-scan
// discovery order. Connectivity is 4 or 8 as configured; 8 is the
// conventional choice for blob counting.
func LabelComponents(m *Mask, conn Connectivity) *LabelMap {
	lm := NewLabelMap(m.Width, m.Height)
	offsets := connOffsets(conn)
	var next int32
	var stack []int

	for start := range m.Pix {
		if !m.Pix[start] || lm.Labels[start] != 0 {
			continue
		}
		next++
		lm.Labels[start] = next
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%m.Width, i/m.Width
			for _, off := range offsets {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= m.Width || ny < 0 || ny >= m.Height {
					continue
				}
				n := ny*m.Width + nx
				if m.Pix[n] && lm.Labels[n] == 0 {
					lm.Labels[n] = next
					stack = append(stack, n)
				}
			}
		}
	}
	lm.Count = int(next)
	return lm
}

// Relabel renumbers an existing label map in raster-scan discovery order.
// Two adjacent pixels join only when their source labels are equal, so
// basins separated by a watershed line never merge across a diagonal, and
// relabeling is idempotent as a partition.
func Relabel(src *LabelMap, conn Connectivity) *LabelMap {
	lm := NewLabelMap(src.Width, src.Height)
	offsets := connOffsets(conn)
	var next int32
	var stack []int

	for start := range src.Labels {
		if src.Labels[start] == 0 || lm.Labels[start] != 0 {
			continue
		}
		next++
		lm.Labels[start] = next
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%src.Width, i/src.Width
			for _, off := range offsets {
				nx, ny := x+off[0], y+off[1]
				if nx < 0 || nx >= src.Width || ny < 0 || ny >= src.Height {
					continue
				}
				n := ny*src.Width + nx
				if src.Labels[n] == src.Labels[i] && lm.Labels[n] == 0 {
					lm.Labels[n] = next
					stack = append(stack, n)
				}
			}
		}
	}
	lm.Count = int(next)
	return lm
}

func connOffsets(conn Connectivity) [][2]int {
	if conn == Connectivity4 {
		return [][2]int{{0, -1}, {-1, 0}, {1, 0}, {0, 1}}
	}
	return [][2]int{
		{-1, -1}, {0, -1}, {1, -1},
		{-1, 0}, {1, 0},
		{-1, 1}, {0, 1}, {1, 1},
	}
}
