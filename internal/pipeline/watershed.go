package pipeline

import "container/heap"

// markerMergeRadius is the Chebyshev radius within which distance-map
// local maxima are merged into a single marker. Merging suppresses the
// over-segmentation that flat distance plateaus would otherwise cause.
const markerMergeRadius = 2

// watershedBoundary marks a pixel claimed by two different basins during
// flooding. It is rewritten to background label 0 before Segment returns.
const watershedBoundary = int32(-1)

// Segment splits touching blobs in the mask along watershed lines of its
// chessboard distance transform and returns a label map. Every foreground
// pixel ends with a non-zero label or on a one-pixel boundary line (label
// 0); background stays background. Degenerate masks yield trivial but
// valid segmentations, never an error.
func Segment(m *Mask) *LabelMap {
	lm := NewLabelMap(m.Width, m.Height)
	dist := distanceTransform(m)

	count := placeMarkers(m, dist, lm.Labels)
	floodBasins(m, dist, lm.Labels)

	// A foreground region can be left unlabeled when all of its maxima
	// were merged into a marker seeded in a different region, or when
	// there were no markers at all. Such regions become whole basins of
	// their own.
	count = labelRemaining(m, lm.Labels, count)

	for i, l := range lm.Labels {
		if l == watershedBoundary {
			lm.Labels[i] = 0
		}
	}
	lm.Count = count
	return lm
}

// placeMarkers seeds labels at the local maxima of the distance map.
// Maxima are found per plateau: the 8-connected region of equal distance
// containing a pixel is a maximum only when no pixel bordering the region
// has a larger distance, so a flat neck between two blobs never seeds a
// marker of its own. A maximal plateau gets one label for all its pixels;
// separate maxima within markerMergeRadius of an already-placed marker
// adopt its label instead. Plateaus are discovered in raster-scan order,
// so numbering is deterministic.
func placeMarkers(m *Mask, dist []int32, labels []int32) int {
	w, h := m.Width, m.Height
	visited := make([]bool, w*h)
	var next int32
	var plateau, stack []int

	for start := range dist {
		if dist[start] <= 0 || visited[start] {
			continue
		}

		d := dist[start]
		isMax := true
		plateau = plateau[:0]
		stack = append(stack[:0], start)
		visited[start] = true
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			plateau = append(plateau, i)
			x, y := i%w, i/w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					n := ny*w + nx
					if dist[n] > d {
						isMax = false
					}
					if dist[n] == d && !visited[n] {
						visited[n] = true
						stack = append(stack, n)
					}
				}
			}
		}
		if !isMax {
			continue
		}

		adopted := int32(0)
		for _, i := range plateau {
			x, y := i%w, i/w
			for dy := -markerMergeRadius; dy <= markerMergeRadius && adopted == 0; dy++ {
				for dx := -markerMergeRadius; dx <= markerMergeRadius; dx++ {
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					if l := labels[ny*w+nx]; l > 0 {
						adopted = l
						break
					}
				}
			}
			if adopted > 0 {
				break
			}
		}

		label := adopted
		if label == 0 {
			next++
			label = next
		}
		for _, i := range plateau {
			labels[i] = label
		}
	}
	return int(next)
}

// floodQueue orders frontier pixels by decreasing distance value, ties
// broken by raster index so flooding is deterministic.
type floodQueue struct {
	dist []int32
	idx  []int
}

func (q *floodQueue) Len() int { return len(q.idx) }

func (q *floodQueue) Less(a, b int) bool {
	da, db := q.dist[q.idx[a]], q.dist[q.idx[b]]
	if da != db {
		return da > db
	}
	return q.idx[a] < q.idx[b]
}

func (q *floodQueue) Swap(a, b int) { q.idx[a], q.idx[b] = q.idx[b], q.idx[a] }

func (q *floodQueue) Push(x interface{}) { q.idx = append(q.idx, x.(int)) }

func (q *floodQueue) Pop() interface{} {
	n := len(q.idx)
	v := q.idx[n-1]
	q.idx = q.idx[:n-1]
	return v
}

// floodBasins grows each marker's basin outward in decreasing distance
// order. A pixel adjacent to basins of two different labels becomes a
// watershed boundary and does not propagate further, which is what cuts
// touching blobs apart.
func floodBasins(m *Mask, dist []int32, labels []int32) {
	w, h := m.Width, m.Height
	q := &floodQueue{dist: dist}
	heap.Init(q)
	queued := make([]bool, w*h)

	pushNeighbors := func(i int) {
		x, y := i%w, i/w
		for dy := -1; dy <= 1; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				n := ny*w + nx
				if m.Pix[n] && labels[n] == 0 && !queued[n] {
					queued[n] = true
					heap.Push(q, n)
				}
			}
		}
	}

	for i := range labels {
		if labels[i] > 0 {
			pushNeighbors(i)
		}
	}

	for q.Len() > 0 {
		i := heap.Pop(q).(int)
		if labels[i] != 0 {
			continue
		}

		x, y := i%w, i/w
		var found int32
		boundary := false
		for dy := -1; dy <= 1 && !boundary; dy++ {
			for dx := -1; dx <= 1; dx++ {
				if dx == 0 && dy == 0 {
					continue
				}
				nx, ny := x+dx, y+dy
				if nx < 0 || nx >= w || ny < 0 || ny >= h {
					continue
				}
				l := labels[ny*w+nx]
				if l <= 0 {
					continue
				}
				if found == 0 {
					found = l
				} else if found != l {
					boundary = true
					break
				}
			}
		}

		if boundary {
			labels[i] = watershedBoundary
			continue
		}
		labels[i] = found
		pushNeighbors(i)
	}
}

// labelRemaining assigns fresh labels to foreground pixels that flooding
// never reached, one label per connected region, scanning in raster order.
func labelRemaining(m *Mask, labels []int32, count int) int {
	w, h := m.Width, m.Height
	next := int32(count)
	var stack []int

	for start := range labels {
		if !m.Pix[start] || labels[start] != 0 {
			continue
		}
		next++
		labels[start] = next
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			x, y := i%w, i/w
			for dy := -1; dy <= 1; dy++ {
				for dx := -1; dx <= 1; dx++ {
					if dx == 0 && dy == 0 {
						continue
					}
					nx, ny := x+dx, y+dy
					if nx < 0 || nx >= w || ny < 0 || ny >= h {
						continue
					}
					n := ny*w + nx
					if m.Pix[n] && labels[n] == 0 {
						labels[n] = next
						stack = append(stack, n)
					}
				}
			}
		}
	}
	return int(next)
}
