package detector

import "container/list"

// compStats holds per-component pixel statistics and bounding box.
type compStats struct {
	label int
	count int
	minX  int
	minY  int
	maxX  int
	maxY  int
}

// connectedComponents labels 4-connected components in the mask and
// returns their stats together with the label map.
func connectedComponents(mask []bool, w, h int) ([]compStats, []int) {
	labels := make([]int, w*h)
	var comps []compStats
	label := 1

	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			idx := y*w + x
			if mask[idx] && labels[idx] == 0 {
				comps = append(comps, floodFill(mask, labels, w, h, x, y, label))
				label++
			}
		}
	}
	return comps, labels
}

// floodFill performs BFS labeling for one component from a seed pixel.
func floodFill(mask []bool, labels []int, w, h, startX, startY, label int) compStats {
	st := compStats{label: label, minX: startX, minY: startY, maxX: startX, maxY: startY}
	startIdx := startY*w + startX
	q := list.New()
	q.PushBack(startIdx)
	labels[startIdx] = label

	dirs := [4][2]int{{1, 0}, {-1, 0}, {0, 1}, {0, -1}}
	for q.Len() > 0 {
		e := q.Front()
		q.Remove(e)
		ci, ok := e.Value.(int)
		if !ok {
			continue
		}
		cx, cy := ci%w, ci/w
		st.count++
		if cx < st.minX {
			st.minX = cx
		}
		if cy < st.minY {
			st.minY = cy
		}
		if cx > st.maxX {
			st.maxX = cx
		}
		if cy > st.maxY {
			st.maxY = cy
		}
		for _, d := range dirs {
			nx, ny := cx+d[0], cy+d[1]
			if nx < 0 || nx >= w || ny < 0 || ny >= h {
				continue
			}
			ni := ny*w + nx
			if mask[ni] && labels[ni] == 0 {
				labels[ni] = label
				q.PushBack(ni)
			}
		}
	}
	return st
}

// largestComponent returns the component with the most pixels, or a
// zero-value compStats when none exist.
func largestComponent(comps []compStats) compStats {
	var best compStats
	for _, c := range comps {
		if c.count > best.count {
			best = c
		}
	}
	return best
}
