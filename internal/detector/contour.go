package detector

import "github.com/MeKo-Tech/descan/internal/geometry"

// traceContour extracts the boundary polygon of a labeled component
// using Moore-Neighbor tracing, restricted to the component's bounding
// box. Returned points are pixel-center coordinates in the label map's
// space. Collinear runs are collapsed as they are appended.
func traceContour(labels []int, w, h int, st compStats) []geometry.PixelPoint {
	if st.label <= 0 || len(labels) != w*h {
		return nil
	}

	sx, sy := findBoundaryStart(labels, w, h, st)
	if sx == -1 {
		return nil
	}

	pts := make([]geometry.PixelPoint, 0, 64)
	appendPoint := func(x, y int) {
		p := geometry.PixelPoint{X: float64(x), Y: float64(y)}
		n := len(pts)
		if n >= 2 {
			a, b := pts[n-2], pts[n-1]
			// drop b when a, b, p are collinear
			if (b.X-a.X)*(p.Y-b.Y)-(b.Y-a.Y)*(p.X-b.X) == 0 {
				pts = pts[:n-1]
			}
		}
		pts = append(pts, p)
	}
	appendPoint(sx, sy)

	cx, cy := sx, sy
	bx, by := sx-1, sy // backtrack starts to the left of the start pixel
	startCx, startCy, startBx, startBy := cx, cy, bx, by
	maxSteps := w*h*4 + 8

	for steps := 0; steps < maxSteps; steps++ {
		nx, ny, nbx, nby, found := nextBoundaryPixel(labels, w, h, st.label, cx, cy, bx, by)
		if !found {
			break
		}
		bx, by = nbx, nby
		cx, cy = nx, ny
		if len(pts) == 0 || pts[len(pts)-1].X != float64(cx) || pts[len(pts)-1].Y != float64(cy) {
			appendPoint(cx, cy)
		}
		if cx == startCx && cy == startCy && bx == startBx && by == startBy {
			break
		}
	}

	// drop duplicated closing point
	if len(pts) >= 2 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	return pts
}

func findBoundaryStart(labels []int, w, h int, st compStats) (int, int) {
	for y := st.minY; y <= st.maxY; y++ {
		for x := st.minX; x <= st.maxX; x++ {
			if !hasLabel(labels, w, h, st.label, x, y) {
				continue
			}
			if !hasLabel(labels, w, h, st.label, x+1, y) ||
				!hasLabel(labels, w, h, st.label, x-1, y) ||
				!hasLabel(labels, w, h, st.label, x, y+1) ||
				!hasLabel(labels, w, h, st.label, x, y-1) {
				return x, y
			}
		}
	}
	return -1, -1
}

func hasLabel(labels []int, w, h, label, x, y int) bool {
	if x < 0 || y < 0 || x >= w || y >= h {
		return false
	}
	return labels[y*w+x] == label
}

// nextBoundaryPixel scans the Moore neighborhood clockwise starting
// just after the backtrack direction.
func nextBoundaryPixel(labels []int, w, h, label, cx, cy, bx, by int) (int, int, int, int, bool) {
	// 8-neighborhood clockwise: E, SE, S, SW, W, NW, N, NE
	ndx := [8]int{1, 1, 0, -1, -1, -1, 0, 1}
	ndy := [8]int{0, 1, 1, 1, 0, -1, -1, -1}

	start := 0
	dx, dy := bx-cx, by-cy
	for i := 0; i < 8; i++ {
		if ndx[i] == dx && ndy[i] == dy {
			start = (i + 1) % 8
			break
		}
	}

	for k := 0; k < 8; k++ {
		i := (start + k) % 8
		tx, ty := cx+ndx[i], cy+ndy[i]
		if hasLabel(labels, w, h, label, tx, ty) {
			return tx, ty, cx, cy, true
		}
		bx, by = tx, ty
	}
	return 0, 0, bx, by, false
}
