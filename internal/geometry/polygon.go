package geometry

import "math"

// Box is an axis-aligned bounding box in float pixel coordinates.
type Box struct {
	MinX float64
	MinY float64
	MaxX float64
	MaxY float64
}

// Width returns the box width.
func (b Box) Width() float64 { return b.MaxX - b.MinX }

// Height returns the box height.
func (b Box) Height() float64 { return b.MaxY - b.MinY }

// BoundingBox returns the axis-aligned bounding box for a set of points.
func BoundingBox(pts []PixelPoint) Box {
	if len(pts) == 0 {
		return Box{}
	}
	b := Box{MinX: pts[0].X, MinY: pts[0].Y, MaxX: pts[0].X, MaxY: pts[0].Y}
	for _, p := range pts[1:] {
		if p.X < b.MinX {
			b.MinX = p.X
		}
		if p.Y < b.MinY {
			b.MinY = p.Y
		}
		if p.X > b.MaxX {
			b.MaxX = p.X
		}
		if p.Y > b.MaxY {
			b.MaxY = p.Y
		}
	}
	return b
}

// SimplifyPolygon reduces the number of points in a polygon using the
// Douglas–Peucker algorithm with the given tolerance epsilon.
func SimplifyPolygon(pts []PixelPoint, epsilon float64) []PixelPoint {
	if len(pts) <= 3 || epsilon <= 0 {
		return append([]PixelPoint(nil), pts...)
	}
	keep := make([]bool, len(pts))
	dpSimplify(pts, 0, len(pts)-1, epsilon, keep)
	keep[0] = true
	keep[len(pts)-1] = true
	out := make([]PixelPoint, 0, len(pts))
	for i, k := range keep {
		if k {
			out = append(out, pts[i])
		}
	}
	return out
}

func dpSimplify(pts []PixelPoint, start, end int, eps float64, keep []bool) {
	if end <= start+1 {
		return
	}
	maxDist := -1.0
	index := -1
	a, b := pts[start], pts[end]
	for i := start + 1; i < end; i++ {
		d := perpendicularDistance(pts[i], a, b)
		if d > maxDist {
			maxDist = d
			index = i
		}
	}
	if maxDist > eps {
		dpSimplify(pts, start, index, eps, keep)
		keep[index] = true
		dpSimplify(pts, index, end, eps, keep)
	}
}

func perpendicularDistance(p, a, b PixelPoint) float64 {
	vx, vy := b.X-a.X, b.Y-a.Y
	if vx == 0 && vy == 0 {
		return Dist(p, a)
	}
	num := math.Abs((p.X-a.X)*vy - (p.Y-a.Y)*vx)
	return num / math.Hypot(vx, vy)
}

// ExpandPolygon scales polygon points outward from the centroid by
// scale (>1 grows). Non-positive scales return an unchanged copy.
func ExpandPolygon(pts []PixelPoint, scale float64) []PixelPoint {
	if len(pts) == 0 || scale <= 0 || scale == 1.0 {
		return append([]PixelPoint(nil), pts...)
	}
	cx, cy := 0.0, 0.0
	for _, p := range pts {
		cx += p.X
		cy += p.Y
	}
	cx /= float64(len(pts))
	cy /= float64(len(pts))
	out := make([]PixelPoint, len(pts))
	for i, p := range pts {
		out[i] = PixelPoint{X: cx + (p.X-cx)*scale, Y: cy + (p.Y-cy)*scale}
	}
	return out
}

// ConvexHull computes the convex hull of a set of points using the
// monotone chain algorithm. Returns the hull in CCW order without
// duplicating the first point at the end.
func ConvexHull(pts []PixelPoint) []PixelPoint {
	n := len(pts)
	if n <= 1 {
		return append([]PixelPoint(nil), pts...)
	}
	p := make([]PixelPoint, n)
	copy(p, pts)
	sortPoints(p)
	p = dedupPoints(p)
	if len(p) <= 1 {
		return append([]PixelPoint(nil), p...)
	}
	lower := buildHullChain(p, false)
	upper := buildHullChain(p, true)
	hull := make([]PixelPoint, 0, len(lower)+len(upper)-2)
	hull = append(hull, lower[:len(lower)-1]...)
	hull = append(hull, upper[:len(upper)-1]...)
	return hull
}

func dedupPoints(p []PixelPoint) []PixelPoint {
	q := p[:0]
	for i, pt := range p {
		if i == 0 || pt != p[i-1] {
			q = append(q, pt)
		}
	}
	return q
}

func buildHullChain(p []PixelPoint, reversed bool) []PixelPoint {
	chain := make([]PixelPoint, 0, len(p))
	for i := range p {
		pt := p[i]
		if reversed {
			pt = p[len(p)-1-i]
		}
		for len(chain) >= 2 && cross(chain[len(chain)-2], chain[len(chain)-1], pt) <= 0 {
			chain = chain[:len(chain)-1]
		}
		chain = append(chain, pt)
	}
	return chain
}

func sortPoints(p []PixelPoint) {
	// insertion sort, n is small
	for i := 1; i < len(p); i++ {
		v := p[i]
		j := i - 1
		for j >= 0 && (p[j].X > v.X || (p[j].X == v.X && p[j].Y > v.Y)) {
			p[j+1] = p[j]
			j--
		}
		p[j+1] = v
	}
}

func cross(o, a, b PixelPoint) float64 {
	return (a.X-o.X)*(b.Y-o.Y) - (a.Y-o.Y)*(b.X-o.X)
}

// MinimumAreaRectangle computes the minimum-area enclosing rectangle
// using rotating calipers over the convex hull. Returns 4 corners.
// Degenerate inputs fall back to a unit rectangle around the points.
func MinimumAreaRectangle(pts []PixelPoint) []PixelPoint {
	if len(pts) == 0 {
		return nil
	}
	hull := ConvexHull(pts)
	switch len(hull) {
	case 0:
		return nil
	case 1:
		p := hull[0]
		return []PixelPoint{p, {p.X + 1, p.Y}, {p.X + 1, p.Y + 1}, {p.X, p.Y + 1}}
	case 2:
		a, b := hull[0], hull[1]
		return []PixelPoint{a, b, {b.X, b.Y + 1}, {a.X, a.Y + 1}}
	}

	bestArea := math.Inf(1)
	var bestU, bestV PixelPoint
	var bestMinS, bestMaxS, bestMinT, bestMaxT float64
	for i := range hull {
		a := hull[i]
		b := hull[(i+1)%len(hull)]
		dx, dy := b.X-a.X, b.Y-a.Y
		l := math.Hypot(dx, dy)
		if l == 0 {
			continue
		}
		ux, uy := dx/l, dy/l
		vx, vy := -uy, ux
		minS, maxS := math.Inf(1), math.Inf(-1)
		minT, maxT := math.Inf(1), math.Inf(-1)
		for _, p := range hull {
			s := p.X*ux + p.Y*uy
			t := p.X*vx + p.Y*vy
			minS = math.Min(minS, s)
			maxS = math.Max(maxS, s)
			minT = math.Min(minT, t)
			maxT = math.Max(maxT, t)
		}
		area := (maxS - minS) * (maxT - minT)
		if area < bestArea {
			bestArea = area
			bestU = PixelPoint{X: ux, Y: uy}
			bestV = PixelPoint{X: vx, Y: vy}
			bestMinS, bestMaxS, bestMinT, bestMaxT = minS, maxS, minT, maxT
		}
	}
	corner := func(s, t float64) PixelPoint {
		return PixelPoint{X: bestU.X*s + bestV.X*t, Y: bestU.Y*s + bestV.Y*t}
	}
	return []PixelPoint{
		corner(bestMinS, bestMinT),
		corner(bestMaxS, bestMinT),
		corner(bestMaxS, bestMaxT),
		corner(bestMinS, bestMaxT),
	}
}
