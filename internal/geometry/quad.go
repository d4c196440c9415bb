package geometry

import "math"

// Quad is a document crop quadrilateral: four named corners in the pixel
// space of the original, unrotated source image.
type Quad struct {
	TopLeft     PixelPoint
	TopRight    PixelPoint
	BottomRight PixelPoint
	BottomLeft  PixelPoint
}

// NormalizedQuad is a Quad expressed in normalized [0,1] coordinates.
type NormalizedQuad struct {
	TopLeft     NormalizedPoint
	TopRight    NormalizedPoint
	BottomRight NormalizedPoint
	BottomLeft  NormalizedPoint
}

// FullFrame returns the quad covering the whole image.
func FullFrame(width, height int) Quad {
	w, h := float64(width), float64(height)
	return Quad{
		TopLeft:     PixelPoint{X: 0, Y: 0},
		TopRight:    PixelPoint{X: w, Y: 0},
		BottomRight: PixelPoint{X: w, Y: h},
		BottomLeft:  PixelPoint{X: 0, Y: h},
	}
}

// Corners returns the corners ordered TopLeft, TopRight, BottomRight, BottomLeft.
func (q Quad) Corners() [4]PixelPoint {
	return [4]PixelPoint{q.TopLeft, q.TopRight, q.BottomRight, q.BottomLeft}
}

// QuadFromCorners builds a Quad from four unordered corner points.
// The top-left corner minimizes x+y and the bottom-right maximizes it;
// the remaining two are split by the sign of y-x.
func QuadFromCorners(pts [4]PixelPoint) Quad {
	var q Quad
	minSum, maxSum := math.Inf(1), math.Inf(-1)
	minDiff, maxDiff := math.Inf(1), math.Inf(-1)
	for _, p := range pts {
		sum := p.X + p.Y
		diff := p.Y - p.X
		if sum < minSum {
			minSum = sum
			q.TopLeft = p
		}
		if sum > maxSum {
			maxSum = sum
			q.BottomRight = p
		}
		if diff < minDiff {
			minDiff = diff
			q.TopRight = p
		}
		if diff > maxDiff {
			maxDiff = diff
			q.BottomLeft = p
		}
	}
	return q
}

// AvgWidth returns the average of the top and bottom edge lengths.
func (q Quad) AvgWidth() float64 {
	return (Dist(q.TopLeft, q.TopRight) + Dist(q.BottomLeft, q.BottomRight)) * 0.5
}

// AvgHeight returns the average of the left and right edge lengths.
func (q Quad) AvgHeight() float64 {
	return (Dist(q.TopLeft, q.BottomLeft) + Dist(q.TopRight, q.BottomRight)) * 0.5
}

// Area returns the area of the quadrilateral via the shoelace formula.
func (q Quad) Area() float64 {
	c := q.Corners()
	area := 0.0
	for i := 0; i < 4; i++ {
		a := c[i]
		b := c[(i+1)%4]
		area += a.X*b.Y - b.X*a.Y
	}
	return math.Abs(area) * 0.5
}

// IsDegenerate reports whether the quad is too small or collapsed to
// describe a usable crop region. minArea is in square pixels.
func (q Quad) IsDegenerate(minArea float64) bool {
	if q.Area() < minArea {
		return true
	}
	c := q.Corners()
	for i := 0; i < 4; i++ {
		for j := i + 1; j < 4; j++ {
			if Dist(c[i], c[j]) < 1.0 {
				return true
			}
		}
	}
	return false
}

// Scale returns a copy of the quad with every corner scaled by sx, sy.
func (q Quad) Scale(sx, sy float64) Quad {
	return Quad{
		TopLeft:     ScalePoint(q.TopLeft, sx, sy),
		TopRight:    ScalePoint(q.TopRight, sx, sy),
		BottomRight: ScalePoint(q.BottomRight, sx, sy),
		BottomLeft:  ScalePoint(q.BottomLeft, sx, sy),
	}
}

// Normalize converts the quad into normalized coordinates for an image
// of the given dimensions.
func (q Quad) Normalize(width, height int) NormalizedQuad {
	return NormalizedQuad{
		TopLeft:     q.TopLeft.Normalize(width, height),
		TopRight:    q.TopRight.Normalize(width, height),
		BottomRight: q.BottomRight.Normalize(width, height),
		BottomLeft:  q.BottomLeft.Normalize(width, height),
	}
}

// ToPixel converts the normalized quad back to pixel space for an image
// of the given dimensions.
func (q NormalizedQuad) ToPixel(width, height int) Quad {
	return Quad{
		TopLeft:     q.TopLeft.ToPixel(width, height),
		TopRight:    q.TopRight.ToPixel(width, height),
		BottomRight: q.BottomRight.ToPixel(width, height),
		BottomLeft:  q.BottomLeft.ToPixel(width, height),
	}
}

// Clamp restricts every corner of the normalized quad to [lo, hi] on
// both axes, guaranteeing a non-degenerate region for manual edits.
func (q NormalizedQuad) Clamp(lo, hi float64) NormalizedQuad {
	return NormalizedQuad{
		TopLeft:     q.TopLeft.Clamp(lo, hi),
		TopRight:    q.TopRight.Clamp(lo, hi),
		BottomRight: q.BottomRight.Clamp(lo, hi),
		BottomLeft:  q.BottomLeft.Clamp(lo, hi),
	}
}

// InsetQuad returns an axis-aligned normalized quad inset from the unit
// square by the given fraction on each side.
func InsetQuad(inset float64) NormalizedQuad {
	return NormalizedQuad{
		TopLeft:     NormalizedPoint{X: inset, Y: inset},
		TopRight:    NormalizedPoint{X: 1 - inset, Y: inset},
		BottomRight: NormalizedPoint{X: 1 - inset, Y: 1 - inset},
		BottomLeft:  NormalizedPoint{X: inset, Y: 1 - inset},
	}
}
