package geometry

import "math"

// PixelPoint is a 2D coordinate in the pixel space of a specific image.
type PixelPoint struct {
	X float64
	Y float64
}

// NormalizedPoint is a 2D coordinate expressed as fractions of image
// width/height, independent of pixel resolution. Keeping it a distinct
// type from PixelPoint makes accidental space mixing a compile error.
type NormalizedPoint struct {
	X float64
	Y float64
}

// Normalize converts a pixel point into normalized coordinates for an
// image of the given dimensions.
func (p PixelPoint) Normalize(width, height int) NormalizedPoint {
	if width <= 0 || height <= 0 {
		return NormalizedPoint{}
	}
	return NormalizedPoint{X: p.X / float64(width), Y: p.Y / float64(height)}
}

// ToPixel converts a normalized point back to pixel coordinates for an
// image of the given dimensions.
func (p NormalizedPoint) ToPixel(width, height int) PixelPoint {
	return PixelPoint{X: p.X * float64(width), Y: p.Y * float64(height)}
}

// Clamp restricts both coordinates to [lo, hi].
func (p NormalizedPoint) Clamp(lo, hi float64) NormalizedPoint {
	return NormalizedPoint{X: clamp(p.X, lo, hi), Y: clamp(p.Y, lo, hi)}
}

// Dist returns the Euclidean distance between two pixel points.
func Dist(a, b PixelPoint) float64 { return math.Hypot(a.X-b.X, a.Y-b.Y) }

// ScalePoint scales a point by sx, sy.
func ScalePoint(p PixelPoint, sx, sy float64) PixelPoint {
	return PixelPoint{X: p.X * sx, Y: p.Y * sy}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
