package geometry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvexHull_Square(t *testing.T) {
	pts := []PixelPoint{
		{0, 0}, {10, 0}, {10, 10}, {0, 10},
		{5, 5}, {2, 3}, {7, 8}, // interior points
	}
	hull := ConvexHull(pts)
	require.Len(t, hull, 4)
	assert.Contains(t, hull, PixelPoint{X: 0, Y: 0})
	assert.Contains(t, hull, PixelPoint{X: 10, Y: 0})
	assert.Contains(t, hull, PixelPoint{X: 10, Y: 10})
	assert.Contains(t, hull, PixelPoint{X: 0, Y: 10})
}

func TestConvexHull_Degenerate(t *testing.T) {
	assert.Empty(t, ConvexHull(nil))
	assert.Len(t, ConvexHull([]PixelPoint{{1, 2}}), 1)
}

func TestSimplifyPolygon_RemovesCollinear(t *testing.T) {
	pts := []PixelPoint{
		{0, 0}, {1, 0}, {2, 0}, {3, 0}, {4, 0},
		{4, 4},
		{0, 4},
	}
	out := SimplifyPolygon(pts, 0.5)
	assert.Less(t, len(out), len(pts))
	assert.Equal(t, pts[0], out[0])
	assert.Equal(t, pts[len(pts)-1], out[len(out)-1])
}

func TestMinimumAreaRectangle_RotatedBox(t *testing.T) {
	// 45 degree rotated unit square corners
	pts := []PixelPoint{{0, 5}, {5, 0}, {10, 5}, {5, 10}}
	rect := MinimumAreaRectangle(pts)
	require.Len(t, rect, 4)

	// rotated box edges should be ~7.07 long
	e0 := Dist(rect[0], rect[1])
	e1 := Dist(rect[1], rect[2])
	assert.InDelta(t, 7.071, e0, 0.01)
	assert.InDelta(t, 7.071, e1, 0.01)
}

func TestExpandPolygon(t *testing.T) {
	pts := []PixelPoint{{0, 0}, {10, 0}, {10, 10}, {0, 10}}
	out := ExpandPolygon(pts, 1.1)
	require.Len(t, out, 4)
	// corners move outward from centroid (5,5)
	assert.InDelta(t, -0.5, out[0].X, 1e-9)
	assert.InDelta(t, 10.5, out[2].X, 1e-9)

	same := ExpandPolygon(pts, 1.0)
	assert.Equal(t, pts, same)
}

func TestBoundingBox(t *testing.T) {
	pts := []PixelPoint{{3, 7}, {-1, 2}, {5, 9}}
	b := BoundingBox(pts)
	assert.Equal(t, Box{MinX: -1, MinY: 2, MaxX: 5, MaxY: 9}, b)
	assert.InDelta(t, 6, b.Width(), 1e-9)
	assert.InDelta(t, 7, b.Height(), 1e-9)
}
