package geometry

import (
	"math"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// genPixelPoint generates a random point within a 4000x4000 image.
func genPixelPoint() gopter.Gen {
	return gopter.CombineGens(
		gen.Float64Range(0, 4000),
		gen.Float64Range(0, 4000),
	).Map(func(vals []interface{}) PixelPoint {
		return PixelPoint{X: vals[0].(float64), Y: vals[1].(float64)}
	})
}

func genQuad() gopter.Gen {
	return gen.SliceOfN(4, genPixelPoint()).Map(func(pts []PixelPoint) Quad {
		return QuadFromCorners([4]PixelPoint{pts[0], pts[1], pts[2], pts[3]})
	})
}

// TestQuad_NormalizedRoundTrip verifies pixel -> normalized -> pixel is lossless
// within floating point tolerance at a fixed image size.
func TestQuad_NormalizedRoundTrip(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("normalize/denormalize round-trips corners", prop.ForAll(
		func(q Quad) bool {
			const w, h = 3024, 4032
			back := q.Normalize(w, h).ToPixel(w, h)
			orig := q.Corners()
			for i, c := range back.Corners() {
				if math.Abs(c.X-orig[i].X) > 1e-6 || math.Abs(c.Y-orig[i].Y) > 1e-6 {
					return false
				}
			}
			return true
		},
		genQuad(),
	))

	properties.TestingRun(t)
}

// TestQuad_ScaleScalesArea verifies area scales by sx*sy.
func TestQuad_ScaleScalesArea(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("scaling a quad scales its area by sx*sy", prop.ForAll(
		func(q Quad, sx, sy float64) bool {
			a := q.Area()
			if a < 1 {
				return true // skip near-degenerate inputs
			}
			scaled := q.Scale(sx, sy).Area()
			return math.Abs(scaled-a*sx*sy) < a*sx*sy*1e-9+1e-6
		},
		genQuad(),
		gen.Float64Range(0.1, 4),
		gen.Float64Range(0.1, 4),
	))

	properties.TestingRun(t)
}

// TestNormalizedQuad_ClampIsIdempotent verifies clamping twice equals once.
func TestNormalizedQuad_ClampIsIdempotent(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("clamp is idempotent", prop.ForAll(
		func(q Quad) bool {
			n := q.Normalize(1000, 1000)
			once := n.Clamp(0.05, 0.95)
			twice := once.Clamp(0.05, 0.95)
			return once == twice
		},
		genQuad(),
	))

	properties.TestingRun(t)
}

// TestConvexHull_EnclosedByMinAreaRect verifies the minimum-area rectangle
// covers at least the hull's own area.
func TestConvexHull_EnclosedByMinAreaRect(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("min-area rectangle area >= hull area", prop.ForAll(
		func(points []PixelPoint) bool {
			if len(points) < 3 {
				return true
			}
			hull := ConvexHull(points)
			if len(hull) < 3 {
				return true
			}
			rect := MinimumAreaRectangle(points)
			if len(rect) != 4 {
				return false
			}
			return shoelace(rect) >= shoelace(hull)-1e-6
		},
		gen.SliceOfN(10, genPixelPoint()),
	))

	properties.TestingRun(t)
}

func shoelace(pts []PixelPoint) float64 {
	area := 0.0
	for i := range pts {
		j := (i + 1) % len(pts)
		area += pts[i].X*pts[j].Y - pts[j].X*pts[i].Y
	}
	return math.Abs(area) / 2
}
