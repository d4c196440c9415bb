package rectify

import (
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/descan/internal/geometry"
	"github.com/MeKo-Tech/descan/internal/testutil"
)

func TestRectifyIdentityQuad(t *testing.T) {
	img := testutil.GradientImage(200, 150)
	quad := geometry.FullFrame(200, 150)

	out, err := New(DefaultConfig()).Rectify(img, quad)
	require.NoError(t, err)

	b := out.Bounds()
	assert.Equal(t, 200, b.Dx())
	assert.Equal(t, 150, b.Dy())

	// An axis-aligned full-frame quad is a near-identity warp, so
	// interior pixels should keep their gradient values.
	for _, x := range []int{10, 100, 190} {
		wantR, _, _, _ := img.At(x, 75).RGBA()
		gotR, _, _, _ := out.At(x, 75).RGBA()
		assert.InDelta(t, float64(wantR>>8), float64(gotR>>8), 3)
	}
}

func TestRectifyRotatedDocumentAspect(t *testing.T) {
	cfg := testutil.DefaultDocumentImageConfig()
	img, quad := testutil.GenerateDocumentImage(cfg)

	out, err := New(DefaultConfig()).Rectify(img, quad)
	require.NoError(t, err)

	b := out.Bounds()
	gotAspect := float64(b.Dx()) / float64(b.Dy())
	wantAspect := float64(cfg.DocWidth) / float64(cfg.DocHeight)
	assert.InDelta(t, wantAspect, gotAspect, wantAspect*0.02)

	// The interior of the rectified image should be the document color.
	c := out.At(b.Dx()/2, b.Dy()/2)
	r, g, bl, _ := c.RGBA()
	assert.Greater(t, r>>8, uint32(240))
	assert.Greater(t, g>>8, uint32(240))
	assert.Greater(t, bl>>8, uint32(240))
}

func TestRectifyDegenerateQuad(t *testing.T) {
	img := testutil.UniformImage(100, 100, color.White)

	tests := []struct {
		name string
		quad geometry.Quad
	}{
		{
			name: "all corners coincident",
			quad: geometry.Quad{
				TopLeft:     geometry.PixelPoint{X: 50, Y: 50},
				TopRight:    geometry.PixelPoint{X: 50, Y: 50},
				BottomRight: geometry.PixelPoint{X: 50, Y: 50},
				BottomLeft:  geometry.PixelPoint{X: 50, Y: 50},
			},
		},
		{
			name: "near-zero area",
			quad: geometry.Quad{
				TopLeft:     geometry.PixelPoint{X: 10, Y: 10},
				TopRight:    geometry.PixelPoint{X: 90, Y: 10},
				BottomRight: geometry.PixelPoint{X: 90, Y: 10.5},
				BottomLeft:  geometry.PixelPoint{X: 10, Y: 10.5},
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(DefaultConfig()).Rectify(img, tt.quad)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDegenerateGeometry)
		})
	}
}

func TestRectifyCapsOutputSize(t *testing.T) {
	img := testutil.UniformImage(400, 300, color.White)
	quad := geometry.FullFrame(400, 300)

	out, err := New(Config{MaxOutputDim: 100}).Rectify(img, quad)
	require.NoError(t, err)

	b := out.Bounds()
	assert.Equal(t, 100, b.Dx())
	assert.Equal(t, 75, b.Dy())
}

func TestOutputSize(t *testing.T) {
	w, h := outputSize(800.4, 1099.6, 4096)
	assert.Equal(t, 800, w)
	assert.Equal(t, 1100, h)

	w, h = outputSize(8000, 4000, 4096)
	assert.Equal(t, 4096, w)
	assert.Equal(t, 2048, h)
}
