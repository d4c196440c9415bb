package enhance

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/descan/internal/testutil"
)

func TestParseFilterMode(t *testing.T) {
	tests := []struct {
		in      string
		want    FilterMode
		wantErr bool
	}{
		{in: "color", want: FilterColor},
		{in: "grayscale", want: FilterGrayscale},
		{in: "blackwhite", want: FilterBlackWhite},
		{in: "sepia", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseFilterMode(tt.in)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}
}

func TestApplyAllStagesDisabledKeepsPixels(t *testing.T) {
	img := testutil.GradientImage(64, 48)

	out, err := Apply(img, Options{Filter: FilterColor})
	require.NoError(t, err)

	b := out.Bounds()
	require.Equal(t, img.Bounds().Dx(), b.Dx())
	require.Equal(t, img.Bounds().Dy(), b.Dy())
	for _, p := range []image.Point{{X: 0, Y: 0}, {X: 32, Y: 24}, {X: 63, Y: 47}} {
		wr, wg, wb, _ := img.At(p.X, p.Y).RGBA()
		gr, gg, gb, _ := out.At(p.X, p.Y).RGBA()
		assert.Equal(t, wr, gr)
		assert.Equal(t, wg, gg)
		assert.Equal(t, wb, gb)
	}
}

func TestApplyRejectsUnknownFilter(t *testing.T) {
	img := testutil.UniformImage(8, 8, color.White)

	_, err := Apply(img, Options{Filter: FilterMode("negative")})
	require.Error(t, err)

	var stageErr *StageError
	require.ErrorAs(t, err, &stageErr)
	assert.Equal(t, "filter", stageErr.Stage)
}

func TestStretchContrastExpandsRange(t *testing.T) {
	// Low-contrast image: values only span 100..160.
	img := image.NewNRGBA(image.Rect(0, 0, 64, 64))
	for y := 0; y < 64; y++ {
		for x := 0; x < 64; x++ {
			v := uint8(100 + 60*x/64)
			o := y*img.Stride + x*4
			img.Pix[o] = v
			img.Pix[o+1] = v
			img.Pix[o+2] = v
			img.Pix[o+3] = 255
		}
	}

	out := stretchContrast(img)

	minV, maxV := 255, 0
	b := out.Bounds()
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			v := int(out.Pix[y*out.Stride+x*4])
			if v < minV {
				minV = v
			}
			if v > maxV {
				maxV = v
			}
		}
	}
	assert.Less(t, minV, 20)
	assert.Greater(t, maxV, 235)
}

func TestStretchContrastUniformImageUnchanged(t *testing.T) {
	img := testutil.UniformImage(32, 32, color.RGBA{140, 140, 140, 255})

	out := stretchContrast(img)

	v := out.Pix[16*out.Stride+16*4]
	assert.Equal(t, uint8(140), v)
}

func TestRemoveShadowsLiftsDarkSide(t *testing.T) {
	// Horizontal illumination gradient, as if lit from the right.
	img := testutil.GradientImage(128, 96)

	out, err := removeShadows(img)
	require.NoError(t, err)

	leftBefore := img.RGBAAt(10, 48).R
	leftAfter := out.Pix[48*out.Stride+10*4]
	rightBefore := img.RGBAAt(118, 48).R
	rightAfter := out.Pix[48*out.Stride+118*4]

	// The dark side brightens substantially; the bright side never dims.
	assert.Greater(t, leftAfter, leftBefore+30)
	assert.GreaterOrEqual(t, rightAfter, rightBefore)
}

func TestRemoveShadowsTooSmall(t *testing.T) {
	img := testutil.UniformImage(2, 2, color.White)
	_, err := removeShadows(img)
	assert.Error(t, err)
}

func TestBinarizeAdaptiveIsPureBlackWhite(t *testing.T) {
	cfg := testutil.DefaultDocumentImageConfig()
	cfg.Width, cfg.Height = 300, 400
	cfg.DocWidth, cfg.DocHeight = 200, 280
	img, _ := testutil.GenerateDocumentImage(cfg)

	out, err := Apply(img, Options{Filter: FilterBlackWhite})
	require.NoError(t, err)

	b := out.Bounds()
	for y := 0; y < b.Dy(); y += 7 {
		for x := 0; x < b.Dx(); x += 7 {
			r, g, bl, _ := out.At(x, y).RGBA()
			v := r >> 8
			require.Equal(t, v, g>>8)
			require.Equal(t, v, bl>>8)
			require.Truef(t, v == 0 || v == 255, "pixel (%d,%d) = %d", x, y, v)
		}
	}
}

func TestBinarizeAdaptiveDeterministic(t *testing.T) {
	img, _ := testutil.GenerateDocumentImage(testutil.DefaultDocumentImageConfig())

	first, err := Apply(img, Options{Filter: FilterBlackWhite})
	require.NoError(t, err)
	second, err := Apply(img, Options{Filter: FilterBlackWhite})
	require.NoError(t, err)

	a, ok := first.(*image.NRGBA)
	require.True(t, ok)
	b, ok := second.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestApplyGrayscaleOutput(t *testing.T) {
	img, _ := testutil.GenerateDocumentImage(testutil.DefaultDocumentImageConfig())

	out, err := Apply(img, Options{Filter: FilterGrayscale})
	require.NoError(t, err)

	b := out.Bounds()
	for y := 0; y < b.Dy(); y += 50 {
		for x := 0; x < b.Dx(); x += 50 {
			r, g, bl, _ := out.At(x, y).RGBA()
			require.Equal(t, r, g)
			require.Equal(t, r, bl)
		}
	}
}
