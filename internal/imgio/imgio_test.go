package imgio

import (
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/descan/internal/geometry"
)

func TestIsSupportedImage(t *testing.T) {
	assert.True(t, IsSupportedImage("page.jpg"))
	assert.True(t, IsSupportedImage("PAGE.PNG"))
	assert.True(t, IsSupportedImage("scan.bmp"))
	assert.False(t, IsSupportedImage("doc.pdf"))
	assert.False(t, IsSupportedImage("noext"))
}

func TestEncodeDecodePNG(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 8, 8))
	img.SetRGBA(3, 4, color.RGBA{R: 200, G: 100, B: 50, A: 255})

	data, err := EncodePNG(img)
	require.NoError(t, err)

	decoded, format, err := Decode(data)
	require.NoError(t, err)
	assert.Equal(t, "png", format)

	r, g, b, _ := decoded.At(3, 4).RGBA()
	assert.Equal(t, uint32(200), r>>8)
	assert.Equal(t, uint32(100), g>>8)
	assert.Equal(t, uint32(50), b>>8)
}

func TestDecodeEmptyData(t *testing.T) {
	_, _, err := Decode(nil)
	require.Error(t, err)
}

func TestLoadFileRejectsUnsupportedExtension(t *testing.T) {
	_, err := LoadFile("document.tiff")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestSaveAndLoadFile(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 16, 16))
	path := filepath.Join(t.TempDir(), "out.png")

	require.NoError(t, SaveFile(img, path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())

	loaded, err := LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 16, loaded.Bounds().Dx())
}

func TestDrawQuadMarksCorners(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 100, 100))
	quad := geometry.Quad{
		TopLeft:     geometry.PixelPoint{X: 10, Y: 10},
		TopRight:    geometry.PixelPoint{X: 90, Y: 10},
		BottomRight: geometry.PixelPoint{X: 90, Y: 90},
		BottomLeft:  geometry.PixelPoint{X: 10, Y: 90},
	}
	red := color.RGBA{R: 255, A: 255}
	DrawQuad(img, quad, red, 1)

	assert.Equal(t, red, img.RGBAAt(10, 10))
	assert.Equal(t, red, img.RGBAAt(50, 10))
	assert.Equal(t, red, img.RGBAAt(90, 50))
	assert.Equal(t, color.RGBA{}, img.RGBAAt(50, 50))
}
