package scan

import (
	"context"
	"image"
	"image/color"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/descan/internal/enhance"
	"github.com/MeKo-Tech/descan/internal/geometry"
	"github.com/MeKo-Tech/descan/internal/imgio"
	"github.com/MeKo-Tech/descan/internal/testutil"
)

func newTestScanner() *Scanner {
	return NewScanner(DefaultScannerConfig())
}

func TestScanDocumentAutoCrop(t *testing.T) {
	fixture := testutil.DefaultDocumentImageConfig()
	img, _ := testutil.GenerateDocumentImage(fixture)

	result, err := newTestScanner().ScanDocument(context.Background(), img, DefaultConfig())
	require.NoError(t, err)

	assert.True(t, result.AutoCropApplied)
	assert.Greater(t, result.Confidence, 0.5)

	// Output aspect follows the physical document, not the frame.
	b := result.Processed.Bounds()
	gotAspect := float64(b.Dx()) / float64(b.Dy())
	wantAspect := float64(fixture.DocWidth) / float64(fixture.DocHeight)
	assert.InDelta(t, wantAspect, gotAspect, wantAspect*0.05)
	assert.Same(t, img, result.Original.(*image.RGBA))
}

func TestScanDocumentExplicitBounds(t *testing.T) {
	img, truth := testutil.GenerateDocumentImage(testutil.DefaultDocumentImageConfig())

	cfg := DefaultConfig()
	cfg.CropBounds = &truth

	result, err := newTestScanner().ScanDocument(context.Background(), img, cfg)
	require.NoError(t, err)

	// Explicit bounds bypass detection entirely but AutoCropApplied
	// still mirrors the request flag (true in DefaultConfig).
	assert.True(t, result.AutoCropApplied)
	assert.Equal(t, 1.0, result.Confidence)
	assert.Equal(t, truth, result.CropBounds)
}

func TestScanDocumentExplicitBoundsMirrorsAutoCropFlag(t *testing.T) {
	img, truth := testutil.GenerateDocumentImage(testutil.DefaultDocumentImageConfig())
	s := newTestScanner()

	for _, autoCrop := range []bool{true, false} {
		cfg := DefaultConfig()
		cfg.AutoCrop = autoCrop
		cfg.CropBounds = &truth

		result, err := s.ScanDocument(context.Background(), img, cfg)
		require.NoError(t, err)
		assert.Equal(t, autoCrop, result.AutoCropApplied)
		assert.Equal(t, 1.0, result.Confidence)
	}
}

func TestScanDocumentLowConfidenceKeepsFullFrame(t *testing.T) {
	img := testutil.UniformImage(640, 480, color.RGBA{180, 180, 180, 255})

	result, err := newTestScanner().ScanDocument(context.Background(), img, DefaultConfig())
	require.NoError(t, err)

	assert.False(t, result.AutoCropApplied)
	assert.Less(t, result.Confidence, DefaultMinAcceptConfidence)
	assert.Equal(t, geometry.FullFrame(640, 480), result.CropBounds)

	b := result.Processed.Bounds()
	assert.Equal(t, 640, b.Dx())
	assert.Equal(t, 480, b.Dy())
}

func TestScanDocumentNoCropNoEnhance(t *testing.T) {
	img := testutil.GradientImage(100, 80)

	cfg := Config{Filter: enhance.FilterColor}
	result, err := newTestScanner().ScanDocument(context.Background(), img, cfg)
	require.NoError(t, err)

	assert.False(t, result.AutoCropApplied)
	assert.Equal(t, 1.0, result.Confidence)

	// With every stage off the pixels pass through unchanged.
	wr, _, _, _ := img.At(50, 40).RGBA()
	gr, _, _, _ := result.Processed.At(50, 40).RGBA()
	assert.Equal(t, wr, gr)
}

func TestScanDocumentMaxWidth(t *testing.T) {
	img, _ := testutil.GenerateDocumentImage(testutil.DefaultDocumentImageConfig())

	cfg := DefaultConfig()
	cfg.MaxWidth = 400

	result, err := newTestScanner().ScanDocument(context.Background(), img, cfg)
	require.NoError(t, err)
	assert.LessOrEqual(t, result.Processed.Bounds().Dx(), 400)
}

func TestScanDocumentMaxWidthDownscalesAfterEnhancement(t *testing.T) {
	img := testutil.GradientImage(800, 600)

	cfg := Config{Filter: enhance.FilterBlackWhite, MaxWidth: 400}
	result, err := newTestScanner().ScanDocument(context.Background(), img, cfg)
	require.NoError(t, err)

	// Binarization must see the full-resolution image; the width cap
	// shrinks the finished output afterwards. Both paths are
	// deterministic, so the pixels match exactly.
	enhanced, err := enhance.Apply(img, enhance.Options{Filter: enhance.FilterBlackWhite})
	require.NoError(t, err)
	want := imaging.Resize(enhanced, 400, 0, imaging.Box)

	got, ok := result.Processed.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, want.Pix, got.Pix)
}

func TestScanDocumentInvalidConfig(t *testing.T) {
	img := testutil.UniformImage(100, 100, color.White)

	cfg := DefaultConfig()
	cfg.Filter = enhance.FilterMode("invert")

	_, err := newTestScanner().ScanDocument(context.Background(), img, cfg)
	assert.Error(t, err)

	cfg = DefaultConfig()
	cfg.MaxWidth = -5
	_, err = newTestScanner().ScanDocument(context.Background(), img, cfg)
	assert.Error(t, err)
}

func TestScanDocumentTooSmall(t *testing.T) {
	img := testutil.UniformImage(1, 1, color.White)

	_, err := newTestScanner().ScanDocument(context.Background(), img, DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestScanDocumentCancelledContext(t *testing.T) {
	img, _ := testutil.GenerateDocumentImage(testutil.DefaultDocumentImageConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestScanner().ScanDocument(ctx, img, DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScanBytes(t *testing.T) {
	img, _ := testutil.GenerateDocumentImage(testutil.DefaultDocumentImageConfig())
	data, err := imgio.EncodePNG(img)
	require.NoError(t, err)

	result, err := newTestScanner().ScanBytes(context.Background(), data, DefaultConfig())
	require.NoError(t, err)
	assert.True(t, result.AutoCropApplied)

	encoded, err := result.EncodePNG()
	require.NoError(t, err)
	assert.NotEmpty(t, encoded)
}

func TestScanBytesInvalidData(t *testing.T) {
	s := newTestScanner()

	_, err := s.ScanBytes(context.Background(), []byte("not an image"), DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidImage)

	_, err = s.ScanBytes(context.Background(), nil, DefaultConfig())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidImage)
}

func TestScanDocumentBlackWhiteDeterministic(t *testing.T) {
	img, _ := testutil.GenerateDocumentImage(testutil.DefaultDocumentImageConfig())

	cfg := DefaultConfig()
	cfg.Filter = enhance.FilterBlackWhite

	s := newTestScanner()
	first, err := s.ScanDocument(context.Background(), img, cfg)
	require.NoError(t, err)
	second, err := s.ScanDocument(context.Background(), img, cfg)
	require.NoError(t, err)

	a, ok := first.Processed.(*image.NRGBA)
	require.True(t, ok)
	b, ok := second.Processed.(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, a.Pix, b.Pix)
}

func TestDetectCropBounds(t *testing.T) {
	img, truth := testutil.GenerateDocumentImage(testutil.DefaultDocumentImageConfig())

	quad, conf, err := newTestScanner().DetectCropBounds(img)
	require.NoError(t, err)
	assert.Greater(t, conf, 0.5)
	assert.InDelta(t, truth.Area(), quad.Area(), truth.Area()*0.15)
}
