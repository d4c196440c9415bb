package detector

// Config holds tuning knobs for quadrilateral detection. The area and
// confidence values are empirical policy constants, not physical ones;
// they are exposed here so they can be validated against a labeled
// image corpus.
type Config struct {
	WorkingSize        int     // max dimension of the downscaled analysis image
	MinAreaRatio       float64 // minimum document area as fraction of frame (default 0.15)
	MaxAreaRatio       float64 // above this the "document" is just the frame itself
	MorphKernelSize    int     // kernel for mask closing
	SimplifyEpsRatio   float64 // contour simplification epsilon, fraction of component size
	ExpandScale        float64 // outward contour expansion around centroid
	FallbackConfidence float64 // confidence reported with the full-frame fallback
	DebugDir           string  // if non-empty, writes quad overlay PNGs here
}

// DefaultConfig returns sensible detection defaults.
func DefaultConfig() Config {
	return Config{
		WorkingSize:        640,
		MinAreaRatio:       0.15,
		MaxAreaRatio:       0.98,
		MorphKernelSize:    5,
		SimplifyEpsRatio:   0.02,
		ExpandScale:        1.02,
		FallbackConfidence: 0.15,
		DebugDir:           "",
	}
}
