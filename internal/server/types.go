// Package server exposes the scan pipeline over HTTP: one-shot scan
// and detect endpoints plus a WebSocket protocol for interactive
// manual cropping.
package server

import (
	"context"
	"image"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/descan/internal/geometry"
	"github.com/MeKo-Tech/descan/internal/scan"
)

// scannerInterface defines the pipeline methods the server needs.
type scannerInterface interface {
	ScanDocument(ctx context.Context, img image.Image, cfg scan.Config) (*scan.Result, error)
	ScanBytes(ctx context.Context, data []byte, cfg scan.Config) (*scan.Result, error)
	DetectCropBounds(img image.Image) (geometry.Quad, float64, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	scanner      scannerInterface
	scanDefaults scan.Config
	corsOrigin   string
	maxUploadMB  int64
	timeoutSec   int
	jpegQuality  int
	rateLimiter  *RateLimiter
}

// Config holds server configuration.
type Config struct {
	Host         string
	Port         int
	CORSOrigin   string
	MaxUploadMB  int64
	TimeoutSec   int
	JPEGQuality  int
	Scanner      scan.ScannerConfig
	ScanDefaults scan.Config
	RateLimiter  *RateLimiter
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// PointPayload is a corner position in normalized [0,1] coordinates.
type PointPayload struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// QuadPayload is a crop quadrilateral in normalized coordinates.
type QuadPayload struct {
	TopLeft     PointPayload `json:"top_left"`
	TopRight    PointPayload `json:"top_right"`
	BottomRight PointPayload `json:"bottom_right"`
	BottomLeft  PointPayload `json:"bottom_left"`
}

// DetectResponse is the /detect payload.
type DetectResponse struct {
	Success    bool        `json:"success"`
	Bounds     QuadPayload `json:"bounds"`
	Confidence float64     `json:"confidence"`
	Width      int         `json:"width"`
	Height     int         `json:"height"`
}

// ErrorResponse is the JSON error payload for all endpoints.
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// quadToPayload converts a pixel quad into the wire format.
func quadToPayload(q geometry.Quad, width, height int) QuadPayload {
	n := q.Normalize(width, height)
	return QuadPayload{
		TopLeft:     PointPayload{X: n.TopLeft.X, Y: n.TopLeft.Y},
		TopRight:    PointPayload{X: n.TopRight.X, Y: n.TopRight.Y},
		BottomRight: PointPayload{X: n.BottomRight.X, Y: n.BottomRight.Y},
		BottomLeft:  PointPayload{X: n.BottomLeft.X, Y: n.BottomLeft.Y},
	}
}

// payloadToQuad converts the wire format back to pixel space.
func payloadToQuad(p QuadPayload, width, height int) geometry.Quad {
	n := geometry.NormalizedQuad{
		TopLeft:     geometry.NormalizedPoint{X: p.TopLeft.X, Y: p.TopLeft.Y},
		TopRight:    geometry.NormalizedPoint{X: p.TopRight.X, Y: p.TopRight.Y},
		BottomRight: geometry.NormalizedPoint{X: p.BottomRight.X, Y: p.BottomRight.Y},
		BottomLeft:  geometry.NormalizedPoint{X: p.BottomLeft.X, Y: p.BottomLeft.Y},
	}
	return n.ToPixel(width, height)
}

// NewServer creates a scan server instance.
func NewServer(config Config) (*Server, error) {
	defaults := config.ScanDefaults
	if err := defaults.Validate(); err != nil {
		return nil, err
	}
	if config.MaxUploadMB <= 0 {
		config.MaxUploadMB = 32
	}
	if config.JPEGQuality <= 0 || config.JPEGQuality > 100 {
		config.JPEGQuality = 92
	}
	return &Server{
		scanner:      scan.NewScanner(config.Scanner),
		scanDefaults: defaults,
		corsOrigin:   config.CORSOrigin,
		maxUploadMB:  config.MaxUploadMB,
		timeoutSec:   config.TimeoutSec,
		jpegQuality:  config.JPEGQuality,
		rateLimiter:  config.RateLimiter,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/scan", s.corsMiddleware(s.rateLimitMiddleware(s.scanHandler)))
	mux.HandleFunc("/detect", s.corsMiddleware(s.rateLimitMiddleware(s.detectHandler)))
	mux.HandleFunc("/crop/session", s.cropSessionHandler)
	mux.Handle("/metrics", promhttp.Handler())
}

// requestTimeout returns the per-request processing deadline.
func (s *Server) requestTimeout() time.Duration {
	if s.timeoutSec <= 0 {
		return 60 * time.Second
	}
	return time.Duration(s.timeoutSec) * time.Second
}
