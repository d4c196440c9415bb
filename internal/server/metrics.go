package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "descan_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "descan_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Scan processing metrics
	scanRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "descan_scan_requests_total",
			Help: "Total number of scan requests",
		},
		[]string{"type", "status"}, // type: scan, detect
	)

	scanProcessingDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "descan_scan_processing_duration_seconds",
			Help:    "Scan processing duration in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"type"},
	)

	scanConfidence = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "descan_detection_confidence",
			Help:    "Confidence of document detection results",
			Buckets: []float64{0, .1, .2, .35, .5, .65, .8, .9, 1},
		},
	)

	// Rate limiting metrics
	rateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "descan_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"type"}, // type: requests, data
	)

	// File upload metrics
	uploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "descan_upload_size_bytes",
			Help:    "Size of uploaded captures in bytes",
			Buckets: []float64{10 * 1024, 100 * 1024, 1024 * 1024, 5 * 1024 * 1024, 10 * 1024 * 1024, 50 * 1024 * 1024},
		},
	)

	// WebSocket crop session metrics
	cropSessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "descan_crop_sessions_active",
			Help: "Number of active WebSocket crop sessions",
		},
	)

	cropSessionMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "descan_crop_session_messages_total",
			Help: "Total number of crop session WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)
