package server

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"strconv"
	"time"

	"github.com/MeKo-Tech/descan/internal/enhance"
	"github.com/MeKo-Tech/descan/internal/imgio"
	"github.com/MeKo-Tech/descan/internal/scan"
	"github.com/MeKo-Tech/descan/internal/version"
)

const (
	formatJSON = "json"
	formatJPEG = "jpeg"
	formatPNG  = "png"
)

// ScanJSONResponse is the /scan payload when format=json is requested.
type ScanJSONResponse struct {
	Success         bool        `json:"success"`
	AutoCropApplied bool        `json:"auto_crop_applied"`
	Confidence      float64     `json:"confidence"`
	CropBounds      QuadPayload `json:"crop_bounds"`
	Width           int         `json:"width"`
	Height          int         `json:"height"`
	// Image is the processed output as base64-encoded PNG.
	Image string `json:"image"`
}

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to encode health response", "error", err)
	}
}

// scanHandler processes one uploaded capture and returns the cleaned
// document image.
func (s *Server) scanHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	img, _, err := imgio.Decode(data)
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}
	b := img.Bounds()

	cfg, err := s.scanConfigFromRequest(r, b.Dx(), b.Dy())
	if err != nil {
		s.writeErrorResponse(w, err.Error(), http.StatusBadRequest)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.requestTimeout())
	defer cancel()

	start := time.Now()
	result, err := s.scanner.ScanDocument(ctx, img, cfg)
	duration := time.Since(start)
	if err != nil {
		scanRequestsTotal.WithLabelValues("scan", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Scan processing failed: %v", err), http.StatusInternalServerError)
		return
	}

	scanRequestsTotal.WithLabelValues("scan", "success").Inc()
	scanProcessingDuration.WithLabelValues("scan").Observe(duration.Seconds())
	scanConfidence.Observe(result.Confidence)

	s.writeScanResponse(w, r, result, b.Dx(), b.Dy())
}

// writeScanResponse encodes the result in the requested output format.
func (s *Server) writeScanResponse(w http.ResponseWriter, r *http.Request, result *scan.Result, origW, origH int) {
	w.Header().Set("X-Scan-Confidence", strconv.FormatFloat(result.Confidence, 'f', 3, 64))
	w.Header().Set("X-Scan-Auto-Crop", strconv.FormatBool(result.AutoCropApplied))

	switch formValue(r, "format", formatPNG) {
	case formatJSON:
		data, err := result.EncodePNG()
		if err != nil {
			s.writeErrorResponse(w, "Failed to encode output", http.StatusInternalServerError)
			return
		}
		pb := result.Processed.Bounds()
		resp := ScanJSONResponse{
			Success:         true,
			AutoCropApplied: result.AutoCropApplied,
			Confidence:      result.Confidence,
			CropBounds:      quadToPayload(result.CropBounds, origW, origH),
			Width:           pb.Dx(),
			Height:          pb.Dy(),
			Image:           base64.StdEncoding.EncodeToString(data),
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("Failed to encode scan response", "error", err)
		}
	case formatJPEG:
		data, err := result.EncodeJPEG(s.jpegQuality)
		if err != nil {
			s.writeErrorResponse(w, "Failed to encode output", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write(data)
	default:
		data, err := result.EncodePNG()
		if err != nil {
			s.writeErrorResponse(w, "Failed to encode output", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(data)
	}
}

// detectHandler runs document detection only and returns the proposed
// crop bounds.
func (s *Server) detectHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	data, ok := s.readUpload(w, r)
	if !ok {
		return
	}

	img, _, err := imgio.Decode(data)
	if err != nil {
		s.writeErrorResponse(w, "Invalid image format", http.StatusBadRequest)
		return
	}

	start := time.Now()
	quad, conf, err := s.scanner.DetectCropBounds(img)
	duration := time.Since(start)
	if err != nil {
		scanRequestsTotal.WithLabelValues("detect", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Detection failed: %v", err), http.StatusBadRequest)
		return
	}

	scanRequestsTotal.WithLabelValues("detect", "success").Inc()
	scanProcessingDuration.WithLabelValues("detect").Observe(duration.Seconds())
	scanConfidence.Observe(conf)

	b := img.Bounds()
	resp := DetectResponse{
		Success:    true,
		Bounds:     quadToPayload(quad, b.Dx(), b.Dy()),
		Confidence: conf,
		Width:      b.Dx(),
		Height:     b.Dy(),
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		slog.Error("Failed to encode detect response", "error", err)
	}
}

// readUpload extracts the multipart image upload from the request. On
// failure the error response has already been written.
func (s *Server) readUpload(w http.ResponseWriter, r *http.Request) ([]byte, bool) {
	maxBytes := s.maxUploadMB * 1024 * 1024
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := r.ParseMultipartForm(maxBytes); err != nil {
		s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		return nil, false
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		s.writeErrorResponse(w, "No image file provided", http.StatusBadRequest)
		return nil, false
	}
	defer func() { _ = closeUpload(file) }()

	if header.Size > maxBytes {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return nil, false
	}

	data, err := io.ReadAll(file)
	if err != nil {
		s.writeErrorResponse(w, "Failed to read image data", http.StatusInternalServerError)
		return nil, false
	}
	uploadSizeBytes.Observe(float64(len(data)))
	return data, true
}

func closeUpload(f multipart.File) error { return f.Close() }

// scanConfigFromRequest builds the scan request from the configured
// defaults plus per-request form overrides.
func (s *Server) scanConfigFromRequest(r *http.Request, width, height int) (scan.Config, error) {
	cfg := s.scanDefaults

	if v := formValue(r, "filter", ""); v != "" {
		mode, err := enhance.ParseFilterMode(v)
		if err != nil {
			return scan.Config{}, err
		}
		cfg.Filter = mode
	}
	var err error
	if cfg.RemoveShadows, err = formBool(r, "remove_shadows", cfg.RemoveShadows); err != nil {
		return scan.Config{}, err
	}
	if cfg.EnhanceContrast, err = formBool(r, "enhance_contrast", cfg.EnhanceContrast); err != nil {
		return scan.Config{}, err
	}
	if cfg.Sharpen, err = formBool(r, "sharpen", cfg.Sharpen); err != nil {
		return scan.Config{}, err
	}
	if cfg.AutoCrop, err = formBool(r, "auto_crop", cfg.AutoCrop); err != nil {
		return scan.Config{}, err
	}
	if v := formValue(r, "max_width", ""); v != "" {
		mw, err := strconv.Atoi(v)
		if err != nil || mw < 0 {
			return scan.Config{}, fmt.Errorf("invalid max_width %q", v)
		}
		cfg.MaxWidth = mw
	}

	// Explicit crop corners arrive as a JSON quad in normalized
	// coordinates and take precedence over auto crop.
	if v := formValue(r, "bounds", ""); v != "" {
		var payload QuadPayload
		if err := json.Unmarshal([]byte(v), &payload); err != nil {
			return scan.Config{}, fmt.Errorf("invalid bounds: %w", err)
		}
		quad := payloadToQuad(payload, width, height)
		cfg.CropBounds = &quad
	}
	return cfg, nil
}

// formValue reads a parameter from the form body or the query string.
func formValue(r *http.Request, key, fallback string) string {
	if v := r.FormValue(key); v != "" {
		return v
	}
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}

func formBool(r *http.Request, key string, fallback bool) (bool, error) {
	v := formValue(r, key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("invalid %s %q", key, v)
	}
	return b, nil
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := ErrorResponse{Success: false, Error: message}
	if err := json.NewEncoder(w).Encode(response); err != nil {
		slog.Error("Failed to write error response", "error", err)
	}
}
