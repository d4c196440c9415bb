// Package config defines the application configuration and its loading
// from files, environment variables and defaults.
package config

import (
	"fmt"
	"strings"

	"github.com/MeKo-Tech/descan/internal/detector"
	"github.com/MeKo-Tech/descan/internal/enhance"
	"github.com/MeKo-Tech/descan/internal/rectify"
	"github.com/MeKo-Tech/descan/internal/scan"
)

// Config is the root application configuration.
type Config struct {
	LogLevel string       `mapstructure:"log_level"`
	Verbose  bool         `mapstructure:"verbose"`
	Scan     ScanConfig   `mapstructure:"scan"`
	Detect   DetectConfig `mapstructure:"detect"`
	Server   ServerConfig `mapstructure:"server"`
	Output   OutputConfig `mapstructure:"output"`
}

// ScanConfig holds the default processing options for scan requests.
type ScanConfig struct {
	Filter          string `mapstructure:"filter"`
	RemoveShadows   bool   `mapstructure:"remove_shadows"`
	EnhanceContrast bool   `mapstructure:"enhance_contrast"`
	Sharpen         bool   `mapstructure:"sharpen"`
	AutoCrop        bool   `mapstructure:"auto_crop"`
	MaxWidth        int    `mapstructure:"max_width"`
}

// DetectConfig tunes document detection and crop acceptance.
type DetectConfig struct {
	WorkingSize         int     `mapstructure:"working_size"`
	MinAreaRatio        float64 `mapstructure:"min_area_ratio"`
	MaxAreaRatio        float64 `mapstructure:"max_area_ratio"`
	MinAcceptConfidence float64 `mapstructure:"min_accept_confidence"`
	MaxOutputDim        int     `mapstructure:"max_output_dim"`
	DebugDir            string  `mapstructure:"debug_dir"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	CORSOrigin      string `mapstructure:"cors_origin"`
	MaxUploadMB     int    `mapstructure:"max_upload_mb"`
	TimeoutSec      int    `mapstructure:"timeout_sec"`
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"`
}

// OutputConfig holds CLI output settings.
type OutputConfig struct {
	Format      string `mapstructure:"format"`
	JPEGQuality int    `mapstructure:"jpeg_quality"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	det := detector.DefaultConfig()
	return Config{
		LogLevel: "info",
		Scan: ScanConfig{
			Filter:          string(enhance.FilterColor),
			RemoveShadows:   true,
			EnhanceContrast: true,
			Sharpen:         true,
			AutoCrop:        true,
		},
		Detect: DetectConfig{
			WorkingSize:         det.WorkingSize,
			MinAreaRatio:        det.MinAreaRatio,
			MaxAreaRatio:        det.MaxAreaRatio,
			MinAcceptConfidence: scan.DefaultMinAcceptConfidence,
			MaxOutputDim:        rectify.DefaultConfig().MaxOutputDim,
		},
		Server: ServerConfig{
			Host:            "localhost",
			Port:            8080,
			CORSOrigin:      "*",
			MaxUploadMB:     32,
			TimeoutSec:      60,
			ShutdownTimeout: 10,
		},
		Output: OutputConfig{
			Format:      "png",
			JPEGQuality: 92,
		},
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	if _, err := enhance.ParseFilterMode(c.Scan.Filter); err != nil {
		return err
	}
	if c.Scan.MaxWidth < 0 {
		return fmt.Errorf("scan.max_width must be non-negative, got %d", c.Scan.MaxWidth)
	}
	if c.Detect.WorkingSize < 64 {
		return fmt.Errorf("detect.working_size must be at least 64, got %d", c.Detect.WorkingSize)
	}
	if c.Detect.MinAreaRatio <= 0 || c.Detect.MinAreaRatio >= 1 {
		return fmt.Errorf("detect.min_area_ratio must be in (0,1), got %g", c.Detect.MinAreaRatio)
	}
	if c.Detect.MaxAreaRatio <= c.Detect.MinAreaRatio || c.Detect.MaxAreaRatio > 1 {
		return fmt.Errorf("detect.max_area_ratio must be in (min_area_ratio,1], got %g", c.Detect.MaxAreaRatio)
	}
	if c.Detect.MinAcceptConfidence <= 0 || c.Detect.MinAcceptConfidence >= 1 {
		return fmt.Errorf("detect.min_accept_confidence must be in (0,1), got %g", c.Detect.MinAcceptConfidence)
	}
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.Output.Format != "png" && c.Output.Format != "jpeg" {
		return fmt.Errorf("invalid output format %q", c.Output.Format)
	}
	if c.Output.JPEGQuality < 1 || c.Output.JPEGQuality > 100 {
		return fmt.Errorf("jpeg quality must be in [1,100], got %d", c.Output.JPEGQuality)
	}
	return nil
}

// ScannerConfig translates the configuration into pipeline settings.
func (c *Config) ScannerConfig() scan.ScannerConfig {
	det := detector.DefaultConfig()
	det.WorkingSize = c.Detect.WorkingSize
	det.MinAreaRatio = c.Detect.MinAreaRatio
	det.MaxAreaRatio = c.Detect.MaxAreaRatio
	det.DebugDir = c.Detect.DebugDir

	rect := rectify.DefaultConfig()
	rect.MaxOutputDim = c.Detect.MaxOutputDim

	return scan.ScannerConfig{
		Detector:            det,
		Rectifier:           rect,
		MinAcceptConfidence: c.Detect.MinAcceptConfidence,
	}
}

// ScanRequest translates the configured defaults into a scan request.
func (c *Config) ScanRequest() scan.Config {
	return scan.Config{
		Filter:          enhance.FilterMode(c.Scan.Filter),
		RemoveShadows:   c.Scan.RemoveShadows,
		EnhanceContrast: c.Scan.EnhanceContrast,
		Sharpen:         c.Scan.Sharpen,
		AutoCrop:        c.Scan.AutoCrop,
		MaxWidth:        c.Scan.MaxWidth,
	}
}
