package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "trace" }},
		{name: "bad filter", mutate: func(c *Config) { c.Scan.Filter = "sepia" }},
		{name: "negative max width", mutate: func(c *Config) { c.Scan.MaxWidth = -1 }},
		{name: "tiny working size", mutate: func(c *Config) { c.Detect.WorkingSize = 10 }},
		{name: "min area out of range", mutate: func(c *Config) { c.Detect.MinAreaRatio = 0 }},
		{name: "max area below min", mutate: func(c *Config) { c.Detect.MaxAreaRatio = 0.1 }},
		{name: "confidence out of range", mutate: func(c *Config) { c.Detect.MinAcceptConfidence = 1.5 }},
		{name: "bad port", mutate: func(c *Config) { c.Server.Port = 0 }},
		{name: "bad output format", mutate: func(c *Config) { c.Output.Format = "webp" }},
		{name: "bad jpeg quality", mutate: func(c *Config) { c.Output.JPEGQuality = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestScannerConfigPropagation(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Detect.WorkingSize = 320
	cfg.Detect.MinAcceptConfidence = 0.5
	cfg.Detect.MaxOutputDim = 2048

	sc := cfg.ScannerConfig()
	assert.Equal(t, 320, sc.Detector.WorkingSize)
	assert.Equal(t, 0.5, sc.MinAcceptConfidence)
	assert.Equal(t, 2048, sc.Rectifier.MaxOutputDim)
}

func TestLoadWithFile(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "descan.yaml")
	content := []byte("log_level: debug\nscan:\n  filter: grayscale\n  max_width: 1500\nserver:\n  port: 9000\n")
	require.NoError(t, os.WriteFile(path, content, 0o600))

	cfg, err := NewLoader().LoadWithFile(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "grayscale", cfg.Scan.Filter)
	assert.Equal(t, 1500, cfg.Scan.MaxWidth)
	assert.Equal(t, 9000, cfg.Server.Port)
	// Unset keys keep their defaults.
	assert.Equal(t, DefaultConfig().Detect.WorkingSize, cfg.Detect.WorkingSize)
}

func TestLoadWithFileMissing(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	_, err := NewLoader().LoadWithFile("/nonexistent/descan.yaml")
	assert.Error(t, err)
}

func TestLoadWithFileInvalidValues(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "descan.yaml")
	require.NoError(t, os.WriteFile(path, []byte("scan:\n  filter: sepia\n"), 0o600))

	_, err := NewLoader().LoadWithFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "filter")
}
