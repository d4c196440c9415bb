package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/descan/internal/enhance"
	"github.com/MeKo-Tech/descan/internal/geometry"
	"github.com/MeKo-Tech/descan/internal/imgio"
	"github.com/MeKo-Tech/descan/internal/scan"
)

var scanCmd = &cobra.Command{
	Use:   "scan [image files...]",
	Short: "Process document captures into clean scans",
	Long: `Process one or more photographed documents: detect the page,
correct the perspective, clean up lighting and save the result.

Examples:
  descan scan capture.jpg
  descan scan capture.jpg -o scan.png
  descan scan a.jpg b.jpg --output-dir scans/ --filter grayscale
  descan scan capture.jpg --auto-crop=false`,
	Args: cobra.MinimumNArgs(1),
	RunE: runScan,
}

// scanOptions bundles everything one scan invocation needs.
type scanOptions struct {
	request   scan.Config
	bounds    *geometry.NormalizedQuad
	format    string
	quality   int
	output    string
	outputDir string
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	opts, err := scanOptionsFromFlags(cmd, cfg.ScanRequest())
	if err != nil {
		return err
	}
	opts.format = cfg.Output.Format
	opts.quality = cfg.Output.JPEGQuality
	if opts.output != "" && len(args) > 1 {
		return fmt.Errorf("--output works with a single input; use --output-dir for %d files", len(args))
	}

	scanner := scan.NewScanner(cfg.ScannerConfig())
	for _, path := range args {
		if err := scanOne(cmd.Context(), scanner, opts, path); err != nil {
			return fmt.Errorf("processing %s: %w", path, err)
		}
	}
	return nil
}

func scanOne(ctx context.Context, scanner *scan.Scanner, opts scanOptions, path string) error {
	img, err := imgio.LoadFile(path)
	if err != nil {
		return err
	}

	request := opts.request
	if opts.bounds != nil {
		b := img.Bounds()
		quad := opts.bounds.ToPixel(b.Dx(), b.Dy())
		request.CropBounds = &quad
	}

	result, err := scanner.ScanDocument(ctx, img, request)
	if err != nil {
		return err
	}

	outPath := resolveOutputPath(path, opts)
	if err := saveResult(result, outPath, opts.format, opts.quality); err != nil {
		return err
	}

	slog.Info("Saved scan",
		"input", path,
		"output", outPath,
		"auto_crop", result.AutoCropApplied,
		"confidence", result.Confidence)
	return nil
}

// resolveOutputPath picks the destination file for a processed scan.
func resolveOutputPath(input string, opts scanOptions) string {
	if opts.output != "" {
		return opts.output
	}
	ext := "." + opts.format
	if opts.format == "jpeg" {
		ext = ".jpg"
	}
	base := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input)) + "_scan" + ext
	if opts.outputDir != "" {
		return filepath.Join(opts.outputDir, base)
	}
	return filepath.Join(filepath.Dir(input), base)
}

func saveResult(result *scan.Result, path, format string, quality int) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return err
		}
	}
	var data []byte
	var err error
	if format == "jpeg" {
		data, err = result.EncodeJPEG(quality)
	} else {
		data, err = result.EncodePNG()
	}
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}

// scanOptionsFromFlags layers explicit CLI flags over the configured
// defaults.
func scanOptionsFromFlags(cmd *cobra.Command, request scan.Config) (scanOptions, error) {
	opts := scanOptions{}
	opts.output, _ = cmd.Flags().GetString("output")
	opts.outputDir, _ = cmd.Flags().GetString("output-dir")

	if cmd.Flags().Changed("filter") {
		v, _ := cmd.Flags().GetString("filter")
		mode, err := enhance.ParseFilterMode(v)
		if err != nil {
			return scanOptions{}, err
		}
		request.Filter = mode
	}
	if cmd.Flags().Changed("remove-shadows") {
		request.RemoveShadows, _ = cmd.Flags().GetBool("remove-shadows")
	}
	if cmd.Flags().Changed("enhance-contrast") {
		request.EnhanceContrast, _ = cmd.Flags().GetBool("enhance-contrast")
	}
	if cmd.Flags().Changed("sharpen") {
		request.Sharpen, _ = cmd.Flags().GetBool("sharpen")
	}
	if cmd.Flags().Changed("auto-crop") {
		request.AutoCrop, _ = cmd.Flags().GetBool("auto-crop")
	}
	if cmd.Flags().Changed("max-width") {
		request.MaxWidth, _ = cmd.Flags().GetInt("max-width")
	}
	if v, _ := cmd.Flags().GetString("bounds"); v != "" {
		bounds, err := parseBoundsFlag(v)
		if err != nil {
			return scanOptions{}, err
		}
		opts.bounds = bounds
	}
	opts.request = request
	return opts, nil
}

// parseBoundsFlag decodes the --bounds JSON: four corners in
// normalized [0,1] coordinates, converted to pixel space per image.
func parseBoundsFlag(v string) (*geometry.NormalizedQuad, error) {
	var payload struct {
		TopLeft     pointJSON `json:"top_left"`
		TopRight    pointJSON `json:"top_right"`
		BottomRight pointJSON `json:"bottom_right"`
		BottomLeft  pointJSON `json:"bottom_left"`
	}
	if err := json.Unmarshal([]byte(v), &payload); err != nil {
		return nil, fmt.Errorf("invalid --bounds: %w", err)
	}
	quad := geometry.NormalizedQuad{
		TopLeft:     geometry.NormalizedPoint{X: payload.TopLeft.X, Y: payload.TopLeft.Y},
		TopRight:    geometry.NormalizedPoint{X: payload.TopRight.X, Y: payload.TopRight.Y},
		BottomRight: geometry.NormalizedPoint{X: payload.BottomRight.X, Y: payload.BottomRight.Y},
		BottomLeft:  geometry.NormalizedPoint{X: payload.BottomLeft.X, Y: payload.BottomLeft.Y},
	}
	for _, p := range []geometry.NormalizedPoint{quad.TopLeft, quad.TopRight, quad.BottomRight, quad.BottomLeft} {
		if p.X < 0 || p.X > 1 || p.Y < 0 || p.Y > 1 {
			return nil, fmt.Errorf("invalid --bounds: corner (%g, %g) outside [0,1]", p.X, p.Y)
		}
	}
	return &quad, nil
}

type pointJSON struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().StringP("output", "o", "", "output file path (single input only)")
	scanCmd.Flags().String("output-dir", "", "directory for output files")
	scanCmd.Flags().String("filter", "", "output filter: color, grayscale, blackwhite")
	scanCmd.Flags().Bool("remove-shadows", true, "remove uneven illumination")
	scanCmd.Flags().Bool("enhance-contrast", true, "stretch contrast")
	scanCmd.Flags().Bool("sharpen", true, "sharpen the output")
	scanCmd.Flags().Bool("auto-crop", true, "detect and crop the document automatically")
	scanCmd.Flags().Int("max-width", 0, "cap output width in pixels (0 = no cap)")
	scanCmd.Flags().String("bounds", "", "explicit crop corners as JSON in normalized coordinates")
}
