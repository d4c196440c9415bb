package cmd

import (
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/draw"

	"github.com/spf13/cobra"

	"github.com/MeKo-Tech/descan/internal/imgio"
	"github.com/MeKo-Tech/descan/internal/scan"
)

var detectCmd = &cobra.Command{
	Use:   "detect [image files...]",
	Short: "Detect document bounds without processing",
	Long: `Detect the document outline in one or more captures and print the
corner coordinates as JSON, without running the full scan pipeline.

Examples:
  descan detect capture.jpg
  descan detect capture.jpg --overlay outline.png`,
	Args: cobra.MinimumNArgs(1),
	RunE: runDetect,
}

// detectOutput is the per-file JSON printed to stdout.
type detectOutput struct {
	File       string        `json:"file"`
	Width      int           `json:"width"`
	Height     int           `json:"height"`
	Confidence float64       `json:"confidence"`
	Bounds     detectCorners `json:"bounds"`
}

type detectCorners struct {
	TopLeft     [2]float64 `json:"top_left"`
	TopRight    [2]float64 `json:"top_right"`
	BottomRight [2]float64 `json:"bottom_right"`
	BottomLeft  [2]float64 `json:"bottom_left"`
}

func runDetect(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()
	overlayPath, _ := cmd.Flags().GetString("overlay")
	if overlayPath != "" && len(args) > 1 {
		return fmt.Errorf("--overlay works with a single input, got %d files", len(args))
	}

	scanner := scan.NewScanner(cfg.ScannerConfig())
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	for _, path := range args {
		img, err := imgio.LoadFile(path)
		if err != nil {
			return fmt.Errorf("processing %s: %w", path, err)
		}

		quad, confidence, err := scanner.DetectCropBounds(img)
		if err != nil {
			return fmt.Errorf("processing %s: %w", path, err)
		}

		b := img.Bounds()
		out := detectOutput{
			File:       path,
			Width:      b.Dx(),
			Height:     b.Dy(),
			Confidence: confidence,
			Bounds: detectCorners{
				TopLeft:     [2]float64{quad.TopLeft.X, quad.TopLeft.Y},
				TopRight:    [2]float64{quad.TopRight.X, quad.TopRight.Y},
				BottomRight: [2]float64{quad.BottomRight.X, quad.BottomRight.Y},
				BottomLeft:  [2]float64{quad.BottomLeft.X, quad.BottomLeft.Y},
			},
		}
		if err := enc.Encode(out); err != nil {
			return err
		}

		if overlayPath != "" {
			overlay := image.NewRGBA(b)
			draw.Draw(overlay, b, img, b.Min, draw.Src)
			imgio.DrawQuad(overlay, quad, color.RGBA{R: 255, A: 255}, 3)
			if err := imgio.SaveFile(overlay, overlayPath); err != nil {
				return fmt.Errorf("writing overlay: %w", err)
			}
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(detectCmd)
	detectCmd.Flags().String("overlay", "", "write a copy of the input with the detected outline drawn (single input only)")
}
