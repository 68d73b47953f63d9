package drawing

import (
	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/geom"
	"github.com/sdjayna/penplot/pkg/hatch"
)

// CalibrationConfig lays out a grid of swatches: one column per fill style,
// one row per spacing between MinSpacing and MaxSpacing.
type CalibrationConfig struct {
	Width       float64 `json:"width" toml:"width"`
	Height      float64 `json:"height" toml:"height"`
	MinSpacing  float64 `json:"minSpacing" toml:"min_spacing"`
	MaxSpacing  float64 `json:"maxSpacing" toml:"max_spacing"`
	Samples     int     `json:"samples" toml:"samples"`
	TilePadding float64 `json:"tilePadding" toml:"tile_padding"`
	Palette     string  `json:"palette" toml:"palette"`
}

// NewCalibrationConfig returns six rows from 0.45mm to 3mm.
func NewCalibrationConfig() *CalibrationConfig {
	return &CalibrationConfig{
		Width:       200,
		Height:      150,
		MinSpacing:  0.45,
		MaxSpacing:  3,
		Samples:     6,
		TilePadding: 4,
		Palette:     "mono",
	}
}

// Validate checks sizes and the spacing range.
func (c *CalibrationConfig) Validate() error {
	switch {
	case !(c.Width > 0 && c.Height > 0):
		return errors.New(errors.ErrCodeInvalidInput, "calibration size must be positive")
	case c.MinSpacing < hatch.MinSpacing || c.MaxSpacing > 25:
		return errors.New(errors.ErrCodeInvalidInput, "calibration spacing must lie within [%v, 25]", hatch.MinSpacing)
	case c.MaxSpacing < c.MinSpacing:
		return errors.New(errors.ErrCodeInvalidInput, "max spacing %v is below min spacing %v", c.MaxSpacing, c.MinSpacing)
	case c.Samples < 2:
		return errors.New(errors.ErrCodeInvalidInput, "calibration needs at least 2 samples")
	case c.TilePadding < 0:
		return errors.New(errors.ErrCodeInvalidInput, "tile padding must be non-negative")
	}
	return nil
}

// calibrationStyles are the swatch columns.
var calibrationStyles = []hatch.Style{hatch.StyleScanline, hatch.StyleSerpentine, hatch.StyleContour, hatch.StyleSkeleton}

// SpacingAt returns the spacing of swatch row i.
func (c *CalibrationConfig) SpacingAt(i int) float64 {
	if c.Samples <= 1 {
		return c.MaxSpacing
	}
	return c.MinSpacing + float64(i)/float64(c.Samples-1)*(c.MaxSpacing-c.MinSpacing)
}

func drawCalibration(c *CalibrationConfig) (*Scene, error) {
	palette, err := LookupPalette(c.Palette)
	if err != nil {
		return nil, err
	}
	cols, rows := float64(len(calibrationStyles)), float64(c.Samples)
	tileW := max((c.Width-c.TilePadding*(cols+1))/cols, 1)
	tileH := max((c.Height-c.TilePadding*(rows+1))/rows, 1)

	scene := &Scene{
		Bounds:  geom.Bounds{Width: c.Width, Height: c.Height},
		Palette: palette,
	}
	for row := 0; row < c.Samples; row++ {
		for col, style := range calibrationStyles {
			cell := Block(geom.Rect{
				X:      c.TilePadding + float64(col)*(tileW+c.TilePadding),
				Y:      c.TilePadding + float64(row)*(tileH+c.TilePadding),
				Width:  tileW,
				Height: tileH,
			})
			cell.Style = style
			cell.Spacing = c.SpacingAt(row)
			cell.Color = palette[0].Key
			scene.Shapes = append(scene.Shapes, cell)
		}
	}
	return scene, nil
}

// CalibrationDrawing draws hatch swatches for tuning spacing to a pen.
var CalibrationDrawing = Define("calibration", "Calibration Patterns",
	"Grid of fill swatches, one column per style and one row per spacing",
	NewCalibrationConfig, drawCalibration)
