package drawing

import (
	"math"

	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/geom"
)

// PolygonsConfig lays out a grid of regular polygons whose side counts cycle
// from MinSides to MaxSides.
type PolygonsConfig struct {
	Rows     int     `json:"rows" toml:"rows"`
	Columns  int     `json:"columns" toml:"columns"`
	MinSides int     `json:"minSides" toml:"min_sides"`
	MaxSides int     `json:"maxSides" toml:"max_sides"`
	CellSize float64 `json:"cellSize" toml:"cell_size"`
	Padding  float64 `json:"padding" toml:"padding"`
	// Rotation turns every polygon, in degrees.
	Rotation float64 `json:"rotation" toml:"rotation"`
	Palette  string  `json:"palette" toml:"palette"`
}

// NewPolygonsConfig returns a 3x4 grid of triangles through octagons.
func NewPolygonsConfig() *PolygonsConfig {
	return &PolygonsConfig{
		Rows:     3,
		Columns:  4,
		MinSides: 3,
		MaxSides: 8,
		CellSize: 40,
		Padding:  4,
		Rotation: -90,
		Palette:  "molotow",
	}
}

// Validate checks grid dimensions and side counts.
func (c *PolygonsConfig) Validate() error {
	switch {
	case c.Rows < 1 || c.Columns < 1:
		return errors.New(errors.ErrCodeInvalidInput, "polygon grid needs at least one row and column")
	case c.MinSides < 3 || c.MaxSides < c.MinSides || c.MaxSides > 64:
		return errors.New(errors.ErrCodeInvalidInput, "polygon sides must satisfy 3 <= min <= max <= 64")
	case !(c.CellSize > 0) || c.Padding < 0 || 2*c.Padding >= c.CellSize:
		return errors.New(errors.ErrCodeInvalidInput, "cell size must exceed twice the padding")
	}
	return nil
}

// RegularPolygon returns the closed outline of an n-gon inscribed in the
// circle of radius r around center, starting at angle rot (radians).
func RegularPolygon(center geom.Point, r float64, n int, rot float64) geom.Polygon {
	out := make(geom.Polygon, 0, n+1)
	for i := 0; i < n; i++ {
		a := rot + 2*math.Pi*float64(i)/float64(n)
		out = append(out, geom.Pt(center.X+r*math.Cos(a), center.Y+r*math.Sin(a)))
	}
	return append(out, out[0])
}

func drawPolygons(c *PolygonsConfig) (*Scene, error) {
	palette, err := LookupPalette(c.Palette)
	if err != nil {
		return nil, err
	}
	scene := &Scene{
		Bounds:  geom.Bounds{Width: float64(c.Columns) * c.CellSize, Height: float64(c.Rows) * c.CellSize},
		Palette: palette,
	}
	span := c.MaxSides - c.MinSides + 1
	rot := c.Rotation * math.Pi / 180
	radius := c.CellSize/2 - c.Padding
	for row := 0; row < c.Rows; row++ {
		for col := 0; col < c.Columns; col++ {
			n := c.MinSides + (row*c.Columns+col)%span
			center := geom.Pt((float64(col)+0.5)*c.CellSize, (float64(row)+0.5)*c.CellSize)
			scene.Shapes = append(scene.Shapes, Polygon(RegularPolygon(center, radius, n, rot)))
		}
	}
	return scene, nil
}

// PolygonsDrawing fills a grid of regular polygons with the configured style.
var PolygonsDrawing = Define("polygons", "Regular Polygons",
	"Grid of regular polygons filled with the configured hatch style",
	NewPolygonsConfig, drawPolygons)
