package drawing

import (
	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/geom"
)

// SimplePerfectRectangle is the order-17 perfect squared rectangle of size
// 403x285.
var SimplePerfectRectangle = []int{17, 403, 285, 148, 111, 144, 75, 36, 3, 141, 39, 58, 37, 53, 21, 16, 15, 99, 84, 79}

// LineSettings tunes the per-square fill of block drawings. Spacing and
// StrokeWidth are paper millimetres; VertexGap is in drawing units and
// shrinks every square so neighbours do not share an edge.
type LineSettings struct {
	Spacing     float64 `json:"spacing" toml:"spacing"`
	StrokeWidth float64 `json:"strokeWidth" toml:"stroke_width"`
	VertexGap   float64 `json:"vertexGap" toml:"vertex_gap"`
}

// BouwkampConfig describes a squared rectangle by its Bouwkamp code:
// order, width, height, then the side of every square in placement order.
type BouwkampConfig struct {
	Code    []int        `json:"code" toml:"code"`
	Line    LineSettings `json:"line" toml:"line"`
	Palette string       `json:"palette" toml:"palette"`
}

// NewBouwkampConfig returns the simple perfect rectangle preset.
func NewBouwkampConfig() *BouwkampConfig {
	return &BouwkampConfig{
		Code:    append([]int(nil), SimplePerfectRectangle...),
		Line:    LineSettings{Spacing: 2, StrokeWidth: 0.85, VertexGap: 0.2},
		Palette: "sakura",
	}
}

// Validate checks the code and line settings.
func (c *BouwkampConfig) Validate() error {
	if err := ValidateBouwkampCode(c.Code); err != nil {
		return err
	}
	if c.Line.Spacing < 0 || c.Line.StrokeWidth < 0 || c.Line.VertexGap < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "bouwkamp line settings must be non-negative")
	}
	if 2*c.Line.VertexGap >= float64(minInt(c.Code[3:])) {
		return errors.New(errors.ErrCodeInvalidInput, "vertex gap %v swallows the smallest square", c.Line.VertexGap)
	}
	return nil
}

// ValidateBouwkampCode checks that code is non-empty, that its length
// matches its order and that every value is a positive integer whose
// squares exactly tile the rectangle.
func ValidateBouwkampCode(code []int) error {
	if len(code) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "invalid Bouwkamp code: the code is empty")
	}
	if len(code)-3 != code[0] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid Bouwkamp code: the code has the wrong length")
	}
	area := 0
	for i, v := range code {
		if v <= 0 {
			return errors.New(errors.ErrCodeInvalidInput, "invalid Bouwkamp code: all values must be positive integers")
		}
		if i >= 3 {
			area += v * v
		}
	}
	if area != code[1]*code[2] {
		return errors.New(errors.ErrCodeInvalidInput, "invalid Bouwkamp code: squares cover %d units, rectangle has %d", area, code[1]*code[2])
	}
	return nil
}

// PlaceSquares returns the position of every square in a valid code. Each
// square goes into the leftmost lowest gap of the skyline.
func PlaceSquares(code []int) ([]geom.Rect, error) {
	width, height := code[1], code[2]
	skyline := make([]int, width)
	rects := make([]geom.Rect, 0, code[0])
	for _, size := range code[3:] {
		i := 0
		for j := 1; j < width; j++ {
			if skyline[j] < skyline[i] {
				i = j
			}
		}
		if i+size > width || skyline[i]+size > height {
			return nil, errors.New(errors.ErrCodeInvalidInput, "invalid Bouwkamp code: square %d does not fit at (%d, %d)", size, i, skyline[i])
		}
		rects = append(rects, geom.Rect{X: float64(i), Y: float64(skyline[i]), Width: float64(size), Height: float64(size)})
		for j := i; j < i+size; j++ {
			skyline[j] += size
		}
	}
	return rects, nil
}

func drawBouwkamp(c *BouwkampConfig) (*Scene, error) {
	palette, err := LookupPalette(c.Palette)
	if err != nil {
		return nil, err
	}
	squares, err := PlaceSquares(c.Code)
	if err != nil {
		return nil, err
	}
	scene := &Scene{
		Bounds:  geom.Bounds{Width: float64(c.Code[1]), Height: float64(c.Code[2])},
		Palette: palette,
	}
	for _, sq := range squares {
		block := Block(sq.Inset(c.Line.VertexGap))
		block.Spacing = c.Line.Spacing
		block.LineWidth = c.Line.StrokeWidth
		scene.Shapes = append(scene.Shapes, block)
	}
	return scene, nil
}

// BouwkampDrawing fills every square of a squared rectangle.
var BouwkampDrawing = Define("bouwkamp", "Bouwkamp Code",
	"Squared rectangle from a Bouwkamp code, one filled block per square",
	NewBouwkampConfig, drawBouwkamp)

func minInt(vs []int) int {
	m := vs[0]
	for _, v := range vs[1:] {
		m = min(m, v)
	}
	return m
}
