package drawing

import (
	"math"

	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/geom"
)

// LissajousConfig draws LayerCount curves, each with a slightly drifted
// phase and frequency.
type LissajousConfig struct {
	Width          float64 `json:"width" toml:"width"`
	Height         float64 `json:"height" toml:"height"`
	FreqA          float64 `json:"freqA" toml:"freq_a"`
	FreqB          float64 `json:"freqB" toml:"freq_b"`
	Phase          float64 `json:"phase" toml:"phase"`
	Amplitude      float64 `json:"amplitude" toml:"amplitude"`
	Samples        int     `json:"samples" toml:"samples"`
	LayerCount     int     `json:"layerCount" toml:"layer_count"`
	PhaseDrift     float64 `json:"phaseDrift" toml:"phase_drift"`
	FrequencyDrift float64 `json:"frequencyDrift" toml:"frequency_drift"`
	Palette        string  `json:"palette" toml:"palette"`
}

// NewLissajousConfig returns a 5:7 figure in two layers.
func NewLissajousConfig() *LissajousConfig {
	return &LissajousConfig{
		Width:          200,
		Height:         200,
		FreqA:          5,
		FreqB:          7,
		Phase:          0.25,
		Amplitude:      0.85,
		Samples:        3200,
		LayerCount:     2,
		PhaseDrift:     0.15,
		FrequencyDrift: 0.5,
		Palette:        "sakura",
	}
}

type lissajousParam struct {
	name     string
	value    float64
	min, max float64
}

// Validate checks every parameter against its range.
func (c *LissajousConfig) Validate() error {
	if !(c.Width > 0 && c.Height > 0) {
		return errors.New(errors.ErrCodeInvalidInput, "lissajous size must be positive")
	}
	params := []lissajousParam{
		{"freq_a", c.FreqA, 2, 15},
		{"freq_b", c.FreqB, 2, 15},
		{"phase", c.Phase, 0, math.Pi},
		{"amplitude", c.Amplitude, 0.3, 1},
		{"samples", float64(c.Samples), 2000, 5000},
		{"layer_count", float64(c.LayerCount), 1, 4},
		{"phase_drift", c.PhaseDrift, 0, 0.6},
		{"frequency_drift", c.FrequencyDrift, 0, 2},
	}
	for _, p := range params {
		if math.IsNaN(p.value) || p.value < p.min || p.value > p.max {
			return errors.New(errors.ErrCodeInvalidInput, "lissajous %s = %v outside [%v, %v]", p.name, p.value, p.min, p.max)
		}
	}
	return nil
}

func drawLissajous(c *LissajousConfig) (*Scene, error) {
	palette, err := LookupPalette(c.Palette)
	if err != nil {
		return nil, err
	}
	cx, cy := c.Width/2, c.Height/2
	sx, sy := cx*c.Amplitude, cy*c.Amplitude

	scene := &Scene{
		Bounds:  geom.Bounds{Width: c.Width, Height: c.Height},
		Palette: palette,
	}
	for layer := 0; layer < c.LayerCount; layer++ {
		phase := c.Phase + float64(layer)*c.PhaseDrift
		drift := 1 + float64(layer)*c.FrequencyDrift*0.05
		pts := make([]geom.Point, 0, c.Samples+1)
		for i := 0; i <= c.Samples; i++ {
			t := float64(i) / float64(c.Samples) * 2 * math.Pi
			pts = append(pts, geom.Pt(
				cx+math.Sin(c.FreqA*drift*t+phase)*sx,
				cy+math.Sin(c.FreqB*drift*t)*sy,
			))
		}
		scene.Shapes = append(scene.Shapes, Stroke(pts))
	}
	return scene, nil
}

// LissajousDrawing draws layered Lissajous figures as open strokes.
var LissajousDrawing = Define("lissajous", "Lissajous Curves",
	"Layered Lissajous figures with drifting phase and frequency",
	NewLissajousConfig, drawLissajous)
