package drawing

import (
	"sort"
	"strings"

	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/geom"
)

// Color is one pen.
type Color struct {
	Key  string `json:"key"`
	Name string `json:"name"`
	Hex  string `json:"hex"`
	Pen  string `json:"pen,omitempty"`
}

// Palette is an ordered set of pens. Layer indices follow palette order.
type Palette []Color

// Find returns the index of the colour whose key or name matches s.
func (p Palette) Find(s string) (int, bool) {
	for i, c := range p {
		if strings.EqualFold(c.Key, s) || strings.EqualFold(c.Name, s) {
			return i, true
		}
	}
	return -1, false
}

const (
	penMicron  = "Sakura Pigma Micron"
	penMolotow = "Molotow ONE4ALL"
)

// Palettes are the built-in pen sets.
var Palettes = map[string]Palette{
	"sakura": {
		{Key: "signalBlack", Name: "Signal Black", Hex: "#000000", Pen: penMicron},
		{Key: "trafficRed", Name: "Traffic Red", Hex: "#d51023", Pen: penMicron},
		{Key: "trueBlue", Name: "True Blue", Hex: "#004b9a", Pen: penMicron},
		{Key: "turquoise", Name: "Turquoise", Hex: "#00794d", Pen: penMicron},
		{Key: "violetDark", Name: "Violet Dark", Hex: "#1e1056", Pen: penMicron},
		{Key: "zincYellow", Name: "Zinc Yellow", Hex: "#fff713", Pen: penMicron},
	},
	"molotow": {
		{Key: "metallicBlack", Name: "Metallic Black", Hex: "#000000", Pen: penMolotow},
		{Key: "lobster", Name: "Lobster", Hex: "#be3218", Pen: penMolotow},
		{Key: "petrol", Name: "Petrol", Hex: "#004470", Pen: penMolotow},
		{Key: "lagoonBlue", Name: "Lagoon Blue", Hex: "#009994", Pen: penMolotow},
		{Key: "dareOrange", Name: "DARE Orange", Hex: "#ee7620", Pen: penMolotow},
		{Key: "currant", Name: "Currant", Hex: "#56407e", Pen: penMolotow},
		{Key: "grasshopper", Name: "Grasshopper", Hex: "#b1cc35", Pen: penMolotow},
		{Key: "fuchsiaPink", Name: "Fuchsia Pink", Hex: "#d36aa2", Pen: penMolotow},
	},
	"mono": {
		{Key: "black", Name: "Black", Hex: "#000000"},
	},
}

// DefaultPalette is used by scenes that do not choose one.
const DefaultPalette = "sakura"

// LookupPalette returns the named palette. The empty name selects
// DefaultPalette.
func LookupPalette(name string) (Palette, error) {
	if name == "" {
		name = DefaultPalette
	}
	if p, ok := Palettes[strings.ToLower(name)]; ok {
		return p, nil
	}
	names := make([]string, 0, len(Palettes))
	for n := range Palettes {
		names = append(names, n)
	}
	sort.Strings(names)
	return nil, errors.New(errors.ErrCodeInvalidInput, "unknown palette %q (want one of %s)", name, strings.Join(names, ", "))
}

const maxRecentColors = 3

// ColorPicker assigns pens to shapes so that touching shapes never share a
// colour and usage stays balanced.
type ColorPicker struct {
	palette Palette
	usage   []int
	recent  []int
	placed  []placement
}

type placement struct {
	rect  geom.Rect
	color int
}

// NewColorPicker returns a picker over p. p must not be empty.
func NewColorPicker(p Palette) *ColorPicker {
	return &ColorPicker{palette: p, usage: make([]int, len(p))}
}

// Pick chooses the palette index for a shape occupying r and records it.
// Colours already used by an adjacent shape are excluded; among the rest the
// least used wins, with recently used colours penalised. If every colour is
// excluded the least used overall is returned. Ties resolve in palette order.
func (c *ColorPicker) Pick(r geom.Rect) int {
	best, bestScore := -1, 0
	for i := range c.palette {
		if c.touches(r, i) {
			continue
		}
		score := c.usage[i] * 2
		if c.wasRecent(i) {
			score++
		}
		if best < 0 || score < bestScore {
			best, bestScore = i, score
		}
	}
	if best < 0 {
		best = 0
		for i, n := range c.usage {
			if n < c.usage[best] {
				best = i
			}
		}
	}

	c.usage[best]++
	c.recent = append([]int{best}, c.recent...)
	if len(c.recent) > maxRecentColors {
		c.recent = c.recent[:maxRecentColors]
	}
	c.placed = append(c.placed, placement{rect: r, color: best})
	return best
}

func (c *ColorPicker) touches(r geom.Rect, color int) bool {
	for _, p := range c.placed {
		if p.color == color && geom.RectsAdjacent(r, p.rect) {
			return true
		}
	}
	return false
}

func (c *ColorPicker) wasRecent(color int) bool {
	for _, i := range c.recent {
		if i == color {
			return true
		}
	}
	return false
}
