// Package paper describes the sheets a plotter draws on.
//
// Sizes are in millimetres. A [Paper] is stored portrait (width <= height);
// [Paper.Size] applies an [Orientation].
package paper

import (
	"math"
	"sort"
	"strings"

	"github.com/sdjayna/penplot/pkg/errors"
)

// Orientation selects which paper axis is horizontal.
type Orientation string

const (
	Landscape Orientation = "landscape"
	Portrait  Orientation = "portrait"
)

// ParseOrientation resolves an orientation name. The empty string selects
// Landscape.
func ParseOrientation(s string) (Orientation, error) {
	switch Orientation(strings.ToLower(strings.TrimSpace(s))) {
	case "", Landscape:
		return Landscape, nil
	case Portrait:
		return Portrait, nil
	default:
		return "", errors.New(errors.ErrCodeInvalidConfig, "unknown orientation %q (want landscape or portrait)", s)
	}
}

// Paper is a sheet size with a safe drawing margin.
type Paper struct {
	Name   string  `json:"name" toml:"name"`
	Width  float64 `json:"width" toml:"width"`
	Height float64 `json:"height" toml:"height"`
	Margin float64 `json:"margin" toml:"margin"`
}

// Presets are the built-in sheets. A3 keeps a 20% margin for the plotter's
// reach; smaller sheets use 10mm.
var Presets = map[string]Paper{
	"A3": {Name: "A3", Width: 297, Height: 420, Margin: 59.4},
	"A4": {Name: "A4", Width: 210, Height: 297, Margin: 10},
	"A5": {Name: "A5", Width: 148, Height: 210, Margin: 10},
}

// Default is the sheet used when nothing is configured.
var Default = Presets["A3"]

// Lookup returns the preset with the given name, ignoring case.
func Lookup(name string) (Paper, error) {
	if p, ok := Presets[strings.ToUpper(strings.TrimSpace(name))]; ok {
		return p, nil
	}
	return Paper{}, errors.New(errors.ErrCodeInvalidConfig, "unknown paper %q (want one of %s)", name, strings.Join(Names(), ", "))
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Validate reports whether the sheet leaves a positive drawable area.
func (p Paper) Validate() error {
	if !(p.Width > 0 && p.Height > 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "paper configuration must have positive width and height")
	}
	if p.Margin < 0 || 2*p.Margin >= math.Min(p.Width, p.Height) {
		return errors.New(errors.ErrCodeInvalidConfig, "paper margin %.1fmm leaves no drawable area", p.Margin)
	}
	return nil
}

// Size returns the sheet's width and height for the given orientation.
func (p Paper) Size(o Orientation) (width, height float64) {
	short, long := math.Min(p.Width, p.Height), math.Max(p.Width, p.Height)
	if o == Portrait {
		return short, long
	}
	return long, short
}
