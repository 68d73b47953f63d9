package hatch

import (
	"strings"

	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/geom"
)

// Style names a fill strategy.
type Style string

const (
	StyleScanline   Style = "scanline"
	StyleSerpentine Style = "serpentine"
	StyleContour    Style = "contour"
	StyleSkeleton   Style = "skeleton"
	// StyleNone draws only the outline.
	StyleNone Style = "none"
)

// Styles lists every supported style in display order.
var Styles = []Style{StyleSerpentine, StyleScanline, StyleContour, StyleSkeleton, StyleNone}

// ParseStyle resolves a style name case-insensitively. The empty string
// selects StyleSerpentine.
func ParseStyle(s string) (Style, error) {
	name := Style(strings.ToLower(strings.TrimSpace(s)))
	if name == "" {
		return StyleSerpentine, nil
	}
	for _, st := range Styles {
		if st == name {
			return st, nil
		}
	}
	return "", errors.New(errors.ErrCodeInvalidStyle, "unknown hatch style %q (want one of %v)", s, Styles)
}

// Fill fills polygon with the given style. Unknown styles fall back to the
// bare outline.
func Fill(style Style, polygon geom.Polygon, spacing float64, opts ...Option) geom.Path {
	switch style {
	case StyleScanline:
		return Scanline(polygon, spacing, opts...)
	case StyleSerpentine:
		return SerpentinePolygon(polygon, spacing, opts...)
	case StyleContour:
		return Contour(polygon, spacing, opts...)
	case StyleSkeleton:
		return Skeleton(polygon, spacing, opts...)
	default:
		return geom.Path(polygon.Normalize())
	}
}

// FillRect fills rect with the given style. Serpentine fills use the
// stroke-aware SerpentineLine; other styles fill the rectangle's polygon.
func FillRect(style Style, rect geom.Rect, spacing, lineWidth float64, opts ...Option) geom.Path {
	if style == StyleSerpentine {
		return SerpentineLine(rect, spacing, lineWidth, opts...)
	}
	return Fill(style, geom.RectToPolygon(rect), spacing, opts...)
}

// Settings is the serialisable form of a fill configuration.
type Settings struct {
	Style   Style   `json:"style" toml:"style"`
	Spacing float64 `json:"spacing" toml:"spacing"`
	// Inset is nil to use half the spacing.
	Inset           *float64 `json:"inset,omitempty" toml:"inset"`
	IncludeBoundary bool     `json:"includeBoundary" toml:"include_boundary"`
}

// DefaultSettings returns a serpentine fill at 2mm spacing, 1mm inset, with
// the outline traced.
func DefaultSettings() Settings {
	inset := 1.0
	return Settings{Style: StyleSerpentine, Spacing: 2, Inset: &inset, IncludeBoundary: true}
}

// Validate checks the style name and that spacing and inset are usable.
func (s Settings) Validate() error {
	if _, err := ParseStyle(string(s.Style)); err != nil {
		return err
	}
	if !finite(s.Spacing) || s.Spacing < MinSpacing {
		return errors.New(errors.ErrCodeInvalidInput, "hatch spacing must be at least %v, got %v", MinSpacing, s.Spacing)
	}
	if s.Inset != nil && (!finite(*s.Inset) || *s.Inset < 0) {
		return errors.New(errors.ErrCodeInvalidInput, "hatch inset must be non-negative, got %v", *s.Inset)
	}
	return nil
}

// Options converts the settings into fill options.
func (s Settings) Options() []Option {
	opts := []Option{WithBoundary(s.IncludeBoundary)}
	if s.Inset != nil {
		opts = append(opts, WithInset(*s.Inset))
	}
	return opts
}
