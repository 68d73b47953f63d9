package drawing

import (
	"fmt"

	"github.com/sdjayna/penplot/pkg/geom"
	"github.com/sdjayna/penplot/pkg/hatch"
	"github.com/sdjayna/penplot/pkg/paper"
)

// ShapeKind selects how a shape is turned into pen strokes.
type ShapeKind int

const (
	// KindStroke is an open path drawn as is.
	KindStroke ShapeKind = iota
	// KindPolygon is a closed outline filled with the hatch engine.
	KindPolygon
	// KindRect is a rectangle filled with the stroke-aware rectangle fill.
	KindRect
)

// Shape is one element of a scene in drawing coordinates. The zero values
// of Color, Style, Spacing and LineWidth defer to the compose settings.
type Shape struct {
	Kind    ShapeKind
	Points  []geom.Point // KindStroke and KindPolygon
	Rect    geom.Rect    // KindRect
	Color   string       // palette key or name; empty picks automatically
	Style   hatch.Style
	Spacing float64
	// LineWidth is the pen width in millimetres used to keep rectangle fills
	// inside their outline.
	LineWidth float64
}

// Stroke returns an open-path shape.
func Stroke(points []geom.Point) Shape { return Shape{Kind: KindStroke, Points: points} }

// Polygon returns a filled polygon shape.
func Polygon(points []geom.Point) Shape { return Shape{Kind: KindPolygon, Points: points} }

// Block returns a filled rectangle shape.
func Block(r geom.Rect) Shape { return Shape{Kind: KindRect, Rect: r} }

// Scene is a generator's output before projection.
type Scene struct {
	// Bounds is the extent mapped onto the paper. The zero value means the
	// extent of the shapes.
	Bounds  geom.Bounds
	Palette Palette
	Shapes  []Shape
}

// Extent returns Bounds, or the bounds of all shapes when Bounds is unset.
func (s *Scene) Extent() geom.Bounds {
	if s.Bounds.Width > 0 && s.Bounds.Height > 0 {
		return s.Bounds
	}
	var pts []geom.Point
	for _, sh := range s.Shapes {
		if sh.Kind == KindRect {
			c := sh.Rect.Corners()
			pts = append(pts, c[0], c[2])
			continue
		}
		pts = append(pts, sh.Points...)
	}
	return geom.BoundsFromPoints(pts)
}

// Layer holds the strokes for one pen.
type Layer struct {
	Index  int    `json:"index"` // Position of the colour in the palette
	Name   string `json:"name"`
	Color  string `json:"color"`
	Pass   int    `json:"pass,omitempty"`
	Passes int    `json:"passes,omitempty"`
	Paths  []geom.Path
}

// Label is the Inkscape layer label, "<index>-<name>", with a pass suffix
// when the layer has been split.
func (l Layer) Label() string {
	base := fmt.Sprintf("%d-%s", l.Index, l.Name)
	if l.Passes > 1 {
		return fmt.Sprintf("%s (pass %d/%d)", base, l.Pass, l.Passes)
	}
	return base
}

// Length returns the total pen-down distance of the layer in millimetres.
func (l Layer) Length() float64 {
	var sum float64
	for _, p := range l.Paths {
		sum += p.Length()
	}
	return sum
}

// Document is a composed plot: paper-sized, one layer per pen pass.
type Document struct {
	Width       float64
	Height      float64
	Margin      float64
	Orientation paper.Orientation
	Layers      []Layer
}

// PathCount returns the number of strokes across all layers.
func (d *Document) PathCount() int {
	n := 0
	for _, l := range d.Layers {
		n += len(l.Paths)
	}
	return n
}

// SplitByTravel splits every layer whose pen-down distance exceeds limit
// millimetres into consecutive passes, so a pen can be refilled or swapped
// between them. Paths are never cut; a single path longer than the limit
// gets a pass of its own. It returns the number of layers that were split.
// A non-positive limit leaves the document unchanged.
func (d *Document) SplitByTravel(limit float64) int {
	if limit <= 0 {
		return 0
	}
	split := 0
	var out []Layer
	for _, l := range d.Layers {
		var buckets [][]geom.Path
		var current []geom.Path
		total := 0.0
		for _, p := range l.Paths {
			n := p.Length()
			if len(current) > 0 && total+n > limit {
				buckets = append(buckets, current)
				current, total = nil, 0
			}
			current = append(current, p)
			total += n
		}
		if len(current) > 0 {
			buckets = append(buckets, current)
		}
		if len(buckets) > 1 {
			split++
		}
		for i, b := range buckets {
			pass := l
			pass.Paths = b
			if len(buckets) > 1 {
				pass.Pass, pass.Passes = i+1, len(buckets)
			}
			out = append(out, pass)
		}
	}
	d.Layers = out
	return split
}
