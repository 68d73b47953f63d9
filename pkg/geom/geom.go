package geom

import "math"

// Epsilon is the distance below which two coordinates are considered equal.
const Epsilon = 1e-6

// Point is a 2-D coordinate.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Finite reports whether both coordinates are finite numbers.
func (p Point) Finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// Transpose swaps the X and Y coordinates.
func (p Point) Transpose() Point { return Point{X: p.Y, Y: p.X} }

// Near reports whether p and q differ by less than Epsilon on both axes.
func (p Point) Near(q Point) bool {
	return math.Abs(p.X-q.X) < Epsilon && math.Abs(p.Y-q.Y) < Epsilon
}

// Dist returns the Euclidean distance between p and q.
func Dist(p, q Point) float64 {
	return math.Hypot(q.X-p.X, q.Y-p.Y)
}

// Rect is an axis-aligned rectangle anchored at its top-left corner.
// Width and Height may be zero or negative for degenerate input.
type Rect struct {
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// Right returns the x coordinate of the right edge.
func (r Rect) Right() float64 { return r.X + r.Width }

// Bottom returns the y coordinate of the bottom edge.
func (r Rect) Bottom() float64 { return r.Y + r.Height }

// Inset shrinks r by d on every side. The result may have non-positive size.
func (r Rect) Inset(d float64) Rect {
	return Rect{X: r.X + d, Y: r.Y + d, Width: r.Width - 2*d, Height: r.Height - 2*d}
}

// Corners returns the four corners clockwise (in screen coordinates) from the
// top-left corner.
func (r Rect) Corners() [4]Point {
	return [4]Point{
		{X: r.X, Y: r.Y},
		{X: r.Right(), Y: r.Y},
		{X: r.Right(), Y: r.Bottom()},
		{X: r.X, Y: r.Bottom()},
	}
}

// RectToPolygon returns the closed five-point outline of r, clockwise from
// (r.X, r.Y), with the first corner repeated at the end.
func RectToPolygon(r Rect) Polygon {
	c := r.Corners()
	return Polygon{c[0], c[1], c[2], c[3], c[0]}
}

// RectsAdjacent reports whether b overlaps a after a has been grown by one
// unit on every side. Rectangles that touch or overlap are adjacent.
func RectsAdjacent(a, b Rect) bool {
	e := a.Inset(-1)
	return !(e.Right() <= b.X ||
		e.X >= b.Right() ||
		e.Bottom() <= b.Y ||
		e.Y >= b.Bottom())
}

// Bounds is an axis-aligned extent with a size floor of one unit.
type Bounds struct {
	MinX   float64 `json:"minX"`
	MinY   float64 `json:"minY"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

// unitBounds is returned for empty input.
var unitBounds = Bounds{MinX: 0, MinY: 0, Width: 1, Height: 1}

// BoundsFromPoints computes the extent of points. Width and height are at
// least 1 so downstream scaling never divides by zero. Non-finite coordinates
// count as 0, and an empty slice yields {0, 0, 1, 1}.
func BoundsFromPoints(points []Point) Bounds {
	if len(points) == 0 {
		return unitBounds
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		x, y := coerce(p.X), coerce(p.Y)
		minX, maxX = math.Min(minX, x), math.Max(maxX, x)
		minY, maxY = math.Min(minY, y), math.Max(maxY, y)
	}
	return Bounds{
		MinX:   minX,
		MinY:   minY,
		Width:  math.Max(maxX-minX, 1),
		Height: math.Max(maxY-minY, 1),
	}
}

// BoundsFromRects computes the extent of rects from their top-left and
// bottom-right corners.
func BoundsFromRects(rects []Rect) Bounds {
	if len(rects) == 0 {
		return unitBounds
	}
	points := make([]Point, 0, 2*len(rects))
	for _, r := range rects {
		x, y := coerce(r.X), coerce(r.Y)
		points = append(points,
			Point{X: x, Y: y},
			Point{X: x + coerce(r.Width), Y: y + coerce(r.Height)},
		)
	}
	return BoundsFromPoints(points)
}

func coerce(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}
