package geom

import "math"

// Polygon is an ordered outline. A normalized polygon is closed: its first and
// last points coincide.
type Polygon []Point

// Normalize returns a closed copy of p with non-finite points removed. It
// returns nil when the closed copy has fewer than four points, which covers
// an explicitly closed two-point outline.
func (p Polygon) Normalize() Polygon {
	if len(p) < 3 {
		return nil
	}
	out := make(Polygon, 0, len(p)+1)
	for _, pt := range p {
		if pt.Finite() {
			out = append(out, pt)
		}
	}
	if len(out) < 3 {
		return nil
	}
	if first, last := out[0], out[len(out)-1]; first != last {
		out = append(out, first)
	}
	if len(out) < 4 {
		return nil
	}
	return out
}

// Open returns p without its closing point. p must be normalized.
func (p Polygon) Open() Polygon {
	if len(p) == 0 {
		return nil
	}
	return p[:len(p)-1]
}

// Transpose returns a copy of p with X and Y swapped on every point.
func (p Polygon) Transpose() Polygon {
	out := make(Polygon, len(p))
	for i, pt := range p {
		out[i] = pt.Transpose()
	}
	return out
}

// Extent returns the component-wise minimum and maximum of p.
func (p Polygon) Extent() (lo, hi Point) {
	lo = Point{X: math.Inf(1), Y: math.Inf(1)}
	hi = Point{X: math.Inf(-1), Y: math.Inf(-1)}
	for _, pt := range p {
		lo.X, hi.X = math.Min(lo.X, pt.X), math.Max(hi.X, pt.X)
		lo.Y, hi.Y = math.Min(lo.Y, pt.Y), math.Max(hi.Y, pt.Y)
	}
	return lo, hi
}

// SignedArea returns the shoelace area of the ring described by p. The ring
// is implicitly closed, so p may be open or closed.
func (p Polygon) SignedArea() float64 {
	var sum float64
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		sum += a.X*b.Y - b.X*a.Y
	}
	return sum / 2
}

// Area returns the absolute area of the ring described by p.
func (p Polygon) Area() float64 { return math.Abs(p.SignedArea()) }

// Centroid returns the area centroid of the ring. Rings with negligible area
// fall back to the vertex average.
func (p Polygon) Centroid() Point {
	if len(p) == 0 {
		return Point{}
	}
	var area, cx, cy float64
	for i := range p {
		a, b := p[i], p[(i+1)%len(p)]
		cross := a.X*b.Y - b.X*a.Y
		area += cross
		cx += (a.X + b.X) * cross
		cy += (a.Y + b.Y) * cross
	}
	area /= 2
	if math.Abs(area) < Epsilon {
		var sum Point
		for _, pt := range p {
			sum.X += pt.X
			sum.Y += pt.Y
		}
		n := float64(len(p))
		return Point{X: sum.X / n, Y: sum.Y / n}
	}
	f := 1 / (6 * area)
	return Point{X: cx * f, Y: cy * f}
}

// Contains reports whether pt lies inside p using the even-odd rule.
func (p Polygon) Contains(pt Point) bool {
	inside := false
	for i, j := 0, len(p)-1; i < len(p); j, i = i, i+1 {
		a, b := p[i], p[j]
		if (a.Y > pt.Y) == (b.Y > pt.Y) {
			continue
		}
		dy := b.Y - a.Y
		if dy == 0 {
			dy = 1
		}
		if pt.X < (b.X-a.X)*(pt.Y-a.Y)/dy+a.X {
			inside = !inside
		}
	}
	return inside
}

// Projection is the closest point on a polygon outline to some query point.
type Projection struct {
	Point    Point   // Closest point on the outline
	Segment  int     // Index i of the edge p[i] -> p[i+1] containing Point
	Distance float64 // Distance from the query point
}

// NearestPoint projects pt onto every edge of the closed polygon p and
// returns the closest projection. Ties keep the earliest edge. p must have at
// least two points.
func (p Polygon) NearestPoint(pt Point) Projection {
	best := Projection{Point: p[0], Distance: math.Inf(1)}
	for i := 0; i < len(p)-1; i++ {
		proj := projectOnSegment(pt, p[i], p[i+1])
		if d := Dist(proj, pt); d < best.Distance {
			best = Projection{Point: proj, Segment: i, Distance: d}
		}
	}
	return best
}

func projectOnSegment(pt, a, b Point) Point {
	abx, aby := b.X-a.X, b.Y-a.Y
	denom := abx*abx + aby*aby
	if denom == 0 {
		denom = 1
	}
	t := ((pt.X-a.X)*abx + (pt.Y-a.Y)*aby) / denom
	t = math.Min(1, math.Max(0, t))
	return Point{X: a.X + abx*t, Y: a.Y + aby*t}
}

// Path is one continuous pen-down stroke.
type Path []Point

// Add appends pt unless it is non-finite or duplicates the last point.
func (p Path) Add(pt Point) Path {
	if !pt.Finite() {
		return p
	}
	if n := len(p); n > 0 && p[n-1].Near(pt) {
		return p
	}
	return append(p, pt)
}

// Last returns the final point and whether the path is non-empty.
func (p Path) Last() (Point, bool) {
	if len(p) == 0 {
		return Point{}, false
	}
	return p[len(p)-1], true
}

// Transpose returns a copy of p with X and Y swapped on every point.
func (p Path) Transpose() Path {
	out := make(Path, len(p))
	for i, pt := range p {
		out[i] = pt.Transpose()
	}
	return out
}

// Length returns the total stroke length of p.
func (p Path) Length() float64 {
	var sum float64
	for i := 1; i < len(p); i++ {
		sum += Dist(p[i-1], p[i])
	}
	return sum
}
