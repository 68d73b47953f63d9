package hatch

import (
	"math"

	"github.com/sdjayna/penplot/pkg/geom"
)

const (
	maxContourLoops = 400
	// Corners sharper than this are pulled back towards the original vertex
	// so miters do not shoot across the shape.
	sharpCorner = math.Pi / 9
)

// Contour fills polygon with concentric rings, each offset inward from the
// previous one. The first ring sits at the inset plus the stroke width; later
// rings are spaced by at most spacing*2 and never more than a fraction of the
// shortest edge. Rings stop as soon as one would leave the polygon, cross its
// outline, invert or fail to shrink.
//
// Rings are joined at their vertex nearest the previous ring's end. With the
// boundary enabled (the default) the outline is drawn first.
func Contour(polygon geom.Polygon, spacing float64, opts ...Option) geom.Path {
	poly := polygon.Normalize()
	if poly == nil {
		return nil
	}
	o := newOptions(opts)
	step := sanitizeSpacing(spacing)
	strokeWidth := math.Max(valueOr(o.strokeWidth, DefaultStrokeWidth), 0)
	insetStart := math.Max(o.insetOr(step/2), 0)
	includeBoundary := o.boundaryOr(true)

	ring := poly.Open()
	minEdge, perimeter := math.Inf(1), 0.0
	for i := range ring {
		d := geom.Dist(ring[i], ring[(i+1)%len(ring)])
		minEdge = math.Min(minEdge, d)
		perimeter += d
	}
	if !finite(minEdge) || minEdge < geom.Epsilon {
		if includeBoundary {
			return geom.Path(poly)
		}
		return nil
	}
	// Conservative size bound used to cap the ring step.
	inradius := math.Inf(1)
	if perimeter > geom.Epsilon {
		inradius = ring.Area() * 0.5 / perimeter
	}

	minInset := math.Max(step*0.5, strokeWidth*0.75)
	maxInset := math.Max(math.Min(minEdge*0.3, math.Min(inradius*0.8, step*2)), step*0.4)

	var path geom.Path
	if includeBoundary {
		for _, pt := range poly {
			path = path.Add(pt)
		}
	}

	current := ring
	prevArea := current.SignedArea()
	offset := math.Max(insetStart+strokeWidth, minInset)
	for loops := 0; loops < maxContourLoops; loops++ {
		d := math.Min(offset, maxInset)
		next := offsetInward(current, d)
		if len(next) < 3 {
			break
		}
		area := next.SignedArea()
		if math.Abs(area) < geom.Epsilon || (area > 0) != (prevArea > 0) || math.Abs(area) >= math.Abs(prevArea) {
			break
		}
		if !insideOutline(poly, next) {
			break
		}

		start := 0
		if last, ok := path.Last(); ok {
			start = nearestVertex(next, last)
		}
		for i := 0; i <= len(next); i++ {
			path = path.Add(next[(start+i)%len(next)])
		}

		current, prevArea = next, area
		offset = math.Max(minInset, d)
	}
	return path
}

// offsetInward moves every vertex of the open ring inward by d along the
// miter of its two adjacent edges. It returns nil if an edge has zero length.
func offsetInward(ring geom.Polygon, d float64) geom.Polygon {
	n := len(ring)
	if n < 3 || d <= 0 {
		return ring
	}
	inward := 1.0
	if ring.SignedArea() < 0 {
		inward = -1
	}

	out := make(geom.Polygon, 0, n)
	for i, cur := range ring {
		prev, next := ring[(i-1+n)%n], ring[(i+1)%n]
		v1, ok1 := unit(cur.X-prev.X, cur.Y-prev.Y)
		v2, ok2 := unit(next.X-cur.X, next.Y-cur.Y)
		if !ok1 || !ok2 {
			return nil
		}
		n1 := geom.Pt(-v1.Y*inward, v1.X*inward)
		n2 := geom.Pt(-v2.Y*inward, v2.X*inward)
		p1 := geom.Pt(cur.X+n1.X*d, cur.Y+n1.Y*d)
		p2 := geom.Pt(cur.X+n2.X*d, cur.Y+n2.Y*d)
		mid := geom.Pt((p1.X+p2.X)/2, (p1.Y+p2.Y)/2)

		candidate := mid
		if denom := v1.X*v2.Y - v1.Y*v2.X; math.Abs(denom) >= geom.Epsilon {
			t := ((p2.X-p1.X)*v2.Y - (p2.Y-p1.Y)*v2.X) / denom
			candidate = geom.Pt(p1.X+v1.X*t, p1.Y+v1.Y*t)
		}
		if geom.Dist(candidate, cur) > 2*d {
			candidate = mid
		}
		if angle := math.Acos(clamp(v1.X*v2.X+v1.Y*v2.Y, -1, 1)); angle < sharpCorner {
			candidate = geom.Pt((candidate.X+cur.X)/2, (candidate.Y+cur.Y)/2)
		}
		out = append(out, candidate)
	}
	return out
}

// insideOutline reports whether every vertex of ring lies inside outline and
// no edge of ring crosses an edge of outline.
func insideOutline(outline geom.Polygon, ring geom.Polygon) bool {
	for _, pt := range ring {
		if !outline.Contains(pt) {
			return false
		}
	}
	for i := range ring {
		a, b := ring[i], ring[(i+1)%len(ring)]
		for j := 0; j < len(outline)-1; j++ {
			if segmentsCross(a, b, outline[j], outline[j+1]) {
				return false
			}
		}
	}
	return true
}

func segmentsCross(p1, p2, q1, q2 geom.Point) bool {
	d := (p2.X-p1.X)*(q2.Y-q1.Y) - (p2.Y-p1.Y)*(q2.X-q1.X)
	if math.Abs(d) < geom.Epsilon {
		return false
	}
	ua := ((q1.X-p1.X)*(q2.Y-q1.Y) - (q1.Y-p1.Y)*(q2.X-q1.X)) / d
	ub := ((q1.X-p1.X)*(p2.Y-p1.Y) - (q1.Y-p1.Y)*(p2.X-p1.X)) / d
	return ua > 0 && ua < 1 && ub > 0 && ub < 1
}

func nearestVertex(ring geom.Polygon, to geom.Point) int {
	best, bestDist := 0, math.Inf(1)
	for i, pt := range ring {
		if d := geom.Dist(pt, to); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func unit(x, y float64) (geom.Point, bool) {
	l := math.Hypot(x, y)
	if l < geom.Epsilon {
		return geom.Point{}, false
	}
	return geom.Pt(x/l, y/l), true
}
