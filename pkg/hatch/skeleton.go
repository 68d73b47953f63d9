package hatch

import (
	"math"

	"github.com/sdjayna/penplot/pkg/geom"
)

const (
	defaultApexInset  = 0.35
	defaultEntryRatio = 0.2
	minSpokeLength    = 0.1
)

// Skeleton draws a spoke from every vertex along its interior angle bisector
// towards the opposite side, then through the centroid and on to the next
// vertex. Acute corners are reached, so the pattern suits triangles and
// other shapes that row fills cover poorly.
//
// The path starts at the vertex closest to the centroid and is closed. Unlike
// the other fills, the outline is only traced when WithBoundary(true) is given.
func Skeleton(polygon geom.Polygon, spacing float64, opts ...Option) geom.Path {
	poly := polygon.Normalize()
	if poly == nil {
		return nil
	}
	ring := poly.Open()
	centroid := ring.Centroid()
	if !centroid.Finite() {
		return nil
	}

	o := newOptions(opts)
	step := sanitizeSpacing(spacing)
	minInterior := math.Max(step*0.5, 0.75)
	if o.minInterior != nil && finite(*o.minInterior) {
		minInterior = math.Max(*o.minInterior, minSpokeLength)
	}
	apexInset := math.Max(valueOr(o.apexInset, defaultApexInset), 0)
	entryRatio := clamp(valueOr(o.entryRatio, defaultEntryRatio), 0.05, 0.45)

	n := len(ring)
	targets := make([]geom.Point, n)
	start, startDist := 0, math.Inf(1)
	for i, v := range ring {
		target, ok := spoke(poly, i, centroid, minInterior, apexInset, entryRatio)
		if !ok {
			target = centroid
		}
		targets[i] = target
		if d := geom.Dist(v, centroid); d < startDist {
			start, startDist = i, d
		}
	}

	var path geom.Path
	path = path.Add(ring[start])
	for k := 0; k < n; k++ {
		i := (start + k) % n
		path = path.Add(targets[i]).Add(centroid).Add(ring[(i+1)%n])
	}
	if first := path[0]; !first.Near(path[len(path)-1]) {
		path = path.Add(first)
	}

	if !o.boundaryOr(false) {
		return path
	}
	return stitchPolygon(path, poly)
}

// spoke returns the end point of the interior bisector leaving vertex i of
// the closed polygon poly.
func spoke(poly geom.Polygon, i int, centroid geom.Point, minInterior, apexInset, entryRatio float64) (geom.Point, bool) {
	ring := poly.Open()
	n := len(ring)
	v := ring[i]
	dir, ok := bisector(poly, ring[(i-1+n)%n], v, ring[(i+1)%n], centroid)
	if !ok {
		return geom.Point{}, false
	}

	minDist := math.Max(minInterior, minSpokeLength)
	hit, ok := castRay(poly, v, dir, i)
	if !ok {
		return geom.Pt(v.X+dir.X*minDist, v.Y+dir.Y*minDist), true
	}
	d := math.Max(minDist, math.Min(hit*(1-entryRatio), hit-apexInset))
	if !finite(d) || d <= geom.Epsilon {
		return geom.Point{}, false
	}
	return geom.Pt(v.X+dir.X*d, v.Y+dir.Y*d), true
}

// bisector returns the unit direction halving the angle at cur, flipped if
// needed so it points into poly. Straight angles fall back to the direction
// of the centroid.
func bisector(poly geom.Polygon, prev, cur, next, centroid geom.Point) (geom.Point, bool) {
	var dir geom.Point
	ok := false
	toPrev, okPrev := unit(prev.X-cur.X, prev.Y-cur.Y)
	toNext, okNext := unit(next.X-cur.X, next.Y-cur.Y)
	if okPrev && okNext {
		dir, ok = unit(toPrev.X+toNext.X, toPrev.Y+toNext.Y)
	}
	if !ok {
		dir, ok = unit(centroid.X-cur.X, centroid.Y-cur.Y)
	}
	if !ok {
		return geom.Point{}, false
	}
	probe := func(d geom.Point) bool {
		return poly.Contains(geom.Pt(cur.X+d.X*0.5, cur.Y+d.Y*0.5))
	}
	if !probe(dir) {
		dir = geom.Pt(-dir.X, -dir.Y)
	}
	if !probe(dir) {
		return geom.Point{}, false
	}
	return dir, true
}

// castRay returns the distance from origin along dir to the nearest edge of
// poly, ignoring the two edges that meet at vertex i.
func castRay(poly geom.Polygon, origin, dir geom.Point, i int) (float64, bool) {
	n := len(poly) - 1
	prev := (i - 1 + n) % n
	best, found := math.Inf(1), false
	for j := 0; j < n; j++ {
		if j == i || j == prev {
			continue
		}
		a, b := poly[j], poly[j+1]
		sx, sy := b.X-a.X, b.Y-a.Y
		denom := dir.X*sy - dir.Y*sx
		if math.Abs(denom) < geom.Epsilon {
			continue
		}
		dx, dy := a.X-origin.X, a.Y-origin.Y
		t := (dx*sy - dy*sx) / denom
		u := (dx*dir.Y - dy*dir.X) / denom
		if t <= geom.Epsilon || u < -geom.Epsilon || u > 1+geom.Epsilon {
			continue
		}
		if t < best {
			best, found = t, true
		}
	}
	return best, found
}
