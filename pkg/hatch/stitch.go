package hatch

import (
	"math"

	"github.com/sdjayna/penplot/pkg/geom"
)

// stitchPolygon connects the end of path to the nearest point of outline and
// traces the outline once, returning to the connection point. An empty path
// gets the bare outline starting at its first vertex. outline must be
// normalized.
func stitchPolygon(path geom.Path, outline geom.Polygon) geom.Path {
	last, ok := path.Last()
	if !ok {
		return traceLoop(path, outline, geom.Projection{Point: outline[0]})
	}
	at := outline.NearestPoint(last)
	if at.Distance > geom.Epsilon {
		path = path.Add(at.Point)
	}
	return traceLoop(path, outline, at)
}

// stitchRect is stitchPolygon specialised for rectangles. The connection
// point is the closest point on the nearest edge, with ties resolved in the
// order left, right, top, bottom.
func stitchRect(path geom.Path, r geom.Rect) geom.Path {
	outline := geom.RectToPolygon(r)
	last, ok := path.Last()
	if !ok {
		return traceLoop(path, outline, geom.Projection{Point: outline[0]})
	}

	// Segment indices follow RectToPolygon: top, right, bottom, left.
	candidates := [4]geom.Projection{
		{Point: geom.Pt(r.X, clamp(last.Y, r.Y, r.Bottom())), Segment: 3, Distance: math.Abs(last.X - r.X)},
		{Point: geom.Pt(r.Right(), clamp(last.Y, r.Y, r.Bottom())), Segment: 1, Distance: math.Abs(last.X - r.Right())},
		{Point: geom.Pt(clamp(last.X, r.X, r.Right()), r.Y), Segment: 0, Distance: math.Abs(last.Y - r.Y)},
		{Point: geom.Pt(clamp(last.X, r.X, r.Right()), r.Bottom()), Segment: 2, Distance: math.Abs(last.Y - r.Bottom())},
	}
	at := candidates[0]
	for _, c := range candidates[1:] {
		if c.Distance < at.Distance {
			at = c
		}
	}
	path = path.Add(at.Point)
	return traceLoop(path, outline, at)
}

// traceLoop splices at.Point into the outline after vertex at.Segment and
// walks the whole ring starting and ending there.
func traceLoop(path geom.Path, outline geom.Polygon, at geom.Projection) geom.Path {
	ring := outline.Open()
	n := len(ring)
	if n == 0 {
		return path
	}
	idx := (at.Segment + 1) % n

	loop := make([]geom.Point, 0, n+1)
	loop = append(loop, ring[:idx]...)
	loop = append(loop, at.Point)
	loop = append(loop, ring[idx:]...)

	for i := 0; i <= len(loop); i++ {
		path = path.Add(loop[(idx+i)%len(loop)])
	}
	return path
}

// minimalRect is the smallest drawable closed rectangle at the origin of r.
// Sizes are floored so a pen still leaves a visible mark, and a non-finite
// origin is taken as zero so every point stays finite.
func minimalRect(r geom.Rect) geom.Path {
	orFloor := func(v float64) float64 {
		if !finite(v) {
			return 0.05
		}
		return math.Max(v, 0.05)
	}
	orZero := func(v float64) float64 {
		if !finite(v) {
			return 0
		}
		return v
	}
	x, y := orZero(r.X), orZero(r.Y)
	w, h := orFloor(r.Width), orFloor(r.Height)
	return geom.Path{
		geom.Pt(x, y),
		geom.Pt(x+w, y),
		geom.Pt(x+w, y+h),
		geom.Pt(x, y+h),
		geom.Pt(x, y),
	}
}
