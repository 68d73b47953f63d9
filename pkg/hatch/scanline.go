package hatch

import (
	"math"
	"sort"

	"github.com/sdjayna/penplot/pkg/geom"
)

// minSpanWidth is the narrowest span worth drawing.
const minSpanWidth = 1e-3

// Scanline fills polygon with horizontal rows spaced roughly spacing apart,
// reversing direction on every row that produces a span. Consecutive rows are
// joined by a vertical connector at the previous row's end, so the result is
// one continuous stroke.
//
// The first and last rows sit exactly at the inset (default spacing/2); the
// rows in between are spread evenly, so the realised spacing may differ
// slightly from the requested one. The inset is clamped to half the polygon's
// extent on each axis independently.
//
// Unless WithBoundary(false) is given, the path ends by tracing the outline.
func Scanline(polygon geom.Polygon, spacing float64, opts ...Option) geom.Path {
	poly := polygon.Normalize()
	if poly == nil {
		return nil
	}
	o := newOptions(opts)
	step := sanitizeSpacing(spacing)
	lo, hi := poly.Extent()
	if hi.Y-lo.Y <= 0 {
		return nil
	}

	inset := o.insetOr(step / 2)
	rowInset := clamp(inset, 0, (hi.Y-lo.Y)/2)
	colInset := clamp(inset, 0, (hi.X-lo.X)/2)
	startY, endY := lo.Y+rowInset, hi.Y-rowInset

	rows := max(1, int(math.Round((endY-startY)/step)))
	rowStep := (endY - startY) / float64(rows)

	var path geom.Path
	forward := true
	for row := 0; row <= rows; row++ {
		y := startY + float64(row)*rowStep
		if row == rows {
			y = endY
		}
		xs := intersections(poly, y)
		if len(xs) < 2 {
			continue
		}
		if last, ok := path.Last(); ok && last.Y != y {
			path = path.Add(geom.Pt(last.X, y))
		}
		for i := 0; i+1 < len(xs); i += 2 {
			start := math.Min(math.Max(xs[i]+colInset, lo.X+colInset), xs[i+1])
			end := math.Max(math.Min(xs[i+1]-colInset, hi.X-colInset), start)
			if end-start <= minSpanWidth {
				continue
			}
			if forward {
				path = path.Add(geom.Pt(start, y)).Add(geom.Pt(end, y))
			} else {
				path = path.Add(geom.Pt(end, y)).Add(geom.Pt(start, y))
			}
		}
		forward = !forward
	}

	if !o.boundaryOr(true) {
		return path
	}
	return stitchPolygon(path, poly)
}

// intersections returns the sorted x coordinates where the horizontal line at
// y crosses the edges of the closed polygon poly. Horizontal edges are
// ignored. An edge counts when y lies in its half-open span [minY, maxY).
// An edge ending at y also counts when the outline turns back up there,
// possibly after a run of horizontal edges: such a local bottom adds both of
// its ends, so a row on the bottom edge of any leg keeps that leg's span
// while a vertex the outline merely passes through is counted once.
func intersections(poly geom.Polygon, y float64) []float64 {
	ring := poly.Open()
	n := len(ring)
	var xs []float64
	for i := range n {
		a, b := ring[i], ring[(i+1)%n]
		if a.Y == b.Y {
			continue
		}
		minY, maxY := math.Min(a.Y, b.Y), math.Max(a.Y, b.Y)
		switch {
		case y >= minY && y < maxY:
		case y == maxY && turnsUp(ring, i, b.Y == y):
		default:
			continue
		}
		t := (y - a.Y) / (b.Y - a.Y)
		xs = append(xs, a.X+t*(b.X-a.X))
	}
	sort.Float64s(xs)
	return xs
}

// turnsUp reports whether the outline, leaving edge i through its lower end
// and skipping horizontal edges, next heads back towards smaller y. forward
// says whether the lower end is the edge's second point.
func turnsUp(ring geom.Polygon, i int, forward bool) bool {
	n := len(ring)
	at := func(k int) geom.Point { return ring[((k%n)+n)%n] }
	for k := 0; k < n; k++ {
		var from, to geom.Point
		if forward {
			from, to = at(i+1+k), at(i+2+k)
		} else {
			from, to = at(i-k), at(i-k-1)
		}
		if from.Y != to.Y {
			return to.Y < from.Y
		}
	}
	return false
}
