package hatch

import (
	"math"

	"github.com/sdjayna/penplot/pkg/geom"
)

// SerpentineLine fills rect with a vertical zig-zag sized for a pen of
// lineWidth. The rectangle is first shrunk by lineWidth/2 on every side so the
// stroke stays within the original outline, then by the inset (default
// lineSpacing/2, clamped to half the smaller side). Columns start at the inner
// left edge and end exactly at the inner right edge; even-indexed columns run
// top to bottom.
//
// A lineSpacing that is not positive defaults to DefaultSpacing. A rectangle
// that disappears after shrinking, or whose corner is not finite, yields a
// minimal closed rectangle at its original corner instead of an empty path.
//
// Unless WithBoundary(false) is given, the path finishes at the nearest edge
// of the original rect and traces its four corners.
func SerpentineLine(rect geom.Rect, lineSpacing, lineWidth float64, opts ...Option) geom.Path {
	o := newOptions(opts)
	spacing := sanitizeSpacing(lineSpacing)
	if !finite(lineWidth) || lineWidth < 0 {
		lineWidth = 0
	}

	shrunk := rect.Inset(lineWidth / 2)
	if !(shrunk.Width > 0 && shrunk.Height > 0) || !finite(rect.X) || !finite(rect.Y) {
		return minimalRect(rect)
	}

	inset := clamp(o.insetOr(spacing/2), 0, math.Min(shrunk.Width, shrunk.Height)/2)
	inner := shrunk.Inset(inset)

	columns := max(1, int(math.Round(inner.Width/spacing)))
	step := inner.Width / float64(columns)

	var path geom.Path
	for i := 0; i <= columns; i++ {
		x := inner.X + float64(i)*step
		if i == columns {
			x = inner.Right()
		}
		top, bottom := geom.Pt(x, inner.Y), geom.Pt(x, inner.Bottom())
		if i%2 == 0 {
			path = path.Add(top).Add(bottom)
		} else {
			path = path.Add(bottom).Add(top)
		}
	}

	if !o.boundaryOr(true) {
		return path
	}
	return stitchRect(path, rect)
}

// SerpentinePolygon fills polygon with vertical rows by transposing it,
// running Scanline and transposing the result back. It accepts the same
// options as Scanline.
func SerpentinePolygon(polygon geom.Polygon, spacing float64, opts ...Option) geom.Path {
	poly := polygon.Normalize()
	if poly == nil {
		return nil
	}
	path := Scanline(poly.Transpose(), spacing, opts...)
	if len(path) == 0 {
		return nil
	}
	return path.Transpose()
}
