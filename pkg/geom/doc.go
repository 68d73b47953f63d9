// Package geom provides the planar primitives shared by the hatching engine,
// the drawing generators and the SVG renderer.
//
// # Units
//
// All coordinates are real-valued drawing-space units. In practice they are
// millimetres on paper, but nothing in this package depends on that: the only
// requirement is that a single call uses the same unit throughout.
//
// # Degenerate input
//
// Functions in this package never fail. Empty collections, non-finite
// coordinates and zero-area rectangles are coerced into the smallest sensible
// answer instead of being rejected:
//
//	geom.BoundsFromPoints(nil)              // {0, 0, 1, 1}
//	geom.Polygon{{X: 0, Y: 0}}.Normalize()  // nil
//
// Callers treat an empty result as "nothing to draw".
package geom
