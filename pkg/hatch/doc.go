// Package hatch fills closed outlines with continuous, plotter-friendly
// strokes.
//
// A pen plotter cannot fill an area; it can only draw lines. Every function in
// this package therefore answers the same question: given an outline and a
// line spacing, which single polyline covers the interior with as few pen
// lifts as possible?
//
// # Fills
//
//   - [Scanline] walks horizontal rows across any simple polygon, alternating
//     direction per row so consecutive rows connect.
//   - [SerpentinePolygon] does the same along the vertical axis by transposing
//     the polygon, running [Scanline] and transposing back.
//   - [SerpentineLine] is the rectangle-specialised zig-zag used by block
//     drawings. It accounts for the stroke width of the pen.
//   - [Contour] draws concentric inward rings.
//   - [Skeleton] draws spokes from every vertex through the centroid.
//
// [Fill] and [FillRect] dispatch on a [Style] name.
//
// # Boundary stitching
//
// Unless disabled with WithBoundary(false), a fill finishes by walking from its
// last point to the nearest point of the outline and then tracing the whole
// outline exactly once, so the border is drawn in the same pen-down stroke.
//
// # Degenerate geometry
//
// No function here returns an error or panics. Polygons with fewer than three
// usable points produce an empty path; rectangles swallowed by the stroke width
// produce a minimal closed rectangle; collapsed spans are skipped. An empty
// path means there is nothing to draw.
//
// All functions are pure and safe for concurrent use.
package hatch
