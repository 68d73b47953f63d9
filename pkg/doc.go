// Package pkg provides the libraries behind penplot.
//
// # Overview
//
// Penplot turns generative drawings into files and jobs for an AxiDraw pen
// plotter. Shapes are filled with continuous hatch strokes so the pen lifts
// as rarely as possible, grouped into one layer per pen colour and written
// as an Inkscape-layered SVG. A small HTTP server runs next to the plotter,
// drives axicli and streams progress back to clients.
//
// # Architecture
//
// The data flow through penplot:
//
//	drawing generator (scene of shapes in its own units)
//	         ↓
//	    [drawing] package (project onto paper, assign pens, hatch, split)
//	         ↓
//	    [render/svg] package (layered SVG)
//	         ↓
//	    [plotter] package (POST /plotter, axicli, SSE progress)
//
// [pipeline] runs the first two stages with caching.
//
// # Main Packages
//
// ## Geometry and Fills
//
//   - [geom]: points, rectangles, polygons, bounds and path helpers
//   - [hatch]: scanline, serpentine, contour and skeleton fills plus the
//     boundary stitcher
//   - [paper]: paper presets and orientation
//
// ## Drawings and Output
//
//   - [drawing]: generator registry, projection, palettes and composition
//   - [render/svg]: SVG serialisation with Inkscape layers
//   - [pipeline]: draw, compose and render with a document cache
//
// ## Infrastructure
//
//   - [cache]: file, Redis and null caches behind one interface
//   - [archive]: saved SVGs on disk or in MongoDB
//   - [config]: the TOML configuration file
//   - [httputil]: retrying HTTP helpers
//   - [observability]: hooks for pipeline, cache, HTTP and plot events
//   - [errors]: coded errors shared by the CLI and the server
//   - [buildinfo]: version information set at build time
//
// ## Plotting
//
//   - [plotter]: command model, axicli session, progress broadcaster,
//     HTTP server and client
//
// # Quick Start
//
// Render a built-in drawing to SVG:
//
//	import (
//	    "context"
//	    "github.com/sdjayna/penplot/pkg/pipeline"
//	)
//
//	r := pipeline.NewRunner(nil, nil, nil)
//	defer r.Close()
//	res, err := r.Execute(context.Background(), pipeline.Options{DrawingID: "bouwkamp"})
//	if err != nil {
//	    return err
//	}
//	os.WriteFile("bouwkamp.svg", res.SVG, 0o644)
//
// Fill a single polygon:
//
//	tri := geom.Polygon{geom.Pt(0, 0), geom.Pt(40, 0), geom.Pt(20, 30)}
//	path := hatch.Fill(hatch.StyleSerpentine, tri, 2)
package pkg
