// Package drawing turns parametric generators into plot-ready documents.
//
// A generator is registered as a [Definition] in a [Registry]. Given its
// [Config] it produces a [Scene]: shapes in the generator's own units. The
// scene is then projected onto paper through a [Context], coloured with a
// [ColorPicker] and filled with the hatch engine by [Compose], yielding a
// [Document] whose layers map one-to-one to plotter pens.
//
// # Built-in generators
//
//   - bouwkamp: squared rectangles from a Bouwkamp code, one block per square
//   - calibration: a grid of hatch swatches for tuning pen spacing
//   - lissajous: layered Lissajous curves, drawn as open strokes
//   - polygons: a grid of regular polygons filled with the configured style
//
// Use [Builtins] for a registry containing all of them.
package drawing
