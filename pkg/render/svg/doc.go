// Package svg serialises a composed [drawing.Document] as an SVG file that
// Inkscape and the AxiDraw tooling understand.
//
// The document is sized in millimetres with a matching viewBox, so one user
// unit is one millimetre on paper. Every pen becomes an Inkscape layer:
//
//	<g inkscape:groupmode="layer" inkscape:label="1-Traffic Red" stroke="#d51023" ...>
//	  <path d="M 10 10 L 20 10 L 20 12"/>
//	</g>
//
// The numeric prefix of the label is the pen's palette index, which the
// plotter uses to select the layer to draw. Each hatch path becomes exactly
// one <path> element so the pen lifts once per shape.
//
// Basic usage:
//
//	data := svg.Render(doc,
//	    svg.WithTitle("bouwkamp"),
//	    svg.WithMarginGuide(),
//	)
package svg
