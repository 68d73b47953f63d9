package svg

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"
	"strings"

	svgo "github.com/ajstarks/svgo"

	"github.com/sdjayna/penplot/pkg/drawing"
	"github.com/sdjayna/penplot/pkg/geom"
)

const inkscapeNS = "http://www.inkscape.org/namespaces/inkscape"

// DefaultStrokeWidth is the stroke width of every layer in millimetres.
const DefaultStrokeWidth = 0.5

// Option configures [Render].
type Option func(*renderer)

type renderer struct {
	title       string
	comment     string
	strokeWidth float64
	marginGuide bool
	precision   int
}

// WithTitle sets the document <title>.
func WithTitle(t string) Option { return func(r *renderer) { r.title = t } }

// WithComment embeds text as an XML comment after the root element. The
// archive uses it to record the configuration that produced a file.
func WithComment(text string) Option { return func(r *renderer) { r.comment = text } }

// WithStrokeWidth sets the preview stroke width in millimetres.
func WithStrokeWidth(w float64) Option { return func(r *renderer) { r.strokeWidth = w } }

// WithMarginGuide draws the paper margin as a dashed rectangle marked
// preview-only. It lives outside every layer so it is never plotted.
func WithMarginGuide() Option { return func(r *renderer) { r.marginGuide = true } }

// WithPrecision sets the number of decimals written for coordinates
// (default 3).
func WithPrecision(decimals int) Option {
	return func(r *renderer) { r.precision = max(decimals, 0) }
}

// Render writes doc as an SVG document.
func Render(doc *drawing.Document, opts ...Option) []byte {
	r := renderer{strokeWidth: DefaultStrokeWidth, precision: 3}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	canvas := svgo.New(&buf)
	canvas.Startraw(
		attr("width", r.num(doc.Width)+"mm"),
		attr("height", r.num(doc.Height)+"mm"),
		attr("viewBox", "0 0 "+r.num(doc.Width)+" "+r.num(doc.Height)),
		attr("xmlns:inkscape", inkscapeNS),
	)
	if r.comment != "" {
		fmt.Fprintf(&buf, "<!--\n%s\n-->\n", sanitizeComment(r.comment))
	}
	if r.title != "" {
		canvas.Title(r.title)
	}

	if r.marginGuide && doc.Margin > 0 {
		m := doc.Margin
		guide := geom.RectToPolygon(geom.Rect{X: m, Y: m, Width: doc.Width - 2*m, Height: doc.Height - 2*m})
		canvas.Path(r.pathData(geom.Path(guide)),
			attr("data-role", "margin-guide"),
			attr("data-preview-only", "true"),
			attr("fill", "none"),
			attr("stroke", "#9ca3af"),
			attr("stroke-width", "0.3"),
			attr("stroke-dasharray", "2 2"),
		)
	}

	canvas.Group(attr("data-role", "drawing-content"))
	for _, l := range doc.Layers {
		canvas.Group(
			attr("id", layerID(l)),
			attr("inkscape:groupmode", "layer"),
			attr("inkscape:label", l.Label()),
			attr("stroke", l.Color),
			attr("stroke-width", r.num(r.strokeWidth)),
			attr("stroke-linecap", "round"),
			attr("stroke-linejoin", "round"),
			attr("fill", "none"),
		)
		for _, p := range l.Paths {
			if d := r.pathData(p); d != "" {
				canvas.Path(d)
			}
		}
		canvas.Gend()
	}
	canvas.Gend()
	canvas.End()
	return buf.Bytes()
}

// pathData formats p as "M x y L x y ...". Paths with fewer than two points
// produce the empty string.
func (r *renderer) pathData(p geom.Path) string {
	if len(p) < 2 {
		return ""
	}
	var b strings.Builder
	for i, pt := range p {
		if i == 0 {
			b.WriteString("M ")
		} else {
			b.WriteString(" L ")
		}
		b.WriteString(r.num(pt.X))
		b.WriteByte(' ')
		b.WriteString(r.num(pt.Y))
	}
	return b.String()
}

func (r *renderer) num(v float64) string {
	scale := math.Pow(10, float64(r.precision))
	v = math.Round(v*scale) / scale
	if v == 0 {
		v = 0 // drop negative zero
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func layerID(l drawing.Layer) string {
	if l.Passes > 1 {
		return fmt.Sprintf("layer%d-pass%d", l.Index, l.Pass)
	}
	return fmt.Sprintf("layer%d", l.Index)
}

func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

func sanitizeComment(s string) string {
	for strings.Contains(s, "--") {
		s = strings.ReplaceAll(s, "--", "- -")
	}
	return s
}
