package drawing

import (
	"math"

	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/geom"
	"github.com/sdjayna/penplot/pkg/paper"
)

// Context maps drawing coordinates onto a sheet of paper. The drawing's
// bounds are scaled uniformly to fit inside the margins and centred.
type Context struct {
	Paper       paper.Paper
	Orientation paper.Orientation
	PaperWidth  float64
	PaperHeight float64
	Bounds      geom.Bounds
	Scale       float64
	OffsetX     float64
	OffsetY     float64
}

// NewContext computes the projection of bounds onto p in orientation o.
func NewContext(p paper.Paper, o paper.Orientation, bounds geom.Bounds) (*Context, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if !(bounds.Width > 0 && bounds.Height > 0) {
		return nil, errors.New(errors.ErrCodeInvalidDrawing, "drawing dimensions must be positive, got %vx%v", bounds.Width, bounds.Height)
	}
	pw, ph := p.Size(o)
	availW, availH := pw-2*p.Margin, ph-2*p.Margin
	scale := math.Min(availW/bounds.Width, availH/bounds.Height)
	return &Context{
		Paper:       p,
		Orientation: o,
		PaperWidth:  pw,
		PaperHeight: ph,
		Bounds:      bounds,
		Scale:       scale,
		OffsetX:     p.Margin + (availW-bounds.Width*scale)/2,
		OffsetY:     p.Margin + (availH-bounds.Height*scale)/2,
	}, nil
}

// Project maps a drawing point to paper millimetres.
func (c *Context) Project(pt geom.Point) geom.Point {
	return geom.Point{
		X: c.OffsetX + (pt.X-c.Bounds.MinX)*c.Scale,
		Y: c.OffsetY + (pt.Y-c.Bounds.MinY)*c.Scale,
	}
}

// ProjectRect maps a drawing rectangle to paper millimetres.
func (c *Context) ProjectRect(r geom.Rect) geom.Rect {
	origin := c.Project(geom.Pt(r.X, r.Y))
	return geom.Rect{X: origin.X, Y: origin.Y, Width: r.Width * c.Scale, Height: r.Height * c.Scale}
}

// ProjectPoints maps every point of pts.
func (c *Context) ProjectPoints(pts []geom.Point) []geom.Point {
	out := make([]geom.Point, len(pts))
	for i, pt := range pts {
		out[i] = c.Project(pt)
	}
	return out
}

// Drawable returns the area inside the margins.
func (c *Context) Drawable() geom.Rect {
	m := c.Paper.Margin
	return geom.Rect{X: m, Y: m, Width: c.PaperWidth - 2*m, Height: c.PaperHeight - 2*m}
}
