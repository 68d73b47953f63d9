package drawing

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/geom"
	"github.com/sdjayna/penplot/pkg/hatch"
)

// DefaultLineWidth is the pen width assumed when none is configured.
const DefaultLineWidth = 0.5

// Settings controls how a scene is filled.
type Settings struct {
	Hatch hatch.Settings
	// LineWidth is the pen width in millimetres.
	LineWidth float64
	// MaxTravel splits layers longer than this many millimetres into
	// passes. Zero disables splitting.
	MaxTravel float64
}

// DefaultSettings returns the default hatch with a 0.5mm pen.
func DefaultSettings() Settings {
	return Settings{Hatch: hatch.DefaultSettings(), LineWidth: DefaultLineWidth}
}

type projected struct {
	shape  Shape
	points []geom.Point
	rect   geom.Rect
}

// Compose projects scene onto the paper described by rc, assigns a pen to
// every shape and fills each pen's shapes concurrently. Layers appear in
// palette order; pens with no shapes are omitted.
func Compose(ctx context.Context, scene *Scene, rc *Context, s Settings) (*Document, error) {
	style, err := hatch.ParseStyle(string(s.Hatch.Style))
	if err != nil {
		return nil, err
	}
	palette := scene.Palette
	if len(palette) == 0 {
		if palette, err = LookupPalette(DefaultPalette); err != nil {
			return nil, err
		}
	}

	byColor := make([][]projected, len(palette))
	picker := NewColorPicker(palette)
	for i, sh := range scene.Shapes {
		p := projected{shape: sh}
		switch sh.Kind {
		case KindRect:
			p.rect = rc.ProjectRect(sh.Rect)
		default:
			p.points = rc.ProjectPoints(sh.Points)
			b := geom.BoundsFromPoints(p.points)
			p.rect = geom.Rect{X: b.MinX, Y: b.MinY, Width: b.Width, Height: b.Height}
		}

		var color int
		if sh.Color != "" {
			idx, ok := palette.Find(sh.Color)
			if !ok {
				return nil, errors.New(errors.ErrCodeInvalidDrawing, "shape %d: colour %q is not in the palette", i, sh.Color)
			}
			color = idx
		} else {
			color = picker.Pick(p.rect)
		}
		byColor[color] = append(byColor[color], p)
	}

	layers := make([]Layer, len(palette))
	g, gctx := errgroup.WithContext(ctx)
	for i := range palette {
		if len(byColor[i]) == 0 {
			continue
		}
		g.Go(func() error {
			paths := make([]geom.Path, 0, len(byColor[i]))
			for _, p := range byColor[i] {
				if err := gctx.Err(); err != nil {
					return err
				}
				if path := fill(p, style, s); len(path) > 1 {
					paths = append(paths, path)
				}
			}
			layers[i] = Layer{Index: i, Name: palette[i].Name, Color: palette[i].Hex, Paths: paths}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	doc := &Document{
		Width:       rc.PaperWidth,
		Height:      rc.PaperHeight,
		Margin:      rc.Paper.Margin,
		Orientation: rc.Orientation,
	}
	for _, l := range layers {
		if len(l.Paths) > 0 {
			doc.Layers = append(doc.Layers, l)
		}
	}
	doc.SplitByTravel(s.MaxTravel)
	return doc, nil
}

func fill(p projected, style hatch.Style, s Settings) geom.Path {
	sh := p.shape
	if sh.Style != "" {
		style = sh.Style
	}
	spacing := s.Hatch.Spacing
	if sh.Spacing > 0 {
		spacing = sh.Spacing
	}
	lineWidth := s.LineWidth
	if sh.LineWidth > 0 {
		lineWidth = sh.LineWidth
	}
	opts := s.Hatch.Options()

	switch sh.Kind {
	case KindStroke:
		var path geom.Path
		for _, pt := range p.points {
			path = path.Add(pt)
		}
		return path
	case KindRect:
		return hatch.FillRect(style, p.rect, spacing, lineWidth, opts...)
	default:
		return hatch.Fill(style, geom.Polygon(p.points), spacing, opts...)
	}
}
