package cli

import (
	"context"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sdjayna/penplot/pkg/drawing"
	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/geom"
	"github.com/sdjayna/penplot/pkg/hatch"
	"github.com/sdjayna/penplot/pkg/render/svg"
)

// hatchPadding is the blank border around a single hatched shape, in mm.
const hatchPadding = 10

type hatchOpts struct {
	rect       string
	polygon    string
	style      string
	spacing    float64
	lineWidth  float64
	inset      float64
	noBoundary bool
	output     string
}

// hatchCommand fills one rectangle or polygon, mostly for trying out styles.
func (c *CLI) hatchCommand() *cobra.Command {
	var opts hatchOpts

	cmd := &cobra.Command{
		Use:   "hatch",
		Short: "Fill a single rectangle or polygon and write it as SVG",
		Example: `  penplot hatch --rect 0,0,40,20 --spacing 2 -o rect.svg
  penplot hatch --polygon "0,0 40,0 20,30" --style contour -o tri.svg`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runHatch(cmd.Context(), cmd.OutOrStdout(), &opts, cmd.Flags().Changed("inset"))
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.rect, "rect", "", "rectangle as x,y,width,height in mm")
	f.StringVar(&opts.polygon, "polygon", "", `polygon as space-separated "x,y" points in mm`)
	f.StringVar(&opts.style, "style", "", fmt.Sprintf("hatch style: %v (default from config)", hatch.Styles))
	f.Float64Var(&opts.spacing, "spacing", 0, "hatch spacing in mm (default from config)")
	f.Float64Var(&opts.lineWidth, "line-width", 0, "pen width in mm (default from config)")
	f.Float64Var(&opts.inset, "inset", 0, "inset from the outline in mm (default half the spacing)")
	f.BoolVar(&opts.noBoundary, "no-boundary", false, "do not trace the outline")
	f.StringVarP(&opts.output, "output", "o", "hatch.svg", "output file, - for stdout")
	cmd.MarkFlagsMutuallyExclusive("rect", "polygon")
	cmd.MarkFlagsOneRequired("rect", "polygon")
	return cmd
}

func (c *CLI) runHatch(ctx context.Context, stdout io.Writer, opts *hatchOpts, insetSet bool) error {
	logger := loggerFromContext(ctx)

	settings := c.Config.Hatch
	if opts.style != "" {
		settings.Style = hatch.Style(opts.style)
	}
	if opts.spacing != 0 {
		settings.Spacing = opts.spacing
	}
	if insetSet {
		inset := opts.inset
		settings.Inset = &inset
	}
	if opts.noBoundary {
		settings.IncludeBoundary = false
	}
	if err := settings.Validate(); err != nil {
		return err
	}
	style, _ := hatch.ParseStyle(string(settings.Style))
	lineWidth := c.Config.Render.LineWidth
	if opts.lineWidth > 0 {
		lineWidth = opts.lineWidth
	}

	var (
		path   geom.Path
		bounds geom.Bounds
	)
	if opts.rect != "" {
		r, err := parseRect(opts.rect)
		if err != nil {
			return err
		}
		path = hatch.FillRect(style, r, settings.Spacing, lineWidth, settings.Options()...)
		bounds = geom.BoundsFromRects([]geom.Rect{r})
	} else {
		pts, err := parsePoints(opts.polygon)
		if err != nil {
			return err
		}
		path = hatch.Fill(style, geom.Polygon(pts), settings.Spacing, settings.Options()...)
		bounds = geom.BoundsFromPoints(pts)
	}
	if len(path) == 0 {
		return errors.New(errors.ErrCodeInvalidInput, "shape is degenerate; nothing to draw")
	}
	logger.Info("Hatched shape", "style", style, "points", len(path), "length", fmt.Sprintf("%.1fmm", path.Length()))

	doc := &drawing.Document{
		Width:  bounds.MinX + bounds.Width + hatchPadding,
		Height: bounds.MinY + bounds.Height + hatchPadding,
		Layers: []drawing.Layer{{Name: "black", Color: "#000000", Paths: []geom.Path{path}}},
	}
	data := svg.Render(doc,
		svg.WithPrecision(c.Config.Render.Precision),
		svg.WithStrokeWidth(lineWidth),
		svg.WithTitle(fmt.Sprintf("%s hatch", style)))

	if opts.output == stdoutPath {
		_, err := stdout.Write(data)
		return err
	}
	if err := writeFile(opts.output, data); err != nil {
		return err
	}
	printSuccess("Hatched %d points", len(path))
	printFile(opts.output)
	return nil
}

// parseRect parses "x,y,width,height".
func parseRect(s string) (geom.Rect, error) {
	v, err := parseFloats(s, 4)
	if err != nil {
		return geom.Rect{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "rect %q", s)
	}
	return geom.Rect{X: v[0], Y: v[1], Width: v[2], Height: v[3]}, nil
}

// parsePoints parses space-separated "x,y" pairs.
func parsePoints(s string) ([]geom.Point, error) {
	fields := strings.Fields(s)
	pts := make([]geom.Point, 0, len(fields))
	for _, f := range fields {
		v, err := parseFloats(f, 2)
		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "point %q", f)
		}
		pts = append(pts, geom.Pt(v[0], v[1]))
	}
	if len(pts) < 3 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "a polygon needs at least 3 points, got %d", len(pts))
	}
	return pts, nil
}

func parseFloats(s string, n int) ([]float64, error) {
	parts := strings.Split(s, ",")
	if len(parts) != n {
		return nil, fmt.Errorf("want %d comma-separated numbers, got %d", n, len(parts))
	}
	out := make([]float64, n)
	for i, p := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(p), 64)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
