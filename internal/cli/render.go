package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/sdjayna/penplot/pkg/archive"
	"github.com/sdjayna/penplot/pkg/config"
	"github.com/sdjayna/penplot/pkg/hatch"
	"github.com/sdjayna/penplot/pkg/pipeline"
)

// stdoutPath selects standard output as the render target.
const stdoutPath = "-"

// renderOpts holds the command-line flags shared by render and plot.
// Zero values leave the configuration file's setting in place.
type renderOpts struct {
	output      string  // output file path, "-" for stdout
	paper       string  // paper preset name
	orientation string  // landscape or portrait
	style       string  // hatch style
	spacing     float64 // hatch spacing in mm
	lineWidth   float64 // pen width in mm
	maxTravel   float64 // split layers longer than this many mm
	title       string  // SVG <title>
	marginGuide bool    // draw the drawable area
	noCache     bool    // bypass the cache entirely
	refresh     bool    // recompute but still write the cache
	save        bool    // archive the SVG after rendering
}

// addFlags registers the composition flags on cmd.
func (o *renderOpts) addFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&o.paper, "paper", "", "paper preset (e.g. A3, A4)")
	f.StringVar(&o.orientation, "orientation", "", "landscape or portrait")
	f.StringVar(&o.style, "style", "", fmt.Sprintf("hatch style: %v", hatch.Styles))
	f.Float64Var(&o.spacing, "spacing", 0, "hatch spacing in mm")
	f.Float64Var(&o.lineWidth, "line-width", 0, "pen width in mm")
	f.Float64Var(&o.maxTravel, "max-travel", 0, "split layers whose pen-down travel exceeds this many mm")
	f.StringVar(&o.title, "title", "", "document title")
	f.BoolVar(&o.marginGuide, "margin-guide", false, "outline the drawable area")
	f.BoolVar(&o.noCache, "no-cache", false, "disable the render cache")
	f.BoolVar(&o.refresh, "refresh", false, "ignore cached results")
}

// apply overlays the flags that were set onto cfg and revalidates it.
func (o *renderOpts) apply(cfg *config.Config) error {
	if o.paper != "" {
		cfg.Paper.Preset = o.paper
	}
	if o.orientation != "" {
		cfg.Paper.Orientation = o.orientation
	}
	if o.style != "" {
		cfg.Hatch.Style = hatch.Style(o.style)
	}
	if o.spacing != 0 {
		cfg.Hatch.Spacing = o.spacing
	}
	if o.lineWidth != 0 {
		cfg.Render.LineWidth = o.lineWidth
	}
	if o.maxTravel != 0 {
		cfg.Render.MaxTravel = o.maxTravel
	}
	if o.marginGuide {
		cfg.Render.MarginGuide = true
	}
	return cfg.Validate()
}

// renderCommand creates the render command.
func (c *CLI) renderCommand() *cobra.Command {
	var opts renderOpts

	cmd := &cobra.Command{
		Use:   "render <drawing>",
		Short: "Render a drawing to a layered SVG",
		Long: `Render runs a drawing generator, hatches its shapes onto the configured paper
and writes an SVG with one Inkscape layer per pen.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runRender(cmd.Context(), cmd.OutOrStdout(), args[0], &opts)
		},
	}

	opts.addFlags(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (default <drawing>.svg, - for stdout)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "also save the SVG to the archive")
	return cmd
}

func (c *CLI) runRender(ctx context.Context, stdout io.Writer, id string, opts *renderOpts) error {
	result, popts, err := c.renderDrawing(ctx, id, opts)
	if err != nil {
		return err
	}

	out := opts.output
	if out == "" {
		out = id + ".svg"
	}
	if out == stdoutPath {
		_, err := stdout.Write(result.SVG)
		return err
	}
	if err := writeFile(out, result.SVG); err != nil {
		return err
	}
	printSuccess("Rendered %s", id)
	printStats(result.Stats, result.CacheInfo.DocumentHit)
	printFile(out)

	if opts.save {
		rec, err := c.saveResult(ctx, result, popts)
		if err != nil {
			return err
		}
		printFile(rec.Location)
	}
	printNextStep("Plot it", "penplot plot "+id)
	return nil
}

// renderDrawing runs the pipeline for id with the configuration plus the
// flags in opts. It also returns the options it ran with.
func (c *CLI) renderDrawing(ctx context.Context, id string, opts *renderOpts) (*pipeline.Result, pipeline.Options, error) {
	if err := opts.apply(c.Config); err != nil {
		return nil, pipeline.Options{}, err
	}
	runner, err := c.newRunner(ctx, opts.noCache)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	defer runner.Close()

	popts, err := c.pipelineOptions(runner.Registry, id)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	popts.Title = opts.title
	popts.Refresh = opts.refresh

	prog := newProgress(loggerFromContext(ctx))
	result, err := runner.Execute(ctx, popts)
	if err != nil {
		return nil, pipeline.Options{}, err
	}
	prog.done(fmt.Sprintf("Rendered %s: %d layers, %d paths", id, result.Stats.Layers, result.Stats.Paths))
	return result, popts, nil
}

// saveResult stores a rendered drawing in the configured archive, recording
// the parameters it was rendered with.
func (c *CLI) saveResult(ctx context.Context, result *pipeline.Result, opts pipeline.Options) (archive.Record, error) {
	store, err := c.newArchive(ctx)
	if err != nil {
		return archive.Record{}, err
	}
	defer store.Close()

	rec, err := store.Save(ctx, archive.Entry{Name: result.DrawingID, SVG: result.SVG, Config: opts})
	if err != nil {
		return archive.Record{}, err
	}
	loggerFromContext(ctx).Debug("Saved drawing", "id", rec.ID, "bytes", rec.Size)
	return rec, nil
}

// writeFile writes data to path, creating or truncating it.
func writeFile(path string, data []byte) error {
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
