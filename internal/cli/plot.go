package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/sdjayna/penplot/pkg/drawing"
	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/plotter"
)

// stopTimeout bounds the stop_plot request sent when a plot is abandoned.
const stopTimeout = 10 * time.Second

// penOpts holds the per-request pen overrides. Unset flags leave the
// server's defaults in place.
type penOpts struct {
	up, down, rate int
}

func (o *penOpts) addFlags(cmd *cobra.Command) {
	cmd.Flags().IntVar(&o.up, "pen-up", 0, "pen up position, 0-100 (default from server)")
	cmd.Flags().IntVar(&o.down, "pen-down", 0, "pen down position, 0-100 (default from server)")
	cmd.Flags().IntVar(&o.rate, "pen-rate", 0, "pen lowering rate, 0-100 (default from server)")
}

// apply copies the flags the user set onto req.
func (o *penOpts) apply(cmd *cobra.Command, req *plotter.Request) {
	set := func(name string, v int, dst **int) {
		if cmd.Flags().Changed(name) {
			*dst = &v
		}
	}
	set("pen-up", o.up, &req.PenPosUp)
	set("pen-down", o.down, &req.PenPosDown)
	set("pen-rate", o.rate, &req.PenRateLower)
}

// plotLayer is one pen pass to send to the server.
type plotLayer struct {
	index int
	label string
}

type plotOpts struct {
	renderOpts
	pen     penOpts
	server  string
	svgFile string
	layers  []int
	live    bool
}

// plotCommand renders a drawing, or reads an SVG, and plots it layer by
// layer on a plotter server.
func (c *CLI) plotCommand() *cobra.Command {
	var opts plotOpts

	cmd := &cobra.Command{
		Use:   "plot [drawing]",
		Short: "Plot a drawing on a plotter server, one layer at a time",
		Long: `Plot renders the drawing (or reads --svg) and asks the plotter server to plot
each layer in turn, waiting for one to finish before starting the next.
Interrupting stops the plot in progress.`,
		Example: `  penplot plot bouwkamp
  penplot plot bouwkamp --layer 2 --live
  penplot plot --svg out.svg --layer 0 --layer 1`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (len(args) == 1) == (opts.svgFile != "") {
				return errors.New(errors.ErrCodeInvalidInput, "give either a drawing or --svg")
			}
			return c.runPlot(cmd, args, &opts)
		},
	}

	opts.renderOpts.addFlags(cmd)
	opts.pen.addFlags(cmd)
	cmd.Flags().StringVar(&opts.server, "server", "", "plotter server URL (default from config)")
	cmd.Flags().StringVar(&opts.svgFile, "svg", "", "plot an existing SVG instead of rendering")
	cmd.Flags().IntSliceVar(&opts.layers, "layer", nil, "plot only these layer indices (repeatable)")
	cmd.Flags().BoolVar(&opts.save, "save", false, "archive the SVG on the server before plotting")
	cmd.Flags().BoolVar(&opts.live, "live", false, "show a live progress view")
	return cmd
}

func (c *CLI) runPlot(cmd *cobra.Command, args []string, opts *plotOpts) error {
	ctx := cmd.Context()
	client, err := c.newClient(opts.server)
	if err != nil {
		return err
	}

	var (
		name   string
		svg    []byte
		layers []plotLayer
		params any
	)
	if opts.svgFile != "" {
		if len(opts.layers) == 0 {
			return errors.New(errors.ErrCodeInvalidInput, "--layer is required with --svg")
		}
		if svg, err = os.ReadFile(opts.svgFile); err != nil {
			return errors.Wrap(errors.ErrCodeFileNotFound, err, "read %s", opts.svgFile)
		}
		name = strings.TrimSuffix(filepath.Base(opts.svgFile), filepath.Ext(opts.svgFile))
		for _, i := range opts.layers {
			layers = append(layers, plotLayer{index: i, label: fmt.Sprint(i)})
		}
	} else {
		name = args[0]
		result, popts, err := c.renderDrawing(ctx, name, &opts.renderOpts)
		if err != nil {
			return err
		}
		svg, params = result.SVG, popts
		if layers, err = selectLayers(result.Document, opts.layers); err != nil {
			return err
		}
	}

	if opts.save {
		saved, err := client.SaveSVG(ctx, plotter.SaveRequest{Name: name, SVG: string(svg), Config: rawJSON(params)})
		if err != nil {
			return err
		}
		printSuccess("Saved %s", saved.Filename)
	}

	job := func(ctx context.Context, report func(tea.Msg)) error {
		return plotLayers(ctx, client, cmd, &opts.pen, string(svg), layers, report)
	}
	if opts.live {
		return runPlotView(ctx, os.Stdin, os.Stderr, "Plotting "+name, job)
	}
	if err := job(ctx, textReporter); err != nil {
		return err
	}
	printSuccess("Plotted %s (%d layers)", name, len(layers))
	return nil
}

// selectLayers lists the document's pens in order, keeping only the given
// indices when any are given. Passes of a split layer share an index and
// are plotted together.
func selectLayers(doc *drawing.Document, only []int) ([]plotLayer, error) {
	var out []plotLayer
	seen := make(map[int]bool)
	for _, l := range doc.Layers {
		if seen[l.Index] || (len(only) > 0 && !slices.Contains(only, l.Index)) {
			continue
		}
		seen[l.Index] = true
		out = append(out, plotLayer{index: l.Index, label: fmt.Sprintf("%d-%s", l.Index, l.Name)})
	}
	for _, i := range only {
		if !seen[i] {
			return nil, errors.New(errors.ErrCodeInvalidInput, "the drawing has no layer %d", i)
		}
	}
	if len(out) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "the drawing has no layers to plot")
	}
	return out, nil
}

// plotLayers plots each layer in turn, waiting for the server to report
// completion before sending the next. Cancelling ctx stops the plot in
// progress.
func plotLayers(ctx context.Context, client *plotter.Client, cmd *cobra.Command, pen *penOpts, svg string, layers []plotLayer, report func(tea.Msg)) error {
	stream, err := client.Subscribe(ctx)
	if err != nil {
		return err
	}
	defer stream.Close()

	finals := make(chan string, 1)
	go func() {
		defer close(finals)
		_ = stream.Each(func(msg string) error {
			if plotter.IsFinal(msg) {
				select {
				case finals <- msg:
				default:
				}
				return nil
			}
			report(lineMsg(msg))
			return nil
		})
	}()

	for i, l := range layers {
		report(layerStartMsg{n: i + 1, total: len(layers), label: l.label})
		req := plotter.Request{Command: string(plotter.CommandPlot), Layer: &l.index, LayerLabel: l.label, SVG: svg}
		pen.apply(cmd, &req)
		if _, err := client.Send(ctx, req); err != nil {
			return err
		}

		select {
		case msg, ok := <-finals:
			if !ok {
				if ctx.Err() != nil {
					stopPlot(client)
					return ctx.Err()
				}
				return errors.New(errors.ErrCodeNetwork, "progress stream closed during layer %s", l.label)
			}
			if msg == plotter.MessageError {
				return errors.New(errors.ErrCodePlotterFailed, "layer %s failed", l.label)
			}
		case <-ctx.Done():
			stopPlot(client)
			return ctx.Err()
		}
		report(layerDoneMsg{n: i + 1, total: len(layers)})
	}
	return nil
}

// stopPlot asks the server to stop, outliving the cancelled command.
func stopPlot(client *plotter.Client) {
	ctx, cancel := context.WithTimeout(context.Background(), stopTimeout)
	defer cancel()
	if resp, err := client.Send(ctx, plotter.Request{Command: string(plotter.CommandStopPlot)}); err != nil {
		printError("Could not stop the plot: %v", err)
	} else {
		printWarning("%s", resp.Message)
	}
}

// penCommand sends a single non-plot command.
func (c *CLI) penCommand() *cobra.Command {
	var (
		pen    penOpts
		server string
	)
	var names []string
	for _, cmd := range plotter.Commands {
		if cmd != plotter.CommandPlot {
			names = append(names, string(cmd))
		}
	}

	cmd := &cobra.Command{
		Use:       "pen <command>",
		Short:     "Send a command to the plotter: " + strings.Join(names, ", "),
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: names,
		RunE: func(cmd *cobra.Command, args []string) error {
			client, err := c.newClient(server)
			if err != nil {
				return err
			}
			req := plotter.Request{Command: args[0]}
			pen.apply(cmd, &req)

			sp := newSpinnerWithContext(cmd.Context(), "Sending "+args[0])
			sp.Start()
			resp, err := client.Send(cmd.Context(), req)
			if err != nil {
				sp.StopWithError(errors.UserMessage(err))
				return err
			}
			sp.StopWithSuccess(resp.Message)
			return nil
		},
	}

	pen.addFlags(cmd)
	cmd.Flags().StringVar(&server, "server", "", "plotter server URL (default from config)")
	return cmd
}

// rawJSON encodes v for a save request; nil or unencodable values are
// recorded as no configuration.
func rawJSON(v any) json.RawMessage {
	if v == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	return data
}

// newClient returns a client for server, or the configured server URL.
func (c *CLI) newClient(server string) (*plotter.Client, error) {
	if server == "" {
		server = c.Config.Server.URL
	}
	return plotter.NewClient(server, c.Logger)
}
