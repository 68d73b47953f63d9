// Package pipeline provides the draw → compose → render pipeline for penplot.
//
// The CLI and the plotter tooling share this package so that a drawing is
// produced the same way no matter which command asked for it.
//
// # Architecture
//
// The pipeline consists of three stages:
//
//  1. Draw: a registered generator builds its scene from its parameters
//  2. Compose: the scene is projected onto the paper, assigned to pens and
//     hatched into layers
//  3. Render: the document is serialised as an Inkscape-layered SVG
//
// Composed documents and rendered artifacts are cached. A document hit skips
// both the draw and compose stages.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	result, err := runner.Execute(ctx, pipeline.Options{
//	    DrawingID: "bouwkamp",
//	    Paper:     paper.Presets["A3"],
//	})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	os.WriteFile("out.svg", result.SVG, 0o644)
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sdjayna/penplot/pkg/cache"
	"github.com/sdjayna/penplot/pkg/drawing"
	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/paper"
	"github.com/sdjayna/penplot/pkg/render/svg"
)

// FormatSVG is the only artifact format.
const FormatSVG = "svg"

// DefaultPrecision is the number of decimals written for SVG coordinates.
const DefaultPrecision = 3

// MaxPrecision bounds Options.Precision.
const MaxPrecision = 6

// Options contains all configuration for one pipeline run.
type Options struct {
	// DrawingID selects the generator.
	DrawingID string `json:"drawing"`
	// Config holds the generator's parameters. Nil uses its defaults.
	Config drawing.Config `json:"config,omitempty"`

	// Compose options
	Paper       paper.Paper       `json:"paper"`
	Orientation paper.Orientation `json:"orientation,omitempty"`
	Settings    drawing.Settings  `json:"settings"`

	// Render options
	Title       string `json:"title,omitempty"`
	MarginGuide bool   `json:"margin_guide,omitempty"`
	Precision   int    `json:"precision,omitempty"`

	// Refresh bypasses cache reads; results are still written.
	Refresh bool `json:"refresh,omitempty"`

	// Logger receives stage progress. Nil discards it.
	Logger *log.Logger `json:"-"`

	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	DrawingID string

	// Document is the composed plot.
	Document *drawing.Document

	// DocumentHash is the content hash of the document's encoding.
	DocumentHash string

	// SVG is the rendered artifact.
	SVG []byte

	Stats     Stats
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics. Shapes and DrawTime stay
// zero when the document came from the cache.
type Stats struct {
	Shapes      int
	Layers      int
	Paths       int
	Travel      float64 // total pen-down distance in millimetres
	DrawTime    time.Duration
	ComposeTime time.Duration
	RenderTime  time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	DocumentHit bool
	RenderHit   bool
}

// ValidateAndSetDefaults checks required fields and applies defaults.
// It is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := errors.ValidateDrawingID(o.DrawingID); err != nil {
		return err
	}
	if o.Paper == (paper.Paper{}) {
		o.Paper = paper.Default
	}
	if err := o.Paper.Validate(); err != nil {
		return err
	}
	if o.Orientation == "" {
		o.Orientation = paper.Landscape
	}
	if _, err := paper.ParseOrientation(string(o.Orientation)); err != nil {
		return err
	}
	if o.Settings == (drawing.Settings{}) {
		o.Settings = drawing.DefaultSettings()
	}
	if err := o.Settings.Hatch.Validate(); err != nil {
		return err
	}
	if o.Settings.LineWidth < 0 || o.Settings.MaxTravel < 0 {
		return errors.New(errors.ErrCodeInvalidInput, "line width and max travel must not be negative")
	}
	if o.Precision == 0 {
		o.Precision = DefaultPrecision
	}
	if o.Precision < 0 || o.Precision > MaxPrecision {
		return errors.New(errors.ErrCodeInvalidInput, "precision must be between 0 and %d, got %d", MaxPrecision, o.Precision)
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	o.validated = true
	return nil
}

// DocumentKeyOpts returns cache key options for the composed document.
func (o *Options) DocumentKeyOpts(config drawing.Config) cache.DocumentKeyOpts {
	return cache.DocumentKeyOpts{
		Config:      config,
		Paper:       o.Paper.Name,
		Orientation: string(o.Orientation),
		Margin:      o.Paper.Margin,
		Hatch:       o.Settings.Hatch,
		LineWidth:   o.Settings.LineWidth,
		MaxTravel:   o.Settings.MaxTravel,
	}
}

// ArtifactKeyOpts returns cache key options for the rendered SVG.
func (o *Options) ArtifactKeyOpts() cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format:      FormatSVG,
		Title:       o.Title,
		MarginGuide: o.MarginGuide,
		Precision:   o.Precision,
	}
}

// SVGOptions converts the render options for [svg.Render].
func (o *Options) SVGOptions() []svg.Option {
	opts := []svg.Option{svg.WithPrecision(o.Precision)}
	if o.Title != "" {
		opts = append(opts, svg.WithTitle(o.Title))
	}
	if o.MarginGuide {
		opts = append(opts, svg.WithMarginGuide())
	}
	if o.Settings.LineWidth > 0 {
		opts = append(opts, svg.WithStrokeWidth(o.Settings.LineWidth))
	}
	return opts
}
