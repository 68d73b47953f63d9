// Package cli implements the penplot command-line interface.
//
// This package provides commands for rendering the built-in drawings,
// hatching single shapes, serving an AxiDraw over HTTP and driving that
// server from the terminal. The CLI is built using cobra and supports verbose
// logging via the charmbracelet/log library.
//
// # Commands
//
// The main commands are:
//   - drawings: List the registered drawing generators
//   - render: Generate a layered SVG for a drawing
//   - hatch: Fill a single rectangle or polygon
//   - serve: Run the plotter HTTP server next to axicli
//   - plot, pen, follow: Drive a plotter server
//   - cache, config: Manage the render cache and the configuration file
//
// # Logging
//
// All commands support --verbose (-v) for debug-level logging, which also
// traces every pipeline stage and each cache, HTTP and plotter event. Loggers are passed through
// context.Context.
//
// # Example
//
//	c := cli.New(os.Stderr, cli.LogInfo)
//	if err := c.RootCommand().ExecuteContext(ctx); err != nil {
//	    os.Exit(1)
//	}
package cli

import (
	"context"
	"io"
	"time"

	"github.com/charmbracelet/log"
)

// newLogger returns a logger stamping each line with the time of day to the
// hundredth of a second.
func newLogger(w io.Writer, level log.Level) *log.Logger {
	return log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05.00",
		Level:           level,
	})
}

// progress times one operation.
type progress struct {
	logger *log.Logger
	start  time.Time
}

func newProgress(l *log.Logger) *progress {
	return &progress{logger: l, start: time.Now()}
}

// done logs msg along with the elapsed time, e.g. "Rendered bouwkamp (1.234s)".
func (p *progress) done(msg string) {
	p.logger.Infof("%s (%s)", msg, time.Since(p.start).Round(time.Millisecond))
}

type ctxKey int

const loggerKey ctxKey = 0

// withLogger returns a new context with the given logger attached.
func withLogger(ctx context.Context, l *log.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, l)
}

// loggerFromContext retrieves the logger from ctx, or log.Default() if none
// is attached.
func loggerFromContext(ctx context.Context) *log.Logger {
	if l, ok := ctx.Value(loggerKey).(*log.Logger); ok {
		return l
	}
	return log.Default()
}

// logHooks reports pipeline, cache, HTTP and plotter events at debug level.
type logHooks struct {
	logger *log.Logger
}

func (h logHooks) OnDrawStart(_ context.Context, drawingID string) {
	h.logger.Debug("Drawing", "drawing", drawingID)
}

func (h logHooks) OnDrawComplete(_ context.Context, drawingID string, shapes int, d time.Duration, err error) {
	h.logger.Debug("Drew scene", "drawing", drawingID, "shapes", shapes, "duration", d.Round(time.Millisecond), "error", err)
}

func (h logHooks) OnComposeStart(_ context.Context, drawingID string, shapes int) {
	h.logger.Debug("Hatching", "drawing", drawingID, "shapes", shapes)
}

func (h logHooks) OnComposeComplete(_ context.Context, drawingID string, layers, paths int, d time.Duration, err error) {
	h.logger.Debug("Hatched", "drawing", drawingID, "layers", layers, "paths", paths, "duration", d.Round(time.Millisecond), "error", err)
}

func (h logHooks) OnRenderStart(_ context.Context, format string) {
	h.logger.Debug("Rendering", "format", format)
}

func (h logHooks) OnRenderComplete(_ context.Context, format string, size int, d time.Duration, err error) {
	h.logger.Debug("Rendered", "format", format, "bytes", size, "duration", d.Round(time.Millisecond), "error", err)
}

func (h logHooks) OnCacheHit(_ context.Context, keyType string) {
	h.logger.Debug("Cache hit", "type", keyType)
}

func (h logHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.logger.Debug("Cache miss", "type", keyType)
}

func (h logHooks) OnCacheSet(_ context.Context, keyType string, size int) {
	h.logger.Debug("Cache set", "type", keyType, "bytes", size)
}

func (h logHooks) OnRequest(_ context.Context, method, host, path string) {
	h.logger.Debug("HTTP request", "method", method, "host", host, "path", path)
}

func (h logHooks) OnResponse(_ context.Context, method, host, path string, status int, d time.Duration) {
	h.logger.Debug("HTTP response", "method", method, "path", path, "status", status, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnError(_ context.Context, method, host, path string, err error) {
	h.logger.Debug("HTTP error", "method", method, "host", host, "path", path, "error", err)
}

func (h logHooks) OnCommand(_ context.Context, command string, d time.Duration, err error) {
	if err != nil {
		h.logger.Debug("Plotter command failed", "command", command, "error", err)
		return
	}
	h.logger.Debug("Plotter command", "command", command, "duration", d.Round(time.Millisecond))
}

func (h logHooks) OnPlotStart(_ context.Context, jobID string, layer int) {
	h.logger.Debug("Plot started", "job", jobID, "layer", layer)
}

func (h logHooks) OnPlotComplete(_ context.Context, jobID string, d time.Duration, err error) {
	h.logger.Debug("Plot finished", "job", jobID, "duration", d.Round(time.Millisecond), "error", err)
}
