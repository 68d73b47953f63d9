// Package observability lets a binary watch penplot's libraries without the
// libraries knowing who is watching.
//
// There is one hook interface per area: drawing pipeline, cache, outgoing
// HTTP and plotter jobs. Each starts out as a no-op. The penplot binary
// installs log-backed hooks when it starts; a deployment that wants metrics
// installs its own:
//
//	observability.SetPlotHooks(promPlotHooks{})
//
// and the libraries report through the getters:
//
//	start := time.Now()
//	observability.Pipeline().OnDrawStart(ctx, id)
//	scene, err := gen.Draw(params)
//	observability.Pipeline().OnDrawComplete(ctx, id, len(scene.Shapes), time.Since(start), err)
package observability

import (
	"context"
	"sync"
	"time"
)

// PipelineHooks follows a drawing from generation through composition to
// SVG.
type PipelineHooks interface {
	OnDrawStart(ctx context.Context, drawingID string)
	OnDrawComplete(ctx context.Context, drawingID string, shapes int, duration time.Duration, err error)

	// Compose projects the scene onto paper and hatches it into layers.
	OnComposeStart(ctx context.Context, drawingID string, shapes int)
	OnComposeComplete(ctx context.Context, drawingID string, layers, paths int, duration time.Duration, err error)

	OnRenderStart(ctx context.Context, format string)
	OnRenderComplete(ctx context.Context, format string, size int, duration time.Duration, err error)
}

// CacheHooks sees lookups and writes. keyType is the cache scope, such as
// "document".
type CacheHooks interface {
	OnCacheHit(ctx context.Context, keyType string)
	OnCacheMiss(ctx context.Context, keyType string)
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// HTTPHooks sees requests made by the plotter client. OnError is called
// instead of OnResponse when no response arrived.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, host, path string)
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)
	OnError(ctx context.Context, method, host, path string, err error)
}

// PlotHooks sees the plotter server's work.
type PlotHooks interface {
	// OnCommand is called once a non-plot command such as toggle returns.
	OnCommand(ctx context.Context, command string, duration time.Duration, err error)

	OnPlotStart(ctx context.Context, jobID string, layer int)
	// OnPlotComplete is also called for stopped plots, with a non-nil err.
	OnPlotComplete(ctx context.Context, jobID string, duration time.Duration, err error)
}

// hooks is the registered set. It is replaced as a whole, so readers never
// see a half-updated registry.
type hooks struct {
	pipeline PipelineHooks
	cache    CacheHooks
	http     HTTPHooks
	plot     PlotHooks
}

var noop = hooks{
	pipeline: NoopPipelineHooks{},
	cache:    NoopCacheHooks{},
	http:     NoopHTTPHooks{},
	plot:     NoopPlotHooks{},
}

var (
	mu      sync.RWMutex
	current = noop
)

// update applies fn to a copy of the registry under the write lock.
func update(fn func(*hooks)) {
	mu.Lock()
	defer mu.Unlock()
	next := current
	fn(&next)
	current = next
}

func load() hooks {
	mu.RLock()
	defer mu.RUnlock()
	return current
}

// SetPipelineHooks installs h. Like the other setters it ignores nil and is
// meant to be called once, before any drawing runs.
func SetPipelineHooks(h PipelineHooks) {
	if h != nil {
		update(func(r *hooks) { r.pipeline = h })
	}
}

func SetCacheHooks(h CacheHooks) {
	if h != nil {
		update(func(r *hooks) { r.cache = h })
	}
}

func SetHTTPHooks(h HTTPHooks) {
	if h != nil {
		update(func(r *hooks) { r.http = h })
	}
}

func SetPlotHooks(h PlotHooks) {
	if h != nil {
		update(func(r *hooks) { r.plot = h })
	}
}

func Pipeline() PipelineHooks { return load().pipeline }

func Cache() CacheHooks { return load().cache }

func HTTP() HTTPHooks { return load().http }

func Plot() PlotHooks { return load().plot }

// Reset restores the no-op hooks. Tests use it to undo registrations.
func Reset() {
	update(func(r *hooks) { *r = noop })
}
