package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/sdjayna/penplot/pkg/cache"
	"github.com/sdjayna/penplot/pkg/drawing"
	"github.com/sdjayna/penplot/pkg/observability"
	"github.com/sdjayna/penplot/pkg/render/svg"
)

// Runner encapsulates pipeline execution with caching.
//
// The Runner is stateless except for its registry, cache and logger.
// Multiple goroutines can safely use the same Runner with different options.
type Runner struct {
	Registry *drawing.Registry
	Cache    cache.Cache
	Keyer    cache.Keyer
	Logger   *log.Logger

	// TTL overrides the expiry of cached documents and artifacts when
	// positive.
	TTL time.Duration
}

// NewRunner creates a runner over the built-in drawings.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Registry: drawing.Builtins(),
		Cache:    c,
		Keyer:    keyer,
		Logger:   logger,
	}
}

// Execute runs the complete draw → compose → render pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{DrawingID: opts.DrawingID}

	composeStart := time.Now()
	doc, stats, hit, err := r.ComposeWithCacheInfo(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Document = doc
	result.Stats = stats
	result.CacheInfo.DocumentHit = hit
	result.Stats.ComposeTime = time.Since(composeStart) - stats.DrawTime

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	result.DocumentHash = cache.Hash(data)

	r.Logger.Info("composed drawing",
		"drawing", opts.DrawingID,
		"layers", result.Stats.Layers,
		"paths", result.Stats.Paths,
		"travel_mm", fmt.Sprintf("%.0f", result.Stats.Travel),
		"cached", hit)

	renderStart := time.Now()
	out, renderHit, err := r.RenderWithCacheInfo(ctx, doc, result.DocumentHash, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.SVG = out
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered svg",
		"bytes", len(out),
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Draw resolves the generator and its parameters and builds the scene. It
// returns the config actually used, which is opts.Config or the
// generator's validated defaults.
func (r *Runner) Draw(ctx context.Context, opts Options) (*drawing.Scene, drawing.Config, error) {
	def, err := r.Registry.Lookup(opts.DrawingID)
	if err != nil {
		return nil, nil, err
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = def.NewConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnDrawStart(ctx, def.ID)
	start := time.Now()
	scene, err := def.Draw(cfg)
	shapes := 0
	if scene != nil {
		shapes = len(scene.Shapes)
	}
	hooks.OnDrawComplete(ctx, def.ID, shapes, time.Since(start), err)
	if err != nil {
		return nil, nil, fmt.Errorf("draw %s: %w", def.ID, err)
	}
	return scene, cfg, nil
}

// ComposeWithCacheInfo returns the composed document for opts, from the
// cache when possible, and reports whether it was a cache hit.
func (r *Runner) ComposeWithCacheInfo(ctx context.Context, opts Options) (*drawing.Document, Stats, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, Stats{}, false, err
	}
	def, err := r.Registry.Lookup(opts.DrawingID)
	if err != nil {
		return nil, Stats{}, false, err
	}
	cfg := opts.Config
	if cfg == nil {
		cfg = def.NewConfig()
	}
	cacheKey := r.Keyer.DocumentKey(def.ID, opts.DocumentKeyOpts(cfg))
	hooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			var doc drawing.Document
			if err := json.Unmarshal(data, &doc); err == nil {
				hooks.OnCacheHit(ctx, "document")
				return &doc, documentStats(&doc), true, nil
			}
		} else if err != nil {
			opts.Logger.Warn("cache read failed", "key", cacheKey, "error", err)
		}
		hooks.OnCacheMiss(ctx, "document")
	}

	drawStart := time.Now()
	scene, cfg, err := r.Draw(ctx, Options{DrawingID: opts.DrawingID, Config: cfg})
	if err != nil {
		return nil, Stats{}, false, err
	}
	drawTime := time.Since(drawStart)
	opts.Logger.Debug("drew scene", "drawing", def.ID, "shapes", len(scene.Shapes), "duration", drawTime)

	doc, err := r.compose(ctx, def.ID, scene, opts)
	if err != nil {
		return nil, Stats{}, false, err
	}

	if data, err := json.Marshal(doc); err == nil {
		if err := r.Cache.Set(ctx, cacheKey, data, r.ttl(cache.TTLDocument)); err != nil {
			opts.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
		} else {
			hooks.OnCacheSet(ctx, "document", len(data))
		}
	}

	stats := documentStats(doc)
	stats.Shapes = len(scene.Shapes)
	stats.DrawTime = drawTime
	return doc, stats, false, nil
}

// Compose is a convenience wrapper that calls ComposeWithCacheInfo and
// discards the statistics and cache hit info.
func (r *Runner) Compose(ctx context.Context, opts Options) (*drawing.Document, error) {
	doc, _, _, err := r.ComposeWithCacheInfo(ctx, opts)
	return doc, err
}

func (r *Runner) compose(ctx context.Context, id string, scene *drawing.Scene, opts Options) (*drawing.Document, error) {
	hooks := observability.Pipeline()
	hooks.OnComposeStart(ctx, id, len(scene.Shapes))
	start := time.Now()

	doc, err := func() (*drawing.Document, error) {
		rc, err := drawing.NewContext(opts.Paper, opts.Orientation, scene.Extent())
		if err != nil {
			return nil, err
		}
		return drawing.Compose(ctx, scene, rc, opts.Settings)
	}()

	layers, paths := 0, 0
	if doc != nil {
		layers, paths = len(doc.Layers), doc.PathCount()
	}
	hooks.OnComposeComplete(ctx, id, layers, paths, time.Since(start), err)
	if err != nil {
		return nil, fmt.Errorf("compose %s: %w", id, err)
	}
	return doc, nil
}

// RenderWithCacheInfo renders doc as SVG with caching and reports whether
// the artifact came from the cache. documentHash keys the artifact; an
// empty hash is computed from doc.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, doc *drawing.Document, documentHash string, opts Options) ([]byte, bool, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, false, err
	}
	if documentHash == "" {
		data, err := json.Marshal(doc)
		if err != nil {
			return nil, false, fmt.Errorf("encode document for cache key: %w", err)
		}
		documentHash = cache.Hash(data)
	}
	cacheKey := r.Keyer.ArtifactKey(documentHash, opts.ArtifactKeyOpts())
	cacheHooks := observability.Cache()

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			cacheHooks.OnCacheHit(ctx, "artifact")
			return data, true, nil
		}
		cacheHooks.OnCacheMiss(ctx, "artifact")
	}
	if err := ctx.Err(); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnRenderStart(ctx, FormatSVG)
	start := time.Now()
	out := svg.Render(doc, opts.SVGOptions()...)
	hooks.OnRenderComplete(ctx, FormatSVG, len(out), time.Since(start), nil)

	if err := r.Cache.Set(ctx, cacheKey, out, r.ttl(cache.TTLArtifact)); err != nil {
		opts.Logger.Warn("cache write failed", "key", cacheKey, "error", err)
	} else {
		cacheHooks.OnCacheSet(ctx, "artifact", len(out))
	}
	return out, false, nil
}

// Render is a convenience wrapper that calls RenderWithCacheInfo and
// discards the cache hit info.
func (r *Runner) Render(ctx context.Context, doc *drawing.Document, opts Options) ([]byte, error) {
	out, _, err := r.RenderWithCacheInfo(ctx, doc, "", opts)
	return out, err
}

func (r *Runner) ttl(def time.Duration) time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return def
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

func documentStats(doc *drawing.Document) Stats {
	s := Stats{Layers: len(doc.Layers), Paths: doc.PathCount()}
	for _, l := range doc.Layers {
		s.Travel += l.Length()
	}
	return s
}
