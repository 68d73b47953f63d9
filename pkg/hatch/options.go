package hatch

import "math"

const (
	// DefaultSpacing is used when a caller passes a non-finite or
	// non-positive spacing where a default is meaningful.
	DefaultSpacing = 2.5

	// MinSpacing bounds the number of rows a single call can produce.
	MinSpacing = 0.1

	// DefaultStrokeWidth is the pen width assumed by the contour fill.
	DefaultStrokeWidth = 0.4
)

// Option configures a single fill call.
type Option func(*options)

type options struct {
	inset       *float64
	boundary    *bool
	strokeWidth *float64
	minInterior *float64
	apexInset   *float64
	entryRatio  *float64
}

// WithInset sets the margin kept clear between the fill and the outline. The
// default is half the spacing. Values are clamped per fill so the fill region
// never inverts.
func WithInset(d float64) Option { return func(o *options) { o.inset = &d } }

// WithBoundary controls whether the fill ends by tracing the outline. Scanline,
// serpentine and contour fills include the boundary by default; skeleton fills
// do not.
func WithBoundary(include bool) Option { return func(o *options) { o.boundary = &include } }

// WithStrokeWidth sets the pen width used by the contour fill to keep rings
// from touching the outline.
func WithStrokeWidth(w float64) Option { return func(o *options) { o.strokeWidth = &w } }

// WithMinInterior sets how far skeleton spokes must reach into the polygon.
func WithMinInterior(d float64) Option { return func(o *options) { o.minInterior = &d } }

// WithApexInset sets how far skeleton spokes stop short of the opposite edge.
func WithApexInset(d float64) Option { return func(o *options) { o.apexInset = &d } }

// WithEntryRatio sets the fraction of the bisector ray left unfilled by a
// skeleton spoke. It is clamped to [0.05, 0.45].
func WithEntryRatio(r float64) Option { return func(o *options) { o.entryRatio = &r } }

func newOptions(opts []Option) options {
	var o options
	for _, opt := range opts {
		if opt != nil {
			opt(&o)
		}
	}
	return o
}

func (o options) insetOr(def float64) float64 {
	if o.inset == nil || !finite(*o.inset) {
		return def
	}
	return *o.inset
}

func (o options) boundaryOr(def bool) bool {
	if o.boundary == nil {
		return def
	}
	return *o.boundary
}

func valueOr(v *float64, def float64) float64 {
	if v == nil || !finite(*v) {
		return def
	}
	return *v
}

// sanitizeSpacing replaces unusable spacing with the default and applies the
// floor.
func sanitizeSpacing(s float64) float64 {
	if !finite(s) || s <= 0 {
		s = DefaultSpacing
	}
	return math.Max(s, MinSpacing)
}

func finite(v float64) bool { return !math.IsNaN(v) && !math.IsInf(v, 0) }

func clamp(v, lo, hi float64) float64 { return math.Min(math.Max(v, lo), hi) }
