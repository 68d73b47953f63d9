package hatch

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/geom"
)

func rect(w, h float64) geom.Polygon {
	return geom.RectToPolygon(geom.Rect{Width: w, Height: h})
}

func extent(p geom.Path) (lo, hi geom.Point) {
	return geom.Polygon(p).Extent()
}

func rowsAt(p geom.Path) map[float64]bool {
	ys := make(map[float64]bool)
	for _, pt := range p {
		ys[pt.Y] = true
	}
	return ys
}

func assertNoDuplicates(t *testing.T, p geom.Path) {
	t.Helper()
	for i := 1; i < len(p); i++ {
		if p[i].Near(p[i-1]) {
			t.Fatalf("consecutive duplicate at %d: %v", i, p[i])
		}
	}
}

func assertWithin(t *testing.T, p geom.Path, r geom.Rect) {
	t.Helper()
	for i, pt := range p {
		if pt.X < r.X-geom.Epsilon || pt.X > r.Right()+geom.Epsilon ||
			pt.Y < r.Y-geom.Epsilon || pt.Y > r.Bottom()+geom.Epsilon {
			t.Fatalf("point %d = %v outside %+v", i, pt, r)
		}
	}
}

func TestScanlineRect(t *testing.T) {
	path := Scanline(rect(10, 6), 2)
	if len(path) == 0 {
		t.Fatal("Scanline() returned empty path")
	}
	if path[0] != geom.Pt(1, 1) {
		t.Errorf("first point = %v, want (1, 1)", path[0])
	}
	last, _ := path.Last()
	if last != geom.Pt(10, 5) {
		t.Errorf("last point = %v, want (10, 5)", last)
	}
	if last.Y < 6-1 {
		t.Errorf("last point %v should reach the bottom inset row", last)
	}
	assertWithin(t, path, geom.Rect{Width: 10, Height: 6})
	assertNoDuplicates(t, path)

	// The outline is traced once after the fill: every corner appears.
	for _, c := range (geom.Rect{Width: 10, Height: 6}).Corners() {
		found := false
		for _, pt := range path {
			if pt == c {
				found = true
			}
		}
		if !found {
			t.Errorf("boundary corner %v missing", c)
		}
	}
}

func TestScanlineInsetRows(t *testing.T) {
	path := Scanline(rect(20, 10), 2, WithInset(1), WithBoundary(false))
	lo, hi := extent(path)
	if lo.Y != 1 || hi.Y != 9 {
		t.Errorf("rows span y = [%v, %v], want [1, 9]", lo.Y, hi.Y)
	}
	ys := rowsAt(path)
	if len(ys) != 5 {
		t.Fatalf("distinct rows = %d, want 5", len(ys))
	}
	if avg := (hi.Y - lo.Y) / float64(len(ys)-1); math.Abs(avg-2) > 1e-9 {
		t.Errorf("average row step = %v, want 2", avg)
	}
}

func TestScanlineAlternatesDirection(t *testing.T) {
	path := Scanline(rect(10, 6), 2, WithBoundary(false))
	want := geom.Path{{X: 1, Y: 1}, {X: 9, Y: 1}, {X: 9, Y: 3}, {X: 1, Y: 3}, {X: 1, Y: 5}, {X: 9, Y: 5}}
	if diff := cmp.Diff(want, path); diff != "" {
		t.Errorf("Scanline() mismatch (-want +got):\n%s", diff)
	}
	// Consecutive points are joined by horizontal spans or vertical connectors.
	for i := 1; i < len(path); i++ {
		if path[i].X != path[i-1].X && path[i].Y != path[i-1].Y {
			t.Errorf("diagonal move %v -> %v", path[i-1], path[i])
		}
	}
}

func TestScanlineDegenerate(t *testing.T) {
	tests := []struct {
		name    string
		polygon geom.Polygon
	}{
		{"nil", nil},
		{"two points", geom.Polygon{{X: 0, Y: 0}, {X: 5, Y: 5}}},
		{"flat", geom.Polygon{{X: 0, Y: 0}, {X: 5, Y: 0}, {X: 10, Y: 0}}},
		{"non-finite", geom.Polygon{{X: 0, Y: 0}, {X: math.NaN(), Y: 1}, {X: math.Inf(1), Y: 2}}},
		{"closed two-point", geom.Polygon{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 0, Y: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Scanline(tt.polygon, 2); len(got) != 0 {
				t.Errorf("Scanline() = %v, want empty", got)
			}
		})
	}
}

func TestFillClosedTwoPoint(t *testing.T) {
	// Closing point included, this outline has three points and no area.
	line := geom.Polygon{{X: 0, Y: 0}, {X: 5, Y: 5}, {X: 0, Y: 0}}
	for _, style := range []Style{StyleScanline, StyleSerpentine, StyleContour, StyleSkeleton} {
		t.Run(string(style), func(t *testing.T) {
			if got := Fill(style, line, 2); len(got) != 0 {
				t.Errorf("Fill(%s) = %v, want empty", style, got)
			}
		})
	}
}

func TestScanlineHugeInsetClamps(t *testing.T) {
	// Clamping leaves a single collapsed span, so only the outline remains.
	if got := Scanline(rect(10, 4), 1, WithInset(100), WithBoundary(false)); len(got) != 0 {
		t.Errorf("Scanline() = %v, want empty", got)
	}
	got := Scanline(rect(10, 4), 1, WithInset(100))
	if diff := cmp.Diff(geom.Path(rect(10, 4)), got); diff != "" {
		t.Errorf("Scanline() mismatch (-want +got):\n%s", diff)
	}
}

func TestScanlineEdgesOnRows(t *testing.T) {
	t.Run("zero inset reaches top and bottom edges", func(t *testing.T) {
		path := Scanline(rect(10, 6), 2, WithInset(0), WithBoundary(false))
		ys := rowsAt(path)
		for _, y := range []float64{0, 2, 4, 6} {
			if !ys[y] {
				t.Errorf("row y=%v missing", y)
			}
		}
		if last, _ := path.Last(); last != geom.Pt(0, 6) {
			t.Errorf("last point = %v, want (0, 6)", last)
		}
	})

	t.Run("interior horizontal edge belongs to the lower part", func(t *testing.T) {
		// L shape: wide for y in [0, 4), narrow for y in [4, 10].
		l := geom.Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 10}, {X: 0, Y: 10}}
		path := Scanline(l, 2, WithInset(0), WithBoundary(false))
		var row4 []geom.Point
		for _, pt := range path {
			if pt.Y == 4 {
				row4 = append(row4, pt)
			}
		}
		if len(row4) == 0 {
			t.Fatal("row y=4 missing")
		}
		for _, pt := range row4 {
			if pt.X > 4 {
				t.Errorf("row y=4 extends to %v, want x <= 4", pt)
			}
		}
		if !rowsAt(path)[10] {
			t.Error("bottom row y=10 missing")
		}
	})

	t.Run("row on a leg's bottom edge keeps the leg", func(t *testing.T) {
		// Two legs hang from a top bar: the right one ends at y=8, the left
		// one at y=10.
		legs := geom.Polygon{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 8}, {X: 8, Y: 8}, {X: 8, Y: 2}, {X: 2, Y: 2}, {X: 2, Y: 10}, {X: 0, Y: 10}}
		path := Scanline(legs, 2, WithInset(0), WithBoundary(false))
		spans := map[[2]float64]bool{}
		for i := 1; i < len(path); i++ {
			if path[i].Y == 8 && path[i-1].Y == 8 {
				lo, hi := math.Min(path[i].X, path[i-1].X), math.Max(path[i].X, path[i-1].X)
				spans[[2]float64{lo, hi}] = true
			}
		}
		for _, want := range [][2]float64{{0, 2}, {8, 10}} {
			if !spans[want] {
				t.Errorf("row y=8 missing span %v: %v", want, path)
			}
		}
	})

	t.Run("vertex on row does not split the span", func(t *testing.T) {
		diamond := geom.Polygon{{X: 5, Y: 0}, {X: 10, Y: 5}, {X: 5, Y: 10}, {X: 0, Y: 5}}
		path := Scanline(diamond, 5, WithInset(0), WithBoundary(false))
		found := false
		for i := 1; i < len(path); i++ {
			if path[i].Y == 5 && path[i-1].Y == 5 && math.Abs(path[i].X-path[i-1].X) == 10 {
				found = true
			}
		}
		if !found {
			t.Errorf("middle row should span the full width: %v", path)
		}
	})
}

func TestSerpentinePolygon(t *testing.T) {
	path := SerpentinePolygon(rect(20, 12), 1.5, WithInset(0.5), WithBoundary(false))
	lo, hi := extent(path)
	if lo.X != 0.5 || hi.X != 19.5 {
		t.Errorf("columns span x = [%v, %v], want [0.5, 19.5]", lo.X, hi.X)
	}
	if path[0].X != path[1].X {
		t.Errorf("first stroke should be vertical: %v -> %v", path[0], path[1])
	}
}

func TestSerpentineMatchesRectFill(t *testing.T) {
	r := geom.Rect{Width: 20, Height: 12}
	want := SerpentineLine(r, 1.5, 0, WithBoundary(false))
	got := SerpentinePolygon(geom.RectToPolygon(r), 1.5, WithBoundary(false))
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("SerpentinePolygon() vs SerpentineLine() mismatch (-want +got):\n%s", diff)
	}
}

func TestSerpentineLine(t *testing.T) {
	r := geom.Rect{Width: 20, Height: 10}
	path := SerpentineLine(r, 2, 1)
	if path[0] != geom.Pt(1.5, 1.5) || path[1] != geom.Pt(1.5, 8.5) {
		t.Errorf("first stroke = %v -> %v, want (1.5,1.5) -> (1.5,8.5)", path[0], path[1])
	}
	assertWithin(t, path, r)
	assertNoDuplicates(t, path)

	wantTail := geom.Path{{X: 18.5, Y: 1.5}, {X: 20, Y: 1.5}, {X: 20, Y: 10}, {X: 0, Y: 10}, {X: 0, Y: 0}, {X: 20, Y: 0}, {X: 20, Y: 1.5}}
	tail := path[len(path)-len(wantTail):]
	if diff := cmp.Diff(wantTail, tail, cmpopts.EquateApprox(0, 1e-9)); diff != "" {
		t.Errorf("boundary tail mismatch (-want +got):\n%s", diff)
	}
}

func TestSerpentineLineDefaults(t *testing.T) {
	r := geom.Rect{X: 5, Y: 5, Width: 30, Height: 20}
	if diff := cmp.Diff(SerpentineLine(r, 2.5, 0), SerpentineLine(r, 0, 0)); diff != "" {
		t.Errorf("zero spacing should default to 2.5 (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(SerpentineLine(r, 2.5, 0), SerpentineLine(r, 2.5, math.NaN())); diff != "" {
		t.Errorf("NaN line width should count as zero (-want +got):\n%s", diff)
	}
}

func TestSerpentineLineDegenerate(t *testing.T) {
	path := SerpentineLine(geom.Rect{X: 10, Y: 5, Width: 0.01, Height: 0.01}, 2, 5)
	want := geom.Path{{X: 10, Y: 5}, {X: 10.05, Y: 5}, {X: 10.05, Y: 5.05}, {X: 10, Y: 5.05}, {X: 10, Y: 5}}
	if diff := cmp.Diff(want, path, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
		t.Errorf("SerpentineLine() mismatch (-want +got):\n%s", diff)
	}
}

func TestSerpentineLineNonFiniteCorner(t *testing.T) {
	tests := []struct {
		name string
		rect geom.Rect
		want geom.Path
	}{
		{"NaN x", geom.Rect{X: math.NaN(), Y: 5, Width: 0.01, Height: 0.01},
			geom.Path{{X: 0, Y: 5}, {X: 0.05, Y: 5}, {X: 0.05, Y: 5.05}, {X: 0, Y: 5.05}, {X: 0, Y: 5}}},
		{"Inf y", geom.Rect{X: 10, Y: math.Inf(-1), Width: 30, Height: 20},
			geom.Path{{X: 10, Y: 0}, {X: 40, Y: 0}, {X: 40, Y: 20}, {X: 10, Y: 20}, {X: 10, Y: 0}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := SerpentineLine(tt.rect, 2, 5)
			for i, p := range path {
				if !p.Finite() {
					t.Fatalf("SerpentineLine()[%d] = %v, want finite", i, p)
				}
			}
			if diff := cmp.Diff(tt.want, path, cmpopts.EquateApprox(0, 1e-12)); diff != "" {
				t.Errorf("SerpentineLine() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestContour(t *testing.T) {
	path := Contour(rect(20, 10), 2, WithInset(1), WithStrokeWidth(0.5), WithBoundary(false))
	if len(path) <= 10 {
		t.Fatalf("len = %d, want more than 10", len(path))
	}
	lo, hi := extent(path)
	if lo.X < 1.1 || hi.X > 18.9 || lo.Y < 1.1 || hi.Y > 8.9 {
		t.Errorf("rings extent = %v..%v, want clear of the inset and stroke", lo, hi)
	}
	assertNoDuplicates(t, path)
}

func TestContourBoundaryFirst(t *testing.T) {
	path := Contour(rect(20, 10), 2)
	for i, c := range geom.RectToPolygon(geom.Rect{Width: 20, Height: 10}) {
		if path[i] != c {
			t.Fatalf("point %d = %v, want outline vertex %v", i, path[i], c)
		}
	}
}

func TestContourStopsBeforeInverting(t *testing.T) {
	path := Contour(rect(20, 10), 2, WithBoundary(false))
	for _, pt := range path {
		if !rect(20, 10).Contains(pt) {
			t.Fatalf("ring point %v escapes the polygon", pt)
		}
	}
}

func TestSkeleton(t *testing.T) {
	tri := geom.Polygon{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 1, Y: 4}}
	centroid := tri.Centroid()
	path := Skeleton(tri, 1)
	if len(path) <= 4 {
		t.Fatalf("len = %d, want more than 4", len(path))
	}
	if path[0] != path[len(path)-1] {
		t.Errorf("path not closed: %v .. %v", path[0], path[len(path)-1])
	}
	hit := false
	for _, pt := range path {
		if pt.Near(centroid) {
			hit = true
		}
	}
	if !hit {
		t.Errorf("path never reaches centroid %v", centroid)
	}
	for _, pt := range path {
		if !tri.Normalize().Contains(pt) && tri.Normalize().NearestPoint(pt).Distance > 1e-9 {
			t.Errorf("point %v outside triangle", pt)
		}
	}
}

func TestSkeletonAcuteApex(t *testing.T) {
	tri := geom.Polygon{{X: 0, Y: 0}, {X: 8, Y: 0}, {X: 0.5, Y: 7}}
	path := Skeleton(tri, 0.5)
	reached := false
	for _, pt := range path {
		if pt.Y > 6 && math.Abs(pt.X-0.5) < 1 {
			reached = true
		}
	}
	if !reached {
		t.Error("skeleton never reaches the acute apex")
	}
}

func TestSkeletonBoundary(t *testing.T) {
	tri := geom.Polygon{{X: 0, Y: 0}, {X: 6, Y: 0}, {X: 1, Y: 4}}
	without := Skeleton(tri, 1)
	with := Skeleton(tri, 1, WithBoundary(true))
	if len(with) <= len(without) {
		t.Errorf("boundary trace should extend the path: %d <= %d", len(with), len(without))
	}
	assertNoDuplicates(t, with)
}

func TestStitchEmptyPath(t *testing.T) {
	poly := rect(4, 2).Normalize()
	got := stitchPolygon(nil, poly)
	if diff := cmp.Diff(geom.Path(poly), got); diff != "" {
		t.Errorf("stitchPolygon(nil) mismatch (-want +got):\n%s", diff)
	}
}

func TestStitchOnVertex(t *testing.T) {
	poly := rect(4, 2).Normalize()
	got := stitchPolygon(geom.Path{{X: 4, Y: 0}}, poly)
	want := geom.Path{{X: 4, Y: 0}, {X: 4, Y: 2}, {X: 0, Y: 2}, {X: 0, Y: 0}, {X: 4, Y: 0}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("stitchPolygon() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseStyle(t *testing.T) {
	tests := []struct {
		in      string
		want    Style
		wantErr bool
	}{
		{"", StyleSerpentine, false},
		{"scanline", StyleScanline, false},
		{"  Contour ", StyleContour, false},
		{"none", StyleNone, false},
		{"crosshatch", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseStyle(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseStyle(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidStyle) {
				t.Errorf("ParseStyle(%q) code = %v", tt.in, errors.GetCode(err))
			}
			if got != tt.want {
				t.Errorf("ParseStyle(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestFillDispatch(t *testing.T) {
	poly := rect(12, 8)
	for _, style := range Styles {
		t.Run(string(style), func(t *testing.T) {
			path := Fill(style, poly, 2)
			if len(path) == 0 {
				t.Fatal("Fill() returned empty path")
			}
			assertWithin(t, path, geom.Rect{Width: 12, Height: 8})
		})
	}
	if got := Fill(StyleNone, poly, 2); len(got) != 5 {
		t.Errorf("Fill(none) len = %d, want outline of 5 points", len(got))
	}
}

func TestFillRect(t *testing.T) {
	r := geom.Rect{Width: 20, Height: 10}
	if diff := cmp.Diff(SerpentineLine(r, 2, 0.5), FillRect(StyleSerpentine, r, 2, 0.5)); diff != "" {
		t.Errorf("FillRect(serpentine) mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(Scanline(geom.RectToPolygon(r), 2), FillRect(StyleScanline, r, 2, 0.5)); diff != "" {
		t.Errorf("FillRect(scanline) mismatch (-want +got):\n%s", diff)
	}
}

func TestFillIdempotent(t *testing.T) {
	lshape := geom.Polygon{{X: 0, Y: 0}, {X: 12, Y: 0}, {X: 12, Y: 4}, {X: 4, Y: 4}, {X: 4, Y: 10}, {X: 0, Y: 10}}
	r := geom.Rect{X: 3, Y: 2, Width: 20, Height: 10}
	for _, style := range []Style{StyleScanline, StyleSerpentine, StyleContour, StyleSkeleton, StyleNone} {
		t.Run(string(style), func(t *testing.T) {
			first := Fill(style, lshape, 2, WithStrokeWidth(0.5))
			if diff := cmp.Diff(first, Fill(style, lshape, 2, WithStrokeWidth(0.5))); diff != "" {
				t.Errorf("Fill() differs between calls (-first +second):\n%s", diff)
			}
			first = FillRect(style, r, 2, 0.5)
			if diff := cmp.Diff(first, FillRect(style, r, 2, 0.5)); diff != "" {
				t.Errorf("FillRect() differs between calls (-first +second):\n%s", diff)
			}
		})
	}
}

func TestSettings(t *testing.T) {
	s := DefaultSettings()
	if err := s.Validate(); err != nil {
		t.Fatalf("DefaultSettings().Validate() = %v", err)
	}
	o := newOptions(s.Options())
	if o.insetOr(-1) != 1 || !o.boundaryOr(false) {
		t.Errorf("Options() = inset %v, boundary %v; want 1, true", o.insetOr(-1), o.boundaryOr(false))
	}

	bad := []Settings{
		{Style: "zigzag", Spacing: 2},
		{Style: StyleScanline, Spacing: 0},
		{Style: StyleScanline, Spacing: math.NaN()},
		{Style: StyleScanline, Spacing: 2, Inset: func() *float64 { v := -1.0; return &v }()},
	}
	for _, s := range bad {
		if err := s.Validate(); err == nil {
			t.Errorf("Validate(%+v) = nil, want error", s)
		}
	}
}
