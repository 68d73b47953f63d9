package geom

import (
	"math"
	"testing"
)

func TestBoundsFromPoints(t *testing.T) {
	tests := []struct {
		name   string
		points []Point
		want   Bounds
	}{
		{
			name:   "empty",
			points: nil,
			want:   Bounds{MinX: 0, MinY: 0, Width: 1, Height: 1},
		},
		{
			name:   "scattered",
			points: []Point{{10, 5}, {25, 15}, {-5, 20}},
			want:   Bounds{MinX: -5, MinY: 5, Width: 30, Height: 15},
		},
		{
			name:   "single point floors size",
			points: []Point{{3, 4}},
			want:   Bounds{MinX: 3, MinY: 4, Width: 1, Height: 1},
		},
		{
			name:   "non-finite coerced to zero",
			points: []Point{{math.NaN(), 4}, {6, math.Inf(1)}},
			want:   Bounds{MinX: 0, MinY: 0, Width: 6, Height: 4},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := BoundsFromPoints(tt.points); got != tt.want {
				t.Errorf("BoundsFromPoints() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestBoundsFromRects(t *testing.T) {
	rects := []Rect{
		{X: 0, Y: 0, Width: 10, Height: 5},
		{X: 20, Y: -5, Width: 5, Height: 10},
	}
	want := Bounds{MinX: 0, MinY: -5, Width: 25, Height: 10}
	if got := BoundsFromRects(rects); got != want {
		t.Errorf("BoundsFromRects() = %+v, want %+v", got, want)
	}

	if got := BoundsFromRects(nil); got != (Bounds{0, 0, 1, 1}) {
		t.Errorf("BoundsFromRects(nil) = %+v, want unit bounds", got)
	}
}

func TestRectToPolygon(t *testing.T) {
	got := RectToPolygon(Rect{X: 1, Y: 2, Width: 3, Height: 4})
	want := Polygon{{1, 2}, {4, 2}, {4, 6}, {1, 6}, {1, 2}}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("point %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestRectsAdjacent(t *testing.T) {
	base := Rect{X: 0, Y: 0, Width: 10, Height: 10}
	tests := []struct {
		name string
		b    Rect
		want bool
	}{
		{"overlapping", Rect{X: 5, Y: 5, Width: 10, Height: 10}, true},
		{"touching edge", Rect{X: 10, Y: 0, Width: 5, Height: 5}, true},
		{"within one unit", Rect{X: 10.5, Y: 0, Width: 5, Height: 5}, true},
		{"exactly one unit away", Rect{X: 11, Y: 0, Width: 5, Height: 5}, false},
		{"far away", Rect{X: 50, Y: 50, Width: 5, Height: 5}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := RectsAdjacent(base, tt.b); got != tt.want {
				t.Errorf("RectsAdjacent() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestPolygonNormalize(t *testing.T) {
	tests := []struct {
		name    string
		in      Polygon
		wantLen int
	}{
		{"nil", nil, 0},
		{"single point", Polygon{{0, 0}}, 0},
		{"two points", Polygon{{0, 0}, {1, 1}}, 0},
		{"open triangle gets closed", Polygon{{0, 0}, {1, 0}, {0, 1}}, 4},
		{"closed triangle unchanged", Polygon{{0, 0}, {1, 0}, {0, 1}, {0, 0}}, 4},
		{"closed two-point", Polygon{{0, 0}, {5, 5}, {0, 0}}, 0},
		{"non-finite dropped below minimum", Polygon{{0, 0}, {math.NaN(), 0}, {0, 1}}, 0},
		{"non-finite dropped", Polygon{{0, 0}, {math.Inf(1), 0}, {1, 0}, {0, 1}}, 4},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			if len(got) != tt.wantLen {
				t.Fatalf("len = %d, want %d", len(got), tt.wantLen)
			}
			if len(got) > 0 && got[0] != got[len(got)-1] {
				t.Errorf("normalized polygon not closed: %v", got)
			}
		})
	}
}

func TestPolygonNormalizeDoesNotAlias(t *testing.T) {
	in := Polygon{{0, 0}, {1, 0}, {0, 1}}
	out := in.Normalize()
	out[0] = Point{9, 9}
	if in[0] != (Point{0, 0}) {
		t.Error("Normalize() should not modify its input")
	}
}

func TestPolygonAreaAndCentroid(t *testing.T) {
	square := RectToPolygon(Rect{Width: 4, Height: 2})
	if got := square.Open().Area(); got != 8 {
		t.Errorf("Area() = %v, want 8", got)
	}
	c := square.Open().Centroid()
	if math.Abs(c.X-2) > 1e-9 || math.Abs(c.Y-1) > 1e-9 {
		t.Errorf("Centroid() = %v, want (2, 1)", c)
	}

	// Collinear points have no area; the centroid is the vertex average.
	line := Polygon{{0, 0}, {1, 0}, {2, 0}}
	if c := line.Centroid(); c != (Point{1, 0}) {
		t.Errorf("degenerate Centroid() = %v, want (1, 0)", c)
	}
}

func TestPolygonContains(t *testing.T) {
	tri := Polygon{{0, 0}, {10, 0}, {0, 10}, {0, 0}}
	if !tri.Contains(Point{2, 2}) {
		t.Error("point inside triangle reported outside")
	}
	if tri.Contains(Point{8, 8}) {
		t.Error("point outside triangle reported inside")
	}
}

func TestPolygonNearestPoint(t *testing.T) {
	square := RectToPolygon(Rect{Width: 10, Height: 6})

	got := square.NearestPoint(Point{9, 5})
	if got.Point != (Point{10, 5}) {
		t.Errorf("Point = %v, want (10, 5)", got.Point)
	}
	if got.Segment != 1 {
		t.Errorf("Segment = %d, want 1 (earliest of tied edges)", got.Segment)
	}
	if got.Distance != 1 {
		t.Errorf("Distance = %v, want 1", got.Distance)
	}

	// Points outside project onto the nearest corner.
	corner := square.NearestPoint(Point{-3, -4})
	if corner.Point != (Point{0, 0}) || corner.Distance != 5 {
		t.Errorf("corner projection = %+v, want (0,0) at distance 5", corner)
	}
}

func TestPathAdd(t *testing.T) {
	var p Path
	p = p.Add(Point{0, 0})
	p = p.Add(Point{0, 0})
	p = p.Add(Point{1e-9, 0})
	p = p.Add(Point{math.NaN(), 1})
	p = p.Add(Point{1, 0})
	if len(p) != 2 {
		t.Fatalf("len = %d, want 2: %v", len(p), p)
	}
	if last, ok := p.Last(); !ok || last != (Point{1, 0}) {
		t.Errorf("Last() = %v, %v", last, ok)
	}
	if got := p.Length(); got != 1 {
		t.Errorf("Length() = %v, want 1", got)
	}
}
