package config

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sdjayna/penplot/pkg/drawing"
	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/hatch"
	"github.com/sdjayna/penplot/pkg/paper"
)

func TestDefaultValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default().Validate() error = %v", err)
	}
	p, o, err := cfg.Sheet()
	if err != nil {
		t.Fatal(err)
	}
	if p.Name != "A3" || o != paper.Landscape {
		t.Errorf("Sheet() = %s/%s, want A3/landscape", p.Name, o)
	}
	if cfg.Plotter.Model != 2 || cfg.Plotter.PenRateLower != 25 {
		t.Errorf("plotter defaults = %+v", cfg.Plotter)
	}
}

func TestParse(t *testing.T) {
	cfg, err := Parse(`
[paper]
preset = "a4"
orientation = "portrait"
margin = 12.5

[hatch]
style = "contour"
spacing = 1.5

[cache]
backend = "redis"
ttl = "90m"

[server]
heartbeat = "250ms"
`)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	p, o, _ := cfg.Sheet()
	if p.Name != "A4" || p.Margin != 12.5 || o != paper.Portrait {
		t.Errorf("Sheet() = %+v %s", p, o)
	}
	if cfg.Hatch.Style != hatch.StyleContour || cfg.Hatch.Spacing != 1.5 {
		t.Errorf("Hatch = %+v", cfg.Hatch)
	}
	if !cfg.Hatch.IncludeBoundary || cfg.Hatch.Inset == nil || *cfg.Hatch.Inset != 1 {
		t.Errorf("unset hatch fields lost their defaults: %+v", cfg.Hatch)
	}
	if cfg.Cache.Backend != BackendRedis || cfg.Cache.TTL != 90*time.Minute {
		t.Errorf("Cache = %+v", cfg.Cache)
	}
	if cfg.Server.Heartbeat != 250*time.Millisecond {
		t.Errorf("Heartbeat = %v", cfg.Server.Heartbeat)
	}
	if cfg.Server.Addr != ":8000" {
		t.Errorf("Addr = %q, want default", cfg.Server.Addr)
	}
}

func TestParseInvalid(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"syntax", `[paper`},
		{"paper", "[paper]\npreset = \"letter\""},
		{"orientation", "[paper]\norientation = \"diagonal\""},
		{"margin", "[paper]\nmargin = 500.0"},
		{"style", "[hatch]\nstyle = \"crosshatch\""},
		{"spacing", "[hatch]\nspacing = 0.0"},
		{"cache backend", "[cache]\nbackend = \"memcached\""},
		{"archive backend", "[archive]\nbackend = \"s3\""},
		{"pen position", "[plotter]\npen_pos_up = 140"},
		{"server url", "[server]\nurl = \"ftp://plotter\""},
		{"precision", "[render]\nprecision = 9"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.text)
			if err == nil {
				t.Fatal("Parse() should fail")
			}
			if !errors.Is(err, errors.ErrCodeInvalidConfig) && !errors.Is(err, errors.ErrCodeInvalidStyle) &&
				!errors.Is(err, errors.ErrCodeInvalidInput) {
				t.Errorf("Parse() code = %v", errors.GetCode(err))
			}
		})
	}
}

func TestUndecoded(t *testing.T) {
	cfg, err := Parse(`
[hatch]
colour = "red"

[drawing.bouwkamp]
palette = "mono"
`)
	if err != nil {
		t.Fatal(err)
	}
	got := cfg.Undecoded()
	if len(got) != 1 || got[0] != "hatch.colour" {
		t.Errorf("Undecoded() = %v, want [hatch.colour]", got)
	}
}

func TestDrawingConfig(t *testing.T) {
	cfg, err := Parse(`
[drawing.bouwkamp]
palette = "mono"
line = { spacing = 1.2, stroke_width = 0.5, vertex_gap = 0.4 }

[drawing.polygons]
rows = 0
`)
	if err != nil {
		t.Fatal(err)
	}

	got, err := cfg.DrawingConfig(drawing.BouwkampDrawing)
	if err != nil {
		t.Fatalf("DrawingConfig(bouwkamp) error = %v", err)
	}
	b := got.(*drawing.BouwkampConfig)
	if b.Palette != "mono" || b.Line.Spacing != 1.2 || b.Line.VertexGap != 0.4 {
		t.Errorf("bouwkamp config = %+v", b)
	}
	if len(b.Code) != len(drawing.SimplePerfectRectangle) {
		t.Errorf("code lost its default: %v", b.Code)
	}

	if _, err := cfg.DrawingConfig(drawing.PolygonsDrawing); err == nil {
		t.Error("DrawingConfig(polygons) should reject rows = 0")
	}

	lis, err := cfg.DrawingConfig(drawing.LissajousDrawing)
	if err != nil {
		t.Fatalf("DrawingConfig(lissajous) error = %v", err)
	}
	if lis.(*drawing.LissajousConfig).FreqA != 5 {
		t.Errorf("untouched drawing should keep defaults, got %+v", lis)
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load(\"\") without a file error = %v", err)
	}
	if cfg.Path() != "" {
		t.Errorf("Path() = %q, want empty", cfg.Path())
	}

	if _, err := Load(filepath.Join(dir, "missing.toml")); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("Load(missing) error = %v, want %v", err, errors.ErrCodeFileNotFound)
	}

	path, _ := DefaultPath()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("[render]\nmax_travel = 5000.0\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err = Load("")
	if err != nil {
		t.Fatalf("Load(\"\") error = %v", err)
	}
	if cfg.Render.MaxTravel != 5000 || cfg.Path() != path {
		t.Errorf("Load() = %v from %q", cfg.Render.MaxTravel, cfg.Path())
	}
	if s := cfg.ComposeSettings(); s.MaxTravel != 5000 || s.LineWidth != drawing.DefaultLineWidth {
		t.Errorf("ComposeSettings() = %+v", s)
	}
}

func TestDir(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "/tmp/custom-config")
	dir, err := Dir()
	if err != nil {
		t.Fatal(err)
	}
	if want := filepath.Join("/tmp/custom-config", appName); dir != want {
		t.Errorf("Dir() = %q, want %q", dir, want)
	}
}

func TestWriteRoundTrip(t *testing.T) {
	var buf bytes.Buffer
	if err := Default().Write(&buf, drawing.Builtins()); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	text := buf.String()
	for _, want := range []string{"[server]", "[hatch]", "[drawing.bouwkamp]", "[drawing.lissajous]"} {
		if !strings.Contains(text, want) {
			t.Errorf("Write() output missing %s", want)
		}
	}

	cfg, err := Parse(text)
	if err != nil {
		t.Fatalf("Parse(Write()) error = %v\n%s", err, text)
	}
	if len(cfg.Undecoded()) != 0 {
		t.Errorf("Undecoded() = %v", cfg.Undecoded())
	}
	if cfg.Server.Heartbeat != time.Second || cfg.Cache.TTL != 7*24*time.Hour {
		t.Errorf("durations did not survive: %v %v", cfg.Server.Heartbeat, cfg.Cache.TTL)
	}
	if _, err := cfg.DrawingConfig(drawing.CalibrationDrawing); err != nil {
		t.Errorf("DrawingConfig(calibration) error = %v", err)
	}
}
