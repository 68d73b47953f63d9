package cli

import (
	"testing"

	"github.com/sdjayna/penplot/pkg/config"
	"github.com/sdjayna/penplot/pkg/hatch"
)

func TestRenderOptsApply(t *testing.T) {
	tests := []struct {
		name    string
		opts    renderOpts
		check   func(*config.Config) bool
		wantErr bool
	}{
		{
			name:  "no flags keeps config",
			opts:  renderOpts{},
			check: func(c *config.Config) bool { return c.Paper.Preset == config.Default().Paper.Preset },
		},
		{
			name: "overrides",
			opts: renderOpts{paper: "A4", orientation: "portrait", style: "contour", spacing: 1.5, lineWidth: 0.3, maxTravel: 5000, marginGuide: true},
			check: func(c *config.Config) bool {
				return c.Paper.Preset == "A4" && c.Paper.Orientation == "portrait" &&
					c.Hatch.Style == hatch.StyleContour && c.Hatch.Spacing == 1.5 &&
					c.Render.LineWidth == 0.3 && c.Render.MaxTravel == 5000 && c.Render.MarginGuide
			},
		},
		{name: "unknown paper", opts: renderOpts{paper: "Letterish"}, wantErr: true},
		{name: "unknown style", opts: renderOpts{style: "zigzag"}, wantErr: true},
		{name: "negative travel", opts: renderOpts{maxTravel: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			err := tt.opts.apply(cfg)
			if (err != nil) != tt.wantErr {
				t.Fatalf("apply() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.check != nil && !tt.check(cfg) {
				t.Errorf("apply() config = %+v", cfg)
			}
		})
	}
}
