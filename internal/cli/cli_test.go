package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDrawingsCommand(t *testing.T) {
	out, err := runCLI(t, "drawings", "--plain")
	if err != nil {
		t.Fatalf("drawings error: %v", err)
	}
	for _, id := range []string{"bouwkamp", "calibration", "lissajous", "polygons"} {
		if !strings.Contains(out, id+"\n") {
			t.Errorf("drawings --plain output missing %q:\n%s", id, out)
		}
	}

	out, err = runCLI(t, "ls")
	if err != nil {
		t.Fatalf("ls error: %v", err)
	}
	if !strings.Contains(out, "Description") || !strings.Contains(out, "Bouwkamp Code") {
		t.Errorf("drawings table missing headers or names:\n%s", out)
	}
}

func TestRenderCommandStdout(t *testing.T) {
	out, err := runCLI(t, "render", "polygons", "-o", "-", "--paper", "A4", "--no-cache")
	if err != nil {
		t.Fatalf("render error: %v", err)
	}
	if !strings.Contains(out, "<svg") || !strings.Contains(out, `inkscape:groupmode="layer"`) {
		t.Errorf("render -o - did not write a layered SVG:\n%.300s", out)
	}
}

func TestRenderCommandFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.svg")
	if _, err := runCLI(t, "render", "calibration", "-o", path, "--title", "Test sheet"); err != nil {
		t.Fatalf("render error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<title>Test sheet</title>") {
		t.Errorf("rendered SVG is missing the title")
	}
}

func TestRenderCommandErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown drawing", []string{"render", "nope", "-o", "-"}},
		{"bad style", []string{"render", "polygons", "--style", "zigzag", "-o", "-"}},
		{"bad paper", []string{"render", "polygons", "--paper", "B0", "-o", "-"}},
		{"missing arg", []string{"render"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("%v: expected an error", tt.args)
			}
		})
	}
}

func TestHatchCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rect.svg")
	if _, err := runCLI(t, "hatch", "--rect", "0,0,40,20", "--spacing", "2", "-o", path); err != nil {
		t.Fatalf("hatch error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "<path") {
		t.Errorf("hatch output has no path:\n%.300s", data)
	}

	out, err := runCLI(t, "hatch", "--polygon", "0,0 40,0 20,30", "--style", "contour", "-o", "-")
	if err != nil {
		t.Fatalf("hatch polygon error: %v", err)
	}
	if !strings.Contains(out, "<path") {
		t.Errorf("hatch -o - did not write a path")
	}

	if _, err := runCLI(t, "hatch", "--rect", "0,0,1,1", "--polygon", "0,0 1,0 0,1"); err == nil {
		t.Error("hatch with --rect and --polygon should fail")
	}
}

func TestConfigInitCommand(t *testing.T) {
	out, err := runCLI(t, "config", "init", "-o", "-")
	if err != nil {
		t.Fatalf("config init error: %v", err)
	}
	for _, want := range []string{"[plotter]", "[hatch]", "[drawing.bouwkamp]"} {
		if !strings.Contains(out, want) {
			t.Errorf("config init output missing %s", want)
		}
	}

	path := filepath.Join(t.TempDir(), "penplot.toml")
	if _, err := runCLI(t, "config", "init", "-o", path); err != nil {
		t.Fatalf("config init error: %v", err)
	}
	if _, err := runCLI(t, "config", "init", "-o", path); err == nil {
		t.Error("config init over an existing file should fail without --force")
	}
	if _, err := runCLI(t, "config", "init", "-o", path, "--force"); err != nil {
		t.Errorf("config init --force error: %v", err)
	}

	// The written file loads cleanly.
	if _, err := runCLI(t, "--config", path, "drawings", "--plain"); err != nil {
		t.Errorf("loading the written config failed: %v", err)
	}
}

func TestConfigPathCommand(t *testing.T) {
	out, err := runCLI(t, "config", "path")
	if err != nil {
		t.Fatalf("config path error: %v", err)
	}
	if !strings.HasSuffix(strings.TrimSpace(out), filepath.Join(appName, "config.toml")) {
		t.Errorf("config path = %q", out)
	}
}

func TestPlotAndPenArgs(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"plot without input", []string{"plot"}},
		{"plot with drawing and svg", []string{"plot", "polygons", "--svg", "x.svg"}},
		{"plot svg without layers", []string{"plot", "--svg", "x.svg"}},
		{"unknown pen command", []string{"pen", "dance"}},
		{"pen plot", []string{"pen", "plot"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := runCLI(t, tt.args...); err == nil {
				t.Errorf("%v: expected an error", tt.args)
			}
		})
	}
}

func TestMissingConfigFile(t *testing.T) {
	if _, err := runCLI(t, "--config", filepath.Join(t.TempDir(), "absent.toml"), "drawings"); err == nil {
		t.Error("an explicit missing config file should fail")
	}
}

func TestCompletionCommand(t *testing.T) {
	tests := []struct {
		shell string
		want  string
	}{
		{"bash", "penplot"},
		{"zsh", "#compdef penplot"},
		{"fish", "complete -c penplot"},
		{"powershell", "Register-ArgumentCompleter"},
	}
	for _, tt := range tests {
		t.Run(tt.shell, func(t *testing.T) {
			out, err := runCLI(t, "completion", tt.shell)
			if err != nil {
				t.Fatalf("completion %s error: %v", tt.shell, err)
			}
			if !strings.Contains(out, tt.want) {
				t.Errorf("completion %s output missing %q", tt.shell, tt.want)
			}
		})
	}

	if _, err := runCLI(t, "completion", "tcsh"); err == nil {
		t.Error("completion tcsh: expected an error")
	}
}
