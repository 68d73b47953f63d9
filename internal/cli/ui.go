package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/sdjayna/penplot/pkg/pipeline"
)

// ANSI 256 colours, named after the pens they resemble.
var (
	colorTeal  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorAmber = lipgloss.Color("220")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorPaper = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

// Styles shared by every command's output.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorTeal)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorTeal)
	StyleDim       = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue     = lipgloss.NewStyle().Foreground(colorPaper)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorGreen)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorAmber)
)

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorTeal)
	styleKey         = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand     = lipgloss.NewStyle().Foreground(colorBlue)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
	iconCached  = "cached"
	iconFresh   = "fresh"
)

// status prints one line led by a coloured marker.
func status(icon string, iconStyle lipgloss.Style, text string) {
	fmt.Println(iconStyle.Render(icon), text)
}

func printSuccess(format string, args ...any) {
	status(iconSuccess, styleIconSuccess, fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	status(iconError, styleIconError, fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	status(iconWarning, StyleWarning, StyleWarning.Render(fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	status(iconInfo, styleIconInfo, fmt.Sprintf(format, args...))
}

// printDetail prints an indented, dimmed line under a status line.
func printDetail(format string, args ...any) {
	fmt.Println(" ", StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written file or archive location.
func printFile(path string) {
	fmt.Println(" ", StyleDim.Render(iconArrow), StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKey.Render(key), StyleValue.Render(value))
}

func printStats(stats pipeline.Stats, cached bool) {
	fmt.Println(statsLine(stats, cached))
}

// statsLine summarises a render, e.g. "3 layers · 120 paths · 5321mm · fresh".
// Zero counts are left out.
func statsLine(stats pipeline.Stats, cached bool) string {
	var parts []string
	if stats.Layers > 0 {
		parts = append(parts, plural(stats.Layers, "layer"))
	}
	if stats.Paths > 0 {
		parts = append(parts, plural(stats.Paths, "path"))
	}
	if stats.Travel > 0 {
		parts = append(parts, fmt.Sprintf("%.0fmm", stats.Travel))
	}

	tag := styleIconInfo.Render(iconFresh)
	if cached {
		tag = StyleSuccess.Render(iconCached)
	}
	sep := StyleDim.Render(" · ")
	if len(parts) == 0 {
		return "  " + tag
	}
	return "  " + StyleDim.Render(strings.Join(parts, " · ")) + sep + tag
}

func plural(n int, noun string) string {
	if n == 1 {
		return "1 " + noun
	}
	return fmt.Sprintf("%d %ss", n, noun)
}

// printNextStep suggests the command to run next.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":"), styleCommand.Render(cmd))
}
