package cli

import (
	"context"
	"fmt"
	"io"
	"strings"

	progressbar "github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/sdjayna/penplot/pkg/plotter"
)

// maxProgressLines is how many progress lines the plot view keeps.
const maxProgressLines = 8

// Messages sent by a plot job to whoever reports on it.
type (
	// layerStartMsg announces layer n of total.
	layerStartMsg struct {
		n, total int
		label    string
	}
	// layerDoneMsg reports that layer n of total finished.
	layerDoneMsg struct{ n, total int }
	// lineMsg is one progress line from the server.
	lineMsg string
	// doneMsg ends the job.
	doneMsg struct{ err error }
)

// =============================================================================
// plotModel - live view of a running plot
// =============================================================================

// plotModel is the bubbletea model showing plot progress: a spinner with the
// current layer, a bar over the layers when their number is known and the
// most recent progress lines.
type plotModel struct {
	title   string
	spinner spinner.Model
	bar     progressbar.Model
	cancel  context.CancelFunc

	label    string
	lines    []string
	done     int
	total    int
	finished bool
	quit     bool
	err      error
}

func newPlotModel(title string, cancel context.CancelFunc) plotModel {
	return plotModel{
		title:   title,
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(styleIconSpinner)),
		bar:     progressbar.New(progressbar.WithDefaultGradient(), progressbar.WithWidth(40)),
		cancel:  cancel,
	}
}

func (m plotModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m plotModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.quit = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = min(max(msg.Width-8, 10), 60)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case progressbar.FrameMsg:
		bar, cmd := m.bar.Update(msg)
		m.bar = bar.(progressbar.Model)
		return m, cmd
	case layerStartMsg:
		m.label = fmt.Sprintf("Layer %s (%d/%d)", msg.label, msg.n, msg.total)
		m.total = msg.total
	case layerDoneMsg:
		m.done, m.total = msg.n, msg.total
		return m, m.bar.SetPercent(float64(msg.n) / float64(msg.total))
	case lineMsg:
		m.lines = append(m.lines, string(msg))
		if len(m.lines) > maxProgressLines {
			m.lines = m.lines[len(m.lines)-maxProgressLines:]
		}
		if plotter.IsFinal(string(msg)) && m.total == 0 {
			m.label = string(msg)
		}
	case doneMsg:
		m.err = msg.err
		m.finished = true
		return m, tea.Quit
	}
	return m, nil
}

func (m plotModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("\n\n")
	if !m.finished {
		b.WriteString(m.spinner.View() + " ")
	}
	if m.label != "" {
		b.WriteString(StyleValue.Render(m.label))
	} else {
		b.WriteString(StyleDim.Render("Waiting for the plotter"))
	}
	b.WriteString("\n")
	if m.total > 0 {
		b.WriteString("\n" + m.bar.View() + "\n")
	}
	if len(m.lines) > 0 {
		b.WriteString("\n")
		for _, l := range m.lines {
			b.WriteString("  " + progressLineStyle(l).Render(l) + "\n")
		}
	}
	b.WriteString("\n" + StyleDim.Render("q quit") + "\n")
	return b.String()
}

// progressLineStyle highlights failures and completion messages.
func progressLineStyle(line string) lipgloss.Style {
	switch {
	case line == plotter.MessageError || strings.HasPrefix(line, "Error"):
		return styleIconError
	case line == plotter.MessageComplete || strings.HasPrefix(line, "Plot completed"):
		return StyleSuccess
	}
	return StyleDim
}

// runPlotView runs job under the live view, reading keys from in and
// drawing on out. A nil in disables key handling. job reports through the
// function it is given. Quitting the view cancels job's context and waits
// for it to return.
func runPlotView(ctx context.Context, in io.Reader, out io.Writer, title string, job func(ctx context.Context, report func(tea.Msg)) error) error {
	parent := ctx
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// The program stops with the caller's context, not with the job's, so
	// quitting from the view still returns the final model.
	p := tea.NewProgram(newPlotModel(title, cancel), tea.WithContext(parent), tea.WithInput(in), tea.WithOutput(out))
	finished := make(chan struct{})
	go func() {
		defer close(finished)
		err := job(ctx, p.Send)
		p.Send(doneMsg{err: err})
	}()

	final, err := p.Run()
	cancel()
	<-finished
	if err != nil {
		return err
	}
	m := final.(plotModel)
	if m.quit {
		return context.Canceled
	}
	return m.err
}

// textReporter prints job messages as plain status lines.
func textReporter(msg tea.Msg) {
	switch msg := msg.(type) {
	case layerStartMsg:
		printInfo("Layer %s (%d/%d)", msg.label, msg.n, msg.total)
	case layerDoneMsg:
		printSuccess("Layer %d/%d done", msg.n, msg.total)
	case lineMsg:
		printDetail("%s", string(msg))
	}
}
