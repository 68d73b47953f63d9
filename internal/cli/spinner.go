package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"
)

const spinnerInterval = 80 * time.Millisecond

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// Spinner animates a single stderr line while a plotter command is in
// flight. The line is cleared when the spinner stops.
type Spinner struct {
	message string
	out     io.Writer

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
	mu     sync.Mutex // guards out
}

// newSpinnerWithContext returns a spinner that also stops when ctx ends.
func newSpinnerWithContext(ctx context.Context, message string) *Spinner {
	s := &Spinner{message: message, out: os.Stderr}
	s.ctx, s.cancel = context.WithCancel(ctx)
	return s
}

func (s *Spinner) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *Spinner) run() {
	defer s.wg.Done()
	tick := time.NewTicker(spinnerInterval)
	defer tick.Stop()

	for frame := 0; ; frame = (frame + 1) % len(spinnerFrames) {
		select {
		case <-s.ctx.Done():
			s.write("\r" + strings.Repeat(" ", len(s.message)+4) + "\r")
			return
		case <-tick.C:
			s.write(fmt.Sprintf("\r%s %s", styleIconSpinner.Render(spinnerFrames[frame]), StyleDim.Render(s.message)))
		}
	}
}

func (s *Spinner) write(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	io.WriteString(s.out, text)
}

// Stop ends the animation and waits for the line to be cleared. Calling it
// again, or without Start, is a no-op.
func (s *Spinner) Stop() {
	s.cancel()
	s.wg.Wait()
}

func (s *Spinner) StopWithSuccess(message string) {
	s.Stop()
	printSuccess("%s", message)
}

func (s *Spinner) StopWithError(message string) {
	s.Stop()
	printError("%s", message)
}

// Cancelled reports whether the spinner has stopped, through Stop or its
// parent context.
func (s *Spinner) Cancelled() bool {
	return s.ctx.Err() != nil
}
