package cli

import (
	"bytes"
	"context"
	"strings"
	"sync"
	"testing"
	"time"
)

// syncBuffer lets the spinner goroutine and the test share a buffer.
type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func testSpinner(ctx context.Context, message string) (*Spinner, *syncBuffer) {
	var out syncBuffer
	s := newSpinnerWithContext(ctx, message)
	s.out = &out
	return s, &out
}

func TestSpinnerDrawsMessage(t *testing.T) {
	s, out := testSpinner(context.Background(), "Sending home")
	s.Start()
	time.Sleep(3 * spinnerInterval)
	s.Stop()

	if !strings.Contains(out.String(), "Sending home") {
		t.Errorf("spinner output = %q, want it to contain the message", out.String())
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after Stop, want true")
	}
}

func TestSpinnerWithContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	s, _ := testSpinner(ctx, "Sending toggle")
	s.Start()
	cancel()

	stopped := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(stopped)
	}()
	select {
	case <-stopped:
	case <-time.After(time.Second):
		t.Fatal("spinner did not stop after its context was cancelled")
	}
	if !s.Cancelled() {
		t.Error("Cancelled() = false after context cancellation, want true")
	}
}

func TestSpinnerStop(t *testing.T) {
	tests := []struct {
		name  string
		start bool
	}{
		{"started", true},
		{"never started", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := testSpinner(context.Background(), "Testing")
			if tt.start {
				s.Start()
			}
			done := make(chan struct{})
			go func() {
				s.Stop()
				s.Stop()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(time.Second):
				t.Fatal("Stop() blocked")
			}
		})
	}
}

func TestSpinnerStopWithMessages(t *testing.T) {
	s, _ := testSpinner(context.Background(), "Sending align")
	s.Start()
	s.StopWithSuccess("Motors disabled")

	s, _ = testSpinner(context.Background(), "Sending align")
	s.Start()
	s.StopWithError("plotter not connected")
}
