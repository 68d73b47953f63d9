package plotter

import (
	"bufio"
	"bytes"
	"context"
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/sdjayna/penplot/pkg/errors"
	"github.com/sdjayna/penplot/pkg/observability"
)

// DefaultStopTimeout is how long Stop waits after asking a plot to
// terminate before killing it.
const DefaultStopTimeout = 5 * time.Second

// Progress messages published around a plot.
const (
	msgPlotDone = "Plot completed successfully"
	msgStopped  = "plot stopped"
)

// tempPattern matches the SVG files written for plots.
const tempPattern = "temp_*.svg"

// SessionOptions configures a Session.
type SessionOptions struct {
	// TempDir receives the SVG handed to axicli. Empty means the working
	// directory.
	TempDir string
	// StopTimeout defaults to DefaultStopTimeout.
	StopTimeout time.Duration
	Logger      *log.Logger
}

// Session owns the plotter. At most one plot runs at a time and no other
// command may run while it does.
type Session struct {
	settings    Settings
	events      *Broadcaster
	logger      *log.Logger
	tempDir     string
	stopTimeout time.Duration
	now         func() time.Time

	mu      sync.Mutex
	job     *job
	running Command // short command in flight, "" when idle
	wg      sync.WaitGroup
}

type job struct {
	id      string
	cmd     *exec.Cmd
	done    chan struct{}
	stopped bool
}

// NewSession returns a session publishing plot progress to events.
func NewSession(settings Settings, events *Broadcaster, opts SessionOptions) *Session {
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = DefaultStopTimeout
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	if events == nil {
		events = NewBroadcaster(0)
	}
	return &Session{
		settings:    settings,
		events:      events,
		logger:      opts.Logger,
		tempDir:     opts.TempDir,
		stopTimeout: opts.StopTimeout,
		now:         time.Now,
	}
}

// Execute carries out req and returns the response body for it.
func (s *Session) Execute(ctx context.Context, req Request) (Response, error) {
	cmd, err := ParseCommand(req.Command)
	if err != nil {
		return Response{}, err
	}

	switch cmd {
	case CommandPlot:
		id, err := s.Plot(ctx, req)
		if err != nil {
			return Response{}, err
		}
		return Response{Status: StatusSuccess, Message: "Plot command started", JobID: id}, nil
	case CommandStopPlot:
		stopped, err := s.Stop(ctx)
		if err != nil {
			return Response{}, err
		}
		if !stopped {
			return Response{Status: StatusSuccess, Message: "No active plot to stop"}, nil
		}
		return Response{Status: StatusSuccess, Message: "Plot stopped"}, nil
	}

	start := time.Now()
	out, err := s.Run(ctx, cmd, req)
	observability.Plot().OnCommand(ctx, string(cmd), time.Since(start), err)
	if err != nil {
		return Response{}, err
	}
	msg := strings.TrimSpace(out)
	switch {
	case cmd == CommandHome:
		msg = "Home sequence completed successfully"
	case msg == "":
		msg = "Command executed successfully"
	}
	return Response{Status: StatusSuccess, Message: msg}, nil
}

// Run executes the invocations for a short command synchronously and
// returns their combined standard output.
func (s *Session) Run(ctx context.Context, cmd Command, req Request) (string, error) {
	if cmd == CommandPlot || cmd == CommandStopPlot {
		return "", errors.New(errors.ErrCodeInvalidCommand, "%s cannot be run synchronously", cmd)
	}
	invocations, err := s.settings.Invocations(cmd, req, "")
	if err != nil {
		return "", err
	}
	s.mu.Lock()
	if err := s.busyLocked(); err != nil {
		s.mu.Unlock()
		return "", err
	}
	s.running = cmd
	s.mu.Unlock()
	defer func() {
		s.mu.Lock()
		s.running = ""
		s.mu.Unlock()
	}()

	var out strings.Builder
	for _, args := range invocations {
		var stdout, stderr bytes.Buffer
		c := exec.CommandContext(ctx, s.settings.Axicli, args...)
		c.Stdout, c.Stderr = &stdout, &stderr
		s.logger.Debug("running axicli", "command", cmd, "args", strings.Join(args, " "))
		if err := c.Run(); err != nil {
			if ctx.Err() != nil {
				return "", ctx.Err()
			}
			msg := strings.TrimSpace(stderr.String())
			if msg == "" {
				msg = err.Error()
			}
			return "", errors.Wrap(errors.ErrCodePlotterFailed, err, "Command failed: %s", msg)
		}
		out.Write(stdout.Bytes())
	}
	return out.String(), nil
}

// Plot starts plotting req.Layer in the background and returns the job id.
// The SVG, when given, is written to a temporary file that is removed when
// the plot ends.
func (s *Session) Plot(ctx context.Context, req Request) (string, error) {
	if _, err := s.settings.Invocations(CommandPlot, req, ""); err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.busyLocked(); err != nil {
		return "", err
	}

	id := uuid.NewString()
	var svgPath string
	if req.SVG != "" {
		path, err := s.writeTemp(id, req.SVG)
		if err != nil {
			return "", err
		}
		svgPath = path
	}
	invocations, err := s.settings.Invocations(CommandPlot, req, svgPath)
	if err != nil {
		removeTemp(svgPath)
		return "", err
	}
	args := invocations[0]

	c := exec.Command(s.settings.Axicli, args...)
	stdout, err := c.StdoutPipe()
	if err != nil {
		removeTemp(svgPath)
		return "", errors.Wrap(errors.ErrCodeInternal, err, "stdout pipe")
	}
	stderr, err := c.StderrPipe()
	if err != nil {
		removeTemp(svgPath)
		return "", errors.Wrap(errors.ErrCodeInternal, err, "stderr pipe")
	}
	if err := c.Start(); err != nil {
		removeTemp(svgPath)
		return "", errors.Wrap(errors.ErrCodePlotterFailed, err, "Failed to start axicli")
	}

	j := &job{id: id, cmd: c, done: make(chan struct{})}
	s.job = j
	s.logger.Info("plot started", "job", id, "layer", *req.Layer, "label", req.LayerLabel, "pid", c.Process.Pid)
	observability.Plot().OnPlotStart(ctx, id, *req.Layer)

	s.wg.Add(1)
	go s.follow(context.WithoutCancel(ctx), j, stdout, stderr, svgPath)
	return id, nil
}

// follow streams the job's output, waits for it and publishes the outcome.
func (s *Session) follow(ctx context.Context, j *job, stdout, stderr io.Reader, svgPath string) {
	defer s.wg.Done()
	start := s.now()

	var streams sync.WaitGroup
	streams.Add(2)
	go func() {
		defer streams.Done()
		scanLines(stdout, func(line string) { s.events.Publish(line) })
	}()
	go func() {
		defer streams.Done()
		scanLines(stderr, func(line string) {
			if strings.Contains(strings.ToLower(line), "estimated print time") {
				s.events.Publish(line)
				return
			}
			s.events.Publish("Error: " + line)
		})
	}()
	streams.Wait()
	err := j.cmd.Wait()

	s.mu.Lock()
	stopped := j.stopped
	s.job = nil
	s.mu.Unlock()
	close(j.done)
	removeTemp(svgPath)

	switch {
	case stopped:
		err = errors.New(errors.ErrCodePlotterFailed, "%s", msgStopped)
	case err != nil:
		err = errors.Wrap(errors.ErrCodePlotterFailed, err, "axicli failed")
	}
	observability.Plot().OnPlotComplete(ctx, j.id, s.now().Sub(start), err)

	if err != nil {
		s.logger.Warn("plot ended", "job", j.id, "error", err)
		s.events.Publish("Error: " + errors.UserMessage(err))
		s.events.Publish(MessageError)
		return
	}
	s.logger.Info("plot finished", "job", j.id, "duration", s.now().Sub(start))
	s.events.Publish(msgPlotDone)
	s.events.Publish(MessageComplete)
}

// Stop terminates the running plot, killing it if it has not exited after
// the stop timeout. It reports whether a plot was running.
func (s *Session) Stop(ctx context.Context) (bool, error) {
	s.mu.Lock()
	j := s.job
	if j == nil {
		s.mu.Unlock()
		return false, nil
	}
	j.stopped = true
	s.mu.Unlock()

	s.logger.Info("stopping plot", "job", j.id, "pid", j.cmd.Process.Pid)
	if err := j.cmd.Process.Signal(syscall.SIGTERM); err != nil {
		// Windows cannot deliver SIGTERM.
		_ = j.cmd.Process.Kill()
	}

	timer := time.NewTimer(s.stopTimeout)
	defer timer.Stop()
	select {
	case <-j.done:
		return true, nil
	case <-ctx.Done():
		_ = j.cmd.Process.Kill()
		return true, ctx.Err()
	case <-timer.C:
		s.logger.Warn("plot did not terminate, killing it", "job", j.id)
		if err := j.cmd.Process.Kill(); err != nil && !stderrors.Is(err, os.ErrProcessDone) {
			return true, errors.Wrap(errors.ErrCodeInternal, err, "kill axicli")
		}
		<-j.done
		return true, nil
	}
}

// busyLocked returns PLOTTER_BUSY while a plot or a short command owns the
// plotter. s.mu must be held.
func (s *Session) busyLocked() error {
	switch {
	case s.job != nil:
		return errors.New(errors.ErrCodePlotterBusy, "plot %s is in progress", s.job.id)
	case s.running != "":
		return errors.New(errors.ErrCodePlotterBusy, "%s is in progress", s.running)
	}
	return nil
}

// Active returns the running plot's job id.
func (s *Session) Active() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.job == nil {
		return "", false
	}
	return s.job.id, true
}

// Wait blocks until every plot started by the session has finished.
func (s *Session) Wait() { s.wg.Wait() }

// Close stops any running plot and waits for it to finish.
func (s *Session) Close(ctx context.Context) error {
	_, err := s.Stop(ctx)
	s.wg.Wait()
	return err
}

func (s *Session) writeTemp(id, svg string) (string, error) {
	name := fmt.Sprintf("temp_%s_%s.svg", s.now().Format("20060102_150405"), id[:8])
	path := filepath.Join(s.tempDir, name)
	if err := os.WriteFile(path, []byte(svg), 0o644); err != nil {
		return "", errors.Wrap(errors.ErrCodeInternal, err, "Failed to create temporary file")
	}
	return path, nil
}

func removeTemp(path string) {
	if path != "" {
		_ = os.Remove(path)
	}
}

// CleanupTemp removes SVG files left in dir by plots that never finished,
// for example after a crash. It returns how many were removed.
func CleanupTemp(dir string) (int, error) {
	if dir == "" {
		dir = "."
	}
	matches, err := filepath.Glob(filepath.Join(dir, tempPattern))
	if err != nil {
		return 0, err
	}
	n := 0
	var errs []error
	for _, m := range matches {
		if err := os.Remove(m); err != nil {
			errs = append(errs, err)
			continue
		}
		n++
	}
	return n, stderrors.Join(errs...)
}

func scanLines(r io.Reader, fn func(string)) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		if line := strings.TrimSpace(sc.Text()); line != "" {
			fn(line)
		}
	}
	// Drain so axicli never blocks on a full pipe after a scan error.
	_, _ = io.Copy(io.Discard, r)
}
