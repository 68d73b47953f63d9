package plotter

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

// fakeAxicli is a shell script standing in for axicli. It appends its
// arguments to $FAKE_AXICLI_LOG and behaves according to the mode:
//
//   - layers: prints progress on stdout and stderr, then sleeps for
//     $FAKE_AXICLI_SLEEP seconds if set and exits with $FAKE_AXICLI_EXIT
//   - toggle: sleeps for $FAKE_AXICLI_SLOW seconds if set, then fails with
//     "no device" when $FAKE_AXICLI_FAIL is set
//   - walk_home, toggle: print a line
const fakeAxicli = `#!/bin/sh
echo "$@" >> "$FAKE_AXICLI_LOG"
case "$*" in
  *"--mode layers"*)
    echo "Plotting layer"
    echo "Estimated print time: 0:01 (m:ss)" 1>&2
    echo "servo warning" 1>&2
    if [ -n "$FAKE_AXICLI_SLEEP" ]; then exec sleep "$FAKE_AXICLI_SLEEP"; fi
    exit ${FAKE_AXICLI_EXIT:-0}
    ;;
  *"--mode toggle"*)
    if [ -n "$FAKE_AXICLI_SLOW" ]; then sleep "$FAKE_AXICLI_SLOW"; fi
    if [ -n "$FAKE_AXICLI_FAIL" ]; then echo "no device" 1>&2; exit 1; fi
    echo "toggled"
    ;;
  *"walk_home"*)
    echo "walked home"
    ;;
esac
exit 0
`

// newFakeAxicli installs the fake script and returns settings using it and
// the path of its argument log.
func newFakeAxicli(t *testing.T) (Settings, string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake axicli is a shell script")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "axicli")
	if err := os.WriteFile(script, []byte(fakeAxicli), 0o755); err != nil {
		t.Fatal(err)
	}
	logPath := filepath.Join(dir, "args.log")
	t.Setenv("FAKE_AXICLI_LOG", logPath)
	t.Setenv("FAKE_AXICLI_SLEEP", "")
	t.Setenv("FAKE_AXICLI_EXIT", "")
	t.Setenv("FAKE_AXICLI_FAIL", "")
	t.Setenv("FAKE_AXICLI_SLOW", "")

	s := DefaultSettings()
	s.Axicli = script
	return s, logPath
}

func readArgs(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

func quietLogger() *log.Logger {
	return log.NewWithOptions(os.Stderr, log.Options{Level: log.FatalLevel})
}

// collect subscribes to b and returns a function that waits for the final
// message of a plot and returns everything received.
func collect(t *testing.T, b *Broadcaster) func() []string {
	t.Helper()
	msgs, cancel := b.Subscribe()
	return func() []string {
		defer cancel()
		var got []string
		timeout := time.After(10 * time.Second)
		for {
			select {
			case msg, ok := <-msgs:
				if !ok {
					return got
				}
				got = append(got, msg)
				if IsFinal(msg) {
					return got
				}
			case <-timeout:
				t.Fatalf("timed out waiting for plot to finish; got %q", got)
				return nil
			}
		}
	}
}

func intp(v int) *int { return &v }
