package install

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"path/filepath"
	"sort"
	"strings"

	"sclab_app/core"
	"sclab_app/logging"
)

// WheelPattern matches the bundled application wheel by distribution name.
const WheelPattern = "sclab_app-*.whl"

// FindWheel probes the layout's wheel search directories in order and
// returns the first bundled application wheel found. Within a directory,
// candidates sort lexically and the first wins, matching the installer's
// packaging of exactly one wheel per build.
func FindWheel(layout core.Layout) (string, bool) {
	for _, dir := range layout.WheelSearchDirs() {
		matches, err := filepath.Glob(filepath.Join(dir, WheelPattern))
		if err != nil || len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		return matches[0], true
	}
	return "", false
}

// PipInstall runs `python -m pip install --no-input` for the given specs,
// streaming pip's output line by line into the logger so it reaches both
// the console and the lifecycle log.
func PipInstall(ctx context.Context, python string, logger *logging.Logger, specs ...string) error {
	if len(specs) == 0 {
		return nil
	}

	args := append([]string{"-m", "pip", "install", "--no-input"}, specs...)
	cmd := exec.CommandContext(ctx, python, args...)

	out := newLogWriter(logger.Named("pip"))
	cmd.Stdout = out
	cmd.Stderr = out

	err := cmd.Run()
	out.Flush()
	if err != nil {
		return fmt.Errorf("pip install failed: %w", err)
	}
	return nil
}

// logWriter adapts the logger into an io.Writer for subprocess output,
// emitting one log entry per complete line.
type logWriter struct {
	logger *logging.Logger
	buf    bytes.Buffer
}

func newLogWriter(logger *logging.Logger) *logWriter {
	return &logWriter{logger: logger}
}

func (w *logWriter) Write(p []byte) (int, error) {
	w.buf.Write(p)
	for {
		line, err := w.buf.ReadString('\n')
		if err != nil {
			// Partial line; put it back and wait for more
			w.buf.WriteString(line)
			break
		}
		w.emit(line)
	}
	return len(p), nil
}

// Flush emits any trailing partial line. Call after the subprocess exits.
func (w *logWriter) Flush() {
	if w.buf.Len() > 0 {
		w.emit(w.buf.String())
		w.buf.Reset()
	}
}

func (w *logWriter) emit(line string) {
	line = strings.TrimRight(line, "\r\n")
	if strings.TrimSpace(line) == "" {
		return
	}
	w.logger.Info(line)
}
