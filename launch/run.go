// Package launch starts and supervises the notebook server child process
// behind the three serve modes: the full JupyterLab interface, the Voila
// dashboard, and the headless server. It owns port selection, the delayed
// browser open, and the translation of shutdown signals into a graceful
// child stop.
package launch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"syscall"
	"time"

	"sclab_app/core"
	"sclab_app/logging"
	"sclab_app/shutdown"

	"go.uber.org/zap"
)

// gracePeriod is how long the child gets to exit after its interrupt before
// it is killed outright. JupyterLab needs a few seconds to stop kernels.
const gracePeriod = 10 * time.Second

// Run resolves everything a serve mode needs, starts the child server, and
// supervises it until exit. The returned int is the exit code the process
// should finish with; it is valid even when the error is non-nil.
func Run(ctx context.Context, cfg *core.Config, mode Mode, logger *logging.Logger) (int, error) {
	if !mode.Valid() {
		return core.ExitCodeError, fmt.Errorf("unknown serve mode %q", mode)
	}

	layout := cfg.Layout()
	logger = logger.With(logging.LaunchFields(core.NewLaunchID(), mode.String())...)

	python, err := core.ResolveInterpreter(layout)
	if err != nil {
		logger.Error("interpreter not found",
			zap.String("prefix", layout.Prefix),
			zap.Strings("bin_dir_contents", core.ListBinDir(layout)),
		)
		return core.ExitCodeError, err
	}

	notebookDir, err := layout.EnsureSCLabHome()
	if err != nil {
		return core.ExitCodeError, fmt.Errorf("failed to prepare notebook directory: %w", err)
	}
	for _, sub := range core.SCLabHomeSubdirs() {
		if err := os.MkdirAll(filepath.Join(notebookDir, sub), 0o755); err != nil {
			logger.Warn("could not create working subdirectory",
				zap.String("dir", sub),
				zap.Error(err),
			)
		}
	}

	opts := Options{
		Python:         python,
		NotebookDir:    notebookDir,
		Host:           cfg.Host,
		Token:          cfg.Token,
		HashedPassword: cfg.HashedPassword,
	}

	if mode == ModeDashboard {
		notebook := layout.DashboardNotebook()
		if _, err := os.Stat(notebook); err != nil {
			logger.Error("dashboard notebook missing", zap.String("path", notebook))
			return core.ExitCodeError, core.ErrNotebookMissing(notebook)
		}
		opts.Notebook = notebook
	}

	requested := cfg.LabPort
	if mode == ModeDashboard {
		requested = cfg.DashboardPort
	}
	selected, err := SelectPort(cfg.Host, requested)
	if err != nil {
		logger.Error("no free port found", zap.Error(err))
		return core.ExitCodeError, err
	}
	opts.Port = selected
	if selected != requested {
		logger.Info("requested port occupied, selected next free port",
			logging.PortFields(requested, selected)...)
		fmt.Printf("Port %d is busy, using %d instead\n", requested, selected)
	}

	return supervise(ctx, cfg, mode, opts, logger)
}

// supervise runs the child until it exits, wiring signals and the browser
// opener around it.
func supervise(ctx context.Context, cfg *core.Config, mode Mode, opts Options, logger *logging.Logger) (int, error) {
	watcher := shutdown.NewWatcher(ctx, logger)
	watcher.Start()
	defer watcher.Stop()
	runCtx := watcher.Context()

	cmd := exec.CommandContext(runCtx, opts.Python, mode.Args(opts)...)
	cmd.Dir = opts.NotebookDir
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	// Interrupt first so the server can stop its kernels; the kill lands
	// only when the grace period expires or Interrupt is unsupported.
	cmd.Cancel = func() error {
		if err := cmd.Process.Signal(os.Interrupt); err != nil {
			return cmd.Process.Kill()
		}
		return nil
	}
	cmd.WaitDelay = gracePeriod

	if err := cmd.Start(); err != nil {
		logger.Error("failed to start server process",
			zap.String("python", opts.Python),
			zap.Error(err),
		)
		return core.ExitCodeError, fmt.Errorf("failed to start %s: %w", opts.Python, err)
	}

	watcher.SetForce(func() {
		logger.Warn("second interrupt, killing server", zap.Int("pid", cmd.Process.Pid))
		_ = cmd.Process.Kill()
	})

	logger.Info("server started", logging.ChildProcessField(logging.ChildProcess{
		Mode:        mode.String(),
		PID:         cmd.Process.Pid,
		Host:        opts.Host,
		Port:        opts.Port,
		NotebookDir: opts.NotebookDir,
	}))

	url := mode.URL(opts)
	fmt.Printf("Starting SCLab-App (%s mode)\n", mode)
	fmt.Printf("Serving notebooks from %s\n", opts.NotebookDir)
	fmt.Printf("URL: %s\n", url)
	fmt.Println("Press Ctrl+C to stop")

	if mode.OpensBrowser() && !cfg.NoBrowser {
		delay := cfg.OpenDelay
		if delay <= 0 {
			delay = mode.DefaultOpenDelay()
		}
		go OpenBrowserAfter(runCtx, url, delay, logger.Named("browser"))
	}

	waitErr := cmd.Wait()

	// A cancelled run context means we interrupted the child ourselves, on a
	// signal or a service stop; however the child died, that is a user stop.
	if watcher.Signaled() || runCtx.Err() != nil || errors.Is(waitErr, context.Canceled) {
		logger.Info("server stopped")
		fmt.Println("\nSCLab-App stopped.")
		return core.ExitCodeSuccess, nil
	}

	if waitErr != nil {
		code := childExitCode(waitErr)
		logger.Error("server exited with failure",
			zap.Int("exit_code", code),
			zap.Error(waitErr),
		)
		return code, fmt.Errorf("server exited with status %d", code)
	}

	logger.Info("server exited cleanly")
	return core.ExitCodeSuccess, nil
}

// childExitCode maps the child's wait error to the launcher exit code. A
// child killed by a signal maps to the 128+N shell convention, so a SIGKILL
// shows up as 137 rather than a generic failure.
func childExitCode(waitErr error) int {
	var exitErr *exec.ExitError
	if !errors.As(waitErr, &exitErr) {
		return core.ExitCodeError
	}
	if code := exitErr.ExitCode(); code >= 0 {
		return code
	}
	if status, ok := exitErr.Sys().(syscall.WaitStatus); ok && status.Signaled() {
		return 128 + int(status.Signal())
	}
	return core.ExitCodeError
}
