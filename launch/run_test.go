package launch

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"
	"testing"
	"time"

	"sclab_app/core"
	"sclab_app/logging"
)

// launchFixture builds a prefix with a stub interpreter running the given
// shell script and a config pointing at an isolated notebook directory.
func launchFixture(t *testing.T, script string) *core.Config {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub interpreter requires a POSIX shell")
	}

	prefix := t.TempDir()
	bin := filepath.Join(prefix, "bin")
	if err := os.MkdirAll(bin, 0o755); err != nil {
		t.Fatalf("failed to create bin dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(bin, "python3"), []byte(script), 0o755); err != nil {
		t.Fatalf("failed to write stub interpreter: %v", err)
	}

	return &core.Config{
		Prefix:        prefix,
		HomeDir:       t.TempDir(),
		Host:          "127.0.0.1",
		LabPort:       core.DefaultLabPort,
		DashboardPort: core.DefaultDashboardPort,
		NoBrowser:     true,
		OpenDelay:     time.Second,
	}
}

func TestRun_StubServerExitsCleanly(t *testing.T) {
	cfg := launchFixture(t, "#!/bin/sh\nexit 0\n")

	code, err := Run(context.Background(), cfg, ModeLab, logging.NewConsoleLogger(false))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if code != core.ExitCodeSuccess {
		t.Errorf("exit code = %d, want %d", code, core.ExitCodeSuccess)
	}

	// The launcher materializes the notebook directory and its subdirs
	for _, sub := range core.SCLabHomeSubdirs() {
		if _, err := os.Stat(filepath.Join(cfg.HomeDir, sub)); err != nil {
			t.Errorf("working subdirectory %s not created: %v", sub, err)
		}
	}
}

func TestRun_ChildFailurePropagatesExitCode(t *testing.T) {
	cfg := launchFixture(t, "#!/bin/sh\nexit 7\n")

	code, err := Run(context.Background(), cfg, ModeLab, logging.NewConsoleLogger(false))
	if err == nil {
		t.Fatal("expected error for failing child")
	}
	if code != 7 {
		t.Errorf("exit code = %d, want 7", code)
	}
}

func TestRun_ChildReceivesSelectedPortAndFlags(t *testing.T) {
	out := filepath.Join(t.TempDir(), "argv.txt")
	cfg := launchFixture(t, "#!/bin/sh\nprintf '%s\\n' \"$@\" > \"$STUB_OUT\"\nexit 0\n")
	t.Setenv("STUB_OUT", out)

	occupied := occupyPort(t)
	cfg.LabPort = occupied

	code, err := Run(context.Background(), cfg, ModeLab, logging.NewConsoleLogger(false))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if code != core.ExitCodeSuccess {
		t.Fatalf("exit code = %d, want 0", code)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("stub did not record its arguments: %v", err)
	}
	args := strings.Fields(string(data))

	for _, want := range []string{"-m", "jupyterlab", "--no-browser"} {
		found := false
		for _, arg := range args {
			if arg == want {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("child argv missing %q: %v", want, args)
		}
	}
	for _, arg := range args {
		if arg == "--port="+strconv.Itoa(occupied) {
			t.Errorf("child received the occupied port %d instead of a fallback", occupied)
		}
	}
}

func TestRun_DashboardMissingNotebook(t *testing.T) {
	cfg := launchFixture(t, "#!/bin/sh\nexit 0\n")

	code, err := Run(context.Background(), cfg, ModeDashboard, logging.NewConsoleLogger(false))
	if err == nil {
		t.Fatal("expected error for missing dashboard notebook")
	}
	if code != core.ExitCodeError {
		t.Errorf("exit code = %d, want %d", code, core.ExitCodeError)
	}
	cfgErr, ok := core.IsConfigError(err)
	if !ok {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cfgErr.Code != core.ErrCodeNotebookMissing {
		t.Errorf("error code = %q, want %q", cfgErr.Code, core.ErrCodeNotebookMissing)
	}
}

func TestRun_DashboardWithNotebook(t *testing.T) {
	cfg := launchFixture(t, "#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(filepath.Join(cfg.HomeDir, "dashboard.ipynb"), []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to seed dashboard notebook: %v", err)
	}

	code, err := Run(context.Background(), cfg, ModeDashboard, logging.NewConsoleLogger(false))
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}
	if code != core.ExitCodeSuccess {
		t.Errorf("exit code = %d, want 0", code)
	}
}

func TestRun_MissingInterpreter(t *testing.T) {
	cfg := &core.Config{
		Prefix:        t.TempDir(),
		HomeDir:       t.TempDir(),
		Host:          "127.0.0.1",
		LabPort:       core.DefaultLabPort,
		DashboardPort: core.DefaultDashboardPort,
		NoBrowser:     true,
	}

	code, err := Run(context.Background(), cfg, ModeLab, logging.NewConsoleLogger(false))
	if err == nil {
		t.Fatal("expected error for missing interpreter")
	}
	if code != core.ExitCodeError {
		t.Errorf("exit code = %d, want %d", code, core.ExitCodeError)
	}
	cfgErr, ok := core.IsConfigError(err)
	if !ok {
		t.Fatalf("expected ConfigError, got %T", err)
	}
	if cfgErr.Code != core.ErrCodeInterpreterMissing {
		t.Errorf("error code = %q, want %q", cfgErr.Code, core.ErrCodeInterpreterMissing)
	}
}

func TestRun_InvalidMode(t *testing.T) {
	cfg := &core.Config{Host: "127.0.0.1", LabPort: core.DefaultLabPort}

	code, err := Run(context.Background(), cfg, Mode("notebook"), logging.NewConsoleLogger(false))
	if err == nil {
		t.Fatal("expected error for unknown mode")
	}
	if code != core.ExitCodeError {
		t.Errorf("exit code = %d, want %d", code, core.ExitCodeError)
	}
}

func TestChildExitCode(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("exit status fixtures require a POSIX shell")
	}

	t.Run("plain exit status", func(t *testing.T) {
		err := exec.Command("sh", "-c", "exit 3").Run()
		if err == nil {
			t.Fatal("expected ExitError")
		}
		if got := childExitCode(err); got != 3 {
			t.Errorf("childExitCode = %d, want 3", got)
		}
	})

	t.Run("killed by signal maps to 128+N", func(t *testing.T) {
		err := exec.Command("sh", "-c", "kill -9 $$").Run()
		if err == nil {
			t.Fatal("expected ExitError")
		}
		if got := childExitCode(err); got != 137 {
			t.Errorf("childExitCode = %d, want 137 (128+SIGKILL)", got)
		}
	})

	t.Run("non-exit errors are generic failures", func(t *testing.T) {
		if got := childExitCode(errors.New("boom")); got != core.ExitCodeError {
			t.Errorf("childExitCode = %d, want %d", got, core.ExitCodeError)
		}
	})
}
