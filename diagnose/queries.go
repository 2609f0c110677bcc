package diagnose

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// probeTimeout bounds each subprocess probe. Importing jupyterlab on a cold
// filesystem can take a few seconds; anything slower is a real problem.
const probeTimeout = 15 * time.Second

// QueryModuleVersion runs `python -m <module> --version` and returns the
// trimmed output. Jupyter tools all answer this form.
func QueryModuleVersion(ctx context.Context, python, module string) (string, error) {
	cmd := exec.CommandContext(ctx, python, "-m", module, "--version")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("%s version query failed: %w (stderr: %s)", module, err, strings.TrimSpace(stderr.String()))
	}

	version := strings.TrimSpace(stdout.String())
	if version == "" {
		version = strings.TrimSpace(stderr.String())
	}
	if version == "" {
		return "", fmt.Errorf("%s version query returned no output", module)
	}
	return version, nil
}

// QueryImportVersion imports a package inside the interpreter and returns its
// __version__ attribute. Packages without one report "unknown" rather than
// failing, so a successful return means the import itself worked.
func QueryImportVersion(ctx context.Context, python, pkg string) (string, error) {
	script := fmt.Sprintf("import %s; print(getattr(%s, '__version__', 'unknown'))", pkg, pkg)
	cmd := exec.CommandContext(ctx, python, "-c", script)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("import %s failed: %w (stderr: %s)", pkg, err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
