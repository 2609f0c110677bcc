// Package install implements the post-install and pre-uninstall lifecycle
// hooks: interpreter resolution, icon generation, shortcut creation, Python
// package installation, and the receipt that ties install and uninstall
// together.
package install

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// versionQueryTimeout bounds the interpreter --version probe so a wedged
// interpreter cannot hang the hook.
const versionQueryTimeout = 10 * time.Second

// QueryVersion runs the interpreter with --version under a timeout and
// returns the trimmed version string (e.g. "Python 3.12.0").
func QueryVersion(ctx context.Context, python string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionQueryTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, python, "--version")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("interpreter version query failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}

	// Python 2 wrote the version to stderr; harmless to accept both.
	version := strings.TrimSpace(stdout.String())
	if version == "" {
		version = strings.TrimSpace(stderr.String())
	}
	if version == "" {
		return "", fmt.Errorf("interpreter version query returned no output")
	}
	return version, nil
}

// QueryPlatform asks the interpreter for its platform string
// (e.g. "linux-x86_64") using the platform module.
func QueryPlatform(ctx context.Context, python string) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, versionQueryTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, python, "-c", "import platform; print(platform.platform())")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("interpreter platform query failed: %w (stderr: %s)", err, strings.TrimSpace(stderr.String()))
	}
	return strings.TrimSpace(stdout.String()), nil
}
