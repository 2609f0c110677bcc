package launch

import (
	"fmt"
	"time"

	"sclab_app/core"
)

// Mode names one of the three serve modes.
type Mode string

const (
	// ModeLab serves the full interactive JupyterLab interface.
	ModeLab Mode = "lab"

	// ModeDashboard renders the dashboard notebook through Voila.
	ModeDashboard Mode = "dashboard"

	// ModeServer runs JupyterLab headless for remote access. It never opens
	// a browser.
	ModeServer Mode = "server"
)

// String returns the mode name as used in flags and log fields.
func (m Mode) String() string {
	return string(m)
}

// Valid reports whether m is one of the three serve modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeLab, ModeDashboard, ModeServer:
		return true
	}
	return false
}

// DefaultPort returns the default port for the mode: 8899 for lab and
// server, 8866 for the dashboard.
func (m Mode) DefaultPort() int {
	if m == ModeDashboard {
		return core.DefaultDashboardPort
	}
	return core.DefaultLabPort
}

// DefaultOpenDelay returns how long the launcher waits before opening the
// browser. The dashboard gets an extra second because Voila executes the
// whole notebook before it serves anything.
func (m Mode) DefaultOpenDelay() time.Duration {
	if m == ModeDashboard {
		return core.DefaultDashboardOpenDelay
	}
	return core.DefaultOpenDelay
}

// OpensBrowser reports whether the mode is allowed to open a browser at all.
// Server mode is headless no matter what flags say.
func (m Mode) OpensBrowser() bool {
	return m != ModeServer
}

// Options describes one launch invocation after flag parsing, interpreter
// resolution, and the free-port scan.
type Options struct {
	// Python is the resolved interpreter path under the prefix.
	Python string

	// NotebookDir is the directory the child serves and runs in.
	NotebookDir string

	// Notebook is the dashboard notebook path. Dashboard mode only.
	Notebook string

	// Host is the bind address handed to the child.
	Host string

	// Port is the selected port, already probed free.
	Port int

	// Token is an optional fixed access token for server mode.
	Token string

	// HashedPassword is an optional password hash for server mode, in the
	// notebook server's native argon2 format.
	HashedPassword string
}

// Args builds the child interpreter arguments for the mode.
//
// Lab and server run JupyterLab as a module, the dashboard runs Voila on the
// dashboard notebook. The launcher owns browser opening, so the children are
// always told not to open their own.
func (m Mode) Args(opts Options) []string {
	if m == ModeDashboard {
		return []string{
			"-m", "voila",
			opts.Notebook,
			fmt.Sprintf("--port=%d", opts.Port),
			"--enable_nbextensions=True",
			"--no-browser",
		}
	}

	args := []string{
		"-m", "jupyterlab",
		"--notebook-dir=" + opts.NotebookDir,
		fmt.Sprintf("--port=%d", opts.Port),
		"--ServerApp.ip=" + opts.Host,
		"--no-browser",
	}
	if m == ModeServer {
		args = append(args, "--allow-root")
		if opts.Token != "" {
			args = append(args, "--IdentityProvider.token="+opts.Token)
		}
		if opts.HashedPassword != "" {
			args = append(args, "--PasswordIdentityProvider.hashed_password="+opts.HashedPassword)
		}
	}
	return args
}

// DisplayHost maps wildcard bind addresses to a host a local browser can
// actually reach.
func DisplayHost(host string) string {
	if host == "0.0.0.0" || host == "::" {
		return "localhost"
	}
	return host
}

// URL returns the user-facing URL for the mode. Lab and server land on the
// /lab interface, the dashboard serves at the root.
func (m Mode) URL(opts Options) string {
	base := fmt.Sprintf("http://%s:%d", DisplayHost(opts.Host), opts.Port)
	if m == ModeDashboard {
		return base
	}
	return base + "/lab"
}
