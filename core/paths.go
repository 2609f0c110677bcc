package core

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName is the product name used in directory paths, shortcut names and logs.
const AppName = "SCLab-App"

// appDirName is the lowercase name used for prefix-internal directories.
const appDirName = "sclab-app"

// Layout resolves every path the install and launch operations need from a
// small set of explicit inputs. It is constructed once and passed into each
// operation instead of being derived from ambient process state, so operations
// stay independently testable.
//
// Paths by platform:
//   - Interpreter: <prefix>/bin/python3 (Unix), <prefix>/python.exe (Windows)
//   - Logs:        <prefix>/var/log/sclab-app/
//   - Shortcuts:   Start Menu\Programs\SCLab-App (Windows),
//     ~/Applications/SCLab-App (macOS),
//     ~/.local/share/applications (Linux, shared directory)
type Layout struct {
	// Prefix is the installation root supplied by the installer runtime.
	Prefix string

	// GOOS is the target platform ("windows", "darwin", "linux"). Kept
	// explicit so path logic is testable for every platform from any host.
	GOOS string

	// Home is the user's home directory.
	Home string

	// AppData is the Windows %APPDATA% directory. Ignored on other platforms.
	AppData string

	// HomeOverride, when non-empty, replaces the default user notebook
	// directory (the --notebook-dir flag and SCLAB_APP_HOME variable).
	HomeOverride string
}

// NewLayout builds a Layout for the current process environment.
// prefix may be empty; operations that require it validate separately.
func NewLayout(prefix string) Layout {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return Layout{
		Prefix:  prefix,
		GOOS:    runtime.GOOS,
		Home:    home,
		AppData: os.Getenv("APPDATA"),
	}
}

// InterpreterCandidates returns the paths probed, in order, when resolving the
// installed interpreter under the prefix. The order is the canonical
// resolution strategy: platform default location first, then the script
// directory fallback. This is a pure function.
func (l Layout) InterpreterCandidates() []string {
	if l.GOOS == "windows" {
		return []string{
			filepath.Join(l.Prefix, "python.exe"),
			filepath.Join(l.Prefix, "Scripts", "python.exe"),
		}
	}
	return []string{
		filepath.Join(l.Prefix, "bin", "python3"),
		filepath.Join(l.Prefix, "bin", "python"),
	}
}

// BinDir returns the prefix directory listed in diagnostics when the
// interpreter cannot be found.
func (l Layout) BinDir() string {
	if l.GOOS == "windows" {
		return l.Prefix
	}
	return filepath.Join(l.Prefix, "bin")
}

// LogDir returns the directory holding the lifecycle logs.
func (l Layout) LogDir() string {
	return filepath.Join(l.Prefix, "var", "log", appDirName)
}

// PostInstallLog returns the post-install log file path.
func (l Layout) PostInstallLog() string {
	return filepath.Join(l.LogDir(), "post_install.log")
}

// PreUninstallLog returns the pre-uninstall log file path.
func (l Layout) PreUninstallLog() string {
	return filepath.Join(l.LogDir(), "pre_uninstall.log")
}

// ShareDir returns the prefix share directory holding bundled resources.
func (l Layout) ShareDir() string {
	return filepath.Join(l.Prefix, "share", appDirName)
}

// NotebookSourceDir returns the directory of packaged default notebooks.
func (l Layout) NotebookSourceDir() string {
	return filepath.Join(l.ShareDir(), "notebooks")
}

// WheelSearchDirs returns the candidate directories probed for the bundled
// application wheel, in order. Mirrors the documented locations the installer
// may have placed it in.
func (l Layout) WheelSearchDirs() []string {
	return []string{
		filepath.Join(l.ShareDir(), "wheels"),
		filepath.Join(l.Prefix, "dist"),
		l.Prefix,
	}
}

// MenuDir returns the prefix menu directory holding the menu descriptor,
// the source logo, and the generated icon files.
func (l Layout) MenuDir() string {
	return filepath.Join(l.Prefix, "menu")
}

// MenuDescriptorPath returns the path of the menu descriptor consumed when
// creating shortcuts.
func (l Layout) MenuDescriptorPath() string {
	return filepath.Join(l.MenuDir(), "sclab-app.json")
}

// LogoPath returns the path of the bundled source logo image.
func (l Layout) LogoPath() string {
	return filepath.Join(l.MenuDir(), "sclab-logo.png")
}

// ReceiptPath returns the path of the install receipt recording created
// shortcut files for the uninstaller.
func (l Layout) ReceiptPath() string {
	return filepath.Join(l.ShareDir(), "receipt.yaml")
}

// ConstructorConfigPath returns the staged copy of the installer descriptor
// the post-install hook reads its pip package list from.
func (l Layout) ConstructorConfigPath() string {
	return filepath.Join(l.ShareDir(), "construct.yaml")
}

// ShortcutDir returns the platform shortcut directory and whether this
// application owns it. Owned directories were created for this application
// and are removed at uninstall when empty; shared directories (the Linux
// applications directory) are never removed. This is a pure function.
func (l Layout) ShortcutDir() (dir string, owned bool) {
	switch l.GOOS {
	case "windows":
		appData := l.AppData
		if appData == "" {
			appData = filepath.Join(l.Home, "AppData", "Roaming")
		}
		return filepath.Join(appData, "Microsoft", "Windows", "Start Menu", "Programs", AppName), true
	case "darwin":
		return filepath.Join(l.Home, "Applications", AppName), true
	default:
		return filepath.Join(l.Home, ".local", "share", "applications"), false
	}
}

// SCLabHome returns the user-facing notebook directory. The location is
// ~/Documents/SCLab-App on every platform unless overridden.
func (l Layout) SCLabHome() string {
	if l.HomeOverride != "" {
		return l.HomeOverride
	}
	return filepath.Join(l.Home, "Documents", AppName)
}

// SCLabHomeSubdirs returns the working subdirectories materialized under the
// notebook directory on first run.
func SCLabHomeSubdirs() []string {
	return []string{"data", "results", "figures"}
}

// EnsureSCLabHome creates the user notebook directory if it does not exist
// and returns its path.
func (l Layout) EnsureSCLabHome() (string, error) {
	dir := l.SCLabHome()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return dir, nil
}

// DashboardNotebook returns the dashboard notebook path under the user
// notebook directory.
func (l Layout) DashboardNotebook() string {
	return filepath.Join(l.SCLabHome(), "dashboard.ipynb")
}
