package install

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"

	"sclab_app/core"
	"sclab_app/logging"
)

const testMenuJSON = `{
	"menu_name": "SCLab-App",
	"menu_items": [
		{
			"name": "SCLab-App",
			"description": "Interactive single-cell analysis toolkit",
			"command": ["{{ BIN_DIR }}/sclab-app"],
			"icon": "{{ MENU_DIR }}/sclab-app.{{ ICON_EXT }}",
			"terminal": true
		},
		{
			"name": "SCLab-App Dashboard",
			"command": ["{{ BIN_DIR }}/sclab-app", "dashboard"],
			"icon": "{{ MENU_DIR }}/sclab-app.{{ ICON_EXT }}",
			"terminal": true
		},
		{
			"name": "SCLab-App Server",
			"command": ["{{ BIN_DIR }}/sclab-app", "server"],
			"icon": "{{ MENU_DIR }}/sclab-app.{{ ICON_EXT }}",
			"terminal": true
		}
	]
}`

// setupFixture builds a populated prefix (stub interpreter, logo, menu
// descriptor) and a home directory, returning the layout for a Linux target.
func setupFixture(t *testing.T) core.Layout {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("stub interpreter requires a POSIX shell")
	}

	prefix := t.TempDir()
	home := t.TempDir()

	stub := "#!/bin/sh\necho \"Python 3.12.0\"\n"
	if err := os.MkdirAll(filepath.Join(prefix, "bin"), 0o755); err != nil {
		t.Fatalf("failed to create bin dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(prefix, "bin", "python3"), []byte(stub), 0o755); err != nil {
		t.Fatalf("failed to write stub interpreter: %v", err)
	}

	menuDir := filepath.Join(prefix, "menu")
	if err := os.MkdirAll(menuDir, 0o755); err != nil {
		t.Fatalf("failed to create menu dir: %v", err)
	}
	logo := writeTestLogo(t, 256)
	data, err := os.ReadFile(logo)
	if err != nil {
		t.Fatalf("failed to read test logo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(menuDir, "sclab-logo.png"), data, 0o644); err != nil {
		t.Fatalf("failed to write logo: %v", err)
	}
	if err := os.WriteFile(filepath.Join(menuDir, "sclab-app.json"), []byte(testMenuJSON), 0o644); err != nil {
		t.Fatalf("failed to write menu descriptor: %v", err)
	}

	return core.Layout{Prefix: prefix, GOOS: "linux", Home: home}
}

func TestSetup(t *testing.T) {
	layout := setupFixture(t)
	logger, err := logging.NewLifecycleLogger(layout.PostInstallLog(), false)
	if err != nil {
		t.Fatalf("failed to build logger: %v", err)
	}

	result, err := Setup(context.Background(), layout, logger)
	if err != nil {
		t.Fatalf("Setup failed: %v", err)
	}

	if result.Interpreter != filepath.Join(layout.Prefix, "bin", "python3") {
		t.Errorf("Interpreter = %q", result.Interpreter)
	}
	if len(result.Shortcuts) != 3 {
		t.Errorf("Shortcuts = %v, want 3 entries", result.Shortcuts)
	}
	if len(result.Icons) != len(PNGIconSizes)+1 {
		t.Errorf("Icons = %d files, want %d", len(result.Icons), len(PNGIconSizes)+1)
	}
	for _, path := range result.Shortcuts {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("shortcut missing: %v", err)
		}
	}

	// Notebooks seeded into the home documents directory
	dashboard := filepath.Join(layout.SCLabHome(), "dashboard.ipynb")
	if _, err := os.Stat(dashboard); err != nil {
		t.Errorf("dashboard notebook not seeded: %v", err)
	}

	receipt, err := LoadReceipt(layout.ReceiptPath())
	if err != nil {
		t.Fatalf("receipt not written: %v", err)
	}
	if !reflect.DeepEqual(receipt.Shortcuts, result.Shortcuts) {
		t.Errorf("receipt shortcuts = %v, want %v", receipt.Shortcuts, result.Shortcuts)
	}
	if receipt.Platform != "linux" {
		t.Errorf("receipt platform = %q", receipt.Platform)
	}

	// The lifecycle log captured the run
	if _, err := os.Stat(layout.PostInstallLog()); err != nil {
		t.Errorf("post-install log not written: %v", err)
	}
}

func TestSetup_Idempotent(t *testing.T) {
	layout := setupFixture(t)
	logger := logging.NewConsoleLogger(false)

	first, err := Setup(context.Background(), layout, logger)
	if err != nil {
		t.Fatalf("first Setup failed: %v", err)
	}
	second, err := Setup(context.Background(), layout, logger)
	if err != nil {
		t.Fatalf("second Setup failed: %v", err)
	}

	if !reflect.DeepEqual(first.Shortcuts, second.Shortcuts) {
		t.Errorf("shortcut sets differ: %v vs %v", first.Shortcuts, second.Shortcuts)
	}
	if !reflect.DeepEqual(first.Icons, second.Icons) {
		t.Errorf("icon sets differ: %v vs %v", first.Icons, second.Icons)
	}

	// A user-edited notebook survives the second run
	dashboard := filepath.Join(layout.SCLabHome(), "dashboard.ipynb")
	if err := os.WriteFile(dashboard, []byte("{}"), 0o644); err != nil {
		t.Fatalf("failed to edit notebook: %v", err)
	}
	if _, err := Setup(context.Background(), layout, logger); err != nil {
		t.Fatalf("third Setup failed: %v", err)
	}
	data, err := os.ReadFile(dashboard)
	if err != nil {
		t.Fatalf("failed to read notebook: %v", err)
	}
	if string(data) != "{}" {
		t.Error("setup overwrote a user-edited notebook")
	}
}

func TestSetup_NoPrefix(t *testing.T) {
	logger := logging.NewConsoleLogger(false)

	_, err := Setup(context.Background(), core.Layout{GOOS: "linux"}, logger)
	if err == nil {
		t.Fatal("expected error for empty prefix")
	}
	cfgErr, ok := core.IsConfigError(err)
	if !ok || cfgErr.Code != core.ErrCodePrefixMissing {
		t.Errorf("error = %v, want %s", err, core.ErrCodePrefixMissing)
	}
}

func TestSetup_MissingInterpreterRunsNothing(t *testing.T) {
	prefix := t.TempDir()
	home := t.TempDir()
	layout := core.Layout{Prefix: prefix, GOOS: "linux", Home: home}
	logger := logging.NewConsoleLogger(false)

	_, err := Setup(context.Background(), layout, logger)
	if err == nil {
		t.Fatal("expected error for missing interpreter")
	}
	cfgErr, ok := core.IsConfigError(err)
	if !ok || cfgErr.Code != core.ErrCodeInterpreterMissing {
		t.Errorf("error = %v, want %s", err, core.ErrCodeInterpreterMissing)
	}

	// No later step may have run
	if _, err := os.Stat(layout.ReceiptPath()); !os.IsNotExist(err) {
		t.Error("receipt written despite missing interpreter")
	}
	if _, err := os.Stat(layout.SCLabHome()); !os.IsNotExist(err) {
		t.Error("notebooks seeded despite missing interpreter")
	}
	dir, _ := layout.ShortcutDir()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Error("shortcut directory created despite missing interpreter")
	}
}

func TestPipExtras(t *testing.T) {
	layout := core.Layout{Prefix: t.TempDir(), GOOS: "linux"}
	logger := logging.NewConsoleLogger(false)

	// No staged descriptor: compiled-in defaults
	got := pipExtras(layout, logger)
	if !reflect.DeepEqual(got, DefaultPipExtras) {
		t.Errorf("pipExtras() = %v, want defaults", got)
	}

	// Staged descriptor overrides
	staged := `name: SCLab-App
version: 0.1.0
channels: [conda-forge]
specs: [python]
post_install_pip:
  - typer>=0.9.0
`
	if err := os.MkdirAll(layout.ShareDir(), 0o755); err != nil {
		t.Fatalf("failed to create share dir: %v", err)
	}
	if err := os.WriteFile(layout.ConstructorConfigPath(), []byte(staged), 0o644); err != nil {
		t.Fatalf("failed to write staged descriptor: %v", err)
	}

	got = pipExtras(layout, logger)
	if !reflect.DeepEqual(got, []string{"typer>=0.9.0"}) {
		t.Errorf("pipExtras() = %v, want staged list", got)
	}
}
