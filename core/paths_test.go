package core

import (
	"path/filepath"
	"strings"
	"testing"
)

func testLayout(goos string) Layout {
	return Layout{
		Prefix:  filepath.Join("/opt", "sclab"),
		GOOS:    goos,
		Home:    filepath.Join("/home", "user"),
		AppData: "",
	}
}

func TestInterpreterCandidates_Unix(t *testing.T) {
	l := testLayout("linux")
	got := l.InterpreterCandidates()

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(got), got)
	}
	if !strings.HasSuffix(got[0], filepath.Join("bin", "python3")) {
		t.Errorf("first candidate should be bin/python3, got %q", got[0])
	}
	if !strings.HasSuffix(got[1], filepath.Join("bin", "python")) {
		t.Errorf("second candidate should be bin/python, got %q", got[1])
	}
}

func TestInterpreterCandidates_Windows(t *testing.T) {
	l := testLayout("windows")
	got := l.InterpreterCandidates()

	if len(got) != 2 {
		t.Fatalf("expected 2 candidates, got %d: %v", len(got), got)
	}
	if filepath.Base(got[0]) != "python.exe" {
		t.Errorf("first candidate should be python.exe at the prefix root, got %q", got[0])
	}
	if !strings.Contains(got[1], "Scripts") {
		t.Errorf("second candidate should be under Scripts, got %q", got[1])
	}
}

func TestBinDir_PerPlatform(t *testing.T) {
	unix := testLayout("linux")
	if got := unix.BinDir(); filepath.Base(got) != "bin" {
		t.Errorf("Unix BinDir() = %q, want .../bin", got)
	}

	win := testLayout("windows")
	if got := win.BinDir(); got != win.Prefix {
		t.Errorf("Windows BinDir() = %q, want prefix root %q", got, win.Prefix)
	}
}

func TestLifecycleLogPaths(t *testing.T) {
	l := testLayout("linux")

	post := l.PostInstallLog()
	pre := l.PreUninstallLog()

	wantDir := filepath.Join(l.Prefix, "var", "log", "sclab-app")
	if filepath.Dir(post) != wantDir {
		t.Errorf("PostInstallLog() dir = %q, want %q", filepath.Dir(post), wantDir)
	}
	if filepath.Base(post) != "post_install.log" {
		t.Errorf("PostInstallLog() base = %q, want post_install.log", filepath.Base(post))
	}
	if filepath.Base(pre) != "pre_uninstall.log" {
		t.Errorf("PreUninstallLog() base = %q, want pre_uninstall.log", filepath.Base(pre))
	}
}

func TestShortcutDir_OwnershipPerPlatform(t *testing.T) {
	tests := []struct {
		goos      string
		wantOwned bool
		wantPart  string
	}{
		{"windows", true, "Start Menu"},
		{"darwin", true, "Applications"},
		{"linux", false, filepath.Join(".local", "share", "applications")},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			l := testLayout(tt.goos)
			dir, owned := l.ShortcutDir()
			if owned != tt.wantOwned {
				t.Errorf("ShortcutDir() owned = %v, want %v", owned, tt.wantOwned)
			}
			if !strings.Contains(dir, tt.wantPart) {
				t.Errorf("ShortcutDir() = %q, should contain %q", dir, tt.wantPart)
			}
		})
	}
}

func TestShortcutDir_WindowsAppDataFallback(t *testing.T) {
	l := testLayout("windows")
	l.AppData = ""
	dir, _ := l.ShortcutDir()
	if !strings.Contains(dir, filepath.Join("AppData", "Roaming")) {
		t.Errorf("with APPDATA unset, ShortcutDir() = %q, want AppData\\Roaming fallback", dir)
	}

	l.AppData = filepath.Join("/custom", "appdata")
	dir, _ = l.ShortcutDir()
	if !strings.HasPrefix(dir, l.AppData) {
		t.Errorf("with APPDATA set, ShortcutDir() = %q, want prefix %q", dir, l.AppData)
	}
}

func TestSCLabHome_DefaultAndOverride(t *testing.T) {
	l := testLayout("linux")

	want := filepath.Join(l.Home, "Documents", AppName)
	if got := l.SCLabHome(); got != want {
		t.Errorf("SCLabHome() = %q, want %q", got, want)
	}

	l.HomeOverride = filepath.Join("/data", "notebooks")
	if got := l.SCLabHome(); got != l.HomeOverride {
		t.Errorf("SCLabHome() with override = %q, want %q", got, l.HomeOverride)
	}
}

func TestWheelSearchDirs_Order(t *testing.T) {
	l := testLayout("linux")
	dirs := l.WheelSearchDirs()

	if len(dirs) != 3 {
		t.Fatalf("expected 3 wheel search dirs, got %d", len(dirs))
	}
	if !strings.HasSuffix(dirs[0], filepath.Join("share", "sclab-app", "wheels")) {
		t.Errorf("first wheel dir should be the share wheels dir, got %q", dirs[0])
	}
	if dirs[2] != l.Prefix {
		t.Errorf("last wheel dir should be the prefix itself, got %q", dirs[2])
	}
}

func TestMenuPaths(t *testing.T) {
	l := testLayout("linux")

	if got := l.MenuDescriptorPath(); filepath.Base(got) != "sclab-app.json" {
		t.Errorf("MenuDescriptorPath() base = %q, want sclab-app.json", filepath.Base(got))
	}
	if got := l.LogoPath(); filepath.Base(got) != "sclab-logo.png" {
		t.Errorf("LogoPath() base = %q, want sclab-logo.png", filepath.Base(got))
	}
	if filepath.Dir(l.MenuDescriptorPath()) != l.MenuDir() {
		t.Error("menu descriptor should live in the menu dir")
	}
}

func TestSCLabHomeSubdirs(t *testing.T) {
	subdirs := SCLabHomeSubdirs()
	want := map[string]bool{"data": true, "results": true, "figures": true}
	if len(subdirs) != len(want) {
		t.Fatalf("expected %d subdirs, got %d", len(want), len(subdirs))
	}
	for _, d := range subdirs {
		if !want[d] {
			t.Errorf("unexpected subdir %q", d)
		}
	}
}
