package install

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"sclab_app/core"
	"sclab_app/installer"
)

func testMenuItem() *installer.MenuItem {
	return &installer.MenuItem{
		Name:        "SCLab-App",
		Description: "Interactive single-cell analysis toolkit",
		Command:     []string{"{{ BIN_DIR }}/sclab-app"},
		Icon:        "{{ MENU_DIR }}/sclab-app.{{ ICON_EXT }}",
		Terminal:    true,
		Platforms: installer.PlatformOptions{
			Linux: &installer.LinuxOptions{
				Categories:    []string{"Science", "Education"},
				GenericName:   "Single-Cell Analysis",
				Keywords:      []string{"single-cell", "scRNA-seq"},
				StartupNotify: true,
			},
			MacOS: &installer.MacOSOptions{
				CFBundleName:           "SCLab-App",
				CFBundleIdentifier:     "org.umbibio.sclab-app",
				LSMinimumSystemVersion: "10.15",
			},
			Windows: &installer.WindowsOptions{Desktop: true},
		},
	}
}

func TestPlaceholderVars(t *testing.T) {
	layout := core.Layout{Prefix: "/opt/sclab", GOOS: "linux", Home: "/home/ada"}

	vars := PlaceholderVars(layout)

	want := map[string]string{
		"BIN_DIR":  filepath.Join("/opt/sclab", "bin"),
		"MENU_DIR": filepath.Join("/opt/sclab", "menu"),
		"PREFIX":   "/opt/sclab",
		"ICON_EXT": "png",
		"HOME":     "/home/ada",
	}
	if !reflect.DeepEqual(vars, want) {
		t.Errorf("PlaceholderVars() = %v, want %v", vars, want)
	}
}

func TestSlugName(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"SCLab-App", "sclab-app"},
		{"SCLab-App Dashboard", "sclab-app-dashboard"},
		{"SCLab-App Server", "sclab-app-server"},
		{"  Spaced  Name ", "spaced--name"},
		{"Weird!@#Chars", "weirdchars"},
	}
	for _, tt := range tests {
		if got := SlugName(tt.name); got != tt.want {
			t.Errorf("SlugName(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestShortcutPath(t *testing.T) {
	tests := []struct {
		goos   string
		suffix string
	}{
		{"linux", filepath.Join(".local", "share", "applications", "sclab-app-dashboard.desktop")},
		{"darwin", filepath.Join("Applications", "SCLab-App", "SCLab-App Dashboard.app")},
		{"windows", filepath.Join("SCLab-App", "SCLab-App Dashboard.lnk")},
	}
	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			layout := core.Layout{GOOS: tt.goos, Home: "/home/ada", AppData: `C:\Users\ada\AppData\Roaming`}

			got := ShortcutPath(layout, "SCLab-App Dashboard")
			if !strings.HasSuffix(got, tt.suffix) {
				t.Errorf("ShortcutPath() = %q, want suffix %q", got, tt.suffix)
			}
		})
	}
}

func TestDesktopEntry(t *testing.T) {
	item := testMenuItem()
	layout := core.Layout{Prefix: "/opt/sclab", GOOS: "linux", Home: "/home/ada"}
	vars := PlaceholderVars(layout)

	entry := DesktopEntry(item, vars)

	wantLines := []string{
		"[Desktop Entry]",
		"Type=Application",
		"Name=SCLab-App",
		"Comment=Interactive single-cell analysis toolkit",
		"Exec=" + vars["BIN_DIR"] + "/sclab-app",
		"Icon=" + vars["MENU_DIR"] + "/sclab-app.png",
		"Terminal=true",
		"GenericName=Single-Cell Analysis",
		"Categories=Science;Education;",
		"Keywords=single-cell;scRNA-seq;",
		"StartupNotify=true",
	}
	for _, line := range wantLines {
		if !strings.Contains(entry, line+"\n") {
			t.Errorf("desktop entry missing line %q\ngot:\n%s", line, entry)
		}
	}
}

func TestDesktopEntry_QuotesSpacedArguments(t *testing.T) {
	item := &installer.MenuItem{
		Name:    "Example",
		Command: []string{"/opt/my app/bin/run", "--mode", "lab"},
	}

	entry := DesktopEntry(item, nil)

	if !strings.Contains(entry, `Exec="/opt/my app/bin/run" --mode lab`) {
		t.Errorf("spaced command not quoted:\n%s", entry)
	}
}

func TestInfoPlist(t *testing.T) {
	item := testMenuItem()

	plist := InfoPlist(item)

	for _, want := range []string{
		"<key>CFBundleName</key>",
		"<string>SCLab-App</string>",
		"<key>CFBundleIdentifier</key>",
		"<string>org.umbibio.sclab-app</string>",
		"<key>CFBundleExecutable</key>",
		"<string>run</string>",
		"<key>LSMinimumSystemVersion</key>",
		"<string>10.15</string>",
		"<key>CFBundleIconFile</key>",
		"<string>sclab-app.icns</string>",
	} {
		if !strings.Contains(plist, want) {
			t.Errorf("Info.plist missing %q", want)
		}
	}
}

func TestInfoPlist_DefaultsAndEscaping(t *testing.T) {
	item := &installer.MenuItem{Name: "Tools & Extras"}

	plist := InfoPlist(item)

	if !strings.Contains(plist, "<string>Tools &amp; Extras</string>") {
		t.Error("ampersand not escaped in plist")
	}
	if !strings.Contains(plist, "<string>org.umbibio.tools--extras</string>") {
		t.Errorf("default bundle identifier not derived from name:\n%s", plist)
	}
}

func TestBundleScript(t *testing.T) {
	script := BundleScript([]string{"/opt/my app/bin/sclab-app", "dashboard", "--port", "8866"})

	if !strings.HasPrefix(script, "#!/bin/bash\n") {
		t.Error("bundle script missing shebang")
	}
	if !strings.Contains(script, `exec '/opt/my app/bin/sclab-app' dashboard --port 8866`) {
		t.Errorf("unexpected exec line:\n%s", script)
	}
}

func TestShortcutScript(t *testing.T) {
	item := testMenuItem()
	layout := core.Layout{Prefix: `C:\SCLab`, GOOS: "windows", Home: `C:\Users\ada`}

	script := ShortcutScript(`C:\shortcuts\SCLab-App.lnk`, item, PlaceholderVars(layout))

	for _, want := range []string{
		"New-Object -ComObject WScript.Shell",
		`$lnk = $shell.CreateShortcut('C:\shortcuts\SCLab-App.lnk')`,
		`$lnk.TargetPath = 'C:\SCLab/sclab-app'`,
		"$lnk.Description = 'Interactive single-cell analysis toolkit'",
		"$lnk.Save()",
	} {
		if !strings.Contains(script, want) {
			t.Errorf("shortcut script missing %q\ngot:\n%s", want, script)
		}
	}
}

func TestShortcutScript_EscapesQuotes(t *testing.T) {
	item := &installer.MenuItem{
		Name:        "Example",
		Description: "it's quoted",
		Command:     []string{"run.exe"},
	}

	script := ShortcutScript(`C:\x.lnk`, item, nil)

	if !strings.Contains(script, "$lnk.Description = 'it''s quoted'") {
		t.Errorf("single quote not doubled:\n%s", script)
	}
}

func TestCreateShortcuts_Linux(t *testing.T) {
	home := t.TempDir()
	layout := core.Layout{Prefix: "/opt/sclab", GOOS: "linux", Home: home}
	menu := &installer.MenuDescriptor{
		MenuName: "SCLab-App",
		MenuItems: []installer.MenuItem{
			*testMenuItem(),
			{
				Name:     "SCLab-App Dashboard",
				Command:  []string{"{{ BIN_DIR }}/sclab-app", "dashboard"},
				Icon:     "{{ MENU_DIR }}/sclab-app.{{ ICON_EXT }}",
				Terminal: true,
			},
		},
	}

	created, err := CreateShortcuts(layout, menu)
	if err != nil {
		t.Fatalf("CreateShortcuts failed: %v", err)
	}

	want := []string{
		filepath.Join(home, ".local", "share", "applications", "sclab-app.desktop"),
		filepath.Join(home, ".local", "share", "applications", "sclab-app-dashboard.desktop"),
	}
	if !reflect.DeepEqual(created, want) {
		t.Fatalf("created = %v, want %v", created, want)
	}
	for _, path := range created {
		data, err := os.ReadFile(path)
		if err != nil {
			t.Errorf("shortcut not written: %v", err)
			continue
		}
		if !strings.HasPrefix(string(data), "[Desktop Entry]\n") {
			t.Errorf("%s is not a desktop entry", path)
		}
	}

	// Re-running converges on the identical set
	again, err := CreateShortcuts(layout, menu)
	if err != nil {
		t.Fatalf("repeated CreateShortcuts failed: %v", err)
	}
	if !reflect.DeepEqual(again, created) {
		t.Errorf("repeated run created %v, want %v", again, created)
	}
}

func TestCreateShortcuts_DarwinBundle(t *testing.T) {
	home := t.TempDir()
	prefix := t.TempDir()
	// Provide an icns for the bundle to copy
	menuDir := filepath.Join(prefix, "menu")
	if err := os.MkdirAll(menuDir, 0o755); err != nil {
		t.Fatalf("failed to create menu dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(menuDir, "sclab-app.icns"), []byte("icns"), 0o644); err != nil {
		t.Fatalf("failed to write icns: %v", err)
	}

	layout := core.Layout{Prefix: prefix, GOOS: "darwin", Home: home}
	menu := &installer.MenuDescriptor{
		MenuName:  "SCLab-App",
		MenuItems: []installer.MenuItem{*testMenuItem()},
	}

	created, err := CreateShortcuts(layout, menu)
	if err != nil {
		t.Fatalf("CreateShortcuts failed: %v", err)
	}
	if len(created) != 1 {
		t.Fatalf("created = %v, want one bundle", created)
	}

	bundle := created[0]
	if !strings.HasSuffix(bundle, "SCLab-App.app") {
		t.Errorf("bundle path = %q", bundle)
	}
	for _, rel := range []string{
		filepath.Join("Contents", "Info.plist"),
		filepath.Join("Contents", "MacOS", "run"),
		filepath.Join("Contents", "Resources", "sclab-app.icns"),
	} {
		if _, err := os.Stat(filepath.Join(bundle, rel)); err != nil {
			t.Errorf("bundle missing %s: %v", rel, err)
		}
	}

	script, err := os.ReadFile(filepath.Join(bundle, "Contents", "MacOS", "run"))
	if err != nil {
		t.Fatalf("failed to read bundle script: %v", err)
	}
	if !strings.Contains(string(script), "exec") {
		t.Errorf("bundle script = %q", script)
	}
	info, err := os.Stat(filepath.Join(bundle, "Contents", "MacOS", "run"))
	if err != nil {
		t.Fatalf("failed to stat bundle script: %v", err)
	}
	if info.Mode().Perm()&0o111 == 0 {
		t.Error("bundle script is not executable")
	}
}
