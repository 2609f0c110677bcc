package install

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"sclab_app/core"
	"sclab_app/installer"
)

// KnownShortcutNames are the menu item names shipped with the application.
// The uninstaller falls back to these when no receipt survives.
var KnownShortcutNames = []string{
	"SCLab-App",
	"SCLab-App Dashboard",
	"SCLab-App Server",
}

// PlaceholderVars returns the placeholder substitutions applied to menu
// descriptor values. The keys follow the descriptor grammar: BIN_DIR,
// MENU_DIR, PREFIX, ICON_EXT, HOME.
// This is a pure function with no side effects.
func PlaceholderVars(layout core.Layout) map[string]string {
	return map[string]string{
		"BIN_DIR":  layout.BinDir(),
		"MENU_DIR": layout.MenuDir(),
		"PREFIX":   layout.Prefix,
		"ICON_EXT": IconExt(layout.GOOS),
		"HOME":     layout.Home,
	}
}

// SlugName converts a menu item name to the lowercase hyphenated form used
// in generated file names ("SCLab-App Dashboard" becomes
// "sclab-app-dashboard").
// This is a pure function with no side effects.
func SlugName(name string) string {
	slug := strings.ToLower(strings.TrimSpace(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	var b strings.Builder
	for _, r := range slug {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		}
	}
	return b.String()
}

// ShortcutPath returns the artifact path a menu item materializes to on a
// platform: a .desktop file on Linux, an .app bundle directory on macOS,
// a .lnk file on Windows.
// This is a pure function with no side effects.
func ShortcutPath(layout core.Layout, itemName string) string {
	dir, _ := layout.ShortcutDir()
	switch layout.GOOS {
	case "windows":
		return filepath.Join(dir, itemName+".lnk")
	case "darwin":
		return filepath.Join(dir, itemName+".app")
	default:
		return filepath.Join(dir, SlugName(itemName)+".desktop")
	}
}

// DesktopEntry renders a freedesktop.org desktop entry for a menu item with
// placeholders already expanded through vars.
// This is a pure function with no side effects.
func DesktopEntry(item *installer.MenuItem, vars map[string]string) string {
	var b strings.Builder
	b.WriteString("[Desktop Entry]\n")
	b.WriteString("Type=Application\n")
	b.WriteString("Version=1.0\n")
	fmt.Fprintf(&b, "Name=%s\n", item.Name)
	if item.Description != "" {
		fmt.Fprintf(&b, "Comment=%s\n", item.Description)
	}
	fmt.Fprintf(&b, "Exec=%s\n", execLine(item.ExpandedCommand(vars)))
	if icon := item.ExpandedIcon(vars); icon != "" {
		fmt.Fprintf(&b, "Icon=%s\n", icon)
	}
	fmt.Fprintf(&b, "Terminal=%v\n", item.Terminal)

	if linux := item.Platforms.Linux; linux != nil {
		if linux.GenericName != "" {
			fmt.Fprintf(&b, "GenericName=%s\n", linux.GenericName)
		}
		if len(linux.Categories) > 0 {
			fmt.Fprintf(&b, "Categories=%s;\n", strings.Join(linux.Categories, ";"))
		}
		if len(linux.Keywords) > 0 {
			fmt.Fprintf(&b, "Keywords=%s;\n", strings.Join(linux.Keywords, ";"))
		}
		if linux.StartupNotify {
			b.WriteString("StartupNotify=true\n")
		}
	}
	return b.String()
}

// execLine joins a command vector into a desktop entry Exec value, quoting
// arguments that contain spaces.
func execLine(command []string) string {
	parts := make([]string, 0, len(command))
	for _, arg := range command {
		if strings.ContainsAny(arg, " \t") {
			arg = `"` + arg + `"`
		}
		parts = append(parts, arg)
	}
	return strings.Join(parts, " ")
}

// InfoPlist renders the Info.plist for a macOS app bundle wrapping a menu
// item. CFBundle values fall back to the item name when the descriptor does
// not override them.
// This is a pure function with no side effects.
func InfoPlist(item *installer.MenuItem) string {
	bundleName := item.Name
	bundleID := "org.umbibio." + SlugName(item.Name)
	minVersion := ""
	if mac := item.Platforms.MacOS; mac != nil {
		if mac.CFBundleName != "" {
			bundleName = mac.CFBundleName
		}
		if mac.CFBundleIdentifier != "" {
			bundleID = mac.CFBundleIdentifier
		}
		minVersion = mac.LSMinimumSystemVersion
	}

	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>` + "\n")
	b.WriteString(`<!DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd">` + "\n")
	b.WriteString(`<plist version="1.0">` + "\n<dict>\n")
	writePlistKey(&b, "CFBundleName", bundleName)
	writePlistKey(&b, "CFBundleIdentifier", bundleID)
	writePlistKey(&b, "CFBundleExecutable", "run")
	writePlistKey(&b, "CFBundleIconFile", IconBaseName+".icns")
	writePlistKey(&b, "CFBundlePackageType", "APPL")
	if minVersion != "" {
		writePlistKey(&b, "LSMinimumSystemVersion", minVersion)
	}
	b.WriteString("</dict>\n</plist>\n")
	return b.String()
}

func writePlistKey(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "\t<key>%s</key>\n\t<string>%s</string>\n", key, plistEscape(value))
}

func plistEscape(s string) string {
	s = strings.ReplaceAll(s, "&", "&amp;")
	s = strings.ReplaceAll(s, "<", "&lt;")
	s = strings.ReplaceAll(s, ">", "&gt;")
	return s
}

// BundleScript renders the launcher script placed at Contents/MacOS/run
// inside an app bundle. The script execs the item command so the bundle
// process is the real launcher.
// This is a pure function with no side effects.
func BundleScript(command []string) string {
	parts := make([]string, 0, len(command))
	for _, arg := range command {
		parts = append(parts, shellQuote(arg))
	}
	return "#!/bin/bash\nexec " + strings.Join(parts, " ") + "\n"
}

func shellQuote(arg string) string {
	if arg == "" {
		return "''"
	}
	if !strings.ContainsAny(arg, " \t'\"\\$`") {
		return arg
	}
	return "'" + strings.ReplaceAll(arg, "'", `'\''`) + "'"
}

// ShortcutScript renders the PowerShell fragment that materializes one
// Windows .lnk shortcut via the WScript.Shell COM object.
// This is a pure function with no side effects.
func ShortcutScript(lnkPath string, item *installer.MenuItem, vars map[string]string) string {
	command := item.ExpandedCommand(vars)
	target := ""
	args := ""
	if len(command) > 0 {
		target = command[0]
	}
	if len(command) > 1 {
		args = strings.Join(command[1:], " ")
	}

	var b strings.Builder
	b.WriteString("$shell = New-Object -ComObject WScript.Shell\n")
	fmt.Fprintf(&b, "$lnk = $shell.CreateShortcut(%s)\n", psQuote(lnkPath))
	fmt.Fprintf(&b, "$lnk.TargetPath = %s\n", psQuote(target))
	if args != "" {
		fmt.Fprintf(&b, "$lnk.Arguments = %s\n", psQuote(args))
	}
	if item.Description != "" {
		fmt.Fprintf(&b, "$lnk.Description = %s\n", psQuote(item.Description))
	}
	if icon := item.ExpandedIcon(vars); icon != "" {
		fmt.Fprintf(&b, "$lnk.IconLocation = %s\n", psQuote(icon))
	}
	b.WriteString("$lnk.Save()\n")
	return b.String()
}

// psQuote wraps a value in PowerShell single quotes.
func psQuote(s string) string {
	return "'" + strings.ReplaceAll(s, "'", "''") + "'"
}

// CreateShortcuts materializes every menu item into the platform shortcut
// directory, overwriting existing artifacts so repeated runs converge on the
// same set. It returns the created artifact paths for the receipt.
func CreateShortcuts(layout core.Layout, menu *installer.MenuDescriptor) ([]string, error) {
	dir, _ := layout.ShortcutDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create shortcut directory: %w", err)
	}

	vars := PlaceholderVars(layout)
	created := make([]string, 0, len(menu.MenuItems))

	for i := range menu.MenuItems {
		item := &menu.MenuItems[i]
		path := ShortcutPath(layout, item.Name)

		var err error
		switch layout.GOOS {
		case "windows":
			err = createWindowsShortcut(path, item, vars)
		case "darwin":
			err = createAppBundle(path, item, vars)
		default:
			err = os.WriteFile(path, []byte(DesktopEntry(item, vars)), 0o755)
		}
		if err != nil {
			return created, fmt.Errorf("failed to create shortcut %s: %w", item.Name, err)
		}
		created = append(created, path)
	}
	return created, nil
}

// createAppBundle writes a minimal app bundle: the Info.plist, a launcher
// script, and the icon copied into Resources.
func createAppBundle(bundlePath string, item *installer.MenuItem, vars map[string]string) error {
	macOSDir := filepath.Join(bundlePath, "Contents", "MacOS")
	resourcesDir := filepath.Join(bundlePath, "Contents", "Resources")
	for _, dir := range []string{macOSDir, resourcesDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}

	plistPath := filepath.Join(bundlePath, "Contents", "Info.plist")
	if err := os.WriteFile(plistPath, []byte(InfoPlist(item)), 0o644); err != nil {
		return err
	}

	scriptPath := filepath.Join(macOSDir, "run")
	if err := os.WriteFile(scriptPath, []byte(BundleScript(item.ExpandedCommand(vars))), 0o755); err != nil {
		return err
	}

	// The bundle carries its own icon copy so it survives prefix removal
	// until uninstall deletes the bundle itself.
	if icon := item.ExpandedIcon(vars); icon != "" {
		data, err := os.ReadFile(icon)
		if err == nil {
			iconPath := filepath.Join(resourcesDir, IconBaseName+".icns")
			if err := os.WriteFile(iconPath, data, 0o644); err != nil {
				return err
			}
		}
	}
	return nil
}

// createWindowsShortcut shells out to PowerShell to drive the WScript.Shell
// COM object. There is no Go-native .lnk writer worth carrying for a single
// call site.
func createWindowsShortcut(lnkPath string, item *installer.MenuItem, vars map[string]string) error {
	script := ShortcutScript(lnkPath, item, vars)
	cmd := exec.Command("powershell", "-NoProfile", "-NonInteractive", "-Command", script)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("powershell shortcut creation failed: %w (output: %s)", err, strings.TrimSpace(string(output)))
	}
	return nil
}
