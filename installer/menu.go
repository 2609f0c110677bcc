package installer

import (
	"encoding/json"
	"fmt"
	"os"
	"regexp"
	"strings"
)

// MenuDescriptor is the Go model of the menuinst-style menu descriptor
// (menu/sclab-app.json). The post-install hook reads it to decide which
// shortcuts to create and what commands they run; keeping the shortcut
// definitions in data means the installer build and the hooks can never
// disagree about them.
type MenuDescriptor struct {
	// Schema is the JSON schema URL, carried through verbatim
	Schema string `json:"$schema,omitempty"`

	// MenuName is the name of the menu folder grouping the shortcuts
	MenuName string `json:"menu_name"`

	// MenuItems are the shortcuts to create
	MenuItems []MenuItem `json:"menu_items"`
}

// MenuItem describes one shortcut.
type MenuItem struct {
	// Name is the shortcut display name
	Name string `json:"name"`

	// Description is the tooltip / comment text
	Description string `json:"description,omitempty"`

	// Command is the argv the shortcut executes, before placeholder
	// expansion
	Command []string `json:"command"`

	// Icon is the icon path, before placeholder expansion
	Icon string `json:"icon,omitempty"`

	// Terminal requests a terminal window on platforms that support it
	Terminal bool `json:"terminal,omitempty"`

	// Platforms holds per-platform extras; a nil platform entry means the
	// shortcut is still created there with defaults
	Platforms PlatformOptions `json:"platforms,omitempty"`
}

// PlatformOptions carries the per-platform shortcut extras. Field names
// follow the menuinst schema (osx, win).
type PlatformOptions struct {
	Linux   *LinuxOptions   `json:"linux,omitempty"`
	MacOS   *MacOSOptions   `json:"osx,omitempty"`
	Windows *WindowsOptions `json:"win,omitempty"`
}

// LinuxOptions map onto freedesktop .desktop entry keys.
type LinuxOptions struct {
	// Categories for the applications menu, e.g. Science;Education
	Categories []string `json:"Categories,omitempty"`

	// GenericName is the generic application name
	GenericName string `json:"GenericName,omitempty"`

	// Keywords aid desktop search
	Keywords []string `json:"Keywords,omitempty"`

	// StartupNotify enables launch feedback
	StartupNotify bool `json:"StartupNotify,omitempty"`
}

// MacOSOptions map onto Info.plist keys of the generated .app bundle.
type MacOSOptions struct {
	// CFBundleName overrides the bundle name (defaults to the item name)
	CFBundleName string `json:"CFBundleName,omitempty"`

	// CFBundleIdentifier is the reverse-DNS bundle ID
	CFBundleIdentifier string `json:"CFBundleIdentifier,omitempty"`

	// LSMinimumSystemVersion gates the minimum macOS version
	LSMinimumSystemVersion string `json:"LSMinimumSystemVersion,omitempty"`
}

// WindowsOptions control Start Menu shortcut placement.
type WindowsOptions struct {
	// Desktop additionally places the shortcut on the desktop
	Desktop bool `json:"desktop,omitempty"`

	// QuickLaunch additionally pins to quick launch
	QuickLaunch bool `json:"quicklaunch,omitempty"`
}

// LoadMenuDescriptor reads and parses a menu descriptor JSON file.
//
// Returns an error if the file cannot be read or is not valid JSON. Call
// Validate on the result to check semantic constraints.
func LoadMenuDescriptor(path string) (*MenuDescriptor, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read menu descriptor: %w", err)
	}

	var menu MenuDescriptor
	if err := json.Unmarshal(data, &menu); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &menu, nil
}

// Validate checks the descriptor for the constraints shortcut creation
// relies on. It returns the first violation found.
func (m *MenuDescriptor) Validate() error {
	if strings.TrimSpace(m.MenuName) == "" {
		return fmt.Errorf("menu descriptor: menu_name must not be empty")
	}
	if len(m.MenuItems) == 0 {
		return fmt.Errorf("menu descriptor: at least one menu item is required")
	}

	seen := make(map[string]bool, len(m.MenuItems))
	for i, item := range m.MenuItems {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("menu descriptor: item %d has an empty name", i)
		}
		if seen[item.Name] {
			return fmt.Errorf("menu descriptor: duplicate item name %q", item.Name)
		}
		seen[item.Name] = true

		if len(item.Command) == 0 {
			return fmt.Errorf("menu descriptor: item %q has no command", item.Name)
		}
		for _, arg := range item.Command {
			if arg == "" {
				return fmt.Errorf("menu descriptor: item %q has an empty command argument", item.Name)
			}
		}
	}
	return nil
}

// ItemByName returns the menu item with the given name, or nil when absent.
// This is a pure function with no side effects.
func (m *MenuDescriptor) ItemByName(name string) *MenuItem {
	for i := range m.MenuItems {
		if m.MenuItems[i].Name == name {
			return &m.MenuItems[i]
		}
	}
	return nil
}

// placeholderPattern matches {{ NAME }} placeholders with optional inner
// whitespace, the menuinst convention.
var placeholderPattern = regexp.MustCompile(`\{\{\s*([A-Z_]+)\s*\}\}`)

// ExpandPlaceholders substitutes {{ NAME }} placeholders in value from vars.
// Unknown placeholders are left untouched so they surface verbatim in error
// messages instead of silently vanishing.
//
// This is a pure function with no side effects.
//
// Example:
//
//	vars := map[string]string{"PREFIX": "/opt/sclab"}
//	ExpandPlaceholders("{{ PREFIX }}/bin/sclab-app", vars)
//	// "/opt/sclab/bin/sclab-app"
func ExpandPlaceholders(value string, vars map[string]string) string {
	return placeholderPattern.ReplaceAllStringFunc(value, func(match string) string {
		name := placeholderPattern.FindStringSubmatch(match)[1]
		if replacement, ok := vars[name]; ok {
			return replacement
		}
		return match
	})
}

// ExpandedCommand returns the item's argv with all placeholders expanded.
// This is a pure function with no side effects.
func (item *MenuItem) ExpandedCommand(vars map[string]string) []string {
	expanded := make([]string, len(item.Command))
	for i, arg := range item.Command {
		expanded[i] = ExpandPlaceholders(arg, vars)
	}
	return expanded
}

// ExpandedIcon returns the item's icon path with all placeholders expanded.
func (item *MenuItem) ExpandedIcon(vars map[string]string) string {
	return ExpandPlaceholders(item.Icon, vars)
}
