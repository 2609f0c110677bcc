// Package installer models the two descriptor files that drive the graphical
// installer build: the Constructor descriptor (construct.yaml) and the
// menuinst menu descriptor (menu/sclab-app.json). The lifecycle hooks load
// both at runtime, so a malformed descriptor is caught with a clear error
// instead of a half-finished install.
package installer

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// ConstructorConfig is the Go model of construct.yaml.
//
// Only the keys the lifecycle hooks act on are modeled; Constructor itself
// consumes the full file when building the installer.
//
// Example:
//
//	cfg, err := installer.LoadConstructorConfig("construct.yaml")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(cfg.Name, cfg.Version)
type ConstructorConfig struct {
	// Name is the product name shown by the installer
	Name string `yaml:"name"`

	// Version is the product version embedded in installer filenames
	Version string `yaml:"version"`

	// Company is the vendor string, optional
	Company string `yaml:"company,omitempty"`

	// LicenseFile is the path to the license shown during install, optional
	LicenseFile string `yaml:"license_file,omitempty"`

	// Channels are the conda channels the environment is solved from
	Channels []string `yaml:"channels"`

	// Specs are the package specs of the bundled environment
	Specs []string `yaml:"specs"`

	// PostInstall is the hook script Constructor runs after installing
	PostInstall string `yaml:"post_install,omitempty"`

	// PreUninstall is the hook script Constructor runs before uninstalling
	PreUninstall string `yaml:"pre_uninstall,omitempty"`

	// PostInstallPip lists pip-only packages the post-install hook installs
	// on top of the conda environment. Constructor ignores this key; the
	// hook reads it so the package list lives next to the specs it extends.
	PostInstallPip []string `yaml:"post_install_pip,omitempty"`

	// ExtraFiles are bundled verbatim into the install prefix
	ExtraFiles []ExtraFile `yaml:"extra_files,omitempty"`

	// InstallerType selects the installer format (pkg, exe, sh), optional
	InstallerType string `yaml:"installer_type,omitempty"`
}

// ExtraFile is one entry of the extra_files list. Constructor accepts either
// a bare path ("wheels/sclab_app-0.1.0-py3-none-any.whl") or a single-pair
// mapping of source path to destination path.
type ExtraFile struct {
	// Source is the path relative to the construct.yaml directory
	Source string

	// Dest is the destination relative to the prefix; empty means same as
	// Source
	Dest string
}

// UnmarshalYAML implements yaml.Unmarshaler for the two forms Constructor
// accepts: a scalar path or a {source: dest} mapping.
func (f *ExtraFile) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		f.Source = value.Value
		f.Dest = ""
		return nil

	case yaml.MappingNode:
		if len(value.Content) != 2 {
			return fmt.Errorf("extra_files mapping must have exactly one source: dest pair, got %d keys", len(value.Content)/2)
		}
		f.Source = value.Content[0].Value
		f.Dest = value.Content[1].Value
		return nil

	default:
		return fmt.Errorf("extra_files entry must be a path or a source: dest mapping")
	}
}

// MarshalYAML implements yaml.Marshaler, emitting the compact scalar form
// when no destination override is set.
func (f ExtraFile) MarshalYAML() (interface{}, error) {
	if f.Dest == "" {
		return f.Source, nil
	}
	return map[string]string{f.Source: f.Dest}, nil
}

// LoadConstructorConfig reads and parses a construct.yaml file.
//
// Returns an error if the file cannot be read or is not valid YAML. Call
// Validate on the result to check semantic constraints.
func LoadConstructorConfig(path string) (*ConstructorConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read constructor config: %w", err)
	}

	var cfg ConstructorConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cfg, nil
}

// Validate checks the descriptor for the constraints the lifecycle hooks
// rely on. It returns the first violation found.
func (c *ConstructorConfig) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("constructor config: name must not be empty")
	}
	if strings.TrimSpace(c.Version) == "" {
		return fmt.Errorf("constructor config: version must not be empty")
	}
	if len(c.Channels) == 0 {
		return fmt.Errorf("constructor config: at least one channel is required")
	}
	if len(c.Specs) == 0 {
		return fmt.Errorf("constructor config: at least one spec is required")
	}

	// Hook names are resolved relative to the installer payload; a path
	// separator would silently escape it.
	for _, hook := range []string{c.PostInstall, c.PreUninstall} {
		if strings.ContainsAny(hook, `/\`) {
			return fmt.Errorf("constructor config: hook script %q must be a bare filename", hook)
		}
	}

	for _, extra := range c.ExtraFiles {
		if strings.TrimSpace(extra.Source) == "" {
			return fmt.Errorf("constructor config: extra_files entry with empty source")
		}
	}

	for _, pkg := range c.PostInstallPip {
		if strings.TrimSpace(pkg) == "" {
			return fmt.Errorf("constructor config: post_install_pip entry must not be empty")
		}
	}

	return nil
}

// HasSpec reports whether the environment spec list mentions the given
// package, matching on the name part before any version constraint.
// This is a pure function with no side effects.
//
// Example:
//
//	cfg.HasSpec("jupyterlab")  // true for spec "jupyterlab >=4.0"
func (c *ConstructorConfig) HasSpec(name string) bool {
	for _, spec := range c.Specs {
		specName := spec
		for _, sep := range []string{" ", "=", ">", "<", "~"} {
			if idx := strings.Index(specName, sep); idx >= 0 {
				specName = specName[:idx]
			}
		}
		if strings.EqualFold(strings.TrimSpace(specName), name) {
			return true
		}
	}
	return false
}
