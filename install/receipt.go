package install

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Receipt records what one setup run created, so the uninstaller can undo
// exactly that set without guessing. It lives under the prefix
// (share/sclab-app/receipt.yaml) and is replaced wholesale on every setup.
type Receipt struct {
	// AppVersion is the launcher version that wrote the receipt
	AppVersion string `yaml:"app_version"`

	// Platform is the GOOS the shortcuts were created for
	Platform string `yaml:"platform"`

	// InstalledAt is the completion time of the setup run
	InstalledAt time.Time `yaml:"installed_at"`

	// Interpreter is the resolved Python path
	Interpreter string `yaml:"interpreter"`

	// Shortcuts are the absolute artifact paths created from the menu
	// descriptor
	Shortcuts []string `yaml:"shortcuts,omitempty"`

	// Icons are the generated icon file paths under the prefix menu dir
	Icons []string `yaml:"icons,omitempty"`

	// Wheel is the bundled wheel that was installed, when one was found
	Wheel string `yaml:"wheel,omitempty"`

	// PipPackages are the extra pip specs installed post-install
	PipPackages []string `yaml:"pip_packages,omitempty"`
}

// WriteReceipt writes the receipt, creating the parent directory as needed.
func WriteReceipt(path string, receipt *Receipt) error {
	data, err := yaml.Marshal(receipt)
	if err != nil {
		return fmt.Errorf("failed to marshal receipt: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create receipt directory: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write receipt: %w", err)
	}
	return nil
}

// LoadReceipt reads a receipt written by a previous setup run.
// A missing file returns os.ErrNotExist via the wrapped error.
func LoadReceipt(path string) (*Receipt, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read receipt: %w", err)
	}
	var receipt Receipt
	if err := yaml.Unmarshal(data, &receipt); err != nil {
		return nil, fmt.Errorf("failed to parse receipt %s: %w", path, err)
	}
	return &receipt, nil
}
