package core

import (
	"errors"
	"fmt"
)

// ConfigError represents a configuration or environment error with actionable
// instructions. The Action string tells the user how to fix the problem, so
// failures are debuggable from the message alone.
type ConfigError struct {
	Code    string // Error code for programmatic handling
	Message string // Human-readable error message
	Action  string // Actionable instruction for resolution
}

func (e *ConfigError) Error() string {
	if e.Action != "" {
		return fmt.Sprintf("%s. %s", e.Message, e.Action)
	}
	return e.Message
}

// Error codes for configuration and lifecycle errors
const (
	ErrCodePrefixMissing      = "PREFIX_MISSING"
	ErrCodeInterpreterMissing = "INTERPRETER_MISSING"
	ErrCodePortExhausted      = "PORT_EXHAUSTED"
	ErrCodeNotebookMissing    = "NOTEBOOK_MISSING"
	ErrCodeDependencyMissing  = "DEPENDENCY_MISSING"
	ErrCodeDescriptorInvalid  = "DESCRIPTOR_INVALID"
)

// ErrPrefixMissing returns an error for a missing PREFIX environment variable.
func ErrPrefixMissing() *ConfigError {
	return &ConfigError{
		Code:    ErrCodePrefixMissing,
		Message: "Installation prefix not set",
		Action:  "Set the PREFIX environment variable to the installation root (the installer does this automatically)",
	}
}

// ErrInterpreterMissing returns an error for an interpreter that could not be
// resolved under the prefix. candidates lists the probed paths.
func ErrInterpreterMissing(prefix string, candidates []string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeInterpreterMissing,
		Message: fmt.Sprintf("No Python interpreter found under %s (probed %v)", prefix, candidates),
		Action:  "Verify the installation completed and PREFIX points at the environment root",
	}
}

// ErrPortExhausted returns an error when no free port was found within the
// bounded scan.
func ErrPortExhausted(host string, start, attempts int) *ConfigError {
	return &ConfigError{
		Code:    ErrCodePortExhausted,
		Message: fmt.Sprintf("No free port on %s in range %d-%d", host, start, start+attempts-1),
		Action:  "Free a port in that range or choose a different one with --port",
	}
}

// ErrNotebookMissing returns an error for a required notebook that does not
// exist, e.g. the dashboard notebook in dashboard mode.
func ErrNotebookMissing(path string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeNotebookMissing,
		Message: fmt.Sprintf("Notebook not found: %s", path),
		Action:  "Run 'sclab-app init' to create the default notebooks",
	}
}

// ErrDependencyMissing returns an error for an external tool that is not
// available in the installed environment.
func ErrDependencyMissing(name string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeDependencyMissing,
		Message: fmt.Sprintf("%s is not available in the installed environment", name),
		Action:  "Reinstall SCLab-App, or pip install the missing package into the bundled environment",
	}
}

// ErrDescriptorInvalid returns an error for a malformed installer or menu
// descriptor.
func ErrDescriptorInvalid(path string, reason string) *ConfigError {
	return &ConfigError{
		Code:    ErrCodeDescriptorInvalid,
		Message: fmt.Sprintf("Invalid descriptor %s: %s", path, reason),
		Action:  "Fix the descriptor file; see the bundled construct.yaml and menu/sclab-app.json for the expected shape",
	}
}

// IsConfigError checks if an error is a ConfigError and returns it if so.
func IsConfigError(err error) (*ConfigError, bool) {
	var configErr *ConfigError
	if errors.As(err, &configErr) {
		return configErr, true
	}
	return nil, false
}

// GetErrorCode extracts the error code from an error if it's a ConfigError.
func GetErrorCode(err error) string {
	if configErr, ok := IsConfigError(err); ok {
		return configErr.Code
	}
	return ""
}
