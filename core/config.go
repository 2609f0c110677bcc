package core

import (
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Default ports and hosts for the serve modes.
const (
	// DefaultLabPort is the default port for the full JupyterLab interface
	// and for server-only mode.
	DefaultLabPort = 8899

	// DefaultDashboardPort is the default port for the Voila dashboard.
	DefaultDashboardPort = 8866

	// DefaultHost is the default bind address for every serve mode.
	DefaultHost = "127.0.0.1"

	// DefaultOpenDelay is how long the launcher waits before opening the
	// browser, giving the child server time to bind its port.
	DefaultOpenDelay = 3 * time.Second

	// DefaultDashboardOpenDelay is the browser delay for dashboard mode,
	// slightly longer because Voila renders the notebook before serving.
	DefaultDashboardOpenDelay = 4 * time.Second

	// MaxPortScanAttempts bounds the upward scan for a free port when the
	// requested one is occupied.
	MaxPortScanAttempts = 100
)

// EnvFileVar names the environment variable pointing at an optional env file
// loaded before configuration is read.
const EnvFileVar = "SCLAB_APP_ENV_FILE"

// Config holds all configuration values for the launcher and the lifecycle
// hooks. Operations receive it explicitly; nothing reads process-wide state
// after LoadConfig returns.
type Config struct {
	// Prefix is the installation root, from the PREFIX environment variable.
	// Required by setup, optional (warning only) for remove.
	Prefix string

	// HomeDir overrides the user notebook directory when non-empty.
	HomeDir string

	// Host is the bind address for the child server.
	Host string

	// LabPort is the port for lab and server-only modes.
	LabPort int

	// DashboardPort is the port for dashboard mode.
	DashboardPort int

	// NoBrowser disables the automatic browser open.
	NoBrowser bool

	// OpenDelay is the wait before opening the browser. Zero means each
	// serve mode applies its own default.
	OpenDelay time.Duration

	// Token is a fixed access token for server mode. Empty means the child
	// server generates its own.
	Token string

	// HashedPassword protects server mode with a password, in the notebook
	// server's native argon2 hash format. Never logged.
	HashedPassword string

	// Verbose enables debug-level logging.
	Verbose bool
}

// LoadConfig loads configuration from environment variables with sensible
// defaults. An optional env file ($SCLAB_APP_ENV_FILE, or sclab-app.env in
// the working directory if present) is loaded first; a missing file is not
// an error.
func LoadConfig() (*Config, error) {
	if path := os.Getenv(EnvFileVar); path != "" {
		if err := godotenv.Load(path); err != nil {
			return nil, fmt.Errorf("failed to load env file %s: %w", path, err)
		}
	} else if _, err := os.Stat("sclab-app.env"); err == nil {
		// Best effort only; a malformed local file should not block launch.
		_ = godotenv.Load("sclab-app.env")
	}

	cfg := &Config{
		Prefix:         os.Getenv("PREFIX"),
		HomeDir:        os.Getenv("SCLAB_APP_HOME"),
		Host:           GetEnvOrDefault("SCLAB_APP_HOST", DefaultHost),
		LabPort:        ParseIntEnv("SCLAB_APP_PORT", DefaultLabPort),
		DashboardPort:  ParseIntEnv("SCLAB_APP_DASHBOARD_PORT", DefaultDashboardPort),
		NoBrowser:      ParseBoolEnv("SCLAB_APP_NO_BROWSER", false),
		OpenDelay:      ParseDurationEnv("SCLAB_APP_OPEN_DELAY", 0),
		Token:          os.Getenv("SCLAB_APP_TOKEN"),
		HashedPassword: os.Getenv("SCLAB_APP_HASHED_PASSWORD"),
		Verbose:        ParseBoolEnv("SCLAB_APP_VERBOSE", false),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks configuration values for internal consistency.
func (c *Config) Validate() error {
	if err := ValidatePort(c.LabPort); err != nil {
		return fmt.Errorf("lab port: %w", err)
	}
	if err := ValidatePort(c.DashboardPort); err != nil {
		return fmt.Errorf("dashboard port: %w", err)
	}
	if c.Host == "" {
		return fmt.Errorf("host must not be empty")
	}
	return nil
}

// ValidatePort checks that a port number is usable for binding.
func ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("port %d out of range 1-65535", port)
	}
	return nil
}

// Layout returns the path layout for this configuration on the current
// platform, honoring the HomeDir override for the notebook directory.
func (c *Config) Layout() Layout {
	l := NewLayout(c.Prefix)
	l.HomeOverride = c.HomeDir
	return l
}
