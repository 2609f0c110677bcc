// Command sclab-app installs, launches and maintains SCLab-App, a desktop
// distribution of the sclab single-cell analysis toolkit. The root command
// starts the full JupyterLab interface; subcommands cover the dashboard and
// headless server modes, the installer lifecycle hooks, environment
// diagnostics and background service control.
package main

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"sclab_app/core"
	"sclab_app/logging"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Global flag values. Flags override environment variables, which override
// the built-in defaults.
var (
	flagHome      string
	flagHost      string
	flagNoBrowser bool
	flagOpenDelay time.Duration
	flagVerbose   bool
)

// Shared state built by setupEnvironment before any command runs.
var (
	cfg    *core.Config
	logger *logging.Logger
)

// exitCode is handed to os.Exit after Execute returns. Serve commands
// overwrite it with the child server's own exit code so shell scripts see
// the same status they would get from running the server directly.
var exitCode = core.ExitCodeSuccess

var rootCmd = &cobra.Command{
	Use:   "sclab-app",
	Short: "Launch the SCLab single-cell analysis toolkit",
	Long: `SCLab-App bundles JupyterLab, Voila and the sclab analysis toolkit
into a self-contained desktop install. Run without arguments to start
JupyterLab in the user notebook directory and open a browser tab.

Example:
  sclab-app                     # JupyterLab on 127.0.0.1:8899
  sclab-app dashboard           # Voila dashboard on 127.0.0.1:8866
  sclab-app server --port 8080  # headless server for shared access
  sclab-app info                # check the installed environment`,
	Version:           core.GetVersion(),
	Args:              cobra.NoArgs,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupEnvironment,
	RunE:              runLab,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version and build information",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("%s %s\n", core.AppName, core.GetVersionInfo())
		fmt.Printf("platform: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	},
}

// setupEnvironment loads configuration and initializes the console logger.
// It runs before every command, so each RunE can rely on cfg and logger
// being populated.
func setupEnvironment(cmd *cobra.Command, args []string) error {
	loaded, err := core.LoadConfig()
	if err != nil {
		return err
	}
	cfg = loaded

	applyFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger = logging.NewConsoleLogger(cfg.Verbose)
	return nil
}

// registerGlobalFlags binds the launcher-wide flags onto a flag set. Split
// out from init so tests can build an identical flag set of their own.
func registerGlobalFlags(flags *pflag.FlagSet) {
	flags.StringVar(&flagHome, "home", "", "notebook directory (default ~/Documents/SCLab-App)")
	flags.StringVar(&flagHost, "host", core.DefaultHost, "address the server binds to")
	flags.BoolVar(&flagNoBrowser, "no-browser", false, "do not open a browser after startup")
	flags.DurationVar(&flagOpenDelay, "open-delay", 0, "wait before opening the browser (default per mode)")
	flags.BoolVarP(&flagVerbose, "verbose", "v", false, "enable debug logging")
}

// applyFlags copies explicitly set flags into the configuration. Flags the
// user did not pass leave the environment-derived values alone.
func applyFlags(flags *pflag.FlagSet, cfg *core.Config) {
	if flags.Changed("home") {
		cfg.HomeDir = flagHome
	}
	if flags.Changed("host") {
		cfg.Host = flagHost
	}
	if flags.Changed("no-browser") {
		cfg.NoBrowser = flagNoBrowser
	}
	if flags.Changed("open-delay") {
		cfg.OpenDelay = flagOpenDelay
	}
	if flags.Changed("verbose") {
		cfg.Verbose = flagVerbose
	}
}

func init() {
	registerGlobalFlags(rootCmd.PersistentFlags())
	rootCmd.Flags().IntVar(&flagPort, "port", core.DefaultLabPort, "port JupyterLab listens on")
	rootCmd.AddCommand(versionCmd)
}

func main() {
	err := rootCmd.Execute()
	if logger != nil {
		// Post-run hooks are skipped on error, so sync here instead.
		// Syncing a terminal returns EINVAL on Linux, hence no error check.
		_ = logger.Sync()
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		if exitCode == core.ExitCodeSuccess {
			exitCode = core.ExitCodeError
		}
	}
	os.Exit(exitCode)
}
