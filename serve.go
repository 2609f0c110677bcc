package main

import (
	"sclab_app/core"
	"sclab_app/launch"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// flagPort is shared by every serve command. Each command registers it with
// its own default, and applyPortFlag only reads it when the user actually
// passed the flag.
var flagPort int

// Server-only credential flags. The environment variables remain the
// recommended channel because flag values show up in shell history and
// process listings.
var (
	flagToken          string
	flagHashedPassword string
)

var labCmd = &cobra.Command{
	Use:   "lab",
	Short: "Launch the full JupyterLab interface (the default)",
	Long: `Launch JupyterLab in the user notebook directory and open a browser
tab once the server is up. Running sclab-app with no subcommand does the
same thing.

Example:
  sclab-app lab
  sclab-app lab --port 9000 --no-browser`,
	Args: cobra.NoArgs,
	RunE: runLab,
}

var dashboardCmd = &cobra.Command{
	Use:   "dashboard",
	Short: "Launch the streamlined Voila dashboard",
	Long: `Serve the dashboard notebook through Voila, a simplified interface
without the notebook editor. The browser opens a moment later than in lab
mode because Voila executes the whole notebook before serving it.

Example:
  sclab-app dashboard
  sclab-app dashboard --port 8870`,
	Args: cobra.NoArgs,
	RunE: runDashboard,
}

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "Launch a headless JupyterLab server for shared access",
	Long: `Launch JupyterLab bound for remote access without opening a browser.
The server binds all interfaces unless --host says otherwise, and protects
access with a token or password taken from SCLAB_APP_TOKEN or
SCLAB_APP_HASHED_PASSWORD (see 'sclab-app passwd'). The --token and
--hashed-password flags override the environment for one-off runs.

Example:
  sclab-app server --host 0.0.0.0 --port 8899
  SCLAB_APP_TOKEN=secret sclab-app server`,
	Args: cobra.NoArgs,
	RunE: runServer,
}

func runLab(cmd *cobra.Command, args []string) error {
	return runServe(cmd, launch.ModeLab)
}

func runDashboard(cmd *cobra.Command, args []string) error {
	return runServe(cmd, launch.ModeDashboard)
}

func runServer(cmd *cobra.Command, args []string) error {
	return runServe(cmd, launch.ModeServer)
}

// runServe applies the per-mode flags, then hands control to the launcher
// until the child server exits.
func runServe(cmd *cobra.Command, mode launch.Mode) error {
	applyPortFlag(cmd.Flags(), mode, cfg)
	applyCredentialFlags(cmd.Flags(), cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	code, err := launch.Run(cmd.Context(), cfg, mode, logger)
	exitCode = code
	return err
}

// applyPortFlag routes an explicit --port to whichever port the mode serves
// on. Without the flag the environment-derived ports stand.
func applyPortFlag(flags *pflag.FlagSet, mode launch.Mode, cfg *core.Config) {
	if !flags.Changed("port") {
		return
	}
	if mode == launch.ModeDashboard {
		cfg.DashboardPort = flagPort
	} else {
		cfg.LabPort = flagPort
	}
}

// applyCredentialFlags copies the server credential flags over the
// environment-derived values. Changed reports false on flag sets that never
// registered these flags, so lab and dashboard pass through untouched.
func applyCredentialFlags(flags *pflag.FlagSet, cfg *core.Config) {
	if flags.Changed("token") {
		cfg.Token = flagToken
	}
	if flags.Changed("hashed-password") {
		cfg.HashedPassword = flagHashedPassword
	}
}

func init() {
	labCmd.Flags().IntVar(&flagPort, "port", core.DefaultLabPort, "port JupyterLab listens on")
	dashboardCmd.Flags().IntVar(&flagPort, "port", core.DefaultDashboardPort, "port the dashboard listens on")
	serverCmd.Flags().IntVar(&flagPort, "port", core.DefaultLabPort, "port the server listens on")
	serverCmd.Flags().StringVar(&flagToken, "token", "", "access token (overrides SCLAB_APP_TOKEN)")
	serverCmd.Flags().StringVar(&flagHashedPassword, "hashed-password", "", "password hash from 'sclab-app passwd' (overrides SCLAB_APP_HASHED_PASSWORD)")

	rootCmd.AddCommand(labCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(serverCmd)
}
