package main

import (
	"fmt"

	"sclab_app/servicectl"

	"github.com/spf13/cobra"
)

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the background server service",
	Long: `Install and control the headless server as a system service, using
systemd on Linux, launchd on macOS and the Service Control Manager on
Windows. The installed service freezes the current host, port and
credential settings, so set those up before installing.

Example:
  sclab-app service install --host 0.0.0.0
  sclab-app service status
  sclab-app service uninstall`,
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Install the server as a system service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return servicectl.Install(cfg, logger)
	},
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Remove the installed service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return servicectl.Uninstall(cfg, logger)
	},
}

var serviceStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the installed service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return servicectl.Start(cfg, logger)
	},
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the running service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return servicectl.Stop(cfg, logger)
	},
}

var serviceRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the service",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return servicectl.Restart(cfg, logger)
	},
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Report whether the service is running",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		status, err := servicectl.Status(cfg, logger)
		if err != nil {
			return err
		}
		fmt.Printf("Service %s is %s\n", servicectl.ServiceName, servicectl.StatusString(status))
		return nil
	},
}

// serviceRunCmd is what the service manager actually executes. It stays
// hidden because running it by hand is no different from 'sclab-app server'.
var serviceRunCmd = &cobra.Command{
	Use:    "run",
	Short:  "Run the managed server in the foreground",
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return servicectl.Run(cfg, logger)
	},
}

func init() {
	serviceCmd.AddCommand(serviceInstallCmd)
	serviceCmd.AddCommand(serviceUninstallCmd)
	serviceCmd.AddCommand(serviceStartCmd)
	serviceCmd.AddCommand(serviceStopCmd)
	serviceCmd.AddCommand(serviceRestartCmd)
	serviceCmd.AddCommand(serviceStatusCmd)
	serviceCmd.AddCommand(serviceRunCmd)
	rootCmd.AddCommand(serviceCmd)
}
