package main

import (
	"fmt"

	"sclab_app/core"
	"sclab_app/install"
	"sclab_app/logging"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Post-install hook: finish the installation under $PREFIX",
	Long: `Finish an installation: resolve the bundled Python, install the
application wheel and pip extras, generate icons, create desktop shortcuts
and seed the notebook directory. The installer runs this automatically with
PREFIX set to the install root; it is safe to re-run by hand after a
partial install.

Example:
  PREFIX=/opt/sclab-app sclab-app setup`,
	Args: cobra.NoArgs,
	RunE: runSetup,
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Pre-uninstall hook: delete shortcuts and generated icons",
	Long: `Undo what setup created outside the install prefix: desktop
shortcuts, start menu entries and generated icons. User notebooks and
results are never touched. The uninstaller runs this automatically before
deleting the prefix.

Example:
  PREFIX=/opt/sclab-app sclab-app remove`,
	Args: cobra.NoArgs,
	RunE: runRemove,
}

// lifecycleLogger returns a logger that tees to the given log file under the
// install prefix. Without a prefix, or when the file cannot be created, the
// console-only logger from setupEnvironment serves instead.
func lifecycleLogger(logPath string) *logging.Logger {
	if cfg.Prefix == "" {
		return logger
	}
	fileLogger, err := logging.NewLifecycleLogger(logPath, cfg.Verbose)
	if err != nil {
		logger.Warn("falling back to console-only logging", zap.Error(err))
		return logger
	}
	return fileLogger
}

func runSetup(cmd *cobra.Command, args []string) error {
	layout := cfg.Layout()
	log := lifecycleLogger(layout.PostInstallLog())
	if log != logger {
		defer func() { _ = log.Sync() }()
	}

	result, err := install.Setup(cmd.Context(), layout, log)
	if err != nil {
		return err
	}

	fmt.Printf("\n%s %s is ready.\n", core.AppName, core.GetVersion())
	fmt.Printf("  Interpreter:  %s\n", result.Interpreter)
	fmt.Printf("  Notebooks:    %s\n", result.NotebookDir)
	if len(result.Shortcuts) > 0 {
		fmt.Printf("  Shortcuts:    %d created\n", len(result.Shortcuts))
	}
	fmt.Printf("  Receipt:      %s\n", result.ReceiptPath)
	return nil
}

func runRemove(cmd *cobra.Command, args []string) error {
	layout := cfg.Layout()
	log := lifecycleLogger(layout.PreUninstallLog())
	if log != logger {
		defer func() { _ = log.Sync() }()
	}

	result, err := install.Remove(layout, log)
	if err != nil {
		return err
	}

	if len(result.Removed) == 0 {
		fmt.Println("Nothing to remove.")
		return nil
	}
	fmt.Printf("Removed %d shortcut artifacts.\n", len(result.Removed))
	return nil
}

func init() {
	rootCmd.AddCommand(setupCmd)
	rootCmd.AddCommand(removeCmd)
}
