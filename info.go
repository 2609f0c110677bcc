package main

import (
	"fmt"

	"sclab_app/core"
	"sclab_app/diagnose"

	"github.com/spf13/cobra"
)

// maxListedNotebooks caps the notebook listing so a directory full of
// experiments does not scroll the diagnostics off screen.
const maxListedNotebooks = 5

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Check the installed environment and report problems",
	Long: `Run the environment diagnostics: interpreter resolution, the Python
stack, the notebook directory, port availability and disk space. The exit
code is non-zero when any check fails, so scripts can gate on it.

Example:
  sclab-app info
  sclab-app info --verbose`,
	Args: cobra.NoArgs,
	RunE: runInfo,
}

func runInfo(cmd *cobra.Command, args []string) error {
	layout := cfg.Layout()

	fmt.Printf("%s %s\n", core.AppName, core.GetVersion())
	if cfg.Prefix != "" {
		fmt.Printf("Install prefix:     %s\n", cfg.Prefix)
	}
	fmt.Printf("Notebook directory: %s\n", layout.SCLabHome())
	fmt.Println()

	result := diagnose.NewSuite(cfg).Run(cmd.Context())

	if names := diagnose.ListNotebooks(layout.SCLabHome()); len(names) > 0 {
		fmt.Println("\nNotebooks:")
		for i, name := range names {
			if i == maxListedNotebooks {
				fmt.Printf("  ... and %d more\n", len(names)-maxListedNotebooks)
				break
			}
			fmt.Printf("  %s\n", name)
		}
	}

	if !result.Success {
		exitCode = core.ExitCodeError
	}
	return nil
}

func init() {
	rootCmd.AddCommand(infoCmd)
}
