package main

import (
	"fmt"

	"sclab_app/notebooks"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed the notebook directory with the bundled workflow notebooks",
	Long: `Create the notebook directory and copy in the bundled workflow
notebooks and working subdirectories. Notebooks you have already edited are
left alone unless --force is given, which restores them to the packaged
versions.

Example:
  sclab-app init
  sclab-app init --force
  sclab-app init --home /srv/shared-notebooks`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func runInit(cmd *cobra.Command, args []string) error {
	layout := cfg.Layout()
	dir, err := layout.EnsureSCLabHome()
	if err != nil {
		return fmt.Errorf("failed to create notebook directory: %w", err)
	}

	result, err := notebooks.Seed(dir, notebooks.SeedOptions{
		Force:          initForce,
		ExtraSourceDir: layout.NotebookSourceDir(),
	})
	if err != nil {
		return err
	}

	logger.Debug("notebooks seeded",
		zap.String("dir", dir),
		zap.Int("created", len(result.Created)),
		zap.Int("overwritten", len(result.Overwritten)),
		zap.Int("skipped", len(result.Skipped)))

	fmt.Printf("Notebook directory: %s\n", dir)
	for _, name := range result.Created {
		fmt.Printf("  created  %s\n", name)
	}
	for _, name := range result.Overwritten {
		fmt.Printf("  replaced %s\n", name)
	}
	for _, name := range result.Skipped {
		fmt.Printf("  kept     %s\n", name)
	}
	return nil
}

func init() {
	initCmd.Flags().BoolVar(&initForce, "force", false, "overwrite notebooks that already exist")
	rootCmd.AddCommand(initCmd)
}
