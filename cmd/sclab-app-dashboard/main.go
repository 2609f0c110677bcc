// Command sclab-app-dashboard launches dashboard mode directly, keeping the
// dedicated dashboard entry point earlier releases installed on PATH. It
// takes no flags; configuration comes from the environment, the same as
// 'sclab-app dashboard'.
package main

import (
	"context"
	"fmt"
	"os"

	"sclab_app/core"
	"sclab_app/launch"
	"sclab_app/logging"
)

func main() {
	cfg, err := core.LoadConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(core.ExitCodeError)
	}

	logger := logging.NewConsoleLogger(cfg.Verbose)

	code, err := launch.Run(context.Background(), cfg, launch.ModeDashboard, logger)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	_ = logger.Sync()
	os.Exit(code)
}
