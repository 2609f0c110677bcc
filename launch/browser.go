package launch

import (
	"context"
	"fmt"
	"os/exec"
	"runtime"
	"time"

	"sclab_app/logging"

	"go.uber.org/zap"
)

// browserArgs returns the platform command that opens a URL in the default
// browser.
func browserArgs(goos, url string) []string {
	switch goos {
	case "darwin":
		return []string{"open", url}
	case "windows":
		return []string{"rundll32", "url.dll,FileProtocolHandler", url}
	default:
		return []string{"xdg-open", url}
	}
}

// OpenBrowser opens the URL in the platform default browser. The opener
// process is not waited for beyond reaping; browsers routinely outlive it.
func OpenBrowser(url string) error {
	args := browserArgs(runtime.GOOS, url)
	cmd := exec.Command(args[0], args[1:]...)
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to run %s: %w", args[0], err)
	}
	go func() {
		_ = cmd.Wait()
	}()
	return nil
}

// OpenBrowserAfter sleeps for the delay, then opens the URL, unless the
// context is cancelled first. The delay gives the child server time to bind
// its port before the first request arrives.
//
// A failed open is logged, not returned: the server is running and the user
// can still paste the URL by hand.
func OpenBrowserAfter(ctx context.Context, url string, delay time.Duration, logger *logging.Logger) {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return
	case <-timer.C:
	}

	if err := OpenBrowser(url); err != nil {
		logger.Warn("could not open browser, open the URL manually",
			zap.String("url", url),
			zap.Error(err),
		)
		return
	}
	logger.Info("opened browser", zap.String("url", url))
}
