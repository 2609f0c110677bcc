package install

import (
	"os"

	"go.uber.org/zap"

	"sclab_app/core"
	"sclab_app/logging"
)

// RemoveResult reports what one removal run deleted.
type RemoveResult struct {
	// Removed lists files and directories actually deleted
	Removed []string

	// Absent lists expected artifacts that were already gone
	Absent []string

	// DirRemoved reports whether the owned shortcut directory was deleted
	DirRemoved bool
}

// Remove is the pre-uninstall hook: delete the shortcut artifacts and
// generated icons recorded at setup, then the shortcut directory itself when
// this application owns it and it is now empty.
//
// Everything is best-effort. An absent artifact is a no-op, a missing
// receipt falls back to the known shortcut names, and an unset prefix only
// limits cleanup to the user-side artifacts; uninstall must proceed in a
// degraded environment.
func Remove(layout core.Layout, logger *logging.Logger) (*RemoveResult, error) {
	if layout.Prefix == "" {
		logger.Warn("PREFIX not set, removing user-side artifacts only")
	}

	result := &RemoveResult{}

	timer := logging.NewStepTimer(logger, "remove_shortcuts")
	for _, path := range shortcutTargets(layout, logger) {
		removeArtifact(path, result, logger)
	}
	timer.Complete(zap.Int("removed", len(result.Removed)))

	if dir, owned := layout.ShortcutDir(); owned {
		if removeDirIfEmpty(dir) {
			result.DirRemoved = true
			logger.Info("removed shortcut directory", zap.String("dir", dir))
		}
	}

	if layout.Prefix != "" {
		if err := os.Remove(layout.ReceiptPath()); err == nil {
			result.Removed = append(result.Removed, layout.ReceiptPath())
		}
	}

	logger.Info("removal complete",
		zap.Int("removed", len(result.Removed)),
		zap.Int("already_absent", len(result.Absent)),
	)
	return result, nil
}

// shortcutTargets returns the artifact paths to delete: the receipt's
// recorded set when one survives, otherwise the paths the known shortcut
// names would have produced on this platform.
func shortcutTargets(layout core.Layout, logger *logging.Logger) []string {
	if layout.Prefix != "" {
		receipt, err := LoadReceipt(layout.ReceiptPath())
		if err == nil {
			logger.Debug("using install receipt",
				zap.String("path", layout.ReceiptPath()),
				zap.Int("shortcuts", len(receipt.Shortcuts)),
			)
			return append(append([]string{}, receipt.Shortcuts...), receipt.Icons...)
		}
		logger.Warn("no readable install receipt, falling back to known shortcut names",
			zap.Error(err))
	}

	targets := make([]string, 0, len(KnownShortcutNames))
	for _, name := range KnownShortcutNames {
		targets = append(targets, ShortcutPath(layout, name))
	}
	return targets
}

// removeArtifact deletes one file or directory tree. Absence is recorded,
// not logged as a failure.
func removeArtifact(path string, result *RemoveResult, logger *logging.Logger) {
	info, err := os.Lstat(path)
	if os.IsNotExist(err) {
		result.Absent = append(result.Absent, path)
		return
	}
	if err != nil {
		logger.Warn("could not stat artifact", zap.String("path", path), zap.Error(err))
		return
	}

	// App bundles are directories; everything else is a plain file
	if info.IsDir() {
		err = os.RemoveAll(path)
	} else {
		err = os.Remove(path)
	}
	if err != nil {
		logger.Warn("failed to remove artifact", zap.String("path", path), zap.Error(err))
		return
	}
	result.Removed = append(result.Removed, path)
	logger.Info("removed", zap.String("path", path))
}

// removeDirIfEmpty deletes dir only when it contains no entries.
func removeDirIfEmpty(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil || len(entries) != 0 {
		return false
	}
	return os.Remove(dir) == nil
}
