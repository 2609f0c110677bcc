// Package logging provides structured logging for the launcher and the
// lifecycle hooks. Every logger tees output: a human-readable stream on the
// console and a JSON stream in a rotated log file, with automatic redaction
// of server tokens and password material in both.
package logging

// NewLifecycleLogger creates the logger used by the post-install and
// pre-uninstall hooks. It writes human-readable output to the console and
// JSON to logPath, creating parent directories as needed.
//
// verbose lowers the level to debug and colors the console output.
func NewLifecycleLogger(logPath string, verbose bool) (*Logger, error) {
	return NewLogger(verbose, logPath)
}

// NewConsoleLogger creates a console-only logger for commands that have no
// log file of their own, such as init and passwd. It never fails.
func NewConsoleLogger(verbose bool) *Logger {
	return newConsoleOnlyLogger(verbose)
}
