package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"go.uber.org/zap"
)

// newTestLogger creates a logger writing into a temp file and returns the
// logger plus a function that reads the parsed JSON entries back.
func newTestLogger(t *testing.T, verbose bool) (*Logger, func() []map[string]interface{}) {
	t.Helper()

	logPath := filepath.Join(t.TempDir(), "test.log")
	logger, err := NewLogger(verbose, logPath)
	if err != nil {
		t.Fatalf("NewLogger failed: %v", err)
	}

	readEntries := func() []map[string]interface{} {
		logger.Sync()
		content, err := os.ReadFile(logPath)
		if err != nil {
			t.Fatalf("failed to read log file: %v", err)
		}

		var entries []map[string]interface{}
		for _, line := range strings.Split(strings.TrimSpace(string(content)), "\n") {
			if line == "" {
				continue
			}
			var entry map[string]interface{}
			if err := json.Unmarshal([]byte(line), &entry); err != nil {
				t.Fatalf("log line is not JSON: %s (%v)", line, err)
			}
			entries = append(entries, entry)
		}
		return entries
	}

	return logger, readEntries
}

func TestNewLogger_WritesStructuredEntries(t *testing.T) {
	logger, readEntries := newTestLogger(t, false)

	logger.Info("server started",
		zap.String("host", "127.0.0.1"),
		zap.Int("port", 8899))

	entries := readEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry[FieldMessage] != "server started" {
		t.Errorf("message = %v, want %q", entry[FieldMessage], "server started")
	}
	if entry[FieldLevel] != "info" {
		t.Errorf("level = %v, want %q", entry[FieldLevel], "info")
	}
	if entry["host"] != "127.0.0.1" {
		t.Errorf("host = %v, want %q", entry["host"], "127.0.0.1")
	}
	if entry["port"] != float64(8899) {
		t.Errorf("port = %v, want 8899", entry["port"])
	}
}

func TestNewLogger_DebugFilteredUnlessVerbose(t *testing.T) {
	logger, readEntries := newTestLogger(t, false)

	logger.Debug("probing interpreter candidate")
	logger.Info("visible")

	entries := readEntries()
	if len(entries) != 1 {
		t.Fatalf("expected only the info entry, got %d entries", len(entries))
	}

	verboseLogger, readVerbose := newTestLogger(t, true)
	verboseLogger.Debug("probing interpreter candidate")

	if entries := readVerbose(); len(entries) != 1 {
		t.Fatalf("expected debug entry in verbose mode, got %d entries", len(entries))
	}
}

func TestLogger_RedactsSensitiveFieldNames(t *testing.T) {
	logger, readEntries := newTestLogger(t, false)

	logger.Info("child command built",
		zap.String("server_token", "a1b2c3d4e5f6a7b8a1b2c3d4"),
		zap.String("notebook", "dashboard.ipynb"))

	entries := readEntries()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}

	entry := entries[0]
	if entry["server_token"] != RedactedPlaceholder {
		t.Errorf("server_token = %v, want %q", entry["server_token"], RedactedPlaceholder)
	}
	if entry["notebook"] != "dashboard.ipynb" {
		t.Errorf("notebook = %v, should be untouched", entry["notebook"])
	}
}

func TestLogger_RedactsSensitiveValues(t *testing.T) {
	logger, readEntries := newTestLogger(t, false)

	logger.Info("opening browser",
		zap.String("url", "http://127.0.0.1:8899/lab?token=a1b2c3d4e5f6a7b8"))

	entries := readEntries()
	url, _ := entries[0]["url"].(string)
	if strings.Contains(url, "a1b2c3d4e5f6a7b8") {
		t.Errorf("url still contains the token: %s", url)
	}
	if !strings.Contains(url, RedactedPlaceholder) {
		t.Errorf("url should contain the redaction placeholder, got %s", url)
	}
}

func TestLogger_SugaredRedaction(t *testing.T) {
	logger, readEntries := newTestLogger(t, false)

	logger.Infow("password hash written",
		"password_hash", "argon2:$argon2id$v=19$m=8192,t=10,p=8$c2FsdA$aGFzaA",
		"config", "jupyter_server_config.json")

	entries := readEntries()
	entry := entries[0]
	if entry["password_hash"] != RedactedPlaceholder {
		t.Errorf("password_hash = %v, want %q", entry["password_hash"], RedactedPlaceholder)
	}
	if entry["config"] != "jupyter_server_config.json" {
		t.Errorf("config = %v, should be untouched", entry["config"])
	}
}

func TestLogger_With(t *testing.T) {
	logger, readEntries := newTestLogger(t, false)

	child := logger.With(LaunchFields("ab12cd34", "dashboard")...)
	child.Info("port resolved")
	child.Info("server started")

	entries := readEntries()
	if len(entries) != 2 {
		t.Fatalf("expected 2 log entries, got %d", len(entries))
	}
	for _, entry := range entries {
		if entry[FieldLaunchID] != "ab12cd34" {
			t.Errorf("launch_id = %v, want %q", entry[FieldLaunchID], "ab12cd34")
		}
		if entry[FieldMode] != "dashboard" {
			t.Errorf("mode = %v, want %q", entry[FieldMode], "dashboard")
		}
	}
}

func TestLogger_Named(t *testing.T) {
	logger, readEntries := newTestLogger(t, false)

	logger.Named("ports").Info("scan complete")

	entries := readEntries()
	if entries[0][FieldSource] != "ports" {
		t.Errorf("source = %v, want %q", entries[0][FieldSource], "ports")
	}
}

func TestNewConsoleLogger(t *testing.T) {
	logger := NewConsoleLogger(false)
	if logger == nil {
		t.Fatal("expected non-nil logger")
	}
	if logger.LogFilePath() != "" {
		t.Errorf("console-only logger should have no log file, got %q", logger.LogFilePath())
	}

	// Must not panic on use
	logger.Info("hello")
	logger.Sync()
}

func TestLogger_SyncOnNil(t *testing.T) {
	var logger *Logger
	if err := logger.Sync(); err != nil {
		t.Errorf("Sync on nil logger should be a no-op, got %v", err)
	}
}
