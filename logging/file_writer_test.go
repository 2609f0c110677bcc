package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewFileWriter_WritesAndCreatesParents(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "var", "log", "sclab-app", "launch.log")

	writer := NewFileWriter(logPath)

	message := "first entry\n"
	n, err := writer.Write([]byte(message))
	if err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if n != len(message) {
		t.Errorf("Write returned %d, want %d", n, len(message))
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(content), "first entry") {
		t.Errorf("log file content = %q, want it to contain the entry", string(content))
	}
}

func TestNewFileWriter_AppendsAcrossWriters(t *testing.T) {
	tmpDir := t.TempDir()
	logPath := filepath.Join(tmpDir, "post_install.log")

	first := NewFileWriter(logPath)
	if _, err := first.Write([]byte("run one\n")); err != nil {
		t.Fatalf("first write failed: %v", err)
	}

	// A second installer run must append, not truncate
	second := NewFileWriter(logPath)
	if _, err := second.Write([]byte("run two\n")); err != nil {
		t.Fatalf("second write failed: %v", err)
	}

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	text := string(content)
	if !strings.Contains(text, "run one") || !strings.Contains(text, "run two") {
		t.Errorf("log file should contain both runs, got: %q", text)
	}
}

func TestDefaultFileWriterConfig(t *testing.T) {
	config := DefaultFileWriterConfig()

	if config.MaxSizeMB != DefaultMaxSizeMB {
		t.Errorf("MaxSizeMB = %d, want %d", config.MaxSizeMB, DefaultMaxSizeMB)
	}
	if config.MaxBackups != DefaultMaxBackups {
		t.Errorf("MaxBackups = %d, want %d", config.MaxBackups, DefaultMaxBackups)
	}
	if config.MaxAgeDays != DefaultMaxAgeDays {
		t.Errorf("MaxAgeDays = %d, want %d", config.MaxAgeDays, DefaultMaxAgeDays)
	}
	if !config.Compress {
		t.Error("Compress should default to true")
	}
	if config.LocalTime {
		t.Error("LocalTime should default to false")
	}
}

func TestApplyFileWriterDefaults(t *testing.T) {
	tests := []struct {
		name  string
		input FileWriterConfig
		check func(t *testing.T, got FileWriterConfig)
	}{
		{
			name:  "zero config gets defaults",
			input: FileWriterConfig{},
			check: func(t *testing.T, got FileWriterConfig) {
				if got.MaxSizeMB != DefaultMaxSizeMB {
					t.Errorf("MaxSizeMB = %d, want %d", got.MaxSizeMB, DefaultMaxSizeMB)
				}
				if got.MaxBackups != DefaultMaxBackups {
					t.Errorf("MaxBackups = %d, want %d", got.MaxBackups, DefaultMaxBackups)
				}
			},
		},
		{
			name:  "explicit values survive",
			input: FileWriterConfig{MaxSizeMB: 5, MaxBackups: 1, MaxAgeDays: 7},
			check: func(t *testing.T, got FileWriterConfig) {
				if got.MaxSizeMB != 5 || got.MaxBackups != 1 || got.MaxAgeDays != 7 {
					t.Errorf("explicit values were overwritten: %+v", got)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tt.check(t, applyFileWriterDefaults(tt.input))
		})
	}
}
