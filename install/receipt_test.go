package install

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestReceiptRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "share", "sclab-app", "receipt.yaml")
	want := &Receipt{
		AppVersion:  "0.1.0",
		Platform:    "linux",
		InstalledAt: time.Date(2026, 8, 21, 10, 30, 0, 0, time.UTC),
		Interpreter: "/opt/sclab/bin/python3",
		Shortcuts: []string{
			"/home/ada/.local/share/applications/sclab-app.desktop",
			"/home/ada/.local/share/applications/sclab-app-dashboard.desktop",
		},
		Icons:       []string{"/opt/sclab/menu/sclab-app.png"},
		Wheel:       "/opt/sclab/share/sclab-app/wheels/sclab_app-0.1.0-py3-none-any.whl",
		PipPackages: []string{"scrublet>=0.2.3"},
	}

	// The parent directory does not exist yet; WriteReceipt creates it
	if err := WriteReceipt(path, want); err != nil {
		t.Fatalf("WriteReceipt failed: %v", err)
	}

	got, err := LoadReceipt(path)
	if err != nil {
		t.Fatalf("LoadReceipt failed: %v", err)
	}
	if !got.InstalledAt.Equal(want.InstalledAt) {
		t.Errorf("InstalledAt = %v, want %v", got.InstalledAt, want.InstalledAt)
	}
	got.InstalledAt = want.InstalledAt
	if !reflect.DeepEqual(got, want) {
		t.Errorf("LoadReceipt() = %+v, want %+v", got, want)
	}
}

func TestLoadReceipt_Missing(t *testing.T) {
	_, err := LoadReceipt(filepath.Join(t.TempDir(), "receipt.yaml"))
	if err == nil {
		t.Error("expected error for missing receipt")
	}
}

func TestLoadReceipt_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "receipt.yaml")
	if err := os.WriteFile(path, []byte("{not yaml: ["), 0o644); err != nil {
		t.Fatalf("failed to write receipt: %v", err)
	}
	if _, err := LoadReceipt(path); err == nil {
		t.Error("expected error for malformed receipt")
	}
}
