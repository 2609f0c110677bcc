package launch

import (
	"context"
	"reflect"
	"testing"
	"time"

	"sclab_app/logging"
)

func TestBrowserArgs(t *testing.T) {
	const url = "http://127.0.0.1:8899/lab"

	tests := []struct {
		goos string
		want []string
	}{
		{"darwin", []string{"open", url}},
		{"windows", []string{"rundll32", "url.dll,FileProtocolHandler", url}},
		{"linux", []string{"xdg-open", url}},
		{"freebsd", []string{"xdg-open", url}},
	}

	for _, tt := range tests {
		t.Run(tt.goos, func(t *testing.T) {
			got := browserArgs(tt.goos, url)
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("browserArgs(%q) = %v, want %v", tt.goos, got, tt.want)
			}
		})
	}
}

func TestOpenBrowserAfter_CancelledBeforeDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	OpenBrowserAfter(ctx, "http://127.0.0.1:1/lab", 10*time.Second, logging.NewConsoleLogger(false))
	elapsed := time.Since(start)

	if elapsed > time.Second {
		t.Errorf("OpenBrowserAfter took %v after cancellation, want immediate return", elapsed)
	}
}

func TestOpenBrowserAfter_CancelledMidDelay(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		OpenBrowserAfter(ctx, "http://127.0.0.1:1/lab", 30*time.Second, logging.NewConsoleLogger(false))
		close(done)
	}()

	cancel()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("OpenBrowserAfter did not return after cancellation")
	}
}
