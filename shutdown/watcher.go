// Package shutdown translates process signals into an orderly stop of the
// supervised notebook server: the first SIGINT or SIGTERM cancels a context
// so the child can wind down on its own, a second one forces a kill.
package shutdown

import (
	"context"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"sclab_app/logging"

	"go.uber.org/zap"
)

// Watcher owns the signal subscription for one launcher run. It composes a
// SignalCounter with context cancellation:
//   - first signal: remembered, logged, and the watched context is cancelled
//     so the child server receives its interrupt and exits gracefully
//   - second signal: the force callback runs for an immediate kill
type Watcher struct {
	logger *logging.Logger

	mu      sync.Mutex
	started bool
	first   os.Signal

	ctx    context.Context
	cancel context.CancelFunc

	signals *SignalCounter
	sigChan chan os.Signal
}

// NewWatcher creates a Watcher whose context derives from parent. The force
// callback is installed later with SetForce, once a child process exists to
// kill.
func NewWatcher(parent context.Context, logger *logging.Logger) *Watcher {
	ctx, cancel := context.WithCancel(parent)
	return &Watcher{
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		signals: NewSignalCounter(2, nil),
		sigChan: make(chan os.Signal, 2),
	}
}

// Context returns the context cancelled by the first shutdown signal.
// The child process supervision should run under this context.
func (w *Watcher) Context() context.Context {
	return w.ctx
}

// SetForce installs the callback invoked on the second signal.
func (w *Watcher) SetForce(onForce func()) {
	w.signals.SetForceCallback(onForce)
}

// Signaled reports whether at least one shutdown signal has arrived. The
// launcher uses this to tell a user-requested stop apart from a child crash.
func (w *Watcher) Signaled() bool {
	return w.signals.Count() > 0
}

// FirstSignal returns the first received signal, or nil when none arrived.
func (w *Watcher) FirstSignal() os.Signal {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.first
}

// Start subscribes to SIGINT and SIGTERM and begins dispatching them.
// It is safe to call Start multiple times; subsequent calls are no-ops.
func (w *Watcher) Start() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return
	}
	w.started = true

	signal.Notify(w.sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		for sig := range w.sigChan {
			count := w.signals.Increment()
			if count == 1 {
				w.mu.Lock()
				w.first = sig
				w.mu.Unlock()
				w.logger.Info("received shutdown signal, stopping server",
					zap.String("signal", sig.String()),
				)
				w.cancel()
			}
			// The force callback handles everything past the first signal.
		}
	}()
}

// Stop unsubscribes from signals and cancels the watched context. After Stop
// returns, further signals get default handling again, so a wedged teardown
// can still be interrupted from the terminal.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		w.started = false
		signal.Stop(w.sigChan)
		close(w.sigChan)
	}
	w.cancel()
}
