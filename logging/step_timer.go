package logging

import (
	"time"

	"go.uber.org/zap"
)

// StepTimer measures and logs the lifetime of one lifecycle step, such as
// "icons" or "shortcuts" during post-install. Creating the timer logs the
// start; exactly one of Complete, Skip, or Fail should follow.
//
// Example:
//
//	timer := logging.NewStepTimer(logger, "icons")
//	if err := installIcons(layout); err != nil {
//	    timer.Fail(err)
//	    return err
//	}
//	timer.Complete()
type StepTimer struct {
	logger *Logger
	step   string
	start  time.Time
}

// NewStepTimer logs the start of a step and returns its timer.
func NewStepTimer(logger *Logger, step string) *StepTimer {
	logger.Info("step started", zap.String(FieldStep, step))
	return &StepTimer{
		logger: logger,
		step:   step,
		start:  time.Now(),
	}
}

// Elapsed returns the time since the step started.
func (t *StepTimer) Elapsed() time.Duration {
	return time.Since(t.start)
}

// Complete logs successful completion with the elapsed time and any extra
// fields the caller wants recorded.
func (t *StepTimer) Complete(fields ...zap.Field) {
	all := append([]zap.Field{
		zap.String(FieldStep, t.step),
		zap.Duration("elapsed", t.Elapsed()),
	}, fields...)
	t.logger.Info("step complete", all...)
}

// Skip logs that the step found nothing to do. Idempotent steps call this
// when re-run over an already-installed prefix.
func (t *StepTimer) Skip(reason string) {
	t.logger.Info("step skipped",
		zap.String(FieldStep, t.step),
		zap.String("reason", reason),
	)
}

// Fail logs step failure with the elapsed time. It does not decide whether
// the failure is fatal; warn-and-continue steps log through Fail and carry
// on.
func (t *StepTimer) Fail(err error) {
	t.logger.Error("step failed",
		zap.String(FieldStep, t.step),
		zap.Duration("elapsed", t.Elapsed()),
		zap.Error(err),
	)
}
