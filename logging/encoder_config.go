package logging

import (
	"time"

	"go.uber.org/zap/zapcore"
)

// Standard field names for structured logging.
// These constants define the JSON keys used in log output.
const (
	// FieldTimestamp is the key for the log entry timestamp
	FieldTimestamp = "timestamp"

	// FieldLevel is the key for the log level (debug, info, warn, error, fatal)
	FieldLevel = "level"

	// FieldSource is the key for the sub-logger name (icons, ports, ...)
	FieldSource = "source"

	// FieldMessage is the key for the log message
	FieldMessage = "message"

	// FieldStacktrace is the key for stack traces (on error/fatal)
	FieldStacktrace = "stacktrace"

	// FieldCaller is the key for the calling function name
	FieldCaller = "caller"

	// FieldLaunchID is the key correlating all entries of one invocation
	FieldLaunchID = "launch_id"

	// FieldMode is the key for the serve mode (lab, dashboard, server)
	FieldMode = "mode"

	// FieldStep is the key for the current lifecycle step name
	FieldStep = "step"
)

// NewEncoderConfig returns a zapcore.EncoderConfig with standardized field
// names for the JSON file stream.
//
// This is a pure function that returns a consistent configuration.
// The config uses:
//   - ISO8601 timestamps
//   - Lowercase level names
//   - Short caller paths with line numbers
//   - Standard field names defined in this package
func NewEncoderConfig() zapcore.EncoderConfig {
	return zapcore.EncoderConfig{
		// Field keys
		TimeKey:       FieldTimestamp,
		LevelKey:      FieldLevel,
		NameKey:       FieldSource,
		CallerKey:     FieldCaller,
		MessageKey:    FieldMessage,
		StacktraceKey: FieldStacktrace,
		LineEnding:    zapcore.DefaultLineEnding,

		// Encoders
		EncodeLevel:    zapcore.LowercaseLevelEncoder,
		EncodeTime:     zapcore.ISO8601TimeEncoder,
		EncodeDuration: zapcore.SecondsDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// NewConsoleEncoderConfig returns a zapcore.EncoderConfig for the console
// stream. Level names are colored when colored is true; timestamps use a
// compact clock format either way, since a launcher session is short and the
// date adds no information.
//
// This is a pure function with no side effects.
func NewConsoleEncoderConfig(colored bool) zapcore.EncoderConfig {
	levelEncoder := zapcore.CapitalLevelEncoder
	if colored {
		levelEncoder = zapcore.CapitalColorLevelEncoder
	}

	return zapcore.EncoderConfig{
		// Field keys. Caller info is omitted on the console; it belongs in
		// the JSON stream where tooling reads it.
		TimeKey:       FieldTimestamp,
		LevelKey:      FieldLevel,
		NameKey:       FieldSource,
		MessageKey:    FieldMessage,
		StacktraceKey: FieldStacktrace,
		LineEnding:    zapcore.DefaultLineEnding,

		// Encoders
		EncodeLevel:    levelEncoder,
		EncodeTime:     shortTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}
}

// shortTimeEncoder encodes time in a compact format for console output.
// Format: 15:04:05.000
func shortTimeEncoder(t time.Time, enc zapcore.PrimitiveArrayEncoder) {
	enc.AppendString(t.Format("15:04:05.000"))
}

// newConsoleEncoder builds the console encoder for the given verbosity.
func newConsoleEncoder(colored bool) zapcore.Encoder {
	return zapcore.NewConsoleEncoder(NewConsoleEncoderConfig(colored))
}
