package logging

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.Logger and provides structured logging with automatic
// redaction of sensitive data.
//
// It composes:
//   - FileWriter (log file rotation via lumberjack)
//   - MultiCore (tee output to console + file)
//   - SensitiveFilter (token and password redaction)
//
// Example:
//
//	logger, err := NewLogger(false, "/opt/sclab/var/log/sclab-app/launch.log")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer logger.Sync()
//
//	logger.Info("server starting", zap.Int("port", 8899))
//	logger.Infow("notebook seeded", "name", "dashboard.ipynb")
type Logger struct {
	// zap is the underlying structured logger
	zap *zap.Logger

	// sugar is the sugared logger for printf-style logging
	sugar *zap.SugaredLogger

	// verbose indicates debug-level logging with colored console output
	verbose bool

	// logFilePath is the path to the log file, empty for console-only loggers
	logFilePath string
}

// NewLogger creates a Logger that tees output to the console and to
// logFilePath.
//
// Parameters:
//   - verbose: When true, logs at debug level with colored console output.
//     When false, logs at info level.
//   - logFilePath: Path to the JSON log file. The file and any missing
//     parent directories are created, and rotation is configured
//     automatically (10MB max, 3 backups, 30 days).
//
// The console stream is always human-readable; only the file stream is JSON,
// so the console stays usable while the file remains machine-parseable.
func NewLogger(verbose bool, logFilePath string) (*Logger, error) {
	return NewLoggerWithConfig(verbose, logFilePath, DefaultFileWriterConfig())
}

// NewLoggerWithConfig creates a Logger with custom file rotation
// configuration. For the default rotation policy, use NewLogger instead.
//
// Example:
//
//	config := FileWriterConfig{
//	    MaxSizeMB:  5,
//	    MaxBackups: 2,
//	    MaxAgeDays: 7,
//	    Compress:   true,
//	}
//	logger, err := NewLoggerWithConfig(false, "post_install.log", config)
func NewLoggerWithConfig(verbose bool, logFilePath string, fileConfig FileWriterConfig) (*Logger, error) {
	level := levelFor(verbose)

	fileWriter := NewFileWriterWithConfig(logFilePath, fileConfig)
	core := NewMultiCoreWithWriters(level, zapcore.Lock(os.Stdout), fileWriter, verbose)

	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1), // Skip this wrapper layer
	)

	return &Logger{
		zap:         zapLogger,
		sugar:       zapLogger.Sugar(),
		verbose:     verbose,
		logFilePath: logFilePath,
	}, nil
}

// newConsoleOnlyLogger builds a Logger with no file stream.
func newConsoleOnlyLogger(verbose bool) *Logger {
	core := zapcore.NewCore(
		newConsoleEncoder(verbose),
		zapcore.Lock(os.Stdout),
		levelFor(verbose),
	)

	zapLogger := zap.New(core,
		zap.AddCaller(),
		zap.AddCallerSkip(1),
	)

	return &Logger{
		zap:     zapLogger,
		sugar:   zapLogger.Sugar(),
		verbose: verbose,
	}
}

// levelFor maps the verbose flag to a zap level.
// This is a pure function with no side effects.
func levelFor(verbose bool) zapcore.Level {
	if verbose {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

// Sync flushes any buffered log entries.
// Applications should call Sync before exiting to ensure all logs are written.
func (l *Logger) Sync() error {
	if l == nil || l.zap == nil {
		return nil
	}
	return l.zap.Sync()
}

// Debug logs a message at DebugLevel with optional structured fields.
//
// Example:
//
//	logger.Debug("probing interpreter candidate",
//	    zap.String("path", "/opt/sclab/bin/python3"))
func (l *Logger) Debug(msg string, fields ...zap.Field) {
	l.zap.Debug(msg, l.redactFields(fields)...)
}

// Info logs a message at InfoLevel with optional structured fields.
//
// Example:
//
//	logger.Info("server started",
//	    zap.String("host", "127.0.0.1"),
//	    zap.Int("port", 8899))
func (l *Logger) Info(msg string, fields ...zap.Field) {
	l.zap.Info(msg, l.redactFields(fields)...)
}

// Warn logs a message at WarnLevel with optional structured fields.
//
// Example:
//
//	logger.Warn("optional extras failed to install",
//	    zap.Error(err))
func (l *Logger) Warn(msg string, fields ...zap.Field) {
	l.zap.Warn(msg, l.redactFields(fields)...)
}

// Error logs a message at ErrorLevel with optional structured fields.
//
// Example:
//
//	logger.Error("notebook server exited",
//	    zap.Error(err),
//	    zap.Int("exit_code", 1))
func (l *Logger) Error(msg string, fields ...zap.Field) {
	l.zap.Error(msg, l.redactFields(fields)...)
}

// Fatal logs a message at FatalLevel then calls os.Exit(1).
//
// Example:
//
//	logger.Fatal("installation prefix not set",
//	    zap.String("missing", "PREFIX"))
func (l *Logger) Fatal(msg string, fields ...zap.Field) {
	l.zap.Fatal(msg, l.redactFields(fields)...)
}

// Debugw logs a message at DebugLevel with loosely-typed key-value pairs.
// Use this for printf-style logging when you don't need type safety.
//
// Example:
//
//	logger.Debugw("wheel search",
//	    "dir", wheelDir,
//	    "matches", 2)
func (l *Logger) Debugw(msg string, keysAndValues ...interface{}) {
	l.sugar.Debugw(msg, l.redactKeysAndValues(keysAndValues)...)
}

// Infow logs a message at InfoLevel with loosely-typed key-value pairs.
//
// Example:
//
//	logger.Infow("shortcut installed",
//	    "path", shortcutPath,
//	    "platform", "linux")
func (l *Logger) Infow(msg string, keysAndValues ...interface{}) {
	l.sugar.Infow(msg, l.redactKeysAndValues(keysAndValues)...)
}

// Warnw logs a message at WarnLevel with loosely-typed key-value pairs.
func (l *Logger) Warnw(msg string, keysAndValues ...interface{}) {
	l.sugar.Warnw(msg, l.redactKeysAndValues(keysAndValues)...)
}

// Errorw logs a message at ErrorLevel with loosely-typed key-value pairs.
func (l *Logger) Errorw(msg string, keysAndValues ...interface{}) {
	l.sugar.Errorw(msg, l.redactKeysAndValues(keysAndValues)...)
}

// Fatalw logs a message at FatalLevel then calls os.Exit(1).
func (l *Logger) Fatalw(msg string, keysAndValues ...interface{}) {
	l.sugar.Fatalw(msg, l.redactKeysAndValues(keysAndValues)...)
}

// Debugf logs a formatted message at DebugLevel.
func (l *Logger) Debugf(template string, args ...interface{}) {
	l.sugar.Debugf(template, args...)
}

// Infof logs a formatted message at InfoLevel.
//
// Example:
//
//	logger.Infof("opening browser at %s in %v", url, delay)
func (l *Logger) Infof(template string, args ...interface{}) {
	l.sugar.Infof(template, args...)
}

// Warnf logs a formatted message at WarnLevel.
func (l *Logger) Warnf(template string, args ...interface{}) {
	l.sugar.Warnf(template, args...)
}

// Errorf logs a formatted message at ErrorLevel.
func (l *Logger) Errorf(template string, args ...interface{}) {
	l.sugar.Errorf(template, args...)
}

// Fatalf logs a formatted message at FatalLevel then calls os.Exit(1).
func (l *Logger) Fatalf(template string, args ...interface{}) {
	l.sugar.Fatalf(template, args...)
}

// With creates a child logger with additional fields that will be included
// in all log entries from the child.
//
// This is how the launch ID is attached to every entry of one invocation.
//
// Example:
//
//	launchLogger := logger.With(
//	    zap.String("launch_id", core.NewLaunchID()),
//	    zap.String("mode", "dashboard"))
func (l *Logger) With(fields ...zap.Field) *Logger {
	newZap := l.zap.With(l.redactFields(fields)...)
	return &Logger{
		zap:         newZap,
		sugar:       newZap.Sugar(),
		verbose:     l.verbose,
		logFilePath: l.logFilePath,
	}
}

// WithOptions creates a child logger with additional zap options.
//
// Example:
//
//	traced := logger.WithOptions(zap.AddStacktrace(zapcore.ErrorLevel))
func (l *Logger) WithOptions(opts ...zap.Option) *Logger {
	newZap := l.zap.WithOptions(opts...)
	return &Logger{
		zap:         newZap,
		sugar:       newZap.Sugar(),
		verbose:     l.verbose,
		logFilePath: l.logFilePath,
	}
}

// Named adds a sub-logger name. Logger names appear in log output and
// identify the subsystem an entry came from.
//
// Example:
//
//	iconLogger := logger.Named("icons")
//	portLogger := logger.Named("ports")
func (l *Logger) Named(name string) *Logger {
	newZap := l.zap.Named(name)
	return &Logger{
		zap:         newZap,
		sugar:       newZap.Sugar(),
		verbose:     l.verbose,
		logFilePath: l.logFilePath,
	}
}

// Sugar returns the underlying sugared logger for direct access to
// SugaredLogger methods not exposed by this wrapper.
func (l *Logger) Sugar() *zap.SugaredLogger {
	return l.sugar
}

// Zap returns the underlying zap.Logger for direct access to
// Logger methods not exposed by this wrapper.
func (l *Logger) Zap() *zap.Logger {
	return l.zap
}

// Verbose returns true if the logger is configured for debug-level output.
func (l *Logger) Verbose() bool {
	return l.verbose
}

// LogFilePath returns the path to the log file, or an empty string for a
// console-only logger.
func (l *Logger) LogFilePath() string {
	return l.logFilePath
}

// redactFields filters sensitive data from zap.Field values.
// This is called before every log operation so no token or password leaks
// into either output stream.
func (l *Logger) redactFields(fields []zap.Field) []zap.Field {
	if len(fields) == 0 {
		return fields
	}

	result := make([]zap.Field, len(fields))
	for i, field := range fields {
		result[i] = redactField(field)
	}
	return result
}

// redactField redacts a single zap.Field if it contains sensitive data.
func redactField(field zap.Field) zap.Field {
	if IsSensitiveField(field.Key) {
		return zap.String(field.Key, RedactedPlaceholder)
	}

	// For string fields, check and redact the value
	if field.Type == zapcore.StringType {
		redacted := RedactSensitiveData(field.String)
		if redacted != field.String {
			return zap.String(field.Key, redacted)
		}
	}

	return field
}

// redactKeysAndValues filters sensitive data from key-value pairs used in
// sugared logging.
func (l *Logger) redactKeysAndValues(keysAndValues []interface{}) []interface{} {
	if len(keysAndValues) == 0 {
		return keysAndValues
	}

	result := make([]interface{}, len(keysAndValues))
	copy(result, keysAndValues)

	// Process pairs: even indices are keys, odd indices are values
	for i := 0; i < len(result)-1; i += 2 {
		key, ok := result[i].(string)
		if !ok {
			continue
		}

		if IsSensitiveField(key) {
			result[i+1] = RedactedPlaceholder
			continue
		}

		if value, ok := result[i+1].(string); ok {
			result[i+1] = RedactSensitiveData(value)
		}
	}

	return result
}
