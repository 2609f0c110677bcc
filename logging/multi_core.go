package logging

import (
	"os"

	"go.uber.org/zap/zapcore"
)

// NewMultiCore creates a zapcore.Core that tees output to both console and
// file. This composes the encoder configs from encoder_config.go with the
// rotating file writer from file_writer.go.
//
// Parameters:
//   - level: The minimum log level for both outputs
//   - filePath: Path to the log file (created with parent directories)
//   - colored: When true, console level names are colored
//
// The file output always uses JSON encoding for structured log processing.
// The console output is always human-readable: a launcher is an interactive
// tool and JSON on its stdout would be noise, not structure.
//
// Example:
//
//	core := NewMultiCore(zapcore.InfoLevel, layout.PostInstallLog(), false)
//	logger := zap.New(core)
func NewMultiCore(level zapcore.Level, filePath string, colored bool) zapcore.Core {
	return NewMultiCoreWithWriters(level, zapcore.Lock(os.Stdout), NewFileWriter(filePath), colored)
}

// NewMultiCoreWithWriters creates a zapcore.Core that tees output to the
// provided writers. This variant allows for custom writers, useful for
// testing or special output destinations.
//
// Example:
//
//	var consoleBuf, fileBuf bytes.Buffer
//	core := NewMultiCoreWithWriters(zapcore.DebugLevel,
//	    zapcore.AddSync(&consoleBuf), zapcore.AddSync(&fileBuf), false)
//	logger := zap.New(core)
func NewMultiCoreWithWriters(level zapcore.Level, consoleWriter, fileWriter zapcore.WriteSyncer, colored bool) zapcore.Core {
	// File always uses JSON encoder
	fileEncoder := zapcore.NewJSONEncoder(NewEncoderConfig())
	fileCore := zapcore.NewCore(
		fileEncoder,
		fileWriter,
		level,
	)

	consoleCore := zapcore.NewCore(
		newConsoleEncoder(colored),
		consoleWriter,
		level,
	)

	return zapcore.NewTee(consoleCore, fileCore)
}
