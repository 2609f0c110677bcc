// This file contains helper functions that compose launch-related data into
// ready-to-use zap fields for structured logging.
package logging

import (
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// ChildProcess describes a started child server process.
// Implements zapcore.ObjectMarshaler for structured logging.
//
// This is a pure data structure with no dependencies on other logging parts.
//
// Example:
//
//	child := logging.ChildProcess{
//		Mode:        "dashboard",
//		PID:         41233,
//		Host:        "127.0.0.1",
//		Port:        8866,
//		NotebookDir: "/home/user/Documents/SCLab-App",
//	}
//	logger.Info("server started", logging.ChildProcessField(child))
type ChildProcess struct {
	// Mode is the serve mode: lab, dashboard, or server
	Mode string `json:"mode"`

	// PID is the operating system process ID of the child
	PID int `json:"pid"`

	// Host is the bind address the child was given
	Host string `json:"host"`

	// Port is the port the child was given after the free-port scan
	Port int `json:"port"`

	// NotebookDir is the notebook directory the child serves
	NotebookDir string `json:"notebook_dir"`
}

// MarshalLogObject implements zapcore.ObjectMarshaler for structured logging.
// This allows ChildProcess to be logged as a nested JSON object in zap logs.
func (p ChildProcess) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("mode", p.Mode)
	enc.AddInt("pid", p.PID)
	enc.AddString("host", p.Host)
	enc.AddInt("port", p.Port)
	enc.AddString("notebook_dir", p.NotebookDir)
	return nil
}

// ChildProcessField creates a structured zap field from a ChildProcess.
//
// Example:
//
//	logger.Info("server started", logging.ChildProcessField(child))
func ChildProcessField(p ChildProcess) zap.Field {
	return zap.Object("child", p)
}

// LaunchFields creates the fields identifying one launcher invocation.
// Attach them with Logger.With so every subsequent entry carries them.
//
// Example:
//
//	logger = logger.With(logging.LaunchFields(id, "lab")...)
func LaunchFields(launchID, mode string) []zap.Field {
	return []zap.Field{
		zap.String(FieldLaunchID, launchID),
		zap.String(FieldMode, mode),
	}
}

// PortFields creates fields describing a port resolution. When the requested
// port was free, requested and selected are equal.
//
// Example:
//
//	logger.Info("port resolved", logging.PortFields(8899, 8901)...)
func PortFields(requested, selected int) []zap.Field {
	return []zap.Field{
		zap.Int("requested_port", requested),
		zap.Int("selected_port", selected),
	}
}
