// Package logger provides process-wide logging for the retrieval engine.
//
// Warnings and errors are always written. Debug and info messages are
// written only in verbose mode (the --verbose flag), where they trace
// the ingestion and retrieval pipelines step by step.
//
// The package keeps a small printf-style API so call sites stay terse;
// underneath it is a zap logger with a console encoder.
package logger

import (
	"io"
	"os"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	mu      sync.RWMutex
	verbose bool
	level   = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	base    = build(os.Stderr)
)

func build(w io.Writer) *zap.Logger {
	encCfg := zap.NewDevelopmentEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	encCfg.CallerKey = ""
	core := zapcore.NewCore(
		zapcore.NewConsoleEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core)
}

func sugar() *zap.SugaredLogger {
	mu.RLock()
	defer mu.RUnlock()
	return base.Sugar()
}

// SetVerbose enables or disables debug and info output.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
	if v {
		level.SetLevel(zapcore.DebugLevel)
	} else {
		level.SetLevel(zapcore.WarnLevel)
	}
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the writer for all log output.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	_ = base.Sync()
	base = build(w)
}

// L returns the underlying structured logger for call sites that want
// key-value fields.
func L() *zap.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return base
}

// With returns a sugared logger carrying the given key-value pairs.
func With(keysAndValues ...any) *zap.SugaredLogger {
	return sugar().With(keysAndValues...)
}

// Debug writes a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	sugar().Debugf(format, args...)
}

// Section writes a section header if verbose mode is enabled.
func Section(name string) {
	sugar().Debugf("=== %s ===", name)
}

// Info writes an informational message if verbose mode is enabled.
func Info(format string, args ...any) {
	sugar().Infof(format, args...)
}

// Warn writes a warning.
func Warn(format string, args ...any) {
	sugar().Warnf(format, args...)
}

// Error writes an error.
func Error(format string, args ...any) {
	sugar().Errorf(format, args...)
}

// Sync flushes buffered output.
func Sync() error {
	return L().Sync()
}
