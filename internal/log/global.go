package log

import (
	"log/slog"
	"sync/atomic"
)

var defaultLogger atomic.Pointer[Logger]

// SetDefaultLogger installs logger for the process and routes the
// standard slog default through it, so libraries logging via slog
// follow the CLI's level and output.
func SetDefaultLogger(logger *Logger) {
	defaultLogger.Store(logger)
	if logger != nil {
		slog.SetDefault(logger.Slog())
	}
}

// DefaultLogger returns the installed logger. Before SetDefaultLogger it
// returns a DefaultConfig logger without installing it.
func DefaultLogger() *Logger {
	if l := defaultLogger.Load(); l != nil {
		return l
	}
	return Default()
}
