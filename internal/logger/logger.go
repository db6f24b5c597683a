// Package logger wraps log/slog with the small surface the service needs.
package logger

import (
	"log/slog"
	"os"
)

// Logger is a slog.Logger writing text records to stdout.
type Logger struct {
	*slog.Logger
}

// New creates a Logger at the given slog level.
func New(level int) *Logger {
	return &Logger{
		Logger: slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.Level(level)})),
	}
}

// Fatal logs at error level and exits the process.
func (l *Logger) Fatal(msg string, args ...any) {
	l.Logger.Error(msg, args...)
	os.Exit(1)
}
