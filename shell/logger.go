package shell

import (
	"log/slog"

	"github.com/libreshelf/circulation-go/store"
)

// slogLogger bridges *slog.Logger to the dependency-free store.Logger
// interface.
type slogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps a *slog.Logger as a store.Logger.
func NewSlogLogger(logger *slog.Logger) store.Logger {
	return &slogLogger{logger: logger}
}

func (l *slogLogger) Debug(msg string, args ...any) {
	l.logger.Debug(msg, args...)
}

func (l *slogLogger) Info(msg string, args ...any) {
	l.logger.Info(msg, args...)
}

func (l *slogLogger) Warn(msg string, args ...any) {
	l.logger.Warn(msg, args...)
}

func (l *slogLogger) Error(msg string, args ...any) {
	l.logger.Error(msg, args...)
}
