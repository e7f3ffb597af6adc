// file: internal/logging/slog_logger.go
package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Level mirrors slog.Level so callers don't need to import log/slog just to
// configure verbosity.
type Level int

// Supported log levels, ordered least to most severe.
const (
	LevelDebug Level = Level(slog.LevelDebug)
	LevelInfo  Level = Level(slog.LevelInfo)
	LevelWarn  Level = Level(slog.LevelWarn)
	LevelError Level = Level(slog.LevelError)
)

var levelVar = new(slog.LevelVar)

// SlogLogger adapts a *slog.Logger to the Logger interface, following the
// key/value calling convention used throughout internal/rpc and internal/lsp
// (e.g. logger.Debug("handling request", "method", method, "id", id)).
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger wraps an existing *slog.Logger.
func NewSlogLogger(logger *slog.Logger) *SlogLogger {
	return &SlogLogger{logger: logger}
}

// Debug logs at debug level.
func (l *SlogLogger) Debug(msg string, args ...any) { l.logger.Debug(msg, args...) }

// Info logs at info level.
func (l *SlogLogger) Info(msg string, args ...any) { l.logger.Info(msg, args...) }

// Warn logs at warn level.
func (l *SlogLogger) Warn(msg string, args ...any) { l.logger.Warn(msg, args...) }

// Error logs at error level.
func (l *SlogLogger) Error(msg string, args ...any) { l.logger.Error(msg, args...) }

// WithContext returns the logger unchanged; the context is not retained and
// adds nothing to later log lines.
func (l *SlogLogger) WithContext(_ context.Context) Logger {
	return l
}

// WithField returns a logger with an additional structured field attached to
// every subsequent log line.
func (l *SlogLogger) WithField(key string, value any) Logger {
	return &SlogLogger{logger: l.logger.With(key, value)}
}

var (
	initOnce sync.Once
	initMu   sync.Mutex
)

// InitLogging configures the package-level default logger to emit JSON lines
// at the given level to w. Safe to call multiple times; the most recent call
// wins. Intended to be called once from main().
func InitLogging(level Level, w io.Writer) {
	initMu.Lock()
	defer initMu.Unlock()

	levelVar.Set(slog.Level(level))
	handler := slog.NewJSONHandler(w, &slog.HandlerOptions{Level: levelVar})
	SetDefaultLogger(NewSlogLogger(slog.New(handler)))
}

// initDefault lazily wires the default logger to stderr the first time
// GetLogger is used without an explicit InitLogging call, so library code
// never logs to a silent NoopLogger by accident in a real binary.
func initDefault() {
	initOnce.Do(func() {
		if _, ok := defaultLogger.(*NoopLogger); ok {
			InitLogging(LevelInfo, os.Stderr)
		}
	})
}

// SetLevel adjusts the minimum level of the default slog-backed logger and
// the level IsDebugEnabled reports. A later InitLogging call replaces it
// with the level that call is given.
func SetLevel(level Level) {
	levelVar.Set(slog.Level(level))
}

// IsDebugEnabled reports whether the default logger's current level would
// emit debug messages.
func IsDebugEnabled() bool {
	return levelVar.Level() <= slog.LevelDebug
}
