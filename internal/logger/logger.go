// Package logger provides structured logging for the run waiter, backed by
// zap. User-facing progress goes through the output package; this logger
// carries the debug-level plumbing (resolution steps, poll iterations).
package logger

import (
	"strings"
	"sync"

	"go.uber.org/zap"
)

// Level represents the logging level
type Level int

const (
	// DebugLevel logs everything
	DebugLevel Level = iota
	// InfoLevel logs info, warnings, and errors
	InfoLevel
	// ErrorLevel logs only errors
	ErrorLevel
)

// Logger wraps a zap logger behind a small interface-free API
type Logger struct {
	zap   *zap.Logger
	sugar *zap.SugaredLogger
}

var (
	globalLogger *Logger
	globalMu     sync.Mutex
)

func init() {
	if l, err := NewFromEnv(); err == nil {
		globalLogger = l
	} else {
		globalLogger = NewNop()
	}
}

// NewNop returns a logger that discards everything. Used in tests and as a
// last-resort fallback.
func NewNop() *Logger {
	z := zap.NewNop()
	return &Logger{zap: z, sugar: z.Sugar()}
}

// WithField returns a logger with an extra structured field
func (l *Logger) WithField(key string, value interface{}) *Logger {
	z := l.zap.With(zap.Any(key, value))
	return &Logger{zap: z, sugar: z.Sugar()}
}

// WithFields returns a logger with extra structured fields
func (l *Logger) WithFields(fields map[string]interface{}) *Logger {
	zapFields := make([]zap.Field, 0, len(fields))
	for k, v := range fields {
		zapFields = append(zapFields, zap.Any(k, v))
	}
	z := l.zap.With(zapFields...)
	return &Logger{zap: z, sugar: z.Sugar()}
}

// WithError returns a logger with error context attached
func (l *Logger) WithError(err error) *Logger {
	if err == nil {
		return l
	}
	z := l.zap.With(zap.Error(err))
	return &Logger{zap: z, sugar: z.Sugar()}
}

// WithRun returns a logger scoped to a run ARN
func (l *Logger) WithRun(runArn string) *Logger {
	z := l.zap.With(zap.String("run_arn", runArn))
	return &Logger{zap: z, sugar: z.Sugar()}
}

// Debug logs a debug message
func (l *Logger) Debug(msg string) { l.sugar.Debug(msg) }

// Debugf logs a formatted debug message
func (l *Logger) Debugf(format string, args ...interface{}) { l.sugar.Debugf(format, args...) }

// Info logs an info message
func (l *Logger) Info(msg string) { l.sugar.Info(msg) }

// Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) { l.sugar.Infof(format, args...) }

// Warn logs a warning message
func (l *Logger) Warn(msg string) { l.sugar.Warn(msg) }

// Warnf logs a formatted warning message
func (l *Logger) Warnf(format string, args ...interface{}) { l.sugar.Warnf(format, args...) }

// Error logs an error message
func (l *Logger) Error(msg string) { l.sugar.Error(msg) }

// Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) { l.sugar.Errorf(format, args...) }

// Sync flushes buffered log entries
func (l *Logger) Sync() error { return l.zap.Sync() }

// GetLogger returns the global logger instance
func GetLogger() *Logger {
	globalMu.Lock()
	defer globalMu.Unlock()
	return globalLogger
}

// SetLogger sets the global logger instance
func SetLogger(l *Logger) {
	globalMu.Lock()
	defer globalMu.Unlock()
	globalLogger = l
}

// LevelFromString converts a string to a log level
func LevelFromString(s string) Level {
	switch strings.ToLower(s) {
	case "debug":
		return DebugLevel
	case "error":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Convenience functions logging to the global logger

// Debug logs a debug message to the global logger
func Debug(msg string) { GetLogger().Debug(msg) }

// Debugf logs a formatted debug message to the global logger
func Debugf(format string, args ...interface{}) { GetLogger().Debugf(format, args...) }

// Info logs an info message to the global logger
func Info(msg string) { GetLogger().Info(msg) }

// Infof logs a formatted info message to the global logger
func Infof(format string, args ...interface{}) { GetLogger().Infof(format, args...) }

// Warn logs a warning message to the global logger
func Warn(msg string) { GetLogger().Warn(msg) }

// Warnf logs a formatted warning message to the global logger
func Warnf(format string, args ...interface{}) { GetLogger().Warnf(format, args...) }

// Error logs an error message to the global logger
func Error(msg string) { GetLogger().Error(msg) }

// Errorf logs a formatted error message to the global logger
func Errorf(format string, args ...interface{}) { GetLogger().Errorf(format, args...) }
