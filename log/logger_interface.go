package log

import (
	"context"
	"strings"
)

type contextKey string

const (
	loggerKey contextKey = "triage.logger"
)

var defaultLevel = LevelWarn

// SetDefaultLevel sets the level used by loggers created from an empty context.
func SetDefaultLevel(level Level) {
	defaultLevel = level
}

// Logger is the structured logging interface used across the classifier and
// providers. It mirrors the slog method set so that adapters for other
// libraries stay trivial.
type Logger interface {
	// Debug logs a message at debug level with optional key-value pairs
	Debug(msg string, args ...any)

	// Info logs a message at info level with optional key-value pairs
	Info(msg string, args ...any)

	// Warn logs a message at warn level with optional key-value pairs
	Warn(msg string, args ...any)

	// Error logs a message at error level with optional key-value pairs
	Error(msg string, args ...any)

	// With returns a Logger that includes the given attributes in each
	// output operation.
	With(args ...any) Logger
}

// WithLogger returns a new context with the given logger.
func WithLogger(ctx context.Context, logger Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// Ctx returns the logger from the given context, or a new logger at the
// default level when none is attached.
func Ctx(ctx context.Context) Logger {
	if ctx == nil {
		return New(defaultLevel)
	}
	logger, ok := ctx.Value(loggerKey).(Logger)
	if !ok {
		return New(defaultLevel)
	}
	return logger
}

// LevelFromString converts a string to a Level. Unknown values map to the
// default level.
func LevelFromString(value string) Level {
	switch strings.ToLower(value) {
	case "debug":
		return LevelDebug
	case "info":
		return LevelInfo
	case "warn", "warning":
		return LevelWarn
	case "error":
		return LevelError
	case "none", "off":
		return LevelNone
	default:
		return defaultLevel
	}
}
