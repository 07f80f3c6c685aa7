package logger

import (
	"context"
	"log/slog"
	"os"
)

// Logger wraps slog for structured logging, so call sites depend on
// one place if the handler or format ever changes.
type Logger struct {
	*slog.Logger
}

// New creates a new JSON logger at the given level.
func New(level string) *Logger {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level: logLevel,
	}

	handler := slog.NewJSONHandler(os.Stdout, opts)
	return &Logger{Logger: slog.New(handler)}
}

// WithContext returns a logger annotated with the request id carried in
// the context, when one is present.
func (l *Logger) WithContext(ctx context.Context) *Logger {
	if requestID, ok := ctx.Value("request_id").(string); ok {
		return &Logger{Logger: l.With("request_id", requestID)}
	}
	return l
}
