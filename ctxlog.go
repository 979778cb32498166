package launchjoin

import (
	"context"
	"io"
	"log/slog"
)

// loggerKey is an unexported type to prevent collisions with context keys
// from other packages.
type loggerKey struct{}

var discardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// WithLogger returns a new context carrying logger. Units spawned under the
// context log their lifecycle to it.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// LoggerFrom extracts the logger from ctx. Without one, logging is discarded.
func LoggerFrom(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return discardLogger
}
