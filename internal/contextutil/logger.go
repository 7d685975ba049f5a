// Package contextutil carries a request-scoped slog.Logger through context.Context.
package contextutil

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// LoggerFromContext returns the logger stored in ctx, or slog.Default() when there is none.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	if l, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok && l != nil {
		return l
	}
	return slog.Default()
}

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// With returns a copy of ctx whose logger has args attached, so that every
// line logged further down the call chain carries them.
func With(ctx context.Context, args ...any) context.Context {
	if len(args) == 0 {
		return ctx
	}
	return WithLogger(ctx, LoggerFromContext(ctx).With(args...))
}
