// Package logging carries request-scoped slog loggers through context so
// services and repositories can log with the request attributes the HTTP
// middleware attached.
package logging

import (
	"context"
	"log/slog"
)

type loggerKey struct{}

// ContextWithLogger attaches logger to ctx. A nil logger leaves ctx untouched
// so callers can pass through optional loggers without checking.
func ContextWithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	if ctx == nil || logger == nil {
		return ctx
	}
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the logger attached to ctx, or nil when none was set.
func FromContext(ctx context.Context) *slog.Logger {
	if ctx == nil {
		return nil
	}
	if logger, ok := ctx.Value(loggerKey{}).(*slog.Logger); ok {
		return logger
	}
	return nil
}
