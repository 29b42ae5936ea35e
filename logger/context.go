package logger

import (
	"context"
	"log/slog"
)

// ContextKey is a type for context keys to avoid collisions
type ContextKey string

const (
	LoggerKey ContextKey = "logger"
)

// FromContext retrieves the logger from the context.
// If no logger is found, it returns the default logger.
func FromContext(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(LoggerKey).(*slog.Logger); ok {
		return logger
	}
	return slog.Default()
}

// WithLogger adds a logger to the context
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, LoggerKey, logger)
}

// WithOwner adds an owner id attribute to the logger in the context.
// Handlers call this once the request's owner is resolved so that all
// downstream pipeline logs carry the owner.
func WithOwner(ctx context.Context, ownerID string) context.Context {
	logger := FromContext(ctx).With("owner_id", ownerID)
	return WithLogger(ctx, logger)
}

// WithSubmission adds a submission id attribute to the logger in the context
func WithSubmission(ctx context.Context, submID string) context.Context {
	logger := FromContext(ctx).With("subm_id", submID)
	return WithLogger(ctx, logger)
}
