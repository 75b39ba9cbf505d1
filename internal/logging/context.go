package logging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// contextKey is a type for context keys used by this package.
type contextKey int

const (
	sessionIDKey contextKey = iota
)

// NewSessionID creates a new time-sortable session ID.
func NewSessionID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}

// WithSessionID returns a new context carrying the given session ID.
func WithSessionID(ctx context.Context, sessionID string) context.Context {
	return context.WithValue(ctx, sessionIDKey, sessionID)
}

// NewSessionContext creates a new context with a generated session ID.
func NewSessionContext() context.Context {
	return WithSessionID(context.Background(), NewSessionID())
}

// SessionIDFromContext extracts the session ID from the context.
// Returns empty string if no session ID is set.
func SessionIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(sessionIDKey).(string); ok {
		return id
	}
	return ""
}

// LoggerFromContext returns a logger tagged with the context's session ID.
// If no session ID is in the context, returns the default logger.
func LoggerFromContext(ctx context.Context) *slog.Logger {
	logger := Logger()
	if sessionID := SessionIDFromContext(ctx); sessionID != "" {
		logger = logger.With(KeySessionID, sessionID)
	}
	return logger
}
