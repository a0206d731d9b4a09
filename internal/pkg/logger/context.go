package logger

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

type ctxKey int

const requestIDKey ctxKey = iota

// WithRequestID stores the request id for downstream loggers.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the request id stored in ctx, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// FromContext returns the global logger tagged with the request id if present.
func FromContext(ctx context.Context) *zerolog.Logger {
	id := RequestID(ctx)
	if id == "" {
		return &log.Logger
	}
	l := log.Logger.With().Str("request_id", id).Logger()
	return &l
}
