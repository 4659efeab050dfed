package utils

import (
	"context"

	"go.uber.org/zap"
)

type contextKey string

const requestIDKey contextKey = "request_id"

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, requestIDKey, requestID)
}

// RequestID returns the id stored by WithRequestID, or "" outside a request.
func RequestID(ctx context.Context) string {
	requestID, _ := ctx.Value(requestIDKey).(string)
	return requestID
}

// RequestLogger tags log with the request id carried by ctx, if any.
func RequestLogger(ctx context.Context, log *zap.Logger) *zap.Logger {
	if requestID := RequestID(ctx); requestID != "" {
		return log.With(zap.String("request_id", requestID))
	}
	return log
}
