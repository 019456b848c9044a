package logging

import (
	"context"

	"github.com/amirphl/affiliate-rhonat/utils"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// GenerateRequestID returns a new random request id
func GenerateRequestID() string {
	return uuid.New().String()
}

// ContextWithRequestID stores the request id under the key handlers use
func ContextWithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, utils.RequestIDKey, id)
}

// RequestIDFromContext returns the stored request id or ""
func RequestIDFromContext(ctx context.Context) string {
	if id, ok := ctx.Value(utils.RequestIDKey).(string); ok {
		return id
	}
	return ""
}

// Ctx returns the global logger enriched with the request fields found in ctx
func Ctx(ctx context.Context) *zerolog.Logger {
	lc := Logger().With()
	if id := RequestIDFromContext(ctx); id != "" {
		lc = lc.Str("request_id", id)
	}
	if endpoint, ok := ctx.Value(utils.EndpointKey).(string); ok && endpoint != "" {
		lc = lc.Str("endpoint", endpoint)
	}
	l := lc.Logger()
	return &l
}
