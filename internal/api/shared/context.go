package shared

import (
	"context"
	"crypto/rand"
	"encoding/hex"

	"github.com/google/uuid"
	"github.com/phrazzld/buyone/internal/domain"
)

// Key type for context values
type ContextKey string

// Context keys for various values
const (
	// CallerContextKey is the context key for the caller identity
	CallerContextKey ContextKey = "caller"

	// TraceIDKey is the key for the trace ID in the request context
	TraceIDKey ContextKey = "traceID"

	// TraceIDLength is the number of bytes used to generate the trace ID
	TraceIDLength = 16 // 32 hex characters
)

// Identity headers set by the gateway and trusted by the services.
const (
	HeaderUserID    = "X-USER-ID"
	HeaderUserRole  = "X-USER-ROLE"
	HeaderUserEmail = "X-USER-EMAIL"
)

// SetTraceID adds a trace ID to the context.
func SetTraceID(ctx context.Context) context.Context {
	return context.WithValue(ctx, TraceIDKey, generateTraceID())
}

// GetTraceID retrieves the trace ID from the context.
// If no trace ID exists, it returns an empty string.
func GetTraceID(ctx context.Context) string {
	traceID, ok := ctx.Value(TraceIDKey).(string)
	if !ok {
		return ""
	}
	return traceID
}

// generateTraceID returns 32 hex characters from crypto/rand, falling back to
// a random UUID without dashes if the system source fails.
func generateTraceID() string {
	b := make([]byte, TraceIDLength)
	if _, err := rand.Read(b); err != nil {
		u := uuid.New()
		return hex.EncodeToString(u[:])
	}
	return hex.EncodeToString(b)
}

// WithCaller stores the caller identity in the context.
func WithCaller(ctx context.Context, caller domain.Caller) context.Context {
	return context.WithValue(ctx, CallerContextKey, caller)
}

// GetCaller returns the caller identity. ok is false when the request
// carried no user id.
func GetCaller(ctx context.Context) (domain.Caller, bool) {
	caller, ok := ctx.Value(CallerContextKey).(domain.Caller)
	if !ok || caller.ID == "" {
		return domain.Caller{}, false
	}
	return caller, true
}
