package internal

import "context"

type ctxKey string

const ContextRequestIDKey ctxKey = "requestID"

// RequestIDFromContext returns the id set by the request-id middleware, or ""
// outside a request.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(ContextRequestIDKey).(string)
	return id
}

func ContextWithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextRequestIDKey, requestID)
}
