package log

import "context"

type contextKey int

const (
	requestIDKey contextKey = iota
	fieldsKey
)

// WithRequestID stores the request id that every Ctx log call will attach.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext returns "" when ctx is nil or carries no id.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// WithFields returns a context whose fields are the existing ones plus the
// given pairs. The parent's map is never mutated.
func WithFields(ctx context.Context, keysAndValues ...any) context.Context {
	parent := FieldsFromContext(ctx)
	fields := make(map[string]any, len(parent)+len(keysAndValues)/2)
	for k, v := range parent {
		fields[k] = v
	}
	mergePairs(fields, keysAndValues)
	return context.WithValue(ctx, fieldsKey, fields)
}

// FieldsFromContext returns nil if no fields were attached.
func FieldsFromContext(ctx context.Context) map[string]any {
	if ctx == nil {
		return nil
	}
	fields, _ := ctx.Value(fieldsKey).(map[string]any)
	return fields
}
