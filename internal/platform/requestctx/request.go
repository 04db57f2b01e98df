// Package requestctx carries per-request identity through context.
package requestctx

import "context"

type requestIDContextKey struct{}

// operatorContextKey is the context key for the authenticated operator subject.
type operatorContextKey struct{}

// WithRequestID stores a request identifier in context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, requestIDContextKey{}, requestID)
}

// RequestIDFromContext returns the request identifier stored in context.
func RequestIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(requestIDContextKey{}).(string)
	return value
}

// WithOperator stores the operator subject that authorized the request.
func WithOperator(ctx context.Context, subject string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, operatorContextKey{}, subject)
}

// OperatorFromContext returns the operator subject stored in context.
func OperatorFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(operatorContextKey{}).(string)
	return value
}
