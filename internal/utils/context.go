package utils

import "context"

type requestIDKey struct{}

func WithRequestID(ctx context.Context, reqID string) context.Context {
	return context.WithValue(ctx, requestIDKey{}, reqID)
}

// RequestID returns the id stored by WithRequestID, or nil, in the form the
// Logger methods take.
func RequestID(ctx context.Context) *string {
	reqID, ok := ctx.Value(requestIDKey{}).(string)
	if !ok {
		return nil
	}
	return &reqID
}
