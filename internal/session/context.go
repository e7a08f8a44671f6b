package session

import "context"

type ctxKey struct{}

// WithID returns a copy of ctx carrying the browser session ID.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFromContext extracts the browser session ID from ctx. Returns "" if absent.
func IDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}
