// Package requestid carries a per-request correlation ID. Pages send the
// same ID on retries, so a caller-supplied value is kept when present.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header names the inbound and outbound correlation header.
const Header = "X-Request-ID"

type contextKey struct{}

// Resolve returns the caller-supplied ID, or mints a UUID v4 when empty.
func Resolve(incoming string) string {
	if incoming != "" {
		return incoming
	}
	return uuid.NewString()
}

func NewContext(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request ID, or "" outside a request.
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
