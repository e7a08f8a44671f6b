package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/lifelink/lifelink-web/internal/domain"
)

// Error is the uniform failure shape for non-2xx backend responses.
// Status and Message are always set; Data carries the raw body when one
// was returned.
type Error struct {
	Status  int
	Message string
	Data    json.RawMessage
}

func (e *Error) Error() string {
	return fmt.Sprintf("api: %s (status %d)", e.Message, e.Status)
}

// Is matches a backend 401 against domain.ErrUnauthorized so callers can
// use errors.Is without reaching for the concrete type.
func (e *Error) Is(target error) bool {
	return target == domain.ErrUnauthorized && e.Status == http.StatusUnauthorized
}

// IsUnauthorized reports whether err is a backend 401. Callers treat this
// as "session invalid": clear the session store and force re-login.
func IsUnauthorized(err error) bool {
	return errors.Is(err, domain.ErrUnauthorized)
}

// StatusOf returns the HTTP status carried by err, or 0 for transport
// failures that never produced a response.
func StatusOf(err error) int {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.Status
	}
	return 0
}
