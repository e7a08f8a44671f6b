package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/session"
)

const (
	errInternalServer = "Internal server error"
	errNetwork        = "Network error. Please check your connection and try again."
	errInvalidLogin   = "Invalid email or password"
	errSessionExpired = "Your session has expired. Please login again."
	msgDonationLogged = "Donation logged successfully!"
	msgRequestCreated = "Emergency request created!"
	msgStatusUpdated  = "Request status updated"
	msgDeletedRequest = "Request deleted"
	msgDeletedDonor   = "Donor deleted"
	msgRegistered     = "Registration successful! You can now login."
)

// apiCaller is the subset of api.Client the handlers need.
// Defined here (point of use) so tests can inject a fake.
type apiCaller interface {
	Call(ctx context.Context, endpoint string, opts api.CallOptions) (*api.Envelope, error)
}

// toast is the user-facing notification attached to handler responses.
type toast struct {
	Level   string `json:"level"`
	Message string `json:"message"`
}

// upstreamError translates an api.Client failure into a JSON response.
// A 401 on an authenticated call clears the whole session and sends the
// client back to the login page; every other backend status passes
// through with its message; transport failures become a 502 with the
// generic network toast.
func upstreamError(c *gin.Context, logger *slog.Logger, sessions *session.Store, err error, authed bool) {
	ctx := c.Request.Context()

	if authed && api.IsUnauthorized(err) {
		if clearErr := sessions.Logout(ctx); clearErr != nil {
			logger.ErrorContext(ctx, "clear session after upstream 401", "error", clearErr)
		}
		c.JSON(http.StatusUnauthorized, gin.H{
			"error":    errSessionExpired,
			"redirect": "/login.html",
		})
		return
	}

	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
		return
	}

	logger.ErrorContext(ctx, "upstream call failed", "error", err)
	c.JSON(http.StatusBadGateway, gin.H{"error": errNetwork})
}
