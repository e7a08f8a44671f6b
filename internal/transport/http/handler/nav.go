package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/nav"
	"github.com/lifelink/lifelink-web/internal/session"
)

type NavHandler struct {
	sessions *session.Store
}

func NewNavHandler(sessions *session.Store) *NavHandler {
	return &NavHandler{sessions: sessions}
}

// GET /api/nav
// Every page fetches this once on load to decide which links to render.
func (h *NavHandler) State(c *gin.Context) {
	ctx := c.Request.Context()
	state := nav.State{
		DonorToken: h.sessions.DonorToken(ctx),
		DonorName:  h.sessions.DonorName(ctx),
		Admin:      h.sessions.AdminSession(ctx),
	}
	c.JSON(http.StatusOK, nav.Resolve(state))
}
