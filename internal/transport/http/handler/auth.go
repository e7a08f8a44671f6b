package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/domain"
	"github.com/lifelink/lifelink-web/internal/session"
)

type AuthHandler struct {
	api      apiCaller
	sessions *session.Store
	logger   *slog.Logger
	now      func() time.Time
}

func NewAuthHandler(apiClient apiCaller, sessions *session.Store, logger *slog.Logger) *AuthHandler {
	return &AuthHandler{
		api:      apiClient,
		sessions: sessions,
		logger:   logger.With("component", "auth_handler"),
		now:      time.Now,
	}
}

type loginRequest struct {
	Email    string `json:"email"    binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// loginUser is the principal inside the backend's /auth/login payload.
type loginUser struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type loginData struct {
	Token string    `json:"token"`
	User  loginUser `json:"user"`
}

type loginResponse struct {
	Role     string `json:"role"`
	Redirect string `json:"redirect"`
	Name     string `json:"name"`
}

// POST /api/auth/login
// Donors get the donor session keys; any other role gets the admin session
// record plus the donor-shaped token and name so navigation state stays
// consistent across both audiences.
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx := c.Request.Context()
	env, err := h.api.Call(ctx, "/auth/login", api.CallOptions{
		Method: http.MethodPost,
		Body:   gin.H{"email": req.Email, "password": req.Password},
	})
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Message})
			return
		}
		h.logger.ErrorContext(ctx, "login upstream", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errNetwork})
		return
	}

	var data loginData
	if err := json.Unmarshal(env.Data, &data); err != nil || data.Token == "" {
		h.logger.ErrorContext(ctx, "decode login payload", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errInvalidLogin})
		return
	}

	if data.User.Role == "donor" {
		if err := h.sessions.SetDonorLogin(ctx, data.Token, data.User.ID, data.User.Name); err != nil {
			h.logger.ErrorContext(ctx, "store donor session", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}
		c.JSON(http.StatusOK, loginResponse{
			Role:     "donor",
			Redirect: "/tracker.html",
			Name:     data.User.Name,
		})
		return
	}

	sess := domain.NewAdminSession(data.Token, domain.AdminIdentity{
		AdminID:     data.User.ID,
		Email:       data.User.Email,
		FullName:    data.User.Name,
		Role:        data.User.Role,
		Permissions: data.User.Permissions,
	}, h.now())

	if err := h.sessions.SetAdminSession(ctx, sess); err != nil {
		h.logger.ErrorContext(ctx, "store admin session", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	// Donor-shaped keys are written alongside so the nav renders the
	// profile for admins too. No donor ID exists for this principal.
	if err := h.sessions.SetDonorLogin(ctx, data.Token, "", data.User.Name); err != nil {
		h.logger.ErrorContext(ctx, "store admin nav keys", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}

	c.JSON(http.StatusOK, loginResponse{
		Role:     data.User.Role,
		Redirect: "/admin/index.html",
		Name:     data.User.Name,
	})
}

// POST /api/auth/logout
// Clears every session key in one shot and lands the user on the homepage.
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.sessions.Logout(ctx); err != nil {
		h.logger.ErrorContext(ctx, "logout", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
		return
	}
	c.JSON(http.StatusOK, gin.H{"redirect": "/index.html"})
}
