package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/charts"
	"github.com/lifelink/lifelink-web/internal/domain"
	"github.com/lifelink/lifelink-web/internal/session"
)

type AdminHandler struct {
	api      apiCaller
	sessions *session.Store
	logger   *slog.Logger
	now      func() time.Time
}

func NewAdminHandler(apiClient apiCaller, sessions *session.Store, logger *slog.Logger) *AdminHandler {
	return &AdminHandler{
		api:      apiClient,
		sessions: sessions,
		logger:   logger.With("component", "admin_handler"),
		now:      time.Now,
	}
}

type adminDonorsData struct {
	Donors []domain.Donor `json:"donors"`
}

type adminRequestsData struct {
	Requests []domain.EmergencyRequest `json:"requests"`
}

type dashboardResponse struct {
	Stats    *domain.AdminStats        `json:"stats"`
	Donors   []domain.Donor            `json:"donors"`
	Requests []domain.EmergencyRequest `json:"requests"`
}

// GET /api/admin/dashboard
// Stats, donors and requests load in parallel. A partial failure still
// returns what arrived; a 401 from any call expires the session.
func (h *AdminHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		wg         sync.WaitGroup
		resp       dashboardResponse
		firstErr   error
		firstErrMu sync.Mutex
	)
	recordErr := func(err error) {
		firstErrMu.Lock()
		defer firstErrMu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(3)
	go func() {
		defer wg.Done()
		env, err := h.api.Call(ctx, "/admin/stats", api.CallOptions{Auth: true})
		if err != nil {
			recordErr(err)
			return
		}
		var stats domain.AdminStats
		if err := json.Unmarshal(env.Data, &stats); err == nil {
			resp.Stats = &stats
		}
	}()
	go func() {
		defer wg.Done()
		env, err := h.api.Call(ctx, "/admin/donors", api.CallOptions{Auth: true})
		if err != nil {
			recordErr(err)
			return
		}
		var data adminDonorsData
		if err := json.Unmarshal(env.Data, &data); err == nil {
			resp.Donors = data.Donors
		}
	}()
	go func() {
		defer wg.Done()
		env, err := h.api.Call(ctx, "/admin/requests", api.CallOptions{Auth: true})
		if err != nil {
			recordErr(err)
			return
		}
		var data adminRequestsData
		if err := json.Unmarshal(env.Data, &data); err == nil {
			resp.Requests = data.Requests
		}
	}()
	wg.Wait()

	if firstErr != nil && api.IsUnauthorized(firstErr) {
		upstreamError(c, h.logger, h.sessions, firstErr, true)
		return
	}
	if firstErr != nil && resp.Stats == nil && resp.Donors == nil && resp.Requests == nil {
		upstreamError(c, h.logger, h.sessions, firstErr, true)
		return
	}

	c.JSON(http.StatusOK, resp)
}

// GET /api/admin/donors
// Full donor list for the view-all toggle. An optional q narrows by name,
// city, blood group or phone, mirroring the dashboard search box.
func (h *AdminHandler) Donors(c *gin.Context) {
	ctx := c.Request.Context()
	env, err := h.api.Call(ctx, "/admin/donors?limit=1000", api.CallOptions{Auth: true})
	if err != nil {
		upstreamError(c, h.logger, h.sessions, err, true)
		return
	}

	var data adminDonorsData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		h.logger.ErrorContext(ctx, "decode admin donors", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errNetwork})
		return
	}

	donors := data.Donors
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		filtered := donors[:0:0]
		for _, d := range donors {
			if strings.Contains(strings.ToLower(d.Name()), q) ||
				strings.Contains(strings.ToLower(d.City), q) ||
				strings.Contains(strings.ToLower(d.BloodGroup), q) ||
				strings.Contains(d.Phone, q) {
				filtered = append(filtered, d)
			}
		}
		donors = filtered
	}

	c.JSON(http.StatusOK, gin.H{"donors": donors})
}

// GET /api/admin/requests
func (h *AdminHandler) Requests(c *gin.Context) {
	ctx := c.Request.Context()
	env, err := h.api.Call(ctx, "/admin/requests?limit=1000", api.CallOptions{Auth: true})
	if err != nil {
		upstreamError(c, h.logger, h.sessions, err, true)
		return
	}

	var data adminRequestsData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		h.logger.ErrorContext(ctx, "decode admin requests", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errNetwork})
		return
	}

	requests := data.Requests
	if q := strings.ToLower(strings.TrimSpace(c.Query("q"))); q != "" {
		filtered := requests[:0:0]
		for _, r := range requests {
			if strings.Contains(strings.ToLower(r.PatientName), q) ||
				strings.Contains(strings.ToLower(r.HospitalName), q) ||
				strings.Contains(strings.ToLower(r.BloodGroup), q) ||
				strings.Contains(strings.ToLower(r.UrgencyLevel), q) {
				filtered = append(filtered, r)
			}
		}
		requests = filtered
	}

	c.JSON(http.StatusOK, gin.H{"requests": requests})
}

// GET /api/admin/analytics
// Chart datasets for the analytics page, aggregated here from the full
// donor and request lists. Both lists must load; unlike the dashboard
// there is no partial render.
func (h *AdminHandler) Analytics(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		wg         sync.WaitGroup
		donors     adminDonorsData
		requests   adminRequestsData
		firstErr   error
		firstErrMu sync.Mutex
	)
	recordErr := func(err error) {
		firstErrMu.Lock()
		defer firstErrMu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	wg.Add(2)
	go func() {
		defer wg.Done()
		env, err := h.api.Call(ctx, "/admin/donors?limit=1000", api.CallOptions{Auth: true})
		if err != nil {
			recordErr(err)
			return
		}
		if err := json.Unmarshal(env.Data, &donors); err != nil {
			recordErr(err)
		}
	}()
	go func() {
		defer wg.Done()
		env, err := h.api.Call(ctx, "/admin/requests?limit=1000", api.CallOptions{Auth: true})
		if err != nil {
			recordErr(err)
			return
		}
		if err := json.Unmarshal(env.Data, &requests); err != nil {
			recordErr(err)
		}
	}()
	wg.Wait()

	if firstErr != nil {
		upstreamError(c, h.logger, h.sessions, firstErr, true)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"registration_trend": charts.RegistrationTrend(donors.Donors, h.now()),
		"blood_groups":       charts.BloodGroupDistribution(donors.Donors),
		"request_status":     charts.RequestStatusOverview(requests.Requests),
		"urgency":            charts.UrgencyBreakdown(requests.Requests),
	})
}

type updateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// PUT /api/admin/requests/:id/status
func (h *AdminHandler) UpdateStatus(c *gin.Context) {
	var req updateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidRequestStatus(req.Status) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request status"})
		return
	}

	ctx := c.Request.Context()
	_, err := h.api.Call(ctx, "/requests/status", api.CallOptions{
		Method: http.MethodPut,
		Body:   gin.H{"request_id": c.Param("id"), "status": req.Status},
		Auth:   true,
	})
	if err != nil {
		upstreamError(c, h.logger, h.sessions, err, true)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"toast": toast{Level: "success", Message: msgStatusUpdated + " to " + req.Status},
	})
}

// DELETE /api/admin/requests/:id
func (h *AdminHandler) DeleteRequest(c *gin.Context) {
	ctx := c.Request.Context()
	_, err := h.api.Call(ctx, "/requests/"+c.Param("id"), api.CallOptions{
		Method: http.MethodDelete,
		Auth:   true,
	})
	if err != nil {
		upstreamError(c, h.logger, h.sessions, err, true)
		return
	}
	c.JSON(http.StatusOK, gin.H{"toast": toast{Level: "success", Message: msgDeletedRequest}})
}

// DELETE /api/admin/donors/:id
func (h *AdminHandler) DeleteDonor(c *gin.Context) {
	ctx := c.Request.Context()
	_, err := h.api.Call(ctx, "/donors/"+c.Param("id"), api.CallOptions{
		Method: http.MethodDelete,
		Auth:   true,
	})
	if err != nil {
		upstreamError(c, h.logger, h.sessions, err, true)
		return
	}
	c.JSON(http.StatusOK, gin.H{"toast": toast{Level: "success", Message: msgDeletedDonor}})
}

type adminCreateRequest struct {
	RequesterName  string `json:"requester_name"  binding:"required"`
	RequesterEmail string `json:"requester_email" binding:"required,email"`
	Phone          string `json:"phone"           binding:"required"`
	BloodGroup     string `json:"blood_group"     binding:"required"`
	Units          int    `json:"units"           binding:"required,min=1"`
	Hospital       string `json:"hospital"`
	City           string `json:"city"            binding:"required"`
	Urgency        string `json:"urgency"         binding:"required"`
}

// POST /api/admin/requests
func (h *AdminHandler) CreateRequest(c *gin.Context) {
	var req adminCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidBloodGroup(req.BloodGroup) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a valid blood group"})
		return
	}

	ctx := c.Request.Context()
	_, err := h.api.Call(ctx, "/requests/create", api.CallOptions{
		Method: http.MethodPost,
		Body: gin.H{
			"requester_name":     req.RequesterName,
			"requester_email":    req.RequesterEmail,
			"requester_phone":    req.Phone,
			"blood_group_needed": req.BloodGroup,
			"units_needed":       req.Units,
			"hospital_name":      req.Hospital,
			"city":               req.City,
			"urgency_level":      strings.ToLower(req.Urgency),
			"patient_name":       req.RequesterName,
			"status":             string(domain.StatusOpen),
		},
		Auth: true,
	})
	if err != nil {
		upstreamError(c, h.logger, h.sessions, err, true)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"toast": toast{Level: "success", Message: msgRequestCreated},
	})
}
