package handler

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/charts"
	"github.com/lifelink/lifelink-web/internal/domain"
	"github.com/lifelink/lifelink-web/internal/session"
)

type EmergencyHandler struct {
	api      apiCaller
	sessions *session.Store
	logger   *slog.Logger
	now      func() time.Time
}

func NewEmergencyHandler(apiClient apiCaller, sessions *session.Store, logger *slog.Logger) *EmergencyHandler {
	return &EmergencyHandler{
		api:      apiClient,
		sessions: sessions,
		logger:   logger.With("component", "emergency_handler"),
		now:      time.Now,
	}
}

// feedCard is one emergency request in the live feed.
type feedCard struct {
	RequestID    string `json:"request_id"`
	Hospital     string `json:"hospital"`
	City         string `json:"city"`
	BloodGroup   string `json:"blood_group"`
	Urgency      string `json:"urgency"`
	UrgencyClass string `json:"urgency_class"`
	Critical     bool   `json:"critical"`
	Requester    string `json:"requester"`
	Units        int    `json:"units"`
	Notes        string `json:"notes"`
	TimeAgo      string `json:"time_ago"`
}

type feedData struct {
	Requests []domain.EmergencyRequest `json:"requests"`
}

// UrgencyClass maps an urgency level to its badge style classes.
func UrgencyClass(level string) string {
	switch strings.ToLower(level) {
	case "critical":
		return "text-red-700 bg-red-100 border-red-200"
	case "urgent":
		return "text-orange-700 bg-orange-100 border-orange-200"
	case "moderate":
		return "text-blue-700 bg-blue-100 border-blue-200"
	default:
		return "text-gray-700 bg-gray-100 border-gray-200"
	}
}

// GET /api/requests
// Open requests only, newest 20. An optional blood group narrows the feed
// after the fetch so the upstream query stays fixed.
func (h *EmergencyHandler) Feed(c *gin.Context) {
	ctx := c.Request.Context()
	env, err := h.api.Call(ctx, "/requests/search?status=open&limit=20", api.CallOptions{})
	if err != nil {
		upstreamError(c, h.logger, h.sessions, err, false)
		return
	}

	var data feedData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		h.logger.ErrorContext(ctx, "decode requests payload", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errNetwork})
		return
	}

	groupFilter := c.Query("blood_group")
	now := h.now()
	cards := make([]feedCard, 0, len(data.Requests))
	for _, r := range data.Requests {
		if groupFilter != "" && r.BloodGroup != groupFilter {
			continue
		}
		hospital := r.HospitalName
		if hospital == "" {
			hospital = "Hospital Not Specified"
		}
		urgency := titleCase(r.UrgencyLevel)
		timeAgo := "Just now"
		if created, err := time.Parse(time.RFC3339, r.CreatedAt); err == nil {
			timeAgo = charts.TimeAgo(created, now)
		}
		cards = append(cards, feedCard{
			RequestID:    r.RequestID,
			Hospital:     hospital,
			City:         r.City,
			BloodGroup:   r.BloodGroup,
			Urgency:      urgency,
			UrgencyClass: UrgencyClass(r.UrgencyLevel),
			Critical:     urgency == "Critical",
			Requester:    r.RequesterName,
			Units:        r.UnitsNeeded,
			Notes:        fmt.Sprintf("%d unit(s) needed • %s", r.UnitsNeeded, r.Status),
			TimeAgo:      timeAgo,
		})
	}

	c.JSON(http.StatusOK, gin.H{"requests": cards})
}

type createRequestInput struct {
	PatientName string `json:"patient_name"`
	Contact     string `json:"contact"     binding:"required"`
	BloodGroup  string `json:"blood_group" binding:"required"`
	Units       int    `json:"units"`
	Urgency     string `json:"urgency"`
	City        string `json:"city"        binding:"required"`
	Hospital    string `json:"hospital"`
	Notes       string `json:"notes"`
}

type createRequestData struct {
	RequestID     string `json:"request_id"`
	MatchedDonors int    `json:"matched_donors_count"`
}

// POST /api/requests
// The toast reports how many donors matched the new request.
func (h *EmergencyHandler) Create(c *gin.Context) {
	var req createRequestInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !domain.ValidBloodGroup(req.BloodGroup) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Please select a valid blood group"})
		return
	}

	requester := req.PatientName
	if requester == "" {
		requester = "Anonymous"
	}
	units := req.Units
	if units < 1 {
		units = 1
	}
	urgency := strings.ToLower(req.Urgency)
	if urgency == "" {
		urgency = string(domain.UrgencyUrgent)
	}

	ctx := c.Request.Context()
	env, err := h.api.Call(ctx, "/requests/create", api.CallOptions{
		Method: http.MethodPost,
		Body: gin.H{
			"requester_name":     requester,
			"requester_phone":    req.Contact,
			"requester_email":    fmt.Sprintf("emergency_%d@lifelink.temp", h.now().UnixMilli()),
			"blood_group_needed": req.BloodGroup,
			"units_needed":       units,
			"urgency_level":      urgency,
			"city":               req.City,
			"hospital_name":      req.Hospital,
			"patient_name":       req.PatientName,
			"reason_for_need":    req.Notes,
		},
	})
	if err != nil {
		upstreamError(c, h.logger, h.sessions, err, false)
		return
	}

	var data createRequestData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		h.logger.WarnContext(ctx, "decode create request payload", "error", err)
	}

	c.JSON(http.StatusCreated, gin.H{
		"request_id": data.RequestID,
		"toast": toast{
			Level:   "success",
			Message: fmt.Sprintf("%s %d donor(s) matched.", msgRequestCreated, data.MatchedDonors),
		},
	})
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
