package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/domain"
	"github.com/lifelink/lifelink-web/internal/eligibility"
	"github.com/lifelink/lifelink-web/internal/session"
)

type TrackerHandler struct {
	api      apiCaller
	sessions *session.Store
	logger   *slog.Logger
	now      func() time.Time
}

func NewTrackerHandler(apiClient apiCaller, sessions *session.Store, logger *slog.Logger) *TrackerHandler {
	return &TrackerHandler{
		api:      apiClient,
		sessions: sessions,
		logger:   logger.With("component", "tracker_handler"),
		now:      time.Now,
	}
}

type historyData struct {
	Donations []domain.DonationEntry `json:"donations"`
	DonorName string                 `json:"donor_name"`
}

// trackerStats is the headline block above the donation table.
type trackerStats struct {
	TotalDonations int    `json:"total_donations"`
	LivesSaved     int    `json:"lives_saved"`
	LastDate       string `json:"last_date"`
	LastLocation   string `json:"last_location"`
	NextDate       string `json:"next_date"`
	DaysRemaining  int    `json:"days_remaining"`
	EligibleToday  bool   `json:"eligible_today"`
	StatusLabel    string `json:"status_label"`
}

// GET /api/tracker
// History comes from the backend when reachable, otherwise from the
// session's local donation log. The source is reported so the page can
// show an offline notice.
func (h *TrackerHandler) Dashboard(c *gin.Context) {
	ctx := c.Request.Context()
	donorID := h.sessions.DonorID(ctx)

	donations, source := h.loadHistory(ctx, donorID)
	sortDonations(donations)

	c.JSON(http.StatusOK, gin.H{
		"donations": donations,
		"source":    source,
		"stats":     h.stats(donations),
	})
}

func (h *TrackerHandler) loadHistory(ctx context.Context, donorID string) ([]domain.DonationEntry, string) {
	if donorID != "" {
		env, err := h.api.Call(ctx, "/donors/donation-history?donor_id="+donorID, api.CallOptions{})
		if err == nil {
			var data historyData
			if decodeErr := json.Unmarshal(env.Data, &data); decodeErr == nil {
				return data.Donations, "api"
			}
		}
		h.logger.WarnContext(ctx, "donation history unavailable, using local log", "error", err)
	}
	return h.sessions.Donations(ctx, donorID), "local"
}

func (h *TrackerHandler) stats(donations []domain.DonationEntry) trackerStats {
	stats := trackerStats{
		TotalDonations: len(donations),
		LivesSaved:     eligibility.LivesSaved(len(donations)),
		LastDate:       "--",
		LastLocation:   "--",
		NextDate:       "Anytime",
		EligibleToday:  true,
		StatusLabel:    "Ready to donate!",
	}
	if len(donations) == 0 {
		return stats
	}

	last := donations[0]
	stats.LastDate = last.Date
	stats.LastLocation = last.Location

	lastDate, err := time.Parse("2006-01-02", last.Date)
	if err != nil {
		return stats
	}
	next := eligibility.NextDonation(lastDate, last.Type)
	stats.NextDate = next.Format("2006-01-02")

	days := eligibility.DaysUntil(next, h.now())
	if days <= 0 {
		stats.DaysRemaining = 0
		stats.StatusLabel = "You are eligible today!"
		return stats
	}
	stats.DaysRemaining = days
	stats.EligibleToday = false
	stats.StatusLabel = "days to go"
	return stats
}

type logDonationRequest struct {
	Date     string `json:"date" binding:"required"`
	Location string `json:"location"`
	BP       string `json:"bp"`
	Type     string `json:"type"`
}

// POST /api/tracker/donations
// Hybrid save: the backend first, the session log when that fails. The
// toast reads the same either way.
func (h *TrackerHandler) LogDonation(c *gin.Context) {
	var req logDonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := domain.DonationEntry{
		Date:     req.Date,
		Location: req.Location,
		BP:       req.BP,
		Type:     req.Type,
	}

	ctx := c.Request.Context()
	donorID := h.sessions.DonorID(ctx)
	savedToAPI := false
	if donorID != "" {
		_, err := h.api.Call(ctx, "/donors/donation-history", api.CallOptions{
			Method: http.MethodPost,
			Body: gin.H{
				"donor_id": donorID,
				"date":     entry.Date,
				"location": entry.Location,
				"bp":       entry.BP,
				"type":     entry.Type,
			},
		})
		if err == nil {
			savedToAPI = true
		} else {
			h.logger.WarnContext(ctx, "save donation upstream failed, keeping local", "error", err)
		}
	}

	if !savedToAPI {
		if err := h.sessions.AppendDonation(ctx, donorID, entry); err != nil {
			h.logger.ErrorContext(ctx, "save donation locally", "error", err)
			c.JSON(http.StatusInternalServerError, gin.H{"error": errInternalServer})
			return
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"saved_to_api": savedToAPI,
		"toast":        toast{Level: "success", Message: msgDonationLogged},
	})
}

// sortDonations orders entries newest first by date string (ISO dates
// sort lexicographically).
func sortDonations(donations []domain.DonationEntry) {
	sort.SliceStable(donations, func(i, j int) bool {
		return donations[i].Date > donations[j].Date
	})
}
