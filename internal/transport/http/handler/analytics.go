package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/charts"
	"github.com/lifelink/lifelink-web/internal/snapshot"
)

// pausable is what the visibility endpoint drives.
type pausable interface {
	Pause()
	Resume()
}

type AnalyticsHandler struct {
	snap   *snapshot.Analytics
	poller pausable
}

func NewAnalyticsHandler(snap *snapshot.Analytics, poller pausable) *AnalyticsHandler {
	return &AnalyticsHandler{snap: snap, poller: poller}
}

// headerStats is the stat strip above the charts. The dashes are the
// placeholder values shown until a poll succeeds.
type headerStats struct {
	TotalDonors    string `json:"total_donors"`
	ActiveRequests string `json:"active_requests"`
	CriticalCount  string `json:"critical_count"`
	CitiesCovered  string `json:"cities_covered"`
}

func placeholderStats() headerStats {
	return headerStats{
		TotalDonors:    "--",
		ActiveRequests: "--",
		CriticalCount:  "--",
		CitiesCovered:  "--",
	}
}

// GET /api/analytics
// Serves the latest polled snapshot. When no poll has succeeded yet the
// charts are empty and the header shows placeholders; stale data is
// preferred over an error.
func (h *AnalyticsHandler) Charts(c *gin.Context) {
	heatmap, trends, updatedAt, ok := h.snap.View()
	if !ok {
		c.JSON(http.StatusOK, gin.H{
			"ready": false,
			"stats": placeholderStats(),
		})
		return
	}

	resp := gin.H{
		"ready":      true,
		"updated_at": updatedAt.UTC().Format(time.RFC3339),
		"stats": headerStats{
			TotalDonors:    formatCount(heatmap.Summary.TotalDonors),
			ActiveRequests: formatCount(heatmap.Summary.TotalActiveRequests),
			CriticalCount:  formatCount(heatmap.Summary.CriticalRequests),
			CitiesCovered:  formatCount(heatmap.Summary.CitiesCovered),
		},
		"blood_group_supply": charts.BloodGroupSupply(heatmap.BloodGroupSummary),
		"map_markers":        charts.MapMarkers(heatmap.Cities),
	}
	if trends != nil {
		resp["weekly_activity"] = charts.WeeklyActivity(trends.WeeklyActivity)
		resp["critical_timeline"] = charts.CriticalTimeline(trends.CriticalTimeline)
	}

	c.JSON(http.StatusOK, resp)
}

type visibilityRequest struct {
	Hidden bool `json:"hidden"`
}

// POST /api/analytics/visibility
// Pages report tab visibility so the poller idles while nobody watches.
// Becoming visible again triggers an immediate refresh.
func (h *AnalyticsHandler) Visibility(c *gin.Context) {
	var req visibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if req.Hidden {
		h.poller.Pause()
	} else {
		h.poller.Resume()
	}
	c.Status(http.StatusNoContent)
}

// formatCount adds thousands separators, matching how the stat cards
// always rendered their numbers.
func formatCount(n int) string {
	s := ""
	for n >= 1000 {
		s = fmt.Sprintf(",%03d", n%1000) + s
		n /= 1000
	}
	return strconv.Itoa(n) + s
}
