package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/domain"
	"github.com/lifelink/lifelink-web/internal/session"
)

const searchPageSize = 6

type SearchHandler struct {
	api      apiCaller
	sessions *session.Store
	logger   *slog.Logger
}

func NewSearchHandler(apiClient apiCaller, sessions *session.Store, logger *slog.Logger) *SearchHandler {
	return &SearchHandler{
		api:      apiClient,
		sessions: sessions,
		logger:   logger.With("component", "search_handler"),
	}
}

type searchData struct {
	Donors     []domain.Donor `json:"donors"`
	TotalCount int            `json:"total_count"`
	TotalPages int            `json:"total_pages"`
}

// donorCard is one result row. The phone number ships masked; the client
// reveals it on demand from the unmasked field.
type donorCard struct {
	DonorID      string `json:"donor_id"`
	Name         string `json:"name"`
	BloodGroup   string `json:"blood_group"`
	City         string `json:"city"`
	Area         string `json:"area,omitempty"`
	Phone        string `json:"phone"`
	PhoneMasked  string `json:"phone_masked"`
	Available    bool   `json:"available"`
	LastDonation string `json:"last_donation,omitempty"`
	CanDonateNow bool   `json:"can_donate_now"`
}

// PageButton is one slot in the pagination strip: either a numbered page
// button or an ellipsis separator.
type PageButton struct {
	Page     int  `json:"page,omitempty"`
	Active   bool `json:"active,omitempty"`
	Ellipsis bool `json:"ellipsis,omitempty"`
}

type Pagination struct {
	Page            int          `json:"page"`
	TotalPages      int          `json:"total_pages"`
	PreviousEnabled bool         `json:"previous_enabled"`
	NextEnabled     bool         `json:"next_enabled"`
	Buttons         []PageButton `json:"buttons"`
}

// BuildPagination renders the windowed page-button strip: at most five
// numbered buttons centered on the current page, with first/last pages
// and ellipses added when the window clips.
func BuildPagination(page, totalPages int) Pagination {
	const maxVisible = 5

	p := Pagination{
		Page:            page,
		TotalPages:      totalPages,
		PreviousEnabled: page > 1,
		NextEnabled:     page < totalPages,
	}
	if totalPages <= 1 {
		return p
	}

	start := page - maxVisible/2
	if start < 1 {
		start = 1
	}
	end := start + maxVisible - 1
	if end > totalPages {
		end = totalPages
	}
	if end-start < maxVisible-1 {
		start = end - maxVisible + 1
		if start < 1 {
			start = 1
		}
	}

	if start > 1 {
		p.Buttons = append(p.Buttons, PageButton{Page: 1, Active: page == 1})
		if start > 2 {
			p.Buttons = append(p.Buttons, PageButton{Ellipsis: true})
		}
	}
	for i := start; i <= end; i++ {
		p.Buttons = append(p.Buttons, PageButton{Page: i, Active: i == page})
	}
	if end < totalPages {
		if end < totalPages-1 {
			p.Buttons = append(p.Buttons, PageButton{Ellipsis: true})
		}
		p.Buttons = append(p.Buttons, PageButton{Page: totalPages, Active: page == totalPages})
	}
	return p
}

// GET /api/donors/search
// The upstream search takes a single blood group; multi-group selections,
// the gender filter and sorting are applied over the fetched page, same
// as the old client did.
func (h *SearchHandler) Search(c *gin.Context) {
	groups := splitGroups(c.Query("groups"))
	city := strings.TrimSpace(c.Query("city"))
	availableOnly := c.Query("available") == "true"
	gender := c.Query("gender")
	sortMode := c.Query("sort")

	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}

	params := map[string]string{
		"page":  strconv.Itoa(page),
		"limit": strconv.Itoa(searchPageSize),
	}
	if len(groups) > 0 {
		params["blood_group"] = groups[0]
	}
	if city != "" {
		params["city"] = city
	}
	if params["blood_group"] == "" && params["city"] == "" {
		// Broad match so an unfiltered page still gets results.
		params["search"] = "a"
	}
	if availableOnly {
		params["availability"] = "available"
	}

	ctx := c.Request.Context()
	env, err := h.api.Call(ctx, "/donors/search"+api.BuildQuery(params), api.CallOptions{})
	if err != nil {
		upstreamError(c, h.logger, h.sessions, err, false)
		return
	}

	var data searchData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		h.logger.ErrorContext(ctx, "decode search payload", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errNetwork})
		return
	}

	cards := make([]donorCard, 0, len(data.Donors))
	for _, d := range data.Donors {
		if len(groups) > 1 && !contains(groups, d.BloodGroup) {
			continue
		}
		if gender != "" && d.Gender != gender {
			continue
		}
		cards = append(cards, donorCard{
			DonorID:      d.DonorID,
			Name:         d.Name(),
			BloodGroup:   d.BloodGroup,
			City:         d.City,
			Area:         d.Area,
			Phone:        d.Phone,
			PhoneMasked:  maskPhone(d.Phone),
			Available:    d.Availability == string(domain.Available),
			LastDonation: d.LastDonationDate,
			CanDonateNow: d.CanDonateNow,
		})
	}

	switch sortMode {
	case "az":
		sort.SliceStable(cards, func(i, j int) bool { return cards[i].Name < cards[j].Name })
	case "recent":
		sort.SliceStable(cards, func(i, j int) bool { return cards[i].LastDonation > cards[j].LastDonation })
	}

	c.JSON(http.StatusOK, gin.H{
		"donors":      cards,
		"total_count": data.TotalCount,
		"pagination":  BuildPagination(page, data.TotalPages),
	})
}

func splitGroups(raw string) []string {
	var groups []string
	for _, g := range strings.Split(raw, ",") {
		g = strings.TrimSpace(g)
		if domain.ValidBloodGroup(g) {
			groups = append(groups, g)
		}
	}
	return groups
}

func contains(list []string, v string) bool {
	for _, item := range list {
		if item == v {
			return true
		}
	}
	return false
}

// maskPhone hides all but the last two digits.
func maskPhone(phone string) string {
	if len(phone) <= 2 {
		return phone
	}
	return strings.Repeat("*", len(phone)-2) + phone[len(phone)-2:]
}
