package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/api"
	"github.com/lifelink/lifelink-web/internal/domain"
	"github.com/lifelink/lifelink-web/internal/session"
)

var phonePattern = regexp.MustCompile(`^[0-9]{10,11}$`)

type RegisterHandler struct {
	api      apiCaller
	sessions *session.Store
	logger   *slog.Logger
}

func NewRegisterHandler(apiClient apiCaller, sessions *session.Store, logger *slog.Logger) *RegisterHandler {
	return &RegisterHandler{
		api:      apiClient,
		sessions: sessions,
		logger:   logger.With("component", "register_handler"),
	}
}

type registerRequest struct {
	FullName   string   `json:"full_name"`
	Email      string   `json:"email"`
	Phone      string   `json:"phone"`
	Password   string   `json:"password"`
	BloodGroup string   `json:"blood_group"`
	City       string   `json:"city"`
	Area       string   `json:"area"`
	Age        int      `json:"age"`
	Gender     string   `json:"gender"`
	Conditions []string `json:"medical_conditions"`
	Available  bool     `json:"available"`
	Consent    bool     `json:"consent"`
}

// validate applies the local rules that gate the upstream call. Field
// errors come back keyed by field name so the form can highlight inline.
func (r registerRequest) validate() map[string]string {
	errs := map[string]string{}
	if len(strings.TrimSpace(r.FullName)) < 3 {
		errs["full_name"] = "Please enter your full name (at least 3 characters)"
	}
	if r.Age < 18 || r.Age > 65 {
		errs["age"] = "Age must be between 18 and 65"
	}
	if !phonePattern.MatchString(r.Phone) {
		errs["phone"] = "Please enter a valid phone number (10-11 digits)"
	}
	if len(r.Password) < 6 {
		errs["password"] = "Password must be at least 6 characters"
	}
	if !domain.ValidBloodGroup(r.BloodGroup) {
		errs["blood_group"] = "Please select your blood group"
	}
	if len(strings.TrimSpace(r.City)) < 3 {
		errs["city"] = "Please enter your city"
	}
	if !r.Consent {
		errs["consent"] = "You must consent to be contacted"
	}
	return errs
}

type registerData struct {
	DonorID string `json:"donor_id"`
}

// POST /api/donors/register
// Invalid fields never reach the network. On a backend rejection (409
// duplicate, 400 validation) the message is surfaced and the submitted
// form is echoed back untouched so nothing is cleared.
func (h *RegisterHandler) Register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if fieldErrs := req.validate(); len(fieldErrs) > 0 {
		c.JSON(http.StatusBadRequest, gin.H{"field_errors": fieldErrs, "form": req})
		return
	}

	nameParts := strings.Fields(req.FullName)
	firstName := nameParts[0]
	lastName := "N/A"
	if len(nameParts) > 1 {
		lastName = strings.Join(nameParts[1:], " ")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		email = fmt.Sprintf("%d@lifelink.temp", time.Now().UnixMilli())
	}
	gender := req.Gender
	if gender == "" {
		gender = "Male"
	}
	availability := string(domain.Unavailable)
	if req.Available {
		availability = string(domain.Available)
	}
	conditions := make([]string, 0, len(req.Conditions))
	for _, cond := range req.Conditions {
		if cond != "None" {
			conditions = append(conditions, cond)
		}
	}

	ctx := c.Request.Context()
	env, err := h.api.Call(ctx, "/donors/register", api.CallOptions{
		Method: http.MethodPost,
		Body: gin.H{
			"first_name":                         firstName,
			"last_name":                          lastName,
			"email":                              email,
			"phone":                              req.Phone,
			"blood_group":                        req.BloodGroup,
			"city":                               strings.TrimSpace(req.City),
			"area":                               strings.TrimSpace(req.Area),
			"age":                                req.Age,
			"weight":                             55,
			"gender":                             gender,
			"medical_conditions":                 conditions,
			"availability_status":                availability,
			"preference_contact_for_emergencies": true,
			"password":                           req.Password,
		},
	})
	if err != nil {
		var apiErr *api.Error
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.Status, gin.H{"error": apiErr.Message, "form": req})
			return
		}
		h.logger.ErrorContext(ctx, "register upstream", "error", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": errNetwork, "form": req})
		return
	}

	var data registerData
	if err := json.Unmarshal(env.Data, &data); err != nil {
		h.logger.WarnContext(ctx, "decode register payload", "error", err)
	}
	if data.DonorID != "" {
		if err := h.sessions.SetDonorRegistration(ctx, data.DonorID, req.BloodGroup); err != nil {
			h.logger.ErrorContext(ctx, "store registration keys", "error", err)
		}
	}

	c.JSON(http.StatusCreated, gin.H{
		"donor_id": data.DonorID,
		"toast":    toast{Level: "success", Message: msgRegistered},
		"redirect": "/login.html",
	})
}
