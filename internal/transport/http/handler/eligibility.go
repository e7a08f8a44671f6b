package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lifelink/lifelink-web/internal/eligibility"
)

type EligibilityHandler struct{}

func NewEligibilityHandler() *EligibilityHandler {
	return &EligibilityHandler{}
}

type bmiRequest struct {
	WeightKg float64 `json:"weight_kg" binding:"required,gt=0"`
	HeightCm float64 `json:"height_cm" binding:"required,gt=0"`
}

// POST /api/eligibility/bmi
func (h *EligibilityHandler) BMI(c *gin.Context) {
	var req bmiRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := eligibility.BMI(req.WeightKg, req.HeightCm)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}

type wizardRequest struct {
	Age          int     `json:"age"       binding:"required,gt=0"`
	WeightKg     float64 `json:"weight_kg" binding:"required,gt=0"`
	RecentTattoo bool    `json:"recent_tattoo"`
	CurrentlyIll bool    `json:"currently_ill"`
}

// POST /api/eligibility/wizard
func (h *EligibilityHandler) Wizard(c *gin.Context) {
	var req wizardRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := eligibility.Evaluate(req.Age, req.WeightKg, req.RecentTattoo, req.CurrentlyIll)
	c.JSON(http.StatusOK, result)
}
